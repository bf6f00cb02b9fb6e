/*
Package events defines the notifications emitted after ledger mutations and
the publishers that deliver them.

EVENTS:
  employee_registered  a new employee joined the registry
  leave_applied        leave days were booked and the balance deducted
  leave_cancelled      leave records were removed

DELIVERY:
  Publishing happens after the mutation is committed. A failed publish is
  logged by the caller and never undoes the mutation.

PUBLISHERS:
  KafkaPublisher  JSON messages keyed by employee id (segmentio/kafka-go)
  Recorder        keeps events in memory, for tests and local runs
  Nop             drops everything
*/
package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeEmployeeRegistered Type = "employee_registered"
	TypeLeaveApplied       Type = "leave_applied"
	TypeLeaveCancelled     Type = "leave_cancelled"
)

// Event is the envelope written to the wire.
type Event struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	EmployeeID string    `json:"employee_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

type EmployeeRegistered struct {
	Name    string `json:"name"`
	Balance int    `json:"balance"`
}

type LeaveApplied struct {
	Purpose string   `json:"purpose"`
	Dates   []string `json:"dates"`
	Balance int      `json:"balance"`
}

type LeaveCancelled struct {
	Dates    []string `json:"dates"`
	Restored int      `json:"restored"`
}

func newEvent(t Type, employeeID string, data any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		EmployeeID: employeeID,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

func NewEmployeeRegistered(employeeID, name string, balance int) Event {
	return newEvent(TypeEmployeeRegistered, employeeID, EmployeeRegistered{Name: name, Balance: balance})
}

func NewLeaveApplied(employeeID, purpose string, dates []string, balance int) Event {
	return newEvent(TypeLeaveApplied, employeeID, LeaveApplied{Purpose: purpose, Dates: dates, Balance: balance})
}

func NewLeaveCancelled(employeeID string, dates []string, restored int) Event {
	return newEvent(TypeLeaveCancelled, employeeID, LeaveCancelled{Dates: dates, Restored: restored})
}

// Publisher delivers events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Nop discards events.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Publish(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

var (
	_ Publisher = Nop{}
	_ Publisher = (*Recorder)(nil)
)
