/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication, keeping the ledger
  types free of JSON tags.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Response wrappers

VALIDATION:
  Validation is done by the ledger service, not in DTOs. DTOs are pure
  data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/warp/leave-ledger/ledger"
	"github.com/warp/leave-ledger/render"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// RegisterEmployeeRequest is the body for POST /api/employees.
type RegisterEmployeeRequest struct {
	Name string `json:"name"`
}

// ApplyLeaveRequest is the body for POST /api/employees/{id}/leaves.
type ApplyLeaveRequest struct {
	LeaveDates []string `json:"leave_dates"`
	Purpose    string   `json:"purpose"`
}

// CancelLeaveRequest is the body for POST /api/employees/{id}/leaves/cancel.
type CancelLeaveRequest struct {
	LeaveDates []string `json:"leave_dates"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// MessageResponse carries the desk's human-readable answer.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is returned for malformed requests that never reach the desk.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Balance int    `json:"balance"`
}

// LeaveRecordDTO is one day of leave.
type LeaveRecordDTO struct {
	Date    string `json:"date"`
	Purpose string `json:"purpose"`
}

// HistoryDTO is the structured form of an employee's leave history.
type HistoryDTO struct {
	EmployeeID   string           `json:"employee_id"`
	EmployeeName string           `json:"employee_name"`
	Balance      int              `json:"balance"`
	Records      []LeaveRecordDTO `json:"records"`
}

// AuditEntryDTO represents an audit entry in API responses.
type AuditEntryDTO struct {
	ID         string         `json:"id"`
	At         time.Time      `json:"at"`
	Action     string         `json:"action"`
	EmployeeID string         `json:"employee_id"`
	Payload    map[string]any `json:"payload,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toEmployeeDTO(e ledger.Employee) EmployeeDTO {
	return EmployeeDTO{ID: e.ID, Name: e.Name, Balance: e.Balance}
}

func toHistoryDTO(h ledger.History) HistoryDTO {
	records := make([]LeaveRecordDTO, len(h.Records))
	for i, rec := range h.Records {
		records[i] = LeaveRecordDTO{Date: rec.Date, Purpose: render.Purpose(rec.Purpose)}
	}
	return HistoryDTO{
		EmployeeID:   h.EmployeeID,
		EmployeeName: h.EmployeeName,
		Balance:      h.Balance,
		Records:      records,
	}
}

func toAuditEntryDTO(e ledger.AuditEntry) AuditEntryDTO {
	return AuditEntryDTO{
		ID:         e.ID,
		At:         e.At,
		Action:     string(e.Action),
		EmployeeID: e.EmployeeID,
		Payload:    e.Payload,
	}
}
