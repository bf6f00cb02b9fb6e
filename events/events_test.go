package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_KeepsOrder(t *testing.T) {
	r := NewRecorder()
	ctx := context.Background()

	require.NoError(t, r.Publish(ctx, NewEmployeeRegistered("0005", "Bolatito", 20)))
	require.NoError(t, r.Publish(ctx, NewLeaveApplied("0005", "sick", []string{"2026-07-20"}, 19)))

	got := r.Events()
	require.Len(t, got, 2)
	assert.Equal(t, TypeEmployeeRegistered, got[0].Type)
	assert.Equal(t, TypeLeaveApplied, got[1].Type)
	assert.NotEqual(t, got[0].ID, got[1].ID, "event ids should be unique")
}

func TestEncodeMessage(t *testing.T) {
	// GIVEN: a cancellation event
	event := NewLeaveCancelled("0001", []string{"2026-07-20", "2026-07-21"}, 0)

	// WHEN: encoding it for kafka
	msg, err := encodeMessage(event)
	require.NoError(t, err)

	// THEN: the key is the employee and the value round-trips
	assert.Equal(t, "0001", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "leave_cancelled", string(msg.Headers[0].Value))

	var decoded struct {
		Type       string `json:"type"`
		EmployeeID string `json:"employee_id"`
		Data       struct {
			Dates []string `json:"dates"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "leave_cancelled", decoded.Type)
	assert.Equal(t, "0001", decoded.EmployeeID)
	assert.Equal(t, []string{"2026-07-20", "2026-07-21"}, decoded.Data.Dates)
}

func TestNop(t *testing.T) {
	assert.NoError(t, Nop{}.Publish(context.Background(), NewEmployeeRegistered("0001", "Wale", 20)))
}

func TestNewKafkaPublisher_Timeout(t *testing.T) {
	p := NewKafkaPublisher([]string{"localhost:9092"}, "")
	assert.Equal(t, DefaultPublishTimeout, p.timeout)
	assert.Equal(t, DefaultTopic, p.writer.Topic)

	p = NewKafkaPublisher([]string{"localhost:9092"}, "t", WithPublishTimeout(500*time.Millisecond))
	assert.Equal(t, 500*time.Millisecond, p.timeout)

	p = NewKafkaPublisher([]string{"localhost:9092"}, "t", WithPublishTimeout(0))
	assert.Equal(t, DefaultPublishTimeout, p.timeout)
}

func TestKafkaPublisher_UnreachableBrokerFailsFast(t *testing.T) {
	// GIVEN: a publisher pointed at a port nothing listens on
	p := NewKafkaPublisher([]string{"127.0.0.1:1"}, "leave-events", WithPublishTimeout(200*time.Millisecond))
	defer p.Close()

	// WHEN: publishing
	start := time.Now()
	err := p.Publish(context.Background(), NewEmployeeRegistered("0005", "Bolatito", 20))

	// THEN: it gives up within the timeout instead of blocking
	require.Error(t, err)
	assert.Less(t, time.Since(start), 3*time.Second)
}
