package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/flight-planner-service/internal/event"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2026, 8, 30, 15, 10, 0, 0, time.UTC)
	e := event.PlanEvent{
		Type:            event.TypePlanCreated,
		PlanID:          "plan-1",
		UserID:          "user-1",
		AircraftCode:    "B777-300ER",
		OriginICAO:      "KLAX",
		DestinationICAO: "KJFK",
		Status:          "approved",
		Approved:        true,
		OccurredAt:      now,
	}

	msg, err := serializeToMessage(e)
	require.NoError(t, err)

	assert.Equal(t, []byte("plan-1"), msg.Key)
	assert.Contains(t, string(msg.Value), `"event_type":"plan.created"`)
	assert.Contains(t, string(msg.Value), `"origin_icao":"KLAX"`)
	assert.Len(t, msg.Headers, 2)
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, []byte("plan.created"), msg.Headers[0].Value)
	assert.Equal(t, "occurred_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)
}

func TestSerializeToMessageEmptyKey(t *testing.T) {
	msg, err := serializeToMessage(event.PlanEvent{Type: event.TypeFlightLogged, UserID: "user-1"})
	require.NoError(t, err)
	assert.Empty(t, msg.Key)

	require.Len(t, msg.Headers, 2)
	assert.Equal(t, []byte("flight.logged"), msg.Headers[0].Value)
}
