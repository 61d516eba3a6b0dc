package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	key, msg, err := message(Event{Type: TypeDownload, UserID: "u1", Amount: -2, Count: 2, LeadIDs: []string{"L1", "L2"}, OccurredAt: at})
	require.NoError(t, err)

	assert.Equal(t, "ledger.download", key)
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, at, msg.Timestamp)

	var body map[string]any
	require.NoError(t, json.Unmarshal(msg.Body, &body))
	assert.Equal(t, "u1", body["user_id"])
	assert.Equal(t, float64(-2), body["amount"])
	assert.Equal(t, []any{"L1", "L2"}, body["lead_ids"])
}

func TestMessageOmitsEmptyLeadIDs(t *testing.T) {
	_, msg, err := message(Event{Type: TypeGrant, UserID: "u1", Amount: 25})
	require.NoError(t, err)
	assert.NotContains(t, string(msg.Body), "lead_ids")
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), Event{Type: TypeImport}))
}
