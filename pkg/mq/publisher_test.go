package mq

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogPublisher_WritesEvent(t *testing.T) {
	var buf bytes.Buffer
	publisher := LogPublisher{Logger: slog.New(slog.NewJSONHandler(&buf, nil))}
	body := json.RawMessage(`{"groupID":7,"totalCapital":"50000.00"}`)

	err := publisher.Publish(context.Background(), "sharing.executed", "evt-1", body)
	require.NoError(t, err)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "Event published", line["msg"])
	assert.Equal(t, "sharing.executed", line["routing_key"])
	assert.Equal(t, "evt-1", line["event_id"])

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(line["payload"].(string)), &payload))
	assert.EqualValues(t, 7, payload["groupID"])
	assert.Equal(t, "50000.00", payload["totalCapital"])
}

func TestLogPublisher_DefaultLogger(t *testing.T) {
	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	defer slog.SetDefault(previous)

	require.NoError(t, LogPublisher{}.Publish(context.Background(), "cycle.phase_advanced", "evt-2", json.RawMessage(`{}`)))
	assert.Contains(t, buf.String(), `"routing_key":"cycle.phase_advanced"`)
}

func TestPublisher_NotConnected(t *testing.T) {
	p := &Publisher{exchange: "avec.events"}

	assert.False(t, p.IsConnected())
	err := p.Publish(context.Background(), "transaction.created", "evt-3", json.RawMessage(`{}`))
	assert.EqualError(t, err, "publisher connection is closed")
	assert.NotPanics(t, p.Close)
}
