package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	raw, err := Encode(BaseEvent{Type: ContactUpdated, Data: map[string]interface{}{"count": 2.0}, OccurredAt: at})
	require.NoError(t, err)

	got, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, ContactUpdated, got.EventType())
	assert.Equal(t, 2.0, got.Payload()["count"])
	assert.True(t, at.Equal(got.Timestamp()))
}

func TestDecodeRejectsUntyped(t *testing.T) {
	_, err := Decode([]byte(`{"data":{}}`))
	assert.Error(t, err)
	_, err = Decode([]byte(`nope`))
	assert.Error(t, err)
}
