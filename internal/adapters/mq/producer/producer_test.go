package producer

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"bannerd/internal/domain/events"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockWriter struct {
	messages []kafka.Message
	closed   bool
}

func (m *MockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	m.messages = append(m.messages, msgs...)
	return nil
}

func (m *MockWriter) Close() error {
	m.closed = true
	return nil
}

func TestProducer(t *testing.T) {
	mockWriter := &MockWriter{}
	p := NewProducer(mockWriter)

	t.Run("Publish success", func(t *testing.T) {
		ev := events.BannerEvent{
			Type:      events.EventClick,
			BannerID:  "banner-42",
			Count:     7,
			Timestamp: time.Now().UTC(),
		}

		err := p.Publish(context.Background(), ev)
		assert.NoError(t, err)
		require.Len(t, mockWriter.messages, 1)

		msg := mockWriter.messages[0]
		assert.Equal(t, []byte("banner-42"), msg.Key)

		var decoded events.BannerEvent
		require.NoError(t, json.Unmarshal(msg.Value, &decoded))
		assert.Equal(t, events.EventClick, decoded.Type)
		assert.Equal(t, int64(7), decoded.Count)
	})

	t.Run("Close success", func(t *testing.T) {
		err := p.Close()
		assert.NoError(t, err)
		assert.True(t, mockWriter.closed)
	})
}

func TestNewWriter(t *testing.T) {
	w := NewWriter([]string{"localhost:9092", "localhost:9093"}, "banner-events")

	require.NotNil(t, w)
	assert.Equal(t, "banner-events", w.Topic)
	assert.True(t, w.AllowAutoTopicCreation)
}
