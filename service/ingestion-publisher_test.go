package service

import (
	"context"
	"encoding/json"
	"tarkovapi/repository"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	messages []kafka.Message
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.messages = append(w.messages, msgs...)
	return nil
}

func TestKafkaPublisherKeysByCollection(t *testing.T) {
	writer := &recordingWriter{}
	publisher := NewKafkaPublisher(writer)
	record := &repository.IngestionRecord{
		Id:          3,
		Source:      repository.CollectionTasks,
		Origin:      repository.OriginFile,
		Timestamp:   time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		EntityCount: 12,
	}

	require.NoError(t, publisher.Publish(context.Background(), record))
	require.Len(t, writer.messages, 1)
	assert.Equal(t, "tasks", string(writer.messages[0].Key))

	var body map[string]any
	require.NoError(t, json.Unmarshal(writer.messages[0].Value, &body))
	assert.Equal(t, "tasks", body["collection"])
	assert.Equal(t, "file", body["origin"])
	assert.EqualValues(t, 12, body["entityCount"])
}
