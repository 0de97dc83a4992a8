package service

import (
	"context"
	"encoding/json"
	"tarkovapi/model/restmodel"
	"tarkovapi/repository"

	"github.com/segmentio/kafka-go"
)

// IngestionPublisher announces committed ingestion runs to downstream
// consumers.
type IngestionPublisher interface {
	Publish(ctx context.Context, record *repository.IngestionRecord) error
}

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type KafkaPublisher struct {
	writer MessageWriter
}

func NewKafkaPublisher(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

// Publish keys the message by collection so runs of one collection stay in
// order on a partition.
func (p *KafkaPublisher) Publish(ctx context.Context, record *repository.IngestionRecord) error {
	message, err := json.Marshal(restmodel.ToIngestionRecordResponse(record))
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(record.Source),
		Value: message,
	})
}
