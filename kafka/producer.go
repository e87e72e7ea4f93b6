package kafka

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
)

type Producer interface {
	SendConversionEvent(ctx context.Context, topic string, event *ConversionEvent) error
	Close() error
}

// ConversionEvent is emitted once per conversion attempt, keyed by the
// output token so downstream consumers see one partition per document.
type ConversionEvent struct {
	TraceID      string `json:"trace_id"`
	OriginalName string `json:"original_name"`
	OutputName   string `json:"output_name"`
	DPI          int    `json:"dpi"`
	Status       string `json:"status"`
	Error        string `json:"error,omitempty"`
	OccurredAt   string `json:"occurred_at"`
}

type producer struct {
	producer sarama.SyncProducer
}

func NewProducer(brokers []string) (Producer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true

	p, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, err
	}

	return &producer{producer: p}, nil
}

func (p *producer) SendConversionEvent(ctx context.Context, topic string, event *ConversionEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(event.OutputName),
		Value: sarama.ByteEncoder(data),
	}

	_, _, err = p.producer.SendMessage(msg)
	return err
}

func (p *producer) Close() error {
	return p.producer.Close()
}
