package kafka

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"auth_pay_service/internal/domain"

	"github.com/segmentio/kafka-go"
)

// batchTimeout bounds how long a single synchronous write waits for a batch to fill
const batchTimeout = 10 * time.Millisecond

// Publisher writes PaymentCompleted events to a Kafka topic
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher returns a Publisher writing to topic on the given brokers
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			BatchTimeout: batchTimeout,
			WriteTimeout: 5 * time.Second,
		},
	}
}

// Publish sends the event keyed by account so one account's events stay ordered
func (p *Publisher) Publish(ctx context.Context, event domain.PaymentCompleted) error {
	msg, err := encode(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

// Close flushes and closes the writer
func (p *Publisher) Close() error {
	return p.writer.Close()
}

func encode(event domain.PaymentCompleted) (kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(event.AccountID), 10)),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event", Value: []byte("payment_completed")},
		},
	}, nil
}
