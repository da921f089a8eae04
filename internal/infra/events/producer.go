package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/m04kA/DDC-BookingService/pkg/logger"
)

// Publisher публикует доменные события; сервисы зависят от этого
// интерфейса, а не от конкретного продюсера
type Publisher interface {
	Publish(ctx context.Context, payload any) error
}

// Producer публикует события в Kafka
type Producer struct {
	writer *kafka.Writer
	topic  string
	logger *logger.Logger
}

// NewProducer создает продюсер событий поверх kafka-go
func NewProducer(brokers []string, topic string, log *logger.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}

	return &Producer{
		writer: writer,
		topic:  topic,
		logger: log,
	}
}

// Publish сериализует событие в JSON и отправляет в топик.
// Ключ сообщения - случайный UUID, порядок внутри партиции не важен.
func (p *Producer) Publish(ctx context.Context, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("events: failed to marshal payload: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(uuid.NewString()),
		Value: data,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("events: failed to write message: %w", err)
	}

	p.logger.Debug("events: published to topic %s: %s", p.topic, string(data))
	return nil
}

// Close закрывает продюсер
func (p *Producer) Close() error {
	return p.writer.Close()
}

// NopPublisher заглушка на случай выключенной шины событий
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, any) error { return nil }
