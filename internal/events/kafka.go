package events

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

const kafkaWriteTimeout = 5 * time.Second

// KafkaSink forwards bus events to a Kafka topic, keyed by event key.
type KafkaSink struct {
	writer messageWriter
	logger *log.Logger
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

func NewKafkaSink(brokers []string, topic string, logger *log.Logger) *KafkaSink {
	return newKafkaSink(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}, logger)
}

func newKafkaSink(w messageWriter, logger *log.Logger) *KafkaSink {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &KafkaSink{writer: w, logger: logger}
}

// Attach subscribes the sink to each topic on bus.
func (s *KafkaSink) Attach(bus *Bus, topics ...string) {
	for _, topic := range topics {
		bus.Subscribe(topic, s.Handle)
	}
}

// Handle writes e to Kafka. Failures are logged and never reach the publisher.
func (s *KafkaSink) Handle(ctx context.Context, e Event) {
	msg, err := encodeMessage(e)
	if err != nil {
		s.logger.Printf("kafka sink: encode topic=%s key=%s error=%v", e.Topic, e.Key, err)
		return
	}
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), kafkaWriteTimeout)
	defer cancel()
	if err := s.writer.WriteMessages(writeCtx, msg); err != nil {
		s.logger.Printf("kafka sink: write topic=%s key=%s error=%v", e.Topic, e.Key, err)
	}
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}

func encodeMessage(e Event) (kafka.Message, error) {
	value, err := json.Marshal(e)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal event: %w", err)
	}
	return kafka.Message{
		Key:     []byte(e.Key),
		Value:   value,
		Headers: []kafka.Header{{Key: "event-topic", Value: []byte(e.Topic)}},
		Time:    e.At,
	}, nil
}
