// Package kafka provides a rating event ingester reading from a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"go.uber.org/zap"

	"github.com/vaibhavisno-one/movierating/ratings/pkg/model"
)

// Ingester consumes rating events from Kafka.
type Ingester struct {
	consumer *kafka.Consumer
	topic    string
	logger   *zap.Logger
}

// New creates a Kafka ingester for the given broker address, consumer group
// and topic.
func New(addr, groupID, topic string, logger *zap.Logger) (*Ingester, error) {
	consumer, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers": addr,
		"group.id":          groupID,
		"auto.offset.reset": "earliest",
	})
	if err != nil {
		return nil, err
	}
	return &Ingester{consumer: consumer, topic: topic, logger: logger}, nil
}

// Ingest subscribes to the topic and returns a channel of rating events.
// The channel closes when the context is cancelled. Messages that fail to
// parse are logged and skipped.
func (i *Ingester) Ingest(ctx context.Context) (chan model.RatingEvent, error) {
	if err := i.consumer.SubscribeTopics([]string{i.topic}, nil); err != nil {
		return nil, err
	}
	ch := make(chan model.RatingEvent, 1)
	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				i.logger.Info("Closing the rating event ingester")
				if err := i.consumer.Close(); err != nil {
					i.logger.Error("Failed to close the Kafka consumer", zap.Error(err))
				}
				return
			default:
			}
			// A finite poll keeps the loop responsive to cancellation
			// while the topic is idle.
			msg, err := i.consumer.ReadMessage(time.Second)
			if err != nil {
				if kerr, ok := err.(kafka.Error); ok && kerr.Code() == kafka.ErrTimedOut {
					continue
				}
				i.logger.Warn("Failed to read rating event", zap.Error(err))
				continue
			}
			var event model.RatingEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				i.logger.Warn("Skipping unparsable rating event", zap.Error(err))
				continue
			}
			ch <- event
		}
	}()
	return ch, nil
}
