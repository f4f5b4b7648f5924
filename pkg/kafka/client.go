// Package kafka carries feedback events between the API and the notifier.
package kafka

import (
	"context"
	"encoding/json"

	"github.com/gamisaur/gccan/internal/config"
	"github.com/gamisaur/gccan/pkg/log"
	"github.com/gamisaur/gccan/pkg/tasks"
	"github.com/segmentio/kafka-go"
)

// TaskProcessor is implemented by anything that can handle a feedback event.
// It decouples the consumer loop from the concrete notifier.
type TaskProcessor interface {
	Process(ctx context.Context, task tasks.FeedbackSubmittedTask) error
}

var producer *kafka.Writer

// InitProducer initializes the feedback event producer.
func InitProducer(cfg config.KafkaConfig) {
	producer = &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers),
		Topic:    cfg.Topic,
		Balancer: &kafka.LeastBytes{},
	}
	log.Info("Kafka producer initialized successfully")
}

// ProduceFeedbackTask publishes a feedback-submitted event.
func ProduceFeedbackTask(task tasks.FeedbackSubmittedTask) error {
	taskBytes, err := json.Marshal(task)
	if err != nil {
		return err
	}

	return producer.WriteMessages(context.Background(),
		kafka.Message{
			Value: taskBytes,
		},
	)
}

// StartConsumer runs the consumer loop handing feedback events to processor.
func StartConsumer(cfg config.KafkaConfig, processor TaskProcessor) {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  []string{cfg.Brokers},
		Topic:    cfg.Topic,
		GroupID:  "gccan-notifier",
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})

	log.Infof("Kafka consumer started, listening on topic '%s'", cfg.Topic)

	for {
		m, err := r.FetchMessage(context.Background())
		if err != nil {
			log.Error("failed to read message from Kafka", err)
			break
		}

		var task tasks.FeedbackSubmittedTask
		if err := json.Unmarshal(m.Value, &task); err != nil {
			log.Errorf("failed to decode Kafka message: %v, value: %s", err, string(m.Value))
			// Malformed message: commit it so it does not block the topic.
			if err := r.CommitMessages(context.Background(), m); err != nil {
				log.Errorf("failed to commit malformed message: %v", err)
			}
			continue
		}

		if err := processor.Process(context.Background(), task); err != nil {
			// Notifications are best-effort; commit and move on.
			log.Errorf("failed to process feedback event %s: %v", task.FeedbackID, err)
		}
		if err := r.CommitMessages(context.Background(), m); err != nil {
			log.Errorf("failed to commit Kafka message offset: %v", err)
		}
	}

	if err := r.Close(); err != nil {
		log.Fatalf("failed to close Kafka consumer: %v", err)
	}
}
