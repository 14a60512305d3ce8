package lib

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"go.uber.org/zap"
)

const kafkaFlushTimeoutMs = 5000

func GetKafkaProducerConfig(clientId string) *kafka.ConfigMap {
	return &kafka.ConfigMap{
		"bootstrap.servers": os.Getenv("KAFKA_BROKER"),
		"client.id":         clientId,
		"acks":              "all",
	}
}

// KafkaProduceMessage JSON-encodes payload and waits for the broker to
// acknowledge it.
func KafkaProduceMessage(clientId string, topic string, payload any) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	p, err := kafka.NewProducer(GetKafkaProducerConfig(clientId))
	if err != nil {
		return fmt.Errorf("kafka producer: %w", err)
	}
	defer p.Close()

	delivery := make(chan kafka.Event, 1)
	err = p.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          value,
	}, delivery)
	if err != nil {
		return fmt.Errorf("kafka produce: %w", err)
	}
	p.Flush(kafkaFlushTimeoutMs)

	select {
	case e := <-delivery:
		if m, ok := e.(*kafka.Message); ok && m.TopicPartition.Error != nil {
			return fmt.Errorf("kafka delivery: %w", m.TopicPartition.Error)
		}
	default:
		return fmt.Errorf("kafka delivery to %s timed out", topic)
	}
	zap.L().Debug("kafka message delivered", zap.String("topic", topic))
	return nil
}

func KafkaCreateTopics(ctx context.Context, topics ...string) ([]kafka.TopicResult, error) {
	a, err := kafka.NewAdminClient(&kafka.ConfigMap{
		"bootstrap.servers": os.Getenv("KAFKA_BROKER"),
	})
	if err != nil {
		return nil, err
	}
	defer a.Close()

	topicsDef := []kafka.TopicSpecification{}
	for _, topic := range topics {
		topicsDef = append(topicsDef, kafka.TopicSpecification{
			Topic:             topic,
			NumPartitions:     10,
			ReplicationFactor: 1,
		})
	}
	return a.CreateTopics(ctx, topicsDef)
}
