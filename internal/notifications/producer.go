package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/IBM/sarama"
)

// Producer publishes dispatcher events to Kafka
type Producer interface {
	PublishTicketNotification(ctx context.Context, notification *TicketNotification) error
	PublishReconciliation(ctx context.Context, event *ReconciliationEvent) error
	Close() error
}

// ProducerConfig contains configuration for the Kafka producer
type ProducerConfig struct {
	Brokers             []string
	NotificationTopic   string
	ReconciliationTopic string
	RetryMax            int
	Timeout             time.Duration
}

// DefaultProducerConfig returns a default producer configuration
func DefaultProducerConfig() *ProducerConfig {
	return &ProducerConfig{
		Brokers:             []string{"localhost:9092"},
		NotificationTopic:   "ticket-notifications",
		ReconciliationTopic: "payments-reconciliation",
		RetryMax:            3,
		Timeout:             10 * time.Second,
	}
}

type kafkaProducer struct {
	producer sarama.SyncProducer
	config   *ProducerConfig
}

// NewKafkaProducer creates a new Kafka producer for dispatcher events
func NewKafkaProducer(config *ProducerConfig) (Producer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = config.Timeout
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1

	// Hash partitioner for consistent routing based on the message key
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &kafkaProducer{
		producer: producer,
		config:   config,
	}, nil
}

func (p *kafkaProducer) PublishTicketNotification(ctx context.Context, notification *TicketNotification) error {
	messageBytes, err := notification.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.config.NotificationTopic,
		Key:   sarama.StringEncoder(notification.GetPartitionKey()),
		Value: sarama.ByteEncoder(messageBytes),
		Headers: []sarama.RecordHeader{
			{Key: []byte("notification_id"), Value: []byte(notification.ID.String())},
			{Key: []byte("booking_ref"), Value: []byte(notification.BookingRef)},
			{Key: []byte("recipient_email"), Value: []byte(notification.RecipientEmail)},
		},
		Timestamp: notification.CreatedAt,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to send notification to Kafka: %w", err)
	}

	log.Printf("Ticket notification published - Topic: %s, Partition: %d, Offset: %d, BookingRef: %s",
		p.config.NotificationTopic, partition, offset, notification.BookingRef)

	return nil
}

func (p *kafkaProducer) PublishReconciliation(ctx context.Context, event *ReconciliationEvent) error {
	messageBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal reconciliation event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.config.ReconciliationTopic,
		// Keyed by order id so redeliveries of one payment stay ordered
		Key:   sarama.StringEncoder(event.GatewayOrderID),
		Value: sarama.ByteEncoder(messageBytes),
		Headers: []sarama.RecordHeader{
			{Key: []byte("reason"), Value: []byte(event.Reason)},
			{Key: []byte("gateway_payment_id"), Value: []byte(event.GatewayPaymentID)},
		},
		Timestamp: event.OccurredAt,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to send reconciliation event to Kafka: %w", err)
	}

	log.Printf("Reconciliation event published - Topic: %s, Partition: %d, Offset: %d, OrderID: %s",
		p.config.ReconciliationTopic, partition, offset, event.GatewayOrderID)

	return nil
}

func (p *kafkaProducer) Close() error {
	return p.producer.Close()
}
