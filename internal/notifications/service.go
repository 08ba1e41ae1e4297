package notifications

import (
	"context"
	"fmt"

	"eventhive/internal/shared/config"
)

// Service bundles the dispatcher side (producer) and the delivery side
// (consumer + email) of the notification boundary. The settlement pipeline
// only ever touches the producer; delivery runs on its own goroutines and
// can fail without affecting any booking.
type Service struct {
	Producer Producer
	consumer *Consumer
}

// NewService wires the notification service from application config
func NewService(cfg *config.Config) (*Service, error) {
	producer, err := NewKafkaProducer(&ProducerConfig{
		Brokers:             cfg.Kafka.Brokers,
		NotificationTopic:   cfg.Kafka.NotificationTopic,
		ReconciliationTopic: cfg.Kafka.ReconciliationTopic,
		RetryMax:            3,
		Timeout:             DefaultProducerConfig().Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create notification producer: %w", err)
	}

	var email EmailService
	if cfg.Email.SMTPHost != "" {
		email, err = NewSMTPEmailService(&SMTPConfig{
			Host:      cfg.Email.SMTPHost,
			Port:      cfg.Email.SMTPPort,
			Username:  cfg.Email.SMTPUsername,
			Password:  cfg.Email.SMTPPassword,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
		})
		if err != nil {
			return nil, err
		}
	} else {
		email = NewLogEmailService()
	}

	consumer, err := NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.ConsumerGroup, cfg.Kafka.NotificationTopic, email)
	if err != nil {
		producer.Close()
		return nil, fmt.Errorf("failed to create notification consumer: %w", err)
	}

	return &Service{
		Producer: producer,
		consumer: consumer,
	}, nil
}

// Start launches the delivery consumer
func (s *Service) Start(ctx context.Context) error {
	return s.consumer.Start(ctx)
}

// Stop shuts the consumer and producer down
func (s *Service) Stop() error {
	if err := s.consumer.Stop(); err != nil {
		s.Producer.Close()
		return err
	}
	return s.Producer.Close()
}
