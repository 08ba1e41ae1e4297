package notifications

import (
	"context"
	"fmt"
	"log"

	"github.com/IBM/sarama"
)

// Consumer reads ticket notifications from Kafka and hands them to the
// email service. Delivery is at-least-once; the email contract tolerates
// re-sends, so no dedup store is needed here.
type Consumer struct {
	group  sarama.ConsumerGroup
	topic  string
	email  EmailService
	cancel context.CancelFunc
	done   chan struct{}
}

// NewConsumer creates a new notification consumer
func NewConsumer(brokers []string, groupID, topic string, email EmailService) (*Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Return.Errors = true

	group, err := sarama.NewConsumerGroup(brokers, groupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &Consumer{
		group: group,
		topic: topic,
		email: email,
		done:  make(chan struct{}),
	}, nil
}

// Start begins consuming in a background goroutine until Stop is called
func (c *Consumer) Start(ctx context.Context) error {
	ctx, c.cancel = context.WithCancel(ctx)

	go func() {
		defer close(c.done)
		for {
			if err := c.group.Consume(ctx, []string{c.topic}, c); err != nil {
				log.Printf("Notification consumer error: %v", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	go func() {
		for err := range c.group.Errors() {
			log.Printf("Notification consumer group error: %v", err)
		}
	}()

	return nil
}

// Stop shuts down the consumer and waits for the consume loop to exit
func (c *Consumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	<-c.done
	return c.group.Close()
}

// Setup implements sarama.ConsumerGroupHandler
func (c *Consumer) Setup(sarama.ConsumerGroupSession) error { return nil }

// Cleanup implements sarama.ConsumerGroupHandler
func (c *Consumer) Cleanup(sarama.ConsumerGroupSession) error { return nil }

// ConsumeClaim implements sarama.ConsumerGroupHandler
func (c *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		notification, err := FromJSON(message.Value)
		if err != nil {
			// Malformed payloads are skipped, not retried forever
			log.Printf("Dropping malformed notification at offset %d: %v", message.Offset, err)
			session.MarkMessage(message, "")
			continue
		}

		if err := c.email.SendTickets(session.Context(), notification); err != nil {
			// Leave the offset unmarked so the message is redelivered
			log.Printf("Failed to deliver tickets for booking %s: %v", notification.BookingRef, err)
			continue
		}

		session.MarkMessage(message, "")
	}
	return nil
}
