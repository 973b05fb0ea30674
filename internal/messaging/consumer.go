package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// ResultApplier feeds a generation result back into the session it belongs
// to. Implemented by the session service; declared here so the consumer
// does not depend on it.
type ResultApplier interface {
	ApplyNarrativeResult(ctx context.Context, sessionID uuid.UUID, result NarrativeResultPayload) error
}

// NarrativeResultConsumer listens for generation results and applies them.
type NarrativeResultConsumer struct {
	conn        *amqp.Connection
	applier     ResultApplier
	queueName   string
	stopChannel chan struct{}
	logger      *zap.Logger
}

// NewNarrativeResultConsumer creates the result consumer.
func NewNarrativeResultConsumer(conn *amqp.Connection, applier ResultApplier, queueName string, logger *zap.Logger) *NarrativeResultConsumer {
	return &NarrativeResultConsumer{
		conn:        conn,
		applier:     applier,
		queueName:   queueName,
		stopChannel: make(chan struct{}),
		logger:      logger.Named("NarrativeResultConsumer"),
	}
}

// StartConsuming declares the result queue and processes messages until the
// channel closes or Stop is called. Blocks; run in a goroutine.
func (c *NarrativeResultConsumer) StartConsuming() error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("consumer: failed to open channel: %w", err)
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		c.queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("consumer: failed to declare queue '%s': %w", c.queueName, err)
	}

	// One message at a time; results mutate session state.
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("consumer: failed to set QoS: %w", err)
	}

	msgs, err := ch.Consume(
		q.Name,
		"narrator-consumer", // consumer tag
		false,               // auto-ack
		false,               // exclusive
		false,               // no-local
		false,               // no-wait
		nil,                 // args
	)
	if err != nil {
		return fmt.Errorf("consumer: failed to register consumer: %w", err)
	}
	c.logger.Info("Consuming narrative results", zap.String("queue", q.Name))

	for {
		select {
		case d, ok := <-msgs:
			if !ok {
				c.logger.Warn("RabbitMQ message channel closed")
				return nil
			}
			c.handleDelivery(d)

		case <-c.stopChannel:
			c.logger.Info("Stop signal received")
			return nil
		}
	}
}

func (c *NarrativeResultConsumer) handleDelivery(d amqp.Delivery) {
	var result NarrativeResultPayload
	if err := json.Unmarshal(d.Body, &result); err != nil {
		c.logger.Error("Failed to parse narrative result, rejecting",
			zap.Uint64("deliveryTag", d.DeliveryTag),
			zap.Error(err))
		_ = d.Nack(false, false)
		return
	}

	sessionID, err := uuid.Parse(result.SessionID)
	if err != nil {
		c.logger.Error("Narrative result carries an invalid session id, rejecting",
			zap.String("taskID", result.TaskID),
			zap.String("sessionID", result.SessionID),
			zap.Error(err))
		_ = d.Nack(false, false)
		return
	}

	if err := c.applier.ApplyNarrativeResult(context.Background(), sessionID, result); err != nil {
		c.logger.Error("Failed to apply narrative result",
			zap.String("taskID", result.TaskID),
			zap.String("sessionID", result.SessionID),
			zap.Error(err))
		// State application failed; requeue once via the broker.
		_ = d.Nack(false, !d.Redelivered)
		return
	}

	_ = d.Ack(false)
}

// Stop shuts the consumer down.
func (c *NarrativeResultConsumer) Stop() {
	c.logger.Info("Stopping consumer")
	close(c.stopChannel)
}
