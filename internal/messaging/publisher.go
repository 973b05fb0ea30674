package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// NarrativeTaskPublisher publishes scene-generation tasks.
type NarrativeTaskPublisher interface {
	PublishNarrativeTask(ctx context.Context, payload NarrativeTaskPayload) error
}

type rabbitMQPublisher struct {
	channel   *amqp.Channel
	queueName string
	logger    *zap.Logger
}

// NewRabbitMQTaskPublisher opens a channel and declares the task queue.
// Declaring here keeps startup order between the services irrelevant; the
// parameters must match the consumer's.
func NewRabbitMQTaskPublisher(conn *amqp.Connection, queueName string, logger *zap.Logger) (NarrativeTaskPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("task publisher: failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("task publisher: failed to declare queue '%s': %w", queueName, err)
	}

	log := logger.Named("NarrativeTaskPublisher")
	log.Info("Queue declared", zap.String("queue", queueName))
	return &rabbitMQPublisher{channel: ch, queueName: queueName, logger: log}, nil
}

// PublishNarrativeTask publishes one scene-generation task.
func (p *rabbitMQPublisher) PublishNarrativeTask(ctx context.Context, payload NarrativeTaskPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error("Failed to serialize narrative task",
			zap.String("taskID", payload.TaskID),
			zap.String("sessionID", payload.SessionID),
			zap.Error(err))
		return fmt.Errorf("failed to serialize narrative task %s: %w", payload.TaskID, err)
	}

	if err := p.publishMessage(ctx, body); err != nil {
		p.logger.Error("Failed to publish narrative task",
			zap.String("taskID", payload.TaskID),
			zap.String("sessionID", payload.SessionID),
			zap.Error(err))
		return fmt.Errorf("failed to publish narrative task %s: %w", payload.TaskID, err)
	}
	return nil
}

func (p *rabbitMQPublisher) publishMessage(ctx context.Context, body []byte) error {
	if p.channel == nil {
		return errors.New("rabbitmq channel is not initialized")
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var err error
	for attempt := 1; attempt <= 3; attempt++ {
		err = p.channel.PublishWithContext(ctx,
			"",          // exchange (default)
			p.queueName, // routing key
			false,       // mandatory
			false,       // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				Body:         body,
				Timestamp:    time.Now(),
				AppId:        "narrator-server",
			},
		)
		if err == nil {
			break
		}
		p.logger.Warn("Publish attempt failed",
			zap.Int("attempt", attempt),
			zap.String("queue", p.queueName),
			zap.Error(err))
		time.Sleep(time.Duration(attempt) * 100 * time.Millisecond)
	}
	if err != nil {
		return fmt.Errorf("failed to publish to queue %s after retries: %w", p.queueName, err)
	}
	return nil
}
