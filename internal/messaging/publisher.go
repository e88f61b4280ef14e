package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"hack-adventure/internal/interfaces"
	"hack-adventure/internal/models"
)

// DefaultProgressQueue — очередь событий прогресса игроков.
const DefaultProgressQueue = "player_progress_events"

const (
	publishAttempts = 3
	publishTimeout  = 10 * time.Second
	appID           = "hack-adventure"
)

var errChannelClosed = errors.New("rabbitmq channel is not initialized")

var _ interfaces.ProgressPublisher = (*RabbitMQPublisher)(nil)

// RabbitMQPublisher публикует события прогресса в очередь RabbitMQ.
type RabbitMQPublisher struct {
	mu        sync.Mutex
	channel   *amqp.Channel
	queueName string
	logger    *zap.Logger
}

// NewRabbitMQProgressPublisher открывает канал и объявляет durable-очередь.
func NewRabbitMQProgressPublisher(conn *amqp.Connection, queueName string, logger *zap.Logger) (*RabbitMQPublisher, error) {
	if queueName == "" {
		queueName = DefaultProgressQueue
	}
	log := logger.Named("ProgressPublisher").With(zap.String("queue", queueName))

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("progress publisher: failed to open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		log.Error("Failed to declare queue", zap.Error(err))
		return nil, fmt.Errorf("progress publisher: failed to declare queue '%s': %w", queueName, err)
	}
	log.Info("Queue declared")
	return &RabbitMQPublisher{channel: ch, queueName: queueName, logger: log}, nil
}

// PublishProgress публикует событие прогресса в формате JSON.
func (p *RabbitMQPublisher) PublishProgress(ctx context.Context, event models.PlayerProgressEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal progress event %s: %w", event.EventID, err)
	}
	if err := p.publishMessage(ctx, body, event.EventID.String(), string(event.Type)); err != nil {
		p.logger.Error("Failed to publish progress event",
			zap.String("eventID", event.EventID.String()),
			zap.String("playerID", event.PlayerID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (p *RabbitMQPublisher) publishMessage(ctx context.Context, body []byte, messageID, messageType string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel == nil {
		return errChannelClosed
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	var err error
	for attempt := 1; attempt <= publishAttempts; attempt++ {
		err = p.channel.PublishWithContext(ctx,
			"",          // default exchange
			p.queueName, // routing key
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				MessageId:    messageID,
				Type:         messageType,
				Body:         body,
				Timestamp:    time.Now(),
				AppId:        appID,
			},
		)
		if err == nil {
			p.logger.Debug("Message published", zap.String("messageID", messageID), zap.Int("attempt", attempt))
			return nil
		}
		p.logger.Warn("Publish attempt failed", zap.Int("attempt", attempt), zap.Error(err))

		select {
		case <-ctx.Done():
			return fmt.Errorf("publish to %s cancelled: %w", p.queueName, ctx.Err())
		case <-time.After(time.Duration(attempt) * 100 * time.Millisecond):
		}
	}
	return fmt.Errorf("failed to publish to %s after retries: %w", p.queueName, err)
}

// Close закрывает канал публикации.
func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel == nil {
		return nil
	}
	err := p.channel.Close()
	p.channel = nil
	return err
}

// NopPublisher используется, когда RabbitMQ не настроен.
type NopPublisher struct {
	logger *zap.Logger
}

func NewNopPublisher(logger *zap.Logger) *NopPublisher {
	return &NopPublisher{logger: logger.Named("NopProgressPublisher")}
}

func (p *NopPublisher) PublishProgress(_ context.Context, event models.PlayerProgressEvent) error {
	p.logger.Debug("Progress event dropped",
		zap.String("type", string(event.Type)),
		zap.String("playerID", event.PlayerID),
	)
	return nil
}
