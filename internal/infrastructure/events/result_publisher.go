package events

import (
	"context"

	"github.com/quizdash/quizdash/internal/infrastructure/logging"
	"github.com/quizdash/quizdash/internal/infrastructure/messaging"
)

// ResultPublisher emits a GameFinishedEvent to the broker for downstream
// consumers (leaderboards, notifications).
type ResultPublisher struct {
	rabbitMQ *messaging.RabbitMQ
	logger   logging.Logger
}

func NewResultPublisher(rabbitMQ *messaging.RabbitMQ, logger logging.Logger) *ResultPublisher {
	return &ResultPublisher{
		rabbitMQ: rabbitMQ,
		logger:   logger,
	}
}

func (p *ResultPublisher) Publish(ctx context.Context, event messaging.GameFinishedEvent) error {
	if err := p.rabbitMQ.PublishMessage(ctx, messaging.EventGameFinished, event); err != nil {
		p.logger.Error(logging.RabbitMQ, logging.StatsPublish, "failed to publish game result", map[logging.ExtraKey]any{
			logging.RoomCode:     event.RoomCode,
			logging.ErrorMessage: err.Error(),
		})
		return err
	}

	p.logger.Info(logging.RabbitMQ, logging.StatsPublish, "game result published", map[logging.ExtraKey]any{
		logging.RoomCode: event.RoomCode,
	})
	return nil
}
