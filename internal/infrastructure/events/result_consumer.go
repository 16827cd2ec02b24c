package events

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/quizdash/quizdash/internal/infrastructure/logging"
	"github.com/quizdash/quizdash/internal/infrastructure/messaging"
)

// ResultConsumer drains the game_results queue and logs each finished game.
// Failed messages are nacked and routed to the dead letter queue by the
// broker topology.
type ResultConsumer struct {
	rabbitMQ *messaging.RabbitMQ
	logger   logging.Logger
}

func NewResultConsumer(rabbitMQ *messaging.RabbitMQ, logger logging.Logger) *ResultConsumer {
	return &ResultConsumer{
		rabbitMQ: rabbitMQ,
		logger:   logger,
	}
}

// Listen blocks until the channel closes. Run it in its own goroutine.
func (c *ResultConsumer) Listen() error {
	return c.rabbitMQ.ConsumeMessages(messaging.GameResultsQueue, c.handle)
}

func (c *ResultConsumer) handle(_ context.Context, d amqp.Delivery) error {
	event, err := messaging.UnmarshalGameFinishedEvent(d.Body)
	if err != nil {
		c.logger.Error(logging.RabbitMQ, logging.StatsPublish, "failed to decode game result", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
		})
		return err
	}

	winner := "none"
	if event.WinnerID != nil {
		winner = *event.WinnerID
	}

	c.logger.Info(logging.RabbitMQ, logging.StatsPublish, "game result consumed", map[logging.ExtraKey]any{
		logging.RoomCode: event.RoomCode,
		logging.UserID:   winner,
	})
	return nil
}
