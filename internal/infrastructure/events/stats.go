package events

import (
	"context"
	"time"

	"github.com/quizdash/quizdash/internal/domain"
	"github.com/quizdash/quizdash/internal/infrastructure/logging"
	"github.com/quizdash/quizdash/internal/infrastructure/messaging"
	"github.com/quizdash/quizdash/internal/infrastructure/metrics"
)

// StatsPublisher fans a finished game out to the statistics store and the
// broker. Failures are logged and counted but never surfaced to players:
// the game result was already broadcast by the time this runs.
type StatsPublisher struct {
	stats     domain.StatsRepository
	publisher *ResultPublisher
	logger    logging.Logger
	timeout   time.Duration
}

func NewStatsPublisher(stats domain.StatsRepository, publisher *ResultPublisher, logger logging.Logger) *StatsPublisher {
	return &StatsPublisher{
		stats:     stats,
		publisher: publisher,
		logger:    logger,
		timeout:   10 * time.Second,
	}
}

func (s *StatsPublisher) PublishGameResult(roomCode string, winnerID *string, scores []domain.FinalScore) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	records := make([]messaging.PlayerScoreRecord, 0, len(scores))
	for _, sc := range scores {
		won := winnerID != nil && *winnerID == sc.UserID

		if s.stats != nil {
			result := domain.PlayerResult{
				IdentityID: sc.UserID,
				Score:      sc.Score,
				Won:        won,
			}
			if err := s.stats.ApplyResult(ctx, result); err != nil {
				metrics.StatsPublishFailures.Inc()
				s.logger.Error(logging.Mongo, logging.StatsPublish, "failed to persist player result", map[logging.ExtraKey]any{
					logging.RoomCode:     roomCode,
					logging.UserID:       sc.UserID,
					logging.ErrorMessage: err.Error(),
				})
			}
		}

		records = append(records, messaging.PlayerScoreRecord{
			UserID:   sc.UserID,
			Username: sc.Username,
			Score:    sc.Score,
		})
	}

	if s.publisher != nil {
		event := messaging.GameFinishedEvent{
			RoomCode:   roomCode,
			WinnerID:   winnerID,
			Scores:     records,
			FinishedAt: time.Now().UTC(),
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			metrics.StatsPublishFailures.Inc()
		}
	}
}
