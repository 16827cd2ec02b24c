package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ActiveRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "quizdash_rooms_active",
		Help: "Number of live rooms in the registry.",
	})

	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "quizdash_connections_active",
		Help: "Number of admitted WebSocket connections.",
	})

	GamesStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quizdash_games_started_total",
		Help: "Games that reached two players and started streaming questions.",
	})

	GamesCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quizdash_games_completed_total",
		Help: "Games that reached the terminal question and finished.",
	})

	AnswersSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quizdash_answers_total",
		Help: "Accepted answer submissions by correctness.",
	}, []string{"correct"})

	StatsPublishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quizdash_stats_publish_failures_total",
		Help: "Game results that could not be written to the statistics store.",
	})
)

func Handler() http.Handler {
	return promhttp.Handler()
}
