package messaging

import (
	"encoding/json"
	"time"
)

const (
	EventGameFinished = "game.finished"

	GameResultsQueue = "game_results"
	DeadLetterQueue  = "dead_letter_queue"
)

type AmqpMessage interface {
	Marshal() ([]byte, error)
}

// GameFinishedEvent is published once per completed game, after the final
// scores have been broadcast to the room.
type GameFinishedEvent struct {
	RoomCode   string              `json:"roomCode"`
	WinnerID   *string             `json:"winnerId"`
	Scores     []PlayerScoreRecord `json:"scores"`
	FinishedAt time.Time           `json:"finishedAt"`
}

type PlayerScoreRecord struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Score    int    `json:"score"`
}

func (e GameFinishedEvent) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

func UnmarshalGameFinishedEvent(data []byte) (GameFinishedEvent, error) {
	var e GameFinishedEvent
	err := json.Unmarshal(data, &e)
	return e, err
}
