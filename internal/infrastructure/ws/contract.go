package ws

import (
	"encoding/json"

	"github.com/quizdash/quizdash/internal/domain"
)

// Envelope is the single frame shape on the wire, both directions.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// RawEnvelope defers payload decoding until the event type is known.
type RawEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Inbound payloads.

type JoinRoomPayload struct {
	RoomID string `json:"roomId"`
}

type SubmitAnswerPayload struct {
	RoomID      string `json:"roomId"`
	AnswerIndex int    `json:"answerIndex"`
}

// Outbound payloads.

type AuthenticatedPayload struct {
	User *domain.Identity `json:"user"`
}

type RoomCreatedPayload struct {
	RoomID       string         `json:"roomId"`
	PlayerNumber int            `json:"playerNumber"`
	Player       *domain.Player `json:"player"`
}

type RoomJoinedPayload struct {
	RoomID       string         `json:"roomId"`
	PlayerNumber int            `json:"playerNumber"`
	Player       *domain.Player `json:"player"`
}

type PlayerJoinedPayload struct {
	PlayerCount int              `json:"playerCount"`
	Players     []*domain.Player `json:"players"`
}

// QuestionView is the client-facing question. The correct answer index is
// withheld until the answer-result frame.
type QuestionView struct {
	ID      int      `json:"id"`
	Prompt  string   `json:"question"`
	Options []string `json:"options"`
}

type QuestionPayload struct {
	Question       QuestionView `json:"question"`
	QuestionNumber int          `json:"questionNumber"`
	TotalQuestions int          `json:"totalQuestions"`
}

type AnswerResultPayload struct {
	Correct       bool `json:"correct"`
	CorrectAnswer int  `json:"correctAnswer"`
}

type GameOverPayload struct {
	Scores   []domain.FinalScore `json:"scores"`
	WinnerID *string             `json:"winnerId"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func NewAuthenticated(ident *domain.Identity) *Envelope {
	return &Envelope{
		Type: Authenticated,
		Data: AuthenticatedPayload{User: ident},
	}
}

func NewRoomCreated(roomID string, playerNumber int, player *domain.Player) *Envelope {
	return &Envelope{
		Type: RoomCreated,
		Data: RoomCreatedPayload{
			RoomID:       roomID,
			PlayerNumber: playerNumber,
			Player:       player,
		},
	}
}

func NewRoomJoined(roomID string, playerNumber int, player *domain.Player) *Envelope {
	return &Envelope{
		Type: RoomJoined,
		Data: RoomJoinedPayload{
			RoomID:       roomID,
			PlayerNumber: playerNumber,
			Player:       player,
		},
	}
}

func NewPlayerJoined(players []*domain.Player) *Envelope {
	return &Envelope{
		Type: PlayerJoined,
		Data: PlayerJoinedPayload{
			PlayerCount: len(players),
			Players:     players,
		},
	}
}

func NewQuestion(q domain.Question, questionNumber, totalQuestions int) *Envelope {
	return &Envelope{
		Type: QuestionEvent,
		Data: QuestionPayload{
			Question: QuestionView{
				ID:      q.ID,
				Prompt:  q.Prompt,
				Options: q.Options,
			},
			QuestionNumber: questionNumber,
			TotalQuestions: totalQuestions,
		},
	}
}

func NewAnswerResult(correct bool, correctAnswer int) *Envelope {
	return &Envelope{
		Type: AnswerResult,
		Data: AnswerResultPayload{
			Correct:       correct,
			CorrectAnswer: correctAnswer,
		},
	}
}

func NewPlayerLeft() *Envelope {
	return &Envelope{Type: PlayerLeft}
}

func NewGameOver(scores []domain.FinalScore, winnerID *string) *Envelope {
	return &Envelope{
		Type: GameOver,
		Data: GameOverPayload{
			Scores:   scores,
			WinnerID: winnerID,
		},
	}
}

func NewError(message string) *Envelope {
	return &Envelope{
		Type: ErrorEvent,
		Data: ErrorPayload{Message: message},
	}
}
