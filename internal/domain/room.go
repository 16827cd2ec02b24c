package domain

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
	"time"
)

const (
	// MaxPlayers is fixed at two: the engine pairs exactly one creator with
	// one joiner.
	MaxPlayers = 2

	roomCodeLength = 6

	// Ambiguous characters (0/O, 1/I) are excluded so codes survive being
	// read aloud.
	roomCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

var (
	charsetLen = big.NewInt(int64(len(roomCodeChars)))

	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomFull       = errors.New("room is full")
	ErrGameInProgress = errors.New("game already in progress")
	ErrAlreadyInRoom  = errors.New("already in a room")
)

// RoomState is the explicit room lifecycle. Transitions are one-way:
// Waiting -> InProgress -> Finished.
type RoomState int

const (
	StateWaiting RoomState = iota
	StateInProgress
	StateFinished
)

func (s RoomState) String() string {
	switch s {
	case StateWaiting:
		return "waiting"
	case StateInProgress:
		return "in_progress"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Room is one isolated two-player quiz session. All mutation goes through
// the session engine, which serializes access per room; Room itself carries
// no lock.
type Room struct {
	Code            string
	Players         []*Player // insertion order = join order = player number
	CurrentQuestion int
	State           RoomState
	CreatedAt       time.Time
}

func NewRoom(code string, creator *Player) *Room {
	players := make([]*Player, 0, MaxPlayers)
	players = append(players, creator)

	return &Room{
		Code:      code,
		Players:   players,
		State:     StateWaiting,
		CreatedAt: time.Now(),
	}
}

// AddPlayer appends a player and returns the assigned player number
// (1-based, by join order).
func (r *Room) AddPlayer(p *Player) (int, error) {
	if len(r.Players) >= MaxPlayers {
		return 0, ErrRoomFull
	}
	if r.State != StateWaiting {
		return 0, ErrGameInProgress
	}
	r.Players = append(r.Players, p)
	return len(r.Players), nil
}

func (r *Room) PlayerByConn(connID string) *Player {
	for _, p := range r.Players {
		if p.ConnID == connID {
			return p
		}
	}
	return nil
}

// RemoveByConn removes the player bound to the connection, preserving the
// join order of the remaining players. Removing an absent player is a no-op.
func (r *Room) RemoveByConn(connID string) (*Player, bool) {
	for i, p := range r.Players {
		if p.ConnID == connID {
			r.Players = append(r.Players[:i], r.Players[i+1:]...)
			return p, true
		}
	}
	return nil, false
}

// AllAnswered reports whether every current player has answered the current
// question. Must be evaluated under the same serialization that wrote the
// answered flags.
func (r *Room) AllAnswered() bool {
	for _, p := range r.Players {
		if !p.Answered {
			return false
		}
	}
	return len(r.Players) > 0
}

func (r *Room) ResetAnswered() {
	for _, p := range r.Players {
		p.Answered = false
	}
}

func (r *Room) Snapshots() []FinalScore {
	scores := make([]FinalScore, 0, len(r.Players))
	for _, p := range r.Players {
		scores = append(scores, p.Snapshot())
	}
	return scores
}

// GenerateRoomCode returns a short shareable room identifier. Uniqueness
// among live rooms is the registry's job; collisions are regenerated there.
func GenerateRoomCode() (string, error) {
	var sb strings.Builder
	sb.Grow(roomCodeLength)

	for i := 0; i < roomCodeLength; i++ {
		n, err := rand.Int(rand.Reader, charsetLen)
		if err != nil {
			return "", err
		}
		sb.WriteByte(roomCodeChars[n.Int64()])
	}

	return sb.String(), nil
}
