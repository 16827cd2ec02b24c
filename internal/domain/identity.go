package domain

import (
	"context"
	"errors"

	"github.com/quizdash/quizdash/internal/infrastructure/validate"
)

var (
	ErrUnauthenticated  = errors.New("authentication required")
	ErrIdentityNotFound = errors.New("identity not found")
)

// Identity is the durable, authenticated participant record. It is distinct
// from a Connection: the same identity may reconnect with a fresh connection.
type Identity struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Color       string `json:"color"`
}

// IdentityStore resolves a verified credential subject to its identity.
type IdentityStore interface {
	GetByID(ctx context.Context, id string) (*Identity, error)
}

func NewIdentity(id, username, displayName, color string) (*Identity, error) {
	validateUsername := validate.Compose(
		validate.Required(),
		validate.MinLength(3),
		validate.MaxLength(20),
		validate.NoSpaces(),
	)
	if err := validateUsername(username); err != nil {
		return nil, err
	}

	if displayName == "" {
		displayName = username
	}
	if err := validate.MaxLength(50)(displayName); err != nil {
		return nil, err
	}

	if color == "" {
		color = DefaultColor
	}
	if err := validate.HexColor()(color); err != nil {
		return nil, err
	}

	return &Identity{
		ID:          id,
		Username:    username,
		DisplayName: displayName,
		Color:       color,
	}, nil
}

// DefaultColor is assigned to identities created without an explicit color.
const DefaultColor = "#4CAF50"

// PlayerResult is the per-player outcome handed to the stats publisher
// once a game ends.
type PlayerResult struct {
	IdentityID string `json:"userId"`
	Score      int    `json:"score"`
	Won        bool   `json:"won"`
}

// StatsRepository persists win/loss/score totals in the external
// user-statistics store.
type StatsRepository interface {
	ApplyResult(ctx context.Context, result PlayerResult) error
}
