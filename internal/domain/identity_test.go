package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewIdentity_Defaults(t *testing.T) {
	req := require.New(t)

	ident, err := NewIdentity("u1", "alice", "", "")
	req.NoError(err)
	req.Equal("alice", ident.DisplayName)
	req.Equal(DefaultColor, ident.Color)
}

func TestNewIdentity_Validation(t *testing.T) {
	req := require.New(t)

	_, err := NewIdentity("u1", "", "", "")
	req.Error(err)

	_, err = NewIdentity("u1", "ab", "", "")
	req.Error(err)

	_, err = NewIdentity("u1", "has space", "", "")
	req.Error(err)

	_, err = NewIdentity("u1", "alice", "", "not-a-color")
	req.Error(err)

	ident, err := NewIdentity("u1", "alice", "Alice B", "#FF0000")
	req.NoError(err)
	req.Equal("#FF0000", ident.Color)
	req.Equal("Alice B", ident.DisplayName)
}

func TestQuestion_IsCorrect(t *testing.T) {
	req := require.New(t)

	q := Question{ID: 1, Prompt: "2+2?", Options: []string{"3", "4"}, CorrectIndex: 1}

	req.True(q.IsCorrect(1))
	req.False(q.IsCorrect(0))
	req.False(q.IsCorrect(-1))
	req.False(q.IsCorrect(5))
}
