package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func testPlayer(connID, userID string) *Player {
	return NewPlayer(connID, Identity{
		ID:          userID,
		Username:    "player-" + userID,
		DisplayName: "Player " + userID,
		Color:       DefaultColor,
	})
}

func TestRoom_AddPlayer_AssignsNumbersByJoinOrder(t *testing.T) {
	req := require.New(t)

	room := NewRoom("ABC234", testPlayer("c1", "u1"))
	req.Equal(StateWaiting, room.State)
	req.Len(room.Players, 1)

	number, err := room.AddPlayer(testPlayer("c2", "u2"))
	req.NoError(err)
	req.Equal(2, number)
	req.Len(room.Players, 2)
}

func TestRoom_AddPlayer_FullRoom(t *testing.T) {
	req := require.New(t)

	room := NewRoom("ABC234", testPlayer("c1", "u1"))
	_, err := room.AddPlayer(testPlayer("c2", "u2"))
	req.NoError(err)

	_, err = room.AddPlayer(testPlayer("c3", "u3"))
	req.ErrorIs(err, ErrRoomFull)
	req.Len(room.Players, 2)
}

func TestRoom_AddPlayer_GameInProgress(t *testing.T) {
	req := require.New(t)

	room := NewRoom("ABC234", testPlayer("c1", "u1"))
	room.State = StateInProgress

	_, err := room.AddPlayer(testPlayer("c2", "u2"))
	req.ErrorIs(err, ErrGameInProgress)
}

func TestRoom_RemoveByConn_PreservesOrder(t *testing.T) {
	req := require.New(t)

	room := NewRoom("ABC234", testPlayer("c1", "u1"))
	_, err := room.AddPlayer(testPlayer("c2", "u2"))
	req.NoError(err)

	removed, ok := room.RemoveByConn("c1")
	req.True(ok)
	req.Equal("u1", removed.UserID)
	req.Len(room.Players, 1)
	req.Equal("u2", room.Players[0].UserID)

	// Removing an absent player is a no-op
	_, ok = room.RemoveByConn("c1")
	req.False(ok)
	req.Len(room.Players, 1)
}

func TestRoom_AllAnswered(t *testing.T) {
	req := require.New(t)

	room := NewRoom("ABC234", testPlayer("c1", "u1"))
	_, err := room.AddPlayer(testPlayer("c2", "u2"))
	req.NoError(err)

	req.False(room.AllAnswered())

	room.Players[0].Answered = true
	req.False(room.AllAnswered())

	room.Players[1].Answered = true
	req.True(room.AllAnswered())

	room.ResetAnswered()
	req.False(room.AllAnswered())
	req.False(room.Players[0].Answered)
	req.False(room.Players[1].Answered)
}

func TestRoom_AllAnswered_EmptyRoom(t *testing.T) {
	req := require.New(t)

	room := NewRoom("ABC234", testPlayer("c1", "u1"))
	_, ok := room.RemoveByConn("c1")
	req.True(ok)

	req.False(room.AllAnswered())
}

func TestGenerateRoomCode(t *testing.T) {
	req := require.New(t)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := GenerateRoomCode()
		req.NoError(err)
		req.Len(code, 6)

		for _, ch := range code {
			req.True(strings.ContainsRune(roomCodeChars, ch), "unexpected character %q in code %s", ch, code)
		}
		seen[code] = true
	}

	// 100 draws from a 32^6 space should not collide
	req.Len(seen, 100)
}
