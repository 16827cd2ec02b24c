package game

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/quizdash/quizdash/internal/domain"
	"github.com/quizdash/quizdash/internal/infrastructure/logging"
	"github.com/quizdash/quizdash/internal/infrastructure/questions"
	"github.com/quizdash/quizdash/internal/infrastructure/ws"
)

type statsRecorder struct {
	mu    sync.Mutex
	calls []statsCall
}

type statsCall struct {
	code     string
	winnerID *string
	scores   []domain.FinalScore
}

func (s *statsRecorder) PublishGameResult(roomCode string, winnerID *string, scores []domain.FinalScore) {
	s.mu.Lock()
	s.calls = append(s.calls, statsCall{code: roomCode, winnerID: winnerID, scores: scores})
	s.mu.Unlock()
}

func (s *statsRecorder) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *statsRecorder) lastCall() statsCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[len(s.calls)-1]
}

func twoQuestionSource() domain.QuestionSource {
	return questions.NewStatic([]domain.Question{
		{ID: 1, Prompt: "2+2?", Options: []string{"3", "4"}, CorrectIndex: 1},
		{ID: 2, Prompt: "3+3?", Options: []string{"6", "7"}, CorrectIndex: 0},
	})
}

func newTestEngine(t *testing.T, src domain.QuestionSource) (*Engine, *Registry, *statsRecorder) {
	t.Helper()

	reg := NewRegistry()
	stats := &statsRecorder{}
	e := NewEngine(reg, src, stats, logging.NewNop(), 5*time.Millisecond)
	return e, reg, stats
}

func ident(id string) *domain.Identity {
	return &domain.Identity{
		ID:          id,
		Username:    "player-" + id,
		DisplayName: "Player " + id,
		Color:       domain.DefaultColor,
	}
}

// startGame creates a room with c1, joins c2 and returns the room code once
// the first question is out.
func startGame(t *testing.T, e *Engine, c1, c2 *fakeConn) string {
	t.Helper()
	req := require.New(t)

	e.CreateRoom(c1, ident("u1"))
	created, ok := c1.last(ws.RoomCreated)
	req.True(ok)
	code := created.Data.(ws.RoomCreatedPayload).RoomID

	e.JoinRoom(c2, ident("u2"), code)
	req.Equal(1, c1.count(ws.QuestionEvent))
	req.Equal(1, c2.count(ws.QuestionEvent))

	return code
}

func TestEngine_CreateRoom(t *testing.T) {
	req := require.New(t)
	e, reg, _ := newTestEngine(t, twoQuestionSource())

	c1 := newFakeConn("c1")
	e.CreateRoom(c1, ident("u1"))

	created, ok := c1.last(ws.RoomCreated)
	req.True(ok)

	payload := created.Data.(ws.RoomCreatedPayload)
	req.Len(payload.RoomID, 6)
	req.Equal(1, payload.PlayerNumber)
	req.Equal("u1", payload.Player.UserID)
	req.Equal(0, payload.Player.Score)

	req.Equal(1, reg.Len())
}

func TestEngine_CreateRoom_AlreadyInRoom(t *testing.T) {
	req := require.New(t)
	e, reg, _ := newTestEngine(t, twoQuestionSource())

	c1 := newFakeConn("c1")
	e.CreateRoom(c1, ident("u1"))
	e.CreateRoom(c1, ident("u1"))

	errFrame, ok := c1.last(ws.ErrorEvent)
	req.True(ok)
	req.Equal("Already in a room", errFrame.Data.(ws.ErrorPayload).Message)
	req.Equal(1, reg.Len())
}

func TestEngine_JoinRoom_NotFound(t *testing.T) {
	req := require.New(t)
	e, _, _ := newTestEngine(t, twoQuestionSource())

	c1 := newFakeConn("c1")
	e.JoinRoom(c1, ident("u1"), "NOPE99")

	errFrame, ok := c1.last(ws.ErrorEvent)
	req.True(ok)
	req.Equal("Room not found", errFrame.Data.(ws.ErrorPayload).Message)
}

func TestEngine_JoinRoom_StartsGame(t *testing.T) {
	req := require.New(t)
	e, _, _ := newTestEngine(t, twoQuestionSource())

	c1 := newFakeConn("c1")
	c2 := newFakeConn("c2")

	e.CreateRoom(c1, ident("u1"))
	created, _ := c1.last(ws.RoomCreated)
	code := created.Data.(ws.RoomCreatedPayload).RoomID

	e.JoinRoom(c2, ident("u2"), code)

	joined, ok := c2.last(ws.RoomJoined)
	req.True(ok)
	joinedPayload := joined.Data.(ws.RoomJoinedPayload)
	req.Equal(code, joinedPayload.RoomID)
	req.Equal(2, joinedPayload.PlayerNumber)
	req.Equal("u2", joinedPayload.Player.UserID)

	// Both players see the roster update
	for _, c := range []*fakeConn{c1, c2} {
		roster, ok := c.last(ws.PlayerJoined)
		req.True(ok)
		rosterPayload := roster.Data.(ws.PlayerJoinedPayload)
		req.Equal(2, rosterPayload.PlayerCount)
		req.Len(rosterPayload.Players, 2)
	}

	// The first question goes out immediately, without the correct answer
	for _, c := range []*fakeConn{c1, c2} {
		question, ok := c.last(ws.QuestionEvent)
		req.True(ok)
		qp := question.Data.(ws.QuestionPayload)
		req.Equal(1, qp.QuestionNumber)
		req.Equal(2, qp.TotalQuestions)
		req.Equal("2+2?", qp.Question.Prompt)
		req.Equal([]string{"3", "4"}, qp.Question.Options)
	}
}

func TestEngine_JoinRoom_FullRoom(t *testing.T) {
	req := require.New(t)
	e, _, _ := newTestEngine(t, twoQuestionSource())

	c1 := newFakeConn("c1")
	c2 := newFakeConn("c2")
	code := startGame(t, e, c1, c2)

	c3 := newFakeConn("c3")
	e.JoinRoom(c3, ident("u3"), code)

	errFrame, ok := c3.last(ws.ErrorEvent)
	req.True(ok)
	req.Equal("Room is full", errFrame.Data.(ws.ErrorPayload).Message)
}

func TestEngine_JoinRoom_GameInProgress(t *testing.T) {
	req := require.New(t)
	e, _, _ := newTestEngine(t, twoQuestionSource())

	c1 := newFakeConn("c1")
	c2 := newFakeConn("c2")
	code := startGame(t, e, c1, c2)

	// One player leaves mid-game; the open seat is not joinable
	e.Disconnect(c2)

	c3 := newFakeConn("c3")
	e.JoinRoom(c3, ident("u3"), code)

	errFrame, ok := c3.last(ws.ErrorEvent)
	req.True(ok)
	req.Equal("Game already in progress", errFrame.Data.(ws.ErrorPayload).Message)
}

func TestEngine_SubmitAnswer_UnknownRoom(t *testing.T) {
	req := require.New(t)
	e, _, _ := newTestEngine(t, twoQuestionSource())

	c1 := newFakeConn("c1")
	e.SubmitAnswer(c1, "NOPE99", 0)

	errFrame, ok := c1.last(ws.ErrorEvent)
	req.True(ok)
	req.Equal("Room not found", errFrame.Data.(ws.ErrorPayload).Message)
}

func TestEngine_SubmitAnswer_BeforeStartIgnored(t *testing.T) {
	req := require.New(t)
	e, _, _ := newTestEngine(t, twoQuestionSource())

	c1 := newFakeConn("c1")
	e.CreateRoom(c1, ident("u1"))
	created, _ := c1.last(ws.RoomCreated)
	code := created.Data.(ws.RoomCreatedPayload).RoomID

	e.SubmitAnswer(c1, code, 0)

	req.Zero(c1.count(ws.AnswerResult))
	req.Zero(c1.count(ws.ErrorEvent))
}

func TestEngine_SubmitAnswer_PrivateResultAndAdvance(t *testing.T) {
	req := require.New(t)
	e, _, _ := newTestEngine(t, twoQuestionSource())

	c1 := newFakeConn("c1")
	c2 := newFakeConn("c2")
	code := startGame(t, e, c1, c2)

	e.SubmitAnswer(c1, code, 1) // correct

	result, ok := c1.last(ws.AnswerResult)
	req.True(ok)
	rp := result.Data.(ws.AnswerResultPayload)
	req.True(rp.Correct)
	req.Equal(1, rp.CorrectAnswer)

	// The result is private; no advancement until the other player answers
	req.Zero(c2.count(ws.AnswerResult))
	req.Equal(1, c1.count(ws.QuestionEvent))

	e.SubmitAnswer(c2, code, 0) // wrong

	result, ok = c2.last(ws.AnswerResult)
	req.True(ok)
	req.False(result.Data.(ws.AnswerResultPayload).Correct)

	// Question two arrives after the delay, on both connections
	require.Eventually(t, func() bool {
		return c1.count(ws.QuestionEvent) == 2 && c2.count(ws.QuestionEvent) == 2
	}, time.Second, 2*time.Millisecond)

	q, _ := c1.last(ws.QuestionEvent)
	req.Equal(2, q.Data.(ws.QuestionPayload).QuestionNumber)
}

func TestEngine_SubmitAnswer_DuplicateIgnored(t *testing.T) {
	req := require.New(t)
	e, _, _ := newTestEngine(t, twoQuestionSource())

	c1 := newFakeConn("c1")
	c2 := newFakeConn("c2")
	code := startGame(t, e, c1, c2)

	e.SubmitAnswer(c1, code, 1)
	e.SubmitAnswer(c1, code, 1)
	e.SubmitAnswer(c1, code, 0)

	req.Equal(1, c1.count(ws.AnswerResult))

	// The room has not advanced; c2 still owes an answer
	time.Sleep(20 * time.Millisecond)
	req.Equal(1, c1.count(ws.QuestionEvent))
}

func TestEngine_FullGame_WinnerScoresAndCleanup(t *testing.T) {
	req := require.New(t)
	e, reg, stats := newTestEngine(t, twoQuestionSource())

	c1 := newFakeConn("c1")
	c2 := newFakeConn("c2")
	code := startGame(t, e, c1, c2)

	// Question 1: u1 correct, u2 wrong
	e.SubmitAnswer(c1, code, 1)
	e.SubmitAnswer(c2, code, 0)

	require.Eventually(t, func() bool {
		return c1.count(ws.QuestionEvent) == 2 && c2.count(ws.QuestionEvent) == 2
	}, time.Second, 2*time.Millisecond)

	// Question 2: u1 correct, u2 wrong
	e.SubmitAnswer(c1, code, 0)
	e.SubmitAnswer(c2, code, 1)

	for _, c := range []*fakeConn{c1, c2} {
		over, ok := c.last(ws.GameOver)
		req.True(ok)
		payload := over.Data.(ws.GameOverPayload)
		req.NotNil(payload.WinnerID)
		req.Equal("u1", *payload.WinnerID)
		req.Len(payload.Scores, 2)
	}

	over, _ := c1.last(ws.GameOver)
	scores := over.Data.(ws.GameOverPayload).Scores
	byUser := map[string]int{}
	for _, s := range scores {
		byUser[s.UserID] = s.Score
	}
	req.Equal(2, byUser["u1"])
	req.Equal(0, byUser["u2"])

	// Room is gone and the result reaches the stats sink
	req.Equal(0, reg.Len())
	require.Eventually(t, func() bool { return stats.len() == 1 }, time.Second, 2*time.Millisecond)

	call := stats.lastCall()
	req.Equal(code, call.code)
	req.NotNil(call.winnerID)
	req.Equal("u1", *call.winnerID)
	req.Len(call.scores, 2)
}

func TestEngine_FullGame_TieHasNoWinner(t *testing.T) {
	req := require.New(t)
	e, _, stats := newTestEngine(t, twoQuestionSource())

	c1 := newFakeConn("c1")
	c2 := newFakeConn("c2")
	code := startGame(t, e, c1, c2)

	e.SubmitAnswer(c1, code, 1)
	e.SubmitAnswer(c2, code, 1)

	require.Eventually(t, func() bool {
		return c1.count(ws.QuestionEvent) == 2 && c2.count(ws.QuestionEvent) == 2
	}, time.Second, 2*time.Millisecond)

	e.SubmitAnswer(c1, code, 0)
	e.SubmitAnswer(c2, code, 0)

	over, ok := c1.last(ws.GameOver)
	req.True(ok)
	req.Nil(over.Data.(ws.GameOverPayload).WinnerID)

	require.Eventually(t, func() bool { return stats.len() == 1 }, time.Second, 2*time.Millisecond)
	req.Nil(stats.lastCall().winnerID)
}

func TestEngine_Disconnect_NotifiesAndDeletesEmptyRoom(t *testing.T) {
	req := require.New(t)
	e, reg, _ := newTestEngine(t, twoQuestionSource())

	c1 := newFakeConn("c1")
	c2 := newFakeConn("c2")
	startGame(t, e, c1, c2)

	e.Disconnect(c2)

	req.Equal(1, c1.count(ws.PlayerLeft))
	req.Equal(1, reg.Len())

	e.Disconnect(c1)
	req.Equal(0, reg.Len())

	// Disconnecting a connection with no room is a no-op
	e.Disconnect(c1)
	req.Equal(0, reg.Len())
}

func TestEngine_Disconnect_AdvancesWhenRemainingAnswered(t *testing.T) {
	req := require.New(t)
	e, reg, stats := newTestEngine(t, twoQuestionSource())

	c1 := newFakeConn("c1")
	c2 := newFakeConn("c2")
	code := startGame(t, e, c1, c2)

	// u1 answers, u2 leaves without answering: u1 is no longer blocked
	e.SubmitAnswer(c1, code, 1)
	e.Disconnect(c2)

	req.Equal(1, c1.count(ws.PlayerLeft))
	require.Eventually(t, func() bool {
		return c1.count(ws.QuestionEvent) == 2
	}, time.Second, 2*time.Millisecond)

	// The sole remaining player finishes the game and wins
	e.SubmitAnswer(c1, code, 0)

	over, ok := c1.last(ws.GameOver)
	req.True(ok)
	payload := over.Data.(ws.GameOverPayload)
	req.NotNil(payload.WinnerID)
	req.Equal("u1", *payload.WinnerID)
	req.Len(payload.Scores, 1)

	req.Equal(0, reg.Len())
	require.Eventually(t, func() bool { return stats.len() == 1 }, time.Second, 2*time.Millisecond)
}

func TestEngine_PendingQuestionTimer_DeletedRoomIsNoOp(t *testing.T) {
	req := require.New(t)

	// A generous delay so both disconnects land before the timer fires
	reg := NewRegistry()
	e := NewEngine(reg, twoQuestionSource(), &statsRecorder{}, logging.NewNop(), 50*time.Millisecond)

	c1 := newFakeConn("c1")
	c2 := newFakeConn("c2")
	code := startGame(t, e, c1, c2)

	// Both answer question 1, scheduling the delayed question 2 broadcast
	e.SubmitAnswer(c1, code, 1)
	e.SubmitAnswer(c2, code, 0)

	// Both players leave before the delay fires; the room is deleted
	e.Disconnect(c1)
	e.Disconnect(c2)
	req.Equal(0, reg.Len())

	// The pending timer fires into the deleted room and must do nothing
	time.Sleep(120 * time.Millisecond)
	req.Equal(1, c1.count(ws.QuestionEvent))
	req.Equal(1, c2.count(ws.QuestionEvent))
	req.Equal(0, reg.Len())
}

func TestEngine_PendingQuestionTimer_DepartedPlayerGetsNothing(t *testing.T) {
	req := require.New(t)
	e, reg, _ := newTestEngine(t, twoQuestionSource())

	c1 := newFakeConn("c1")
	c2 := newFakeConn("c2")
	code := startGame(t, e, c1, c2)

	e.SubmitAnswer(c1, code, 1)
	e.SubmitAnswer(c2, code, 0)

	// One player leaves during the delay; only the survivor may see
	// question 2
	e.Disconnect(c2)

	require.Eventually(t, func() bool {
		return c1.count(ws.QuestionEvent) == 2
	}, time.Second, 2*time.Millisecond)

	req.Equal(1, c2.count(ws.QuestionEvent))
	req.Equal(1, reg.Len())
}

func TestEngine_ConcurrentSubmissions_AdvanceOnce(t *testing.T) {
	req := require.New(t)

	for i := 0; i < 20; i++ {
		e, _, _ := newTestEngine(t, twoQuestionSource())

		c1 := newFakeConn("c1")
		c2 := newFakeConn("c2")
		code := startGame(t, e, c1, c2)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			e.SubmitAnswer(c1, code, 1)
		}()
		go func() {
			defer wg.Done()
			e.SubmitAnswer(c2, code, 0)
		}()
		wg.Wait()

		require.Eventually(t, func() bool {
			return c1.count(ws.QuestionEvent) >= 2 && c2.count(ws.QuestionEvent) >= 2
		}, time.Second, 2*time.Millisecond)

		// Exactly one advancement: one new question per player, one private
		// result per player
		time.Sleep(20 * time.Millisecond)
		req.Equal(2, c1.count(ws.QuestionEvent))
		req.Equal(2, c2.count(ws.QuestionEvent))
		req.Equal(1, c1.count(ws.AnswerResult))
		req.Equal(1, c2.count(ws.AnswerResult))
	}
}
