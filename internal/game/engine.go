package game

import (
	"errors"
	"strconv"
	"time"

	"github.com/quizdash/quizdash/internal/domain"
	"github.com/quizdash/quizdash/internal/infrastructure/logging"
	"github.com/quizdash/quizdash/internal/infrastructure/metrics"
	"github.com/quizdash/quizdash/internal/infrastructure/ws"
)

// StatsSink receives the outcome of a finished game. Publishing happens
// after the final frames are broadcast and never blocks the engine.
type StatsSink interface {
	PublishGameResult(roomCode string, winnerID *string, scores []domain.FinalScore)
}

// Engine drives the quiz session lifecycle: room creation, admission,
// answer scoring, question progression and teardown. All per-room state is
// mutated under that room's entry lock; outbound frames are collected under
// the lock and delivered after it is released.
type Engine struct {
	registry      *Registry
	questions     domain.QuestionSource
	stats         StatsSink
	logger        logging.Logger
	questionDelay time.Duration
}

func NewEngine(registry *Registry, questions domain.QuestionSource, stats StatsSink, logger logging.Logger, questionDelay time.Duration) *Engine {
	return &Engine{
		registry:      registry,
		questions:     questions,
		stats:         stats,
		logger:        logger,
		questionDelay: questionDelay,
	}
}

// frame is an outbound envelope bound to its destination, queued while the
// entry lock is held.
type frame struct {
	to  Conn
	env *ws.Envelope
}

func sendAll(frames []frame) {
	for _, f := range frames {
		f.to.Send(f.env)
	}
}

// CreateRoom opens a fresh room with the caller as player one.
func (e *Engine) CreateRoom(conn Conn, ident *domain.Identity) {
	player := domain.NewPlayer(conn.ID(), *ident)

	entry, err := e.registry.Create(conn, player)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyInRoom) {
			conn.Send(ws.NewError("Already in a room"))
			return
		}
		e.logger.Error(logging.Game, logging.RoomLifetime, "failed to create room", map[logging.ExtraKey]any{
			logging.ConnID:       conn.ID(),
			logging.ErrorMessage: err.Error(),
		})
		conn.Send(ws.NewError("Failed to create room"))
		return
	}

	entry.mu.Lock()
	code := entry.room.Code
	created := *player
	entry.mu.Unlock()

	conn.Send(ws.NewRoomCreated(code, 1, &created))

	e.logger.Info(logging.Game, logging.RoomLifetime, "room created", map[logging.ExtraKey]any{
		logging.RoomCode: code,
		logging.UserID:   ident.ID,
	})
}

// JoinRoom admits the caller into an existing room and, once the room is
// full, starts the game by broadcasting the first question.
func (e *Engine) JoinRoom(conn Conn, ident *domain.Identity, code string) {
	if e.registry.Bound(conn.ID()) {
		conn.Send(ws.NewError("Already in a room"))
		return
	}

	entry, ok := e.registry.Lookup(code)
	if !ok {
		conn.Send(ws.NewError("Room not found"))
		return
	}

	player := domain.NewPlayer(conn.ID(), *ident)

	entry.mu.Lock()
	if entry.removed {
		entry.mu.Unlock()
		conn.Send(ws.NewError("Room not found"))
		return
	}

	number, err := entry.room.AddPlayer(player)
	if err != nil {
		entry.mu.Unlock()
		switch {
		case errors.Is(err, domain.ErrRoomFull):
			conn.Send(ws.NewError("Room is full"))
		case errors.Is(err, domain.ErrGameInProgress):
			conn.Send(ws.NewError("Game already in progress"))
		default:
			conn.Send(ws.NewError("Failed to join room"))
		}
		return
	}

	entry.conns[conn.ID()] = conn
	e.registry.Bind(conn.ID(), code)

	var frames []frame

	joined := *player
	frames = append(frames, frame{conn, ws.NewRoomJoined(code, number, &joined)})

	roster := ws.NewPlayerJoined(clonePlayers(entry.room.Players))
	for _, c := range entry.conns {
		frames = append(frames, frame{c, roster})
	}

	started := false
	if len(entry.room.Players) == domain.MaxPlayers {
		entry.room.State = domain.StateInProgress
		started = true

		first := e.questionFrame(0)
		for _, c := range entry.conns {
			frames = append(frames, frame{c, first})
		}
	}
	entry.mu.Unlock()

	sendAll(frames)

	e.logger.Info(logging.Game, logging.RoomLifetime, "player joined room", map[logging.ExtraKey]any{
		logging.RoomCode: code,
		logging.UserID:   ident.ID,
	})
	if started {
		metrics.GamesStarted.Inc()
		e.logger.Info(logging.Game, logging.RoomLifetime, "game started", map[logging.ExtraKey]any{
			logging.RoomCode: code,
		})
	}
}

// SubmitAnswer scores one answer. The first submission per player per
// question counts; repeats and answers outside a running game are ignored.
// When the last pending player answers, the room advances exactly once.
func (e *Engine) SubmitAnswer(conn Conn, code string, answerIndex int) {
	entry, ok := e.registry.Lookup(code)
	if !ok {
		conn.Send(ws.NewError("Room not found"))
		return
	}

	entry.mu.Lock()
	if entry.removed {
		entry.mu.Unlock()
		conn.Send(ws.NewError("Room not found"))
		return
	}

	room := entry.room
	if room.State != domain.StateInProgress {
		entry.mu.Unlock()
		return
	}

	player := room.PlayerByConn(conn.ID())
	if player == nil || player.Answered {
		entry.mu.Unlock()
		return
	}

	player.Answered = true

	question := e.questions.At(room.CurrentQuestion)
	correct := question.IsCorrect(answerIndex)
	if correct {
		player.Score++
	}

	frames := []frame{{conn, ws.NewAnswerResult(correct, question.CorrectIndex)}}

	advance, cleanup := e.advanceLocked(entry, code)
	frames = append(frames, advance...)
	entry.mu.Unlock()

	metrics.AnswersSubmitted.WithLabelValues(strconv.FormatBool(correct)).Inc()

	sendAll(frames)
	if cleanup != nil {
		cleanup()
	}
}

// Disconnect detaches the connection from its room, if any. Remaining
// players are notified; an emptied room is deleted. If the departed player
// was the only one still to answer, the room advances.
func (e *Engine) Disconnect(conn Conn) {
	entry, code, ok := e.registry.EntryOf(conn.ID())
	if !ok {
		return
	}

	entry.mu.Lock()
	delete(entry.conns, conn.ID())

	player, removed := entry.room.RemoveByConn(conn.ID())
	if !removed {
		entry.mu.Unlock()
		e.registry.Unbind(conn.ID())
		return
	}

	if len(entry.room.Players) == 0 {
		entry.removed = true
		ids := append(entry.connIDs(), conn.ID())
		entry.mu.Unlock()

		e.registry.Remove(code, ids)

		e.logger.Info(logging.Game, logging.RoomLifetime, "room deleted", map[logging.ExtraKey]any{
			logging.RoomCode: code,
			logging.UserID:   player.UserID,
		})
		return
	}

	var frames []frame
	left := ws.NewPlayerLeft()
	for _, c := range entry.conns {
		frames = append(frames, frame{c, left})
	}

	advance, cleanup := e.advanceLocked(entry, code)
	frames = append(frames, advance...)
	entry.mu.Unlock()

	e.registry.Unbind(conn.ID())

	sendAll(frames)
	if cleanup != nil {
		cleanup()
	}

	e.logger.Info(logging.Game, logging.RoomLifetime, "player left room", map[logging.ExtraKey]any{
		logging.RoomCode: code,
		logging.UserID:   player.UserID,
	})
}

// advanceLocked moves the room forward when every current player has
// answered. Called with entry.mu held. The returned cleanup, if any, must
// run after the lock is released.
func (e *Engine) advanceLocked(entry *roomEntry, code string) ([]frame, func()) {
	room := entry.room
	if room.State != domain.StateInProgress || !room.AllAnswered() {
		return nil, nil
	}

	room.ResetAnswered()
	room.CurrentQuestion++

	if room.CurrentQuestion < e.questions.Len() {
		idx := room.CurrentQuestion
		time.AfterFunc(e.questionDelay, func() {
			e.broadcastQuestion(entry, code, idx)
		})
		return nil, nil
	}

	return e.finishLocked(entry, code)
}

// broadcastQuestion delivers a delayed question. The room is re-validated
// first: it may have been torn down or advanced past idx while the timer
// was pending.
func (e *Engine) broadcastQuestion(entry *roomEntry, code string, idx int) {
	entry.mu.Lock()
	if entry.removed || entry.room.State != domain.StateInProgress || entry.room.CurrentQuestion != idx {
		entry.mu.Unlock()
		return
	}

	env := e.questionFrame(idx)
	frames := make([]frame, 0, len(entry.conns))
	for _, c := range entry.conns {
		frames = append(frames, frame{c, env})
	}
	entry.mu.Unlock()

	sendAll(frames)

	e.logger.Debug(logging.Game, logging.Scoring, "question broadcast", map[logging.ExtraKey]any{
		logging.RoomCode: code,
	})
}

// finishLocked ends the game: final scores are broadcast, then the result
// is published and the room removed once the lock is released.
func (e *Engine) finishLocked(entry *roomEntry, code string) ([]frame, func()) {
	room := entry.room
	room.State = domain.StateFinished

	scores := room.Snapshots()
	winnerID := winner(scores)

	env := ws.NewGameOver(scores, winnerID)
	frames := make([]frame, 0, len(entry.conns))
	for _, c := range entry.conns {
		frames = append(frames, frame{c, env})
	}

	entry.removed = true
	ids := entry.connIDs()

	cleanup := func() {
		metrics.GamesCompleted.Inc()

		if e.stats != nil {
			go e.stats.PublishGameResult(code, winnerID, scores)
		}

		e.registry.Remove(code, ids)

		e.logger.Info(logging.Game, logging.Scoring, "game finished", map[logging.ExtraKey]any{
			logging.RoomCode: code,
		})
	}

	return frames, cleanup
}

func (e *Engine) questionFrame(idx int) *ws.Envelope {
	return ws.NewQuestion(e.questions.At(idx), idx+1, e.questions.Len())
}

// winner picks the strictly highest score. A tie for first place means no
// winner; a sole remaining player wins outright.
func winner(scores []domain.FinalScore) *string {
	if len(scores) == 0 {
		return nil
	}

	top := scores[0]
	for _, s := range scores[1:] {
		if s.Score > top.Score {
			top = s
		}
	}

	ties := 0
	for _, s := range scores {
		if s.Score == top.Score {
			ties++
		}
	}
	if ties > 1 {
		return nil
	}

	id := top.UserID
	return &id
}

// clonePlayers snapshots the roster so frames marshal without holding the
// entry lock.
func clonePlayers(players []*domain.Player) []*domain.Player {
	out := make([]*domain.Player, 0, len(players))
	for _, p := range players {
		c := *p
		out = append(out, &c)
	}
	return out
}
