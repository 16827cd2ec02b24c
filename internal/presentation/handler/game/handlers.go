package game

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/quizdash/quizdash/internal/domain"
	"github.com/quizdash/quizdash/internal/game"
	"github.com/quizdash/quizdash/internal/infrastructure/auth"
	httpjson "github.com/quizdash/quizdash/internal/infrastructure/json"
	"github.com/quizdash/quizdash/internal/infrastructure/logging"
	"github.com/quizdash/quizdash/internal/infrastructure/metrics"
	"github.com/quizdash/quizdash/internal/infrastructure/ws"
)

type Handler struct {
	engine     *game.Engine
	gate       *auth.Gate
	logger     logging.Logger
	upgrader   websocket.Upgrader
	sendBuffer int
}

func NewHandler(engine *game.Engine, gate *auth.Gate, logger logging.Logger, sendBuffer int) *Handler {
	return &Handler{
		engine: engine,
		gate:   gate,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		sendBuffer: sendBuffer,
	}
}

// ServeWS godoc
// @Summary      Open the game WebSocket
// @Description  Authenticates the caller and upgrades the connection. All game traffic (room creation, joining, answers) flows over this socket as JSON envelopes.
// @Tags         game
// @Param        token query string false "JWT, if not sent via Authorization header"
// @Success      101 {object} map[string]interface{} "Switching Protocols - WebSocket connection established"
// @Failure      401 {object} json.ErrorResponse "Missing, invalid or expired credential"
// @Router       /game/ws [get]
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	token := auth.TokenFromRequest(r)

	ident, err := h.gate.Admit(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnauthenticated):
			httpjson.WriteError(w, http.StatusUnauthorized, err, "Authentication required")
		case errors.Is(err, domain.ErrIdentityNotFound):
			httpjson.WriteError(w, http.StatusUnauthorized, err, "User not found")
		default:
			httpjson.WriteInternalError(w, err)
		}
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error(logging.Game, logging.Admission, "websocket upgrade failed", map[logging.ExtraKey]any{
			logging.UserID:       ident.ID,
			logging.ErrorMessage: err.Error(),
		})
		return
	}

	client := ws.NewClient(conn, uuid.NewString(), ident, h.sendBuffer)

	metrics.ActiveConnections.Inc()
	h.logger.Info(logging.Game, logging.Admission, "client connected", map[logging.ExtraKey]any{
		logging.UserID: ident.ID,
		logging.ConnID: client.ID(),
	})

	go client.WritePump()
	go client.ReadPump(h.dispatch(client), func() {
		h.engine.Disconnect(client)
		metrics.ActiveConnections.Dec()
		h.logger.Info(logging.Game, logging.Admission, "client disconnected", map[logging.ExtraKey]any{
			logging.UserID: ident.ID,
			logging.ConnID: client.ID(),
		})
	})

	client.Send(ws.NewAuthenticated(ident))
}

// dispatch routes one inbound envelope to the engine. It runs on the
// client's read goroutine, so a single connection's events stay ordered.
func (h *Handler) dispatch(client *ws.Client) func(env ws.RawEnvelope) {
	return func(env ws.RawEnvelope) {
		switch env.Type {
		case ws.CreateRoom:
			h.engine.CreateRoom(client, client.Identity())

		case ws.JoinRoom:
			roomID, ok := decodeRoomID(env.Data)
			if !ok {
				client.Send(ws.NewError("Invalid join-room payload"))
				return
			}
			h.engine.JoinRoom(client, client.Identity(), roomID)

		case ws.SubmitAnswer:
			var payload ws.SubmitAnswerPayload
			if err := json.Unmarshal(env.Data, &payload); err != nil || payload.RoomID == "" {
				client.Send(ws.NewError("Invalid submit-answer payload"))
				return
			}
			h.engine.SubmitAnswer(client, payload.RoomID, payload.AnswerIndex)

		default:
			client.Send(ws.NewError("Unknown event type"))
		}
	}
}

// decodeRoomID accepts either {"roomId":"ABC123"} or a bare "ABC123".
func decodeRoomID(data []byte) (string, bool) {
	var payload ws.JoinRoomPayload
	if err := json.Unmarshal(data, &payload); err == nil && payload.RoomID != "" {
		return payload.RoomID, true
	}

	var plain string
	if err := json.Unmarshal(data, &plain); err == nil && plain != "" {
		return plain, true
	}

	return "", false
}
