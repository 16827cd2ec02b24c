package ws

// Inbound event types sent by clients.
const (
	CreateRoom   = "create-room"
	JoinRoom     = "join-room"
	SubmitAnswer = "submit-answer"
)

// Outbound event types sent by the server.
const (
	Authenticated = "authenticated"
	RoomCreated   = "room-created"
	RoomJoined    = "room-joined"
	PlayerJoined  = "player-joined"
	QuestionEvent = "question"
	AnswerResult  = "answer-result"
	PlayerLeft    = "player-left"
	GameOver      = "game-over"
	ErrorEvent    = "error"
)
