package logging

type Category string
type SubCategory string
type ExtraKey string

const (
	General         Category = "General"
	Game            Category = "Game"
	Internal        Category = "Internal"
	Mongo           Category = "Mongo"
	RabbitMQ        Category = "RabbitMQ"
	Validation      Category = "Validation"
	RequestResponse Category = "RequestResponse"
	Prometheus      Category = "Prometheus"
)

const (
	// General
	Startup         SubCategory = "Startup"
	RateLimiting    SubCategory = "RateLimiting"
	ExternalService SubCategory = "ExternalService"

	// Game
	Admission    SubCategory = "Admission"
	RoomLifetime SubCategory = "RoomLifetime"
	Scoring      SubCategory = "Scoring"
	StatsPublish SubCategory = "StatsPublish"
)

const (
	AppName      ExtraKey = "AppName"
	LoggerName   ExtraKey = "Logger"
	ClientIp     ExtraKey = "ClientIp"
	Method       ExtraKey = "Method"
	StatusCode   ExtraKey = "StatusCode"
	Path         ExtraKey = "Path"
	Latency      ExtraKey = "Latency"
	ErrorMessage ExtraKey = "ErrorMessage"

	RoomCode ExtraKey = "RoomCode"
	UserID   ExtraKey = "UserId"
	ConnID   ExtraKey = "ConnId"
)
