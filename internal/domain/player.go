package domain

// Player binds an identity to a live connection inside one room. The
// connection itself is owned by the transport; the engine only holds the
// connection identifier.
type Player struct {
	ConnID      string `json:"-"`
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Color       string `json:"color"`
	Score       int    `json:"score"`
	Answered    bool   `json:"answered"`
}

func NewPlayer(connID string, ident Identity) *Player {
	return &Player{
		ConnID:      connID,
		UserID:      ident.ID,
		Username:    ident.Username,
		DisplayName: ident.DisplayName,
		Color:       ident.Color,
	}
}

// FinalScore is the immutable end-of-game snapshot for one player.
type FinalScore struct {
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Color       string `json:"color"`
	Score       int    `json:"score"`
}

func (p *Player) Snapshot() FinalScore {
	return FinalScore{
		UserID:      p.UserID,
		Username:    p.Username,
		DisplayName: p.DisplayName,
		Color:       p.Color,
		Score:       p.Score,
	}
}
