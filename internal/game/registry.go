package game

import (
	"sync"

	"github.com/quizdash/quizdash/internal/domain"
	"github.com/quizdash/quizdash/internal/infrastructure/metrics"
	"github.com/quizdash/quizdash/internal/infrastructure/ws"
)

// Conn is the engine's view of a connected client. *ws.Client satisfies it;
// tests substitute recorders.
type Conn interface {
	ID() string
	Send(msg *ws.Envelope)
}

// roomEntry pairs a room with its live connections. room, conns and removed
// are guarded by mu; the registry's own lock never protects them. Lock order
// is entry.mu before Registry.mu, never the reverse.
type roomEntry struct {
	mu      sync.Mutex
	room    *domain.Room
	conns   map[string]Conn
	removed bool
}

// connIDs must be called with mu held.
func (e *roomEntry) connIDs() []string {
	ids := make([]string, 0, len(e.conns))
	for id := range e.conns {
		ids = append(ids, id)
	}
	return ids
}

// Registry owns the set of live rooms and the connection-to-room index.
// Room codes are unique among live rooms; a finished room's code may be
// reissued later.
type Registry struct {
	mu     sync.RWMutex
	rooms  map[string]*roomEntry
	byConn map[string]string
}

func NewRegistry() *Registry {
	return &Registry{
		rooms:  make(map[string]*roomEntry),
		byConn: make(map[string]string),
	}
}

// Create allocates a fresh room keyed by a newly generated code and binds
// the creator's connection to it. Code collisions with live rooms are
// regenerated.
func (r *Registry) Create(conn Conn, creator *domain.Player) (*roomEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byConn[conn.ID()]; ok {
		return nil, domain.ErrAlreadyInRoom
	}

	var code string
	for {
		c, err := domain.GenerateRoomCode()
		if err != nil {
			return nil, err
		}
		if _, taken := r.rooms[c]; !taken {
			code = c
			break
		}
	}

	entry := &roomEntry{
		room:  domain.NewRoom(code, creator),
		conns: map[string]Conn{conn.ID(): conn},
	}
	r.rooms[code] = entry
	r.byConn[conn.ID()] = code

	metrics.ActiveRooms.Inc()
	return entry, nil
}

// Lookup returns the entry for a code, if the room is still live.
func (r *Registry) Lookup(code string) (*roomEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.rooms[code]
	return entry, ok
}

// Bound reports whether the connection already occupies a room.
func (r *Registry) Bound(connID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byConn[connID]
	return ok
}

// Bind records the connection as a member of the room. The caller has
// already admitted the player under the entry lock.
func (r *Registry) Bind(connID, code string) {
	r.mu.Lock()
	r.byConn[connID] = code
	r.mu.Unlock()
}

// Unbind drops the connection from the index without touching the room.
func (r *Registry) Unbind(connID string) {
	r.mu.Lock()
	delete(r.byConn, connID)
	r.mu.Unlock()
}

// EntryOf resolves a connection to the room it currently occupies.
func (r *Registry) EntryOf(connID string) (*roomEntry, string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	code, ok := r.byConn[connID]
	if !ok {
		return nil, "", false
	}
	entry, ok := r.rooms[code]
	if !ok {
		return nil, "", false
	}
	return entry, code, true
}

// Remove deletes the room and unbinds the given connections. The caller
// collects the connection IDs under the entry lock and releases it before
// calling Remove.
func (r *Registry) Remove(code string, connIDs []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[code]; !ok {
		return
	}

	delete(r.rooms, code)
	for _, id := range connIDs {
		delete(r.byConn, id)
	}

	metrics.ActiveRooms.Dec()
}

// Len reports the number of live rooms.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
