// Package notify keeps track of live client connections per user and pushes
// events to them.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/matchmaker/internal/logging"
)

const EventApplicationApproved = "application_approved"

// Event is written to the client as a JSON message.
type Event struct {
	Type          string    `json:"type"`
	UserID        string    `json:"userId"`
	ApplicationID string    `json:"applicationId,omitempty"`
	At            time.Time `json:"at"`
}

// Conn is a live connection. *websocket.Conn satisfies it.
type Conn interface {
	WriteJSON(v any) error
	Close() error
}

// Notifier delivers an event to a user. It reports whether at least one live
// connection received it; having no connection is not an error.
type Notifier interface {
	Notify(ctx context.Context, userID string, ev Event) bool
}

// guardedConn serialises writes: a websocket connection supports one
// concurrent writer.
type guardedConn struct {
	mu   sync.Mutex
	conn Conn
}

func (g *guardedConn) write(v any) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.conn.WriteJSON(v)
}

// Registry maps a user id to its set of live connections.
type Registry struct {
	mu     sync.RWMutex
	conns  map[string]map[*guardedConn]struct{}
	logger logging.Logger
}

func NewRegistry(logger logging.Logger) *Registry {
	return &Registry{
		conns:  make(map[string]map[*guardedConn]struct{}),
		logger: logger.With("module", "notify"),
	}
}

// Register adds conn for userID and returns the function that removes it.
// The returned function is safe to call more than once.
func (r *Registry) Register(userID string, conn Conn) (unregister func()) {
	g := &guardedConn{conn: conn}

	r.mu.Lock()
	set, ok := r.conns[userID]
	if !ok {
		set = make(map[*guardedConn]struct{})
		r.conns[userID] = set
	}
	set[g] = struct{}{}
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { r.remove(userID, g) })
	}
}

func (r *Registry) remove(userID string, g *guardedConn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.conns[userID]
	if !ok {
		return
	}
	delete(set, g)
	if len(set) == 0 {
		delete(r.conns, userID)
	}
}

// Connections returns the number of live connections for userID.
func (r *Registry) Connections(userID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns[userID])
}

// Notify writes ev to every connection of userID. Connections that fail to
// accept the write are closed and dropped.
func (r *Registry) Notify(ctx context.Context, userID string, ev Event) bool {
	r.mu.RLock()
	targets := make([]*guardedConn, 0, len(r.conns[userID]))
	for g := range r.conns[userID] {
		targets = append(targets, g)
	}
	r.mu.RUnlock()

	delivered := false
	for _, g := range targets {
		if err := g.write(ev); err != nil {
			r.logger.Warn(ctx, "dropping connection after failed write", "userId", userID, "error", err)
			r.remove(userID, g)
			_ = g.conn.Close()
			continue
		}
		delivered = true
	}
	return delivered
}
