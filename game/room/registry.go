package room

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/beergame-sim/beergame-sim/game"
	"github.com/beergame-sim/beergame-sim/game/store"
)

// Registry owns the live rooms with an explicit lifecycle: create, lookup,
// destroy. It is constructed and passed by reference; there is no
// process-wide singleton behind it.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

// Create builds a new room under a fresh collision-checked short ID and
// starts it. pub may be nil for the default log publisher; st may be nil to
// disable persistence.
func (g *Registry) Create(rules game.Rules, key game.TournamentKey, pub Publisher, st store.Store) (*Room, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if pub == nil {
		pub = LogPublisher{}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	id := newRoomID()
	for g.rooms[id] != nil {
		id = newRoomID()
	}
	r := New(id, rules, key, pub, st)
	g.rooms[id] = r
	logrus.Infof("registry: created room %s", id)
	return r, nil
}

// Lookup returns the room with the given ID.
func (g *Registry) Lookup(id string) (*Room, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	r, ok := g.rooms[id]
	if !ok {
		return nil, game.Errorf(game.CodeRoomNotFound, "room %s not found", id)
	}
	return r, nil
}

// Destroy closes the room and removes it from the registry.
func (g *Registry) Destroy(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	r, ok := g.rooms[id]
	if !ok {
		return game.Errorf(game.CodeRoomNotFound, "room %s not found", id)
	}
	r.Close()
	delete(g.rooms, id)
	logrus.Infof("registry: destroyed room %s", id)
	return nil
}

// List returns the IDs of the live rooms in unspecified order.
func (g *Registry) List() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	ids := make([]string, 0, len(g.rooms))
	for id := range g.rooms {
		ids = append(ids, id)
	}
	return ids
}

// newRoomID derives a short, human-pasteable room ID from a UUID.
func newRoomID() string {
	return "room-" + strings.Split(uuid.NewString(), "-")[0]
}
