// Package workspace keeps one pages.Workspace per browser session in a bounded LRU.
package workspace

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	"github.com/rs/zerolog"
	"github.com/yigit/communityadmin/internal/app/pages"
)

// Factory builds the workspace for a new session id
type Factory func(id string) (*pages.Workspace, error)

// Registry holds the live workspaces. Evicting a workspace closes it, which
// cancels its in-flight upstream calls.
type Registry struct {
	cache   *lru.Cache
	factory Factory
	log     zerolog.Logger
	mu      sync.Mutex
}

// NewRegistry creates a registry holding at most size workspaces
func NewRegistry(size int, factory Factory, log zerolog.Logger) (*Registry, error) {
	r := &Registry{factory: factory, log: log}
	cache, err := lru.NewWithEvict(size, r.evicted)
	if err != nil {
		return nil, fmt.Errorf("creating workspace cache: %w", err)
	}
	r.cache = cache
	return r, nil
}

func (r *Registry) evicted(key, value interface{}) {
	ws, ok := value.(*pages.Workspace)
	if !ok {
		return
	}
	ws.Close()
	r.log.Debug().Str("workspace", fmt.Sprint(key)).Msg("Workspace closed")
}

// Get returns the workspace id and marks it recently used
func (r *Registry) Get(id string) (*pages.Workspace, bool) {
	if id == "" {
		return nil, false
	}
	v, ok := r.cache.Get(id)
	if !ok {
		return nil, false
	}
	ws := v.(*pages.Workspace)
	ws.Touch()
	return ws, true
}

// Resolve returns the workspace id, creating a fresh one under a new id when
// id is unknown. created reports whether a new workspace was made.
func (r *Registry) Resolve(id string) (ws *pages.Workspace, created bool, err error) {
	if ws, ok := r.Get(id); ok {
		return ws, false, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	ws, err = r.factory(uuid.NewString())
	if err != nil {
		return nil, false, err
	}
	r.cache.Add(ws.ID, ws)
	r.log.Debug().Str("workspace", ws.ID).Int("live", r.cache.Len()).Msg("Workspace created")
	return ws, true, nil
}

// Remove closes and forgets workspace id
func (r *Registry) Remove(id string) {
	r.cache.Remove(id)
}

// Sweep closes the workspaces unused for longer than idle and returns how many
func (r *Registry) Sweep(now time.Time, idle time.Duration) int {
	removed := 0
	for _, key := range r.cache.Keys() {
		v, ok := r.cache.Peek(key)
		if !ok {
			continue
		}
		if now.Sub(v.(*pages.Workspace).LastSeen()) > idle {
			r.cache.Remove(key)
			removed++
		}
	}
	if removed > 0 {
		r.log.Info().Int("removed", removed).Int("live", r.cache.Len()).Msg("Idle workspaces swept")
	}
	return removed
}

// Len returns the number of live workspaces
func (r *Registry) Len() int {
	return r.cache.Len()
}

// Close closes every workspace
func (r *Registry) Close() {
	r.cache.Purge()
}
