package mutation

import (
	"context"
	"sync"

	"github.com/yigit/communityadmin/internal/pkg/apperrors"
)

// Sequencer runs operations sharing a key one at a time, in the order Do was
// called. Different keys never wait on each other.
type Sequencer struct {
	mu    sync.Mutex
	tails map[string]chan struct{}
}

// NewSequencer creates an empty sequencer
func NewSequencer() *Sequencer {
	return &Sequencer{tails: make(map[string]chan struct{})}
}

// Do waits for earlier operations on key, then runs fn. If ctx ends while
// waiting, fn is skipped; later operations on key still wait for the earlier ones.
func (s *Sequencer) Do(ctx context.Context, key string, fn func() error) error {
	s.mu.Lock()
	prev := s.tails[key]
	done := make(chan struct{})
	s.tails[key] = done
	s.mu.Unlock()

	release := func() {
		s.mu.Lock()
		if s.tails[key] == done {
			delete(s.tails, key)
		}
		s.mu.Unlock()
		close(done)
	}

	if prev != nil {
		select {
		case <-prev:
		case <-ctx.Done():
			go func() {
				<-prev
				release()
			}()
			return apperrors.NewCanceledError("sequence "+key, ctx.Err())
		}
	}

	defer release()
	return fn()
}

// Pending returns how many keys have operations queued or running
func (s *Sequencer) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tails)
}
