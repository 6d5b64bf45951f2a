package state

import (
	"context"
	"sync"
)

// Lifetime is the cancellation token of a view. Requests started on behalf of
// the view run under its context; once the view closes, late results are
// discarded instead of applied.
type Lifetime struct {
	ctx    context.Context
	cancel context.CancelFunc
	parent *Lifetime

	mu       sync.Mutex
	children map[*Lifetime]struct{}
}

// NewLifetime creates a lifetime under parent
func NewLifetime(parent context.Context) *Lifetime {
	ctx, cancel := context.WithCancel(parent)
	return &Lifetime{ctx: ctx, cancel: cancel}
}

// Context returns the context requests of this lifetime run under
func (l *Lifetime) Context() context.Context {
	return l.ctx
}

// Child creates a lifetime that closes with l. A closed child is forgotten by l.
func (l *Lifetime) Child() *Lifetime {
	child := NewLifetime(l.ctx)
	child.parent = l
	l.mu.Lock()
	if l.children == nil {
		l.children = make(map[*Lifetime]struct{})
	}
	l.children[child] = struct{}{}
	l.mu.Unlock()
	return child
}

// Children returns the number of open child lifetimes
func (l *Lifetime) Children() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.children)
}

// Bind returns ctx cancelled additionally when the lifetime closes
func (l *Lifetime) Bind(ctx context.Context) (context.Context, context.CancelFunc) {
	bound, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(l.ctx, cancel)
	return bound, func() {
		stop()
		cancel()
	}
}

// Close cancels in-flight requests. Safe to call more than once.
func (l *Lifetime) Close() {
	l.cancel()
	l.mu.Lock()
	children := l.children
	l.children = nil
	l.mu.Unlock()
	for c := range children {
		c.Close()
	}
	if l.parent != nil {
		l.parent.forget(l)
	}
}

func (l *Lifetime) forget(child *Lifetime) {
	l.mu.Lock()
	delete(l.children, child)
	l.mu.Unlock()
}

// Closed reports whether the lifetime has ended
func (l *Lifetime) Closed() bool {
	return l.ctx.Err() != nil
}
