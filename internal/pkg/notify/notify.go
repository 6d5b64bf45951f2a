// Package notify is the single channel through which mutation failures and
// confirmations reach the person operating the console.
package notify

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/communityadmin/internal/pkg/apperrors"
)

// Level of a notice
type Level string

const (
	LevelError   Level = "error"
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
)

// Notice is one toast shown to the user
type Notice struct {
	Level   Level          `json:"level"`
	Kind    apperrors.Kind `json:"kind,omitempty"`
	Message string         `json:"message"`
	At      time.Time      `json:"at"`
}

// Notifier surfaces errors and confirmations
type Notifier interface {
	Error(err error)
	Success(message string)
}

// Toaster keeps the most recent notices in a bounded queue until they are drained,
// and mirrors each one to the log.
type Toaster struct {
	mu      sync.Mutex
	notices []Notice
	limit   int
	log     zerolog.Logger
	now     func() time.Time
}

// NewToaster creates a toaster holding at most limit undrained notices
func NewToaster(limit int, log zerolog.Logger) *Toaster {
	if limit <= 0 {
		limit = 32
	}
	return &Toaster{limit: limit, log: log, now: time.Now}
}

// Error records a failure. Canceled requests are logged but not shown.
func (t *Toaster) Error(err error) {
	if err == nil {
		return
	}
	kind := apperrors.KindOf(err)
	t.log.Warn().Err(err).Str("kind", string(kind)).Msg("Operation failed")
	if kind == apperrors.KindCanceled {
		return
	}
	t.push(Notice{Level: LevelError, Kind: kind, Message: apperrors.Message(err)})
}

// Success records a confirmation
func (t *Toaster) Success(message string) {
	t.log.Info().Msg(message)
	t.push(Notice{Level: LevelSuccess, Message: message})
}

// Info records a neutral message
func (t *Toaster) Info(message string) {
	t.log.Info().Msg(message)
	t.push(Notice{Level: LevelInfo, Message: message})
}

func (t *Toaster) push(n Notice) {
	t.mu.Lock()
	defer t.mu.Unlock()

	n.At = t.now()
	t.notices = append(t.notices, n)
	if over := len(t.notices) - t.limit; over > 0 {
		// drop the oldest
		t.notices = append(t.notices[:0:0], t.notices[over:]...)
	}
}

// Pending returns the number of undrained notices
func (t *Toaster) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.notices)
}

// Drain returns and clears the pending notices, oldest first
func (t *Toaster) Drain() []Notice {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := t.notices
	t.notices = nil
	if out == nil {
		return []Notice{}
	}
	return out
}

// Recorder is a Notifier that keeps everything, for tests
type Recorder struct {
	mu        sync.Mutex
	Errors    []error
	Successes []string
}

// Error implements Notifier
func (r *Recorder) Error(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Errors = append(r.Errors, err)
}

// Success implements Notifier
func (r *Recorder) Success(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Successes = append(r.Successes, message)
}

// ErrorCount returns how many errors were recorded
func (r *Recorder) ErrorCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Errors)
}

// LastError returns the most recent error or nil
func (r *Recorder) LastError() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Errors) == 0 {
		return nil
	}
	return r.Errors[len(r.Errors)-1]
}
