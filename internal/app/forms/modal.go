// Package forms implements the modal create and edit flows for communities,
// events, invites, announcements and signup.
package forms

import (
	"context"
	"errors"
	"sync"

	"github.com/yigit/communityadmin/internal/pkg/apperrors"
)

// ErrSubmitInProgress is returned when a submit arrives while another is running
var ErrSubmitInProgress = errors.New("submit already in progress")

// ModalState is the state of a modal form
type ModalState string

const (
	StateClosed     ModalState = "closed"
	StateOpen       ModalState = "open"
	StateSubmitting ModalState = "submitting"
)

// Modal is the closed -> open -> submitting -> closed|open state machine shared
// by every form. A submit while submitting never reaches the action.
type Modal struct {
	name   string
	region *Region

	mu      sync.Mutex
	state   ModalState
	lastErr error
}

// NewModal creates a closed modal whose content is the region rooted at name
func NewModal(name string) *Modal {
	return &Modal{name: name, region: NewRegion(name), state: StateClosed}
}

// Name returns the modal name
func (m *Modal) Name() string { return m.name }

// Region returns the on-screen region holding the form
func (m *Modal) Region() *Region { return m.region }

// State returns the current state
func (m *Modal) State() ModalState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Err returns the error of the last failed submit while the modal stays open
func (m *Modal) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// Open shows the form; an open or submitting modal is left as is
func (m *Modal) Open() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateClosed {
		m.state = StateOpen
		m.lastErr = nil
	}
}

// Close hides the form unless a submit is running
func (m *Modal) Close() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateSubmitting {
		return false
	}
	m.state = StateClosed
	m.lastErr = nil
	return true
}

// Dismiss handles a click on target. A click outside the region closes an
// open modal without submitting. It reports whether the modal closed.
func (m *Modal) Dismiss(target *Node) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateOpen || m.region.Contains(target) {
		return false
	}
	m.state = StateClosed
	m.lastErr = nil
	return true
}

// Submit runs action once. A closed modal is opened first. Success closes the
// modal; failure leaves it open with the error kept for display. Validation
// errors returned by action behave the same way.
func (m *Modal) Submit(ctx context.Context, action func(ctx context.Context) error) error {
	m.mu.Lock()
	if m.state == StateSubmitting {
		m.mu.Unlock()
		return &apperrors.Error{Kind: apperrors.KindValidation, Message: "Form is already being submitted", Err: ErrSubmitInProgress}
	}
	m.state = StateSubmitting
	m.mu.Unlock()

	err := action(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.state = StateOpen
		m.lastErr = err
		return err
	}
	m.state = StateClosed
	m.lastErr = nil
	return nil
}
