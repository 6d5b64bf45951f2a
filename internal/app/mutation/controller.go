// Package mutation applies create, update, delete and toggle operations to an
// entity store and reconciles the store with the server afterwards.
package mutation

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/communityadmin/internal/app/models"
	"github.com/yigit/communityadmin/internal/app/state"
	"github.com/yigit/communityadmin/internal/pkg/apperrors"
	"github.com/yigit/communityadmin/internal/pkg/notify"
)

// Reconcile selects how the store catches up after a successful mutation
type Reconcile int

const (
	// Refetch reloads the whole list so server-assigned fields win
	Refetch Reconcile = iota
	// Append patches the returned entity into the list locally
	Append
)

// String implements fmt.Stringer
func (r Reconcile) String() string {
	if r == Append {
		return "append"
	}
	return "refetch"
}

// Step is one independent request of an update, e.g. the text fields or the photo
type Step[T models.Entity] struct {
	Name string
	Run  func(ctx context.Context) (T, error)
}

// Controller mutates one store. Every failure goes to the notifier.
type Controller[T models.Entity] struct {
	resource string
	store    *state.Store[T]
	notifier notify.Notifier
	policy   Reconcile
	seq      *Sequencer
	log      zerolog.Logger
}

// NewController creates a controller for store. resource names the entity in messages.
func NewController[T models.Entity](resource string, store *state.Store[T], notifier notify.Notifier, policy Reconcile, log zerolog.Logger) *Controller[T] {
	return &Controller[T]{
		resource: resource,
		store:    store,
		notifier: notifier,
		policy:   policy,
		seq:      NewSequencer(),
		log:      log.With().Str("resource", resource).Logger(),
	}
}

// Store returns the controlled store
func (c *Controller[T]) Store() *state.Store[T] { return c.store }

// Policy returns the reconcile policy
func (c *Controller[T]) Policy() Reconcile { return c.policy }

// Create runs call and reconciles on success. On failure the store is left
// untouched and the error returned so the form can stay open.
func (c *Controller[T]) Create(ctx context.Context, call func(ctx context.Context) (T, error)) (T, error) {
	created, err := call(ctx)
	if err != nil {
		c.fail("create", err)
		var zero T
		return zero, err
	}

	c.log.Info().Str("id", created.GetID()).Str("policy", c.policy.String()).Msg("Created")
	c.reconcile(ctx, func() { c.store.Append(created) })
	return created, nil
}

// Update attempts every step in order on the entity id. Each successful step is
// committed to the store even when a later one fails; the failures are returned joined.
func (c *Controller[T]) Update(ctx context.Context, id string, steps ...Step[T]) error {
	if models.IsPlaceholderID(id) {
		err := apperrors.NewPlaceholderActionError("update", c.resource)
		c.fail("update", err)
		return err
	}
	if len(steps) == 0 {
		return nil
	}

	return c.seq.Do(ctx, id, func() error {
		var errs []error
		succeeded := 0
		for _, step := range steps {
			updated, err := step.Run(ctx)
			if err != nil {
				c.fail("update "+step.Name, err)
				errs = append(errs, err)
				continue
			}
			succeeded++
			if updated.GetID() != "" {
				c.store.Replace(id, updated)
			}
			c.log.Debug().Str("id", id).Str("step", step.Name).Msg("Update step applied")
		}

		if succeeded > 0 && c.policy == Refetch {
			_ = c.store.Refresh(ctx)
		}
		return errors.Join(errs...)
	})
}

// Delete removes the entity id through call. Ids the server never assigned are
// rejected before any request.
func (c *Controller[T]) Delete(ctx context.Context, id string, call func(ctx context.Context, id string) error) error {
	if models.IsPlaceholderID(id) {
		err := apperrors.NewPlaceholderError(c.resource)
		c.fail("delete", err)
		return err
	}

	return c.seq.Do(ctx, id, func() error {
		if err := call(ctx, id); err != nil {
			c.fail("delete", err)
			return err
		}
		c.log.Info().Str("id", id).Msg("Deleted")
		c.reconcile(ctx, func() { c.store.RemoveByID(id) })
		return nil
	})
}

// Toggle commits apply to the entity id right away, then runs call. When call
// fails, revert is committed and the error surfaced.
func (c *Controller[T]) Toggle(ctx context.Context, id string, apply, revert func(*T), call func(ctx context.Context) error) error {
	return c.ToggleUnless(ctx, id, nil, apply, revert, call)
}

// ToggleUnless is Toggle that does nothing when done reports the entity is
// already in the wanted state. The check runs in the same ordered section as
// the change, so concurrent toggles of one id see each other's result.
func (c *Controller[T]) ToggleUnless(ctx context.Context, id string, done func(T) bool, apply, revert func(*T), call func(ctx context.Context) error) error {
	if models.IsPlaceholderID(id) {
		err := apperrors.NewPlaceholderActionError("update", c.resource)
		c.fail("toggle", err)
		return err
	}

	return c.seq.Do(ctx, id, func() error {
		skip := false
		found := c.store.PatchByID(id, func(t *T) {
			if done != nil && done(*t) {
				skip = true
				return
			}
			apply(t)
		})
		if !found {
			return fmt.Errorf("%s %s: %w", c.resource, id, apperrors.ErrNotFound)
		}
		if skip {
			return nil
		}
		if err := call(ctx); err != nil {
			c.store.PatchByID(id, revert)
			c.fail("toggle", err)
			return err
		}
		return nil
	})
}

func (c *Controller[T]) reconcile(ctx context.Context, local func()) {
	if c.policy == Append {
		local()
		return
	}
	// the store surfaces its own fetch failure
	if err := c.store.Refresh(ctx); err != nil {
		c.log.Debug().Err(err).Msg("Refetch after mutation failed")
	}
}

func (c *Controller[T]) fail(op string, err error) {
	c.log.Debug().Err(err).Str("op", op).Msg("Mutation failed")
	if c.notifier != nil {
		c.notifier.Error(err)
	}
}
