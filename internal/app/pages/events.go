package pages

import (
	"context"

	"github.com/yigit/communityadmin/internal/app/forms"
	"github.com/yigit/communityadmin/internal/app/models"
	"github.com/yigit/communityadmin/internal/app/models/dto"
	"github.com/yigit/communityadmin/internal/app/mutation"
	"github.com/yigit/communityadmin/internal/app/state"
	"github.com/yigit/communityadmin/internal/app/views"
)

// EventsPage lists events in "new" and "past" tabs with create and edit modals
type EventsPage struct {
	Store  *state.Store[models.Event]
	Ctrl   *mutation.Controller[models.Event]
	Create *forms.EventForm
	Edit   *forms.EventForm
	deps   Deps
}

// NewEventsPage wires the page under life. Admins list every event; others
// list the events visible to them.
func NewEventsPage(life *state.Lifetime, deps Deps) *EventsPage {
	log := deps.Log.With().Str("page", "events").Logger()
	store := state.NewStore("events", func(ctx context.Context) ([]models.Event, error) {
		var (
			resp models.EventsResponse
			err  error
		)
		if u, ok := deps.Session.User(); ok && u.Role.IsAdmin() {
			resp, err = deps.API.Events.QueryAll(ctx, dto.EventQuery{})
		} else {
			resp, err = deps.API.Events.Query(ctx, dto.EventQuery{})
		}
		return resp.Events, err
	}, life, deps.Notifier, log)
	ctrl := mutation.NewController("event", store, deps.Notifier, mutation.Refetch, log)

	return &EventsPage{
		Store:  store,
		Ctrl:   ctrl,
		Create: forms.NewEventForm("new-event", deps.API.Events, deps.API.Communities, ctrl, deps.Notifier, deps.location(), log),
		Edit:   forms.NewEventForm("edit-event", deps.API.Events, deps.API.Communities, ctrl, deps.Notifier, deps.location(), log),
		deps:   deps,
	}
}

// Mount loads the events
func (p *EventsPage) Mount(ctx context.Context) error {
	return p.Store.Fetch(ctx)
}

// Cards returns the cards of tab
func (p *EventsPage) Cards(tab views.Tab) []dto.EventCard {
	return views.EventCards(p.Store.Items(), tab, p.deps.now(), p.deps.location())
}

// Delete removes an event
func (p *EventsPage) Delete(ctx context.Context, id string) error {
	return p.Ctrl.Delete(ctx, id, p.deps.API.Events.Delete)
}

// SetEnrolled enrolls or unenrolls the signed-in user, showing the change at once
func (p *EventsPage) SetEnrolled(ctx context.Context, id string, enrolled bool) error {
	viewer := models.User{ID: p.deps.Session.ViewerID()}
	if u, ok := p.deps.Session.User(); ok {
		viewer = u
	}

	add := func(e *models.Event) {
		if !e.IsEnrolled(viewer.ID) {
			e.Attendees = append(e.Attendees, models.Attendee{User: viewer, EnrolledAt: p.deps.now(), Status: models.AttendeeEnrolled})
		}
	}
	remove := func(e *models.Event) {
		kept := e.Attendees[:0:0]
		for _, a := range e.Attendees {
			if a.User.ID != viewer.ID {
				kept = append(kept, a)
			}
		}
		e.Attendees = kept
	}

	done := func(e models.Event) bool { return e.IsEnrolled(viewer.ID) == enrolled }
	if enrolled {
		return p.Ctrl.ToggleUnless(ctx, id, done, add, remove, func(ctx context.Context) error {
			_, err := p.deps.API.Events.Enroll(ctx, id)
			return err
		})
	}
	return p.Ctrl.ToggleUnless(ctx, id, done, remove, add, func(ctx context.Context) error {
		_, err := p.deps.API.Events.Unenroll(ctx, id)
		return err
	})
}

// Stats returns the admin event statistics
func (p *EventsPage) Stats(ctx context.Context) (models.EventStats, error) {
	stats, err := p.deps.API.Events.Stats(ctx)
	if err != nil {
		p.deps.Notifier.Error(err)
	}
	return stats, err
}
