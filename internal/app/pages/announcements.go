package pages

import (
	"context"

	"github.com/yigit/communityadmin/internal/app/forms"
	"github.com/yigit/communityadmin/internal/app/models"
	"github.com/yigit/communityadmin/internal/app/mutation"
	"github.com/yigit/communityadmin/internal/app/state"
)

// AnnouncementsPage lists announcements; every change is followed by a refetch
type AnnouncementsPage struct {
	Store *state.Store[models.Announcement]
	Ctrl  *mutation.Controller[models.Announcement]
	Form  *forms.AnnouncementForm
	deps  Deps
}

// NewAnnouncementsPage wires the page under life
func NewAnnouncementsPage(life *state.Lifetime, deps Deps) *AnnouncementsPage {
	log := deps.Log.With().Str("page", "announcements").Logger()
	store := state.NewStore("announcements", func(ctx context.Context) ([]models.Announcement, error) {
		return deps.API.Announcements.List(ctx, nil)
	}, life, deps.Notifier, log)
	ctrl := mutation.NewController("announcement", store, deps.Notifier, mutation.Refetch, log)

	return &AnnouncementsPage{
		Store: store,
		Ctrl:  ctrl,
		Form:  forms.NewAnnouncementForm("new-announcement", deps.API.Announcements, ctrl, deps.Notifier),
		deps:  deps,
	}
}

// Mount loads the announcements
func (p *AnnouncementsPage) Mount(ctx context.Context) error {
	return p.Store.Fetch(ctx)
}

// Delete removes an announcement
func (p *AnnouncementsPage) Delete(ctx context.Context, id string) error {
	return p.Ctrl.Delete(ctx, id, p.deps.API.Announcements.Delete)
}
