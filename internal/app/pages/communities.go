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

// CommunitiesPage is the admin communities grid with its create, edit and invite modals
type CommunitiesPage struct {
	Store  *state.Store[models.Community]
	Ctrl   *mutation.Controller[models.Community]
	Create *forms.CommunityForm
	Edit   *forms.CommunityForm
	Invite *forms.InviteDialog
	deps   Deps
}

// CommunityListing is one page of the grid plus the dashboard totals
type CommunityListing struct {
	dto.PaginatedResponse
	Dashboard views.Dashboard `json:"dashboard"`
}

// NewCommunitiesPage wires the page under life
func NewCommunitiesPage(life *state.Lifetime, deps Deps) *CommunitiesPage {
	log := deps.Log.With().Str("page", "communities").Logger()
	store := state.NewStore("communities", func(ctx context.Context) ([]models.Community, error) {
		return deps.API.Communities.List(ctx, nil)
	}, life, deps.Notifier, log)
	ctrl := mutation.NewController("community", store, deps.Notifier, mutation.Refetch, log)

	return &CommunitiesPage{
		Store:  store,
		Ctrl:   ctrl,
		Create: forms.NewCommunityForm("new-community", deps.API.Communities, ctrl, deps.Session, deps.Notifier, log),
		Edit:   forms.NewCommunityForm("edit-community", deps.API.Communities, ctrl, deps.Session, deps.Notifier, log),
		Invite: forms.NewInviteDialog("invite-user", deps.API.Invites, deps.Notifier, log),
		deps:   deps,
	}
}

// Mount loads the list
func (p *CommunitiesPage) Mount(ctx context.Context) error {
	return p.Store.Fetch(ctx)
}

// Refresh reloads the list
func (p *CommunitiesPage) Refresh(ctx context.Context) error {
	return p.Store.Refresh(ctx)
}

// Listing returns one page of rows and the totals over all communities
func (p *CommunitiesPage) Listing(page, size int) CommunityListing {
	items := p.Store.Items()
	return CommunityListing{
		PaginatedResponse: views.Page(views.CommunityRows(items), page, size, p.Store.Loading()),
		Dashboard:         views.Summarize(items),
	}
}

// Delete removes a community
func (p *CommunitiesPage) Delete(ctx context.Context, id string) error {
	return p.Ctrl.Delete(ctx, id, p.deps.API.Communities.Delete)
}
