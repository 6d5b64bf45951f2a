package forms

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/yigit/communityadmin/internal/app/client"
	"github.com/yigit/communityadmin/internal/app/models"
	"github.com/yigit/communityadmin/internal/app/models/dto"
	"github.com/yigit/communityadmin/internal/pkg/notify"
	"github.com/yigit/communityadmin/internal/pkg/validation"
	"golang.org/x/sync/singleflight"
)

// InviteService is the part of the invites API the dialog uses
type InviteService interface {
	ForCommunity(ctx context.Context, communityID string) (models.Invite, error)
	CreateFor(ctx context.Context, communityID string) (models.Invite, error)
	Send(ctx context.Context, req dto.SendInviteRequest) error
}

// InviteDialog shows a community's invite link, creating it on first use, and
// sends one-off emailed invites
type InviteDialog struct {
	*Modal
	svc      InviteService
	notifier notify.Notifier
	log      zerolog.Logger
	group    singleflight.Group

	mu        sync.RWMutex
	links     map[string]string
	community string
}

// NewInviteDialog creates the invite modal
func NewInviteDialog(name string, svc InviteService, notifier notify.Notifier, log zerolog.Logger) *InviteDialog {
	return &InviteDialog{
		Modal:    NewModal(name),
		svc:      svc,
		notifier: notifier,
		log:      log.With().Str("form", name).Logger(),
		links:    make(map[string]string),
	}
}

// Open shows the dialog for communityID and loads its link
func (d *InviteDialog) Open(ctx context.Context, communityID string) (dto.InviteView, error) {
	d.Modal.Open()
	d.mu.Lock()
	d.community = communityID
	d.mu.Unlock()

	link, err := d.Link(ctx, communityID)
	return dto.InviteView{CommunityID: communityID, Link: link}, err
}

// Link returns the community's invite link, creating it when none exists.
// A fetched link is reused; concurrent loads for one community share one request.
func (d *InviteDialog) Link(ctx context.Context, communityID string) (string, error) {
	if link, ok := d.cached(communityID); ok {
		return link, nil
	}

	v, err, shared := d.group.Do(communityID, func() (interface{}, error) {
		if link, ok := d.cached(communityID); ok {
			return link, nil
		}

		inv, err := d.svc.ForCommunity(ctx, communityID)
		if errors.Is(err, client.ErrNoInvite) {
			d.log.Debug().Str("community", communityID).Msg("No invite yet, creating one")
			inv, err = d.svc.CreateFor(ctx, communityID)
		}
		if err != nil {
			return "", err
		}

		d.mu.Lock()
		d.links[communityID] = inv.Link
		d.mu.Unlock()
		return inv.Link, nil
	})
	if err != nil {
		if !shared {
			d.notifier.Error(err)
		}
		return "", err
	}
	return v.(string), nil
}

func (d *InviteDialog) cached(communityID string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	link, ok := d.links[communityID]
	return link, ok
}

// Send emails a one-off invite for the open community unless req names one
func (d *InviteDialog) Send(ctx context.Context, req dto.SendInviteRequest) error {
	if req.CommunityID == "" {
		d.mu.RLock()
		req.CommunityID = d.community
		d.mu.RUnlock()
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)

	return d.Submit(ctx, func(ctx context.Context) error {
		if err := validation.Struct(req); err != nil {
			d.notifier.Error(err)
			return err
		}
		if err := d.svc.Send(ctx, req); err != nil {
			d.notifier.Error(err)
			return err
		}
		d.notifier.Success("Invitation sent to " + req.Email)
		return nil
	})
}
