package client

import (
	"context"
	"errors"
	"strings"

	"github.com/yigit/communityadmin/internal/app/models"
	"github.com/yigit/communityadmin/internal/app/models/dto"
	"github.com/yigit/communityadmin/internal/pkg/apperrors"
)

// NoInviteMessage is what the server answers for a community without an invite
const NoInviteMessage = "This community does not have a custom invite yet"

// ErrNoInvite reports that a community has no invite link yet
var ErrNoInvite = errors.New("community has no invite")

// InvitesAPI wraps /api/invites
type InvitesAPI struct {
	*Resource[models.Invite]
}

// NewInvitesAPI creates the invites client
func NewInvitesAPI(c *Client) *InvitesAPI {
	return &InvitesAPI{Resource: NewResource[models.Invite](c, "/api/invites", "invite")}
}

// ForCommunity returns the community's invite, or ErrNoInvite when none exists
func (a *InvitesAPI) ForCommunity(ctx context.Context, communityID string) (models.Invite, error) {
	inv, err := a.Get(ctx, communityID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) || strings.EqualFold(apperrors.Message(err), NoInviteMessage) {
			return models.Invite{}, ErrNoInvite
		}
		return models.Invite{}, err
	}
	if inv.Link == "" {
		return models.Invite{}, ErrNoInvite
	}
	if inv.Community == "" {
		inv.Community = communityID
	}
	return inv, nil
}

// CreateFor creates the invite link of a community
func (a *InvitesAPI) CreateFor(ctx context.Context, communityID string) (models.Invite, error) {
	inv, err := a.Create(ctx, dto.CreateInviteRequest{CommunityID: communityID})
	if err != nil {
		return models.Invite{}, err
	}
	if inv.Link == "" {
		return models.Invite{}, apperrors.NewDataShapeError("POST /api/invites", "invite response without a link")
	}
	if inv.Community == "" {
		inv.Community = communityID
	}
	return inv, nil
}

// Send emails a one-off invite
func (a *InvitesAPI) Send(ctx context.Context, req dto.SendInviteRequest) error {
	return a.c.Post(ctx, a.Path("send"), req, nil)
}
