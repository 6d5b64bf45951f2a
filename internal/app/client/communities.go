package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/yigit/communityadmin/internal/app/models"
	"github.com/yigit/communityadmin/internal/app/models/dto"
	"github.com/yigit/communityadmin/internal/pkg/apperrors"
)

// CommunitiesAPI wraps /api/communities
type CommunitiesAPI struct {
	*Resource[models.Community]
}

// NewCommunitiesAPI creates the communities client
func NewCommunitiesAPI(c *Client) *CommunitiesAPI {
	return &CommunitiesAPI{Resource: NewResource[models.Community](c, "/api/communities", "community")}
}

// Create creates a community with a generic cover
func (a *CommunitiesAPI) Create(ctx context.Context, name, description string) (models.Community, error) {
	return a.Resource.Create(ctx, dto.CreateCommunityRequest{Name: name, Description: description, Generic: 1})
}

// CreateCustom creates a community with an uploaded cover photo
func (a *CommunitiesAPI) CreateCustom(ctx context.Context, name, description string, photo File) (models.Community, error) {
	var created models.Community
	err := a.c.Upload(ctx, http.MethodPost, a.Path("custom"), map[string]string{
		"name":        name,
		"description": description,
	}, photo, &created)
	return created, err
}

// UpdateText changes name and description
func (a *CommunitiesAPI) UpdateText(ctx context.Context, id, name, description string) (models.Community, error) {
	return a.Update(ctx, id, dto.UpdateCommunityRequest{Name: name, Description: description})
}

// UpdatePhoto replaces the cover photo
func (a *CommunitiesAPI) UpdatePhoto(ctx context.Context, id string, photo File) (models.Community, error) {
	var updated models.Community
	err := a.c.Upload(ctx, http.MethodPut, a.Path(id, "image"), nil, photo, &updated)
	return updated, err
}

// FindByName looks a community up by display name. The server has no such
// endpoint so the whole list is fetched.
func (a *CommunitiesAPI) FindByName(ctx context.Context, name string) (models.Community, error) {
	all, err := a.List(ctx, nil)
	if err != nil {
		return models.Community{}, err
	}
	for _, c := range all {
		if c.Name == name {
			return c, nil
		}
	}
	return models.Community{}, fmt.Errorf("community with name %q not found: %w", name, apperrors.ErrNotFound)
}
