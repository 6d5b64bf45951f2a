package client

import (
	"context"
	"net/http"

	"github.com/yigit/communityadmin/internal/app/models"
	"github.com/yigit/communityadmin/internal/app/models/dto"
)

// MeAPI wraps /api/me
type MeAPI struct {
	c *Client
}

// NewMeAPI creates the current-user client
func NewMeAPI(c *Client) *MeAPI {
	return &MeAPI{c: c}
}

// Get fetches the signed-in user
func (a *MeAPI) Get(ctx context.Context) (models.User, error) {
	var u models.User
	err := a.c.Get(ctx, "/api/me", nil, &u)
	return u, err
}

// Update changes email and/or password. Nothing is sent when both are empty,
// in which case the returned user is nil.
func (a *MeAPI) Update(ctx context.Context, req dto.UpdateMeRequest) (*models.User, error) {
	if req.Email == "" && req.Password == "" {
		return nil, nil
	}
	var u models.User
	if err := a.c.Post(ctx, "/api/me", req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UploadPhoto replaces the profile photo
func (a *MeAPI) UploadPhoto(ctx context.Context, photo File) (models.User, error) {
	var u models.User
	err := a.c.Upload(ctx, http.MethodPost, "/api/me/photo", nil, photo, &u)
	return u, err
}
