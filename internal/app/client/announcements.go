package client

import (
	"context"

	"github.com/yigit/communityadmin/internal/app/models"
	"github.com/yigit/communityadmin/internal/app/models/dto"
)

// AnnouncementsAPI wraps /api/announcements
type AnnouncementsAPI struct {
	*Resource[models.Announcement]
}

// NewAnnouncementsAPI creates the announcements client
func NewAnnouncementsAPI(c *Client) *AnnouncementsAPI {
	return &AnnouncementsAPI{Resource: NewResource[models.Announcement](c, "/api/announcements", "announcement")}
}

// Publish creates an announcement
func (a *AnnouncementsAPI) Publish(ctx context.Context, req dto.AnnouncementRequest) (models.Announcement, error) {
	return a.Create(ctx, req)
}
