package forms

import (
	"context"
	"strings"

	"github.com/yigit/communityadmin/internal/app/models"
	"github.com/yigit/communityadmin/internal/app/models/dto"
	"github.com/yigit/communityadmin/internal/app/mutation"
	"github.com/yigit/communityadmin/internal/pkg/notify"
	"github.com/yigit/communityadmin/internal/pkg/validation"
)

// AnnouncementPublisher publishes announcements
type AnnouncementPublisher interface {
	Publish(ctx context.Context, req dto.AnnouncementRequest) (models.Announcement, error)
}

// AnnouncementForm publishes an announcement
type AnnouncementForm struct {
	*Modal
	svc      AnnouncementPublisher
	ctrl     *mutation.Controller[models.Announcement]
	notifier notify.Notifier
}

// NewAnnouncementForm creates the announcement form
func NewAnnouncementForm(name string, svc AnnouncementPublisher, ctrl *mutation.Controller[models.Announcement], notifier notify.Notifier) *AnnouncementForm {
	return &AnnouncementForm{Modal: NewModal(name), svc: svc, ctrl: ctrl, notifier: notifier}
}

// Create validates and publishes req
func (f *AnnouncementForm) Create(ctx context.Context, req dto.AnnouncementRequest) (models.Announcement, error) {
	var created models.Announcement
	err := f.Submit(ctx, func(ctx context.Context) error {
		req.Header = strings.TrimSpace(req.Header)
		req.Subcontent = strings.TrimSpace(req.Subcontent)
		if err := validation.Struct(req); err != nil {
			f.notifier.Error(err)
			return err
		}
		var err error
		created, err = f.ctrl.Create(ctx, func(ctx context.Context) (models.Announcement, error) {
			return f.svc.Publish(ctx, req)
		})
		return err
	})
	return created, err
}
