package forms

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/communityadmin/internal/app/client"
	"github.com/yigit/communityadmin/internal/app/models"
	"github.com/yigit/communityadmin/internal/app/mutation"
	"github.com/yigit/communityadmin/internal/app/session"
	"github.com/yigit/communityadmin/internal/pkg/notify"
	"github.com/yigit/communityadmin/internal/pkg/validation"
)

// CommunityInput is what the community form collects
type CommunityInput struct {
	Name        string       `json:"name" form:"name" validate:"notblank,max=100"`
	Description string       `json:"description" form:"description" validate:"max=2000"`
	Photo       *client.File `json:"-" form:"-"`
}

// CommunityService is the part of the communities API the form uses
type CommunityService interface {
	Get(ctx context.Context, id string) (models.Community, error)
	Create(ctx context.Context, name, description string) (models.Community, error)
	CreateCustom(ctx context.Context, name, description string, photo client.File) (models.Community, error)
	UpdateText(ctx context.Context, id, name, description string) (models.Community, error)
	UpdatePhoto(ctx context.Context, id string, photo client.File) (models.Community, error)
}

// CommunityForm creates and edits communities
type CommunityForm struct {
	*Modal
	svc      CommunityService
	ctrl     *mutation.Controller[models.Community]
	session  session.Provider
	notifier notify.Notifier
	log      zerolog.Logger
}

// NewCommunityForm creates the community modal
func NewCommunityForm(name string, svc CommunityService, ctrl *mutation.Controller[models.Community], sess session.Provider, notifier notify.Notifier, log zerolog.Logger) *CommunityForm {
	return &CommunityForm{
		Modal:    NewModal(name),
		svc:      svc,
		ctrl:     ctrl,
		session:  sess,
		notifier: notifier,
		log:      log.With().Str("form", name).Logger(),
	}
}

// Create makes a community, with the attached photo as cover or a generic one
func (f *CommunityForm) Create(ctx context.Context, in CommunityInput) (models.Community, error) {
	var created models.Community
	err := f.Submit(ctx, func(ctx context.Context) error {
		if err := validation.Struct(in); err != nil {
			f.notifier.Error(err)
			return err
		}
		name := strings.TrimSpace(in.Name)
		desc := strings.TrimSpace(in.Description)

		var err error
		created, err = f.ctrl.Create(ctx, func(ctx context.Context) (models.Community, error) {
			if hasFile(in.Photo) {
				return f.svc.CreateCustom(ctx, name, desc, *in.Photo)
			}
			return f.svc.Create(ctx, name, desc)
		})
		if err != nil {
			return err
		}

		if f.session != nil {
			f.session.AddCommunity(created.Ref())
		}
		f.notifier.Success("Community created")
		return nil
	})
	return created, err
}

// Edit sends the photo and the text as separate requests. The text request is
// only made when the name or description changed, compared against the listed
// record or, when the list does not hold it, the server's. An edit without
// changes closes the form without any request.
func (f *CommunityForm) Edit(ctx context.Context, id string, in CommunityInput) error {
	return f.Submit(ctx, func(ctx context.Context) error {
		name := strings.TrimSpace(in.Name)
		desc := strings.TrimSpace(in.Description)

		current, known := f.ctrl.Store().Find(id)
		if !known {
			loaded, err := f.svc.Get(ctx, id)
			if err != nil {
				f.log.Debug().Err(err).Str("id", id).Msg("Could not load community, sending text as well")
			} else {
				current, known = loaded, true
			}
		}
		textChanged := !known || name != current.Name || desc != current.Description

		var steps []mutation.Step[models.Community]
		if hasFile(in.Photo) {
			photo := *in.Photo
			steps = append(steps, mutation.Step[models.Community]{
				Name: "photo",
				Run: func(ctx context.Context) (models.Community, error) {
					return f.svc.UpdatePhoto(ctx, id, photo)
				},
			})
		}
		if textChanged {
			if err := validation.Struct(in); err != nil {
				f.notifier.Error(err)
				return err
			}
			steps = append(steps, mutation.Step[models.Community]{
				Name: "text",
				Run: func(ctx context.Context) (models.Community, error) {
					return f.svc.UpdateText(ctx, id, name, desc)
				},
			})
		}

		if len(steps) == 0 {
			f.log.Debug().Str("id", id).Msg("Nothing changed")
			return nil
		}
		if err := f.ctrl.Update(ctx, id, steps...); err != nil {
			return err
		}
		f.notifier.Success("Community updated")
		return nil
	})
}

func hasFile(f *client.File) bool {
	return f != nil && len(f.Content) > 0
}
