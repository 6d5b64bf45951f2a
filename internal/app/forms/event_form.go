package forms

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/communityadmin/internal/app/client"
	"github.com/yigit/communityadmin/internal/app/models"
	"github.com/yigit/communityadmin/internal/app/models/dto"
	"github.com/yigit/communityadmin/internal/app/mutation"
	"github.com/yigit/communityadmin/internal/pkg/apperrors"
	"github.com/yigit/communityadmin/internal/pkg/helpers"
	"github.com/yigit/communityadmin/internal/pkg/notify"
	"github.com/yigit/communityadmin/internal/pkg/validation"
)

// Event form messages
const (
	MsgRequiredFields  = "Please fill in all required fields"
	MsgInvalidDateTime = "Invalid date or time"
	MsgEndBeforeStart  = "End time must be after start time"
	MsgNoCommunity     = "Could not determine community ID"
)

// isoLayout matches what browsers send for Date.toISOString
const isoLayout = "2006-01-02T15:04:05.000Z"

// EventInput is what the event form collects
type EventInput struct {
	Title          string          `json:"title" form:"title" validate:"notblank"`
	Description    string          `json:"description" form:"description" validate:"notblank"`
	StartDate      string          `json:"startDate" form:"startDate" validate:"notblank"`
	StartTime      string          `json:"startTime" form:"startTime" validate:"notblank"`
	EndDate        string          `json:"endDate" form:"endDate" validate:"notblank"`
	EndTime        string          `json:"endTime" form:"endTime" validate:"notblank"`
	Platform       models.Platform `json:"platform" form:"platform"`
	Location       string          `json:"location" form:"location"`
	MeetingLink    string          `json:"meetingLink" form:"meetingLink"`
	MaxAttendees   int             `json:"maxAttendees" form:"maxAttendees"`
	Category       models.Category `json:"category" form:"category"`
	Community      string          `json:"community" form:"community"`
	IsPartnerEvent bool            `json:"isPartnerEvent" form:"isPartnerEvent"`
	// CurrentImage is kept on edit when no new image is attached
	CurrentImage string       `json:"currentImage" form:"currentImage"`
	Image        *client.File `json:"-" form:"-"`
}

// ValidateEvent checks the required fields and the time window and returns the
// composed instants. Nothing is sent when it fails.
func ValidateEvent(in EventInput, loc *time.Location) (start, end time.Time, err error) {
	if validation.Struct(in) != nil {
		return time.Time{}, time.Time{}, apperrors.NewValidationError(MsgRequiredFields)
	}

	start, errStart := helpers.ComposeDateTime(in.StartDate, in.StartTime, loc)
	end, errEnd := helpers.ComposeDateTime(in.EndDate, in.EndTime, loc)
	if errStart != nil || errEnd != nil {
		return time.Time{}, time.Time{}, apperrors.NewValidationError(MsgInvalidDateTime)
	}
	if !start.Before(end) {
		return time.Time{}, time.Time{}, apperrors.NewValidationError(MsgEndBeforeStart)
	}
	return start, end, nil
}

// BuildEventPayload shapes a validated input for the create and update endpoints
func BuildEventPayload(in EventInput, start, end time.Time) dto.EventPayload {
	platform := in.Platform
	if platform == "" {
		platform = models.PlatformVirtual
	}
	category := in.Category
	if category == "" {
		category = models.CategoryWorkshop
	}

	p := dto.EventPayload{
		Title:          strings.TrimSpace(in.Title),
		Description:    strings.TrimSpace(in.Description),
		StartDateTime:  start.UTC().Format(isoLayout),
		EndDateTime:    end.UTC().Format(isoLayout),
		Platform:       platform.WireLabel(),
		Category:       category.WireLabel(),
		Tags:           []string{string(category)},
		IsPartnerEvent: in.IsPartnerEvent,
	}
	if link := strings.TrimSpace(in.MeetingLink); link != "" && platform.HasMeetingLink() {
		p.MeetingLink = link
	}
	if loc := strings.TrimSpace(in.Location); loc != "" && platform.HasLocation() {
		p.Location = loc
	}
	if in.MaxAttendees > 0 {
		p.MaxAttendees = in.MaxAttendees
	}
	return p
}

// EventService is the part of the events API the form uses
type EventService interface {
	CreateEvent(ctx context.Context, payload dto.EventPayload) (models.Event, error)
	UpdateEvent(ctx context.Context, id string, payload dto.EventPayload) (models.Event, error)
	UploadImage(ctx context.Context, image client.File) (dto.ImageUploadResponse, error)
}

// CommunityLister lists communities
type CommunityLister interface {
	List(ctx context.Context, query url.Values) ([]models.Community, error)
}

// EventForm creates and edits events
type EventForm struct {
	*Modal
	events      EventService
	communities CommunityLister
	ctrl        *mutation.Controller[models.Event]
	notifier    notify.Notifier
	loc         *time.Location
	log         zerolog.Logger
}

// NewEventForm creates the event modal. Dates are entered in loc.
func NewEventForm(name string, events EventService, communities CommunityLister, ctrl *mutation.Controller[models.Event], notifier notify.Notifier, loc *time.Location, log zerolog.Logger) *EventForm {
	if loc == nil {
		loc = time.Local
	}
	return &EventForm{
		Modal:       NewModal(name),
		events:      events,
		communities: communities,
		ctrl:        ctrl,
		notifier:    notifier,
		loc:         loc,
		log:         log.With().Str("form", name).Logger(),
	}
}

// Create validates in, uploads its image when attached and creates the event
func (f *EventForm) Create(ctx context.Context, in EventInput) (models.Event, error) {
	var created models.Event
	err := f.Submit(ctx, func(ctx context.Context) error {
		start, end, err := ValidateEvent(in, f.loc)
		if err != nil {
			f.notifier.Error(err)
			return err
		}

		communityID, err := f.resolveCommunity(ctx, in.Community)
		if err != nil {
			f.notifier.Error(err)
			return err
		}

		payload := BuildEventPayload(in, start, end)
		payload.Community = communityID
		payload.Image = f.uploadImage(ctx, in.Image)

		created, err = f.ctrl.Create(ctx, func(ctx context.Context) (models.Event, error) {
			return f.events.CreateEvent(ctx, payload)
		})
		if err != nil {
			return err
		}
		f.notifier.Success("Event created")
		return nil
	})
	return created, err
}

// Edit validates in and updates the event id
func (f *EventForm) Edit(ctx context.Context, id string, in EventInput) error {
	return f.Submit(ctx, func(ctx context.Context) error {
		start, end, err := ValidateEvent(in, f.loc)
		if err != nil {
			f.notifier.Error(err)
			return err
		}

		payload := BuildEventPayload(in, start, end)
		payload.Community = strings.TrimSpace(in.Community)
		payload.Image = in.CurrentImage
		if in.Image != nil {
			if uploaded := f.uploadImage(ctx, in.Image); uploaded != "" {
				payload.Image = uploaded
			}
		}

		err = f.ctrl.Update(ctx, id, mutation.Step[models.Event]{
			Name: "details",
			Run: func(ctx context.Context) (models.Event, error) {
				return f.events.UpdateEvent(ctx, id, payload)
			},
		})
		if err != nil {
			return err
		}
		f.notifier.Success("Event updated")
		return nil
	})
}

// resolveCommunity prefers the chosen community and falls back to the first one the server lists
func (f *EventForm) resolveCommunity(ctx context.Context, chosen string) (string, error) {
	if id := strings.TrimSpace(chosen); id != "" {
		return id, nil
	}

	all, err := f.communities.List(ctx, nil)
	if err != nil {
		f.log.Warn().Err(err).Msg("Could not fetch communities")
	}
	for _, c := range all {
		if c.ID != "" {
			f.log.Debug().Str("community", c.Name).Msg("Using first community")
			return c.ID, nil
		}
	}
	return "", apperrors.NewValidationError(MsgNoCommunity)
}

// uploadImage is best effort: a failed upload is logged and the event goes without an image
func (f *EventForm) uploadImage(ctx context.Context, image *client.File) string {
	if image == nil || len(image.Content) == 0 {
		return ""
	}
	res, err := f.events.UploadImage(ctx, *image)
	if err != nil {
		f.log.Warn().Err(err).Msg("Failed to upload image, continuing without it")
		return ""
	}
	return res.ImageURL
}
