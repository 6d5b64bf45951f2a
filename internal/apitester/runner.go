// Package apitester runs the admin endpoint sequence against an upstream
// backend and reports the outcome of every call.
package apitester

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/communityadmin/internal/app/client"
	"github.com/yigit/communityadmin/internal/app/forms"
	"github.com/yigit/communityadmin/internal/app/models"
	"github.com/yigit/communityadmin/internal/app/models/dto"
	"github.com/yigit/communityadmin/internal/pkg/apperrors"
)

// ErrNoEvent is returned by the event steps when neither a created nor a listed event exists
var ErrNoEvent = errors.New("no event to exercise")

// Options configures a run
type Options struct {
	Username string
	Password string
	// Community, when set, makes the run create its own event there
	Community string
	// Cleanup deletes the event the run created
	Cleanup bool
	Now     func() time.Time
}

// Result is the outcome of one step
type Result struct {
	Step     string        `json:"step"`
	Detail   string        `json:"detail,omitempty"`
	Error    string        `json:"error,omitempty"`
	Skipped  bool          `json:"skipped,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Report lists the step results in order
type Report struct {
	Results []Result `json:"results"`
}

// Failed counts the steps that ended in an error
func (r Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Error != "" && !res.Skipped {
			n++
		}
	}
	return n
}

type step struct {
	name string
	// optional steps are reported as skipped when they fail
	optional bool
	run      func(ctx context.Context) (string, error)
}

// Runner drives the sequence
type Runner struct {
	api  *client.API
	opts Options
	log  zerolog.Logger

	eventID string
	created bool
}

// NewRunner creates a runner over api
func NewRunner(api *client.API, opts Options, log zerolog.Logger) *Runner {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Runner{api: api, opts: opts, log: log.With().Str("component", "apitester").Logger()}
}

// Run executes every step in order and stops at the first required step that fails
func (r *Runner) Run(ctx context.Context) (Report, error) {
	var report Report
	for _, s := range r.steps() {
		started := time.Now()
		detail, err := s.run(ctx)
		res := Result{Step: s.name, Detail: detail, Duration: time.Since(started)}

		if err != nil {
			res.Error = apperrors.Message(err)
			res.Skipped = s.optional
		}
		report.Results = append(report.Results, res)

		switch {
		case err == nil:
			r.log.Info().Str("step", s.name).Dur("took", res.Duration).Msg(detail)
		case s.optional:
			r.log.Warn().Err(err).Str("step", s.name).Msg("Step skipped")
		default:
			r.log.Error().Err(err).Str("step", s.name).Msg("Step failed")
			return report, fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return report, nil
}

func (r *Runner) steps() []step {
	steps := []step{
		{name: "login", run: r.login},
		{name: "list all events", run: r.listAll},
		{name: "list upcoming events", run: r.listUpcoming},
		{name: "event stats", run: r.stats},
		{name: "my enrolled events", run: r.mine},
	}
	if r.opts.Community != "" {
		steps = append(steps, step{name: "create event", run: r.create})
	}
	steps = append(steps,
		step{name: "get event", run: r.get},
		step{name: "update event", run: r.update},
		step{name: "enroll", optional: true, run: r.enroll},
		step{name: "unenroll", optional: true, run: r.unenroll},
	)
	if r.opts.Community != "" && r.opts.Cleanup {
		steps = append(steps, step{name: "delete event", run: r.delete})
	}
	return steps
}

func (r *Runner) login(ctx context.Context) (string, error) {
	if r.opts.Username == "" {
		if r.api.Client.Tokens().Token() == "" {
			return "", apperrors.NewValidationError("Username is required when no token is stored")
		}
		user, err := r.api.Me.Get(ctx)
		if err != nil {
			return "", err
		}
		return "Using stored token for " + user.DisplayName(), nil
	}

	if _, err := r.api.Auth.Login(ctx, dto.LoginRequest{Username: r.opts.Username, Password: r.opts.Password}); err != nil {
		return "", err
	}
	user, err := r.api.Me.Get(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Signed in as %s (%s)", user.DisplayName(), user.Role), nil
}

func (r *Runner) listAll(ctx context.Context) (string, error) {
	resp, err := r.api.Events.QueryAll(ctx, dto.EventQuery{})
	if err != nil {
		return "", err
	}
	if r.eventID == "" && len(resp.Events) > 0 {
		r.eventID = resp.Events[0].ID
	}
	return fmt.Sprintf("%d events", len(resp.Events)), nil
}

func (r *Runner) listUpcoming(ctx context.Context) (string, error) {
	resp, err := r.api.Events.QueryAll(ctx, dto.EventQuery{TimeFilter: models.TimeUpcoming, Limit: 10, Page: 1})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d upcoming events", len(resp.Events)), nil
}

func (r *Runner) stats(ctx context.Context) (string, error) {
	s, err := r.api.Events.Stats(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d total, %d upcoming, %d past, %d attendees", s.Total, s.Upcoming, s.Past, s.TotalAttendees), nil
}

func (r *Runner) mine(ctx context.Context) (string, error) {
	events, err := r.api.Events.Mine(ctx, models.TimeUpcoming)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("enrolled in %d upcoming events", len(events)), nil
}

func (r *Runner) create(ctx context.Context) (string, error) {
	day := r.opts.Now().UTC().AddDate(0, 0, 7)
	start := time.Date(day.Year(), day.Month(), day.Day(), 10, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	payload := forms.BuildEventPayload(forms.EventInput{
		Title:        "React Development Workshop",
		Description:  "Learn React fundamentals and best practices in this hands-on workshop",
		Platform:     models.PlatformVirtual,
		MeetingLink:  "https://zoom.us/j/123456789",
		MaxAttendees: 50,
		Category:     models.CategoryWorkshop,
	}, start, end)
	payload.Community = r.opts.Community

	ev, err := r.api.Events.CreateEvent(ctx, payload)
	if err != nil {
		return "", err
	}
	if ev.ID == "" {
		return "", apperrors.NewDataShapeError("create event", "Created event has no id")
	}
	r.eventID = ev.ID
	r.created = true
	return "Created event " + ev.ID, nil
}

func (r *Runner) get(ctx context.Context) (string, error) {
	if r.eventID == "" {
		return "", ErrNoEvent
	}
	ev, err := r.api.Events.Get(ctx, r.eventID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%q starts %s", ev.Title, ev.StartDateTime.Format(time.RFC3339)), nil
}

func (r *Runner) update(ctx context.Context) (string, error) {
	if r.eventID == "" {
		return "", ErrNoEvent
	}
	ev, err := r.api.Events.Get(ctx, r.eventID)
	if err != nil {
		return "", err
	}

	payload := forms.BuildEventPayload(forms.EventInput{
		Title:          "Advanced React Workshop",
		Description:    ev.Description,
		Platform:       ev.Platform,
		MeetingLink:    ev.MeetingLink,
		Location:       ev.Location,
		MaxAttendees:   75,
		Category:       ev.Category,
		IsPartnerEvent: ev.IsPartnerEvent,
	}, ev.StartDateTime, ev.EndDateTime)
	payload.Community = ev.Community.ID
	payload.Image = ev.Image

	updated, err := r.api.Events.UpdateEvent(ctx, r.eventID, payload)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Renamed to %q", updated.Title), nil
}

func (r *Runner) enroll(ctx context.Context) (string, error) {
	if r.eventID == "" {
		return "", ErrNoEvent
	}
	resp, err := r.api.Events.Enroll(ctx, r.eventID)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (r *Runner) unenroll(ctx context.Context) (string, error) {
	if r.eventID == "" {
		return "", ErrNoEvent
	}
	resp, err := r.api.Events.Unenroll(ctx, r.eventID)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (r *Runner) delete(ctx context.Context) (string, error) {
	if !r.created {
		return "", ErrNoEvent
	}
	if err := r.api.Events.Delete(ctx, r.eventID); err != nil {
		return "", err
	}
	return "Deleted event " + r.eventID, nil
}
