package forms

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/communityadmin/internal/app/client"
	"github.com/yigit/communityadmin/internal/app/models"
	"github.com/yigit/communityadmin/internal/app/models/dto"
	"github.com/yigit/communityadmin/internal/app/mutation"
	"github.com/yigit/communityadmin/internal/app/session"
	"github.com/yigit/communityadmin/internal/app/state"
	"github.com/yigit/communityadmin/internal/pkg/apperrors"
	"github.com/yigit/communityadmin/internal/pkg/notify"
)

func TestModalSubmitGuard(t *testing.T) {
	m := NewModal("community-form")
	m.Open()

	entered := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- m.Submit(context.Background(), func(ctx context.Context) error {
			calls.Add(1)
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	assert.Equal(t, StateSubmitting, m.State())
	err := m.Submit(context.Background(), func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})
	assert.ErrorIs(t, err, ErrSubmitInProgress)
	assert.False(t, m.Dismiss(nil))
	assert.False(t, m.Close())

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, StateClosed, m.State())
}

func TestModalFailureStaysOpen(t *testing.T) {
	m := NewModal("event-form")
	m.Open()

	err := m.Submit(context.Background(), func(ctx context.Context) error { return errors.New("boom") })
	assert.Error(t, err)
	assert.Equal(t, StateOpen, m.State())
	assert.EqualError(t, m.Err(), "boom")

	m.Close()
	m.Open()
	assert.NoError(t, m.Err())
}

func TestModalDismissClickOutside(t *testing.T) {
	m := NewModal("community-form")
	body := &Node{ID: "body"}
	form := body.Child("community-form")
	input := form.Child("name-input")
	backdrop := body.Child("backdrop")

	assert.False(t, m.Dismiss(backdrop), "closed modal ignores clicks")

	m.Open()
	assert.False(t, m.Dismiss(input))
	assert.False(t, m.Dismiss(form))
	assert.Equal(t, StateOpen, m.State())

	assert.True(t, m.Dismiss(backdrop))
	assert.Equal(t, StateClosed, m.State())

	m.Open()
	assert.False(t, m.Dismiss(NodeFromPath([]string{"submit-button", "community-form", "body"})))
	assert.True(t, m.Dismiss(NodeFromPath([]string{"sidebar", "body"})))
}

type fakeEvents struct {
	mu        sync.Mutex
	created   []dto.EventPayload
	updated   []dto.EventPayload
	uploadErr error
	uploads   int
}

func (f *fakeEvents) CreateEvent(ctx context.Context, p dto.EventPayload) (models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, p)
	return models.Event{ID: "e1", Title: p.Title, Image: p.Image}, nil
}

func (f *fakeEvents) UpdateEvent(ctx context.Context, id string, p dto.EventPayload) (models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, p)
	return models.Event{ID: id, Title: p.Title, Image: p.Image}, nil
}

func (f *fakeEvents) UploadImage(ctx context.Context, image client.File) (dto.ImageUploadResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads++
	if f.uploadErr != nil {
		return dto.ImageUploadResponse{}, f.uploadErr
	}
	return dto.ImageUploadResponse{ImageURL: "https://cdn/" + image.Name}, nil
}

type listFunc func(ctx context.Context, q url.Values) ([]models.Community, error)

func (f listFunc) List(ctx context.Context, q url.Values) ([]models.Community, error) { return f(ctx, q) }

func staticCommunities(cs ...models.Community) listFunc {
	return func(ctx context.Context, q url.Values) ([]models.Community, error) { return cs, nil }
}

func newEventForm(events *fakeEvents, communities CommunityLister, rec *notify.Recorder) *EventForm {
	store := state.NewStore[models.Event]("events", nil, nil, rec, zerolog.Nop())
	store.Set([]models.Event{{ID: "e1", Title: "Old"}})
	ctrl := mutation.NewController("event", store, rec, mutation.Append, zerolog.Nop())
	return NewEventForm("event-form", events, communities, ctrl, rec, time.UTC, zerolog.Nop())
}

func validEvent() EventInput {
	return EventInput{
		Title:       "Kickoff",
		Description: "Season start",
		StartDate:   "2025-09-15",
		StartTime:   "10:00",
		EndDate:     "2025-09-15",
		EndTime:     "11:30",
		Platform:    models.PlatformHybrid,
		Category:    models.CategoryNetworking,
		Community:   "c1",
	}
}

func TestValidateEventMessages(t *testing.T) {
	missing := validEvent()
	missing.StartTime = "  "
	_, _, err := ValidateEvent(missing, time.UTC)
	assert.EqualError(t, err, MsgRequiredFields)

	bad := validEvent()
	bad.EndDate = "2025-13-45"
	_, _, err = ValidateEvent(bad, time.UTC)
	assert.EqualError(t, err, MsgInvalidDateTime)

	start, end, err := ValidateEvent(validEvent(), time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, end.Sub(start))
}

func TestEventWindowRejectedBeforeNetwork(t *testing.T) {
	events := &fakeEvents{}
	rec := &notify.Recorder{}
	form := newEventForm(events, staticCommunities(), rec)

	pairs := [][4]string{
		{"2025-09-15", "10:00", "2025-09-15", "10:00"},
		{"2025-09-15", "10:00", "2025-09-15", "09:59"},
		{"2025-09-16", "00:00", "2025-09-15", "23:59"},
		{"2026-01-01", "12:00", "2025-12-31", "12:00"},
	}
	for _, p := range pairs {
		in := validEvent()
		in.StartDate, in.StartTime, in.EndDate, in.EndTime = p[0], p[1], p[2], p[3]

		_, err := form.Create(context.Background(), in)
		assert.EqualError(t, err, MsgEndBeforeStart)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

		err = form.Edit(context.Background(), "e1", in)
		assert.EqualError(t, err, MsgEndBeforeStart)
	}

	assert.Empty(t, events.created)
	assert.Empty(t, events.updated)
	assert.Equal(t, 2*len(pairs), rec.ErrorCount())
	assert.Equal(t, StateOpen, form.State())
}

func TestBuildEventPayloadOptionalFields(t *testing.T) {
	start := time.Date(2025, 9, 15, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	in := validEvent()
	in.Platform = models.PlatformInPerson
	in.MeetingLink = "https://zoom/x"
	in.Location = " Hall A "
	p := BuildEventPayload(in, start, end)
	assert.Equal(t, "In-Person", p.Platform)
	assert.Empty(t, p.MeetingLink)
	assert.Equal(t, "Hall A", p.Location)
	assert.Zero(t, p.MaxAttendees)
	assert.Equal(t, "Networking", p.Category)
	assert.Equal(t, []string{"networking"}, p.Tags)
	assert.Equal(t, "2025-09-15T10:00:00.000Z", p.StartDateTime)

	in.Platform = models.PlatformVirtual
	in.MaxAttendees = 25
	p = BuildEventPayload(in, start, end)
	assert.Equal(t, "Zoom", p.Platform)
	assert.Equal(t, "https://zoom/x", p.MeetingLink)
	assert.Empty(t, p.Location)
	assert.Equal(t, 25, p.MaxAttendees)

	in.Platform, in.Category = "", ""
	p = BuildEventPayload(in, start, end)
	assert.Equal(t, "Zoom", p.Platform)
	assert.Equal(t, "Workshop", p.Category)
}

func TestEventCreateCommunityFallback(t *testing.T) {
	events := &fakeEvents{}
	rec := &notify.Recorder{}
	in := validEvent()
	in.Community = ""

	form := newEventForm(events, staticCommunities(models.Community{ID: "first"}, models.Community{ID: "second"}), rec)
	created, err := form.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "e1", created.ID)
	require.Len(t, events.created, 1)
	assert.Equal(t, "first", events.created[0].Community)

	failing := listFunc(func(ctx context.Context, q url.Values) ([]models.Community, error) {
		return nil, errors.New("offline")
	})
	form = newEventForm(events, failing, rec)
	_, err = form.Create(context.Background(), in)
	assert.EqualError(t, err, MsgNoCommunity)
	assert.Len(t, events.created, 1)
}

func TestEventImageUploadIsBestEffort(t *testing.T) {
	events := &fakeEvents{uploadErr: errors.New("storage down")}
	rec := &notify.Recorder{}
	form := newEventForm(events, staticCommunities(), rec)

	in := validEvent()
	in.Image = &client.File{Name: "cover.png", Content: []byte("png")}
	_, err := form.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 1, events.uploads)
	assert.Empty(t, events.created[0].Image)
	assert.Zero(t, rec.ErrorCount())

	events.uploadErr = nil
	in.CurrentImage = "https://cdn/old.png"
	require.NoError(t, form.Edit(context.Background(), "e1", in))
	assert.Equal(t, "https://cdn/cover.png", events.updated[0].Image)

	in.Image = nil
	require.NoError(t, form.Edit(context.Background(), "e1", in))
	assert.Equal(t, "https://cdn/old.png", events.updated[1].Image)
}

type fakeCommunities struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error
}

func (f *fakeCommunities) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.fail[call]
}

func (f *fakeCommunities) Get(ctx context.Context, id string) (models.Community, error) {
	return models.Community{ID: id, Name: "Alpha", Description: "first"}, f.record("get")
}

func (f *fakeCommunities) Create(ctx context.Context, name, description string) (models.Community, error) {
	return models.Community{ID: "c9", Name: name, Description: description}, f.record("create")
}

func (f *fakeCommunities) CreateCustom(ctx context.Context, name, description string, photo client.File) (models.Community, error) {
	return models.Community{ID: "c9", Name: name, ProfilePhoto: photo.Name}, f.record("create-custom")
}

func (f *fakeCommunities) UpdateText(ctx context.Context, id, name, description string) (models.Community, error) {
	return models.Community{ID: id, Name: name, Description: description}, f.record("text")
}

func (f *fakeCommunities) UpdatePhoto(ctx context.Context, id string, photo client.File) (models.Community, error) {
	return models.Community{ID: id, Name: "Alpha", Description: "first", ProfilePhoto: photo.Name}, f.record("photo")
}

func newCommunityForm(svc *fakeCommunities, sess session.Provider, rec *notify.Recorder) *CommunityForm {
	store := state.NewStore[models.Community]("communities", nil, nil, rec, zerolog.Nop())
	store.Set([]models.Community{{ID: "1", Name: "Alpha", Description: "first"}})
	ctrl := mutation.NewController("community", store, rec, mutation.Append, zerolog.Nop())
	return NewCommunityForm("community-form", svc, ctrl, sess, rec, zerolog.Nop())
}

func TestCommunityEditPhotoOnlyCallsPhotoEndpoint(t *testing.T) {
	svc := &fakeCommunities{}
	form := newCommunityForm(svc, nil, &notify.Recorder{})

	err := form.Edit(context.Background(), "1", CommunityInput{
		Name:        "Alpha",
		Description: "first",
		Photo:       &client.File{Name: "new.png", Content: []byte("png")},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"photo"}, svc.calls)
	got, _ := form.ctrl.Store().Find("1")
	assert.Equal(t, "new.png", got.ProfilePhoto)
}

func TestCommunityEditPhotoOnlyBeforeListLoaded(t *testing.T) {
	svc := &fakeCommunities{}
	form := newCommunityForm(svc, nil, &notify.Recorder{})
	form.ctrl.Store().Set(nil)

	err := form.Edit(context.Background(), "1", CommunityInput{
		Name:        "Alpha",
		Description: "first",
		Photo:       &client.File{Name: "new.png", Content: []byte("png")},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"get", "photo"}, svc.calls)
}

func TestCommunityEditSendsTextWhenRecordUnavailable(t *testing.T) {
	svc := &fakeCommunities{fail: map[string]error{"get": errors.New("not found")}}
	form := newCommunityForm(svc, nil, &notify.Recorder{})
	form.ctrl.Store().Set(nil)

	err := form.Edit(context.Background(), "1", CommunityInput{
		Name:        "Alpha",
		Description: "first",
		Photo:       &client.File{Name: "new.png", Content: []byte("png")},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"get", "photo", "text"}, svc.calls)
}

func TestCommunityEditTextAndPartialFailure(t *testing.T) {
	svc := &fakeCommunities{fail: map[string]error{"text": errors.New("name taken")}}
	rec := &notify.Recorder{}
	form := newCommunityForm(svc, nil, rec)

	err := form.Edit(context.Background(), "1", CommunityInput{
		Name:        "Alpha Renamed",
		Description: "first",
		Photo:       &client.File{Name: "new.png", Content: []byte("png")},
	})

	assert.EqualError(t, err, "name taken")
	assert.Equal(t, []string{"photo", "text"}, svc.calls)
	got, _ := form.ctrl.Store().Find("1")
	assert.Equal(t, "new.png", got.ProfilePhoto)
	assert.Equal(t, "Alpha", got.Name)
	assert.Equal(t, StateOpen, form.State())
}

func TestCommunityEditWithoutChangesSendsNothing(t *testing.T) {
	svc := &fakeCommunities{}
	form := newCommunityForm(svc, nil, &notify.Recorder{})

	require.NoError(t, form.Edit(context.Background(), "1", CommunityInput{Name: " Alpha ", Description: "first"}))
	assert.Empty(t, svc.calls)
	assert.Equal(t, StateClosed, form.State())
}

func TestCommunityCreateVariants(t *testing.T) {
	svc := &fakeCommunities{}
	sess := session.New(nil)
	sess.SetUser(models.User{ID: "u1"})
	rec := &notify.Recorder{}
	form := newCommunityForm(svc, sess, rec)

	_, err := form.Create(context.Background(), CommunityInput{Name: "  "})
	assert.Error(t, err)
	assert.Empty(t, svc.calls)

	_, err = form.Create(context.Background(), CommunityInput{Name: "Beta"})
	require.NoError(t, err)
	_, err = form.Create(context.Background(), CommunityInput{Name: "Gamma", Photo: &client.File{Name: "g.png", Content: []byte("x")}})
	require.NoError(t, err)

	assert.Equal(t, []string{"create", "create-custom"}, svc.calls)
	u, _ := sess.User()
	assert.Len(t, u.Communities, 1)
	assert.Equal(t, "c9", u.Communities[0].ID)
}

type fakeInvites struct {
	mu      sync.Mutex
	links   map[string]string
	lookups int
	creates int
	sent    []dto.SendInviteRequest
	delay   time.Duration
}

func (f *fakeInvites) ForCommunity(ctx context.Context, id string) (models.Invite, error) {
	time.Sleep(f.delay)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	link, ok := f.links[id]
	if !ok {
		return models.Invite{}, client.ErrNoInvite
	}
	return models.Invite{Community: id, Link: link}, nil
}

func (f *fakeInvites) CreateFor(ctx context.Context, id string) (models.Invite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	link := "https://join/" + id
	f.links[id] = link
	return models.Invite{Community: id, Link: link}, nil
}

func (f *fakeInvites) Send(ctx context.Context, req dto.SendInviteRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, req)
	return nil
}

func TestInviteGetOrCreateOnce(t *testing.T) {
	svc := &fakeInvites{links: map[string]string{}}
	d := NewInviteDialog("invite", svc, &notify.Recorder{}, zerolog.Nop())

	view, err := d.Open(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "https://join/c1", view.Link)

	d.Close()
	view, err = d.Open(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "https://join/c1", view.Link)

	assert.Equal(t, 1, svc.creates)
	assert.Equal(t, 1, svc.lookups)
}

func TestInviteConcurrentOpensCreateOnce(t *testing.T) {
	svc := &fakeInvites{links: map[string]string{"c2": "https://join/existing"}, delay: 20 * time.Millisecond}
	d := NewInviteDialog("invite", svc, &notify.Recorder{}, zerolog.Nop())

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			link, err := d.Link(context.Background(), "c1")
			assert.NoError(t, err)
			results[i] = link
		}(i)
	}
	wg.Wait()

	for _, link := range results {
		assert.Equal(t, "https://join/c1", link)
	}
	assert.Equal(t, 1, svc.creates)

	link, err := d.Link(context.Background(), "c2")
	require.NoError(t, err)
	assert.Equal(t, "https://join/existing", link)
	assert.Equal(t, 1, svc.creates)
}

func TestInviteSendValidatesFirst(t *testing.T) {
	svc := &fakeInvites{links: map[string]string{"c1": "https://join/c1"}}
	rec := &notify.Recorder{}
	d := NewInviteDialog("invite", svc, rec, zerolog.Nop())
	_, err := d.Open(context.Background(), "c1")
	require.NoError(t, err)

	err = d.Send(context.Background(), dto.SendInviteRequest{Name: "Bo", Email: "not-an-email"})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Empty(t, svc.sent)

	require.NoError(t, d.Send(context.Background(), dto.SendInviteRequest{Name: " Bo ", Email: "bo@example.com"}))
	require.Len(t, svc.sent, 1)
	assert.Equal(t, dto.SendInviteRequest{CommunityID: "c1", Name: "Bo", Email: "bo@example.com"}, svc.sent[0])
	assert.Equal(t, []string{"Invitation sent to bo@example.com"}, rec.Successes)
}
