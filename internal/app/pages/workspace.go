package pages

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/communityadmin/internal/app/client"
	"github.com/yigit/communityadmin/internal/app/forms"
	"github.com/yigit/communityadmin/internal/app/models"
	"github.com/yigit/communityadmin/internal/app/session"
	"github.com/yigit/communityadmin/internal/app/state"
	"github.com/yigit/communityadmin/internal/pkg/auth"
	"github.com/yigit/communityadmin/internal/pkg/notify"
)

// WorkspaceConfig configures the workspaces of one console
type WorkspaceConfig struct {
	Client       client.Options
	Location     *time.Location
	NoticeBuffer int
	Now          func() time.Time
	Log          zerolog.Logger
}

// Workspace is everything one browser session sees: its own upstream client,
// cookie jar, token, signed-in user, notifications and pages
type Workspace struct {
	ID            string
	API           *client.API
	Session       *session.Session
	Toaster       *notify.Toaster
	Auth          *forms.AuthFlow
	Communities   *CommunitiesPage
	Events        *EventsPage
	Announcements *AnnouncementsPage

	deps Deps
	life *state.Lifetime

	mu       sync.Mutex
	posts    map[string]*PostsPage
	comments map[string]*CommentSection
	lastSeen time.Time
}

// NewWorkspace creates the workspace id with a fresh upstream session
func NewWorkspace(id string, cfg WorkspaceConfig) (*Workspace, error) {
	log := cfg.Log.With().Str("workspace", id).Logger()

	opts := cfg.Client
	opts.Tokens = auth.NewMemoryTokenStore("")
	opts.Logger = log.With().Str("component", "client").Logger()
	c, err := client.New(opts)
	if err != nil {
		return nil, fmt.Errorf("creating upstream client: %w", err)
	}
	api := client.NewAPI(c)

	toaster := notify.NewToaster(cfg.NoticeBuffer, log)
	sess := session.New(c.Tokens())
	deps := Deps{
		API:      api,
		Session:  sess,
		Notifier: toaster,
		Location: cfg.Location,
		Now:      cfg.Now,
		Log:      log,
	}
	life := state.NewLifetime(context.Background())

	return &Workspace{
		ID:            id,
		API:           api,
		Session:       sess,
		Toaster:       toaster,
		Auth:          forms.NewAuthFlow(api.Auth, api.Me, sess, toaster, log),
		Communities:   NewCommunitiesPage(life.Child(), deps),
		Events:        NewEventsPage(life.Child(), deps),
		Announcements: NewAnnouncementsPage(life.Child(), deps),
		deps:          deps,
		life:          life,
		posts:         make(map[string]*PostsPage),
		comments:      make(map[string]*CommentSection),
		lastSeen:      deps.now(),
	}, nil
}

// Touch records activity
func (w *Workspace) Touch() {
	w.mu.Lock()
	w.lastSeen = w.deps.now()
	w.mu.Unlock()
}

// LastSeen returns the time of the last activity
func (w *Workspace) LastSeen() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSeen
}

// Posts returns the posts page of a community, creating it on first use
func (w *Workspace) Posts(communityID string) *PostsPage {
	w.mu.Lock()
	defer w.mu.Unlock()
	p, ok := w.posts[communityID]
	if !ok {
		p = NewPostsPage(communityID, w.life.Child(), w.deps)
		w.posts[communityID] = p
	}
	return p
}

// PostsShowing returns the loaded posts page that holds postID
func (w *Workspace) PostsShowing(postID string) (*PostsPage, bool) {
	w.mu.Lock()
	pages := make([]*PostsPage, 0, len(w.posts))
	for _, p := range w.posts {
		pages = append(pages, p)
	}
	w.mu.Unlock()

	for _, p := range pages {
		if p.Has(postID) {
			return p, true
		}
	}
	return nil, false
}

// Comments returns the comment section of a post, creating it on first use
func (w *Workspace) Comments(postID string) *CommentSection {
	w.mu.Lock()
	defer w.mu.Unlock()
	s, ok := w.comments[postID]
	if !ok {
		s = NewCommentSection(postID, w.life.Child(), w.deps, w.commentAdded)
		w.comments[postID] = s
	}
	return s
}

// CommentsShowing returns the loaded comment section that holds commentID
func (w *Workspace) CommentsShowing(commentID string) (*CommentSection, bool) {
	w.mu.Lock()
	sections := make([]*CommentSection, 0, len(w.comments))
	for _, s := range w.comments {
		sections = append(sections, s)
	}
	w.mu.Unlock()

	for _, s := range sections {
		if _, ok := s.Store.Find(commentID); ok {
			return s, true
		}
	}
	return nil, false
}

// commentAdded bumps the comment counter of the post wherever it is shown
func (w *Workspace) commentAdded(postID string) {
	if p, ok := w.PostsShowing(postID); ok {
		p.Store.PatchByID(postID, func(post *models.Post) { post.Comments++ })
	}
}

// SignOut clears the session and drops every per-user page
func (w *Workspace) SignOut(ctx context.Context) error {
	err := w.Auth.Logout(ctx)

	w.mu.Lock()
	for id, p := range w.posts {
		p.Store.Lifetime().Close()
		delete(w.posts, id)
	}
	for id, s := range w.comments {
		s.Store.Lifetime().Close()
		delete(w.comments, id)
	}
	w.mu.Unlock()

	w.Communities.Store.Set(nil)
	w.Events.Store.Set(nil)
	w.Announcements.Store.Set(nil)
	return err
}

// Close cancels every in-flight request; late results are discarded
func (w *Workspace) Close() {
	w.life.Close()
}

// Closed reports whether the workspace was closed
func (w *Workspace) Closed() bool {
	return w.life.Closed()
}

// Modal returns the modal form named name
func (w *Workspace) Modal(name string) (*forms.Modal, bool) {
	for _, m := range []*forms.Modal{
		w.Communities.Create.Modal,
		w.Communities.Edit.Modal,
		w.Communities.Invite.Modal,
		w.Events.Create.Modal,
		w.Events.Edit.Modal,
		w.Announcements.Form.Modal,
	} {
		if m.Name() == name {
			return m, true
		}
	}
	return nil, false
}
