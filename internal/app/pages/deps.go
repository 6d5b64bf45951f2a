// Package pages composes stores, mutation controllers and forms into the
// console's pages. Each page is its own consistency domain.
package pages

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/communityadmin/internal/app/client"
	"github.com/yigit/communityadmin/internal/app/session"
	"github.com/yigit/communityadmin/internal/pkg/notify"
)

// Deps are the collaborators every page shares within a workspace
type Deps struct {
	API      *client.API
	Session  *session.Session
	Notifier notify.Notifier
	Location *time.Location
	Now      func() time.Time
	Log      zerolog.Logger
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d Deps) location() *time.Location {
	if d.Location != nil {
		return d.Location
	}
	return time.Local
}
