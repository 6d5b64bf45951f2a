package forms

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/communityadmin/internal/app/client"
	"github.com/yigit/communityadmin/internal/app/models"
	"github.com/yigit/communityadmin/internal/app/models/dto"
	"github.com/yigit/communityadmin/internal/app/session"
	"github.com/yigit/communityadmin/internal/pkg/notify"
	"github.com/yigit/communityadmin/internal/pkg/validation"
)

// AuthService is the part of the auth API the flows use
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (dto.AuthResponse, error)
	Logout(ctx context.Context) error
	SignupSuperAdmin(ctx context.Context, req dto.SignupRequest) (dto.AuthResponse, error)
	SignupAdmin(ctx context.Context, req dto.SignupRequest) (dto.AuthResponse, error)
}

// MeService is the current-user API
type MeService interface {
	Get(ctx context.Context) (models.User, error)
	Update(ctx context.Context, req dto.UpdateMeRequest) (*models.User, error)
	UploadPhoto(ctx context.Context, photo client.File) (models.User, error)
}

// AuthFlow signs users in, up and out, and edits the signed-in profile
type AuthFlow struct {
	guard    *Modal
	auth     AuthService
	me       MeService
	session  *session.Session
	notifier notify.Notifier
	log      zerolog.Logger
}

// NewAuthFlow creates the auth flow over sess
func NewAuthFlow(auth AuthService, me MeService, sess *session.Session, notifier notify.Notifier, log zerolog.Logger) *AuthFlow {
	return &AuthFlow{
		guard:    NewModal("auth"),
		auth:     auth,
		me:       me,
		session:  sess,
		notifier: notifier,
		log:      log.With().Str("form", "auth").Logger(),
	}
}

// Login signs in and loads the user into the session
func (f *AuthFlow) Login(ctx context.Context, req dto.LoginRequest) (models.User, error) {
	var user models.User
	err := f.guard.Submit(ctx, func(ctx context.Context) error {
		req.Username = strings.TrimSpace(req.Username)
		if err := validation.Struct(req); err != nil {
			f.notifier.Error(err)
			return err
		}
		if _, err := f.auth.Login(ctx, req); err != nil {
			f.notifier.Error(err)
			return err
		}
		return f.loadUser(ctx, &user)
	})
	return user, err
}

// Logout ends the upstream session. The local session is cleared even when the call fails.
func (f *AuthFlow) Logout(ctx context.Context) error {
	err := f.auth.Logout(ctx)
	f.session.Clear()
	if err != nil {
		f.notifier.Error(err)
	}
	return err
}

// Signup creates an admin account. When the super-admin bootstrap is requested
// it is tried first, and on failure regular admin signup is tried instead; only
// the last failure is surfaced.
func (f *AuthFlow) Signup(ctx context.Context, form dto.SignupForm) (models.User, error) {
	var user models.User
	err := f.guard.Submit(ctx, func(ctx context.Context) error {
		req := form.SignupRequest
		req.Username = strings.TrimSpace(req.Username)
		req.Email = strings.TrimSpace(req.Email)
		if err := validation.Struct(req); err != nil {
			f.notifier.Error(err)
			return err
		}

		var err error
		if form.SuperAdmin {
			if _, err = f.auth.SignupSuperAdmin(ctx, req); err != nil {
				f.log.Info().Err(err).Msg("Super admin signup failed, trying admin signup")
			}
		}
		if !form.SuperAdmin || err != nil {
			if _, err = f.auth.SignupAdmin(ctx, req); err != nil {
				f.notifier.Error(err)
				return err
			}
		}
		return f.loadUser(ctx, &user)
	})
	return user, err
}

// UpdateProfile changes email and/or password; with neither set nothing is sent
func (f *AuthFlow) UpdateProfile(ctx context.Context, req dto.UpdateMeRequest) error {
	req.Email = strings.TrimSpace(req.Email)
	updated, err := f.me.Update(ctx, req)
	if err != nil {
		f.notifier.Error(err)
		return err
	}
	if updated == nil {
		return nil
	}
	f.session.PatchUser(func(u *models.User) {
		if updated.Email != "" {
			u.Email = updated.Email
		}
	})
	f.notifier.Success("Profile updated")
	return nil
}

// UploadPhoto replaces the profile photo and patches the session
func (f *AuthFlow) UploadPhoto(ctx context.Context, photo client.File) error {
	updated, err := f.me.UploadPhoto(ctx, photo)
	if err != nil {
		f.notifier.Error(err)
		return err
	}
	f.session.PatchUser(func(u *models.User) { u.ProfilePhoto = updated.ProfilePhoto })
	f.notifier.Success("Profile photo updated")
	return nil
}

// Me reloads the signed-in user
func (f *AuthFlow) Me(ctx context.Context) (models.User, error) {
	var user models.User
	err := f.loadUser(ctx, &user)
	return user, err
}

func (f *AuthFlow) loadUser(ctx context.Context, out *models.User) error {
	u, err := f.session.Load(ctx, f.me)
	if err != nil {
		f.notifier.Error(err)
		return err
	}
	*out = u
	return nil
}
