package recovery

import (
	"context"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/procodeli/portal/internal/application/session"
	"github.com/procodeli/portal/internal/domain"
)

// Navigator sends the browser to another route.
type Navigator interface {
	Navigate(route string)
}

// Auditor is told about every completed password change.
type Auditor interface {
	RecordPasswordReset(ctx context.Context, u *domain.AuthUser, sessionID string)
}

type passwordUpdater interface {
	UpdateUser(ctx context.Context, accessToken, password string) (*domain.AuthUser, error)
}

// Submitter finalizes a password change on an authenticated recovery session.
type Submitter struct {
	backend            passwordUpdater
	auditor            Auditor
	minLength          int
	propagationTimeout time.Duration
	loginRoute         string
}

type SubmitterConfig struct {
	MinLength          int
	PropagationTimeout time.Duration
	LoginRoute         string
}

func NewSubmitter(backend passwordUpdater, auditor Auditor, cfg SubmitterConfig) *Submitter {
	if cfg.MinLength <= 0 {
		cfg.MinLength = 6
	}
	if cfg.PropagationTimeout <= 0 {
		cfg.PropagationTimeout = 5 * time.Second
	}
	if cfg.LoginRoute == "" {
		cfg.LoginRoute = "/login"
	}
	return &Submitter{
		backend:            backend,
		auditor:            auditor,
		minLength:          cfg.MinLength,
		propagationTimeout: cfg.PropagationTimeout,
		loginRoute:         cfg.LoginRoute,
	}
}

// CheckPassword applies the local password policy.
func (s *Submitter) CheckPassword(password, confirm string) error {
	if utf8.RuneCountInString(password) < s.minLength {
		return domain.NewAuthError(domain.KindPasswordPolicy, passwordLengthMessage(s.minLength))
	}
	if password != confirm {
		return domain.NewAuthError(domain.KindPasswordPolicy, MsgPasswordMismatch)
	}
	return nil
}

// Submit updates the password of the session's user, waits until the change
// has been observed on the session and then navigates to the login route.
// Navigation happens at most once per call. The recovery session is signed
// out before Submit returns.
func (s *Submitter) Submit(ctx context.Context, sp session.Provider, password, confirm string, nav Navigator) (string, error) {
	if err := s.CheckPassword(password, confirm); err != nil {
		return "", err
	}

	sess, err := sp.Get(ctx)
	if err != nil {
		return "", err
	}
	if sess == nil {
		return "", domain.NewAuthError(domain.KindExpiredLink, MsgExpiredLink)
	}

	u, err := s.backend.UpdateUser(ctx, sess.AccessToken, password)
	if err != nil {
		return "", err
	}
	if u.Email == "" {
		u.Email = sess.Email
	}

	sub := newSubmission(nav, s.loginRoute)
	cancel, err := sp.OnChange(ctx, func(ev domain.SessionEvent) {
		if ev.Type == domain.EventUserUpdated {
			sub.complete()
		}
	})
	if err != nil {
		slog.Warn("failed to watch session changes", "session_id", sp.ID(), "err", err)
		cancel = func() {}
	}
	defer cancel()

	if err := sp.MarkUserUpdated(ctx); err != nil {
		slog.Warn("failed to mark user updated", "session_id", sp.ID(), "err", err)
		sub.complete()
	}

	timer := time.NewTimer(s.propagationTimeout)
	defer timer.Stop()
	select {
	case <-sub.done:
	case <-timer.C:
		slog.Warn("user update not observed before timeout", "session_id", sp.ID(), "timeout", s.propagationTimeout)
		sub.complete()
	case <-ctx.Done():
		sub.complete()
	}

	// The recovery session must not reopen the reset form once the password changed.
	if err := sp.SignOut(context.WithoutCancel(ctx)); err != nil {
		slog.Warn("failed to sign out recovery session", "session_id", sp.ID(), "err", err)
	}

	if s.auditor != nil {
		s.auditor.RecordPasswordReset(context.WithoutCancel(ctx), u, sp.ID())
	}
	return MsgPasswordUpdated, nil
}

// submission guards the success transition of one Submit call.
type submission struct {
	once  sync.Once
	done  chan struct{}
	nav   Navigator
	route string
}

func newSubmission(nav Navigator, route string) *submission {
	return &submission{done: make(chan struct{}), nav: nav, route: route}
}

func (s *submission) complete() {
	s.once.Do(func() {
		if s.nav != nil {
			s.nav.Navigate(s.route)
		}
		close(s.done)
	})
}
