package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/procodeli/portal/internal/domain"
)

// Provider is the session of one browser, injected wherever the flow needs the
// current credential. It replaces the auth SDK's implicit global session.
type Provider interface {
	// ID is the browser session id this provider is bound to.
	ID() string
	// Get returns the active session, or nil when there is none. Expired
	// access tokens are refreshed once; a failed refresh means no session.
	Get(ctx context.Context) (*domain.Session, error)
	// Set installs a freshly issued token pair and publishes SIGNED_IN.
	Set(ctx context.Context, t *domain.Tokens) (*domain.Session, error)
	// MarkUserUpdated publishes USER_UPDATED once the backend accepted a user change.
	MarkUserUpdated(ctx context.Context) error
	// SignOut disables the session and publishes SIGNED_OUT.
	SignOut(ctx context.Context) error
	// OnChange registers fn for every change of this session. The returned
	// func removes the registration.
	OnChange(ctx context.Context, fn func(domain.SessionEvent)) (func(), error)
}

type sessionStore interface {
	Put(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	UpdateTokens(ctx context.Context, sessionID string, t *domain.Tokens) error
	Disable(ctx context.Context, sessionID string) error
}

type tokenRefresher interface {
	RefreshSession(ctx context.Context, refreshToken string) (*domain.Tokens, error)
}

type eventBus interface {
	Publish(ctx context.Context, ev domain.SessionEvent) error
	Subscribe(ctx context.Context, sessionID string, fn func(domain.SessionEvent)) (func(), error)
}

// Manager hands out Providers scoped to a browser session id.
type Manager struct {
	repo      sessionStore
	refresher tokenRefresher
	bus       eventBus
	now       func() time.Time
}

type ManagerDeps struct {
	SessionRepo sessionStore
	Refresher   tokenRefresher
	Bus         eventBus
}

func NewManager(deps ManagerDeps) *Manager {
	return &Manager{
		repo:      deps.SessionRepo,
		refresher: deps.Refresher,
		bus:       deps.Bus,
		now:       time.Now,
	}
}

// For returns the Provider for sessionID.
func (m *Manager) For(sessionID string) Provider {
	return &provider{m: m, sessionID: sessionID}
}

type provider struct {
	m         *Manager
	sessionID string
}

func (p *provider) ID() string { return p.sessionID }

func (p *provider) Get(ctx context.Context) (*domain.Session, error) {
	s, err := p.m.repo.Get(ctx, p.sessionID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !s.Enable || s.AccessToken == "" {
		return nil, nil
	}
	if !s.Expired(p.m.now()) {
		return s, nil
	}
	if s.RefreshToken == "" {
		return nil, nil
	}

	t, err := p.m.refresher.RefreshSession(ctx, s.RefreshToken)
	if err != nil {
		slog.Info("session refresh failed", "session_id", p.sessionID, "kind", domain.KindOf(err).String(), "err", err)
		if derr := p.m.repo.Disable(ctx, p.sessionID); derr != nil {
			slog.Warn("failed to disable stale session", "session_id", p.sessionID, "err", derr)
		}
		return nil, nil
	}
	if err := p.m.repo.UpdateTokens(ctx, p.sessionID, t); err != nil {
		return nil, fmt.Errorf("store refreshed tokens: %w", err)
	}
	s.AccessToken, s.RefreshToken, s.ExpiresAt = t.AccessToken, t.RefreshToken, t.ExpiresAt
	p.publish(ctx, domain.EventTokenRefreshed, s.UserID)
	return s, nil
}

func (p *provider) Set(ctx context.Context, t *domain.Tokens) (*domain.Session, error) {
	if t == nil || t.AccessToken == "" {
		return nil, fmt.Errorf("empty token pair: %w", domain.ErrBadRequest)
	}
	now := p.m.now().UTC()
	s := &domain.Session{
		SessionID:    p.sessionID,
		UserID:       t.UserID,
		Email:        t.Email,
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		ExpiresAt:    t.ExpiresAt,
		Enable:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := p.m.repo.Put(ctx, s); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	p.publish(ctx, domain.EventSignedIn, s.UserID)
	return s, nil
}

func (p *provider) MarkUserUpdated(ctx context.Context) error {
	s, err := p.m.repo.Get(ctx, p.sessionID)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	p.publish(ctx, domain.EventUserUpdated, s.UserID)
	return nil
}

func (p *provider) SignOut(ctx context.Context) error {
	if err := p.m.repo.Disable(ctx, p.sessionID); err != nil {
		return fmt.Errorf("disable session: %w", err)
	}
	p.publish(ctx, domain.EventSignedOut, "")
	return nil
}

func (p *provider) OnChange(ctx context.Context, fn func(domain.SessionEvent)) (func(), error) {
	return p.m.bus.Subscribe(ctx, p.sessionID, fn)
}

func (p *provider) publish(ctx context.Context, eventType, userID string) {
	ev := domain.SessionEvent{Type: eventType, SessionID: p.sessionID, UserID: userID, At: p.m.now().UTC()}
	if err := p.m.bus.Publish(ctx, ev); err != nil {
		slog.Warn("failed to publish session event", "session_id", p.sessionID, "type", eventType, "err", err)
	}
}
