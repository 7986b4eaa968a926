package recovery

import (
	"context"
	"strings"
	"time"

	"github.com/procodeli/portal/internal/application/session"
	"github.com/procodeli/portal/internal/domain"
)

// Backend is the subset of the auth backend the reset flow talks to.
type Backend interface {
	sessionBackend
	otpVerifier
	passwordUpdater
	recoverer
}

type Service interface {
	ResolveScreen(ctx context.Context, sp session.Provider, p domain.ResetParams) *Screen
	RequestReset(ctx context.Context, sp session.Provider, email string) *Screen
	UpdatePassword(ctx context.Context, sp session.Provider, password, confirm string, nav Navigator) *Screen
}

type ServiceDeps struct {
	Backend            Backend
	Verifications      verificationStore
	Auditor            Auditor
	SiteURL            string
	LoginRoute         string
	PasswordMinLength  int
	PropagationTimeout time.Duration
	ResetCooldown      time.Duration
	ResetLinkTTL       time.Duration
}

type service struct {
	validator  *Validator
	submitter  *Submitter
	requester  *Requester
	loginRoute string
}

func NewService(deps ServiceDeps) Service {
	redirectTo := strings.TrimRight(deps.SiteURL, "/") + "/reset-password"
	sub := NewSubmitter(deps.Backend, deps.Auditor, SubmitterConfig{
		MinLength:          deps.PasswordMinLength,
		PropagationTimeout: deps.PropagationTimeout,
		LoginRoute:         deps.LoginRoute,
	})
	return &service{
		validator:  NewValidator(deps.Backend, deps.Verifications, NewVerifier(deps.Backend)),
		submitter:  sub,
		requester:  NewRequester(deps.Backend, deps.Verifications, redirectTo, deps.ResetCooldown, deps.ResetLinkTTL),
		loginRoute: sub.loginRoute,
	}
}

func (s *service) ResolveScreen(ctx context.Context, sp session.Provider, p domain.ResetParams) *Screen {
	res := s.validator.Validate(ctx, sp, p)
	screen := &Screen{State: res.State, Email: strings.TrimSpace(p.Email)}
	screen.SetMode(res.Mode)
	screen.Error = res.Message
	if res.Session != nil && screen.Email == "" {
		screen.Email = res.Session.Email
	}
	return screen
}

func (s *service) RequestReset(ctx context.Context, sp session.Provider, email string) *Screen {
	screen := &Screen{Email: strings.TrimSpace(email)}
	screen.SetMode(domain.ModeRequest)
	if err := s.requester.RequestReset(ctx, sp.ID(), email); err != nil {
		screen.Error = UserMessage(err)
		return screen
	}
	screen.Success = MsgRequestSent
	return screen
}

func (s *service) UpdatePassword(ctx context.Context, sp session.Provider, password, confirm string, nav Navigator) *Screen {
	screen := &Screen{State: domain.StateValid}
	screen.SetMode(domain.ModeReset)
	msg, err := s.submitter.Submit(ctx, sp, password, confirm, nav)
	if err != nil {
		if domain.KindOf(err) == domain.KindExpiredLink {
			screen.State = domain.StateInvalid
			screen.SetMode(domain.ModeRequest)
		}
		screen.Error = UserMessage(err)
		return screen
	}
	screen.Success = msg
	screen.Redirect = s.loginRoute
	return screen
}
