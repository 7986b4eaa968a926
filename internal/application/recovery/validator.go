package recovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/procodeli/portal/internal/application/session"
	"github.com/procodeli/portal/internal/domain"
	"github.com/procodeli/portal/internal/infrastructure/gotrue"
)

type sessionBackend interface {
	GetUser(ctx context.Context, accessToken string) (*domain.AuthUser, error)
	ExchangeCode(ctx context.Context, code, verifier string) (*domain.Tokens, error)
	RefreshSession(ctx context.Context, refreshToken string) (*domain.Tokens, error)
}

type verificationStore interface {
	Put(ctx context.Context, v *domain.Verification) error
	Get(ctx context.Context, key, verType string) (*domain.Verification, error)
	Delete(ctx context.Context, key, verType string) error
}

// ValidationResult is the outcome of resolving one set of redirect parameters.
type ValidationResult struct {
	State   domain.ValidationState
	Mode    domain.ResetMode
	Message string
	Err     error
	Session *domain.Session
}

// Validator turns recovery redirect parameters into an authenticated session.
type Validator struct {
	backend       sessionBackend
	verifications verificationStore
	verifier      *Verifier
	now           func() time.Time
}

func NewValidator(backend sessionBackend, verifications verificationStore, verifier *Verifier) *Validator {
	return &Validator{
		backend:       backend,
		verifications: verifications,
		verifier:      verifier,
		now:           time.Now,
	}
}

// Validate runs the resolution steps in order and stops at the first one that
// yields a session. Redirect errors and parameter-less visits never reach the
// backend.
func (v *Validator) Validate(ctx context.Context, sp session.Provider, p domain.ResetParams) ValidationResult {
	if p.HasError() {
		ae := redirectError(p)
		return v.invalid(p, ae)
	}

	existing, err := sp.Get(ctx)
	if err != nil {
		slog.Warn("failed to load current session", "session_id", sp.ID(), "err", err)
	}
	if !p.HasCredential() {
		// A bare URL resumes a recovery session resolved on an earlier request.
		if existing != nil {
			return ValidationResult{State: domain.StateValid, Mode: domain.ModeReset, Session: existing}
		}
		return ValidationResult{State: domain.StateUnchecked, Mode: SelectMode(p, domain.StateUnchecked)}
	}
	if existing != nil {
		return v.valid(p, existing)
	}

	var (
		tokens  *domain.Tokens
		lastErr error
	)
	code := p.RecoveryCode()
	email := strings.TrimSpace(p.Email)

	otpTried := false
	if code != "" && email != "" && p.Type == domain.RecoveryType {
		otpTried = true
		tokens, lastErr = v.verifier.VerifyRecoveryCode(ctx, email, code)
	}
	if tokens == nil && code != "" && (!otpTried || domain.KindOf(lastErr) != domain.KindExpiredLink) {
		var perr error
		tokens, perr = v.exchangeStoredVerifier(ctx, sp.ID(), code)
		// A missing verifier after a failed OTP keeps the OTP error.
		if perr != nil && (lastErr == nil || domain.KindOf(perr) != domain.KindMissingIdentity) {
			lastErr = perr
		}
	}
	if tokens == nil && strings.TrimSpace(p.AccessToken) != "" {
		var serr error
		tokens, serr = v.setSession(ctx, strings.TrimSpace(p.AccessToken), strings.TrimSpace(p.RefreshToken))
		if serr != nil {
			lastErr = serr
		}
	}

	if tokens == nil {
		if lastErr == nil {
			lastErr = domain.NewAuthError(domain.KindExpiredLink, MsgInvalidLink)
		}
		return v.invalid(p, lastErr)
	}

	s, err := sp.Set(ctx, tokens)
	if err != nil {
		return v.invalid(p, err)
	}
	return v.valid(p, s)
}

// exchangeStoredVerifier completes a PKCE recovery started from this browser.
func (v *Validator) exchangeStoredVerifier(ctx context.Context, sessionID, code string) (*domain.Tokens, error) {
	rec, err := v.verifications.Get(ctx, sessionID, domain.VerificationPKCE)
	if errors.Is(err, domain.ErrNotFound) || (err == nil && rec.ExpiresAt > 0 && rec.ExpiresAt <= v.now().Unix()) {
		return nil, domain.NewAuthError(domain.KindMissingIdentity, MsgMissingEmail)
	}
	if err != nil {
		return nil, fmt.Errorf("load code verifier: %w", err)
	}

	tokens, err := v.backend.ExchangeCode(ctx, code, rec.Code)
	if err != nil {
		return nil, err
	}
	if err := v.verifications.Delete(ctx, sessionID, domain.VerificationPKCE); err != nil {
		slog.Warn("failed to delete code verifier", "session_id", sessionID, "err", err)
	}
	if tokens.Email == "" {
		tokens.Email = rec.Email
	}
	return tokens, nil
}

// setSession adopts a token pair delivered in the redirect. The access token
// is accepted when the backend recognises it, otherwise the refresh token is
// traded for a new pair.
func (v *Validator) setSession(ctx context.Context, accessToken, refreshToken string) (*domain.Tokens, error) {
	u, err := v.backend.GetUser(ctx, accessToken)
	if err == nil {
		return &domain.Tokens{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresAt:    gotrue.AccessTokenExpiry(accessToken),
			UserID:       u.ID,
			Email:        u.Email,
		}, nil
	}
	if refreshToken == "" {
		return nil, err
	}
	return v.backend.RefreshSession(ctx, refreshToken)
}

func (v *Validator) valid(p domain.ResetParams, s *domain.Session) ValidationResult {
	return ValidationResult{
		State:   domain.StateValid,
		Mode:    SelectMode(p, domain.StateValid),
		Session: s,
	}
}

func (v *Validator) invalid(p domain.ResetParams, err error) ValidationResult {
	return ValidationResult{
		State:   domain.StateInvalid,
		Mode:    SelectMode(p, domain.StateInvalid),
		Message: UserMessage(err),
		Err:     err,
	}
}
