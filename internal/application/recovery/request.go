package recovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/procodeli/portal/internal/domain"
	"github.com/procodeli/portal/internal/pkg/token"
	"github.com/procodeli/portal/internal/pkg/validate"
)

type recoverer interface {
	Recover(ctx context.Context, email, redirectTo, codeChallenge string) error
}

type resetRequest struct {
	Email string `form:"email" validate:"required,email"`
}

// Requester asks the auth backend to email a recovery link.
type Requester struct {
	backend    recoverer
	store      verificationStore
	redirectTo string
	cooldown   time.Duration
	linkTTL    time.Duration
	now        func() time.Time
}

func NewRequester(backend recoverer, store verificationStore, redirectTo string, cooldown, linkTTL time.Duration) *Requester {
	return &Requester{
		backend:    backend,
		store:      store,
		redirectTo: redirectTo,
		cooldown:   cooldown,
		linkTTL:    linkTTL,
		now:        time.Now,
	}
}

// RequestReset sends a recovery email for email and remembers the PKCE
// verifier for the browser session that asked for it.
func (r *Requester) RequestReset(ctx context.Context, sessionID, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validate.Struct(resetRequest{Email: email}); err != nil {
		return &domain.AuthError{Kind: domain.KindMissingIdentity, Message: MsgInvalidEmail, Err: err}
	}

	now := r.now()
	marker, err := r.store.Get(ctx, email, domain.VerificationResetRequest)
	switch {
	case err == nil && marker.ExpiresAt > now.Unix():
		return domain.NewAuthError(domain.KindRateLimited, MsgRateLimited)
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("load reset request: %w", err)
	}

	verifier, err := token.NewCodeVerifier()
	if err != nil {
		return err
	}
	if err := r.store.Put(ctx, &domain.Verification{
		Key:       sessionID,
		Type:      domain.VerificationPKCE,
		Code:      verifier,
		Email:     email,
		CreatedAt: now.Unix(),
		ExpiresAt: now.Add(r.linkTTL).Unix(),
	}); err != nil {
		return fmt.Errorf("store code verifier: %w", err)
	}

	if err := r.backend.Recover(ctx, email, r.redirectTo, token.Challenge(verifier)); err != nil {
		if derr := r.store.Delete(ctx, sessionID, domain.VerificationPKCE); derr != nil {
			slog.Warn("failed to delete code verifier", "session_id", sessionID, "err", derr)
		}
		return err
	}

	if r.cooldown > 0 {
		if err := r.store.Put(ctx, &domain.Verification{
			Key:       email,
			Type:      domain.VerificationResetRequest,
			CreatedAt: now.Unix(),
			ExpiresAt: now.Add(r.cooldown).Unix(),
		}); err != nil {
			slog.Warn("failed to store reset request marker", "err", err)
		}
	}
	return nil
}
