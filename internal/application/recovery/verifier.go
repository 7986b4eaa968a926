package recovery

import (
	"context"
	"strings"

	"github.com/procodeli/portal/internal/domain"
)

type otpVerifier interface {
	VerifyOTP(ctx context.Context, email, code, otpType string) (*domain.Tokens, error)
}

// Verifier checks an emailed recovery code against the auth backend.
type Verifier struct {
	backend otpVerifier
}

func NewVerifier(backend otpVerifier) *Verifier {
	return &Verifier{backend: backend}
}

// VerifyRecoveryCode exchanges email+code for a session with a single
// backend call. The email is the correlation key; without it nothing is sent.
func (v *Verifier) VerifyRecoveryCode(ctx context.Context, email, code string) (*domain.Tokens, error) {
	email = strings.TrimSpace(email)
	code = strings.TrimSpace(code)
	if email == "" {
		return nil, domain.NewAuthError(domain.KindMissingIdentity, MsgMissingEmail)
	}
	if code == "" {
		return nil, domain.NewAuthError(domain.KindExpiredLink, MsgInvalidLink)
	}
	return v.backend.VerifyOTP(ctx, email, code, domain.RecoveryType)
}
