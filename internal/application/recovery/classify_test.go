package recovery

import (
	"errors"
	"fmt"
	"testing"

	"github.com/procodeli/portal/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"expired", &domain.AuthError{Kind: domain.KindExpiredLink, Message: "Token has expired or is invalid"}, MsgExpiredLink},
		{"wrapped expired", fmt.Errorf("verify: %w", &domain.AuthError{Kind: domain.KindExpiredLink}), MsgExpiredLink},
		{"rate limited", &domain.AuthError{Kind: domain.KindRateLimited, Message: "email rate limit exceeded"}, MsgRateLimited},
		{"unknown verbatim", &domain.AuthError{Kind: domain.KindUnknown, Message: "Weak password"}, "Weak password"},
		{"unknown empty", &domain.AuthError{Kind: domain.KindUnknown}, MsgInternal},
		{"plain error", errors.New("dynamo down"), MsgInternal},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, UserMessage(tc.err))
		})
	}
}

func TestRedirectError(t *testing.T) {
	ae := redirectError(domain.ResetParams{Error: "access_denied", ErrorDescription: "Email link is invalid or has expired"})
	assert.Equal(t, domain.KindExpiredLink, ae.Kind)
	assert.Equal(t, "access_denied", ae.Code)

	ae = redirectError(domain.ResetParams{ErrorDescription: "Token EXPIRED"})
	assert.Equal(t, domain.KindExpiredLink, ae.Kind)

	ae = redirectError(domain.ResetParams{Error: "server_error"})
	assert.Equal(t, domain.KindUnknown, ae.Kind)
	assert.Equal(t, "server_error", ae.Message)
}
