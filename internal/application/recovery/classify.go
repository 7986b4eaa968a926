package recovery

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/procodeli/portal/internal/domain"
)

// Banner texts shown on the reset screen.
const (
	MsgExpiredLink      = "The recovery link has expired. Please request a new one."
	MsgInvalidLink      = "The recovery link is invalid or has expired. Please request a new one."
	MsgMissingEmail     = "Enter the email address the recovery link was sent to and request a new link."
	MsgInvalidEmail     = "Enter a valid email address."
	MsgPasswordMismatch = "Passwords do not match."
	MsgRateLimited      = "Too many requests. Please wait a moment and try again."
	MsgRequestSent      = "If the address is registered you will receive an email with a recovery link. The link is valid for 24 hours."
	MsgPasswordUpdated  = "Password updated successfully. Redirecting to login…"
	MsgInternal         = "Something went wrong. Please try again."
)

func passwordLengthMessage(min int) string {
	return fmt.Sprintf("Password must be at least %d characters.", min)
}

// UserMessage turns a flow error into the banner shown to the user. Expired
// and rate-limited errors get a fixed text, other backend errors pass through
// verbatim, and non-auth failures are logged and hidden behind a generic text.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var ae *domain.AuthError
	if !errors.As(err, &ae) {
		slog.Error("password reset failed", "err", err)
		return MsgInternal
	}
	switch ae.Kind {
	case domain.KindExpiredLink:
		return MsgExpiredLink
	case domain.KindRateLimited:
		return MsgRateLimited
	default:
		if ae.Message == "" {
			return MsgInternal
		}
		return ae.Message
	}
}

// redirectError classifies the error/error_description pair a failed
// recovery redirect carries.
func redirectError(p domain.ResetParams) *domain.AuthError {
	desc := p.ErrorDescription
	if desc == "" {
		desc = p.Error
	}
	if strings.Contains(strings.ToLower(desc), "expired") || strings.Contains(desc, "Email link") {
		return &domain.AuthError{Kind: domain.KindExpiredLink, Code: p.Error, Message: desc}
	}
	return &domain.AuthError{Kind: domain.KindUnknown, Code: p.Error, Message: desc}
}
