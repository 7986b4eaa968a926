package domain

import "strings"

// RecoveryType is the `type` value the auth backend puts on recovery redirects.
const RecoveryType = "recovery"

// ResetParams carries the redirect parameters a recovery link can arrive with.
// Fragment parameters (access_token, refresh_token) are lifted into the query
// string by the reset page before they reach the server.
type ResetParams struct {
	Token            string
	Code             string
	Type             string
	Email            string
	Error            string
	ErrorDescription string
	AccessToken      string
	RefreshToken     string
}

// RecoveryCode returns the one-time code, accepting `token` as an alias for `code`.
func (p ResetParams) RecoveryCode() string {
	if c := strings.TrimSpace(p.Code); c != "" {
		return c
	}
	return strings.TrimSpace(p.Token)
}

// HasCredential reports whether the URL carried anything that could open a reset session.
func (p ResetParams) HasCredential() bool {
	return p.RecoveryCode() != "" || strings.TrimSpace(p.AccessToken) != ""
}

// HasError reports whether the backend redirected with an OAuth-style error.
func (p ResetParams) HasError() bool {
	return p.Error != "" || p.ErrorDescription != ""
}

// ResetMode is which form the reset screen shows.
type ResetMode string

const (
	ModeRequest ResetMode = "request"
	ModeReset   ResetMode = "reset"
)

// ValidationState is the token validator's state.
type ValidationState string

const (
	StateUnchecked ValidationState = "unchecked"
	StateChecking  ValidationState = "checking"
	StateValid     ValidationState = "valid"
	StateInvalid   ValidationState = "invalid"
)
