package domain

import "time"

// Session is the server-side record of an auth-backend session, bound to a
// browser through the session cookie. The backend owns the credential; this
// record only caches the token pair so requests can act on the user's behalf.
type Session struct {
	SessionID    string    `json:"id" dynamodbav:"session_id"`
	UserID       string    `json:"user_id" dynamodbav:"user_id"`
	Email        string    `json:"email" dynamodbav:"email"`
	AccessToken  string    `json:"-" dynamodbav:"access_token"`
	RefreshToken string    `json:"-" dynamodbav:"refresh_token"`
	ExpiresAt    int64     `json:"expires_at" dynamodbav:"expires_at"` // Unix seconds
	Enable       bool      `json:"enable" dynamodbav:"enable"`
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated" dynamodbav:"updated_at"`
}

// Expired reports whether the access token is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt > 0 && s.ExpiresAt <= now.Unix()
}

// Tokens is the credential bundle issued by the auth backend.
type Tokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    int64
	UserID       string
	Email        string
}

// Session change event types, named after the auth backend's own events.
const (
	EventSignedIn       = "SIGNED_IN"
	EventTokenRefreshed = "TOKEN_REFRESHED"
	EventUserUpdated    = "USER_UPDATED"
	EventSignedOut      = "SIGNED_OUT"
)

// SessionEvent is published whenever the credential behind a browser session changes.
type SessionEvent struct {
	Type      string    `json:"type"`
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	At        time.Time `json:"at"`
}

// AuthUser is the identity the auth backend reports for an access token.
type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
