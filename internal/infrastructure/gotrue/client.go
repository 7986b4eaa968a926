package gotrue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/procodeli/portal/internal/config"
	"github.com/procodeli/portal/internal/domain"
)

// Client talks to a GoTrue-compatible auth backend over REST.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	now        func() time.Time
}

func NewClient(cfg *config.Config) *Client {
	return NewClientWithHTTP(cfg.AuthURL, cfg.AuthAPIKey, &http.Client{Timeout: cfg.AuthHTTPTimeout})
}

// NewClientWithHTTP builds a Client around an existing *http.Client (tests use httptest).
func NewClientWithHTTP(baseURL, apiKey string, hc *http.Client) *Client {
	return &Client{baseURL: baseURL, apiKey: apiKey, httpClient: hc, now: time.Now}
}

type tokenResponse struct {
	AccessToken  string          `json:"access_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int64           `json:"expires_in"`
	ExpiresAt    int64           `json:"expires_at"`
	RefreshToken string          `json:"refresh_token"`
	User         domain.AuthUser `json:"user"`
}

func (t *tokenResponse) tokens(now time.Time) *domain.Tokens {
	exp := t.ExpiresAt
	if exp == 0 && t.ExpiresIn > 0 {
		exp = now.Add(time.Duration(t.ExpiresIn) * time.Second).Unix()
	}
	return &domain.Tokens{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		ExpiresAt:    exp,
		UserID:       t.User.ID,
		Email:        t.User.Email,
	}
}

// GetUser returns the user owning accessToken. An invalid or expired token is KindExpiredLink.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*domain.AuthUser, error) {
	var u domain.AuthUser
	if err := c.do(ctx, http.MethodGet, userPath, accessToken, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ExchangeCode trades a PKCE auth code for a session.
func (c *Client) ExchangeCode(ctx context.Context, code, verifier string) (*domain.Tokens, error) {
	body := map[string]string{"auth_code": code, "code_verifier": verifier}
	return c.token(ctx, grantPKCE, body)
}

// VerifyOTP verifies an emailed one-time code for the given purpose ("recovery").
func (c *Client) VerifyOTP(ctx context.Context, email, code, otpType string) (*domain.Tokens, error) {
	body := map[string]string{"email": email, "token": code, "type": otpType}
	var tr tokenResponse
	if err := c.do(ctx, http.MethodPost, verifyPath, "", body, &tr); err != nil {
		return nil, err
	}
	return tr.tokens(c.now()), nil
}

// RefreshSession exchanges a refresh token for a new token pair.
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*domain.Tokens, error) {
	return c.token(ctx, grantRefresh, map[string]string{"refresh_token": refreshToken})
}

// UpdateUser sets a new password for the user owning accessToken.
func (c *Client) UpdateUser(ctx context.Context, accessToken, password string) (*domain.AuthUser, error) {
	var u domain.AuthUser
	if err := c.do(ctx, http.MethodPut, userPath, accessToken, map[string]string{"password": password}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Recover asks the backend to email a recovery link that redirects to redirectTo.
// codeChallenge enables the PKCE flow when non-empty.
func (c *Client) Recover(ctx context.Context, email, redirectTo, codeChallenge string) error {
	body := map[string]string{"email": email}
	if codeChallenge != "" {
		body["code_challenge"] = codeChallenge
		body["code_challenge_method"] = challengeMethod
	}
	path := recoverPath
	if redirectTo != "" {
		path += "?" + url.Values{"redirect_to": {redirectTo}}.Encode()
	}
	return c.do(ctx, http.MethodPost, path, "", body, nil)
}

func (c *Client) token(ctx context.Context, grant string, body map[string]string) (*domain.Tokens, error) {
	var tr tokenResponse
	path := tokenPath + "?" + url.Values{"grant_type": {grant}}.Encode()
	if err := c.do(ctx, http.MethodPost, path, "", body, &tr); err != nil {
		return nil, err
	}
	return tr.tokens(c.now()), nil
}

func (c *Client) do(ctx context.Context, method, path, bearer string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal %s body: %w", path, err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set(headerAccept, contentTypeJSON)
	if in != nil {
		req.Header.Set(headerContent, contentTypeJSON)
	}
	if c.apiKey != "" {
		req.Header.Set(headerAPIKey, c.apiKey)
	}
	if bearer != "" {
		req.Header.Set(headerAuthorize, "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.AuthError{Kind: domain.KindUnknown, Message: "auth service unavailable", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read %s response: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
