package recovery

import (
	"context"
	"sync"
	"time"

	"github.com/procodeli/portal/internal/domain"
	"github.com/stretchr/testify/mock"
)

// --- mocks ---

type mockBackend struct{ mock.Mock }

func tokensOrNil(args mock.Arguments) (*domain.Tokens, error) {
	if t, _ := args.Get(0).(*domain.Tokens); t != nil {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func userOrNil(args mock.Arguments) (*domain.AuthUser, error) {
	if u, _ := args.Get(0).(*domain.AuthUser); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBackend) GetUser(ctx context.Context, accessToken string) (*domain.AuthUser, error) {
	return userOrNil(m.Called(ctx, accessToken))
}
func (m *mockBackend) ExchangeCode(ctx context.Context, code, verifier string) (*domain.Tokens, error) {
	return tokensOrNil(m.Called(ctx, code, verifier))
}
func (m *mockBackend) VerifyOTP(ctx context.Context, email, code, otpType string) (*domain.Tokens, error) {
	return tokensOrNil(m.Called(ctx, email, code, otpType))
}
func (m *mockBackend) RefreshSession(ctx context.Context, refreshToken string) (*domain.Tokens, error) {
	return tokensOrNil(m.Called(ctx, refreshToken))
}
func (m *mockBackend) UpdateUser(ctx context.Context, accessToken, password string) (*domain.AuthUser, error) {
	return userOrNil(m.Called(ctx, accessToken, password))
}
func (m *mockBackend) Recover(ctx context.Context, email, redirectTo, codeChallenge string) error {
	return m.Called(ctx, email, redirectTo, codeChallenge).Error(0)
}

type mockVerifications struct{ mock.Mock }

func (m *mockVerifications) Put(ctx context.Context, v *domain.Verification) error {
	return m.Called(ctx, v).Error(0)
}
func (m *mockVerifications) Get(ctx context.Context, key, verType string) (*domain.Verification, error) {
	args := m.Called(ctx, key, verType)
	if v, _ := args.Get(0).(*domain.Verification); v != nil {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockVerifications) Delete(ctx context.Context, key, verType string) error {
	return m.Called(ctx, key, verType).Error(0)
}

// --- fakes ---

// fakeProvider is an in-memory session.Provider. MarkUserUpdated delivers
// USER_UPDATED to listeners `fires` times.
type fakeProvider struct {
	mu        sync.Mutex
	id        string
	current   *domain.Session
	getErr    error
	getCalls  int
	setCalls  int
	signOuts  int
	fires     int
	listeners []func(domain.SessionEvent)
}

func newFakeProvider(id string) *fakeProvider {
	return &fakeProvider{id: id, fires: 1}
}

func (p *fakeProvider) ID() string { return p.id }

func (p *fakeProvider) Get(context.Context) (*domain.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.getCalls++
	return p.current, p.getErr
}

func (p *fakeProvider) Set(_ context.Context, t *domain.Tokens) (*domain.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.setCalls++
	p.current = &domain.Session{
		SessionID:    p.id,
		UserID:       t.UserID,
		Email:        t.Email,
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		ExpiresAt:    t.ExpiresAt,
		Enable:       true,
	}
	return p.current, nil
}

func (p *fakeProvider) MarkUserUpdated(context.Context) error {
	p.mu.Lock()
	ls := append([]func(domain.SessionEvent){}, p.listeners...)
	fires := p.fires
	p.mu.Unlock()
	for i := 0; i < fires; i++ {
		for _, fn := range ls {
			fn(domain.SessionEvent{Type: domain.EventUserUpdated, SessionID: p.id, At: time.Now()})
		}
	}
	return nil
}

func (p *fakeProvider) SignOut(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.signOuts++
	p.current = nil
	return nil
}

func (p *fakeProvider) OnChange(_ context.Context, fn func(domain.SessionEvent)) (func(), error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, fn)
	return func() {}, nil
}

type countingNavigator struct {
	mu     sync.Mutex
	routes []string
}

func (n *countingNavigator) Navigate(route string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.routes = append(n.routes, route)
}

func (n *countingNavigator) Routes() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.routes...)
}

type recordingAuditor struct {
	mu    sync.Mutex
	users []*domain.AuthUser
}

func (a *recordingAuditor) RecordPasswordReset(_ context.Context, u *domain.AuthUser, _ string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.users = append(a.users, u)
}

var fixedNow = time.Unix(1_700_000_000, 0)
