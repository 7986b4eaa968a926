package recovery

import (
	"context"
	"testing"
	"time"

	"github.com/procodeli/portal/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func signedIn(id string) *fakeProvider {
	sp := newFakeProvider(id)
	sp.current = &domain.Session{SessionID: id, UserID: "u1", Email: "a@b.com", AccessToken: "at", Enable: true}
	return sp
}

func TestSubmit_Mismatch_NoBackendCall(t *testing.T) {
	be := &mockBackend{}
	sp := signedIn("s1")

	_, err := NewSubmitter(be, nil, SubmitterConfig{}).Submit(context.Background(), sp, "abcdef", "abcdez", &countingNavigator{})

	require.Error(t, err)
	assert.Equal(t, "Passwords do not match.", UserMessage(err))
	assert.Equal(t, domain.KindPasswordPolicy, domain.KindOf(err))
	assert.Zero(t, sp.getCalls)
	be.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmit_TooShort_NoBackendCall(t *testing.T) {
	be := &mockBackend{}

	_, err := NewSubmitter(be, nil, SubmitterConfig{}).Submit(context.Background(), signedIn("s1"), "abcde", "abcde", &countingNavigator{})

	require.Error(t, err)
	assert.Equal(t, "Password must be at least 6 characters.", UserMessage(err))
	be.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmit_ConfiguredMinLength(t *testing.T) {
	err := NewSubmitter(&mockBackend{}, nil, SubmitterConfig{MinLength: 10}).CheckPassword("abcdefgh", "abcdefgh")
	assert.Equal(t, "Password must be at least 10 characters.", UserMessage(err))
}

func TestSubmit_NoSession_ExpiredLink(t *testing.T) {
	be := &mockBackend{}

	_, err := NewSubmitter(be, nil, SubmitterConfig{}).Submit(context.Background(), newFakeProvider("s1"), "abcdef", "abcdef", &countingNavigator{})

	assert.Equal(t, domain.KindExpiredLink, domain.KindOf(err))
	assert.Equal(t, MsgExpiredLink, UserMessage(err))
	be.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmit_BackendRejects_MessageVerbatimAndNoNavigation(t *testing.T) {
	be := &mockBackend{}
	be.On("UpdateUser", mock.Anything, "at", "abcdef").
		Return(nil, &domain.AuthError{Kind: domain.KindUnknown, Code: "same_password", Message: "New password should be different from the old password."})
	nav := &countingNavigator{}

	_, err := NewSubmitter(be, nil, SubmitterConfig{}).Submit(context.Background(), signedIn("s1"), "abcdef", "abcdef", nav)

	assert.Equal(t, "New password should be different from the old password.", UserMessage(err))
	assert.Empty(t, nav.Routes())
}

func TestSubmit_Success_NavigatesOnceWhenEventFiresTwice(t *testing.T) {
	be := &mockBackend{}
	be.On("UpdateUser", mock.Anything, "at", "n3wpass").Return(&domain.AuthUser{ID: "u1"}, nil)
	sp := signedIn("s1")
	sp.fires = 2
	nav := &countingNavigator{}
	aud := &recordingAuditor{}

	msg, err := NewSubmitter(be, aud, SubmitterConfig{LoginRoute: "/login"}).Submit(context.Background(), sp, "n3wpass", "n3wpass", nav)

	require.NoError(t, err)
	assert.Equal(t, "Password updated successfully. Redirecting to login…", msg)
	assert.Equal(t, []string{"/login"}, nav.Routes())
	require.Len(t, aud.users, 1)
	assert.Equal(t, "a@b.com", aud.users[0].Email)
	assert.Equal(t, 1, sp.signOuts)
}

func TestSubmit_BackendRejects_SessionStaysSignedIn(t *testing.T) {
	be := &mockBackend{}
	be.On("UpdateUser", mock.Anything, "at", "abcdef").
		Return(nil, &domain.AuthError{Kind: domain.KindUnknown, Message: "Auth session missing!"})
	sp := signedIn("s1")

	_, err := NewSubmitter(be, nil, SubmitterConfig{}).Submit(context.Background(), sp, "abcdef", "abcdef", &countingNavigator{})

	require.Error(t, err)
	assert.Zero(t, sp.signOuts)
	assert.NotNil(t, sp.current)
}

func TestSubmit_EventNeverArrives_NavigatesAfterTimeout(t *testing.T) {
	be := &mockBackend{}
	be.On("UpdateUser", mock.Anything, "at", "n3wpass").Return(&domain.AuthUser{ID: "u1"}, nil)
	sp := signedIn("s1")
	sp.fires = 0
	nav := &countingNavigator{}

	start := time.Now()
	_, err := NewSubmitter(be, nil, SubmitterConfig{PropagationTimeout: 20 * time.Millisecond}).Submit(context.Background(), sp, "n3wpass", "n3wpass", nav)

	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	assert.Equal(t, []string{"/login"}, nav.Routes())
}

func TestSubmission_CompleteIsIdempotent(t *testing.T) {
	nav := &countingNavigator{}
	sub := newSubmission(nav, "/login")
	for i := 0; i < 3; i++ {
		sub.complete()
	}
	assert.Len(t, nav.Routes(), 1)
	select {
	case <-sub.done:
	default:
		t.Fatal("submission not done")
	}
}
