package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/procodeli/portal/internal/domain"
	"github.com/procodeli/portal/internal/pkg/id"
)

// EventPasswordReset is the event type published for completed resets.
const EventPasswordReset = "password_reset.completed"

// PasswordReset is the audit record of one completed password change.
type PasswordReset struct {
	ID        string    `json:"id"`
	Event     string    `json:"event"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email,omitempty"`
	SessionID string    `json:"session_id"`
	At        time.Time `json:"at"`
}

type objectStore interface {
	PutJSON(ctx context.Context, key string, v interface{}) (string, error)
}

type eventPublisher interface {
	PublishEvent(ctx context.Context, eventType string, payload interface{}) error
}

type mailer interface {
	SendEmail(to, subject, body string) error
}

// Recorder writes audit records and fans out security notifications. Every
// sink is optional and failures never reach the caller.
type Recorder struct {
	store     objectStore
	publisher eventPublisher
	mailer    mailer
	now       func() time.Time
}

type RecorderDeps struct {
	Store     objectStore
	Publisher eventPublisher
	Mailer    mailer
}

func NewRecorder(deps RecorderDeps) *Recorder {
	return &Recorder{
		store:     deps.Store,
		publisher: deps.Publisher,
		mailer:    deps.Mailer,
		now:       time.Now,
	}
}

// Key returns the object key of rec: audit/password-reset/YYYY/MM/DD/<id>.json.
func Key(rec PasswordReset) string {
	return fmt.Sprintf("audit/password-reset/%s/%s.json", rec.At.UTC().Format("2006/01/02"), rec.ID)
}

func (r *Recorder) RecordPasswordReset(ctx context.Context, u *domain.AuthUser, sessionID string) {
	at := r.now().UTC()
	rec := PasswordReset{
		ID:        id.NewAt(at),
		Event:     EventPasswordReset,
		SessionID: sessionID,
		At:        at,
	}
	if u != nil {
		rec.UserID, rec.Email = u.ID, u.Email
	}

	if r.store != nil {
		if _, err := r.store.PutJSON(ctx, Key(rec), rec); err != nil {
			slog.Warn("failed to store password reset audit record", "user_id", rec.UserID, "err", err)
		}
	}
	if r.publisher != nil {
		if err := r.publisher.PublishEvent(ctx, EventPasswordReset, rec); err != nil {
			slog.Warn("failed to publish password reset event", "user_id", rec.UserID, "err", err)
		}
	}
	if r.mailer != nil && rec.Email != "" {
		body := "The password of your PROCODELI account was changed on " +
			rec.At.Format(time.RFC1123) + ".\n\nIf you did not make this change, request a new recovery link immediately."
		if err := r.mailer.SendEmail(rec.Email, "Your password was changed", body); err != nil {
			slog.Warn("failed to send password change notice", "user_id", rec.UserID, "err", err)
		}
	}
}
