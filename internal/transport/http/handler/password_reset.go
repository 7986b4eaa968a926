package handler

import (
	"net/http"
	"sync"

	"github.com/procodeli/portal/internal/application/recovery"
	"github.com/procodeli/portal/internal/application/session"
	"github.com/procodeli/portal/internal/domain"
	"github.com/procodeli/portal/internal/transport/http/middleware"
	"github.com/procodeli/portal/internal/view"
)

// SessionProviders resolves the session provider of a browser session id.
type SessionProviders interface {
	For(sessionID string) session.Provider
}

// PasswordResetHandler serves the reset-password screen and its two forms.
type PasswordResetHandler struct {
	svc       recovery.Service
	sessions  SessionProviders
	minLength int
}

func NewPasswordResetHandler(svc recovery.Service, sessions SessionProviders, minLength int) *PasswordResetHandler {
	return &PasswordResetHandler{svc: svc, sessions: sessions, minLength: minLength}
}

// Show resolves the recovery redirect parameters and renders the screen. Once
// the parameters have opened a session the browser is sent to the bare route.
func (h *PasswordResetHandler) Show(w http.ResponseWriter, r *http.Request) {
	sp, ok := h.provider(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	p := domain.ResetParams{
		Token:            q.Get("token"),
		Code:             q.Get("code"),
		Type:             q.Get("type"),
		Email:            q.Get("email"),
		Error:            q.Get("error"),
		ErrorDescription: q.Get("error_description"),
		AccessToken:      q.Get("access_token"),
		RefreshToken:     q.Get("refresh_token"),
	}
	screen := h.svc.ResolveScreen(r.Context(), sp, p)
	if screen.State == domain.StateValid && r.URL.RawQuery != "" {
		// The session now holds the credentials. Drop them from the address bar.
		http.Redirect(w, r, view.RouteResetPassword, http.StatusSeeOther)
		return
	}
	writeHTML(w, http.StatusOK, view.ResetPage(screen, h.minLength))
}

// Request sends a recovery email to the submitted address.
func (h *PasswordResetHandler) Request(w http.ResponseWriter, r *http.Request) {
	sp, ok := h.provider(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form body")
		return
	}
	screen := h.svc.RequestReset(r.Context(), sp, r.PostFormValue("email"))
	h.render(w, r, screen)
}

// Update sets the new password and sends the browser to the login page.
func (h *PasswordResetHandler) Update(w http.ResponseWriter, r *http.Request) {
	sp, ok := h.provider(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form body")
		return
	}
	nav := &redirectNavigator{}
	screen := h.svc.UpdatePassword(r.Context(), sp, r.PostFormValue("password"), r.PostFormValue("confirm_password"), nav)

	route := nav.Route()
	if route == "" {
		h.render(w, r, screen)
		return
	}
	target := route + "?reset=done"
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", target)
		h.render(w, r, screen)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// Login is the landing page after a completed reset.
func (h *PasswordResetHandler) Login(w http.ResponseWriter, r *http.Request) {
	notice := ""
	if r.URL.Query().Get("reset") == "done" {
		notice = recovery.MsgPasswordUpdated
	}
	writeHTML(w, http.StatusOK, view.LoginPage(notice))
}

func (h *PasswordResetHandler) provider(w http.ResponseWriter, r *http.Request) (session.Provider, bool) {
	sid, ok := middleware.SessionIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing browser session")
		return nil, false
	}
	return h.sessions.For(sid), true
}

func (h *PasswordResetHandler) render(w http.ResponseWriter, r *http.Request, s *recovery.Screen) {
	if isHTMX(r) {
		writeHTML(w, http.StatusOK, view.ResetPanel(s, h.minLength))
		return
	}
	writeHTML(w, http.StatusOK, view.ResetPage(s, h.minLength))
}

// redirectNavigator records the navigation requested by the submitter so the
// handler can turn it into a redirect response.
type redirectNavigator struct {
	mu    sync.Mutex
	route string
}

func (n *redirectNavigator) Navigate(route string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.route = route
}

func (n *redirectNavigator) Route() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.route
}
