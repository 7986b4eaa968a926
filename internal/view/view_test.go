package view

import (
	"strings"
	"testing"

	"github.com/procodeli/portal/internal/application/recovery"
	"github.com/procodeli/portal/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	g "maragu.dev/gomponents"
)

func render(t *testing.T, n g.Node) string {
	t.Helper()
	var b strings.Builder
	require.NoError(t, n.Render(&b))
	return b.String()
}

func TestResetPanel_RequestMode(t *testing.T) {
	out := render(t, ResetPanel(&recovery.Screen{Mode: domain.ModeRequest, Email: "a@b.com", Error: "The recovery link has expired. Please request a new one."}, 6))

	assert.Contains(t, out, `data-mode="request"`)
	assert.Contains(t, out, `hx-post="/reset-password/request"`)
	assert.Contains(t, out, `value="a@b.com"`)
	assert.Contains(t, out, `data-banner="error"`)
	assert.Contains(t, out, "The recovery link has expired.")
	assert.NotContains(t, out, `name="password"`)
}

func TestResetPanel_ResetMode(t *testing.T) {
	out := render(t, ResetPanel(&recovery.Screen{Mode: domain.ModeReset}, 8))

	assert.Contains(t, out, `hx-post="/reset-password/update"`)
	assert.Contains(t, out, `name="confirm_password"`)
	assert.Contains(t, out, `minlength="8"`)
	assert.NotContains(t, out, "data-banner")
}

func TestResetPanel_SuccessWithRedirect(t *testing.T) {
	out := render(t, ResetPanel(&recovery.Screen{Mode: domain.ModeReset, Success: "Password updated successfully. Redirecting to login…", Redirect: "/login"}, 6))

	assert.Contains(t, out, `data-banner="success"`)
	assert.Contains(t, out, `href="/login"`)
	assert.NotContains(t, out, "<form")
}

func TestResetPage_IncludesFragmentLifter(t *testing.T) {
	out := render(t, ResetPage(&recovery.Screen{Mode: domain.ModeRequest}, 6))

	assert.True(t, strings.HasPrefix(out, "<!doctype html>"))
	assert.Contains(t, out, "window.location.hash")
	assert.Contains(t, out, `id="reset-panel"`)
}

func TestPage_PinsHtmxWithIntegrity(t *testing.T) {
	out := render(t, Page("Reset password"))

	assert.Contains(t, out, `src="`+htmxSrc+`"`)
	assert.Contains(t, out, `integrity="`+htmxIntegrity+`"`)
	assert.Contains(t, out, `crossorigin="anonymous"`)
}

func TestPages_UseOneLanguage(t *testing.T) {
	for name, n := range map[string]g.Node{
		"request": ResetPage(&recovery.Screen{Mode: domain.ModeRequest, Success: recovery.MsgRequestSent}, 6),
		"reset":   ResetPage(&recovery.Screen{Mode: domain.ModeReset, Error: recovery.MsgPasswordMismatch}, 6),
		"login":   LoginPage(recovery.MsgPasswordUpdated),
	} {
		t.Run(name, func(t *testing.T) {
			out := render(t, n)
			assert.Contains(t, out, `lang="en"`)
			for _, word := range []string{"contraseña", "Correo", "Enviar", "sesión"} {
				assert.NotContains(t, out, word)
			}
		})
	}
}

func TestLoginPage(t *testing.T) {
	out := render(t, LoginPage(""))
	assert.Contains(t, out, `href="/reset-password"`)
	assert.NotContains(t, out, "data-banner")
}
