package view

import (
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// LoginPage is the landing page after a completed reset. Sign-in itself is
// served by the portal front end.
func LoginPage(notice string) g.Node {
	return Page("Sign in",
		h.H1(h.Class("text-2xl font-bold mb-6"), g.Text("Sign in")),
		Banner("success", notice),
		h.P(h.Class("text-gray-700"), g.Text("Sign in with your new password.")),
		h.A(h.Href(RouteResetPassword), h.Class("text-indigo-600 underline"), g.Text("Forgot your password?")),
	)
}
