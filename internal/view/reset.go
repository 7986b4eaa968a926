package view

import (
	"strconv"

	"github.com/procodeli/portal/internal/application/recovery"
	"github.com/procodeli/portal/internal/domain"
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	h "maragu.dev/gomponents/html"
)

// Routes the reset forms post to.
const (
	RouteResetPassword = "/reset-password"
	RouteRequestReset  = "/reset-password/request"
	RouteUpdatePass    = "/reset-password/update"
)

const panelID = "reset-panel"

// liftFragment moves fragment parameters into the query string and reloads,
// so tokens delivered after '#' reach the server.
const liftFragment = `(function () {
  var hash = window.location.hash;
  if (hash.length < 2) { return; }
  var frag = new URLSearchParams(hash.slice(1));
  if (!frag.has("access_token") && !frag.has("error") && !frag.has("error_description")) { return; }
  var query = new URLSearchParams(window.location.search);
  frag.forEach(function (v, k) { query.set(k, v); });
  window.location.replace(window.location.pathname + "?" + query.toString());
})();`

// ResetPage is the full reset-password document.
func ResetPage(s *recovery.Screen, minLength int) g.Node {
	return Page("Reset password",
		h.Script(g.Raw(liftFragment)),
		ResetPanel(s, minLength),
	)
}

// ResetPanel is the swappable part of the reset page. htmx responses return
// only this node.
func ResetPanel(s *recovery.Screen, minLength int) g.Node {
	var form g.Node
	if s.Mode == domain.ModeReset {
		form = resetForm(minLength)
	} else {
		form = requestForm(s.Email)
	}
	if s.Redirect != "" {
		form = h.A(h.Href(s.Redirect), h.Class("text-indigo-600 underline"), g.Text("Go to sign in"))
	}
	return h.Div(
		h.ID(panelID),
		g.Attr("data-mode", string(s.Mode)),
		h.H1(h.Class("text-2xl font-bold mb-6"), g.Text(title(s.Mode))),
		Banner("error", s.Error),
		Banner("success", s.Success),
		form,
	)
}

func title(m domain.ResetMode) string {
	if m == domain.ModeReset {
		return "New password"
	}
	return "Recover password"
}

func requestForm(email string) g.Node {
	return h.Form(
		h.Method("post"),
		h.Action(RouteRequestReset),
		hx.Post(RouteRequestReset),
		hx.Target("#"+panelID),
		hx.Swap("outerHTML"),
		field("email", "Email",
			h.Input(h.ID("email"), h.Name("email"), h.Type("email"), h.Value(email), h.Required(), g.Attr("autocomplete", "email"), inputClass()),
		),
		submit("Send link"),
	)
}

func resetForm(minLength int) g.Node {
	minLen := strconv.Itoa(minLength)
	return h.Form(
		h.Method("post"),
		h.Action(RouteUpdatePass),
		hx.Post(RouteUpdatePass),
		hx.Target("#"+panelID),
		hx.Swap("outerHTML"),
		field("password", "New password",
			h.Input(h.ID("password"), h.Name("password"), h.Type("password"), h.Required(), g.Attr("minlength", minLen), g.Attr("autocomplete", "new-password"), inputClass()),
		),
		field("confirm_password", "Confirm password",
			h.Input(h.ID("confirm_password"), h.Name("confirm_password"), h.Type("password"), h.Required(), g.Attr("minlength", minLen), g.Attr("autocomplete", "new-password"), inputClass()),
		),
		submit("Update password"),
	)
}

func field(id, label string, input g.Node) g.Node {
	return h.Div(
		h.Class("mb-4"),
		h.Label(h.For(id), h.Class("block text-sm font-medium mb-1"), g.Text(label)),
		input,
	)
}

func submit(label string) g.Node {
	return h.Button(h.Type("submit"), h.Class("w-full rounded bg-indigo-600 text-white py-2"), g.Text(label))
}

func inputClass() g.Node {
	return h.Class("w-full rounded border px-3 py-2")
}
