package view

import (
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

const (
	htmxSrc       = "https://unpkg.com/htmx.org@2.0.4/dist/htmx.min.js"
	htmxIntegrity = "sha384-HGfztofotfshcF7+8n44JQL2oJmowVChPTg48S+jvZoztPfvwD79OC/LTtG6dMp+"
)

// Page wraps body in the portal's HTML shell.
func Page(title string, body ...g.Node) g.Node {
	return h.Doctype(
		h.HTML(
			h.Lang("en"),
			h.Head(
				h.Meta(h.Charset("utf-8")),
				h.Meta(h.Name("viewport"), h.Content("width=device-width, initial-scale=1")),
				h.TitleEl(g.Text(title+" | PROCODELI")),
				h.Script(h.Src(htmxSrc), g.Attr("integrity", htmxIntegrity), g.Attr("crossorigin", "anonymous"), g.Attr("defer")),
			),
			h.Body(
				h.Class("min-h-screen bg-gray-50 flex items-center justify-center"),
				h.Main(
					h.Class("w-full max-w-md bg-white shadow rounded-xl p-8"),
					g.Group(body),
				),
			),
		),
	)
}

// Banner renders an error or success message, or nothing when text is empty.
func Banner(kind, text string) g.Node {
	if text == "" {
		return nil
	}
	cls := "mb-4 rounded p-3 text-sm bg-red-50 text-red-700"
	role := "alert"
	if kind == "success" {
		cls = "mb-4 rounded p-3 text-sm bg-green-50 text-green-700"
		role = "status"
	}
	return h.Div(h.Class(cls), g.Attr("role", role), g.Attr("data-banner", kind), g.Text(text))
}
