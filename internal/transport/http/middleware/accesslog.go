package middleware

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Query parameters that carry recovery credentials or identify the user.
var redactedParams = []string{"code", "token", "access_token", "refresh_token", "email"}

// AccessLog logs one line per request in chi's default format, with the
// credential parameters of the query string masked. A nil logger writes to
// the default slog handler.
func AccessLog(logger chimiddleware.LoggerInterface) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.NewLogLogger(slog.Default().Handler(), slog.LevelInfo)
	}
	return chimiddleware.RequestLogger(&redactingFormatter{
		next: &chimiddleware.DefaultLogFormatter{Logger: logger, NoColor: true},
	})
}

type redactingFormatter struct {
	next chimiddleware.LogFormatter
}

func (f *redactingFormatter) NewLogEntry(r *http.Request) chimiddleware.LogEntry {
	clean := r.WithContext(r.Context())
	clean.RequestURI = redactURI(r.RequestURI)
	return f.next.NewLogEntry(clean)
}

// redactURI masks the credential parameters of a request URI. An unparsable
// query is dropped entirely.
func redactURI(uri string) string {
	path, rawQuery, ok := strings.Cut(uri, "?")
	if !ok || rawQuery == "" {
		return uri
	}
	q, err := url.ParseQuery(rawQuery)
	if err != nil {
		return path + "?[unparsed]"
	}
	for _, k := range redactedParams {
		if _, found := q[k]; found {
			q.Set(k, "REDACTED")
		}
	}
	return path + "?" + q.Encode()
}
