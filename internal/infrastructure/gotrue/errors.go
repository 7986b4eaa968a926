package gotrue

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/procodeli/portal/internal/domain"
)

// errorBody covers both error shapes the backend emits: the current
// {code, error_code, msg} and the OAuth-style {error, error_description}.
type errorBody struct {
	ErrorCode        string `json:"error_code"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// Error codes that mean the recovery link or code can no longer be used.
var expiredCodes = map[string]bool{
	"otp_expired":          true,
	"flow_state_expired":   true,
	"flow_state_not_found": true,
	"bad_code_verifier":    true,
}

// decodeError turns a non-2xx response body into a typed AuthError.
func decodeError(status int, body []byte) *domain.AuthError {
	var eb errorBody
	_ = json.Unmarshal(body, &eb)

	msg := firstNonEmpty(eb.Msg, eb.Message, eb.ErrorDescription, eb.Error, http.StatusText(status))
	code := eb.ErrorCode
	if code == "" && eb.ErrorDescription != "" {
		code = eb.Error
	}
	return &domain.AuthError{
		Kind:    classify(status, code, msg),
		Code:    code,
		Status:  status,
		Message: msg,
	}
}

func classify(status int, code, msg string) domain.ErrorKind {
	if status == http.StatusTooManyRequests || code == "over_email_send_rate_limit" {
		return domain.KindRateLimited
	}
	if expiredCodes[code] {
		return domain.KindExpiredLink
	}
	lower := strings.ToLower(msg)
	for _, marker := range []string{"expired", "invalid", "not found"} {
		if strings.Contains(lower, marker) {
			return domain.KindExpiredLink
		}
	}
	return domain.KindUnknown
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
