package recovery

import "github.com/procodeli/portal/internal/domain"

// SelectMode picks the form to show. The reset form is only offered while the
// URL carried a credential that is pending or accepted.
func SelectMode(p domain.ResetParams, state domain.ValidationState) domain.ResetMode {
	if !p.HasCredential() {
		return domain.ModeRequest
	}
	switch state {
	case domain.StateUnchecked, domain.StateChecking, domain.StateValid:
		return domain.ModeReset
	default:
		return domain.ModeRequest
	}
}

// Screen is the render state of the reset page.
type Screen struct {
	Mode     domain.ResetMode
	State    domain.ValidationState
	Error    string
	Success  string
	Email    string
	Redirect string
}

// SetMode switches forms. Banners belong to the form they were raised on and
// are cleared on every switch.
func (s *Screen) SetMode(m domain.ResetMode) {
	if s.Mode != m {
		s.Error = ""
		s.Success = ""
	}
	s.Mode = m
}
