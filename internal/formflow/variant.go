package formflow

import "leadgate/internal/models"

// Variant describes one of the landing page forms.
type Variant struct {
	Name       string
	Source     models.FormSource
	SubmitPath string
}

var (
	Banner   = Variant{Name: "banner", Source: models.FormSourceBanner, SubmitPath: "/lead-submit-banner"}
	Brochure = Variant{Name: "brochure", Source: models.FormSourceBrochure, SubmitPath: "/lead-submit-brochure"}
	Popup    = Variant{Name: "popup", Source: models.FormSourcePopup, SubmitPath: "/lead-submit-popup"}
)

// Variants lists every form in page order.
var Variants = []Variant{Banner, Brochure, Popup}

// VariantByName looks a variant up by its short name.
func VariantByName(name string) (Variant, bool) {
	for _, v := range Variants {
		if v.Name == name {
			return v, true
		}
	}
	return Variant{}, false
}

// State is the position of a form in the OTP flow.
type State int

const (
	StateIdle State = iota
	StateOTPRequested
	StateOTPVerified
	StateSubmitting
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateOTPRequested:
		return "otp_requested"
	case StateOTPVerified:
		return "otp_verified"
	case StateSubmitting:
		return "submitting"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
