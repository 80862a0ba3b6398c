package models

// FormSource tags which landing page form produced a lead.
type FormSource string

const (
	FormSourceBanner   FormSource = "Banner Form"
	FormSourceBrochure FormSource = "Brochure Form"
	FormSourcePopup    FormSource = "Popupform"
)

// Attribution holds the campaign parameters captured from the landing URL.
type Attribution struct {
	UTMSource    string `json:"utm_source"`
	UTMMedium    string `json:"utm_medium"`
	UTMCampaign  string `json:"utm_campaign"`
	UTMAd        string `json:"utm_ad"`
	UTMPlacement string `json:"utm_placement"`
	UTMKeyword   string `json:"utm_keyword"`
	GCLID        string `json:"gclid"`
	FBCLID       string `json:"fbclid"`
}

// AttributionKeys lists the query parameters copied into Attribution, in the
// order the landing page reads them.
var AttributionKeys = []string{
	"utm_source",
	"utm_medium",
	"utm_campaign",
	"utm_ad",
	"utm_placement",
	"utm_keyword",
	"gclid",
	"fbclid",
}

// AttributionFromValues builds an Attribution from a key lookup such as
// url.Values.Get. Missing keys become empty strings.
func AttributionFromValues(get func(key string) string) Attribution {
	return Attribution{
		UTMSource:    get("utm_source"),
		UTMMedium:    get("utm_medium"),
		UTMCampaign:  get("utm_campaign"),
		UTMAd:        get("utm_ad"),
		UTMPlacement: get("utm_placement"),
		UTMKeyword:   get("utm_keyword"),
		GCLID:        get("gclid"),
		FBCLID:       get("fbclid"),
	}
}

// LeadFields are the values a visitor types into any of the forms.
type LeadFields struct {
	FullName   string `json:"fullName" validate:"required"`
	Phone      string `json:"phone" validate:"required,phone10"`
	Email      string `json:"email" validate:"required,email_basic"`
	State      string `json:"state" validate:"required"`
	City       string `json:"city" validate:"required"`
	Investment string `json:"investment" validate:"required"`
	Timeline   string `json:"timeline" validate:"required"`
}

// LeadRequest is the JSON body posted to the lead-submit endpoints.
type LeadRequest struct {
	LeadFields
	Attribution
}

// LeadPayload is the enriched record forwarded to the spreadsheet sink.
type LeadPayload struct {
	LeadFields
	FormSource FormSource `json:"form_source"`
	UserIP     string     `json:"userIP"`
	Attribution
}

// IsEmpty reports whether nothing at all was filled in.
func (r *LeadRequest) IsEmpty() bool {
	return r == nil || *r == LeadRequest{}
}
