package models

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// APIResponse is the uniform body returned by every form endpoint.
type APIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Debug   string `json:"debug,omitempty"`
}
