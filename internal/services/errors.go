package services

import "errors"

var (
	ErrMissingInput       = errors.New("missing input")
	ErrNoPendingOTP       = errors.New("no pending OTP")
	ErrInvalidOTP         = errors.New("invalid OTP")
	ErrGatewayUnreachable = errors.New("sms gateway unreachable")
	ErrNotVerified        = errors.New("phone number not verified")
	ErrSinkUnreachable    = errors.New("lead sink unreachable")
)

// DeliveryError reports an SMS the gateway did not accept. Response holds the
// gateway's raw body, if any.
type DeliveryError struct {
	Reason   string
	Response string
	Err      error
}

func (e *DeliveryError) Error() string {
	if e.Err != nil {
		return e.Reason + ": " + e.Err.Error()
	}
	return e.Reason
}

func (e *DeliveryError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrGatewayUnreachable, e.Err}
	}
	return []error{ErrGatewayUnreachable}
}
