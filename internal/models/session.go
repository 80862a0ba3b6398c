package models

// OTPSession is the server-side state bound to one session token.
type OTPSession struct {
	PendingOTP string `json:"pending_otp,omitempty"`
	Mobile     string `json:"mobile,omitempty"`
	Verified   bool   `json:"verified"`
}

// HasPendingOTP reports whether a code has been issued for this session.
func (s *OTPSession) HasPendingOTP() bool {
	return s != nil && s.PendingOTP != ""
}
