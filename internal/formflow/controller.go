package formflow

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"leadgate/internal/models"
)

const otpLength = 6

// API is the server surface a Controller drives.
type API interface {
	IssueOTP(ctx context.Context, mobile string) (*models.APIResponse, error)
	VerifyOTP(ctx context.Context, code string) (*models.APIResponse, error)
	SubmitLead(ctx context.Context, v Variant, req *models.LeadRequest) (*models.APIResponse, error)
}

// Controller runs one form through Idle, OTPRequested, OTPVerified,
// Submitting and finally Done or Failed.
type Controller struct {
	mu          sync.Mutex
	variant     Variant
	api         API
	shadow      ShadowNotifier
	validator   *Validator
	attribution models.Attribution
	fields      models.LeadFields
	state       State
}

// NewController binds a form to api. Attribution is read once from the
// query of landingURL; an empty landingURL leaves it blank.
func NewController(variant Variant, api API, shadow ShadowNotifier, validator *Validator, landingURL string) (*Controller, error) {
	if shadow == nil {
		shadow = NopShadowNotifier{}
	}

	var attribution models.Attribution
	if landingURL != "" {
		u, err := url.Parse(landingURL)
		if err != nil {
			return nil, err
		}
		attribution = models.AttributionFromValues(u.Query().Get)
	}

	return &Controller{
		variant:     variant,
		api:         api,
		shadow:      shadow,
		validator:   validator,
		attribution: attribution,
	}, nil
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Attribution() models.Attribution {
	return c.attribution
}

// Update replaces the current field values.
func (c *Controller) Update(fields models.LeadFields) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fields = fields
}

// SendOTP requests a code for the current phone number.
func (c *Controller) SendOTP(ctx context.Context) (*models.APIResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.notifyShadow()

	phone := strings.TrimSpace(c.fields.Phone)
	if err := c.validator.ValidatePhone(phone); err != nil {
		return nil, err
	}

	res, err := c.api.IssueOTP(ctx, phone)
	if err != nil {
		log.Warn().Err(err).Str("form", c.variant.Name).Msg("OTP request failed")
		return res, err
	}

	c.state = StateOTPRequested
	return res, nil
}

// EnterOTP takes the code as typed. Nothing happens until it is exactly six
// characters long; then it is verified and, on success, the form is submitted.
func (c *Controller) EnterOTP(ctx context.Context, code string) (*models.APIResponse, error) {
	code = strings.TrimSpace(code)
	if len(code) != otpLength {
		return nil, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	res, err := c.api.VerifyOTP(ctx, code)
	if err != nil {
		if c.state == StateOTPVerified {
			c.state = StateOTPRequested
		}
		return res, err
	}

	c.state = StateOTPVerified
	return c.submit(ctx)
}

// Submit validates the form and sends it. A refused submission leaves the
// state unchanged and returns a ValidationError.
func (c *Controller) Submit(ctx context.Context) (*models.APIResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submit(ctx)
}

func (c *Controller) submit(ctx context.Context) (*models.APIResponse, error) {
	c.notifyShadow()

	verr := make(ValidationError)
	var fieldErrs ValidationError
	if err := c.validator.Validate(c.fields); errors.As(err, &fieldErrs) {
		for k, v := range fieldErrs {
			verr[k] = v
		}
	} else if err != nil {
		return nil, err
	}

	switch c.state {
	case StateOTPVerified:
	case StateOTPRequested:
		verr["otp"] = "Please verify OTP before submitting."
	default:
		if _, ok := verr["phone"]; !ok {
			verr["phone"] = "Please send OTP before submitting."
		}
	}

	if len(verr) > 0 {
		return nil, verr
	}

	c.state = StateSubmitting
	res, err := c.api.SubmitLead(ctx, c.variant, &models.LeadRequest{
		LeadFields:  c.fields,
		Attribution: c.attribution,
	})
	if err != nil {
		c.state = StateFailed
		log.Warn().Err(err).Str("form", c.variant.Name).Msg("Lead submission failed")
		return res, err
	}

	c.state = StateDone
	log.Info().Str("form", c.variant.Name).Msg("Lead submitted")
	return res, nil
}

func (c *Controller) notifyShadow() {
	c.shadow.Notify(ShadowRecord{
		LeadFields:  c.fields,
		FormSource:  c.variant.Source,
		Attribution: c.attribution,
	})
}
