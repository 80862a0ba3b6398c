package config

import (
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/viper"
)

// Config holds all application configuration values.
type Config struct {
	Port int

	SessionKey    string
	SessionName   string
	SessionMaxAge time.Duration
	SecureCookies bool

	AllowedOrigins []string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SMS SMSConfig

	SheetWebhookURL   string
	HTTPClientTimeout time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	LeadAlertTo  string
}

// SMSConfig carries the credentials and DLT identifiers of the SMS route.
type SMSConfig struct {
	APIURL         string
	Username       string
	APIKey         string
	SenderID       string
	Route          string
	TemplateID     string
	EntityID       string
	ComplianceName string
	CountryCode    string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", 8080)
	v.SetDefault("SESSION_NAME", "leadgate_session")
	v.SetDefault("SESSION_MAX_AGE", "30m")
	v.SetDefault("SECURE_COOKIES", false)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SMS_API_URL", "https://mdssend.in/api.php")
	v.SetDefault("SMS_ROUTE", "OTP")
	v.SetDefault("SMS_COUNTRY_CODE", "91")
	v.SetDefault("HTTP_CLIENT_TIMEOUT", "30s")
	v.SetDefault("SMTP_PORT", 587)
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first.
func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Port:              v.GetInt("PORT"),
		SessionKey:        v.GetString("SESSION_KEY"),
		SessionName:       v.GetString("SESSION_NAME"),
		SessionMaxAge:     v.GetDuration("SESSION_MAX_AGE"),
		SecureCookies:     v.GetBool("SECURE_COOKIES"),
		AllowedOrigins:    splitList(v.GetString("ALLOWED_ORIGINS")),
		RedisAddr:         v.GetString("REDIS_ADDR"),
		RedisPassword:     v.GetString("REDIS_PASSWORD"),
		RedisDB:           v.GetInt("REDIS_DB"),
		SheetWebhookURL:   v.GetString("SHEET_WEBHOOK_URL"),
		HTTPClientTimeout: v.GetDuration("HTTP_CLIENT_TIMEOUT"),
		SMTPHost:          v.GetString("SMTP_HOST"),
		SMTPPort:          v.GetInt("SMTP_PORT"),
		SMTPUsername:      v.GetString("SMTP_USERNAME"),
		SMTPPassword:      v.GetString("SMTP_PASSWORD"),
		LeadAlertTo:       v.GetString("LEAD_ALERT_TO"),
		SMS: SMSConfig{
			APIURL:         v.GetString("SMS_API_URL"),
			Username:       v.GetString("SMS_USERNAME"),
			APIKey:         v.GetString("SMS_API_KEY"),
			SenderID:       v.GetString("SMS_SENDER_ID"),
			Route:          v.GetString("SMS_ROUTE"),
			TemplateID:     v.GetString("SMS_TEMPLATE_ID"),
			EntityID:       v.GetString("SMS_ENTITY_ID"),
			ComplianceName: v.GetString("SMS_COMPLIANCE_NAME"),
			CountryCode:    v.GetString("SMS_COUNTRY_CODE"),
		},
	}

	// The DLT template signs off with the registered sender name.
	if cfg.SMS.ComplianceName == "" {
		cfg.SMS.ComplianceName = cfg.SMS.SenderID
	}

	return cfg
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
