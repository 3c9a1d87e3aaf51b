// Package config loads runtime configuration from the environment with
// sensible defaults for local development.
package config

import (
	"os"
	"strconv"
)

// Config holds everything the process needs to start.
type Config struct {
	AppEnv      string
	LogLevel    string
	ServiceName string
	Port        string

	MongoURL string
	Database string

	JWTSecret string

	StripeAPIKey        string
	StripeWebhookSecret string
	Currency            string

	OpenAIAPIKey string

	SendGridAPIKey string
	SenderEmail    string
	PostmarkToken  string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string

	OTLPEndpoint string
	OTLPInsecure bool
}

// Load reads the configuration from environment variables.
func Load() *Config {
	return &Config{
		AppEnv:      getEnv("APP_ENV", "dev"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		ServiceName: getEnv("SERVICE_NAME", "marketplace-api"),
		Port:        getEnv("PORT", "8000"),

		MongoURL: getEnv("MONGO_URL", "mongodb://localhost:27017"),
		Database: getEnv("MONGO_DATABASE", "marketplace"),

		JWTSecret: getEnv("JWT_SECRET", ""),

		StripeAPIKey:        getEnv("STRIPE_API_KEY", ""),
		StripeWebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
		Currency:            getEnv("CURRENCY", "usd"),

		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),

		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		SenderEmail:    getEnv("SENDER_EMAIL", "noreply@marketplace.local"),
		PostmarkToken:  getEnv("POSTMARK_API_TOKEN", ""),

		TwilioAccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioFromNumber: getEnv("TWILIO_FROM_NUMBER", ""),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		OTLPInsecure: getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", true),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
