package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort  string
	AppEnv   string
	LogLevel string
	SiteURL  string // public origin of this service, used for reset redirects

	AuthURL         string // auth backend base URL, e.g. https://xyz.supabase.co
	AuthAPIKey      string // publishable (anon) key sent as the apikey header
	AuthHTTPTimeout time.Duration

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	S3BucketName   string
	SNSRegion      string
	SNSTopicARN    string

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration
	SessionCookieName string

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	PasswordMinLength         int
	ResetRequestCooldown      time.Duration
	ResetLinkTTL              time.Duration
	SessionPropagationTimeout time.Duration
	LoginRoute                string

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Sessions      string
	Verifications string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort:  getEnv("APP_PORT", "3000"),
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		SiteURL:  strings.TrimRight(getEnv("SITE_URL", "http://localhost:3000"), "/"),

		AuthURL:         strings.TrimRight(getEnv("AUTH_URL", "http://localhost:9999"), "/"),
		AuthAPIKey:      getEnv("AUTH_API_KEY", ""),
		AuthHTTPTimeout: getEnvDuration("AUTH_HTTP_TIMEOUT", 15*time.Second),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Sessions:      getEnv("DYNAMO_TABLE_SESSIONS", "sessions"),
			Verifications: getEnv("DYNAMO_TABLE_VERIFICATIONS", "verifications"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "procodeli-audit"),
		SNSRegion:    getEnv("SNS_REGION", "us-east-1"),
		SNSTopicARN:  getEnv("SNS_TOPIC_ARN", ""),

		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiry:         time.Duration(getEnvInt("JWT_EXPIRY_DAYS", 7)) * 24 * time.Hour,
		SessionCookieName: getEnv("SESSION_COOKIE_NAME", "procodeli_session"),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@procodeli.org"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		PasswordMinLength:         getEnvInt("PASSWORD_MIN_LENGTH", 6),
		ResetRequestCooldown:      getEnvDuration("RESET_REQUEST_COOLDOWN", 60*time.Second),
		ResetLinkTTL:              getEnvDuration("RESET_LINK_TTL", 24*time.Hour),
		SessionPropagationTimeout: getEnvDuration("SESSION_PROPAGATION_TIMEOUT", 5*time.Second),
		LoginRoute:                getEnv("LOGIN_ROUTE", "/login"),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// getEnvDuration accepts Go duration strings ("90s", "5m").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
