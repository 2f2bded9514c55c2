package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config holds every process-wide setting. It is built once in main and
// passed explicitly into constructors; nothing reads the environment after
// startup.
type Config struct {
	Env        string `env:"APP_ENV"    envDefault:"development"`
	ServerPort int    `env:"PORT"       envDefault:"4000"`
	UploadDir  string `env:"UPLOAD_DIR" envDefault:"uploads"`

	Mongo  MongoConfig
	Token  TokenConfig
	OTP    OTPConfig
	SMTP   SMTPConfig
	Google GoogleConfig
	Consul ConsulConfig
}

// MongoConfig holds the document store connection settings.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"      envDefault:"mongodb://localhost:27017"`
	Database string `env:"MONGO_DATABASE" envDefault:"shoplane"`
}

// TokenConfig holds the bearer token signing settings.
type TokenConfig struct {
	Secret    string        `env:"JWT_SECRET"`
	ExpiresIn time.Duration `env:"JWT_EXPIRES_IN" envDefault:"168h"`
	Issuer    string        `env:"JWT_ISSUER"     envDefault:"shoplane-api"`
}

// OTPConfig holds the one-time code expiry windows. Resend uses a shorter
// window than initial issuance.
type OTPConfig struct {
	ExpiresIn       time.Duration `env:"OTP_EXPIRES_IN"        envDefault:"10m"`
	ResendExpiresIn time.Duration `env:"OTP_RESEND_EXPIRES_IN" envDefault:"5m"`

	// ResendBestEffort controls whether a resend delivery failure is logged
	// and swallowed or surfaced to the caller as an error.
	ResendBestEffort bool `env:"OTP_RESEND_BEST_EFFORT" envDefault:"false"`
}

// SMTPConfig holds the outbound mail transport settings.
type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM"`
}

// GoogleConfig holds the federated login settings. ClientID is optional;
// when empty, incoming Google ID tokens are not verified server-side.
type GoogleConfig struct {
	ClientID string `env:"GOOGLE_CLIENT_ID"`
}

// ConsulConfig holds the optional service registration settings.
type ConsulConfig struct {
	Address     string `env:"CONSUL_ADDR"`
	ServiceName string `env:"CONSUL_SERVICE_NAME" envDefault:"shoplane-api"`
	ServiceHost string `env:"CONSUL_SERVICE_HOST" envDefault:"localhost"`
}

// New loads the configuration from the environment. Outside production a
// .env file in the working directory is loaded first.
func New(logger *zerolog.Logger) *Config {
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil {
			logger.Warn().Err(err).Msg("no .env file loaded")
		}
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse environment variables")
	}

	if err := cfg.validate(); err != nil {
		logger.Fatal().Err(err).Msg("failed to validate configuration")
	}

	return &cfg
}

// validate checks the settings without which the service cannot run.
func (c *Config) validate() error {
	if c.Token.Secret == "" {
		return fmt.Errorf("missing JWT_SECRET environment variable")
	}
	if c.SMTP.Host == "" {
		return fmt.Errorf("missing SMTP_HOST environment variable")
	}
	if c.SMTP.Port == 0 {
		return fmt.Errorf("missing SMTP_PORT environment variable")
	}
	if c.SMTP.From == "" {
		return fmt.Errorf("missing SMTP_FROM environment variable")
	}

	return nil
}
