package accounts

import (
	"github.com/caarlos0/env/v11"
	"github.com/goliatone/go-errors"
)

// AppConfig is the environment backed configuration. The signing secret is
// the only process-wide state; it is read once at startup and never mutated.
type AppConfig struct {
	SigningKey        string `env:"JWT_SECRET,required,notEmpty"`
	TokenTTL          int    `env:"TOKEN_TTL_HOURS" envDefault:"72"`
	TokenLookup       string `env:"TOKEN_LOOKUP" envDefault:"header:x-auth-token"`
	RepositoryTimeout int    `env:"REPO_TIMEOUT_SECONDS" envDefault:"10"`
	Addr              string `env:"ADDR" envDefault:":8080"`
	DSN               string `env:"DATABASE_DSN" envDefault:"file:accounts.db?cache=shared&mode=rwc"`
	Debug             bool   `env:"DEBUG" envDefault:"false"`
}

// LoadConfig parses the environment. A missing JWT_SECRET fails startup.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "invalid environment configuration")
	}
	return cfg, nil
}

func (c *AppConfig) GetSigningKey() string {
	return c.SigningKey
}

func (c *AppConfig) GetTokenTTL() int {
	return c.TokenTTL
}

func (c *AppConfig) GetTokenLookup() string {
	return c.TokenLookup
}

func (c *AppConfig) GetRepositoryTimeout() int {
	return c.RepositoryTimeout
}

var _ Config = (*AppConfig)(nil)
