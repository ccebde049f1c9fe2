package tokenware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

// DefaultTokenLookup matches the header the original API clients send.
const DefaultTokenLookup = "header:x-auth-token"

// DefaultContextKey is the locals key the resolved subject is stored under.
const DefaultContextKey = "user_id"

// ErrTokenMissing is returned when no credential is present on the request.
var ErrTokenMissing = errors.New("missing auth token", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)

// ErrTokenInvalid is returned for bad signatures, malformed tokens, and
// unknown subjects alike, so responses do not reveal which identifiers exist.
var ErrTokenInvalid = errors.New("invalid auth token", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)

// Config defines the authorization gate. Validate and ResolveSubject are
// plain functions so the gate has no dependency on the packages that
// implement them.
type Config struct {
	// Filter skips the gate when it returns true.
	Filter func(*fiber.Ctx) bool

	// TokenLookup is a comma separated list of "<source>:<name>" entries,
	// e.g. "header:x-auth-token,query:token". Supported sources: header,
	// query, cookie.
	TokenLookup string

	// Validate verifies a raw token and returns the subject it is bound to.
	// Required.
	Validate func(raw string) (string, error)

	// ResolveSubject confirms the subject still exists. Optional; a failure
	// is reported as an invalid token.
	ResolveSubject func(ctx context.Context, subject string) error

	// ContextKey is the fiber locals key for the resolved subject.
	ContextKey string

	// ErrorHandler renders gate rejections.
	ErrorHandler func(*fiber.Ctx, error) error

	// ContextEnricher propagates the subject into the request's standard
	// context for downstream use.
	ContextEnricher func(ctx context.Context, subject string) context.Context
}

// New returns the gate middleware. Requests pass through exactly one
// transition: rejected, or authenticated with the subject attached.
func New(config ...Config) fiber.Handler {
	cfg := configDefault(config...)

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		raw := extractToken(c, cfg.extractors())
		if raw == "" {
			return cfg.ErrorHandler(c, ErrTokenMissing)
		}

		subject, err := cfg.Validate(raw)
		if err != nil {
			return cfg.ErrorHandler(c, ErrTokenInvalid)
		}

		if cfg.ResolveSubject != nil {
			if err := cfg.ResolveSubject(c.UserContext(), subject); err != nil {
				return cfg.ErrorHandler(c, ErrTokenInvalid)
			}
		}

		c.Locals(cfg.ContextKey, subject)

		if cfg.ContextEnricher != nil {
			c.SetUserContext(cfg.ContextEnricher(c.UserContext(), subject))
		}

		return c.Next()
	}
}

func configDefault(config ...Config) Config {
	var cfg Config
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Validate == nil {
		panic("ACCOUNTS: tokenware configuration: Validate is required.")
	}

	if cfg.TokenLookup == "" {
		cfg.TokenLookup = DefaultTokenLookup
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = DefaultContextKey
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = defaultErrorHandler
	}

	return cfg
}

func defaultErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusUnauthorized

	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.Code != 0 {
		status = richErr.Code
		return c.Status(status).JSON(fiber.Map{"msg": richErr.Message})
	}

	return c.Status(status).JSON(fiber.Map{"msg": err.Error()})
}

type extractor func(c *fiber.Ctx) string

func (cfg *Config) extractors() []extractor {
	extractors := make([]extractor, 0)

	for _, rootPart := range strings.Split(cfg.TokenLookup, ",") {
		parts := strings.SplitN(strings.TrimSpace(rootPart), ":", 2)
		if len(parts) != 2 {
			continue
		}

		name := strings.TrimSpace(parts[1])
		switch strings.TrimSpace(parts[0]) {
		case "header":
			extractors = append(extractors, fromHeader(name))
		case "query":
			extractors = append(extractors, fromQuery(name))
		case "cookie":
			extractors = append(extractors, fromCookie(name))
		}
	}

	return extractors
}

func extractToken(c *fiber.Ctx, extractors []extractor) string {
	for _, extract := range extractors {
		if raw := extract(c); raw != "" {
			return raw
		}
	}
	return ""
}

func fromHeader(header string) extractor {
	return func(c *fiber.Ctx) string {
		return strings.TrimSpace(c.Get(header))
	}
}

func fromQuery(param string) extractor {
	return func(c *fiber.Ctx) string {
		return strings.TrimSpace(c.Query(param))
	}
}

func fromCookie(name string) extractor {
	return func(c *fiber.Ctx) string {
		return strings.TrimSpace(c.Cookies(name))
	}
}
