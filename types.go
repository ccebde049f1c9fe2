package accounts

import (
	"context"
	"fmt"
	"strings"
)

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// TokenCodec issues and verifies stateless session tokens bound to a
// user identifier.
type TokenCodec interface {
	Sign(userID string) (string, error)
	Validate(raw string) (*SessionClaims, error)
}

// PasswordHasher authenticates passwords
type PasswordHasher interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

// Config holds account service options
type Config interface {
	GetSigningKey() string
	GetTokenTTL() int
	GetTokenLookup() string
	GetRepositoryTimeout() int
}

// Accounts holds the operations exposed over the HTTP surface
type Accounts interface {
	Register(ctx context.Context, req RegisterRequest) (*PublicUser, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	CheckToken(ctx context.Context, raw string) (bool, error)
	CurrentUser(ctx context.Context, userID string) (*PublicUser, error)
	DeleteAccount(ctx context.Context, userID string) (*PublicUser, error)
}

// defLogger is the fallback used when no Logger is injected. Call sites pass
// slog-style key/value pairs, so it renders them as key=value.
type defLogger struct{}

func (d defLogger) Error(msg string, args ...any) {
	fmt.Println(logLine("ERR", msg, args...))
}

func (d defLogger) Warn(msg string, args ...any) {
	fmt.Println(logLine("WRN", msg, args...))
}

func (d defLogger) Info(msg string, args ...any) {
	fmt.Println(logLine("INF", msg, args...))
}

func (d defLogger) Debug(msg string, args ...any) {
	fmt.Println(logLine("DBG", msg, args...))
}

func logLine(level, msg string, args ...any) string {
	var b strings.Builder
	b.WriteString("[" + level + "] ACCOUNTS " + msg)
	for i := 0; i < len(args); i += 2 {
		if i+1 < len(args) {
			fmt.Fprintf(&b, " %v=%v", args[i], args[i+1])
		} else {
			fmt.Fprintf(&b, " %v", args[i])
		}
	}
	return b.String()
}
