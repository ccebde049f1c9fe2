package accounts

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// TokenService implements the TokenCodec interface using HS256 signed JWTs.
// The signing key is injected at construction and read-only afterwards.
type TokenService struct {
	signingKey []byte
	tokenTTL   int
	logger     Logger
}

// NewTokenService creates a new TokenService. tokenTTL is expressed in hours;
// a TTL of zero issues tokens without an exp claim.
func NewTokenService(signingKey []byte, tokenTTL int, logger Logger) *TokenService {
	if logger == nil {
		logger = defLogger{}
	}
	return &TokenService{
		signingKey: signingKey,
		tokenTTL:   tokenTTL,
		logger:     logger,
	}
}

// Sign issues a token whose subject is the given user identifier.
func (ts *TokenService) Sign(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("subject must not be empty", errors.CategoryInternal)
	}

	now := time.Now()
	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  userID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}

	if ts.tokenTTL > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(time.Duration(ts.tokenTTL) * time.Hour))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign token")
	}

	return signed, nil
}

// Validate parses and verifies a raw token, returning its claims. Any
// signature, framing, or algorithm problem comes back as an auth-category
// error; callers never see partial claims.
func (ts *TokenService) Validate(raw string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(raw, &SessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("token validate encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, errors.Wrap(err, ErrTokenInvalid.Category, ErrTokenInvalid.Message).
			WithTextCode(ErrTokenInvalid.TextCode)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		ts.logger.Error("token validate could not decode claims")
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

var _ TokenCodec = (*TokenService)(nil)
