package accounts

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-errors"
)

const defaultRepositoryTimeout = 10 * time.Second

// AccountService orchestrates registration, login, identity lookup, and
// deletion by composing the hasher, the token codec, and the repository.
type AccountService struct {
	users       Users
	hasher      PasswordHasher
	tokens      TokenCodec
	logger      Logger
	repoTimeout time.Duration
}

// NewAccountService returns a new AccountService
func NewAccountService(users Users, opts Config) *AccountService {
	tokens := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenTTL(),
		defLogger{},
	)

	timeout := defaultRepositoryTimeout
	if opts.GetRepositoryTimeout() > 0 {
		timeout = time.Duration(opts.GetRepositoryTimeout()) * time.Second
	}

	return &AccountService{
		users:       users,
		hasher:      BcryptHasher{},
		tokens:      tokens,
		logger:      defLogger{},
		repoTimeout: timeout,
	}
}

func (s *AccountService) WithLogger(logger Logger) *AccountService {
	s.logger = logger
	return s
}

// WithHasher sets a custom password hasher.
func (s *AccountService) WithHasher(hasher PasswordHasher) *AccountService {
	s.hasher = hasher
	return s
}

// WithTokenCodec sets a custom token codec.
func (s *AccountService) WithTokenCodec(codec TokenCodec) *AccountService {
	s.tokens = codec
	return s
}

// TokenCodec returns the codec used by this service
func (s *AccountService) TokenCodec() TokenCodec {
	return s.tokens
}

// RegisterRequest is the registration payload
type RegisterRequest struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	PasswordCheck string `json:"passwordCheck"`
	DisplayName   string `json:"displayName"`
}

// Validate will run validation rules
func (r RegisterRequest) Validate() error {
	if r.Email == "" || r.Password == "" || r.PasswordCheck == "" {
		return ErrMissingFields
	}

	err := validation.ValidateStruct(&r,
		validation.Field(&r.Password, validation.Length(5, 0)),
		validation.Field(&r.PasswordCheck, validation.By(ValidateStringEquals(r.Password))),
	)
	if err == nil {
		return nil
	}

	if verrs, ok := err.(validation.Errors); ok {
		if _, found := verrs["password"]; found {
			return ErrPasswordTooShort
		}
		if _, found := verrs["passwordCheck"]; found {
			return ErrPasswordMismatch
		}
	}

	return errors.Wrap(err, errors.CategoryValidation, "invalid registration payload")
}

// LoginRequest is the login payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	if r.Email == "" || r.Password == "" {
		return ErrMissingFields
	}
	return nil
}

// Register validates the payload, enforces email uniqueness, hashes the
// password, and persists the new account. The existence check before the
// insert is racy by itself; the unique column constraint is what actually
// guarantees uniqueness under concurrent registration.
func (s *AccountService) Register(ctx context.Context, req RegisterRequest) (*PublicUser, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := s.boundContext(ctx)
	defer cancel()

	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to check existing account")
	}
	if exists {
		return nil, ErrEmailExists
	}

	displayName := req.DisplayName
	if displayName == "" {
		displayName = req.Email
	}

	hash, err := s.hasher.HashPassword(req.Password)
	if err != nil {
		var richErr *errors.Error
		if errors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to hash password")
	}

	record := &User{
		Email:        req.Email,
		DisplayName:  displayName,
		PasswordHash: hash,
	}

	stored, err := s.users.Create(ctx, record)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create account")
	}

	s.logger.Info("account registered", "user_id", stored.ID.String())

	return stored.Public(), nil
}

// Login verifies the email/password pair and issues a session token bound to
// the account's identifier.
func (s *AccountService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := s.boundContext(ctx)
	defer cancel()

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if IsRecordNotFound(err) {
			return nil, ErrAccountNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to look up account")
	}

	if err := s.hasher.ComparePasswordAndHash(req.Password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrMismatchedHashAndPassword) {
			s.logger.Debug("login password mismatch", "user_id", user.ID.String())
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to verify password")
	}

	token, err := s.tokens.Sign(user.ID.String())
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token: token,
		User:  user.Public(),
	}, nil
}

// CheckToken reports whether a raw token is currently usable: valid
// signature and a subject that still exists. Verification failures are a
// normal false outcome; only infrastructure faults return an error.
func (s *AccountService) CheckToken(ctx context.Context, raw string) (bool, error) {
	if raw == "" {
		return false, nil
	}

	claims, err := s.tokens.Validate(raw)
	if err != nil {
		return false, nil
	}

	ctx, cancel := s.boundContext(ctx)
	defer cancel()

	if _, err := s.users.GetByID(ctx, claims.UserID()); err != nil {
		if IsRecordNotFound(err) {
			return false, nil
		}
		return false, errors.Wrap(err, errors.CategoryInternal, "failed to resolve token subject")
	}

	return true, nil
}

// CurrentUser looks up the account behind an identifier the gate already
// resolved.
func (s *AccountService) CurrentUser(ctx context.Context, userID string) (*PublicUser, error) {
	ctx, cancel := s.boundContext(ctx)
	defer cancel()

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if IsRecordNotFound(err) {
			return nil, ErrTokenInvalid
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to look up account")
	}

	return user.Public(), nil
}

// DeleteAccount removes the account and returns its final public view.
func (s *AccountService) DeleteAccount(ctx context.Context, userID string) (*PublicUser, error) {
	ctx, cancel := s.boundContext(ctx)
	defer cancel()

	deleted, err := s.users.DeleteByID(ctx, userID)
	if err != nil {
		if IsRecordNotFound(err) {
			return nil, ErrTokenInvalid
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to delete account")
	}

	s.logger.Info("account deleted", "user_id", userID)

	return deleted.Public(), nil
}

func (s *AccountService) boundContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.repoTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.repoTimeout)
}

var _ Accounts = (*AccountService)(nil)
