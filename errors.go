package accounts

import "github.com/goliatone/go-errors"

const (
	TextCodeMissingFields      = "accounts_missing_fields"
	TextCodePasswordTooShort   = "accounts_password_too_short"
	TextCodePasswordMismatch   = "accounts_password_mismatch"
	TextCodeEmailExists        = "accounts_email_exists"
	TextCodeAccountNotFound    = "accounts_not_found"
	TextCodeInvalidCredentials = "accounts_invalid_credentials"
	TextCodeTokenMissing       = "accounts_token_missing"
	TextCodeTokenInvalid       = "accounts_token_invalid"
	TextCodeTokenExpired       = "accounts_token_expired"
)

// ErrMissingFields is returned when a required field is absent from a payload.
var ErrMissingFields = errors.New("not all fields have been entered", errors.CategoryValidation).
	WithTextCode(TextCodeMissingFields).
	WithCode(errors.CodeBadRequest)

// ErrPasswordTooShort is returned when the password fails the length policy.
var ErrPasswordTooShort = errors.New("the password needs to be at least 5 characters long", errors.CategoryValidation).
	WithTextCode(TextCodePasswordTooShort).
	WithCode(errors.CodeBadRequest)

// ErrPasswordMismatch is returned when the confirmation does not match the password.
var ErrPasswordMismatch = errors.New("enter the same password twice for verification", errors.CategoryValidation).
	WithTextCode(TextCodePasswordMismatch).
	WithCode(errors.CodeBadRequest)

// ErrEmailExists is returned when registering an email that is already taken.
var ErrEmailExists = errors.New("an account with this email already exists", errors.CategoryConflict).
	WithTextCode(TextCodeEmailExists).
	WithCode(errors.CodeConflict)

// ErrAccountNotFound is returned when no account matches the given email.
var ErrAccountNotFound = errors.New("no account with this email has been registered", errors.CategoryNotFound).
	WithTextCode(TextCodeAccountNotFound).
	WithCode(errors.CodeNotFound)

// ErrInvalidCredentials is returned on a password mismatch at login.
var ErrInvalidCredentials = errors.New("invalid credentials", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMissing is returned when a request carries no auth token.
var ErrTokenMissing = errors.New("missing auth token", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMissing).
	WithCode(errors.CodeUnauthorized)

// ErrTokenInvalid covers bad signatures, malformed tokens, and unknown
// subjects. Unknown subjects deliberately share this message so the API does
// not leak which identifiers exist.
var ErrTokenInvalid = errors.New("invalid auth token", errors.CategoryAuth).
	WithTextCode(TextCodeTokenInvalid).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned when the token's exp claim is in the past.
var ErrTokenExpired = errors.New("auth token expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString is returned when asked to hash an empty password.
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithCode(errors.CodeBadRequest)

// ErrMismatchedHashAndPassword mirrors the bcrypt mismatch as a normal,
// non-exceptional outcome.
var ErrMismatchedHashAndPassword = errors.New("hashedPassword is not the hash of the given password", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)
