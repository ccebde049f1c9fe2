package accounts

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the stored account record. PasswordHash never serializes; API
// responses use the PublicUser projection.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	DisplayName   string     `bun:"display_name,notnull" json:"display_name,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// PublicUser is the caller-facing projection of a User.
type PublicUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email,omitempty"`
}

// Public returns the projection safe to hand back to API callers.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:          u.ID.String(),
		DisplayName: u.DisplayName,
		Email:       u.Email,
	}
}

// LoginResult couples the issued token with the authenticated user's
// public view.
type LoginResult struct {
	Token string      `json:"token"`
	User  *PublicUser `json:"user"`
}
