// Package identity owns credentials: password verification, session token
// issuance and verification, and the lifecycle of identity records.
package identity

import (
	"context"
	"errors"

	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/models"
)

// MinPasswordLength is the shortest password the provider accepts.
const MinPasswordLength = 6

var (
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrWeakPassword       = errors.New("password too short")
	ErrNotFound           = errors.New("identity not found")
)

// Session is what a successful sign-in hands back to the client.
type Session struct {
	AccessToken string
	UserID      string
}

// NewIdentity describes an identity to create together with its profile.
type NewIdentity struct {
	Email    string
	Password string
	Username string
	Name     string
	Role     models.Role
}

// Provider is the contract the rest of the service relies on. The local
// implementation stores identities next to profiles; a hosted provider can
// replace it as long as CreateIdentity keeps identity and profile creation atomic.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
	// Verify returns the identity id carried by a valid access token.
	Verify(ctx context.Context, token string) (string, error)
	CreateIdentity(ctx context.Context, in NewIdentity) (*models.Profile, error)
	UpdatePassword(ctx context.Context, id, password string) error
	// DeleteIdentity removes the identity and cascades to its profile.
	DeleteIdentity(ctx context.Context, id string) error
}
