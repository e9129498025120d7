package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/identity"
	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/models"
	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/repositories"
)

// AuthService handles login, request authentication and self-service password changes
type AuthService struct {
	provider    identity.Provider
	profiles    repositories.ProfileRepositoryInterface
	emailDomain string
}

// NewAuthService creates an AuthService
func NewAuthService(provider identity.Provider, profiles repositories.ProfileRepositoryInterface, emailDomain string) *AuthService {
	return &AuthService{provider: provider, profiles: profiles, emailDomain: emailDomain}
}

var errInvalidLogin = newError(KindUnauthorized, CodeInvalidLogin, "invalid username or password")

// LoginKey returns the identity provider's login key for a profile: its
// email, or <username>@<domain> when the profile has none.
func LoginKey(p *models.Profile, domain string) string {
	if strings.TrimSpace(p.Email) != "" {
		return p.Email
	}
	return SynthesizeEmail(p.Username, domain)
}

// SynthesizeEmail builds the placeholder address used for accounts created without an email.
func SynthesizeEmail(username, domain string) string {
	return username + "@" + domain
}

// Login resolves the username, delegates the password check to the provider and
// returns a session token. Every failure looks the same to the caller.
func (s *AuthService) Login(ctx context.Context, in models.LoginInput) (*models.LoginResult, error) {
	if in.Username == "" || in.Password == "" {
		return nil, errInvalidLogin
	}

	profile, err := s.profiles.FindByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, errInvalidLogin
		}
		return nil, internal("login: find profile", err)
	}

	session, err := s.provider.SignIn(ctx, LoginKey(profile, s.emailDomain), in.Password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			slog.Info("login rejected", "username", in.Username)
			return nil, errInvalidLogin
		}
		return nil, internal("login: sign in", err)
	}

	return &models.LoginResult{Token: session.AccessToken, User: profile}, nil
}

// Authenticate verifies a bearer token and resolves the caller's profile.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.Caller, error) {
	if token == "" {
		return nil, newError(KindUnauthorized, CodeCredentialRequired, "access token required")
	}

	id, err := s.provider.Verify(ctx, token)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidToken) {
			return nil, forbidden(CodeInvalidCredential, "invalid or expired token")
		}
		slog.Error("token verification failed", "error", err)
		return nil, forbidden(CodeAuthFailed, "authentication failed")
	}

	profile, err := s.profiles.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound(CodeProfileNotFound, "profile not found")
		}
		slog.Error("profile lookup during authentication failed", "user_id", id, "error", err)
		return nil, forbidden(CodeAuthFailed, "authentication failed")
	}
	return models.CallerFromProfile(profile), nil
}

// Me returns the caller's stored profile.
func (s *AuthService) Me(ctx context.Context, caller *models.Caller) (*models.Profile, error) {
	profile, err := s.profiles.FindByID(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound(CodeProfileNotFound, "user not found")
		}
		return nil, internal("me", err)
	}
	return profile, nil
}

// ChangePassword re-verifies the current password with a sign-in before
// accepting the new one.
func (s *AuthService) ChangePassword(ctx context.Context, caller *models.Caller, in models.ChangePasswordInput) error {
	if in.CurrentPassword == "" || in.NewPassword == "" {
		return invalid(CodeMissingRequiredData, "current password and new password are required")
	}
	if len(in.NewPassword) < identity.MinPasswordLength {
		return invalid(CodeWeakPassword, "new password must be at least 6 characters")
	}

	profile, err := s.profiles.FindByID(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound(CodeProfileNotFound, "user not found")
		}
		return internal("change password: find profile", err)
	}

	if _, err := s.provider.SignIn(ctx, LoginKey(profile, s.emailDomain), in.CurrentPassword); err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			return invalid(CodeWrongPassword, "current password is incorrect")
		}
		return internal("change password: verify", err)
	}

	if err := s.provider.UpdatePassword(ctx, caller.ID, in.NewPassword); err != nil {
		return internal("change password: update", err)
	}
	slog.Info("password changed", "user_id", caller.ID)
	return nil
}
