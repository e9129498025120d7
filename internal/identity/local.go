package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/models"
	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/repositories"
)

// Claims carried by an access token.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Local is a Provider backed by the application database: bcrypt hashes and HS256 tokens.
type Local struct {
	repo   repositories.IdentityRepositoryInterface
	secret []byte
	ttl    time.Duration
	cost   int
	now    func() time.Time
}

// Option customizes a Local provider.
type Option func(*Local)

// WithBcryptCost overrides the hashing cost (tests use bcrypt.MinCost).
func WithBcryptCost(cost int) Option {
	return func(l *Local) { l.cost = cost }
}

// WithClock overrides the time source used for token timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Local) { l.now = now }
}

// NewLocal creates a Local provider.
func NewLocal(repo repositories.IdentityRepositoryInterface, secret string, ttl time.Duration, opts ...Option) *Local {
	l := &Local{
		repo:   repo,
		secret: []byte(secret),
		ttl:    ttl,
		cost:   bcrypt.DefaultCost,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// SignIn checks the password against the stored hash and issues an access token.
// Unknown email and wrong password produce the same error.
func (l *Local) SignIn(ctx context.Context, email, password string) (*Session, error) {
	ident, err := l.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(ident.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := l.issue(ident)
	if err != nil {
		return nil, err
	}
	return &Session{AccessToken: token, UserID: ident.ID}, nil
}

func (l *Local) issue(ident *models.Identity) (string, error) {
	issuedAt := l.now()
	claims := Claims{
		Email: ident.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   ident.ID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(l.ttl)),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(l.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates an access token.
func (l *Local) Verify(ctx context.Context, token string) (string, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return l.secret, nil
	}, jwt.WithTimeFunc(l.now), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}

	// A token outlives neither its identity nor a deleted account.
	if _, err := l.repo.FindByID(ctx, claims.Subject); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", ErrInvalidToken
		}
		return "", err
	}
	return claims.Subject, nil
}

// CreateIdentity hashes the password and stores identity and profile in one transaction.
func (l *Local) CreateIdentity(ctx context.Context, in NewIdentity) (*models.Profile, error) {
	if len(in.Password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}
	hash, err := l.hash(in.Password)
	if err != nil {
		return nil, err
	}

	ts := l.now().UTC().Truncate(time.Microsecond)
	id := uuid.NewString()
	email := normalizeEmail(in.Email)
	ident := &models.Identity{ID: id, Email: email, PasswordHash: hash, CreatedAt: ts, UpdatedAt: ts}
	profile := &models.Profile{
		ID:        id,
		Username:  in.Username,
		Name:      in.Name,
		Email:     email,
		Role:      in.Role,
		Salaries:  models.Salaries{},
		CreatedAt: ts,
		UpdatedAt: ts,
	}

	if err := l.repo.CreateWithProfile(ctx, ident, profile); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return nil, l.conflictCause(ctx, email)
		}
		return nil, err
	}
	return profile, nil
}

// conflictCause tells a duplicate email from a duplicate username after a unique key fired.
func (l *Local) conflictCause(ctx context.Context, email string) error {
	_, err := l.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return ErrEmailTaken
	case errors.Is(err, repositories.ErrNotFound):
		return ErrUsernameTaken
	default:
		return err
	}
}

// UpdatePassword replaces the password of an identity.
func (l *Local) UpdatePassword(ctx context.Context, id, password string) error {
	if len(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	hash, err := l.hash(password)
	if err != nil {
		return err
	}
	if err := l.repo.UpdatePasswordHash(ctx, id, hash); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// DeleteIdentity removes the identity, its profile and the profile's requests.
func (l *Local) DeleteIdentity(ctx context.Context, id string) error {
	if err := l.repo.DeleteCascade(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (l *Local) hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), l.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
