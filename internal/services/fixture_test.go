package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/database"
	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/identity"
	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/models"
	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/repositories"
	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/testutil"
)

const testDomain = "company.com"

type fixture struct {
	db       *sql.DB
	provider *identity.Local
	auth     *AuthService
	users    *UserService
	leaves   *LeaveService
	advances *AdvanceService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	profiles := repositories.NewProfileRepository(db, database.SQLite)
	provider := identity.NewLocal(repositories.NewIdentityRepository(db), "test-secret", time.Hour,
		identity.WithBcryptCost(bcrypt.MinCost))

	return &fixture{
		db:       db,
		provider: provider,
		auth:     NewAuthService(provider, profiles, testDomain),
		users: NewUserService(provider, profiles, UserServiceConfig{
			EmailDomain:     testDomain,
			DefaultPassword: "123456",
		}),
		leaves:   NewLeaveService(repositories.NewLeaveRepository(db), profiles),
		advances: NewAdvanceService(repositories.NewAdvanceRepository(db), profiles),
	}
}

// addUser creates an account with password "secret1" and returns it as a caller.
func (f *fixture) addUser(t *testing.T, username string, role models.Role) *models.Caller {
	t.Helper()
	p, err := f.provider.CreateIdentity(context.Background(), identity.NewIdentity{
		Email:    SynthesizeEmail(username, testDomain),
		Password: "secret1",
		Username: username,
		Name:     "Name " + username,
		Role:     role,
	})
	require.NoError(t, err)
	return models.CallerFromProfile(p)
}

func (f *fixture) count(t *testing.T, table string) int {
	t.Helper()
	var n int
	require.NoError(t, f.db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

// requireCode asserts err is a service error with the given kind and code.
func requireCode(t *testing.T, err error, kind Kind, code Code) {
	t.Helper()
	require.Error(t, err)
	var se *Error
	require.True(t, errors.As(err, &se), "expected *services.Error, got %T: %v", err, err)
	require.Equal(t, kind, se.Kind, "kind of %v", err)
	require.Equal(t, code, se.Code, "code of %v", err)
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }
