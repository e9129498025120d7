package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/database"
	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/models"
)

// IdentityRepositoryInterface defines the storage the local identity provider runs on.
type IdentityRepositoryInterface interface {
	FindByEmail(ctx context.Context, email string) (*models.Identity, error)
	FindByID(ctx context.Context, id string) (*models.Identity, error)
	// CreateWithProfile inserts the identity and its profile in one transaction.
	CreateWithProfile(ctx context.Context, identity *models.Identity, profile *models.Profile) error
	UpdatePasswordHash(ctx context.Context, id, hash string) error
	// DeleteCascade removes the identity together with its profile and the profile's requests.
	DeleteCascade(ctx context.Context, id string) error
}

// IdentityRepository implements IdentityRepositoryInterface over SQL.
type IdentityRepository struct {
	db *sql.DB
}

// NewIdentityRepository creates an IdentityRepository.
func NewIdentityRepository(db *sql.DB) *IdentityRepository {
	return &IdentityRepository{db: db}
}

const identityColumns = `id, email, password_hash, created_at, updated_at`

func scanIdentity(row rowScanner) (*models.Identity, error) {
	ident := &models.Identity{}
	err := row.Scan(&ident.ID, &ident.Email, &ident.PasswordHash, &ident.CreatedAt, &ident.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return ident, nil
}

// FindByEmail looks an identity up by its login key.
func (r *IdentityRepository) FindByEmail(ctx context.Context, email string) (*models.Identity, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+identityColumns+` FROM identities WHERE email = ?`, email)
	ident, err := scanIdentity(row)
	if err != nil {
		return nil, fmt.Errorf("find identity by email: %w", err)
	}
	return ident, nil
}

// FindByID looks an identity up by id.
func (r *IdentityRepository) FindByID(ctx context.Context, id string) (*models.Identity, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+identityColumns+` FROM identities WHERE id = ?`, id)
	ident, err := scanIdentity(row)
	if err != nil {
		return nil, fmt.Errorf("find identity by id: %w", err)
	}
	return ident, nil
}

// CreateWithProfile writes both records atomically, so a profile is visible
// as soon as the identity is.
func (r *IdentityRepository) CreateWithProfile(ctx context.Context, identity *models.Identity, profile *models.Profile) error {
	if !profile.Role.Valid() {
		return fmt.Errorf("create identity with profile: unknown role %q", profile.Role)
	}
	salaries, err := encodeSalaries(profile.Salaries)
	if err != nil {
		return err
	}

	err = database.InTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO identities (id, email, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
			identity.ID, identity.Email, identity.PasswordHash, identity.CreatedAt, identity.UpdatedAt)
		if err != nil {
			return translate(err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO profiles (id, username, name, email, role, salaries, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			profile.ID, profile.Username, profile.Name, profile.Email, string(profile.Role), salaries,
			profile.CreatedAt, profile.UpdatedAt)
		return translate(err)
	})
	if err != nil {
		return fmt.Errorf("create identity with profile: %w", err)
	}
	return nil
}

// UpdatePasswordHash replaces the stored hash.
func (r *IdentityRepository) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE identities SET password_hash = ?, updated_at = ? WHERE id = ?`, hash, now(), id)
	if err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}
	if err := expectOneRow(res); err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}
	return nil
}

// DeleteCascade deletes children explicitly instead of relying on foreign key
// enforcement, which SQLite only honours when enabled per connection.
func (r *IdentityRepository) DeleteCascade(ctx context.Context, id string) error {
	err := database.InTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, q := range []string{
			`DELETE FROM leave_requests WHERE user_id = ?`,
			`DELETE FROM advance_requests WHERE user_id = ?`,
			`DELETE FROM profiles WHERE id = ?`,
		} {
			if _, err := tx.ExecContext(ctx, q, id); err != nil {
				return err
			}
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM identities WHERE id = ?`, id)
		if err != nil {
			return err
		}
		return expectOneRow(res)
	})
	if err != nil {
		return fmt.Errorf("delete identity %s: %w", id, err)
	}
	return nil
}
