package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/database"
	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/models"
)

// now is the clock for server-assigned timestamps. Microsecond precision matches DATETIME(6).
var now = func() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// ProfileRepositoryInterface defines the methods of the profile repository
type ProfileRepositoryInterface interface {
	FindByID(ctx context.Context, id string) (*models.Profile, error)
	FindByUsername(ctx context.Context, username string) (*models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	ListByRole(ctx context.Context, role models.Role) ([]models.Profile, error)
	// UsernameTaken reports whether another profile (not excludeID) uses the username.
	UsernameTaken(ctx context.Context, username, excludeID string) (bool, error)
	Update(ctx context.Context, id string, update *models.ProfileUpdateDTO) (*models.Profile, error)
	// SetSalary upserts one month of the salary ledger and returns the full ledger.
	SetSalary(ctx context.Context, id, month string, amount float64) (models.Salaries, error)
}

// ProfileRepository implements ProfileRepositoryInterface
type ProfileRepository struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewProfileRepository creates a ProfileRepository
func NewProfileRepository(db *sql.DB, dialect database.Dialect) *ProfileRepository {
	return &ProfileRepository{db: db, dialect: dialect}
}

const profileColumns = `id, username, name, email, role, salaries, created_at, updated_at`

func scanProfile(row rowScanner) (*models.Profile, error) {
	p := &models.Profile{}
	var (
		role     string
		salaries sql.NullString
	)
	err := row.Scan(&p.ID, &p.Username, &p.Name, &p.Email, &role, &salaries, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	p.Role = models.Role(role)
	if !p.Role.Valid() {
		return nil, fmt.Errorf("profile %s: unknown role %q", p.ID, role)
	}
	if p.Salaries, err = decodeSalaries(salaries.String); err != nil {
		return nil, fmt.Errorf("profile %s: %w", p.ID, err)
	}
	return p, nil
}

func encodeSalaries(s models.Salaries) (string, error) {
	if s == nil {
		return "{}", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encode salaries: %w", err)
	}
	return string(b), nil
}

func decodeSalaries(raw string) (models.Salaries, error) {
	s := models.Salaries{}
	if strings.TrimSpace(raw) == "" {
		return s, nil
	}
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("decode salaries: %w", err)
	}
	return s, nil
}

// FindByID finds a profile by identity id
func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*models.Profile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = ?`, id)
	p, err := scanProfile(row)
	if err != nil {
		return nil, fmt.Errorf("find profile by id: %w", err)
	}
	return p, nil
}

// FindByUsername finds a profile by its unique username
func (r *ProfileRepository) FindByUsername(ctx context.Context, username string) (*models.Profile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE username = ?`, username)
	p, err := scanProfile(row)
	if err != nil {
		return nil, fmt.Errorf("find profile by username: %w", err)
	}
	return p, nil
}

// List returns every profile ordered by username
func (r *ProfileRepository) List(ctx context.Context) ([]models.Profile, error) {
	return r.query(ctx, `SELECT `+profileColumns+` FROM profiles ORDER BY username ASC`)
}

// ListByRole returns the profiles holding the given role ordered by username
func (r *ProfileRepository) ListByRole(ctx context.Context, role models.Role) ([]models.Profile, error) {
	return r.query(ctx, `SELECT `+profileColumns+` FROM profiles WHERE role = ? ORDER BY username ASC`, string(role))
}

func (r *ProfileRepository) query(ctx context.Context, query string, args ...any) ([]models.Profile, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	profiles := []models.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}
	return profiles, nil
}

// UsernameTaken checks uniqueness of a username, ignoring the profile excludeID
func (r *ProfileRepository) UsernameTaken(ctx context.Context, username, excludeID string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM profiles WHERE username = ? AND id <> ?`, username, excludeID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return n > 0, nil
}

// Update applies the non-nil fields of update and returns the stored profile
func (r *ProfileRepository) Update(ctx context.Context, id string, update *models.ProfileUpdateDTO) (*models.Profile, error) {
	sets := []string{"updated_at = ?"}
	args := []any{now()}
	if update.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *update.Name)
	}
	if update.Username != nil {
		sets = append(sets, "username = ?")
		args = append(args, *update.Username)
	}
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, `UPDATE profiles SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", translate(err))
	}
	if err := expectOneRow(res); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return r.FindByID(ctx, id)
}

// SetSalary does a read-modify-write of the embedded ledger inside one transaction.
func (r *ProfileRepository) SetSalary(ctx context.Context, id, month string, amount float64) (models.Salaries, error) {
	var ledger models.Salaries
	err := database.InTx(ctx, r.db, func(tx *sql.Tx) error {
		var raw sql.NullString
		err := tx.QueryRowContext(ctx,
			`SELECT salaries FROM profiles WHERE id = ?`+r.dialect.LockClause(), id).Scan(&raw)
		if err != nil {
			return translate(err)
		}
		if ledger, err = decodeSalaries(raw.String); err != nil {
			return err
		}
		ledger[month] = amount

		encoded, err := encodeSalaries(ledger)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE profiles SET salaries = ?, updated_at = ? WHERE id = ?`, encoded, now(), id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("set salary for %s: %w", id, err)
	}
	return ledger, nil
}
