package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/models"
)

// AdvanceRepositoryInterface defines methods for advance request storage
type AdvanceRepositoryInterface interface {
	Create(ctx context.Context, req *models.AdvanceRequest) error
	FindByID(ctx context.Context, id int64) (*models.AdvanceRequest, error)
	List(ctx context.Context, ownerID string) ([]models.AdvanceRequest, error)
	UpdateStatus(ctx context.Context, id int64, status models.Status) (*models.AdvanceRequest, error)
	UpdateDetails(ctx context.Context, id int64, amount float64, reason string) (*models.AdvanceRequest, error)
	Delete(ctx context.Context, id int64) error
}

// AdvanceRepository implements AdvanceRepositoryInterface
type AdvanceRepository struct {
	db *sql.DB
}

// NewAdvanceRepository creates an AdvanceRepository
func NewAdvanceRepository(db *sql.DB) *AdvanceRepository {
	return &AdvanceRepository{db: db}
}

const advanceColumns = `id, user_id, user_name, amount, reason, status, submitted_at`

func scanAdvance(row rowScanner) (*models.AdvanceRequest, error) {
	var (
		r      models.AdvanceRequest
		status string
	)
	if err := row.Scan(&r.ID, &r.UserID, &r.UserName, &r.Amount, &r.Reason, &status, &r.SubmittedAt); err != nil {
		return nil, translate(err)
	}
	r.Status = models.Status(status)
	return &r, nil
}

// Create inserts req, assigning its ID and submission time
func (r *AdvanceRepository) Create(ctx context.Context, req *models.AdvanceRequest) error {
	req.SubmittedAt = now()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO advance_requests (user_id, user_name, amount, reason, status, submitted_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		req.UserID, req.UserName, req.Amount, req.Reason, string(req.Status), req.SubmittedAt)
	if err != nil {
		return fmt.Errorf("insert advance request: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("advance request id: %w", err)
	}
	req.ID = id
	return nil
}

// FindByID finds an advance request by id
func (r *AdvanceRepository) FindByID(ctx context.Context, id int64) (*models.AdvanceRequest, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+advanceColumns+` FROM advance_requests WHERE id = ?`, id)
	req, err := scanAdvance(row)
	if err != nil {
		return nil, fmt.Errorf("find advance request %d: %w", id, err)
	}
	return req, nil
}

// List returns advance requests newest first; an empty ownerID lists every owner
func (r *AdvanceRepository) List(ctx context.Context, ownerID string) ([]models.AdvanceRequest, error) {
	query := `SELECT ` + advanceColumns + ` FROM advance_requests`
	var args []any
	if ownerID != "" {
		query += ` WHERE user_id = ?`
		args = append(args, ownerID)
	}
	query += ` ORDER BY submitted_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list advance requests: %w", err)
	}
	defer rows.Close()

	requests := []models.AdvanceRequest{}
	for rows.Next() {
		req, err := scanAdvance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan advance request: %w", err)
		}
		requests = append(requests, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate advance requests: %w", err)
	}
	return requests, nil
}

// UpdateStatus sets a new status
func (r *AdvanceRepository) UpdateStatus(ctx context.Context, id int64, status models.Status) (*models.AdvanceRequest, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE advance_requests SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return nil, fmt.Errorf("update advance status %d: %w", id, err)
	}
	if err := expectOneRow(res); err != nil {
		return nil, fmt.Errorf("update advance status %d: %w", id, err)
	}
	return r.FindByID(ctx, id)
}

// UpdateDetails replaces amount and reason
func (r *AdvanceRepository) UpdateDetails(ctx context.Context, id int64, amount float64, reason string) (*models.AdvanceRequest, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE advance_requests SET amount = ?, reason = ? WHERE id = ?`, amount, reason, id)
	if err != nil {
		return nil, fmt.Errorf("update advance request %d: %w", id, err)
	}
	if err := expectOneRow(res); err != nil {
		return nil, fmt.Errorf("update advance request %d: %w", id, err)
	}
	return r.FindByID(ctx, id)
}

// Delete removes an advance request
func (r *AdvanceRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM advance_requests WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete advance request %d: %w", id, err)
	}
	if err := expectOneRow(res); err != nil {
		return fmt.Errorf("delete advance request %d: %w", id, err)
	}
	return nil
}
