package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/models"
)

// LeaveRepositoryInterface defines methods for leave request storage
type LeaveRepositoryInterface interface {
	Create(ctx context.Context, req *models.LeaveRequest) error
	FindByID(ctx context.Context, id int64) (*models.LeaveRequest, error)
	// List returns requests newest first; an empty ownerID lists every owner.
	List(ctx context.Context, ownerID string) ([]models.LeaveRequest, error)
	// Update persists the editable fields of req (dates, periods, type, reason).
	Update(ctx context.Context, req *models.LeaveRequest) error
	// UpdateStatus sets the status and always clears can_edit.
	UpdateStatus(ctx context.Context, id int64, status models.Status) (*models.LeaveRequest, error)
	Delete(ctx context.Context, id int64) error
}

// LeaveRepository implements LeaveRepositoryInterface
type LeaveRepository struct {
	db *sql.DB
}

// NewLeaveRepository creates a LeaveRepository
func NewLeaveRepository(db *sql.DB) *LeaveRepository {
	return &LeaveRepository{db: db}
}

const leaveColumns = `id, user_id, user_name, date, time_period, start_date, end_date,
	start_time_period, end_time_period, type, reason, status, can_edit, created_by_manager, submitted_at`

func scanLeave(row rowScanner) (*models.LeaveRequest, error) {
	var (
		r                                 models.LeaveRequest
		date, timePeriod, start, end      sql.NullString
		startPeriod, endPeriod, leaveType sql.NullString
		status                            string
	)
	err := row.Scan(&r.ID, &r.UserID, &r.UserName, &date, &timePeriod, &start, &end,
		&startPeriod, &endPeriod, &leaveType, &r.Reason, &status, &r.CanEdit, &r.CreatedByManager, &r.SubmittedAt)
	if err != nil {
		return nil, translate(err)
	}
	r.Date = nullableString(date)
	r.TimePeriod = nullableString(timePeriod)
	r.StartDate = nullableString(start)
	r.EndDate = nullableString(end)
	r.StartTimePeriod = nullableString(startPeriod)
	r.EndTimePeriod = nullableString(endPeriod)
	r.Type = nullableString(leaveType)
	r.Status = models.Status(status)
	return &r, nil
}

// Create inserts req, assigning its ID and submission time
func (r *LeaveRepository) Create(ctx context.Context, req *models.LeaveRequest) error {
	req.SubmittedAt = now()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO leave_requests (user_id, user_name, date, time_period, start_date, end_date,
			start_time_period, end_time_period, type, reason, status, can_edit, created_by_manager, submitted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		req.UserID, req.UserName, req.Date, req.TimePeriod, req.StartDate, req.EndDate,
		req.StartTimePeriod, req.EndTimePeriod, req.Type, req.Reason, string(req.Status),
		req.CanEdit, req.CreatedByManager, req.SubmittedAt)
	if err != nil {
		return fmt.Errorf("insert leave request: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("leave request id: %w", err)
	}
	req.ID = id
	return nil
}

// FindByID finds a leave request by id
func (r *LeaveRepository) FindByID(ctx context.Context, id int64) (*models.LeaveRequest, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+leaveColumns+` FROM leave_requests WHERE id = ?`, id)
	req, err := scanLeave(row)
	if err != nil {
		return nil, fmt.Errorf("find leave request %d: %w", id, err)
	}
	return req, nil
}

// List returns leave requests ordered newest first
func (r *LeaveRepository) List(ctx context.Context, ownerID string) ([]models.LeaveRequest, error) {
	query := `SELECT ` + leaveColumns + ` FROM leave_requests`
	var args []any
	if ownerID != "" {
		query += ` WHERE user_id = ?`
		args = append(args, ownerID)
	}
	query += ` ORDER BY submitted_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list leave requests: %w", err)
	}
	defer rows.Close()

	requests := []models.LeaveRequest{}
	for rows.Next() {
		req, err := scanLeave(rows)
		if err != nil {
			return nil, fmt.Errorf("scan leave request: %w", err)
		}
		requests = append(requests, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leave requests: %w", err)
	}
	return requests, nil
}

// Update writes the editable columns of req
func (r *LeaveRepository) Update(ctx context.Context, req *models.LeaveRequest) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE leave_requests SET date = ?, time_period = ?, start_date = ?, end_date = ?,
			start_time_period = ?, end_time_period = ?, type = ?, reason = ?
		 WHERE id = ?`,
		req.Date, req.TimePeriod, req.StartDate, req.EndDate,
		req.StartTimePeriod, req.EndTimePeriod, req.Type, req.Reason, req.ID)
	if err != nil {
		return fmt.Errorf("update leave request %d: %w", req.ID, err)
	}
	if err := expectOneRow(res); err != nil {
		return fmt.Errorf("update leave request %d: %w", req.ID, err)
	}
	return nil
}

// UpdateStatus sets a new status and locks the request against owner edits
func (r *LeaveRepository) UpdateStatus(ctx context.Context, id int64, status models.Status) (*models.LeaveRequest, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE leave_requests SET status = ?, can_edit = ? WHERE id = ?`, string(status), false, id)
	if err != nil {
		return nil, fmt.Errorf("update leave status %d: %w", id, err)
	}
	if err := expectOneRow(res); err != nil {
		return nil, fmt.Errorf("update leave status %d: %w", id, err)
	}
	return r.FindByID(ctx, id)
}

// Delete removes a leave request
func (r *LeaveRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM leave_requests WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete leave request %d: %w", id, err)
	}
	if err := expectOneRow(res); err != nil {
		return fmt.Errorf("delete leave request %d: %w", id, err)
	}
	return nil
}
