package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/models"
	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/repositories"
)

const (
	// DefaultTimePeriod is stored when a leave request names no part of the day.
	DefaultTimePeriod = "full-day"
	// DefaultLeaveType is stored for range-shaped requests without a type.
	DefaultLeaveType = "leave"
)

const dateLayout = "2006-01-02"

// LeaveService implements the leave request workflow
type LeaveService struct {
	leaves   repositories.LeaveRepositoryInterface
	profiles repositories.ProfileRepositoryInterface
}

// NewLeaveService creates a LeaveService
func NewLeaveService(leaves repositories.LeaveRepositoryInterface, profiles repositories.ProfileRepositoryInterface) *LeaveService {
	return &LeaveService{leaves: leaves, profiles: profiles}
}

// ValidDate reports whether s is a "YYYY-MM-DD" calendar date.
func ValidDate(s string) bool {
	if len(s) != len(dateLayout) {
		return false
	}
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

func checkDate(field string, value *string) error {
	if value == nil {
		return nil
	}
	if !ValidDate(*value) {
		return invalid(CodeInvalidDate, fmt.Sprintf("%s must have the form YYYY-MM-DD", field))
	}
	return nil
}

func orDefault(value *string, def string) *string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return &def
	}
	return value
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

// resolveOwner picks the profile a new request is filed for. Only a manager
// may file for someone else, and the target must be an employee.
func (s *LeaveService) resolveOwner(ctx context.Context, caller *models.Caller, userID string) (id, name string, onBehalf bool, err error) {
	if !caller.IsManager() || userID == "" {
		return caller.ID, caller.Name, false, nil
	}
	target, err := s.profiles.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", "", false, invalid(CodeEmployeeNotFound, "employee not found")
		}
		return "", "", false, internal("create leave request: find employee", err)
	}
	if target.Role != models.RoleEmployee {
		return "", "", false, invalid(CodeEmployeeNotFound, "employee not found")
	}
	return target.ID, target.Name, true, nil
}

// Create files a leave request. A present date selects the single-day shape,
// otherwise start and end date are mandatory.
func (s *LeaveService) Create(ctx context.Context, caller *models.Caller, in models.LeaveRequestInput) (*models.LeaveRequest, error) {
	req := &models.LeaveRequest{Reason: strings.TrimSpace(derefString(in.Reason))}

	if in.Date != nil {
		date := strings.TrimSpace(*in.Date)
		if date == "" {
			return nil, invalid(CodeMissingRequiredData, "leave date is required")
		}
		if err := checkDate("date", &date); err != nil {
			return nil, err
		}
		req.Date = &date
		req.TimePeriod = orDefault(in.TimePeriod, DefaultTimePeriod)
	} else {
		if in.StartDate == nil || in.EndDate == nil || *in.StartDate == "" || *in.EndDate == "" {
			return nil, invalid(CodeMissingRequiredData, "start date and end date are required")
		}
		if err := checkDate("startDate", in.StartDate); err != nil {
			return nil, err
		}
		if err := checkDate("endDate", in.EndDate); err != nil {
			return nil, err
		}
		if *in.EndDate < *in.StartDate {
			return nil, invalid(CodeInvalidDate, "end date is before start date")
		}
		req.StartDate = in.StartDate
		req.EndDate = in.EndDate
		req.StartTimePeriod = orDefault(in.StartTimePeriod, DefaultTimePeriod)
		req.EndTimePeriod = orDefault(in.EndTimePeriod, DefaultTimePeriod)
		req.Type = orDefault(in.Type, DefaultLeaveType)
	}

	ownerID, ownerName, onBehalf, err := s.resolveOwner(ctx, caller, in.UserID)
	if err != nil {
		return nil, err
	}
	req.UserID = ownerID
	req.UserName = ownerName
	req.Status = models.InitialStatus(caller.Role)
	req.CanEdit = !caller.IsManager()
	req.CreatedByManager = onBehalf

	if err := s.leaves.Create(ctx, req); err != nil {
		return nil, internal("create leave request", err)
	}
	slog.Info("leave request created", "id", req.ID, "user_id", req.UserID, "status", req.Status)
	return req, nil
}

// List returns the requests visible to caller, newest first
func (s *LeaveService) List(ctx context.Context, caller *models.Caller) ([]models.LeaveRequest, error) {
	owner := caller.ID
	if caller.IsManager() {
		owner = ""
	}
	requests, err := s.leaves.List(ctx, owner)
	if err != nil {
		return nil, internal("list leave requests", err)
	}
	return requests, nil
}

func (s *LeaveService) find(ctx context.Context, id int64, op string) (*models.LeaveRequest, error) {
	req, err := s.leaves.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound(CodeRequestNotFound, "leave request not found")
		}
		return nil, internal(op, err)
	}
	return req, nil
}

// Get returns one request if the caller owns it or is a manager
func (s *LeaveService) Get(ctx context.Context, caller *models.Caller, id int64) (*models.LeaveRequest, error) {
	req, err := s.find(ctx, id, "get leave request")
	if err != nil {
		return nil, err
	}
	if !caller.CanAccess(req.UserID) {
		return nil, forbidden(CodeAccessDenied, "access denied")
	}
	return req, nil
}

// Update edits a request. Managers may edit any request; owners only their own while it is still editable.
func (s *LeaveService) Update(ctx context.Context, caller *models.Caller, id int64, in models.LeaveRequestInput) (*models.LeaveRequest, error) {
	req, err := s.find(ctx, id, "update leave request")
	if err != nil {
		return nil, err
	}
	if !caller.IsManager() {
		if req.UserID != caller.ID {
			return nil, forbidden(CodeAccessDenied, "access denied")
		}
		if !req.CanEdit {
			return nil, forbidden(CodeEditNotAllowed, "this leave request can no longer be edited")
		}
	}

	if in.Date != nil {
		date := strings.TrimSpace(*in.Date)
		if err := checkDate("date", &date); err != nil {
			return nil, err
		}
		req.Date = &date
		if in.TimePeriod != nil {
			req.TimePeriod = in.TimePeriod
		}
		req.TimePeriod = orDefault(req.TimePeriod, DefaultTimePeriod)
		// A request holds one shape at a time.
		req.StartDate, req.EndDate = nil, nil
		req.StartTimePeriod, req.EndTimePeriod, req.Type = nil, nil, nil
	} else {
		if err := checkDate("startDate", in.StartDate); err != nil {
			return nil, err
		}
		if err := checkDate("endDate", in.EndDate); err != nil {
			return nil, err
		}
		if req.Date != nil && (in.StartDate != nil || in.EndDate != nil) {
			if in.StartDate == nil || in.EndDate == nil {
				return nil, invalid(CodeMissingRequiredData, "start date and end date are required")
			}
			req.Date, req.TimePeriod = nil, nil
			req.StartTimePeriod = orDefault(nil, DefaultTimePeriod)
			req.EndTimePeriod = orDefault(nil, DefaultTimePeriod)
			req.Type = orDefault(nil, DefaultLeaveType)
		}
		if in.StartDate != nil {
			req.StartDate = in.StartDate
		}
		if in.EndDate != nil {
			req.EndDate = in.EndDate
		}
		if req.StartDate != nil && req.EndDate != nil && *req.EndDate < *req.StartDate {
			return nil, invalid(CodeInvalidDate, "end date is before start date")
		}
		if in.StartTimePeriod != nil {
			req.StartTimePeriod = in.StartTimePeriod
		}
		if in.EndTimePeriod != nil {
			req.EndTimePeriod = in.EndTimePeriod
		}
		if in.Type != nil {
			req.Type = in.Type
		}
	}
	if in.Reason != nil {
		req.Reason = strings.TrimSpace(*in.Reason)
	}

	if err := s.leaves.Update(ctx, req); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound(CodeRequestNotFound, "leave request not found")
		}
		return nil, internal("update leave request", err)
	}
	return req, nil
}

// SetStatus moves a request to any of the three statuses and locks it against owner edits
func (s *LeaveService) SetStatus(ctx context.Context, id int64, status models.Status) (*models.LeaveRequest, error) {
	if !models.ValidLeaveStatus(status) {
		return nil, invalid(CodeInvalidStatus, "status must be pending, approved or rejected")
	}
	req, err := s.leaves.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound(CodeRequestNotFound, "leave request not found")
		}
		return nil, internal("set leave status", err)
	}
	slog.Info("leave request status changed", "id", id, "status", status)
	return req, nil
}

// Delete removes a request
func (s *LeaveService) Delete(ctx context.Context, id int64) error {
	if err := s.leaves.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound(CodeRequestNotFound, "leave request not found")
		}
		return internal("delete leave request", err)
	}
	return nil
}
