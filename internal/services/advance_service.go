package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/models"
	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/repositories"
)

// AdvanceService implements the salary advance workflow
type AdvanceService struct {
	advances repositories.AdvanceRepositoryInterface
	profiles repositories.ProfileRepositoryInterface
}

// NewAdvanceService creates an AdvanceService
func NewAdvanceService(advances repositories.AdvanceRepositoryInterface, profiles repositories.ProfileRepositoryInterface) *AdvanceService {
	return &AdvanceService{advances: advances, profiles: profiles}
}

// ParseAmount accepts a JSON number or a numeric string and requires a finite value above zero.
func ParseAmount(raw any) (float64, error) {
	var amount float64
	switch v := raw.(type) {
	case nil:
		return 0, invalid(CodeMissingRequiredData, "amount is required")
	case float64:
		amount = v
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, invalid(CodeInvalidAmount, "amount must be a number")
		}
		amount = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, invalid(CodeInvalidAmount, "amount must be a number")
		}
		amount = f
	default:
		return 0, invalid(CodeInvalidAmount, "amount must be a number")
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return 0, invalid(CodeInvalidAmount, "amount must be greater than 0")
	}
	return amount, nil
}

// Create files an advance request. A manager must name the employee it is for.
func (s *AdvanceService) Create(ctx context.Context, caller *models.Caller, in models.AdvanceRequestInput) (*models.AdvanceRequest, error) {
	amount, err := ParseAmount(in.Amount)
	if err != nil {
		return nil, err
	}

	req := &models.AdvanceRequest{
		UserID:   caller.ID,
		UserName: caller.Name,
		Amount:   amount,
		Reason:   strings.TrimSpace(derefString(in.Reason)),
		Status:   models.InitialStatus(caller.Role),
	}

	if caller.IsManager() {
		if in.UserID == "" {
			return nil, invalid(CodeEmployeeRequired, "employee is required")
		}
		target, err := s.profiles.FindByID(ctx, in.UserID)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return nil, internal("create advance request: find employee", err)
		}
		if target == nil || target.Role != models.RoleEmployee {
			return nil, notFound(CodeEmployeeNotFound, "employee not found")
		}
		req.UserID = target.ID
		req.UserName = target.Name
	}

	if err := s.advances.Create(ctx, req); err != nil {
		return nil, internal("create advance request", err)
	}
	slog.Info("advance request created", "id", req.ID, "user_id", req.UserID, "amount", req.Amount, "status", req.Status)
	return req, nil
}

// List returns the requests visible to caller, newest first
func (s *AdvanceService) List(ctx context.Context, caller *models.Caller) ([]models.AdvanceRequest, error) {
	owner := caller.ID
	if caller.IsManager() {
		owner = ""
	}
	requests, err := s.advances.List(ctx, owner)
	if err != nil {
		return nil, internal("list advance requests", err)
	}
	return requests, nil
}

func advanceLookupError(op string, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return notFound(CodeRequestNotFound, "advance request not found")
	}
	return internal(op, err)
}

// Get returns one request if the caller owns it or is a manager
func (s *AdvanceService) Get(ctx context.Context, caller *models.Caller, id int64) (*models.AdvanceRequest, error) {
	req, err := s.advances.FindByID(ctx, id)
	if err != nil {
		return nil, advanceLookupError("get advance request", err)
	}
	if !caller.CanAccess(req.UserID) {
		return nil, forbidden(CodeAccessDenied, "access denied")
	}
	return req, nil
}

// SetStatus approves or rejects a request. Returning to pending is not allowed.
func (s *AdvanceService) SetStatus(ctx context.Context, id int64, status models.Status) (*models.AdvanceRequest, error) {
	if !models.ValidAdvanceStatus(status) {
		return nil, invalid(CodeInvalidStatus, "status must be approved or rejected")
	}
	req, err := s.advances.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, advanceLookupError("set advance status", err)
	}
	slog.Info("advance request status changed", "id", id, "status", status)
	return req, nil
}

// Update replaces amount and reason
func (s *AdvanceService) Update(ctx context.Context, id int64, in models.AdvanceRequestInput) (*models.AdvanceRequest, error) {
	amount, err := ParseAmount(in.Amount)
	if err != nil {
		return nil, err
	}
	req, err := s.advances.UpdateDetails(ctx, id, amount, strings.TrimSpace(derefString(in.Reason)))
	if err != nil {
		return nil, advanceLookupError("update advance request", err)
	}
	return req, nil
}

// Delete removes a request
func (s *AdvanceService) Delete(ctx context.Context, id int64) error {
	if err := s.advances.Delete(ctx, id); err != nil {
		return advanceLookupError("delete advance request", err)
	}
	return nil
}
