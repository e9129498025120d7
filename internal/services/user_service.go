package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/identity"
	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/models"
	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/repositories"
	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/roster"
)

// UserService manages employee accounts and the salary ledger
type UserService struct {
	provider        identity.Provider
	profiles        repositories.ProfileRepositoryInterface
	emailDomain     string
	defaultPassword string
	rosterFile      string
}

// UserServiceConfig holds the account defaults of a UserService.
type UserServiceConfig struct {
	EmailDomain     string
	DefaultPassword string
	RosterFile      string
}

// NewUserService creates a UserService
func NewUserService(provider identity.Provider, profiles repositories.ProfileRepositoryInterface, cfg UserServiceConfig) *UserService {
	return &UserService{
		provider:        provider,
		profiles:        profiles,
		emailDomain:     cfg.EmailDomain,
		defaultPassword: cfg.DefaultPassword,
		rosterFile:      cfg.RosterFile,
	}
}

// ListEmployees returns every profile ordered by username
func (s *UserService) ListEmployees(ctx context.Context) ([]models.Profile, error) {
	profiles, err := s.profiles.List(ctx)
	if err != nil {
		return nil, internal("list employees", err)
	}
	return profiles, nil
}

// GetEmployee returns a single profile
func (s *UserService) GetEmployee(ctx context.Context, id string) (*models.Profile, error) {
	return s.findProfile(ctx, id, "get employee")
}

func (s *UserService) findProfile(ctx context.Context, id, op string) (*models.Profile, error) {
	p, err := s.profiles.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound(CodeEmployeeNotFound, "employee not found")
		}
		return nil, internal(op, err)
	}
	return p, nil
}

// CreateEmployee creates an identity and its employee profile in one step.
// The username is checked before anything is written.
func (s *UserService) CreateEmployee(ctx context.Context, in models.CreateEmployeeInput) (*models.Profile, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" || in.Password == "" || in.Name == "" {
		return nil, invalid(CodeMissingRequiredData, "username, password and name are required")
	}

	taken, err := s.profiles.UsernameTaken(ctx, in.Username, "")
	if err != nil {
		return nil, internal("create employee: check username", err)
	}
	if taken {
		return nil, invalid(CodeUsernameTaken, "username already exists")
	}

	email := in.Email
	if email == "" {
		email = SynthesizeEmail(in.Username, s.emailDomain)
	}

	profile, err := s.provider.CreateIdentity(ctx, identity.NewIdentity{
		Email:    email,
		Password: in.Password,
		Username: in.Username,
		Name:     in.Name,
		Role:     models.RoleEmployee,
	})
	if err != nil {
		return nil, mapIdentityError("create employee", err)
	}
	slog.Info("employee created", "user_id", profile.ID, "username", profile.Username)
	return profile, nil
}

func mapIdentityError(op string, err error) error {
	switch {
	case errors.Is(err, identity.ErrWeakPassword):
		return invalid(CodeWeakPassword, "password must be at least 6 characters")
	case errors.Is(err, identity.ErrEmailTaken):
		return invalid(CodeEmailTaken, "email already registered")
	case errors.Is(err, identity.ErrUsernameTaken):
		return invalid(CodeUsernameTaken, "username already exists")
	case errors.Is(err, identity.ErrNotFound):
		return notFound(CodeEmployeeNotFound, "employee not found")
	default:
		return internal(op, err)
	}
}

// UpdateEmployee changes name and/or username of a profile
func (s *UserService) UpdateEmployee(ctx context.Context, id string, in models.ProfileUpdateDTO) (*models.Profile, error) {
	// Empty strings mean "leave unchanged", as nil does.
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		in.Name = nil
	}
	if in.Username != nil {
		trimmed := strings.TrimSpace(*in.Username)
		if trimmed == "" {
			in.Username = nil
		} else {
			in.Username = &trimmed
			taken, err := s.profiles.UsernameTaken(ctx, trimmed, id)
			if err != nil {
				return nil, internal("update employee: check username", err)
			}
			if taken {
				return nil, invalid(CodeUsernameTaken, "username already exists")
			}
		}
	}

	p, err := s.profiles.Update(ctx, id, &in)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return nil, notFound(CodeEmployeeNotFound, "employee not found")
		case errors.Is(err, repositories.ErrConflict):
			return nil, invalid(CodeUsernameTaken, "username already exists")
		}
		return nil, internal("update employee", err)
	}
	return p, nil
}

// ResetPassword sets a new password for another account without re-verification.
// An empty newPassword falls back to the configured default. The applied password is returned.
func (s *UserService) ResetPassword(ctx context.Context, id, newPassword string) (string, error) {
	password := newPassword
	if password == "" {
		password = s.defaultPassword
	}
	if len(password) < identity.MinPasswordLength {
		return "", invalid(CodeWeakPassword, "password must be at least 6 characters")
	}
	if err := s.provider.UpdatePassword(ctx, id, password); err != nil {
		return "", mapIdentityError("reset password", err)
	}
	slog.Info("password reset", "user_id", id)
	return password, nil
}

// DeleteEmployee removes an account and everything it owns. A manager cannot remove themselves.
func (s *UserService) DeleteEmployee(ctx context.Context, caller *models.Caller, id string) error {
	if caller.ID == id {
		return invalid(CodeCannotDeleteSelf, "you cannot delete your own account")
	}
	if err := s.provider.DeleteIdentity(ctx, id); err != nil {
		return mapIdentityError("delete employee", err)
	}
	slog.Info("employee deleted", "user_id", id, "by", caller.ID)
	return nil
}

// Provision runs the bulk maintenance operation: purge matching employees,
// then create every roster entry whose username is free. A nil roster loads
// the configured roster file.
func (s *UserService) Provision(ctx context.Context, r *models.Roster) (*models.ProvisionResult, error) {
	if r == nil {
		if s.rosterFile == "" {
			return nil, invalid(CodeRosterUnavailable, "no roster supplied and no roster file configured")
		}
		loaded, err := roster.Load(s.rosterFile)
		if err != nil {
			return nil, internal("provision: load roster", err)
		}
		r = loaded
	} else if err := roster.Validate(r); err != nil {
		return nil, invalid(CodeInvalidInput, err.Error())
	}

	password := r.Password
	if password == "" {
		password = s.defaultPassword
	}
	if len(password) < identity.MinPasswordLength {
		return nil, invalid(CodeWeakPassword, "password must be at least 6 characters")
	}

	removed, err := s.purge(ctx, r.Purge)
	if err != nil {
		return nil, err
	}

	result := &models.ProvisionResult{Removed: removed, Added: []models.ProvisionedEmployee{}}
	for _, emp := range r.Employees {
		taken, err := s.profiles.UsernameTaken(ctx, emp.Username, "")
		if err != nil {
			return nil, internal("provision: check username", err)
		}
		if taken {
			continue
		}
		profile, err := s.provider.CreateIdentity(ctx, identity.NewIdentity{
			Email:    SynthesizeEmail(emp.Username, s.emailDomain),
			Password: password,
			Username: emp.Username,
			Name:     emp.Name,
			Role:     models.RoleEmployee,
		})
		if err != nil {
			slog.Error("provision: create employee failed", "username", emp.Username, "error", err)
			continue
		}
		result.Added = append(result.Added, models.ProvisionedEmployee{
			ID:       profile.ID,
			Username: profile.Username,
			Name:     profile.Name,
			Role:     profile.Role,
		})
	}

	slog.Info("provisioning finished", "removed", result.Removed, "added", len(result.Added))
	return result, nil
}

func (s *UserService) purge(ctx context.Context, p models.RosterPurge) (int, error) {
	if p.Name == "" && p.Username == "" {
		return 0, nil
	}
	employees, err := s.profiles.ListByRole(ctx, models.RoleEmployee)
	if err != nil {
		return 0, internal("provision: list employees", err)
	}

	removed := 0
	for _, e := range employees {
		if !containsFold(e.Name, p.Name) && !containsFold(e.Username, p.Username) {
			continue
		}
		if err := s.provider.DeleteIdentity(ctx, e.ID); err != nil {
			if errors.Is(err, identity.ErrNotFound) {
				continue
			}
			return removed, internal("provision: delete employee", err)
		}
		removed++
	}
	return removed, nil
}

// containsFold reports whether substr occurs in s ignoring case. An empty substr never matches.
func containsFold(s, substr string) bool {
	if substr == "" {
		return false
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// ValidMonth reports whether month is a "YYYY-MM" key.
func ValidMonth(month string) bool {
	if len(month) != len("2006-01") {
		return false
	}
	_, err := time.Parse("2006-01", month)
	return err == nil
}

// GetSalary returns the amount recorded for one month, nil if none.
func (s *UserService) GetSalary(ctx context.Context, id, month string) (*models.MonthSalary, error) {
	p, err := s.findProfile(ctx, id, "get salary")
	if err != nil {
		return nil, err
	}
	out := &models.MonthSalary{Month: month}
	if amount, ok := p.Salaries[month]; ok {
		out.Salary = &amount
	}
	return out, nil
}

// GetSalaries returns the whole ledger of a profile.
func (s *UserService) GetSalaries(ctx context.Context, id string) (models.Salaries, error) {
	p, err := s.findProfile(ctx, id, "get salaries")
	if err != nil {
		return nil, err
	}
	if p.Salaries == nil {
		return models.Salaries{}, nil
	}
	return p.Salaries, nil
}

// SetSalary upserts the amount for one month; other months are untouched.
func (s *UserService) SetSalary(ctx context.Context, id string, in models.SetSalaryInput) (*models.MonthSalary, error) {
	in.Month = strings.TrimSpace(in.Month)
	if in.Month == "" || in.Salary == nil {
		return nil, invalid(CodeMissingRequiredData, "month and salary are required")
	}
	if !ValidMonth(in.Month) {
		return nil, invalid(CodeInvalidMonth, fmt.Sprintf("month %q must have the form YYYY-MM", in.Month))
	}
	if *in.Salary < 0 {
		return nil, invalid(CodeInvalidAmount, "salary cannot be negative")
	}

	ledger, err := s.profiles.SetSalary(ctx, id, in.Month, *in.Salary)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound(CodeEmployeeNotFound, "employee not found")
		}
		return nil, internal("set salary", err)
	}
	amount := ledger[in.Month]
	return &models.MonthSalary{Month: in.Month, Salary: &amount}, nil
}
