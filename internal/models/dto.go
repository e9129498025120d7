package models

import "time"

// LoginInput - body of POST /api/login
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token string   `json:"token"`
	User  *Profile `json:"user"`
}

// CreateEmployeeInput - body of POST /api/users
type CreateEmployeeInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

// ProfileUpdateDTO - partial update of a profile, nil fields are left untouched
type ProfileUpdateDTO struct {
	Name     *string `json:"name"`
	Username *string `json:"username"`
}

// ChangePasswordInput - body of PATCH /api/users/change-password
type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ResetPasswordInput - body of PATCH /api/users/:id/reset-password
type ResetPasswordInput struct {
	NewPassword string `json:"newPassword"`
}

// SetSalaryInput - body of POST /api/users/:id/salary.
// Salary is a pointer so that an explicit zero is distinguishable from a missing value.
type SetSalaryInput struct {
	Month  string   `json:"month"`
	Salary *float64 `json:"salary"`
}

// MonthSalary is the read shape for a single month: Salary is nil when nothing is recorded.
type MonthSalary struct {
	Month  string   `json:"month"`
	Salary *float64 `json:"salary"`
}

// RosterEmployee is one entry of a provisioning roster.
type RosterEmployee struct {
	Name     string `json:"name" yaml:"name"`
	Username string `json:"username" yaml:"username"`
}

// RosterPurge holds the case-insensitive substrings used to select employees to remove.
type RosterPurge struct {
	Name     string `json:"name" yaml:"name"`
	Username string `json:"username" yaml:"username"`
}

// Roster - input of the bulk provisioning operation
type Roster struct {
	Purge     RosterPurge      `json:"purge" yaml:"purge"`
	Password  string           `json:"password" yaml:"password"`
	Employees []RosterEmployee `json:"employees" yaml:"employees"`
}

// ProvisionedEmployee describes an account created during provisioning.
type ProvisionedEmployee struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
}

// ProvisionResult summarizes a bulk provisioning run.
type ProvisionResult struct {
	Removed int                   `json:"removed"`
	Added   []ProvisionedEmployee `json:"added"`
}

// LeaveRequestInput - body of POST/PUT /api/leave-requests.
// A present Date selects the single-day shape.
type LeaveRequestInput struct {
	UserID          string  `json:"userId"`
	Date            *string `json:"date"`
	TimePeriod      *string `json:"timePeriod"`
	StartDate       *string `json:"startDate"`
	EndDate         *string `json:"endDate"`
	StartTimePeriod *string `json:"startTimePeriod"`
	EndTimePeriod   *string `json:"endTimePeriod"`
	Type            *string `json:"type"`
	Reason          *string `json:"reason"`
}

// StatusInput - body of the status PATCH routes
type StatusInput struct {
	Status Status `json:"status"`
}

// AdvanceRequestInput - body of POST/PUT /api/advance-requests.
// Amount is decoded loosely since clients send either a number or a numeric string.
type AdvanceRequestInput struct {
	UserID string  `json:"userId"`
	Amount any     `json:"amount"`
	Reason *string `json:"reason"`
}

// LeaveRequestView is the JSON shape of a leave request.
type LeaveRequestView struct {
	ID               int64     `json:"id"`
	UserID           string    `json:"userId"`
	UserName         string    `json:"userName"`
	Date             *string   `json:"date"`
	StartDate        *string   `json:"startDate"`
	EndDate          *string   `json:"endDate"`
	TimePeriod       *string   `json:"timePeriod"`
	StartTimePeriod  *string   `json:"startTimePeriod"`
	EndTimePeriod    *string   `json:"endTimePeriod"`
	Reason           string    `json:"reason"`
	Type             *string   `json:"type"`
	Status           Status    `json:"status"`
	CanEdit          bool      `json:"canEdit"`
	CreatedByManager bool      `json:"createdByManager"`
	SubmittedAt      time.Time `json:"submittedAt"`
}

// View converts the stored record to its JSON shape.
func (r *LeaveRequest) View() LeaveRequestView {
	return LeaveRequestView{
		ID:               r.ID,
		UserID:           r.UserID,
		UserName:         r.UserName,
		Date:             r.Date,
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
		TimePeriod:       r.TimePeriod,
		StartTimePeriod:  r.StartTimePeriod,
		EndTimePeriod:    r.EndTimePeriod,
		Reason:           r.Reason,
		Type:             r.Type,
		Status:           r.Status,
		CanEdit:          r.CanEdit,
		CreatedByManager: r.CreatedByManager,
		SubmittedAt:      r.SubmittedAt,
	}
}

// AdvanceRequestView is the JSON shape of an advance request.
type AdvanceRequestView struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"userId"`
	UserName    string    `json:"userName"`
	Amount      float64   `json:"amount"`
	Reason      string    `json:"reason"`
	Status      Status    `json:"status"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// View converts the stored record to its JSON shape.
func (r *AdvanceRequest) View() AdvanceRequestView {
	return AdvanceRequestView{
		ID:          r.ID,
		UserID:      r.UserID,
		UserName:    r.UserName,
		Amount:      r.Amount,
		Reason:      r.Reason,
		Status:      r.Status,
		SubmittedAt: r.SubmittedAt,
	}
}
