package models

import (
	"time"
)

// Role - user role in the system
type Role string

const (
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// Valid reports whether r is one of the two known roles.
func (r Role) Valid() bool {
	return r == RoleManager || r == RoleEmployee
}

// Status - lifecycle field shared by leave and advance requests
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Leave requests may be moved back to pending; advance requests may not.
var (
	leaveStatuses   = map[Status]bool{StatusPending: true, StatusApproved: true, StatusRejected: true}
	advanceStatuses = map[Status]bool{StatusApproved: true, StatusRejected: true}
)

// ValidLeaveStatus reports whether s is accepted by the leave status route.
func ValidLeaveStatus(s Status) bool { return leaveStatuses[s] }

// ValidAdvanceStatus reports whether s is accepted by the advance status route.
func ValidAdvanceStatus(s Status) bool { return advanceStatuses[s] }

// InitialStatus returns the status a new request gets when filed by a caller with the given role.
func InitialStatus(creator Role) Status {
	if creator == RoleManager {
		return StatusApproved
	}
	return StatusPending
}

// Salaries maps a month key ("2024-05") to the salary amount for that month.
type Salaries map[string]float64

// Profile - application-level user record, linked one-to-one with an identity
type Profile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Salaries  Salaries  `json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Caller is the authenticated profile attached to a request by the auth middleware.
type Caller struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	Name     string `json:"name"`
}

// CallerFromProfile builds the request identity from a stored profile.
func CallerFromProfile(p *Profile) *Caller {
	return &Caller{
		ID:       p.ID,
		Email:    p.Email,
		Username: p.Username,
		Role:     p.Role,
		Name:     p.Name,
	}
}

// IsManager reports whether the caller holds the manager role.
func (c *Caller) IsManager() bool {
	return c != nil && c.Role == RoleManager
}

// CanAccess is the single ownership rule: managers see everything,
// everyone else only what they own.
func (c *Caller) CanAccess(ownerID string) bool {
	if c == nil {
		return false
	}
	return c.Role == RoleManager || c.ID == ownerID
}

// LeaveRequest - a leave request. Either Date is set (single-day shape)
// or StartDate/EndDate are set (legacy range shape).
type LeaveRequest struct {
	ID               int64
	UserID           string
	UserName         string
	Date             *string
	TimePeriod       *string
	StartDate        *string
	EndDate          *string
	StartTimePeriod  *string
	EndTimePeriod    *string
	Type             *string
	Reason           string
	Status           Status
	CanEdit          bool
	CreatedByManager bool
	SubmittedAt      time.Time
}

// AdvanceRequest - a salary advance request
type AdvanceRequest struct {
	ID          int64
	UserID      string
	UserName    string
	Amount      float64
	Reason      string
	Status      Status
	SubmittedAt time.Time
}

// Identity - credential record owned by the identity provider. Its ID is shared with the Profile.
type Identity struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
