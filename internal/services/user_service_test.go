package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/identity"
	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/models"
)

func TestUserService_CreateEmployee(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.users.CreateEmployee(ctx, models.CreateEmployeeInput{Username: " anam ", Password: "secret1", Name: "A.NĂM"})
	require.NoError(t, err)
	assert.Equal(t, "anam", p.Username)
	assert.Equal(t, "anam@company.com", p.Email)
	assert.Equal(t, models.RoleEmployee, p.Role)

	_, err = f.auth.Login(ctx, models.LoginInput{Username: "anam", Password: "secret1"})
	assert.NoError(t, err)
}

func TestUserService_CreateEmployeeDuplicateUsernameWritesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "anam", models.RoleEmployee)
	before := f.count(t, "identities")

	_, err := f.users.CreateEmployee(ctx, models.CreateEmployeeInput{Username: "anam", Password: "secret1", Name: "Other", Email: "other@company.com"})
	requireCode(t, err, KindInvalid, CodeUsernameTaken)
	assert.Equal(t, before, f.count(t, "identities"))
}

func TestMapIdentityError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind Kind
		code Code
	}{
		{"weak password", identity.ErrWeakPassword, KindInvalid, CodeWeakPassword},
		{"email taken", identity.ErrEmailTaken, KindInvalid, CodeEmailTaken},
		{"username taken", identity.ErrUsernameTaken, KindInvalid, CodeUsernameTaken},
		{"missing identity", identity.ErrNotFound, KindNotFound, CodeEmployeeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireCode(t, mapIdentityError("create employee", tt.err), tt.kind, tt.code)
		})
	}
}

func TestUserService_CreateEmployeeRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "taken", models.RoleEmployee)

	_, err := f.users.CreateEmployee(ctx, models.CreateEmployeeInput{Username: "x", Password: "secret1"})
	requireCode(t, err, KindInvalid, CodeMissingRequiredData)

	_, err = f.users.CreateEmployee(ctx, models.CreateEmployeeInput{Username: "x", Password: "abc", Name: "X"})
	requireCode(t, err, KindInvalid, CodeWeakPassword)

	_, err = f.users.CreateEmployee(ctx, models.CreateEmployeeInput{Username: "y", Password: "secret1", Name: "Y", Email: "taken@company.com"})
	requireCode(t, err, KindInvalid, CodeEmailTaken)
}

func TestUserService_UpdateEmployee(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.addUser(t, "anam", models.RoleEmployee)
	f.addUser(t, "tien", models.RoleEmployee)

	p, err := f.users.UpdateEmployee(ctx, a.ID, models.ProfileUpdateDTO{Name: strPtr("Nam A")})
	require.NoError(t, err)
	assert.Equal(t, "Nam A", p.Name)
	assert.Equal(t, "anam", p.Username)

	// Keeping one's own username is not a conflict.
	_, err = f.users.UpdateEmployee(ctx, a.ID, models.ProfileUpdateDTO{Username: strPtr("anam")})
	assert.NoError(t, err)

	_, err = f.users.UpdateEmployee(ctx, a.ID, models.ProfileUpdateDTO{Username: strPtr("tien")})
	requireCode(t, err, KindInvalid, CodeUsernameTaken)

	_, err = f.users.UpdateEmployee(ctx, "missing", models.ProfileUpdateDTO{Name: strPtr("X")})
	requireCode(t, err, KindNotFound, CodeEmployeeNotFound)
}

func TestUserService_ResetPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.addUser(t, "anam", models.RoleEmployee)

	applied, err := f.users.ResetPassword(ctx, a.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "123456", applied)
	_, err = f.auth.Login(ctx, models.LoginInput{Username: "anam", Password: "123456"})
	assert.NoError(t, err)

	_, err = f.users.ResetPassword(ctx, a.ID, "123")
	requireCode(t, err, KindInvalid, CodeWeakPassword)

	_, err = f.users.ResetPassword(ctx, "missing", "")
	requireCode(t, err, KindNotFound, CodeEmployeeNotFound)
}

func TestUserService_DeleteEmployee(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mgr := f.addUser(t, "boss", models.RoleManager)
	emp := f.addUser(t, "anam", models.RoleEmployee)

	err := f.users.DeleteEmployee(ctx, mgr, mgr.ID)
	requireCode(t, err, KindInvalid, CodeCannotDeleteSelf)

	_, err = f.leaves.Create(ctx, emp, models.LeaveRequestInput{Date: strPtr("2024-05-02")})
	require.NoError(t, err)
	_, err = f.advances.Create(ctx, emp, models.AdvanceRequestInput{Amount: 100.0})
	require.NoError(t, err)

	require.NoError(t, f.users.DeleteEmployee(ctx, mgr, emp.ID))
	assert.Zero(t, f.count(t, "leave_requests"))
	assert.Zero(t, f.count(t, "advance_requests"))

	_, err = f.users.GetEmployee(ctx, emp.ID)
	requireCode(t, err, KindNotFound, CodeEmployeeNotFound)

	err = f.users.DeleteEmployee(ctx, mgr, emp.ID)
	requireCode(t, err, KindNotFound, CodeEmployeeNotFound)
}

func TestUserService_ListEmployees(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "tien", models.RoleEmployee)
	f.addUser(t, "anam", models.RoleEmployee)

	list, err := f.users.ListEmployees(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "anam", list[0].Username)
	assert.Equal(t, "tien", list[1].Username)
}

func TestUserService_Provision(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "boss-vu", models.RoleManager)
	f.addUser(t, "vuhoang", models.RoleEmployee)
	f.addUser(t, "khac", models.RoleEmployee)
	f.addUser(t, "tien", models.RoleEmployee)

	res, err := f.users.Provision(ctx, &models.Roster{
		Purge: models.RosterPurge{Username: "VU"},
		Employees: []models.RosterEmployee{
			{Name: "Tiến", Username: "tien"},
			{Name: "A.Năm", Username: "anam"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Removed, "managers are never purged")
	require.Len(t, res.Added, 1)
	assert.Equal(t, "anam", res.Added[0].Username)
	assert.Equal(t, models.RoleEmployee, res.Added[0].Role)

	list, err := f.users.ListEmployees(ctx)
	require.NoError(t, err)
	var usernames []string
	for _, p := range list {
		usernames = append(usernames, p.Username)
	}
	assert.Equal(t, []string{"anam", "boss-vu", "khac", "tien"}, usernames)

	_, err = f.auth.Login(ctx, models.LoginInput{Username: "anam", Password: "123456"})
	assert.NoError(t, err)
}

func TestUserService_ProvisionFromRosterFile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.users.Provision(ctx, nil)
	requireCode(t, err, KindInvalid, CodeRosterUnavailable)

	path := filepath.Join(t.TempDir(), "roster.yaml")
	doc := "password: \"abcdef\"\nemployees:\n  - name: Hoa\n    username: hoa\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	f.users.rosterFile = path

	res, err := f.users.Provision(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, res.Removed)
	require.Len(t, res.Added, 1)

	_, err = f.auth.Login(ctx, models.LoginInput{Username: "hoa", Password: "abcdef"})
	assert.NoError(t, err)
}

func TestUserService_SalaryLedger(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	emp := f.addUser(t, "anam", models.RoleEmployee)

	got, err := f.users.GetSalary(ctx, emp.ID, "2024-05")
	require.NoError(t, err)
	assert.Nil(t, got.Salary)

	_, err = f.users.SetSalary(ctx, emp.ID, models.SetSalaryInput{Month: "2024-04", Salary: floatPtr(900)})
	require.NoError(t, err)
	_, err = f.users.SetSalary(ctx, emp.ID, models.SetSalaryInput{Month: "2024-05", Salary: floatPtr(1000)})
	require.NoError(t, err)
	set, err := f.users.SetSalary(ctx, emp.ID, models.SetSalaryInput{Month: "2024-05", Salary: floatPtr(1500)})
	require.NoError(t, err)
	assert.Equal(t, 1500.0, *set.Salary)

	got, err = f.users.GetSalary(ctx, emp.ID, "2024-05")
	require.NoError(t, err)
	require.NotNil(t, got.Salary)
	assert.Equal(t, 1500.0, *got.Salary)

	all, err := f.users.GetSalaries(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Salaries{"2024-04": 900, "2024-05": 1500}, all)
}

func TestUserService_SetSalaryRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	emp := f.addUser(t, "anam", models.RoleEmployee)

	tests := []struct {
		name string
		id   string
		in   models.SetSalaryInput
		kind Kind
		code Code
	}{
		{"missing month", emp.ID, models.SetSalaryInput{Salary: floatPtr(1)}, KindInvalid, CodeMissingRequiredData},
		{"missing salary", emp.ID, models.SetSalaryInput{Month: "2024-05"}, KindInvalid, CodeMissingRequiredData},
		{"bad month", emp.ID, models.SetSalaryInput{Month: "2024-13", Salary: floatPtr(1)}, KindInvalid, CodeInvalidMonth},
		{"negative", emp.ID, models.SetSalaryInput{Month: "2024-05", Salary: floatPtr(-1)}, KindInvalid, CodeInvalidAmount},
		{"unknown employee", "missing", models.SetSalaryInput{Month: "2024-05", Salary: floatPtr(1)}, KindNotFound, CodeEmployeeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.users.SetSalary(ctx, tt.id, tt.in)
			requireCode(t, err, tt.kind, tt.code)
		})
	}

	zero, err := f.users.SetSalary(ctx, emp.ID, models.SetSalaryInput{Month: "2024-05", Salary: floatPtr(0)})
	require.NoError(t, err)
	assert.Equal(t, 0.0, *zero.Salary)
}

func TestValidMonth(t *testing.T) {
	assert.True(t, ValidMonth("2024-05"))
	assert.False(t, ValidMonth("2024-5"))
	assert.False(t, ValidMonth("2024-00"))
	assert.False(t, ValidMonth("May 2024"))
}
