package repositories

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/database"
	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/models"
	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/testutil"
)

type fixture struct {
	identities *IdentityRepository
	profiles   *ProfileRepository
	leaves     *LeaveRepository
	advances   *AdvanceRepository
}

func newFixture(t *testing.T) *fixture {
	db := testutil.NewDB(t)
	return &fixture{
		identities: NewIdentityRepository(db),
		profiles:   NewProfileRepository(db, database.SQLite),
		leaves:     NewLeaveRepository(db),
		advances:   NewAdvanceRepository(db),
	}
}

func (f *fixture) addProfile(t *testing.T, username string, role models.Role) *models.Profile {
	t.Helper()
	ts := time.Now().UTC()
	id := uuid.NewString()
	ident := &models.Identity{ID: id, Email: username + "@company.com", PasswordHash: "hash", CreatedAt: ts, UpdatedAt: ts}
	p := &models.Profile{ID: id, Username: username, Name: "Name " + username, Email: ident.Email, Role: role, CreatedAt: ts, UpdatedAt: ts}
	require.NoError(t, f.identities.CreateWithProfile(context.Background(), ident, p))
	return p
}

func strPtr(s string) *string { return &s }

func TestIdentityRepository_CreateAndFind(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.addProfile(t, "anam", models.RoleEmployee)

	ident, err := f.identities.FindByEmail(ctx, "anam@company.com")
	require.NoError(t, err)
	assert.Equal(t, p.ID, ident.ID)

	byID, err := f.identities.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "hash", byID.PasswordHash)

	stored, err := f.profiles.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "anam", stored.Username)
	assert.Equal(t, models.RoleEmployee, stored.Role)
	assert.Empty(t, stored.Salaries)

	_, err = f.identities.FindByEmail(ctx, "nobody@company.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIdentityRepository_CreateIsAtomic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addProfile(t, "tien", models.RoleEmployee)

	// Same username, different email: the profile insert fails, so the identity must not remain.
	ts := time.Now().UTC()
	id := uuid.NewString()
	ident := &models.Identity{ID: id, Email: "other@company.com", PasswordHash: "h", CreatedAt: ts, UpdatedAt: ts}
	p := &models.Profile{ID: id, Username: "tien", Name: "Dup", Email: ident.Email, Role: models.RoleEmployee, CreatedAt: ts, UpdatedAt: ts}

	err := f.identities.CreateWithProfile(ctx, ident, p)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.identities.FindByEmail(ctx, "other@company.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIdentityRepository_CreateRejectsUnknownRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ts := time.Now().UTC()
	id := uuid.NewString()
	ident := &models.Identity{ID: id, Email: "root@company.com", PasswordHash: "h", CreatedAt: ts, UpdatedAt: ts}
	p := &models.Profile{ID: id, Username: "root", Name: "Root", Email: ident.Email, Role: "admin", CreatedAt: ts, UpdatedAt: ts}

	assert.Error(t, f.identities.CreateWithProfile(ctx, ident, p))
	_, err := f.identities.FindByEmail(ctx, "root@company.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

type fakeRow []any

func (r fakeRow) Scan(dest ...any) error {
	for i, v := range r {
		switch d := dest[i].(type) {
		case *string:
			*d = v.(string)
		case *sql.NullString:
			*d = sql.NullString{String: v.(string), Valid: true}
		case *time.Time:
			*d = v.(time.Time)
		}
	}
	return nil
}

func TestScanProfile_RejectsUnknownRole(t *testing.T) {
	ts := time.Now().UTC()
	row := func(role string) fakeRow {
		return fakeRow{"id-1", "anam", "An Nam", "anam@company.com", role, "{}", ts, ts}
	}

	p, err := scanProfile(row("employee"))
	require.NoError(t, err)
	assert.Equal(t, models.RoleEmployee, p.Role)

	_, err = scanProfile(row("admin"))
	assert.ErrorContains(t, err, "unknown role")
}

func TestIdentityRepository_UpdatePasswordHash(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.addProfile(t, "hiep", models.RoleEmployee)

	require.NoError(t, f.identities.UpdatePasswordHash(ctx, p.ID, "new-hash"))
	ident, err := f.identities.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", ident.PasswordHash)

	assert.ErrorIs(t, f.identities.UpdatePasswordHash(ctx, "missing", "x"), ErrNotFound)
}

func TestIdentityRepository_DeleteCascade(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	emp := f.addProfile(t, "duy", models.RoleEmployee)
	other := f.addProfile(t, "hoa", models.RoleEmployee)

	require.NoError(t, f.leaves.Create(ctx, &models.LeaveRequest{UserID: emp.ID, UserName: emp.Name, Date: strPtr("2024-05-01"), Status: models.StatusPending, CanEdit: true}))
	require.NoError(t, f.advances.Create(ctx, &models.AdvanceRequest{UserID: emp.ID, UserName: emp.Name, Amount: 100, Status: models.StatusPending}))
	require.NoError(t, f.leaves.Create(ctx, &models.LeaveRequest{UserID: other.ID, UserName: other.Name, Date: strPtr("2024-05-02"), Status: models.StatusPending, CanEdit: true}))

	require.NoError(t, f.identities.DeleteCascade(ctx, emp.ID))

	_, err := f.profiles.FindByID(ctx, emp.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	leaves, err := f.leaves.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, leaves, 1)
	assert.Equal(t, other.ID, leaves[0].UserID)
	advances, err := f.advances.List(ctx, emp.ID)
	require.NoError(t, err)
	assert.Empty(t, advances)

	assert.ErrorIs(t, f.identities.DeleteCascade(ctx, emp.ID), ErrNotFound)
}

func TestProfileRepository_ListAndUsernames(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addProfile(t, "tu", models.RoleEmployee)
	boss := f.addProfile(t, "boss", models.RoleManager)
	f.addProfile(t, "anh", models.RoleEmployee)

	all, err := f.profiles.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"anh", "boss", "tu"}, []string{all[0].Username, all[1].Username, all[2].Username})

	employees, err := f.profiles.ListByRole(ctx, models.RoleEmployee)
	require.NoError(t, err)
	assert.Len(t, employees, 2)

	taken, err := f.profiles.UsernameTaken(ctx, "boss", "")
	require.NoError(t, err)
	assert.True(t, taken)
	taken, err = f.profiles.UsernameTaken(ctx, "boss", boss.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	byName, err := f.profiles.FindByUsername(ctx, "boss")
	require.NoError(t, err)
	assert.Equal(t, boss.ID, byName.ID)
}

func TestProfileRepository_Update(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.addProfile(t, "vy", models.RoleEmployee)

	updated, err := f.profiles.Update(ctx, p.ID, &models.ProfileUpdateDTO{Name: strPtr("VY")})
	require.NoError(t, err)
	assert.Equal(t, "VY", updated.Name)
	assert.Equal(t, "vy", updated.Username)

	_, err = f.profiles.Update(ctx, "missing", &models.ProfileUpdateDTO{Name: strPtr("x")})
	assert.ErrorIs(t, err, ErrNotFound)

	f.addProfile(t, "hau", models.RoleEmployee)
	_, err = f.profiles.Update(ctx, p.ID, &models.ProfileUpdateDTO{Username: strPtr("hau")})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestProfileRepository_SetSalaryUpserts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.addProfile(t, "luat", models.RoleEmployee)

	_, err := f.profiles.SetSalary(ctx, p.ID, "2024-04", 900)
	require.NoError(t, err)
	_, err = f.profiles.SetSalary(ctx, p.ID, "2024-05", 1000)
	require.NoError(t, err)
	ledger, err := f.profiles.SetSalary(ctx, p.ID, "2024-05", 1200)
	require.NoError(t, err)
	assert.Equal(t, models.Salaries{"2024-04": 900, "2024-05": 1200}, ledger)

	stored, err := f.profiles.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1200.0, stored.Salaries["2024-05"])
	assert.Equal(t, 900.0, stored.Salaries["2024-04"])

	_, err = f.profiles.SetSalary(ctx, "missing", "2024-05", 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLeaveRepository_Lifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	emp := f.addProfile(t, "giang", models.RoleEmployee)
	other := f.addProfile(t, "phuoc", models.RoleEmployee)

	first := &models.LeaveRequest{UserID: emp.ID, UserName: emp.Name, Date: strPtr("2024-05-01"), TimePeriod: strPtr("morning"), Status: models.StatusPending, CanEdit: true}
	require.NoError(t, f.leaves.Create(ctx, first))
	assert.NotZero(t, first.ID)
	assert.False(t, first.SubmittedAt.IsZero())

	legacy := &models.LeaveRequest{UserID: emp.ID, UserName: emp.Name, StartDate: strPtr("2024-06-01"), EndDate: strPtr("2024-06-03"),
		StartTimePeriod: strPtr("full-day"), EndTimePeriod: strPtr("full-day"), Type: strPtr("leave"), Reason: "trip", Status: models.StatusPending, CanEdit: true}
	require.NoError(t, f.leaves.Create(ctx, legacy))
	require.NoError(t, f.leaves.Create(ctx, &models.LeaveRequest{UserID: other.ID, UserName: other.Name, Date: strPtr("2024-05-09"), Status: models.StatusApproved}))

	got, err := f.leaves.FindByID(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Date)
	assert.Equal(t, "2024-05-01", *got.Date)
	assert.Nil(t, got.StartDate)
	assert.True(t, got.CanEdit)

	mine, err := f.leaves.List(ctx, emp.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, legacy.ID, mine[0].ID, "newest first")

	all, err := f.leaves.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	got.Reason = "doctor"
	got.TimePeriod = strPtr("afternoon")
	require.NoError(t, f.leaves.Update(ctx, got))

	approved, err := f.leaves.UpdateStatus(ctx, first.ID, models.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, approved.Status)
	assert.False(t, approved.CanEdit)
	assert.Equal(t, "doctor", approved.Reason)
	assert.Equal(t, "afternoon", *approved.TimePeriod)

	// Same status again still counts as a match.
	_, err = f.leaves.UpdateStatus(ctx, first.ID, models.StatusApproved)
	require.NoError(t, err)

	require.NoError(t, f.leaves.Delete(ctx, first.ID))
	_, err = f.leaves.FindByID(ctx, first.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.leaves.Delete(ctx, first.ID), ErrNotFound)
	_, err = f.leaves.UpdateStatus(ctx, first.ID, models.StatusRejected)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAdvanceRepository_Lifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	emp := f.addProfile(t, "thuong", models.RoleEmployee)

	req := &models.AdvanceRequest{UserID: emp.ID, UserName: emp.Name, Amount: 250.5, Reason: "rent", Status: models.StatusPending}
	require.NoError(t, f.advances.Create(ctx, req))
	second := &models.AdvanceRequest{UserID: emp.ID, UserName: emp.Name, Amount: 10, Status: models.StatusApproved}
	require.NoError(t, f.advances.Create(ctx, second))

	list, err := f.advances.List(ctx, emp.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)

	updated, err := f.advances.UpdateDetails(ctx, req.ID, 300, "rent and food")
	require.NoError(t, err)
	assert.Equal(t, 300.0, updated.Amount)
	assert.Equal(t, "rent and food", updated.Reason)

	rejected, err := f.advances.UpdateStatus(ctx, req.ID, models.StatusRejected)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, rejected.Status)

	require.NoError(t, f.advances.Delete(ctx, req.ID))
	assert.ErrorIs(t, f.advances.Delete(ctx, req.ID), ErrNotFound)
	_, err = f.advances.UpdateDetails(ctx, req.ID, 1, "")
	assert.ErrorIs(t, err, ErrNotFound)
}
