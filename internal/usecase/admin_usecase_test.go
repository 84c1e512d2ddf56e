package usecase_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"care-recruitment-backend/internal/domain"
	"care-recruitment-backend/internal/usecase"
	"care-recruitment-backend/pkg/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestGetStats_CountsSumToTotal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.submit(t, "n1@example.com", domain.RoleNurse)
	f.submit(t, "n2@example.com", domain.RoleNurse)
	f.submit(t, "m1@example.com", domain.RoleMidwife)
	care := f.submit(t, "c1@example.com", domain.RoleCaregiver)
	f.submit(t, "o1@example.com", "pharmacist")

	_, err := f.tests.SubmitAnswers(ctx, *care.TestID, map[string]int{"q1": 1, "q2": 1, "q3": 1, "q4": 1, "q5": 2})
	require.NoError(t, err)

	stats, err := f.admin.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 4, stats.Pending)
	assert.Equal(t, 1, stats.Approved)
	assert.Equal(t, stats.Total, stats.Pending+stats.Testing+stats.Approved+stats.Rejected)
	assert.Equal(t, domain.RoleCounts{Nurse: 2, Midwife: 1, Caregiver: 1}, stats.ByRole)
}

func TestGetStats_Empty(t *testing.T) {
	f := newFixture(t)

	stats, err := f.admin.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &domain.AdminStats{}, stats)
}

func TestUpdateStatus_OverrideReflectedInStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := f.submit(t, "flip@example.com", domain.RoleNurse)

	app, err := f.admin.UpdateStatus(ctx, res.ApplicationID, domain.ApplicationStatusRejected)
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusRejected, app.Status)

	stats, err := f.admin.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Rejected)

	app, err = f.admin.UpdateStatus(ctx, res.ApplicationID, domain.ApplicationStatusPending)
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusPending, app.Status)

	stats, err = f.admin.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Rejected)
	assert.Equal(t, 1, stats.Pending)
}

func TestUpdateStatus_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := f.submit(t, "bad@example.com", domain.RoleNurse)

	_, err := f.admin.UpdateStatus(ctx, res.ApplicationID, "hired")
	requireAppError(t, err, 400)

	_, err = f.admin.UpdateStatus(ctx, "missing", domain.ApplicationStatusApproved)
	requireAppError(t, err, 404)
}

func TestUpdateStatus_Audited(t *testing.T) {
	f := newFixture(t)
	core, logs := observer.New(zap.InfoLevel)
	admin := usecase.NewAdminUsecase(f.store.Users(), f.store.Applications(), f.store.Tests(),
		security.NewAuditLoggerWith(zap.New(core), "test", "test"))

	res := f.submit(t, "audit@example.com", domain.RoleNurse)
	ctx := context.WithValue(context.Background(), domain.KeyAdminUsername, "admin")
	_, err := admin.UpdateStatus(ctx, res.ApplicationID, domain.ApplicationStatusApproved)
	require.NoError(t, err)

	entries := logs.FilterMessage(string(security.EventStatusOverride)).All()
	require.Len(t, entries, 1)
}

func TestListApplications_JoinsAndFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	nurse := f.submit(t, "list-n@example.com", domain.RoleNurse)
	care := f.submit(t, "list-c@example.com", domain.RoleCaregiver)
	_, err := f.admin.UpdateStatus(ctx, nurse.ApplicationID, domain.ApplicationStatusRejected)
	require.NoError(t, err)

	all, err := f.admin.ListApplications(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Newest first
	assert.Equal(t, care.ApplicationID, all[0].ID)
	require.NotNil(t, all[0].User)
	assert.Equal(t, "list-c@example.com", all[0].User.Email)
	require.NotNil(t, all[0].Test)
	assert.False(t, all[0].Test.Completed)
	assert.Nil(t, all[1].Test)

	viaAll, err := f.admin.ListApplications(ctx, "all")
	require.NoError(t, err)
	assert.Len(t, viaAll, 2)

	rejected, err := f.admin.ListApplications(ctx, domain.ApplicationStatusRejected)
	require.NoError(t, err)
	require.Len(t, rejected, 1)
	assert.Equal(t, nurse.ApplicationID, rejected[0].ID)

	_, err = f.admin.ListApplications(ctx, "archived")
	requireAppError(t, err, 400)
}

func TestListApplications_MissingUserIsNull(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	orphan := &domain.Application{UserID: "ghost", Role: domain.RoleNurse}
	require.NoError(t, f.store.Applications().Create(ctx, orphan))

	rows, err := f.admin.ListApplications(ctx, "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].User)
}

func TestGetApplication(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := f.submit(t, "one@example.com", domain.RoleCaregiver)

	row, err := f.admin.GetApplication(ctx, res.ApplicationID)
	require.NoError(t, err)
	assert.Equal(t, res.ApplicationID, row.ID)
	assert.Equal(t, "Maria Santos", row.User.FullName)
	assert.NotNil(t, row.Test)

	_, err = f.admin.GetApplication(ctx, "missing")
	requireAppError(t, err, 404)
}

func TestExportApplications(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := f.submit(t, "export@example.com", domain.RoleMidwife)

	t.Run("csv", func(t *testing.T) {
		file, err := f.admin.ExportApplications(ctx, "csv")
		require.NoError(t, err)
		assert.Equal(t, "text/csv", file.ContentType)
		assert.Contains(t, file.Filename, ".csv")

		records, err := csv.NewReader(bytes.NewReader(file.Data)).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "APPLICATION ID", records[0][0])
		assert.Equal(t, res.ApplicationID, records[1][0])
		assert.Contains(t, records[1], "export@example.com")
	})

	t.Run("xlsx", func(t *testing.T) {
		file, err := f.admin.ExportApplications(ctx, "xlsx")
		require.NoError(t, err)
		assert.Contains(t, file.Filename, ".xlsx")

		book, err := excelize.OpenReader(bytes.NewReader(file.Data))
		require.NoError(t, err)
		defer book.Close()

		rows, err := book.GetRows("Applications")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "ROLE", rows[0][2])
		assert.Equal(t, domain.RoleMidwife, rows[1][2])
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := f.admin.ExportApplications(ctx, "pdf")
		requireAppError(t, err, 400)
	})
}
