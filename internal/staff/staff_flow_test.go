package staff_test

import (
	"context"
	"database/sql"
	"testing"

	"go-worktrack/internal/messaging/kafka"
	"go-worktrack/internal/project"
	projecterrors "go-worktrack/internal/project/errors"
	"go-worktrack/internal/staff"
	stafferrors "go-worktrack/internal/staff/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingOutbox struct {
	kafka.OutboxRepository
	created []kafka.OutboxEvent
}

func (r *recordingOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository {
	return r
}

func (r *recordingOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	r.created = append(r.created, event)
	return nil
}

func TestDailyActivityFlow_SecondSubmissionConflicts(t *testing.T) {
	ctx := context.Background()
	db := openStaffDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	outbox := &recordingOutbox{}
	svc := staff.NewService(sqlDB, staff.NewRepository(db), project.NewRepository(db), outbox, zap.NewNop())
	sari := linked(7)
	req := staff.SubmitDailyActivityRequest{SubmissionDate: "2024-05-01", ActivityDescription: "Survey"}

	first, err := svc.SubmitDailyActivity(ctx, sari, 1, req)
	require.NoError(t, err)

	_, err = svc.SubmitDailyActivity(ctx, sari, 1, req)
	assert.ErrorIs(t, err, stafferrors.ErrDailyActivityExists)

	rows, err := svc.ListDailyActivities(ctx, sari, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, first.ID, rows[0].ID)
	assert.Len(t, outbox.created, 1)

	_, err = svc.SubmitDailyActivity(ctx, linked(8), 1, req)
	assert.ErrorIs(t, err, projecterrors.ErrNotAssigned)

	projects, err := svc.ListAssignedProjects(ctx, sari)
	require.NoError(t, err)
	assert.Len(t, projects, 2)

	all, err := svc.ListAllDailyActivities(ctx, sari)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.NotNil(t, all[0].Project)
	assert.Equal(t, "Bridge", all[0].Project.Name)
}

func TestStaffProjectsFlow_NewAssignmentIsVisibleImmediately(t *testing.T) {
	ctx := context.Background()
	db := openStaffDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	svc := staff.NewService(sqlDB, staff.NewRepository(db), project.NewRepository(db), &recordingOutbox{}, zap.NewNop())
	budi := linked(8)

	before, err := svc.ListAssignedProjects(ctx, budi)
	require.NoError(t, err)
	assert.Empty(t, before)

	employeeID := int64(8)
	require.NoError(t, db.Create(&project.Activity{ProjectID: 1, AssignedTo: &employeeID, Title: "Inspection"}).Error)

	after, err := svc.ListAssignedProjects(ctx, budi)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, int64(1), after[0].ID)

	_, err = svc.ListDailyActivities(ctx, budi, 1)
	assert.NoError(t, err)
}
