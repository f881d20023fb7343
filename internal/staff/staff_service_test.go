package staff_test

import (
	"context"
	"database/sql"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	employeeerrors "go-worktrack/internal/employee/errors"
	"go-worktrack/internal/events"
	"go-worktrack/internal/messaging/kafka"
	kafkaMock "go-worktrack/internal/messaging/kafka/mock"
	"go-worktrack/internal/project"
	projecterrors "go-worktrack/internal/project/errors"
	"go-worktrack/internal/shared/actor"
	"go-worktrack/internal/shared/apperror"
	"go-worktrack/internal/staff"
	stafferrors "go-worktrack/internal/staff/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fakeStaffRepository struct {
	listFn   func(ctx context.Context, employeeID int64, projectID *int64) ([]staff.DailyActivity, error)
	findFn   func(ctx context.Context, projectID, employeeID int64, day time.Time) (*staff.DailyActivity, error)
	createFn func(ctx context.Context, d *staff.DailyActivity) error
}

func (f *fakeStaffRepository) WithTx(tx *sql.Tx) staff.Repository {
	return f
}

func (f *fakeStaffRepository) ListDailyActivities(ctx context.Context, employeeID int64, projectID *int64) ([]staff.DailyActivity, error) {
	if f.listFn != nil {
		return f.listFn(ctx, employeeID, projectID)
	}
	return nil, nil
}

func (f *fakeStaffRepository) FindDailyActivity(ctx context.Context, projectID, employeeID int64, day time.Time) (*staff.DailyActivity, error) {
	if f.findFn != nil {
		return f.findFn(ctx, projectID, employeeID, day)
	}
	return nil, nil
}

func (f *fakeStaffRepository) CreateDailyActivity(ctx context.Context, d *staff.DailyActivity) error {
	if f.createFn != nil {
		return f.createFn(ctx, d)
	}
	return nil
}

type fakeProjectRepository struct {
	existsFn   func(ctx context.Context, id int64) (bool, error)
	assignedFn func(ctx context.Context, projectID, employeeID int64) (bool, error)
	listFn     func(ctx context.Context, employeeID int64) ([]project.Project, error)
}

func (f *fakeProjectRepository) FindByID(ctx context.Context, id int64) (*project.Project, error) {
	return nil, projecterrors.ErrProjectNotFound
}

func (f *fakeProjectRepository) Exists(ctx context.Context, id int64) (bool, error) {
	if f.existsFn != nil {
		return f.existsFn(ctx, id)
	}
	return true, nil
}

func (f *fakeProjectRepository) IsAssigned(ctx context.Context, projectID, employeeID int64) (bool, error) {
	if f.assignedFn != nil {
		return f.assignedFn(ctx, projectID, employeeID)
	}
	return true, nil
}

func (f *fakeProjectRepository) ListAssignedTo(ctx context.Context, employeeID int64) ([]project.Project, error) {
	if f.listFn != nil {
		return f.listFn(ctx, employeeID)
	}
	return nil, nil
}

type staffServiceDeps struct {
	db       *sql.DB
	sqlMock  sqlmock.Sqlmock
	service  staff.Service
	repo     *fakeStaffRepository
	projects *fakeProjectRepository
	outbox   *kafkaMock.MockOutboxRepository
}

func setupStaffServiceTest(t *testing.T) *staffServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctrl := gomock.NewController(t)
	deps := &staffServiceDeps{
		db:       db,
		sqlMock:  sqlMock,
		repo:     &fakeStaffRepository{},
		projects: &fakeProjectRepository{},
		outbox:   kafkaMock.NewMockOutboxRepository(ctrl),
	}
	deps.service = staff.NewService(db, deps.repo, deps.projects, deps.outbox)
	return deps
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func linked(employeeID int64) actor.Actor {
	return actor.Actor{UserID: 100 + employeeID, EmployeeID: &employeeID, Role: actor.RoleStaff}
}

func TestStaffService_ListAssignedProjects(t *testing.T) {
	ctx := context.Background()

	t.Run("success reflects assignments made between calls", func(t *testing.T) {
		deps := setupStaffServiceTest(t)

		var calls int32
		var assigned []project.Project
		deps.projects.listFn = func(ctx context.Context, employeeID int64) ([]project.Project, error) {
			atomic.AddInt32(&calls, 1)
			assert.Equal(t, int64(8), employeeID)
			return assigned, nil
		}

		first, err := deps.service.ListAssignedProjects(ctx, linked(8))
		require.NoError(t, err)
		assert.Empty(t, first)

		assigned = []project.Project{{ID: 1, Name: "Bridge", Activities: []project.Activity{{ID: 3, ProjectID: 1, Title: "Survey"}}}}

		second, err := deps.service.ListAssignedProjects(ctx, linked(8))
		require.NoError(t, err)
		require.Len(t, second, 1)
		assert.Equal(t, int64(1), second[0].ID)
		require.Len(t, second[0].Activities, 1)
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	})

	t.Run("success canceled caller does not cancel the shared query", func(t *testing.T) {
		deps := setupStaffServiceTest(t)
		deps.projects.listFn = func(ctx context.Context, employeeID int64) ([]project.Project, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return []project.Project{{ID: 1, Name: "Bridge"}}, nil
		}

		canceled, cancel := context.WithCancel(ctx)
		cancel()

		got, err := deps.service.ListAssignedProjects(canceled, linked(7))
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("success empty set is an empty list", func(t *testing.T) {
		deps := setupStaffServiceTest(t)

		got, err := deps.service.ListAssignedProjects(ctx, linked(7))
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("negative no identity", func(t *testing.T) {
		deps := setupStaffServiceTest(t)

		_, err := deps.service.ListAssignedProjects(ctx, actor.Actor{})
		assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	})

	t.Run("negative no employee linkage", func(t *testing.T) {
		deps := setupStaffServiceTest(t)

		_, err := deps.service.ListAssignedProjects(ctx, actor.Actor{UserID: 1, Role: actor.RoleStaff})
		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}

func TestStaffService_ListDailyActivities(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupStaffServiceTest(t)
		deps.repo.listFn = func(ctx context.Context, employeeID int64, projectID *int64) ([]staff.DailyActivity, error) {
			require.NotNil(t, projectID)
			assert.Equal(t, int64(1), *projectID)
			return []staff.DailyActivity{{ID: 1, ProjectID: 1, EmployeeID: employeeID, SubmissionDate: date(2024, 5, 1)}}, nil
		}

		got, err := deps.service.ListDailyActivities(ctx, linked(7), 1)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "2024-05-01", got[0].SubmissionDate)
	})

	t.Run("negative project missing", func(t *testing.T) {
		deps := setupStaffServiceTest(t)
		deps.projects.existsFn = func(ctx context.Context, id int64) (bool, error) {
			return false, nil
		}

		_, err := deps.service.ListDailyActivities(ctx, linked(7), 1)
		assert.ErrorIs(t, err, projecterrors.ErrProjectNotFound)
	})

	t.Run("negative not assigned", func(t *testing.T) {
		deps := setupStaffServiceTest(t)
		deps.projects.assignedFn = func(ctx context.Context, projectID, employeeID int64) (bool, error) {
			return false, nil
		}

		_, err := deps.service.ListDailyActivities(ctx, linked(7), 1)
		assert.ErrorIs(t, err, projecterrors.ErrNotAssigned)
	})

	t.Run("negative all entries need linkage", func(t *testing.T) {
		deps := setupStaffServiceTest(t)

		_, err := deps.service.ListAllDailyActivities(ctx, actor.Actor{UserID: 1, Role: actor.RoleStaff})
		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}

func TestStaffService_SubmitDailyActivity(t *testing.T) {
	ctx := context.Background()
	req := staff.SubmitDailyActivityRequest{SubmissionDate: "2024-05-01", ActivityDescription: "Site survey"}

	t.Run("success", func(t *testing.T) {
		deps := setupStaffServiceTest(t)
		expectTx(t, deps.sqlMock, true)

		deps.repo.createFn = func(ctx context.Context, d *staff.DailyActivity) error {
			assert.Equal(t, staff.DailyActivityStatusPending, d.Status)
			assert.Equal(t, int64(7), d.EmployeeID)
			assert.Equal(t, date(2024, 5, 1), d.SubmissionDate)
			d.ID = 21
			return nil
		}
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, e kafka.OutboxEvent) error {
			assert.Equal(t, events.DailyActivitySubmitted, e.EventType)
			assert.Equal(t, "21", e.AggregateID)
			return nil
		})

		got, err := deps.service.SubmitDailyActivity(ctx, linked(7), 1, req)
		require.NoError(t, err)
		assert.Equal(t, int64(21), got.ID)
		assert.Equal(t, staff.DailyActivityStatusPending, got.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative existing entry returns conflict with record", func(t *testing.T) {
		deps := setupStaffServiceTest(t)
		expectTx(t, deps.sqlMock, false)

		deps.repo.findFn = func(ctx context.Context, projectID, employeeID int64, day time.Time) (*staff.DailyActivity, error) {
			return &staff.DailyActivity{ID: 9, ProjectID: projectID, EmployeeID: employeeID, SubmissionDate: day}, nil
		}

		_, err := deps.service.SubmitDailyActivity(ctx, linked(7), 1, req)

		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.CodeConflict, appErr.Code)
		existing, ok := appErr.Details.(staff.DailyActivityResponse)
		require.True(t, ok)
		assert.Equal(t, int64(9), existing.ID)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative lost insert race returns winner", func(t *testing.T) {
		deps := setupStaffServiceTest(t)
		expectTx(t, deps.sqlMock, false)

		var lookups int
		deps.repo.findFn = func(ctx context.Context, projectID, employeeID int64, day time.Time) (*staff.DailyActivity, error) {
			lookups++
			if lookups == 1 {
				return nil, nil
			}
			return &staff.DailyActivity{ID: 10, ProjectID: projectID, EmployeeID: employeeID, SubmissionDate: day}, nil
		}
		deps.repo.createFn = func(ctx context.Context, d *staff.DailyActivity) error {
			return stafferrors.ErrDailyActivityExists
		}

		_, err := deps.service.SubmitDailyActivity(ctx, linked(7), 1, req)

		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, int64(10), appErr.Details.(staff.DailyActivityResponse).ID)
	})

	t.Run("negative invalid date", func(t *testing.T) {
		deps := setupStaffServiceTest(t)

		_, err := deps.service.SubmitDailyActivity(ctx, linked(7), 1, staff.SubmitDailyActivityRequest{
			SubmissionDate:      "01/05/2024",
			ActivityDescription: "x",
		})

		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Contains(t, appErr.Details.(apperror.FieldErrors), "submission_date")
	})

	t.Run("negative outbox failure", func(t *testing.T) {
		deps := setupStaffServiceTest(t)
		expectTx(t, deps.sqlMock, false)

		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("insert failed"))

		_, err := deps.service.SubmitDailyActivity(ctx, linked(7), 1, req)
		assert.Error(t, err)
	})
}
