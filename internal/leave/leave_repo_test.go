package leave_test

import (
	"context"
	"testing"
	"time"

	"go-worktrack/internal/department"
	"go-worktrack/internal/employee"
	"go-worktrack/internal/leave"
	leaveerrors "go-worktrack/internal/leave/errors"
	"go-worktrack/internal/shared/request"
	"go-worktrack/internal/shared/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedLeaveFixtures(t *testing.T, db *gorm.DB) {
	t.Helper()

	manager := int64(5)
	require.NoError(t, db.Create(&department.Department{ID: 1, Name: "Engineering", ManagerID: &manager}).Error)
	dept := int64(1)
	for _, emp := range []employee.Employee{
		{ID: 5, FullName: "Dewi Manager", Email: "dewi@example.com", DepartmentID: &dept},
		{ID: 7, FullName: "Sari Staff", Email: "sari@example.com", DepartmentID: &dept},
		{ID: 8, FullName: "Budi Staff", Email: "budi@example.com", DepartmentID: &dept},
		{ID: 9, FullName: "Rina HR", Email: "rina@example.com"},
	} {
		emp := emp
		require.NoError(t, db.Create(&emp).Error)
	}
}

func openLeaveDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := testdb.Open(t, &department.Department{}, &employee.Employee{}, &leave.Leave{})
	seedLeaveFixtures(t, db)
	return db
}

func newLeave(employeeID int64, status string, createdAt time.Time) *leave.Leave {
	return &leave.Leave{
		EmployeeID: employeeID,
		LeaveType:  leave.TypeAnnual,
		StartDate:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
		Days:       2,
		Status:     status,
		CreatedAt:  createdAt,
	}
}

func TestLeaveRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("find loads owner and department", func(t *testing.T) {
		repo := leave.NewRepository(openLeaveDB(t))
		l := newLeave(7, leave.StatusPending, time.Now())
		require.NoError(t, repo.Create(ctx, l))

		got, err := repo.FindByID(ctx, l.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Employee)
		assert.Equal(t, "Sari Staff", got.Employee.FullName)
		require.NotNil(t, got.Employee.Department)
		assert.Equal(t, int64(5), *leave.SubjectOf(*got).OwnerDepartmentManagerID)
	})

	t.Run("list filters and orders newest first", func(t *testing.T) {
		repo := leave.NewRepository(openLeaveDB(t))
		base := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
		require.NoError(t, repo.Create(ctx, newLeave(7, leave.StatusPending, base)))
		require.NoError(t, repo.Create(ctx, newLeave(7, leave.StatusApproved, base.Add(time.Hour))))
		require.NoError(t, repo.Create(ctx, newLeave(8, leave.StatusPending, base.Add(2*time.Hour))))

		all, total, err := repo.List(ctx, leave.ListFilter{Page: request.Page{Page: 1, PerPage: 15}})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, all, 3)
		assert.Equal(t, int64(8), all[0].EmployeeID)
		require.NotNil(t, all[0].Employee)

		own := int64(7)
		mine, total, err := repo.List(ctx, leave.ListFilter{EmployeeID: &own, Status: leave.StatusPending, Page: request.Page{Page: 1, PerPage: 15}})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, mine, 1)
		assert.Equal(t, int64(7), mine[0].EmployeeID)

		paged, total, err := repo.List(ctx, leave.ListFilter{Page: request.Page{Page: 2, PerPage: 2}})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, paged, 1)
	})

	t.Run("delete missing returns not found", func(t *testing.T) {
		repo := leave.NewRepository(openLeaveDB(t))
		assert.ErrorIs(t, repo.Delete(ctx, 999), leaveerrors.ErrLeaveNotFound)

		_, err := repo.FindByID(ctx, 999)
		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})

	t.Run("with tx rollback discards writes", func(t *testing.T) {
		db := openLeaveDB(t)
		repo := leave.NewRepository(db)
		sqlDB, err := db.DB()
		require.NoError(t, err)

		tx, err := sqlDB.BeginTx(ctx, nil)
		require.NoError(t, err)
		require.NoError(t, repo.WithTx(tx).Create(ctx, newLeave(7, leave.StatusPending, time.Now())))
		require.NoError(t, tx.Rollback())

		_, total, err := repo.List(ctx, leave.ListFilter{Page: request.Page{Page: 1, PerPage: 15}})
		require.NoError(t, err)
		assert.Zero(t, total)
	})

	t.Run("employee exists", func(t *testing.T) {
		repo := leave.NewRepository(openLeaveDB(t))

		ok, err := repo.EmployeeExists(ctx, 7)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.EmployeeExists(ctx, 404)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
