package audit_test

import (
	"context"
	"testing"

	"go-worktrack/internal/audit"
	"go-worktrack/internal/shared/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository(t *testing.T) {
	db := testdb.Open(t, &audit.AuditLog{})
	repo := audit.NewRepository(db)
	ctx := context.Background()

	userID := int64(4)
	first := &audit.AuditLog{EventID: "evt-1", UserID: &userID, Entity: "leave", EntityID: 12, Action: "leave_status_changed", Details: `{}`}
	require.NoError(t, repo.Create(ctx, first))

	t.Run("duplicate event collapses", func(t *testing.T) {
		err := repo.Create(ctx, &audit.AuditLog{EventID: "evt-1", Entity: "leave", EntityID: 12, Action: "leave_status_changed"})
		assert.ErrorIs(t, err, audit.ErrDuplicateEvent)
	})

	t.Run("list by entity", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, &audit.AuditLog{EventID: "evt-2", Entity: "leave", EntityID: 13, Action: "leave_status_changed"}))

		logs, err := repo.ListByEntity(ctx, "leave", 12)
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, "evt-1", logs[0].EventID)
	})
}
