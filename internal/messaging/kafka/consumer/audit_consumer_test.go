package consumer_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-worktrack/internal/audit"
	"go-worktrack/internal/messaging/kafka/consumer"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAuditRepo struct {
	created  []*audit.AuditLog
	err      error
	failures int
	attempts int
	onFail   func()
}

// Create fails with err for the first failures calls, or always when
// failures is zero.
func (f *fakeAuditRepo) Create(ctx context.Context, log *audit.AuditLog) error {
	f.attempts++
	if f.err != nil && (f.failures == 0 || f.attempts <= f.failures) {
		if f.onFail != nil {
			f.onFail()
		}
		return f.err
	}
	f.created = append(f.created, log)
	return nil
}

func (f *fakeAuditRepo) ListByEntity(ctx context.Context, entity string, entityID int64) ([]audit.AuditLog, error) {
	return nil, nil
}

type fakeReader struct {
	msgs       []kafkago.Message
	committed  []kafkago.Message
	cancel     context.CancelFunc
	fetchErrs  int
	fetchCalls int
}

func (f *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	f.fetchCalls++
	if f.fetchErrs > 0 {
		f.fetchErrs--
		return kafkago.Message{}, errors.New("broker unavailable")
	}
	if len(f.msgs) == 0 {
		f.cancel()
		return kafkago.Message{}, ctx.Err()
	}
	m := f.msgs[0]
	f.msgs = f.msgs[1:]
	return m, nil
}

func (f *fakeReader) CommitMessages(ctx context.Context, msgs ...kafkago.Message) error {
	f.committed = append(f.committed, msgs...)
	return nil
}

func leaveMessage() kafkago.Message {
	return kafkago.Message{
		Topic: "worktrack.leave.status.v1",
		Key:   []byte("leave:12"),
		Value: []byte(`{"event_type":"leave_status_changed","request_id":"rid-9","leave_id":12,"actor_user_id":4}`),
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte("leave_status_changed")},
			{Key: "outbox_id", Value: []byte("evt-1")},
		},
	}
}

func TestHandleAuditMessage(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := &fakeAuditRepo{}
		require.NoError(t, consumer.HandleAuditMessage(context.Background(), leaveMessage(), repo))

		require.Len(t, repo.created, 1)
		got := repo.created[0]
		assert.Equal(t, "evt-1", got.EventID)
		assert.Equal(t, "leave", got.Entity)
		assert.Equal(t, int64(12), got.EntityID)
		assert.Equal(t, "leave_status_changed", got.Action)
		assert.Equal(t, "rid-9", got.RequestID)
		require.NotNil(t, got.UserID)
		assert.Equal(t, int64(4), *got.UserID)
	})

	t.Run("negative malformed key", func(t *testing.T) {
		msg := leaveMessage()
		msg.Key = []byte("nokey")
		assert.Error(t, consumer.HandleAuditMessage(context.Background(), msg, &fakeAuditRepo{}))
	})
}

func TestConsumeAuditEvents(t *testing.T) {
	t.Run("commits stored and duplicate messages", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		reader := &fakeReader{msgs: []kafkago.Message{leaveMessage()}, cancel: cancel}

		consumer.ConsumeAuditEvents(ctx, reader, &fakeAuditRepo{err: audit.ErrDuplicateEvent}, zap.NewNop())

		assert.Len(t, reader.committed, 1)
	})

	t.Run("store failure retries the same message before committing", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		reader := &fakeReader{msgs: []kafkago.Message{leaveMessage()}, cancel: cancel}
		repo := &fakeAuditRepo{err: errors.New("db down"), failures: 2}

		consumer.ConsumeAuditEvents(ctx, reader, repo, zap.NewNop(), consumer.WithRetryBackoff(time.Millisecond, 2*time.Millisecond))

		assert.Equal(t, 3, repo.attempts)
		require.Len(t, repo.created, 1)
		assert.Equal(t, "evt-1", repo.created[0].EventID)
		require.Len(t, reader.committed, 1)
		assert.Equal(t, 2, reader.fetchCalls)
	})

	t.Run("negative stop while store keeps failing leaves message uncommitted", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		second := leaveMessage()
		second.Offset = 1
		reader := &fakeReader{msgs: []kafkago.Message{leaveMessage(), second}, cancel: cancel}
		repo := &fakeAuditRepo{err: errors.New("db down")}
		repo.onFail = func() {
			if repo.attempts == 3 {
				cancel()
			}
		}

		consumer.ConsumeAuditEvents(ctx, reader, repo, zap.NewNop(), consumer.WithRetryBackoff(time.Millisecond, time.Millisecond))

		assert.Empty(t, reader.committed)
		assert.Empty(t, repo.created)
		assert.Equal(t, 1, reader.fetchCalls)
	})

	t.Run("fetch errors back off and recover", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		reader := &fakeReader{msgs: []kafkago.Message{leaveMessage()}, cancel: cancel, fetchErrs: 2}
		repo := &fakeAuditRepo{}

		consumer.ConsumeAuditEvents(ctx, reader, repo, zap.NewNop(), consumer.WithRetryBackoff(time.Millisecond, time.Millisecond))

		assert.Len(t, repo.created, 1)
		assert.Len(t, reader.committed, 1)
		assert.Equal(t, 4, reader.fetchCalls)
	})
}
