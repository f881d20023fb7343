package producer_test

import (
	"context"
	"errors"
	"testing"

	"go-worktrack/internal/messaging/kafka"
	kafkaMock "go-worktrack/internal/messaging/kafka/mock"
	"go-worktrack/internal/messaging/kafka/producer"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type fakeWriter struct {
	written []kafkago.Message
	failFor string
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		if m.Topic == f.failFor {
			return errors.New("broker unavailable")
		}
		f.written = append(f.written, m)
	}
	return nil
}

func TestProcessPendingEvents(t *testing.T) {
	ctx := context.Background()

	t.Run("success publishes and marks sent", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := kafkaMock.NewMockOutboxRepository(ctrl)
		writer := &fakeWriter{}

		repo.EXPECT().ListPending(gomock.Any(), 50).Return([]kafka.OutboxEvent{
			{ID: "evt-1", RequestID: "rid-1", AggregateType: "leave", AggregateID: "12", EventType: "leave_status_changed", Topic: "worktrack.leave.status.v1", Payload: []byte(`{}`)},
		}, nil)
		repo.EXPECT().MarkSent(gomock.Any(), "evt-1").Return(nil)

		sent, err := producer.ProcessPendingEvents(ctx, repo, writer, zap.NewNop())

		require.NoError(t, err)
		assert.Equal(t, 1, sent)
		require.Len(t, writer.written, 1)
		assert.Equal(t, "leave:12", string(writer.written[0].Key))
		assert.Len(t, writer.written[0].Headers, 4)
	})

	t.Run("negative publish failure marks failed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := kafkaMock.NewMockOutboxRepository(ctrl)
		writer := &fakeWriter{failFor: "bad.topic"}

		repo.EXPECT().ListPending(gomock.Any(), 50).Return([]kafka.OutboxEvent{
			{ID: "evt-2", AggregateType: "task", AggregateID: "1", EventType: "x", Topic: "bad.topic", Payload: []byte(`{}`)},
		}, nil)
		repo.EXPECT().MarkFailed(gomock.Any(), "evt-2", "broker unavailable").Return(nil)

		sent, err := producer.ProcessPendingEvents(ctx, repo, writer, zap.NewNop())

		require.NoError(t, err)
		assert.Equal(t, 0, sent)
	})

	t.Run("negative list error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := kafkaMock.NewMockOutboxRepository(ctrl)

		repo.EXPECT().ListPending(gomock.Any(), 50).Return(nil, errors.New("db down"))

		_, err := producer.ProcessPendingEvents(ctx, repo, &fakeWriter{}, zap.NewNop())
		assert.Error(t, err)
	})
}
