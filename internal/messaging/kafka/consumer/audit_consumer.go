package consumer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go-worktrack/internal/audit"
	"go-worktrack/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the subset of *kafkago.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

const (
	defaultRetryInitial = 500 * time.Millisecond
	defaultRetryMax     = 30 * time.Second
)

type retryBackoff struct {
	initial time.Duration
	max     time.Duration
}

// Option tunes ConsumeAuditEvents.
type Option func(*retryBackoff)

// WithRetryBackoff sets the first and the largest wait between attempts
// after a fetch or store failure. The wait doubles up to max.
func WithRetryBackoff(initial, max time.Duration) Option {
	return func(b *retryBackoff) {
		if initial > 0 {
			b.initial = initial
		}
		if max >= b.initial {
			b.max = max
		}
	}
}

func (b retryBackoff) next(d time.Duration) time.Duration {
	if d == 0 {
		return b.initial
	}
	if d *= 2; d > b.max {
		return b.max
	}
	return d
}

// ConsumeAuditEvents stores every domain event as an audit_logs row until
// ctx is cancelled. Messages are committed only after they are stored; a
// message that fails to store is retried and the reader never moves past it.
func ConsumeAuditEvents(
	ctx context.Context,
	reader MessageReader,
	repo audit.Repository,
	logger *zap.Logger,
	opts ...Option,
) {
	backoff := retryBackoff{initial: defaultRetryInitial, max: defaultRetryMax}
	for _, opt := range opts {
		opt(&backoff)
	}

	log := logger.Named("kafka.consumer.audit")
	log.Info("audit consumer started")

	var fetchWait time.Duration
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("audit consumer stopped")
				return
			}
			fetchWait = backoff.next(fetchWait)
			log.Error("fetch audit message failed", zap.Duration("retry_in", fetchWait), zap.Error(err))
			if !sleep(ctx, fetchWait) {
				log.Info("audit consumer stopped")
				return
			}
			continue
		}
		fetchWait = 0

		if !storeWithRetry(ctx, log, backoff, msg, repo) {
			log.Info("audit consumer stopped before storing message",
				zap.String("topic", msg.Topic),
				zap.Int64("offset", msg.Offset),
			)
			return
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit audit message failed", zap.Error(err))
			continue
		}

		log.Info("audit event recorded",
			zap.String("topic", msg.Topic),
			zap.String("event_type", header(msg, "event_type")),
		)
	}
}

// storeWithRetry reports whether msg is settled and may be committed. It
// returns false only when ctx ends first.
func storeWithRetry(
	ctx context.Context,
	log *zap.Logger,
	backoff retryBackoff,
	msg kafkago.Message,
	repo audit.Repository,
) bool {
	var wait time.Duration
	for {
		err := HandleAuditMessage(ctx, msg, repo)
		switch {
		case err == nil:
			return true
		case errors.Is(err, audit.ErrDuplicateEvent):
			log.Warn("audit event already recorded, skipping",
				zap.String("topic", msg.Topic),
				zap.String("outbox_id", header(msg, "outbox_id")),
			)
			return true
		case errors.Is(err, errUndecodable):
			log.Error("decode audit message failed", zap.String("topic", msg.Topic), zap.Error(err))
			return true
		}

		wait = backoff.next(wait)
		log.Error("store audit event failed",
			zap.String("topic", msg.Topic),
			zap.Int64("offset", msg.Offset),
			zap.Duration("retry_in", wait),
			zap.Error(err),
		)
		if !sleep(ctx, wait) {
			return false
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

var errUndecodable = errors.New("undecodable audit message")

// HandleAuditMessage converts one message into an audit row.
func HandleAuditMessage(ctx context.Context, msg kafkago.Message, repo audit.Repository) error {
	env, err := events.DecodeEnvelope(msg.Value)
	if err != nil {
		return fmt.Errorf("%w: %v", errUndecodable, err)
	}

	entity, entityID, err := parseKey(string(msg.Key))
	if err != nil {
		return fmt.Errorf("%w: %v", errUndecodable, err)
	}

	eventID := header(msg, "outbox_id")
	if eventID == "" {
		eventID = fmt.Sprintf("%s-%d-%d", msg.Topic, msg.Partition, msg.Offset)
	}

	action := env.EventType
	if action == "" {
		action = header(msg, "event_type")
	}

	requestID := env.RequestID
	if requestID == "" {
		requestID = header(msg, "request_id")
	}

	var userID *int64
	if env.ActorUserID != 0 {
		uid := env.ActorUserID
		userID = &uid
	}

	return repo.Create(ctx, &audit.AuditLog{
		EventID:   eventID,
		RequestID: requestID,
		UserID:    userID,
		Entity:    entity,
		EntityID:  entityID,
		Action:    action,
		Details:   string(msg.Value),
	})
}

// parseKey splits a "<aggregate>:<id>" message key.
func parseKey(key string) (string, int64, error) {
	entity, rawID, ok := strings.Cut(key, ":")
	if !ok || entity == "" {
		return "", 0, fmt.Errorf("malformed key %q", key)
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("malformed key %q", key)
	}
	return entity, id, nil
}

func header(msg kafkago.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
