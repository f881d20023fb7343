package task

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"go-worktrack/internal/events"
	"go-worktrack/internal/messaging/kafka"
	"go-worktrack/internal/shared/actor"
	"go-worktrack/internal/shared/apperror"
	"go-worktrack/internal/shared/contextutil"
	"go-worktrack/internal/shared/dateutil"
	taskerrors "go-worktrack/internal/task/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	MaxAttachmentSize = 10 << 20
	attachmentDir     = "progress_updates"
)

// Upload is a file received with a progress update.
type Upload struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

func (s *service) RecordProgressUpdate(ctx context.Context, a actor.Actor, taskID int64, req ProgressUpdateRequest, files []Upload) (ProgressUpdateView, error) {
	t, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return ProgressUpdateView{}, err
	}
	if !a.HasEmployee() {
		s.logger.Warn("progress update without employee record", zap.Int64("user_id", a.UserID), zap.Int64("task_id", taskID))
		return ProgressUpdateView{}, taskerrors.ErrNotEmployee
	}
	employeeID := *a.EmployeeID

	day, err := validateProgressUpdate(req, files)
	if err != nil {
		return ProgressUpdateView{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("record progress update begin tx failed", zap.Error(err))
		return ProgressUpdateView{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	existing, err := qtx.FindProgressUpdate(ctx, t.ID, employeeID, day)
	if err != nil {
		return ProgressUpdateView{}, err
	}
	if existing != nil {
		s.logger.Warn("progress update already submitted",
			zap.Int64("task_id", t.ID),
			zap.Int64("employee_id", employeeID),
			zap.String("update_date", dateutil.Format(day)),
		)
		return ProgressUpdateView{}, taskerrors.ErrProgressUpdateExists.WithDetails(toProgressUpdateView(*existing))
	}

	attachments, err := s.storeAttachments(ctx, files)
	if err != nil {
		return ProgressUpdateView{}, err
	}
	committed := false
	defer func() {
		if !committed {
			s.removeAttachments(attachments)
		}
	}()

	row := &ProgressUpdate{
		TaskID:              t.ID,
		EmployeeID:          employeeID,
		ProgressDescription: req.ProgressDescription,
		TimeSpent:           *req.TimeSpent,
		Remarks:             req.Remarks,
		UpdateDate:          day,
		Attachments:         attachments,
	}
	if err := qtx.CreateProgressUpdate(ctx, row); err != nil {
		if errors.Is(err, taskerrors.ErrProgressUpdateExists) {
			_ = tx.Rollback()
			return ProgressUpdateView{}, s.conflictWithExisting(ctx, t.ID, employeeID, day)
		}
		s.logger.Error("record progress update persist failed", zap.Error(err))
		return ProgressUpdateView{}, err
	}

	event, err := kafka.NewOutboxEvent(ctx, "progress_update", row.ID, events.ProgressUpdateSubmitted, events.ProgressUpdateSubmittedTopic,
		events.ProgressUpdateSubmittedEvent{
			EventType:        events.ProgressUpdateSubmitted,
			RequestID:        contextutil.GetRequestID(ctx),
			ProgressUpdateID: row.ID,
			TaskID:           t.ID,
			EmployeeID:       employeeID,
			ActorUserID:      a.UserID,
			UpdateDate:       dateutil.Format(day),
			TimeSpent:        row.TimeSpent,
			AttachmentCount:  len(attachments),
			OccurredAt:       s.now().UTC(),
		})
	if err != nil {
		return ProgressUpdateView{}, err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
		s.logger.Error("queue progress update event failed", zap.Error(err))
		return ProgressUpdateView{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("record progress update commit failed", zap.Error(err))
		return ProgressUpdateView{}, err
	}
	committed = true

	s.logger.Info("progress update recorded",
		zap.Int64("progress_update_id", row.ID),
		zap.Int64("task_id", t.ID),
		zap.Int64("employee_id", employeeID),
		zap.Int("attachments", len(attachments)),
	)
	return toProgressUpdateView(*row), nil
}

func (s *service) ListProgressUpdates(ctx context.Context, a actor.Actor) ([]ProgressUpdateView, error) {
	if !a.HasEmployee() {
		return nil, taskerrors.ErrNotEmployee
	}

	rows, err := s.repo.ListProgressUpdatesForAssignee(ctx, *a.EmployeeID)
	if err != nil {
		s.logger.Error("list progress updates failed", zap.Int64("employee_id", *a.EmployeeID), zap.Error(err))
		return nil, err
	}

	views := make([]ProgressUpdateView, len(rows))
	for i, p := range rows {
		views[i] = toProgressUpdateView(p)
	}
	return views, nil
}

func validateProgressUpdate(req ProgressUpdateRequest, files []Upload) (time.Time, error) {
	fields := apperror.FieldErrors{}
	if err := validate.Struct(req); err != nil {
		mapped, ok := apperror.ValidationFields(err)
		if !ok {
			return time.Time{}, err
		}
		fields = mapped
	}

	var day time.Time
	if req.UpdateDate != "" {
		parsed, err := dateutil.Parse(req.UpdateDate)
		if err != nil {
			fields.Add("update_date", "Update Date is not a valid date")
		}
		day = parsed
	}

	for i, f := range files {
		if f.Size > MaxAttachmentSize {
			fields.Add(fmt.Sprintf("attachments.%d", i), "Attachment may not be greater than 10 MB")
		}
	}

	if !fields.Empty() {
		return time.Time{}, apperror.Validation(fields)
	}
	return day, nil
}

// storeAttachments writes files under progress_updates/. On failure the
// files already written are removed.
func (s *service) storeAttachments(ctx context.Context, files []Upload) ([]Attachment, error) {
	attachments := make([]Attachment, 0, len(files))
	for _, f := range files {
		att, err := s.storeAttachment(ctx, f)
		if err != nil {
			s.removeAttachments(attachments)
			s.logger.Error("store attachment failed", zap.String("name", f.Name), zap.Error(err))
			return nil, err
		}
		attachments = append(attachments, att)
	}
	return attachments, nil
}

func (s *service) storeAttachment(ctx context.Context, f Upload) (Attachment, error) {
	rc, err := f.Open()
	if err != nil {
		return Attachment{}, err
	}
	defer rc.Close()

	name := attachmentName(f.Name)
	key := path.Join(attachmentDir, fmt.Sprintf("%d_%s_%s", s.now().Unix(), uuid.NewString(), name))
	obj, err := s.store.Put(ctx, key, rc)
	if err != nil {
		return Attachment{}, err
	}
	return Attachment{Name: name, Path: obj.Path, URL: obj.URL}, nil
}

// removeAttachments runs after the request may have been cancelled, so it
// uses its own context.
func (s *service) removeAttachments(attachments []Attachment) {
	for _, att := range attachments {
		if err := s.store.Delete(context.Background(), att.Path); err != nil {
			s.logger.Warn("remove orphaned attachment failed", zap.String("path", att.Path), zap.Error(err))
		}
	}
}

// attachmentName keeps the client's base file name, stripped of any
// directory part.
func attachmentName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == ".." {
		return "file"
	}
	return name
}

func (s *service) conflictWithExisting(ctx context.Context, taskID, employeeID int64, day time.Time) error {
	existing, err := s.repo.FindProgressUpdate(ctx, taskID, employeeID, day)
	if err != nil {
		return err
	}
	if existing == nil {
		return taskerrors.ErrProgressUpdateExists
	}
	return taskerrors.ErrProgressUpdateExists.WithDetails(toProgressUpdateView(*existing))
}

// toProgressUpdateView projects p onto its dual-cased client form.
func toProgressUpdateView(p ProgressUpdate) ProgressUpdateView {
	attachments := p.Attachments
	if attachments == nil {
		attachments = []Attachment{}
	}
	updateDate := dateutil.Format(p.UpdateDate)
	createdAt := p.CreatedAt.UTC().Format(time.RFC3339)

	return ProgressUpdateView{
		ID:                       p.ID,
		TaskID:                   p.TaskID,
		TaskIDCamel:              p.TaskID,
		EmployeeID:               p.EmployeeID,
		EmployeeIDCamel:          p.EmployeeID,
		ProgressDescription:      p.ProgressDescription,
		ProgressDescriptionCamel: p.ProgressDescription,
		TimeSpent:                p.TimeSpent,
		TimeSpentCamel:           p.TimeSpent,
		Remarks:                  p.Remarks,
		UpdateDate:               updateDate,
		UpdateDateCamel:          updateDate,
		Attachments:              attachments,
		CreatedAt:                createdAt,
		CreatedAtCamel:           createdAt,
	}
}
