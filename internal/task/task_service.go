package task

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-worktrack/internal/employee"
	"go-worktrack/internal/messaging/kafka"
	"go-worktrack/internal/project"
	"go-worktrack/internal/shared/actor"
	"go-worktrack/internal/shared/dateutil"
	"go-worktrack/internal/shared/request"
	"go-worktrack/internal/storage"
	taskerrors "go-worktrack/internal/task/errors"

	"go.uber.org/zap"
)

//go:generate mockgen -source=task_service.go -destination=mock/task_service_mock.go -package=mock
type Service interface {
	List(ctx context.Context, page request.Page) ([]TaskResponse, int64, error)
	Create(ctx context.Context, req TaskRequest) (TaskResponse, error)
	GetByID(ctx context.Context, id int64) (TaskResponse, error)
	Update(ctx context.Context, id int64, req TaskRequest) (TaskResponse, error)
	Delete(ctx context.Context, id int64) error

	RecordProgressUpdate(ctx context.Context, a actor.Actor, taskID int64, req ProgressUpdateRequest, files []Upload) (ProgressUpdateView, error)
	ListProgressUpdates(ctx context.Context, a actor.Actor) ([]ProgressUpdateView, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	projects  project.Repository
	employees employee.Repository
	outbox    kafka.OutboxRepository
	store     storage.Storage
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	projects project.Repository,
	employees employee.Repository,
	outbox kafka.OutboxRepository,
	store storage.Storage,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("task.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("task.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		projects:  projects,
		employees: employees,
		outbox:    outbox,
		store:     store,
		now:       time.Now,
		logger:    l,
	}
}

func (s *service) projectExists(ctx context.Context, id int64) (bool, error) {
	return s.projects.Exists(ctx, id)
}

func (s *service) employeeExists(ctx context.Context, id int64) (bool, error) {
	return s.employees.Exists(ctx, id)
}

func (s *service) List(ctx context.Context, page request.Page) ([]TaskResponse, int64, error) {
	tasks, total, err := s.repo.List(ctx, page)
	if err != nil {
		s.logger.Error("list tasks failed", zap.Error(err))
		return nil, 0, err
	}

	resp := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		resp[i] = mapToResponse(t)
	}
	return resp, total, nil
}

func (s *service) Create(ctx context.Context, req TaskRequest) (TaskResponse, error) {
	d := newDraft()
	d.apply(req.Normalize())

	t, err := d.build(ctx, s)
	if err != nil {
		return TaskResponse{}, err
	}

	if err := s.repo.Create(ctx, &t); err != nil {
		s.logger.Error("create task failed", zap.String("title", t.Title), zap.Error(err))
		return TaskResponse{}, taskerrors.CreateFailed(err)
	}

	created, err := s.repo.FindByID(ctx, t.ID)
	if err != nil {
		return TaskResponse{}, err
	}
	s.logger.Info("task created", zap.Int64("task_id", created.ID))
	return mapToResponse(*created), nil
}

func (s *service) GetByID(ctx context.Context, id int64) (TaskResponse, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return TaskResponse{}, err
	}
	return mapToResponse(*t), nil
}

func (s *service) Update(ctx context.Context, id int64, req TaskRequest) (TaskResponse, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return TaskResponse{}, err
	}

	d := draftOf(*existing)
	d.apply(req.Normalize())

	t, err := d.build(ctx, s)
	if err != nil {
		return TaskResponse{}, err
	}
	t.ID = existing.ID
	t.CreatedAt = existing.CreatedAt

	if err := s.repo.Update(ctx, &t); err != nil {
		s.logger.Error("update task failed", zap.Int64("task_id", id), zap.Error(err))
		return TaskResponse{}, err
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return TaskResponse{}, err
	}
	s.logger.Info("task updated",
		zap.Int64("task_id", id),
		zap.String("status_before", existing.Status),
		zap.String("status_after", updated.Status),
	)
	return mapToResponse(*updated), nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if !errors.Is(err, taskerrors.ErrTaskNotFound) {
			s.logger.Error("delete task failed", zap.Int64("task_id", id), zap.Error(err))
		}
		return err
	}
	s.logger.Info("task deleted", zap.Int64("task_id", id))
	return nil
}

func mapToResponse(t Task) TaskResponse {
	resp := TaskResponse{
		ID:          t.ID,
		ProjectID:   t.ProjectID,
		AssignedTo:  t.AssignedTo,
		Title:       t.Title,
		Description: t.Description,
		StartDate:   dateutil.Format(t.StartDate),
		EndDate:     dateutil.FormatPtr(t.EndDate),
		Status:      t.Status,
		CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   t.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if t.Project != nil {
		resp.Project = &ProjectSummary{ID: t.Project.ID, Name: t.Project.Name, Status: t.Project.Status}
	}
	if t.Assignee != nil {
		resp.Assignee = &EmployeeSummary{ID: t.Assignee.ID, FullName: t.Assignee.FullName, Email: t.Assignee.Email}
	}
	return resp
}
