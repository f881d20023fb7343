package staff

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	employeeerrors "go-worktrack/internal/employee/errors"
	"go-worktrack/internal/events"
	"go-worktrack/internal/messaging/kafka"
	"go-worktrack/internal/project"
	projecterrors "go-worktrack/internal/project/errors"
	"go-worktrack/internal/shared/actor"
	"go-worktrack/internal/shared/apperror"
	"go-worktrack/internal/shared/contextutil"
	"go-worktrack/internal/shared/dateutil"
	stafferrors "go-worktrack/internal/staff/errors"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

//go:generate mockgen -source=staff_service.go -destination=mock/staff_service_mock.go -package=mock
type Service interface {
	ListAssignedProjects(ctx context.Context, a actor.Actor) ([]ProjectResponse, error)
	ListDailyActivities(ctx context.Context, a actor.Actor, projectID int64) ([]DailyActivityResponse, error)
	SubmitDailyActivity(ctx context.Context, a actor.Actor, projectID int64, req SubmitDailyActivityRequest) (DailyActivityResponse, error)
	ListAllDailyActivities(ctx context.Context, a actor.Actor) ([]DailyActivityResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	projects project.Repository
	outbox   kafka.OutboxRepository
	group    singleflight.Group
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	projects project.Repository,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("staff.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("staff.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		projects: projects,
		outbox:   outbox,
		logger:   l,
	}
}

func requireEmployee(a actor.Actor) (int64, error) {
	if a.UserID == 0 {
		return 0, apperror.ErrUnauthorized
	}
	if !a.HasEmployee() {
		return 0, employeeerrors.ErrEmployeeNotFound
	}
	return *a.EmployeeID, nil
}

func (s *service) ensureAssigned(ctx context.Context, projectID, employeeID int64) error {
	exists, err := s.projects.Exists(ctx, projectID)
	if err != nil {
		return err
	}
	if !exists {
		return projecterrors.ErrProjectNotFound
	}

	assigned, err := s.projects.IsAssigned(ctx, projectID, employeeID)
	if err != nil {
		return err
	}
	if !assigned {
		s.logger.Warn("project access denied",
			zap.Int64("project_id", projectID),
			zap.Int64("employee_id", employeeID),
		)
		return projecterrors.ErrNotAssigned
	}
	return nil
}

func (s *service) ListAssignedProjects(ctx context.Context, a actor.Actor) ([]ProjectResponse, error) {
	employeeID, err := requireEmployee(a)
	if err != nil {
		return nil, err
	}

	// Concurrent reads for one employee share a query; waiters must not
	// inherit the first caller's cancellation.
	shared := context.WithoutCancel(ctx)
	v, err, _ := s.group.Do(strconv.FormatInt(employeeID, 10), func() (any, error) {
		projects, err := s.projects.ListAssignedTo(shared, employeeID)
		if err != nil {
			return nil, err
		}
		return mapProjects(projects), nil
	})
	if err != nil {
		s.logger.Error("list assigned projects failed", zap.Int64("employee_id", employeeID), zap.Error(err))
		return nil, err
	}
	return v.([]ProjectResponse), nil
}

func (s *service) ListDailyActivities(ctx context.Context, a actor.Actor, projectID int64) ([]DailyActivityResponse, error) {
	employeeID, err := requireEmployee(a)
	if err != nil {
		return nil, err
	}
	if err := s.ensureAssigned(ctx, projectID, employeeID); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListDailyActivities(ctx, employeeID, &projectID)
	if err != nil {
		return nil, err
	}
	return mapDailyActivities(rows), nil
}

func (s *service) ListAllDailyActivities(ctx context.Context, a actor.Actor) ([]DailyActivityResponse, error) {
	employeeID, err := requireEmployee(a)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.ListDailyActivities(ctx, employeeID, nil)
	if err != nil {
		return nil, err
	}
	return mapDailyActivities(rows), nil
}

func (s *service) SubmitDailyActivity(ctx context.Context, a actor.Actor, projectID int64, req SubmitDailyActivityRequest) (DailyActivityResponse, error) {
	employeeID, err := requireEmployee(a)
	if err != nil {
		return DailyActivityResponse{}, err
	}
	if err := s.ensureAssigned(ctx, projectID, employeeID); err != nil {
		return DailyActivityResponse{}, err
	}

	day, err := dateutil.Parse(req.SubmissionDate)
	if err != nil {
		return DailyActivityResponse{}, apperror.Validation(apperror.FieldErrors{
			"submission_date": {"Submission Date is not a valid date"},
		})
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit daily activity begin tx failed", zap.Error(err))
		return DailyActivityResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	existing, err := qtx.FindDailyActivity(ctx, projectID, employeeID, day)
	if err != nil {
		return DailyActivityResponse{}, err
	}
	if existing != nil {
		s.logger.Warn("daily activity already submitted",
			zap.Int64("project_id", projectID),
			zap.Int64("employee_id", employeeID),
			zap.String("submission_date", dateutil.Format(day)),
		)
		return DailyActivityResponse{}, stafferrors.ErrDailyActivityExists.WithDetails(mapDailyActivity(*existing))
	}

	row := &DailyActivity{
		ProjectID:           projectID,
		EmployeeID:          employeeID,
		SubmissionDate:      day,
		ActivityDescription: req.ActivityDescription,
		MaterialsUsed:       req.MaterialsUsed,
		IssuesChallenges:    req.IssuesChallenges,
		Status:              DailyActivityStatusPending,
	}
	if err := qtx.CreateDailyActivity(ctx, row); err != nil {
		if errors.Is(err, stafferrors.ErrDailyActivityExists) {
			_ = tx.Rollback()
			return DailyActivityResponse{}, s.conflictWithExisting(ctx, projectID, employeeID, day)
		}
		s.logger.Error("submit daily activity persist failed", zap.Error(err))
		return DailyActivityResponse{}, err
	}

	event, err := kafka.NewOutboxEvent(ctx, "daily_activity", row.ID, events.DailyActivitySubmitted, events.DailyActivitySubmittedTopic,
		events.DailyActivitySubmittedEvent{
			EventType:       events.DailyActivitySubmitted,
			RequestID:       contextutil.GetRequestID(ctx),
			DailyActivityID: row.ID,
			ProjectID:       projectID,
			EmployeeID:      employeeID,
			ActorUserID:     a.UserID,
			SubmissionDate:  dateutil.Format(day),
			OccurredAt:      time.Now().UTC(),
		})
	if err != nil {
		return DailyActivityResponse{}, err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
		s.logger.Error("queue daily activity event failed", zap.Error(err))
		return DailyActivityResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("submit daily activity commit failed", zap.Error(err))
		return DailyActivityResponse{}, err
	}
	s.logger.Info("daily activity submitted",
		zap.Int64("daily_activity_id", row.ID),
		zap.Int64("project_id", projectID),
		zap.Int64("employee_id", employeeID),
	)

	return mapDailyActivity(*row), nil
}

// conflictWithExisting reports a lost insert race, carrying the entry that
// won it.
func (s *service) conflictWithExisting(ctx context.Context, projectID, employeeID int64, day time.Time) error {
	existing, err := s.repo.FindDailyActivity(ctx, projectID, employeeID, day)
	if err != nil {
		return err
	}
	if existing == nil {
		return stafferrors.ErrDailyActivityExists
	}
	return stafferrors.ErrDailyActivityExists.WithDetails(mapDailyActivity(*existing))
}

func mapProjects(projects []project.Project) []ProjectResponse {
	resp := make([]ProjectResponse, 0, len(projects))
	for _, p := range projects {
		item := ProjectResponse{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			StartDate:   dateutil.FormatPtr(p.StartDate),
			EndDate:     dateutil.FormatPtr(p.EndDate),
			Status:      p.Status,
			Activities:  make([]ActivityResponse, 0, len(p.Activities)),
		}
		if p.Manager != nil {
			item.Manager = &EmployeeSummary{ID: p.Manager.ID, FullName: p.Manager.FullName, Email: p.Manager.Email}
		}
		if p.Department != nil {
			item.Department = &DepartmentSummary{ID: p.Department.ID, Name: p.Department.Name}
		}
		for _, a := range p.Activities {
			item.Activities = append(item.Activities, ActivityResponse{
				ID:          a.ID,
				ProjectID:   a.ProjectID,
				AssignedTo:  a.AssignedTo,
				Title:       a.Title,
				Description: a.Description,
				StartDate:   dateutil.FormatPtr(a.StartDate),
				EndDate:     dateutil.FormatPtr(a.EndDate),
				Status:      a.Status,
			})
		}
		resp = append(resp, item)
	}
	return resp
}

func mapDailyActivity(d DailyActivity) DailyActivityResponse {
	resp := DailyActivityResponse{
		ID:                  d.ID,
		ProjectID:           d.ProjectID,
		EmployeeID:          d.EmployeeID,
		SubmissionDate:      dateutil.Format(d.SubmissionDate),
		ActivityDescription: d.ActivityDescription,
		MaterialsUsed:       d.MaterialsUsed,
		IssuesChallenges:    d.IssuesChallenges,
		Status:              d.Status,
		SupervisorComments:  d.SupervisorComments,
		CreatedAt:           d.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:           d.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if d.Project != nil {
		resp.Project = &ProjectSummary{ID: d.Project.ID, Name: d.Project.Name, Status: d.Project.Status}
	}
	return resp
}

func mapDailyActivities(rows []DailyActivity) []DailyActivityResponse {
	resp := make([]DailyActivityResponse, len(rows))
	for i, d := range rows {
		resp[i] = mapDailyActivity(d)
	}
	return resp
}
