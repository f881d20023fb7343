package leave

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"go-worktrack/internal/audit"
	"go-worktrack/internal/events"
	leaveerrors "go-worktrack/internal/leave/errors"
	"go-worktrack/internal/messaging/kafka"
	"go-worktrack/internal/shared/actor"
	"go-worktrack/internal/shared/apperror"
	"go-worktrack/internal/shared/contextutil"
	"go-worktrack/internal/shared/dateutil"

	"go.uber.org/zap"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	List(ctx context.Context, a actor.Actor, filter ListFilter) ([]LeaveResponse, int64, error)
	Create(ctx context.Context, a actor.Actor, req CreateLeaveRequest) (LeaveResponse, error)
	GetByID(ctx context.Context, a actor.Actor, id int64) (LeaveResponse, error)
	Update(ctx context.Context, a actor.Actor, id int64, req UpdateLeaveRequest) (LeaveResponse, error)
	Delete(ctx context.Context, a actor.Actor, id int64) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	audit  audit.Logger
	logger *zap.Logger
	now    func() time.Time
}

func NewService(db *sql.DB, repo Repository, outbox kafka.OutboxRepository, auditLogger audit.Logger, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		outbox: outbox,
		audit:  auditLogger,
		logger: l,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) List(ctx context.Context, a actor.Actor, filter ListFilter) ([]LeaveResponse, int64, error) {
	filter.Status = strings.ToLower(strings.TrimSpace(filter.Status))

	if !CanViewAny(a).Allowed {
		if !a.HasEmployee() {
			return nil, 0, leaveerrors.ErrEmployeeLinkRequired
		}
		own := *a.EmployeeID
		filter.EmployeeID = &own
	}

	leaves, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("list leaves failed", zap.Error(err))
		return nil, 0, err
	}
	return mapToListResponse(leaves), total, nil
}

func (s *service) Create(ctx context.Context, a actor.Actor, req CreateLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("create leave requested",
		zap.Int64("user_id", a.UserID),
		zap.String("role", a.Role),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	if d := CanCreate(a); !d.Allowed {
		return LeaveResponse{}, leaveerrors.ErrLeaveForbidden
	}

	employeeID, err := resolveEmployee(a, req.EmployeeID)
	if err != nil {
		return LeaveResponse{}, err
	}

	startDate, endDate, err := parsePeriod(req.StartDate, req.EndDate)
	if err != nil {
		s.logger.Warn("create leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	leaveType := req.LeaveType
	if leaveType == "" {
		leaveType = TypeAnnual
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.EmployeeExists(ctx, employeeID)
	if err != nil {
		s.logger.Error("create leave employee check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if !exists {
		return LeaveResponse{}, apperror.Validation(apperror.FieldErrors{
			"employee_id": {"The selected employee id is invalid."},
		})
	}

	l := &Leave{
		EmployeeID: employeeID,
		LeaveType:  leaveType,
		StartDate:  startDate,
		EndDate:    endDate,
		Days:       resolveDays(req.Days, startDate, endDate),
		Reason:     req.Reason,
		Status:     StatusPending,
	}

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	created, err := qtx.FindByID(ctx, l.ID)
	if err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	s.logger.Info("create leave success",
		zap.Int64("leave_id", created.ID),
		zap.Int64("employee_id", created.EmployeeID),
		zap.Int("days", created.Days),
	)

	return mapToResponse(*created), nil
}

func (s *service) GetByID(ctx context.Context, a actor.Actor, id int64) (LeaveResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if d := CanView(a, SubjectOf(*l)); !d.Allowed {
		s.logger.Warn("view leave denied",
			zap.Int64("leave_id", id),
			zap.Int64("user_id", a.UserID),
			zap.String("reason", d.Reason),
		)
		return LeaveResponse{}, leaveerrors.ErrLeaveForbidden
	}
	return mapToResponse(*l), nil
}

func (s *service) Update(ctx context.Context, a actor.Actor, id int64, req UpdateLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("update leave requested",
		zap.Int64("leave_id", id),
		zap.Int64("user_id", a.UserID),
		zap.String("role", a.Role),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}

	subject := SubjectOf(*l)
	if d := CanUpdate(a, subject); !d.Allowed {
		s.audit.Log(ctx, audit.Entry{
			Action:  "LEAVE_UPDATE_DENIED",
			Message: "Leave update authorization failed",
			Meta: map[string]any{
				"user_id":  a.UserID,
				"role":     a.Role,
				"leave_id": id,
				"error":    d.Reason,
			},
		})
		return LeaveResponse{}, leaveerrors.ErrLeaveForbidden
	}

	if err := applyUpdate(l, req); err != nil {
		return LeaveResponse{}, err
	}

	fromStatus := l.Status
	statusChanged := req.Status != nil && *req.Status != fromStatus
	if statusChanged {
		if d := CanReview(a, subject); !d.Allowed {
			s.audit.Log(ctx, audit.Entry{
				Action:  "LEAVE_REVIEW_DENIED",
				Message: "Leave status change authorization failed",
				Meta: map[string]any{
					"user_id":  a.UserID,
					"role":     a.Role,
					"leave_id": id,
					"error":    d.Reason,
				},
			})
			return LeaveResponse{}, leaveerrors.ErrReviewForbidden
		}
		if !CanTransition(fromStatus, *req.Status) {
			s.logger.Warn("update leave invalid transition",
				zap.Int64("leave_id", id),
				zap.String("from_status", fromStatus),
				zap.String("to_status", *req.Status),
			)
			return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
		}

		l.Status = *req.Status
		if isReviewed(l.Status) {
			now := s.now()
			l.ReviewedBy = a.EmployeeID
			l.ReviewedAt = &now
		}
	}

	if err := qtx.Update(ctx, l); err != nil {
		s.logger.Error("update leave persist failed",
			zap.Int64("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	if statusChanged {
		if err := s.queueStatusChanged(ctx, tx, a, *l, fromStatus); err != nil {
			return LeaveResponse{}, err
		}
	}

	updated, err := qtx.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update leave commit failed",
			zap.Int64("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	s.logger.Info("update leave success",
		zap.Int64("leave_id", id),
		zap.String("status_before", fromStatus),
		zap.String("status_after", updated.Status),
	)

	return mapToResponse(*updated), nil
}

func (s *service) Delete(ctx context.Context, a actor.Actor, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if d := CanDelete(a, SubjectOf(*l)); !d.Allowed {
		s.logger.Warn("delete leave denied",
			zap.Int64("leave_id", id),
			zap.Int64("user_id", a.UserID),
			zap.String("reason", d.Reason),
		)
		return leaveerrors.ErrLeaveForbidden
	}

	if err := qtx.Delete(ctx, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.logger.Info("delete leave success", zap.Int64("leave_id", id))
	return nil
}

func (s *service) queueStatusChanged(ctx context.Context, tx *sql.Tx, a actor.Actor, l Leave, fromStatus string) error {
	payload := events.LeaveStatusChangedEvent{
		EventType:   events.LeaveStatusChanged,
		RequestID:   contextutil.GetRequestID(ctx),
		LeaveID:     l.ID,
		EmployeeID:  l.EmployeeID,
		FromStatus:  fromStatus,
		ToStatus:    l.Status,
		ReviewedBy:  l.ReviewedBy,
		ActorUserID: a.UserID,
		OccurredAt:  s.now(),
	}
	event, err := kafka.NewOutboxEvent(ctx, "leave", l.ID, events.LeaveStatusChanged, events.LeaveStatusChangedTopic, payload)
	if err != nil {
		return err
	}

	if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
		s.logger.Error("queue leave status event failed",
			zap.Int64("leave_id", l.ID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// resolveEmployee picks the leave owner. Only hr and admin may file leave
// for someone else.
func resolveEmployee(a actor.Actor, requested *int64) (int64, error) {
	if requested == nil {
		if !a.HasEmployee() {
			return 0, apperror.Validation(apperror.FieldErrors{
				"employee_id": {"Employee Id is required"},
			})
		}
		return *a.EmployeeID, nil
	}
	if !a.IsEmployee(*requested) && !isPrivileged(a) {
		return 0, leaveerrors.ErrCreateForOtherEmployee
	}
	return *requested, nil
}

func applyUpdate(l *Leave, req UpdateLeaveRequest) error {
	if req.LeaveType != nil {
		l.LeaveType = *req.LeaveType
	}
	if req.Reason != nil {
		l.Reason = *req.Reason
	}

	if req.StartDate != nil || req.EndDate != nil {
		start := dateutil.Format(l.StartDate)
		end := dateutil.Format(l.EndDate)
		if req.StartDate != nil {
			start = *req.StartDate
		}
		if req.EndDate != nil {
			end = *req.EndDate
		}

		startDate, endDate, err := parsePeriod(start, end)
		if err != nil {
			return err
		}
		l.StartDate = startDate
		l.EndDate = endDate
		l.Days = dateutil.DaysInclusive(startDate, endDate)
	} else if req.Days != nil && *req.Days > 0 {
		l.Days = *req.Days
	}
	return nil
}

func parsePeriod(start, end string) (time.Time, time.Time, error) {
	fields := apperror.FieldErrors{}

	startDate, err := dateutil.Parse(start)
	if err != nil {
		fields.Add("start_date", "Start Date is not a valid date")
	}
	endDate, err := dateutil.Parse(end)
	if err != nil {
		fields.Add("end_date", "End Date is not a valid date")
	}
	if fields.Empty() && endDate.Before(startDate) {
		fields.Add("end_date", "End Date must be a date after or equal to start date")
	}

	if !fields.Empty() {
		return time.Time{}, time.Time{}, apperror.Validation(fields)
	}
	return startDate, endDate, nil
}

// resolveDays keeps an explicit positive day count, otherwise derives it
// from the period.
func resolveDays(days *int, start, end time.Time) int {
	if days != nil && *days > 0 {
		return *days
	}
	return dateutil.DaysInclusive(start, end)
}

func mapToResponse(l Leave) LeaveResponse {
	resp := LeaveResponse{
		ID:         l.ID,
		EmployeeID: l.EmployeeID,
		LeaveType:  l.LeaveType,
		StartDate:  dateutil.Format(l.StartDate),
		EndDate:    dateutil.Format(l.EndDate),
		Days:       l.Days,
		Reason:     l.Reason,
		Status:     l.Status,
		ReviewedBy: l.ReviewedBy,
		CreatedAt:  l.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:  l.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if l.Employee != nil {
		resp.Employee = &EmployeeSummary{
			ID:       l.Employee.ID,
			FullName: l.Employee.FullName,
			Email:    l.Employee.Email,
		}
	}
	if l.ReviewedAt != nil {
		v := l.ReviewedAt.UTC().Format(time.RFC3339)
		resp.ReviewedAt = &v
	}
	return resp
}

func mapToListResponse(leaves []Leave) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}
