package task

import (
	"context"
	"strings"
	"time"

	"go-worktrack/internal/shared/apperror"
	"go-worktrack/internal/shared/dateutil"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	apperror.RegisterTagNames(v)
	return v
}

// taskFields is the shape a task must have once the request is applied.
type taskFields struct {
	Title     string `json:"title" validate:"required,max=191"`
	StartDate string `json:"start_date" validate:"required"`
	Status    string `json:"status" validate:"required,oneof=not_started in_progress completed on_hold"`
}

// draft is a task being created or updated, still in request form.
type draft struct {
	projectID   *int64
	assignedTo  *int64
	title       string
	description *string
	startDate   string
	endDate     *string
	status      string

	fields apperror.FieldErrors
}

func newDraft() *draft {
	return &draft{status: StatusNotStarted, fields: apperror.FieldErrors{}}
}

func draftOf(t Task) *draft {
	return &draft{
		projectID:   t.ProjectID,
		assignedTo:  t.AssignedTo,
		title:       t.Title,
		description: t.Description,
		startDate:   dateutil.Format(t.StartDate),
		endDate:     dateutil.FormatPtr(t.EndDate),
		status:      t.Status,
		fields:      apperror.FieldErrors{},
	}
}

// apply overlays the fields present in in.
func (d *draft) apply(in TaskInput) {
	if in.ProjectID.Present {
		d.projectID = in.ProjectID.Value
		if in.ProjectID.Invalid {
			d.fields.Add("project_id", "Project Id must be an integer")
		}
	}
	if in.AssignedTo.Present {
		d.assignedTo = in.AssignedTo.Value
		if in.AssignedTo.Invalid {
			d.fields.Add("assigned_to", "Assigned To must be an integer")
		}
	}
	if in.Title != nil {
		d.title = *in.Title
	}
	if in.Description != nil {
		d.description = in.Description
		if strings.TrimSpace(*in.Description) == "" {
			d.description = nil
		}
	}
	if in.StartDate != nil {
		d.startDate = *in.StartDate
	}
	if in.EndDate != nil {
		d.endDate = in.EndDate
		if *in.EndDate == "" {
			d.endDate = nil
		}
	}
	if in.Status != nil && *in.Status != "" {
		d.status = *in.Status
	}
}

// existence answers whether referenced rows exist.
type existence interface {
	projectExists(ctx context.Context, id int64) (bool, error)
	employeeExists(ctx context.Context, id int64) (bool, error)
}

// build validates the draft and returns the task fields it describes. A
// VALIDATION_ERROR lists every failing field.
func (d *draft) build(ctx context.Context, refs existence) (Task, error) {
	if err := validate.Struct(taskFields{Title: d.title, StartDate: d.startDate, Status: d.status}); err != nil {
		fields, ok := apperror.ValidationFields(err)
		if !ok {
			return Task{}, err
		}
		for k, msgs := range fields {
			for _, m := range msgs {
				d.fields.Add(k, m)
			}
		}
	}

	var start time.Time
	var end *time.Time
	if d.startDate != "" {
		parsed, err := dateutil.Parse(d.startDate)
		if err != nil {
			d.fields.Add("start_date", "Start Date is not a valid date")
		} else {
			start = parsed
		}
	}
	if d.endDate != nil {
		parsed, err := dateutil.Parse(*d.endDate)
		switch {
		case err != nil:
			d.fields.Add("end_date", "End Date is not a valid date")
		case !start.IsZero() && parsed.Before(start):
			d.fields.Add("end_date", "End Date must be a date after or equal to Start Date")
		default:
			end = &parsed
		}
	}

	if d.projectID != nil {
		ok, err := refs.projectExists(ctx, *d.projectID)
		if err != nil {
			return Task{}, err
		}
		if !ok {
			d.fields.Add("project_id", "The selected project id is invalid")
		}
	}
	if d.assignedTo != nil {
		ok, err := refs.employeeExists(ctx, *d.assignedTo)
		if err != nil {
			return Task{}, err
		}
		if !ok {
			d.fields.Add("assigned_to", "The selected assigned to is invalid")
		}
	}

	if !d.fields.Empty() {
		return Task{}, apperror.Validation(d.fields)
	}

	return Task{
		ProjectID:   d.projectID,
		AssignedTo:  d.assignedTo,
		Title:       d.title,
		Description: d.description,
		StartDate:   start,
		EndDate:     end,
		Status:      d.status,
	}, nil
}
