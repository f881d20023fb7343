package task

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// OptionalID is an id field that may arrive as a JSON number, a numeric
// string, an empty string or null. Empty and null mean "no id".
type OptionalID struct {
	Value   *int64
	Present bool
	Invalid bool
}

func (o *OptionalID) UnmarshalJSON(b []byte) error {
	*o = OptionalID{Present: true}

	raw := bytes.TrimSpace(b)
	if bytes.Equal(raw, []byte("null")) {
		return nil
	}

	s := string(raw)
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
	}

	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		o.Invalid = true
		return nil
	}
	o.Value = &id
	return nil
}

// TaskRequest accepts both snake_case and camelCase keys. Normalize folds
// them together, snake_case winning when both are sent.
type TaskRequest struct {
	ProjectID       OptionalID `json:"project_id"`
	ProjectIDCamel  OptionalID `json:"projectId"`
	AssignedTo      OptionalID `json:"assigned_to"`
	AssignedToCamel OptionalID `json:"assignedTo"`
	Title           *string    `json:"title"`
	Description     *string    `json:"description"`
	StartDate       *string    `json:"start_date"`
	StartDateCamel  *string    `json:"startDate"`
	EndDate         *string    `json:"end_date"`
	EndDateCamel    *string    `json:"endDate"`
	Status          *string    `json:"status"`
}

// TaskInput is a normalized TaskRequest. Nil fields were not sent.
type TaskInput struct {
	ProjectID   OptionalID
	AssignedTo  OptionalID
	Title       *string
	Description *string
	StartDate   *string
	EndDate     *string
	Status      *string
}

func (r TaskRequest) Normalize() TaskInput {
	return TaskInput{
		ProjectID:   pickID(r.ProjectID, r.ProjectIDCamel),
		AssignedTo:  pickID(r.AssignedTo, r.AssignedToCamel),
		Title:       r.Title,
		Description: r.Description,
		StartDate:   pickString(r.StartDate, r.StartDateCamel),
		EndDate:     pickString(r.EndDate, r.EndDateCamel),
		Status:      r.Status,
	}
}

func pickID(snake, camel OptionalID) OptionalID {
	if snake.Present {
		return snake
	}
	return camel
}

func pickString(snake, camel *string) *string {
	if snake != nil {
		return snake
	}
	return camel
}

// ProgressUpdateRequest is bound from JSON or multipart form fields and
// validated by the service once the task and requester are known.
type ProgressUpdateRequest struct {
	ProgressDescription string   `json:"progress_description" form:"progress_description" validate:"required"`
	TimeSpent           *float64 `json:"time_spent" form:"time_spent" validate:"required,gte=0,lte=24"`
	Remarks             *string  `json:"remarks" form:"remarks"`
	UpdateDate          string   `json:"update_date" form:"update_date" validate:"required"`
}

type ProjectSummary struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type EmployeeSummary struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

type TaskResponse struct {
	ID          int64            `json:"id"`
	ProjectID   *int64           `json:"project_id"`
	AssignedTo  *int64           `json:"assigned_to"`
	Title       string           `json:"title"`
	Description *string          `json:"description"`
	StartDate   string           `json:"start_date"`
	EndDate     *string          `json:"end_date"`
	Status      string           `json:"status"`
	Project     *ProjectSummary  `json:"project"`
	Assignee    *EmployeeSummary `json:"assigned_to_employee"`
	CreatedAt   string           `json:"created_at"`
	UpdatedAt   string           `json:"updated_at"`
}

// ProgressUpdateView is the progress update as clients read it: every field
// under its snake_case name and, where it differs, its camelCase alias.
type ProgressUpdateView struct {
	ID                       int64        `json:"id"`
	TaskID                   int64        `json:"task_id"`
	TaskIDCamel              int64        `json:"taskId"`
	EmployeeID               int64        `json:"employee_id"`
	EmployeeIDCamel          int64        `json:"employeeId"`
	ProgressDescription      string       `json:"progress_description"`
	ProgressDescriptionCamel string       `json:"progressDescription"`
	TimeSpent                float64      `json:"time_spent"`
	TimeSpentCamel           float64      `json:"timeSpent"`
	Remarks                  *string      `json:"remarks"`
	UpdateDate               string       `json:"update_date"`
	UpdateDateCamel          string       `json:"updateDate"`
	Attachments              []Attachment `json:"attachments"`
	CreatedAt                string       `json:"created_at"`
	CreatedAtCamel           string       `json:"createdAt"`
}
