package events

import "time"

const ProgressUpdateSubmittedTopic = "worktrack.task.progress_update.v1"

const ProgressUpdateSubmitted = "progress_update_submitted"

type ProgressUpdateSubmittedEvent struct {
	EventType        string    `json:"event_type"`
	RequestID        string    `json:"request_id,omitempty"`
	ProgressUpdateID int64     `json:"progress_update_id"`
	TaskID           int64     `json:"task_id"`
	EmployeeID       int64     `json:"employee_id"`
	ActorUserID      int64     `json:"actor_user_id"`
	UpdateDate       string    `json:"update_date"`
	TimeSpent        float64   `json:"time_spent"`
	AttachmentCount  int       `json:"attachment_count"`
	OccurredAt       time.Time `json:"occurred_at"`
}
