package events

import "time"

const DailyActivitySubmittedTopic = "worktrack.staff.daily_activity.v1"

const DailyActivitySubmitted = "daily_activity_submitted"

type DailyActivitySubmittedEvent struct {
	EventType       string    `json:"event_type"`
	RequestID       string    `json:"request_id,omitempty"`
	DailyActivityID int64     `json:"daily_activity_id"`
	ProjectID       int64     `json:"project_id"`
	EmployeeID      int64     `json:"employee_id"`
	ActorUserID     int64     `json:"actor_user_id"`
	SubmissionDate  string    `json:"submission_date"`
	OccurredAt      time.Time `json:"occurred_at"`
}
