package events

import "time"

const LeaveStatusChangedTopic = "worktrack.leave.status.v1"

const LeaveStatusChanged = "leave_status_changed"

type LeaveStatusChangedEvent struct {
	EventType   string    `json:"event_type"`
	RequestID   string    `json:"request_id,omitempty"`
	LeaveID     int64     `json:"leave_id"`
	EmployeeID  int64     `json:"employee_id"`
	FromStatus  string    `json:"from_status"`
	ToStatus    string    `json:"to_status"`
	ReviewedBy  *int64    `json:"reviewed_by,omitempty"`
	ActorUserID int64     `json:"actor_user_id"`
	OccurredAt  time.Time `json:"occurred_at"`
}
