package events

import "encoding/json"

// AuditTopics are consumed into the audit trail.
var AuditTopics = []string{
	LeaveStatusChangedTopic,
	DailyActivitySubmittedTopic,
	ProgressUpdateSubmittedTopic,
}

// Envelope holds the fields shared by every event so a consumer can route
// a message before decoding it fully.
type Envelope struct {
	EventType   string `json:"event_type"`
	RequestID   string `json:"request_id,omitempty"`
	ActorUserID int64  `json:"actor_user_id"`
}

func DecodeEnvelope(payload []byte) (Envelope, error) {
	var env Envelope
	err := json.Unmarshal(payload, &env)
	return env, err
}
