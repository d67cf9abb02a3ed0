package model

type NotificationEvent string

const (
	EventCreated    NotificationEvent = "created"
	EventInProgress NotificationEvent = "in_progress"
	EventCompleted  NotificationEvent = "completed"
	EventClosed     NotificationEvent = "closed"
)

// EventForStatus maps a status transition target onto the notification event
// it triggers. Only the three monitored target states map to an event;
// everything else returns false and sends no mail.
func EventForStatus(s Status) (NotificationEvent, bool) {
	switch s {
	case StatusInProgress:
		return EventInProgress, true
	case StatusCompleted:
		return EventCompleted, true
	case StatusClosed:
		return EventClosed, true
	default:
		return "", false
	}
}

type NotificationJob struct {
	SubmissionID int64             `json:"submission_id"`
	Event        NotificationEvent `json:"event"`
	Note         string            `json:"note,omitempty"`
	ActorBadge   string            `json:"actor_badge,omitempty"`
}
