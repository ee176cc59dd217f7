package domain

import "time"

// EventType - тип сущности, к которой относится событие ленты.
type EventType string

const (
	EventLike   EventType = "LIKE"
	EventReview EventType = "REVIEW"
	EventFriend EventType = "FRIEND"
)

// Operation - что произошло с сущностью.
type Operation string

const (
	OperationAdd    Operation = "ADD"
	OperationUpdate Operation = "UPDATE"
	OperationRemove Operation = "REMOVE"
)

// FeedEvent - запись ленты событий: кто, с чем и что сделал.
// События публикуются после основной записи и никогда не откатывают её.
type FeedEvent struct {
	EventID   int64     `json:"eventId" db:"event_id"`
	UserID    int64     `json:"userId" db:"user_id"`
	EntityID  int64     `json:"entityId" db:"entity_id"`
	EventType EventType `json:"eventType" db:"event_type"`
	Operation Operation `json:"operation" db:"operation"`
	Timestamp time.Time `json:"timestamp" db:"created_at"`
}
