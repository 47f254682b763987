package domain

import "time"

// ChangeType names a lifecycle change published to the event stream
type ChangeType string

const (
	ChangeCreated   ChangeType = "event.created"
	ChangeUpdated   ChangeType = "event.updated"
	ChangePublished ChangeType = "event.published"
	ChangeArchived  ChangeType = "event.archived"
	ChangeDeleted   ChangeType = "event.deleted"
)

// EventChange is the message body for a lifecycle change
type EventChange struct {
	ID         string      `json:"id"`
	Type       ChangeType  `json:"type"`
	EventID    string      `json:"event_id"`
	Slug       string      `json:"slug"`
	Title      string      `json:"title"`
	Status     EventStatus `json:"status"`
	Category   Category    `json:"category"`
	ActorID    string      `json:"actor_id"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// NewEventChange snapshots e for the stream
func NewEventChange(t ChangeType, e *Event, actorID, id string) *EventChange {
	return &EventChange{
		ID:         id,
		Type:       t,
		EventID:    e.ID,
		Slug:       e.Slug,
		Title:      e.Title,
		Status:     e.Status,
		Category:   e.Category,
		ActorID:    actorID,
		OccurredAt: time.Now().UTC(),
	}
}

// Key partitions the stream by event so changes to one event stay ordered
func (c *EventChange) Key() string {
	return c.EventID
}
