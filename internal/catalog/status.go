package catalog

type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusPublished EventStatus = "published"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusCompleted EventStatus = "completed"
)

// IsValid checks if the event status is valid
func (s EventStatus) IsValid() bool {
	switch s {
	case EventStatusDraft, EventStatusPublished, EventStatusCancelled, EventStatusCompleted:
		return true
	}
	return false
}

// IsBookable checks if tickets for an event with this status can be sold
func (s EventStatus) IsBookable() bool {
	return s == EventStatusPublished
}

func (s EventStatus) String() string {
	return string(s)
}
