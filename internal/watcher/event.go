package watcher

import "time"

// EventType represents the kind of change seen on the watched file.
type EventType int

const (
	// EventModified is emitted when the file's size or mtime changed (after settling)
	EventModified EventType = iota
	// EventRemoved is emitted when the file disappears
	EventRemoved
)

// String returns the string representation of the event type
func (t EventType) String() string {
	switch t {
	case EventModified:
		return "modified"
	case EventRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Event describes a settled change of the watched file.
type Event struct {
	Type    EventType
	Path    string
	Size    int64
	ModTime time.Time
}
