package models

import (
	"fmt"
	"time"
)

// EventType is the kind of clock event.
type EventType int

const (
	ClockIn EventType = iota + 1
	ClockOut
	// ClockOutNow marks a session still open at query time. It only ever
	// appears inside a Moment built by SyntheticNow and is never stored.
	ClockOutNow
)

func (t EventType) String() string {
	switch t {
	case ClockIn:
		return "clock_in"
	case ClockOut:
		return "clock_out"
	case ClockOutNow:
		return "clock_out_now"
	default:
		return fmt.Sprintf("event_type(%d)", int(t))
	}
}

// Persistable reports whether the type may be written to storage.
func (t EventType) Persistable() bool {
	return t == ClockIn || t == ClockOut
}

// IsClockOut is true for both the stored and the synthetic clock-out.
func (t EventType) IsClockOut() bool {
	return t == ClockOut || t == ClockOutNow
}

// ParseEventType maps the stored name back to a persistable type.
func ParseEventType(s string) (EventType, error) {
	switch s {
	case "clock_in", "in":
		return ClockIn, nil
	case "clock_out", "out":
		return ClockOut, nil
	}
	return 0, fmt.Errorf("unknown event type %q", s)
}

// Event is a stored clock event. ID is empty until the event is persisted.
type Event struct {
	ID     string    `json:"id"`
	Time   time.Time `json:"time"`
	Type   EventType `json:"type"`
	TaskID string    `json:"task_id,omitempty"`
	Note   string    `json:"note,omitempty"`
}

// Moment is one element of an evaluated event sequence: either a stored
// event or the synthetic "still clocked in as of now" marker.
type Moment struct {
	event     Event
	synthetic bool
}

// Real wraps a stored event.
func Real(e Event) Moment {
	return Moment{event: e}
}

// SyntheticNow builds the transient clock-out at t.
func SyntheticNow(t time.Time) Moment {
	return Moment{event: Event{Time: t, Type: ClockOutNow}, synthetic: true}
}

func (m Moment) Time() time.Time { return m.event.Time }

func (m Moment) Type() EventType { return m.event.Type }

func (m Moment) IsSynthetic() bool { return m.synthetic }

// Persisted returns the underlying event for real moments only.
func (m Moment) Persisted() (Event, bool) {
	if m.synthetic {
		return Event{}, false
	}
	return m.event, true
}

// Moments wraps stored events in order.
func Moments(events []Event) []Moment {
	out := make([]Moment, 0, len(events))
	for _, e := range events {
		out = append(out, Real(e))
	}
	return out
}
