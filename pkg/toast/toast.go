package toast

import (
	"math"
	"strconv"
	"time"
)

// Limit is the maximum number of records visible at once.
const Limit = 1

// DefaultRemoveDelay is how long a dismissed record stays in the queue
// before it is removed.
const DefaultRemoveDelay = 1000000 * time.Millisecond

// EventName is the event name dispatched for toasts.
// Client-side code should listen for this event.
const EventName = "site:toast"

// Type represents the toast notification type.
type Type string

const (
	TypeSuccess Type = "success"
	TypeError   Type = "error"
	TypeWarning Type = "warning"
	TypeInfo    Type = "info"
)

// Payload is the content of a toast.
type Payload struct {
	Title       string
	Description string
	Level       Type
}

// Patch holds the fields to change in an update. Nil fields are kept.
type Patch struct {
	Title       *string
	Description *string
	Level       *Type
}

// Record is a toast in the queue.
type Record struct {
	ID          string
	Title       string
	Description string
	Level       Type
	Open        bool
}

// Event returns the detail of the client event for r.
func Event(r Record) map[string]any {
	return map[string]any{
		"id":      r.ID,
		"level":   string(r.Level),
		"title":   r.Title,
		"message": r.Description,
		"open":    r.Open,
	}
}

// ActionType identifies a reducer action.
type ActionType int

const (
	ActionAdd ActionType = iota
	ActionUpdate
	ActionDismiss
	ActionRemove
)

// String returns the action name.
func (a ActionType) String() string {
	switch a {
	case ActionAdd:
		return "add"
	case ActionUpdate:
		return "update"
	case ActionDismiss:
		return "dismiss"
	case ActionRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Action is a state transition.
// Add uses Record; Update uses ID and Patch; Dismiss and Remove use ID,
// where an empty ID targets every record.
type Action struct {
	Type   ActionType
	Record Record
	Patch  Patch
	ID     string
}

// State is the toast queue, most recent first.
type State struct {
	Toasts []Record
}

// Reduce applies a to s and returns the new state. s is not modified.
func Reduce(s State, a Action) State {
	switch a.Type {
	case ActionAdd:
		toasts := make([]Record, 0, Limit)
		toasts = append(toasts, a.Record)
		for _, r := range s.Toasts {
			if len(toasts) == Limit {
				break
			}
			toasts = append(toasts, r)
		}
		return State{Toasts: toasts}

	case ActionUpdate:
		toasts := make([]Record, len(s.Toasts))
		for i, r := range s.Toasts {
			if r.ID == a.ID {
				r = a.Patch.apply(r)
			}
			toasts[i] = r
		}
		return State{Toasts: toasts}

	case ActionDismiss:
		toasts := make([]Record, len(s.Toasts))
		for i, r := range s.Toasts {
			if a.ID == "" || r.ID == a.ID {
				r.Open = false
			}
			toasts[i] = r
		}
		return State{Toasts: toasts}

	case ActionRemove:
		if a.ID == "" {
			return State{Toasts: []Record{}}
		}
		toasts := make([]Record, 0, len(s.Toasts))
		for _, r := range s.Toasts {
			if r.ID != a.ID {
				toasts = append(toasts, r)
			}
		}
		return State{Toasts: toasts}
	}
	return s
}

func (p Patch) apply(r Record) Record {
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.Level != nil {
		r.Level = *p.Level
	}
	return r
}

// idGenerator yields sequential IDs that wrap before overflowing.
type idGenerator struct {
	count int
}

func (g *idGenerator) next() string {
	g.count = (g.count + 1) % math.MaxInt
	return strconv.Itoa(g.count)
}
