package enums

import "fmt"

// EventStatus describes the lifecycle of a time-bound sales occasion.
type EventStatus string

const (
	EventStatusPlanning  EventStatus = "planning"
	EventStatusActive    EventStatus = "active"
	EventStatusFinalized EventStatus = "finalized"
)

var validEventStatuses = []EventStatus{
	EventStatusPlanning,
	EventStatusActive,
	EventStatusFinalized,
}

// IsValid reports whether the value matches the canonical event status enum.
func (e EventStatus) IsValid() bool {
	for _, candidate := range validEventStatuses {
		if candidate == e {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether the status may move to the target state.
func (e EventStatus) CanTransitionTo(target EventStatus) bool {
	switch e {
	case EventStatusPlanning:
		return target == EventStatusActive
	case EventStatusActive:
		return target == EventStatusFinalized
	default:
		return false
	}
}

// ParseEventStatus converts the raw string to EventStatus.
func ParseEventStatus(value string) (EventStatus, error) {
	for _, candidate := range validEventStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event status %q", value)
}
