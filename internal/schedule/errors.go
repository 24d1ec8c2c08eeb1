package schedule

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when the schedule id does not resolve.
	ErrNotFound = errors.New("schedule not found")
	// ErrConflict is returned when a proposed window overlaps an existing
	// schedule of the same kind for the same zone.
	ErrConflict = errors.New("schedule window overlaps an existing schedule for this zone")
	// ErrLocked is returned when mutating a schedule that has started and
	// is still active.
	ErrLocked = errors.New("schedule is running and cannot be modified")
)

// ValidationError is a field-keyed map of validation messages.
type ValidationError map[string]string

func (v ValidationError) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+v[f])
	}
	return "invalid schedule: " + strings.Join(parts, "; ")
}
