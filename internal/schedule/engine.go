package schedule

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/greensys-tech/invernadero/internal/metrics"
	"github.com/greensys-tech/invernadero/internal/model"
)

// Audience partitions for live notification push.
const (
	AudienceOperations     = "operational-staff"
	AudienceAdministration = "administrative-staff"
)

// Store is the persistence surface the engine needs. db.Store satisfies it.
type Store interface {
	GetZone(id int) (model.Zone, error)

	ListSchedules(kind string) ([]model.Schedule, error)
	ListZoneSchedules(kind string, zoneID int) ([]model.Schedule, error)
	ListSchedulesAt(kind string, at time.Time) ([]model.Schedule, error)
	ListActiveAutoSchedules(zoneID int) ([]model.Schedule, error)
	GetSchedule(kind string, id int) (model.Schedule, error)
	CreateScheduleWithHistory(s model.Schedule, h model.ScheduleHistoryEntry) (model.Schedule, error)
	UpdateSchedule(s model.Schedule) (model.Schedule, error)
	DeleteSchedule(kind string, id int, cascadeHistory bool) error
	SetScheduleActive(kind string, id int, active bool) error
	DeactivateSchedule(id int, endsAt time.Time) error

	CreateHistoryEntry(h model.ScheduleHistoryEntry) error
	ListHistory(scheduleID int) ([]model.ScheduleHistoryEntry, error)

	CreateNotification(n model.Notification) (model.Notification, error)
}

// Publisher delivers a stored notification to a live audience channel.
// Delivery is fire-and-forget; a missed push is recoverable through the
// notification read API.
type Publisher interface {
	Publish(audience string, n model.Notification)
}

// Engine validates schedule windows, rejects overlaps, and drives the
// active/inactive state machine, deriving history records and notifications
// from state transitions.
type Engine struct {
	store     Store
	publisher Publisher
	now       func() time.Time
}

func New(store Store, publisher Publisher) *Engine {
	return &Engine{store: store, publisher: publisher, now: time.Now}
}

// WindowInput is the caller-supplied field set for create and update.
type WindowInput struct {
	ZoneID      int
	StartsAt    time.Time
	EndsAt      time.Time
	Mode        string
	Description string
}

// Create validates a proposed window, rejects overlaps against existing
// schedules of the same kind in the zone, and persists the schedule together
// with its initial history entry in one transaction.
func (e *Engine) Create(kind Kind, in WindowInput) (model.Schedule, error) {
	cfg := kind.Config()
	now := e.now()

	ve := ValidationError{}
	if in.ZoneID <= 0 {
		ve["zone_id"] = "must be a positive integer"
	}
	if in.StartsAt.IsZero() {
		ve["starts_at"] = "is required"
	}
	if in.EndsAt.IsZero() {
		ve["ends_at"] = "is required"
	}
	var mode Mode
	if cfg.RequiresMode {
		m, err := ParseMode(in.Mode)
		if err != nil {
			ve["mode"] = err.Error()
		}
		mode = m
	}
	if len(ve) > 0 {
		return model.Schedule{}, ve
	}
	if !in.StartsAt.Before(in.EndsAt) {
		ve["ends_at"] = "must be after starts_at"
	}
	if in.StartsAt.Before(now) {
		ve["starts_at"] = "must not be in the past"
	}
	if len(ve) > 0 {
		return model.Schedule{}, ve
	}

	// Check-then-act: the overlap check and the insert are not serialized
	// against concurrent creates for the same zone.
	existing, err := e.store.ListZoneSchedules(string(kind), in.ZoneID)
	if err != nil {
		return model.Schedule{}, err
	}
	for _, s := range existing {
		if overlaps(in.StartsAt, in.EndsAt, s.StartsAt, s.EndsAt) {
			metrics.ScheduleConflict(string(kind))
			return model.Schedule{}, ErrConflict
		}
	}

	sched := model.Schedule{
		Kind:     string(kind),
		ZoneID:   in.ZoneID,
		StartsAt: in.StartsAt,
		EndsAt:   in.EndsAt,
		Active:   true,
	}
	if cfg.RequiresMode {
		m := string(mode)
		sched.Mode = &m
	}
	if in.Description != "" {
		d := in.Description
		sched.Description = &d
	}
	entry := model.ScheduleHistoryEntry{
		ZoneID:          in.ZoneID,
		ActivatedAt:     in.StartsAt,
		DurationMinutes: durationMinutes(in.StartsAt, in.EndsAt),
	}
	return e.store.CreateScheduleWithHistory(sched, entry)
}

// Update replaces the schedule's field set. A schedule whose window has
// started while still active is locked. Overlap against siblings is not
// re-checked on update.
func (e *Engine) Update(kind Kind, id int, in WindowInput) (model.Schedule, error) {
	cfg := kind.Config()
	s, err := e.store.GetSchedule(string(kind), id)
	if err != nil {
		return model.Schedule{}, ErrNotFound
	}
	if e.locked(s) {
		return model.Schedule{}, ErrLocked
	}

	ve := ValidationError{}
	if in.ZoneID <= 0 {
		ve["zone_id"] = "must be a positive integer"
	}
	if !in.StartsAt.Before(in.EndsAt) {
		ve["ends_at"] = "must be after starts_at"
	}
	var mode Mode
	if cfg.RequiresMode {
		m, err := ParseMode(in.Mode)
		if err != nil {
			ve["mode"] = err.Error()
		}
		mode = m
	}
	if len(ve) > 0 {
		return model.Schedule{}, ve
	}

	s.ZoneID = in.ZoneID
	s.StartsAt = in.StartsAt
	s.EndsAt = in.EndsAt
	s.Mode = nil
	if cfg.RequiresMode {
		m := string(mode)
		s.Mode = &m
	}
	s.Description = nil
	if in.Description != "" {
		d := in.Description
		s.Description = &d
	}
	return e.store.UpdateSchedule(s)
}

// Delete removes a schedule under the same lock guard as Update. History
// entries are cascade-deleted only for kinds configured to do so.
func (e *Engine) Delete(kind Kind, id int) error {
	s, err := e.store.GetSchedule(string(kind), id)
	if err != nil {
		return ErrNotFound
	}
	if e.locked(s) {
		return ErrLocked
	}
	return e.store.DeleteSchedule(string(kind), id, kind.Config().CascadeHistoryOnDelete)
}

// Toggle flips the active flag unconditionally. The transition to active
// creates a history entry sized from the original window and notifies
// operational staff; the transition to inactive only notifies.
func (e *Engine) Toggle(kind Kind, id int) (bool, error) {
	cfg := kind.Config()
	s, err := e.store.GetSchedule(string(kind), id)
	if err != nil {
		return false, ErrNotFound
	}
	next := !s.Active
	if err := e.store.SetScheduleActive(string(kind), id, next); err != nil {
		return false, err
	}

	if next {
		entry := model.ScheduleHistoryEntry{
			ScheduleID:      &s.ID,
			ZoneID:          s.ZoneID,
			ActivatedAt:     e.now(),
			DurationMinutes: durationMinutes(s.StartsAt, s.EndsAt),
		}
		if err := e.store.CreateHistoryEntry(entry); err != nil {
			log.Error().Err(err).Int("schedule_id", s.ID).Msg("history entry for activation failed")
		}
		e.emit(cfg.StartedCategory, cfg.StartedTitle, fmt.Sprintf(cfg.StartedMessage, s.ZoneID), s.ZoneID, AudienceOperations)
	} else {
		e.emit(cfg.EndedCategory, cfg.EndedTitle, fmt.Sprintf(cfg.EndedMessage, s.ZoneID), s.ZoneID, AudienceOperations)
	}
	return next, nil
}

// Get returns one schedule of the given kind.
func (e *Engine) Get(kind Kind, id int) (model.Schedule, error) {
	s, err := e.store.GetSchedule(string(kind), id)
	if err != nil {
		return model.Schedule{}, ErrNotFound
	}
	return s, nil
}

// List returns schedules of a kind, optionally filtered to one zone.
func (e *Engine) List(kind Kind, zoneID int) ([]model.Schedule, error) {
	if zoneID > 0 {
		return e.store.ListZoneSchedules(string(kind), zoneID)
	}
	return e.store.ListSchedules(string(kind))
}

// History returns the activation history of one schedule.
func (e *Engine) History(kind Kind, id int) ([]model.ScheduleHistoryEntry, error) {
	if _, err := e.store.GetSchedule(string(kind), id); err != nil {
		return nil, ErrNotFound
	}
	return e.store.ListHistory(id)
}

// ActiveZones builds the polling map for field controllers: every zone id
// from 1 to zoneCount defaults to false, then schedules whose window contains
// "now" overlay their value. Irrigation reports the normalized watering mode
// without consulting the active flag; lighting reports true and requires it.
func (e *Engine) ActiveZones(kind Kind, zoneCount int) (map[string]any, error) {
	cfg := kind.Config()
	now := e.now()

	out := make(map[string]any, zoneCount)
	for i := 1; i <= zoneCount; i++ {
		out[strconv.Itoa(i)] = false
	}

	rows, err := e.store.ListSchedulesAt(string(kind), now)
	if err != nil {
		return nil, err
	}
	for _, s := range rows {
		if cfg.PollRequiresActive && !s.Active {
			continue
		}
		key := strconv.Itoa(s.ZoneID)
		if _, ok := out[key]; !ok {
			continue
		}
		if cfg.RequiresMode {
			if s.Mode != nil {
				out[key] = NormalizeMode(*s.Mode)
			}
		} else {
			out[key] = true
		}
	}
	return out, nil
}

func (e *Engine) locked(s model.Schedule) bool {
	return !s.StartsAt.After(e.now()) && s.Active
}

// emit persists a notification and pushes it to the given audiences.
func (e *Engine) emit(category, title, message string, zoneID int, audiences ...string) {
	n := model.Notification{
		Category: category,
		Title:    title,
		Message:  message,
		ZoneID:   &zoneID,
	}
	stored, err := e.store.CreateNotification(n)
	if err != nil {
		log.Error().Err(err).Str("category", category).Msg("notification persist failed")
		stored = n
	}
	if e.publisher == nil {
		return
	}
	for _, audience := range audiences {
		e.publisher.Publish(audience, stored)
	}
}

// overlaps is the closed-interval test: boundary touch counts as overlap.
func overlaps(newStart, newEnd, start, end time.Time) bool {
	return within(newStart, start, end) ||
		within(newEnd, start, end) ||
		(!start.Before(newStart) && !end.After(newEnd))
}

func within(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

func durationMinutes(start, end time.Time) int {
	return int(math.Round(end.Sub(start).Minutes()))
}
