package schedule

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greensys-tech/invernadero/internal/model"
)

// fakeStore is an in-memory Store for engine tests.
type fakeStore struct {
	mu        sync.Mutex
	zones     map[int]model.Zone
	schedules map[int]*model.Schedule
	history   []model.ScheduleHistoryEntry
	notifs    []model.Notification
	nextID    int

	failCreate error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		zones:     make(map[int]model.Zone),
		schedules: make(map[int]*model.Schedule),
	}
}

func (f *fakeStore) GetZone(id int) (model.Zone, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	z, ok := f.zones[id]
	if !ok {
		return model.Zone{}, errors.New("no rows")
	}
	return z, nil
}

func (f *fakeStore) ListSchedules(kind string) ([]model.Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Schedule
	for _, s := range f.schedules {
		if s.Kind == kind {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeStore) ListZoneSchedules(kind string, zoneID int) ([]model.Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Schedule
	for _, s := range f.schedules {
		if s.Kind == kind && s.ZoneID == zoneID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeStore) ListSchedulesAt(kind string, at time.Time) ([]model.Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Schedule
	for _, s := range f.schedules {
		if s.Kind == kind && !s.StartsAt.After(at) && !s.EndsAt.Before(at) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeStore) ListActiveAutoSchedules(zoneID int) ([]model.Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Schedule
	for _, s := range f.schedules {
		if s.ZoneID == zoneID && s.Auto && s.Active {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeStore) GetSchedule(kind string, id int) (model.Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.schedules[id]
	if !ok || s.Kind != kind {
		return model.Schedule{}, errors.New("no rows")
	}
	return *s, nil
}

func (f *fakeStore) CreateScheduleWithHistory(s model.Schedule, h model.ScheduleHistoryEntry) (model.Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate != nil {
		return model.Schedule{}, f.failCreate
	}
	f.nextID++
	s.ID = f.nextID
	f.schedules[s.ID] = &s
	id := s.ID
	h.ScheduleID = &id
	f.history = append(f.history, h)
	return s, nil
}

func (f *fakeStore) UpdateSchedule(s model.Schedule) (model.Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.schedules[s.ID]; !ok {
		return model.Schedule{}, errors.New("no rows")
	}
	f.schedules[s.ID] = &s
	return s, nil
}

func (f *fakeStore) DeleteSchedule(kind string, id int, cascadeHistory bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.schedules, id)
	if cascadeHistory {
		kept := f.history[:0]
		for _, h := range f.history {
			if h.ScheduleID == nil || *h.ScheduleID != id {
				kept = append(kept, h)
			}
		}
		f.history = kept
		return nil
	}
	// Mirrors the ON DELETE SET NULL foreign key.
	for i := range f.history {
		if f.history[i].ScheduleID != nil && *f.history[i].ScheduleID == id {
			f.history[i].ScheduleID = nil
		}
	}
	return nil
}

func (f *fakeStore) SetScheduleActive(kind string, id int, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.schedules[id]
	if !ok || s.Kind != kind {
		return errors.New("no rows")
	}
	s.Active = active
	return nil
}

func (f *fakeStore) DeactivateSchedule(id int, endsAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.schedules[id]
	if !ok {
		return errors.New("no rows")
	}
	s.Active = false
	s.EndsAt = endsAt
	return nil
}

func (f *fakeStore) CreateHistoryEntry(h model.ScheduleHistoryEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.history = append(f.history, h)
	return nil
}

func (f *fakeStore) ListHistory(scheduleID int) ([]model.ScheduleHistoryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.ScheduleHistoryEntry
	for _, h := range f.history {
		if h.ScheduleID != nil && *h.ScheduleID == scheduleID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateNotification(n model.Notification) (model.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n.ID = len(f.notifs) + 1
	f.notifs = append(f.notifs, n)
	return n, nil
}

type published struct {
	audience string
	n        model.Notification
}

type fakePublisher struct {
	mu   sync.Mutex
	sent []published
}

func (p *fakePublisher) Publish(audience string, n model.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, published{audience: audience, n: n})
}

var testNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine() (*Engine, *fakeStore, *fakePublisher) {
	store := newFakeStore()
	store.zones[1] = model.Zone{ID: 1, GreenhouseID: 1, Name: "Zona 1", Status: model.ZoneOperational, HumidityMin: 40, HumidityMax: 70}
	pub := &fakePublisher{}
	engine := New(store, pub)
	engine.now = func() time.Time { return testNow }
	return engine, store, pub
}

func TestCreateSchedule_ActivatesAndRecordsHistory(t *testing.T) {
	engine, store, _ := newTestEngine()

	s, err := engine.Create(KindIrrigation, WindowInput{
		ZoneID:   1,
		StartsAt: testNow.Add(time.Hour),
		EndsAt:   testNow.Add(2 * time.Hour),
		Mode:     "Goteo",
	})
	require.NoError(t, err)

	assert.True(t, s.Active, "new schedules start active")
	require.NotNil(t, s.Mode)
	assert.Equal(t, "drip", *s.Mode)

	history, err := store.ListHistory(s.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, s.StartsAt, history[0].ActivatedAt)
	assert.Equal(t, 60, history[0].DurationMinutes)
}

func TestCreateSchedule_ValidationErrors(t *testing.T) {
	engine, _, _ := newTestEngine()

	cases := []struct {
		name  string
		kind  Kind
		in    WindowInput
		field string
	}{
		{
			name:  "missing zone",
			kind:  KindIrrigation,
			in:    WindowInput{StartsAt: testNow.Add(time.Hour), EndsAt: testNow.Add(2 * time.Hour), Mode: "drip"},
			field: "zone_id",
		},
		{
			name:  "missing mode for irrigation",
			kind:  KindIrrigation,
			in:    WindowInput{ZoneID: 1, StartsAt: testNow.Add(time.Hour), EndsAt: testNow.Add(2 * time.Hour)},
			field: "mode",
		},
		{
			name:  "window inverted",
			kind:  KindLighting,
			in:    WindowInput{ZoneID: 1, StartsAt: testNow.Add(2 * time.Hour), EndsAt: testNow.Add(time.Hour)},
			field: "ends_at",
		},
		{
			name:  "window in the past",
			kind:  KindLighting,
			in:    WindowInput{ZoneID: 1, StartsAt: testNow.Add(-2 * time.Hour), EndsAt: testNow.Add(-time.Hour)},
			field: "starts_at",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := engine.Create(tc.kind, tc.in)
			var ve ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve, tc.field)
		})
	}
}

func TestCreateSchedule_LightingNeedsNoMode(t *testing.T) {
	engine, _, _ := newTestEngine()

	s, err := engine.Create(KindLighting, WindowInput{
		ZoneID:   1,
		StartsAt: testNow.Add(time.Hour),
		EndsAt:   testNow.Add(2 * time.Hour),
	})
	require.NoError(t, err)
	assert.Nil(t, s.Mode)
}

func TestCreateSchedule_RejectsOverlap(t *testing.T) {
	engine, _, _ := newTestEngine()

	_, err := engine.Create(KindIrrigation, WindowInput{
		ZoneID:   1,
		StartsAt: testNow.Add(time.Hour),
		EndsAt:   testNow.Add(2 * time.Hour),
		Mode:     "drip",
	})
	require.NoError(t, err)

	cases := []struct {
		name     string
		startsAt time.Time
		endsAt   time.Time
	}{
		{"straddles the end", testNow.Add(90 * time.Minute), testNow.Add(150 * time.Minute)},
		{"contained inside", testNow.Add(70 * time.Minute), testNow.Add(80 * time.Minute)},
		{"envelops", testNow.Add(30 * time.Minute), testNow.Add(3 * time.Hour)},
		{"touches the end boundary", testNow.Add(2 * time.Hour), testNow.Add(3 * time.Hour)},
		{"touches the start boundary", testNow.Add(30 * time.Minute), testNow.Add(time.Hour)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := engine.Create(KindIrrigation, WindowInput{
				ZoneID:   1,
				StartsAt: tc.startsAt,
				EndsAt:   tc.endsAt,
				Mode:     "drip",
			})
			assert.ErrorIs(t, err, ErrConflict)
		})
	}

	// Other kinds and other zones never conflict.
	_, err = engine.Create(KindLighting, WindowInput{
		ZoneID:   1,
		StartsAt: testNow.Add(time.Hour),
		EndsAt:   testNow.Add(2 * time.Hour),
	})
	assert.NoError(t, err)

	// Disjoint windows are fine.
	_, err = engine.Create(KindIrrigation, WindowInput{
		ZoneID:   1,
		StartsAt: testNow.Add(2*time.Hour + time.Minute),
		EndsAt:   testNow.Add(3 * time.Hour),
		Mode:     "drip",
	})
	assert.NoError(t, err)
}

func TestUpdateSchedule_LockedWhileRunning(t *testing.T) {
	engine, store, _ := newTestEngine()

	// A window that has started and is still active cannot be touched.
	started := model.Schedule{Kind: "irrigation", ZoneID: 1, StartsAt: testNow.Add(-time.Hour), EndsAt: testNow.Add(time.Hour), Active: true}
	created, err := store.CreateScheduleWithHistory(started, model.ScheduleHistoryEntry{ZoneID: 1})
	require.NoError(t, err)

	_, err = engine.Update(KindIrrigation, created.ID, WindowInput{
		ZoneID:   1,
		StartsAt: testNow.Add(time.Hour),
		EndsAt:   testNow.Add(2 * time.Hour),
		Mode:     "drip",
	})
	assert.ErrorIs(t, err, ErrLocked)
	assert.ErrorIs(t, engine.Delete(KindIrrigation, created.ID), ErrLocked)

	// Deactivating unlocks it.
	require.NoError(t, store.SetScheduleActive("irrigation", created.ID, false))
	_, err = engine.Update(KindIrrigation, created.ID, WindowInput{
		ZoneID:   1,
		StartsAt: testNow.Add(time.Hour),
		EndsAt:   testNow.Add(2 * time.Hour),
		Mode:     "spray",
	})
	assert.NoError(t, err)
}

func TestUpdateSchedule_ReplacesFieldSet(t *testing.T) {
	engine, _, _ := newTestEngine()

	created, err := engine.Create(KindIrrigation, WindowInput{
		ZoneID:      1,
		StartsAt:    testNow.Add(time.Hour),
		EndsAt:      testNow.Add(2 * time.Hour),
		Mode:        "drip",
		Description: "ciclo de mañana",
	})
	require.NoError(t, err)

	updated, err := engine.Update(KindIrrigation, created.ID, WindowInput{
		ZoneID:   1,
		StartsAt: testNow.Add(3 * time.Hour),
		EndsAt:   testNow.Add(4 * time.Hour),
		Mode:     "Aspersión",
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Mode)
	assert.Equal(t, "spray", *updated.Mode)
	assert.Nil(t, updated.Description, "omitted description is cleared, not kept")
}

func TestUpdateSchedule_NotFound(t *testing.T) {
	engine, _, _ := newTestEngine()
	_, err := engine.Update(KindIrrigation, 99, WindowInput{
		ZoneID:   1,
		StartsAt: testNow.Add(time.Hour),
		EndsAt:   testNow.Add(2 * time.Hour),
		Mode:     "drip",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteSchedule_HistoryCascadeDiffersByKind(t *testing.T) {
	engine, store, _ := newTestEngine()

	irr, err := engine.Create(KindIrrigation, WindowInput{
		ZoneID: 1, StartsAt: testNow.Add(time.Hour), EndsAt: testNow.Add(2 * time.Hour), Mode: "drip",
	})
	require.NoError(t, err)
	light, err := engine.Create(KindLighting, WindowInput{
		ZoneID: 1, StartsAt: testNow.Add(time.Hour), EndsAt: testNow.Add(2 * time.Hour),
	})
	require.NoError(t, err)

	require.NoError(t, store.SetScheduleActive("irrigation", irr.ID, false))
	require.NoError(t, store.SetScheduleActive("lighting", light.ID, false))

	require.NoError(t, engine.Delete(KindIrrigation, irr.ID))
	require.NoError(t, engine.Delete(KindLighting, light.ID))

	store.mu.Lock()
	defer store.mu.Unlock()
	for _, h := range store.history {
		require.Nil(t, h.ScheduleID, "surviving history must be orphaned")
	}
	assert.Len(t, store.history, 1, "irrigation history cascades, lighting history survives")
}

func TestToggle_HistoryOnlyOnActivation(t *testing.T) {
	engine, store, pub := newTestEngine()

	created, err := engine.Create(KindIrrigation, WindowInput{
		ZoneID: 1, StartsAt: testNow.Add(time.Hour), EndsAt: testNow.Add(2 * time.Hour), Mode: "drip",
	})
	require.NoError(t, err)

	// off
	active, err := engine.Toggle(KindIrrigation, created.ID)
	require.NoError(t, err)
	assert.False(t, active)

	// on again
	active, err = engine.Toggle(KindIrrigation, created.ID)
	require.NoError(t, err)
	assert.True(t, active)

	history, err := store.ListHistory(created.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2, "creation and re-activation each record one entry")
	assert.Equal(t, testNow, history[1].ActivatedAt)
	assert.Equal(t, 60, history[1].DurationMinutes, "re-activation keeps the original window's duration")

	require.Len(t, pub.sent, 2)
	assert.Equal(t, AudienceOperations, pub.sent[0].audience)
	assert.Equal(t, model.CategoryIrrigationEnded, pub.sent[0].n.Category)
	assert.Equal(t, model.CategoryIrrigationStarted, pub.sent[1].n.Category)
}

func TestToggle_NotFound(t *testing.T) {
	engine, _, _ := newTestEngine()
	_, err := engine.Toggle(KindLighting, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestActiveZones_IrrigationReportsModeIgnoringActiveFlag(t *testing.T) {
	engine, store, _ := newTestEngine()

	mode := "spray"
	store.schedules[10] = &model.Schedule{
		ID: 10, Kind: "irrigation", ZoneID: 2,
		StartsAt: testNow.Add(-time.Hour), EndsAt: testNow.Add(time.Hour),
		Mode: &mode, Active: false,
	}

	out, err := engine.ActiveZones(KindIrrigation, 3)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"1": false, "2": "spray", "3": false}, out)
}

func TestActiveZones_LightingRequiresActiveFlag(t *testing.T) {
	engine, store, _ := newTestEngine()

	store.schedules[10] = &model.Schedule{
		ID: 10, Kind: "lighting", ZoneID: 1,
		StartsAt: testNow.Add(-time.Hour), EndsAt: testNow.Add(time.Hour), Active: false,
	}
	store.schedules[11] = &model.Schedule{
		ID: 11, Kind: "lighting", ZoneID: 2,
		StartsAt: testNow.Add(-time.Hour), EndsAt: testNow.Add(time.Hour), Active: true,
	}
	// Outside the configured zone range; must not leak into the payload.
	store.schedules[12] = &model.Schedule{
		ID: 12, Kind: "lighting", ZoneID: 9,
		StartsAt: testNow.Add(-time.Hour), EndsAt: testNow.Add(time.Hour), Active: true,
	}

	out, err := engine.ActiveZones(KindLighting, 3)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"1": false, "2": true, "3": false}, out)
}

func TestDurationMinutes_RoundsHalfMinutes(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want int
	}{
		{15 * time.Minute, 15},
		{90 * time.Second, 2},
		{10*time.Minute + 29*time.Second, 10},
		{10*time.Minute + 30*time.Second, 11},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprint(tc.d), func(t *testing.T) {
			assert.Equal(t, tc.want, durationMinutes(testNow, testNow.Add(tc.d)))
		})
	}
}
