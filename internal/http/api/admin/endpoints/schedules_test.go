package endpoints

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greensys-tech/invernadero/internal/db"
	"github.com/greensys-tech/invernadero/internal/http/api"
	"github.com/greensys-tech/invernadero/internal/model"
	"github.com/greensys-tech/invernadero/internal/schedule"
)

// stubStore implements the slice of db.Store the schedule endpoints touch.
// The embedded interface panics on anything else, which is what we want.
type stubStore struct {
	db.Store

	zones     map[int]model.Zone
	schedules map[int]*model.Schedule
	history   []model.ScheduleHistoryEntry
	nextID    int
}

func newStubStore() *stubStore {
	return &stubStore{
		zones: map[int]model.Zone{
			1: {ID: 1, GreenhouseID: 1, Name: "Zona 1", Status: model.ZoneOperational, HumidityMin: 40, HumidityMax: 70},
			2: {ID: 2, GreenhouseID: 1, Name: "Zona 2", Status: model.ZoneMaintenance, HumidityMin: 40, HumidityMax: 70},
		},
		schedules: make(map[int]*model.Schedule),
	}
}

func (s *stubStore) GetZone(id int) (model.Zone, error) {
	z, ok := s.zones[id]
	if !ok {
		return model.Zone{}, errors.New("no rows")
	}
	return z, nil
}

func (s *stubStore) ListSchedules(kind string) ([]model.Schedule, error) {
	var out []model.Schedule
	for _, sc := range s.schedules {
		if sc.Kind == kind {
			out = append(out, *sc)
		}
	}
	return out, nil
}

func (s *stubStore) ListZoneSchedules(kind string, zoneID int) ([]model.Schedule, error) {
	var out []model.Schedule
	for _, sc := range s.schedules {
		if sc.Kind == kind && sc.ZoneID == zoneID {
			out = append(out, *sc)
		}
	}
	return out, nil
}

func (s *stubStore) ListSchedulesAt(kind string, at time.Time) ([]model.Schedule, error) {
	var out []model.Schedule
	for _, sc := range s.schedules {
		if sc.Kind == kind && !sc.StartsAt.After(at) && !sc.EndsAt.Before(at) {
			out = append(out, *sc)
		}
	}
	return out, nil
}

func (s *stubStore) ListActiveAutoSchedules(zoneID int) ([]model.Schedule, error) {
	return nil, nil
}

func (s *stubStore) GetSchedule(kind string, id int) (model.Schedule, error) {
	sc, ok := s.schedules[id]
	if !ok || sc.Kind != kind {
		return model.Schedule{}, errors.New("no rows")
	}
	return *sc, nil
}

func (s *stubStore) CreateScheduleWithHistory(sc model.Schedule, h model.ScheduleHistoryEntry) (model.Schedule, error) {
	s.nextID++
	sc.ID = s.nextID
	s.schedules[sc.ID] = &sc
	id := sc.ID
	h.ScheduleID = &id
	s.history = append(s.history, h)
	return sc, nil
}

func (s *stubStore) UpdateSchedule(sc model.Schedule) (model.Schedule, error) {
	s.schedules[sc.ID] = &sc
	return sc, nil
}

func (s *stubStore) DeleteSchedule(kind string, id int, cascadeHistory bool) error {
	delete(s.schedules, id)
	return nil
}

func (s *stubStore) SetScheduleActive(kind string, id int, active bool) error {
	sc, ok := s.schedules[id]
	if !ok {
		return errors.New("no rows")
	}
	sc.Active = active
	return nil
}

func (s *stubStore) DeactivateSchedule(id int, endsAt time.Time) error {
	sc, ok := s.schedules[id]
	if !ok {
		return errors.New("no rows")
	}
	sc.Active = false
	sc.EndsAt = endsAt
	return nil
}

func (s *stubStore) CreateHistoryEntry(h model.ScheduleHistoryEntry) error {
	s.history = append(s.history, h)
	return nil
}

func (s *stubStore) ListHistory(scheduleID int) ([]model.ScheduleHistoryEntry, error) {
	var out []model.ScheduleHistoryEntry
	for _, h := range s.history {
		if h.ScheduleID != nil && *h.ScheduleID == scheduleID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (s *stubStore) CreateNotification(n model.Notification) (model.Notification, error) {
	return n, nil
}

// newScheduleRouter mounts the schedule module behind a middleware that
// injects an authenticated operator, standing in for the JWT layer.
func newScheduleRouter(store *stubStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("currentUser", &model.User{ID: 1, Email: "op@invernadero.test", Role: model.RoleOperator})
	})
	engine := schedule.New(store, nil)
	api.MountGroup(r, api.GroupConfig{Prefix: "/api/admin"}, ScheduleModule(store, engine))
	return r
}

func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func scheduleBody(zoneID int, startsAt, endsAt time.Time, mode string) map[string]any {
	body := map[string]any{
		"zone_id":   zoneID,
		"starts_at": startsAt.Format(time.RFC3339),
		"ends_at":   endsAt.Format(time.RFC3339),
	}
	if mode != "" {
		body["mode"] = mode
	}
	return body
}

func TestCreateSchedule_Created(t *testing.T) {
	store := newStubStore()
	r := newScheduleRouter(store)

	start := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	w := doJSON(r, http.MethodPost, "/api/admin/schedules/irrigation", scheduleBody(1, start, start.Add(time.Hour), "goteo"))

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		ID     int     `json:"id"`
		Active bool    `json:"active"`
		Mode   *string `json:"mode"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Active)
	require.NotNil(t, resp.Mode)
	assert.Equal(t, "drip", *resp.Mode)

	history, err := store.ListHistory(resp.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestCreateSchedule_OverlapConflict(t *testing.T) {
	store := newStubStore()
	r := newScheduleRouter(store)

	start := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	w := doJSON(r, http.MethodPost, "/api/admin/schedules/irrigation", scheduleBody(1, start, start.Add(time.Hour), "drip"))
	require.Equal(t, http.StatusCreated, w.Code)

	// Touching the boundary still conflicts.
	w = doJSON(r, http.MethodPost, "/api/admin/schedules/irrigation", scheduleBody(1, start.Add(time.Hour), start.Add(2*time.Hour), "drip"))
	require.Equal(t, http.StatusConflict, w.Code)

	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "overlaps")
}

func TestCreateSchedule_ValidationFields(t *testing.T) {
	store := newStubStore()
	r := newScheduleRouter(store)

	start := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	w := doJSON(r, http.MethodPost, "/api/admin/schedules/irrigation", scheduleBody(1, start, start.Add(time.Hour), ""))

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Errors, "mode")
}

func TestCreateSchedule_ZoneGating(t *testing.T) {
	store := newStubStore()
	r := newScheduleRouter(store)

	start := time.Now().Add(time.Hour).UTC().Truncate(time.Second)

	w := doJSON(r, http.MethodPost, "/api/admin/schedules/irrigation", scheduleBody(99, start, start.Add(time.Hour), "drip"))
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Zone 2 exists but is under maintenance.
	w = doJSON(r, http.MethodPost, "/api/admin/schedules/irrigation", scheduleBody(2, start, start.Add(time.Hour), "drip"))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "not operational")
}

func TestUpdateSchedule_RunningIsLocked(t *testing.T) {
	store := newStubStore()
	r := newScheduleRouter(store)

	now := time.Now().UTC()
	store.schedules[7] = &model.Schedule{
		ID: 7, Kind: "lighting", ZoneID: 1,
		StartsAt: now.Add(-time.Hour), EndsAt: now.Add(time.Hour), Active: true,
	}
	store.nextID = 7

	w := doJSON(r, http.MethodPut, "/api/admin/schedules/lighting/7", scheduleBody(1, now.Add(2*time.Hour), now.Add(3*time.Hour), ""))
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "running")
}

func TestToggleSchedule_State(t *testing.T) {
	store := newStubStore()
	r := newScheduleRouter(store)

	start := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	w := doJSON(r, http.MethodPost, "/api/admin/schedules/lighting", scheduleBody(1, start, start.Add(time.Hour), ""))
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		ID int `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(r, http.MethodPatch, fmt.Sprintf("/api/admin/schedules/lighting/%d/state", created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var state struct {
		ID     int  `json:"id"`
		Active bool `json:"active"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, created.ID, state.ID)
	assert.False(t, state.Active)
}

func TestScheduleRoutes_BadKind(t *testing.T) {
	store := newStubStore()
	r := newScheduleRouter(store)

	w := doJSON(r, http.MethodGet, "/api/admin/schedules/heating", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleRoutes_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := newStubStore()
	r := gin.New()
	engine := schedule.New(store, nil)
	api.MountGroup(r, api.GroupConfig{Prefix: "/api/admin"}, ScheduleModule(store, engine))

	w := doJSON(r, http.MethodGet, "/api/admin/schedules/irrigation", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
