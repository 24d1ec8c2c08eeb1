package schedule

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/greensys-tech/invernadero/internal/metrics"
	"github.com/greensys-tech/invernadero/internal/model"
)

// autoWindow is how long a threshold-triggered irrigation run lasts.
const autoWindow = 15 * time.Minute

// Monitor turns humidity readings into automatic irrigation. The per-zone
// alert flag is process-local and lost on restart; it is not shared across
// instances.
type Monitor struct {
	engine *Engine

	mu     sync.Mutex
	alerts map[int]bool
}

func NewMonitor(engine *Engine) *Monitor {
	return &Monitor{engine: engine, alerts: make(map[int]bool)}
}

// HandleReading applies one humidity sample against the zone's configured
// bounds. Alerts are edge-triggered: a second consecutive low reading for
// the same zone is silent until an in-range reading clears the flag.
func (m *Monitor) HandleReading(r model.SensorReading) error {
	zone, err := m.engine.store.GetZone(r.ZoneID)
	if err != nil {
		return ErrNotFound
	}
	at := r.TakenAt
	if at.IsZero() {
		at = m.engine.now()
	}

	switch {
	case r.Value < zone.HumidityMin:
		return m.handleLow(zone, r.Value, at)
	case r.Value > zone.HumidityMax:
		return m.handleHigh(zone, r.Value, at)
	default:
		return m.handleInRange(zone, r.Value, at)
	}
}

func (m *Monitor) handleLow(zone model.Zone, value float64, at time.Time) error {
	m.mu.Lock()
	if m.alerts[zone.ID] {
		m.mu.Unlock()
		return nil
	}
	m.alerts[zone.ID] = true
	m.mu.Unlock()

	mode := string(ModeDrip)
	sched := model.Schedule{
		Kind:     string(KindIrrigation),
		ZoneID:   zone.ID,
		StartsAt: at,
		EndsAt:   at.Add(autoWindow),
		Mode:     &mode,
		Active:   true,
		Auto:     true,
	}
	entry := model.ScheduleHistoryEntry{
		ZoneID:          zone.ID,
		ActivatedAt:     at,
		DurationMinutes: int(autoWindow.Minutes()),
	}
	if _, err := m.engine.store.CreateScheduleWithHistory(sched, entry); err != nil {
		// Clear the flag so the next low reading retries the activation.
		m.clear(zone.ID)
		return err
	}

	metrics.SensorAlert("low")
	m.engine.emit(
		model.CategorySensorAlert,
		"Humedad baja",
		fmt.Sprintf("Humedad baja en la zona %d: %.1f%% (mínimo %.1f%%)", zone.ID, value, zone.HumidityMin),
		zone.ID,
		AudienceOperations, AudienceAdministration,
	)
	log.Info().Int("zone_id", zone.ID).Float64("value", value).Msg("auto irrigation started")
	return nil
}

func (m *Monitor) handleHigh(zone model.Zone, value float64, at time.Time) error {
	m.clear(zone.ID)

	stopped, err := m.stopAutoSchedules(zone.ID, at)
	if err != nil {
		return err
	}
	if stopped == 0 {
		return nil
	}

	metrics.SensorAlert("high")
	m.engine.emit(
		model.CategorySensorAlert,
		"Humedad alta",
		fmt.Sprintf("Humedad alta en la zona %d: %.1f%% (máximo %.1f%%), riego detenido", zone.ID, value, zone.HumidityMax),
		zone.ID,
		AudienceOperations, AudienceAdministration,
	)
	return nil
}

func (m *Monitor) handleInRange(zone model.Zone, value float64, at time.Time) error {
	m.mu.Lock()
	wasAlerting := m.alerts[zone.ID]
	delete(m.alerts, zone.ID)
	m.mu.Unlock()

	if !wasAlerting {
		return nil
	}

	if _, err := m.stopAutoSchedules(zone.ID, at); err != nil {
		return err
	}

	metrics.SensorAlert("recovered")
	m.engine.emit(
		model.CategorySensorAlert,
		"Humedad normalizada",
		fmt.Sprintf("La humedad de la zona %d volvió a estar dentro del rango: %.1f%%", zone.ID, value),
		zone.ID,
		AudienceOperations, AudienceAdministration,
	)
	return nil
}

// stopAutoSchedules deactivates running auto schedules for the zone and
// clamps their end to the reading's timestamp. No history is written here.
func (m *Monitor) stopAutoSchedules(zoneID int, at time.Time) (int, error) {
	autos, err := m.engine.store.ListActiveAutoSchedules(zoneID)
	if err != nil {
		return 0, err
	}
	for _, s := range autos {
		if err := m.engine.store.DeactivateSchedule(s.ID, at); err != nil {
			return 0, err
		}
	}
	return len(autos), nil
}

func (m *Monitor) clear(zoneID int) {
	m.mu.Lock()
	delete(m.alerts, zoneID)
	m.mu.Unlock()
}
