package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greensys-tech/invernadero/internal/model"
)

func newTestMonitor() (*Monitor, *fakeStore, *fakePublisher) {
	engine, store, pub := newTestEngine()
	return NewMonitor(engine), store, pub
}

func TestHandleReading_UnknownZone(t *testing.T) {
	monitor, _, _ := newTestMonitor()
	err := monitor.HandleReading(model.SensorReading{ZoneID: 99, Value: 30})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLowHumidity_StartsAutoIrrigation(t *testing.T) {
	monitor, store, pub := newTestMonitor()

	taken := testNow.Add(-time.Minute)
	require.NoError(t, monitor.HandleReading(model.SensorReading{ZoneID: 1, Value: 30, TakenAt: taken}))

	autos, err := store.ListActiveAutoSchedules(1)
	require.NoError(t, err)
	require.Len(t, autos, 1)
	s := autos[0]
	assert.Equal(t, "irrigation", s.Kind)
	assert.Equal(t, taken, s.StartsAt)
	assert.Equal(t, taken.Add(15*time.Minute), s.EndsAt)
	require.NotNil(t, s.Mode)
	assert.Equal(t, "drip", *s.Mode)
	assert.True(t, s.Active)
	assert.True(t, s.Auto)

	history, err := store.ListHistory(s.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 15, history[0].DurationMinutes)

	// Both audiences hear about the alert.
	require.Len(t, pub.sent, 2)
	assert.Equal(t, AudienceOperations, pub.sent[0].audience)
	assert.Equal(t, AudienceAdministration, pub.sent[1].audience)
	assert.Equal(t, "Humedad baja", pub.sent[0].n.Title)
	assert.Equal(t, model.CategorySensorAlert, pub.sent[0].n.Category)
}

func TestLowHumidity_SecondReadingIsSilent(t *testing.T) {
	monitor, store, pub := newTestMonitor()

	require.NoError(t, monitor.HandleReading(model.SensorReading{ZoneID: 1, Value: 30}))
	require.NoError(t, monitor.HandleReading(model.SensorReading{ZoneID: 1, Value: 25}))

	autos, err := store.ListActiveAutoSchedules(1)
	require.NoError(t, err)
	assert.Len(t, autos, 1, "still only one auto schedule")
	assert.Len(t, pub.sent, 2, "no second alert while the flag is set")
}

func TestLowHumidity_PersistFailureRetriesNextReading(t *testing.T) {
	monitor, store, _ := newTestMonitor()

	store.failCreate = assert.AnError
	require.Error(t, monitor.HandleReading(model.SensorReading{ZoneID: 1, Value: 30}))

	store.failCreate = nil
	require.NoError(t, monitor.HandleReading(model.SensorReading{ZoneID: 1, Value: 30}))

	autos, err := store.ListActiveAutoSchedules(1)
	require.NoError(t, err)
	assert.Len(t, autos, 1)
}

func TestHighHumidity_StopsAutoIrrigation(t *testing.T) {
	monitor, store, pub := newTestMonitor()

	require.NoError(t, monitor.HandleReading(model.SensorReading{ZoneID: 1, Value: 30}))
	autos, _ := store.ListActiveAutoSchedules(1)
	require.Len(t, autos, 1)
	id := autos[0].ID

	taken := testNow.Add(5 * time.Minute)
	require.NoError(t, monitor.HandleReading(model.SensorReading{ZoneID: 1, Value: 80, TakenAt: taken}))

	autos, _ = store.ListActiveAutoSchedules(1)
	assert.Empty(t, autos)

	stopped, err := store.GetSchedule("irrigation", id)
	require.NoError(t, err)
	assert.False(t, stopped.Active)
	assert.Equal(t, taken, stopped.EndsAt, "window end clamps to the reading timestamp")

	require.Len(t, pub.sent, 4)
	assert.Equal(t, "Humedad alta", pub.sent[2].n.Title)
}

func TestHighHumidity_SilentWhenNothingRunning(t *testing.T) {
	monitor, _, pub := newTestMonitor()

	require.NoError(t, monitor.HandleReading(model.SensorReading{ZoneID: 1, Value: 80}))
	assert.Empty(t, pub.sent)
}

func TestInRange_RecoversFromAlert(t *testing.T) {
	monitor, store, pub := newTestMonitor()

	require.NoError(t, monitor.HandleReading(model.SensorReading{ZoneID: 1, Value: 30}))

	taken := testNow.Add(10 * time.Minute)
	require.NoError(t, monitor.HandleReading(model.SensorReading{ZoneID: 1, Value: 55, TakenAt: taken}))

	autos, _ := store.ListActiveAutoSchedules(1)
	assert.Empty(t, autos, "recovery stops the auto schedule")

	require.Len(t, pub.sent, 4)
	assert.Equal(t, "Humedad normalizada", pub.sent[2].n.Title)
	assert.Contains(t, pub.sent[2].n.Message, "volvió a estar dentro del rango")

	// The next low reading alerts again.
	require.NoError(t, monitor.HandleReading(model.SensorReading{ZoneID: 1, Value: 30, TakenAt: taken.Add(time.Minute)}))
	assert.Len(t, pub.sent, 6)
}

func TestInRange_SilentWithoutPriorAlert(t *testing.T) {
	monitor, _, pub := newTestMonitor()

	require.NoError(t, monitor.HandleReading(model.SensorReading{ZoneID: 1, Value: 55}))
	assert.Empty(t, pub.sent)
}

func TestBoundaryValuesAreInRange(t *testing.T) {
	monitor, store, pub := newTestMonitor()

	// Exactly min and exactly max are neither low nor high.
	require.NoError(t, monitor.HandleReading(model.SensorReading{ZoneID: 1, Value: 40}))
	require.NoError(t, monitor.HandleReading(model.SensorReading{ZoneID: 1, Value: 70}))

	autos, _ := store.ListActiveAutoSchedules(1)
	assert.Empty(t, autos)
	assert.Empty(t, pub.sent)
}
