package model

import "time"

// SensorReading is a humidity sample pushed by field hardware. Readings are
// consumed by the humidity monitor; only their side effects are persisted.
type SensorReading struct {
	ZoneID  int       `json:"zone_id"`
	Value   float64   `json:"value"`
	TakenAt time.Time `json:"taken_at"`
}
