package model

import "time"

// Notification categories emitted by the scheduling engine and the
// humidity monitor.
const (
	CategoryIrrigationStarted = "irrigation-started"
	CategoryIrrigationEnded   = "irrigation-ended"
	CategoryLightingStarted   = "lighting-started"
	CategoryLightingEnded     = "lighting-ended"
	CategorySensorAlert       = "sensor-alert"
)

type Notification struct {
	ID        int       `db:"id" json:"id"`
	Category  string    `db:"category" json:"category"`
	Title     string    `db:"title" json:"title"`
	Message   string    `db:"message" json:"message"`
	Read      bool      `db:"is_read" json:"read"`
	ZoneID    *int      `db:"zone_id" json:"zone_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
