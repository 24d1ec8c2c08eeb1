package model

import "time"

// Zone statuses. Schedules may only be created for operational zones.
const (
	ZoneOperational = "operational"
	ZoneMaintenance = "maintenance"
	ZoneInactive    = "inactive"
)

type Zone struct {
	ID           int       `db:"id" json:"id"`
	GreenhouseID int       `db:"greenhouse_id" json:"greenhouse_id"`
	Name         string    `db:"name" json:"name"`
	Status       string    `db:"status" json:"status"`
	CropID       *int      `db:"crop_id" json:"crop_id"`
	HumidityMin  float64   `db:"humidity_min" json:"humidity_min"`
	HumidityMax  float64   `db:"humidity_max" json:"humidity_max"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
