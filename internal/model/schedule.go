package model

import "time"

// Schedule is one irrigation or lighting window for a zone. Auto marks
// schedules created by the humidity monitor rather than an operator.
type Schedule struct {
	ID          int       `db:"id" json:"id"`
	Kind        string    `db:"kind" json:"kind"`
	ZoneID      int       `db:"zone_id" json:"zone_id"`
	StartsAt    time.Time `db:"starts_at" json:"starts_at"`
	EndsAt      time.Time `db:"ends_at" json:"ends_at"`
	Mode        *string   `db:"mode" json:"mode"`
	Description *string   `db:"description" json:"description"`
	Active      bool      `db:"active" json:"active"`
	Auto        bool      `db:"auto" json:"auto"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// ScheduleHistoryEntry records one activation. Rows are never updated.
type ScheduleHistoryEntry struct {
	ID              int       `db:"id" json:"id"`
	ScheduleID      *int      `db:"schedule_id" json:"schedule_id"`
	ZoneID          int       `db:"zone_id" json:"zone_id"`
	ActivatedAt     time.Time `db:"activated_at" json:"activated_at"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
