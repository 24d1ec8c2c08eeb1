package model

import "time"

type VisitLog struct {
	ID           int       `db:"id" json:"id"`
	GreenhouseID int       `db:"greenhouse_id" json:"greenhouse_id"`
	VisitorName  string    `db:"visitor_name" json:"visitor_name"`
	Purpose      string    `db:"purpose" json:"purpose"`
	VisitedAt    time.Time `db:"visited_at" json:"visited_at"`
	Notes        *string   `db:"notes" json:"notes"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
