package model

import "time"

type Crop struct {
	ID          int       `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Variety     *string   `db:"variety" json:"variety"`
	Description *string   `db:"description" json:"description"`
	ImageURL    *string   `db:"image_url" json:"image_url"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
