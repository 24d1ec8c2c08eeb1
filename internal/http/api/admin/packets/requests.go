package packets

import "time"

type SignupRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8"`
	Name     *string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateCurrentProfileRequest struct {
	Email string  `json:"email" binding:"required,email"`
	Name  *string `json:"name"`
}

type UpdateUserRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin operator"`
}

type GreenhouseRequest struct {
	Name        string  `json:"name" binding:"required"`
	Location    string  `json:"location" binding:"required"`
	Description *string `json:"description"`
}

type ZoneRequest struct {
	GreenhouseID int     `json:"greenhouse_id" binding:"required"`
	Name         string  `json:"name" binding:"required"`
	Status       string  `json:"status" binding:"required,oneof=operational maintenance inactive"`
	CropID       *int    `json:"crop_id"`
	HumidityMin  float64 `json:"humidity_min"`
	HumidityMax  float64 `json:"humidity_max"`
}

type CropRequest struct {
	Name        string  `json:"name" binding:"required"`
	Variety     *string `json:"variety"`
	Description *string `json:"description"`
}

type ScheduleRequest struct {
	ZoneID      int       `json:"zone_id" binding:"required"`
	StartsAt    time.Time `json:"starts_at" binding:"required"`
	EndsAt      time.Time `json:"ends_at" binding:"required"`
	Mode        string    `json:"mode"`
	Description string    `json:"description"`
}

type VisitRequest struct {
	GreenhouseID int       `json:"greenhouse_id" binding:"required"`
	VisitorName  string    `json:"visitor_name" binding:"required"`
	Purpose      string    `json:"purpose" binding:"required"`
	VisitedAt    time.Time `json:"visited_at" binding:"required"`
	Notes        *string   `json:"notes"`
}
