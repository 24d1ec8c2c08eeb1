package packets

import (
	"time"

	"github.com/greensys-tech/invernadero/internal/model"
)

type ProfileResponse struct {
	ID        int     `json:"id"`
	Email     string  `json:"email"`
	Name      *string `json:"name"`
	Role      string  `json:"role"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

type ScheduleResponse struct {
	ID          int     `json:"id"`
	Kind        string  `json:"kind"`
	ZoneID      int     `json:"zone_id"`
	StartsAt    string  `json:"starts_at"`
	EndsAt      string  `json:"ends_at"`
	Mode        *string `json:"mode"`
	Description *string `json:"description"`
	Active      bool    `json:"active"`
	Auto        bool    `json:"auto"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

func NewScheduleResponse(s model.Schedule) ScheduleResponse {
	return ScheduleResponse{
		ID:          s.ID,
		Kind:        s.Kind,
		ZoneID:      s.ZoneID,
		StartsAt:    s.StartsAt.Format(time.RFC3339),
		EndsAt:      s.EndsAt.Format(time.RFC3339),
		Mode:        s.Mode,
		Description: s.Description,
		Active:      s.Active,
		Auto:        s.Auto,
		CreatedAt:   s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   s.UpdatedAt.Format(time.RFC3339),
	}
}

type HistoryEntryResponse struct {
	ID              int    `json:"id"`
	ScheduleID      *int   `json:"schedule_id"`
	ZoneID          int    `json:"zone_id"`
	ActivatedAt     string `json:"activated_at"`
	DurationMinutes int    `json:"duration_minutes"`
}

func NewHistoryEntryResponse(h model.ScheduleHistoryEntry) HistoryEntryResponse {
	return HistoryEntryResponse{
		ID:              h.ID,
		ScheduleID:      h.ScheduleID,
		ZoneID:          h.ZoneID,
		ActivatedAt:     h.ActivatedAt.Format(time.RFC3339),
		DurationMinutes: h.DurationMinutes,
	}
}

type ScheduleStateResponse struct {
	ID     int  `json:"id"`
	Active bool `json:"active"`
}
