// exposes a Store interface that is passed to API handlers and the engine
package db

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/greensys-tech/invernadero/internal/model"
)

type Store interface {
	// user functions
	CreateUser(email, hashedPassword string, name *string, role string) (int, error)
	GetUserByEmail(email string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)
	UpdateUserProfile(id int, email string, name *string) error
	ListUsers() ([]model.User, error)
	UpdateUserRole(id int, role string) error
	DeleteUser(id int) error

	// greenhouse functions
	CreateGreenhouse(g model.Greenhouse) (model.Greenhouse, error)
	GetGreenhouse(id int) (model.Greenhouse, error)
	ListGreenhouses() ([]model.Greenhouse, error)
	UpdateGreenhouse(g model.Greenhouse) (model.Greenhouse, error)
	DeleteGreenhouse(id int) error
	SetGreenhouseImage(id int, url string) error

	// zone functions
	CreateZone(z model.Zone) (model.Zone, error)
	GetZone(id int) (model.Zone, error)
	ListZones(greenhouseID int) ([]model.Zone, error)
	UpdateZone(z model.Zone) (model.Zone, error)
	DeleteZone(id int) error

	// crop functions
	CreateCrop(c model.Crop) (model.Crop, error)
	GetCrop(id int) (model.Crop, error)
	ListCrops() ([]model.Crop, error)
	UpdateCrop(c model.Crop) (model.Crop, error)
	DeleteCrop(id int) error
	SetCropImage(id int, url string) error

	// visit log functions
	CreateVisit(v model.VisitLog) (model.VisitLog, error)
	GetVisit(id int) (model.VisitLog, error)
	ListVisits(greenhouseID int) ([]model.VisitLog, error)
	UpdateVisit(v model.VisitLog) (model.VisitLog, error)
	DeleteVisit(id int) error

	// schedule and history functions (consumed by the engine)
	ListSchedules(kind string) ([]model.Schedule, error)
	ListZoneSchedules(kind string, zoneID int) ([]model.Schedule, error)
	ListSchedulesAt(kind string, at time.Time) ([]model.Schedule, error)
	ListActiveAutoSchedules(zoneID int) ([]model.Schedule, error)
	GetSchedule(kind string, id int) (model.Schedule, error)
	CreateScheduleWithHistory(s model.Schedule, h model.ScheduleHistoryEntry) (model.Schedule, error)
	UpdateSchedule(s model.Schedule) (model.Schedule, error)
	DeleteSchedule(kind string, id int, cascadeHistory bool) error
	SetScheduleActive(kind string, id int, active bool) error
	DeactivateSchedule(id int, endsAt time.Time) error
	CreateHistoryEntry(h model.ScheduleHistoryEntry) error
	ListHistory(scheduleID int) ([]model.ScheduleHistoryEntry, error)

	// notification functions
	CreateNotification(n model.Notification) (model.Notification, error)
	ListNotifications(unreadOnly bool) ([]model.Notification, error)
	MarkNotificationRead(id int) error
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

func NewStore() Store {
	return &pgStore{db: DB}
}
