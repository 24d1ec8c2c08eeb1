package endpoints

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/greensys-tech/invernadero/internal/db"
	"github.com/greensys-tech/invernadero/internal/http/api"
	"github.com/greensys-tech/invernadero/internal/http/api/admin/packets"
	"github.com/greensys-tech/invernadero/internal/model"
	"github.com/greensys-tech/invernadero/internal/schedule"
)

type ScheduleController struct {
	store  db.Store
	engine *schedule.Engine
}

func NewScheduleController(store db.Store, engine *schedule.Engine) *ScheduleController {
	return &ScheduleController{store: store, engine: engine}
}

func ScheduleModule(store db.Store, engine *schedule.Engine) api.Module {
	ctl := NewScheduleController(store, engine)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/schedules/:kind", ctl.listSchedules)
		c.POST("/schedules/:kind", ctl.createSchedule)
		c.GET("/schedules/:kind/:id", ctl.getSchedule)
		c.PUT("/schedules/:kind/:id", ctl.updateSchedule)
		c.DELETE("/schedules/:kind/:id", ctl.deleteSchedule)
		c.PATCH("/schedules/:kind/:id/state", ctl.toggleSchedule)
		c.GET("/schedules/:kind/:id/history", ctl.listHistory)
	})
}

// GET /api/admin/schedules/:kind?zone_id=
func (s *ScheduleController) listSchedules(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	kind, apiErr := kindParam(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	zoneID, _ := strconv.Atoi(ctx.Query("zone_id"))

	list, err := s.engine.List(kind, zoneID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to list schedules"}
	}

	response := make([]packets.ScheduleResponse, 0, len(list))
	for _, it := range list {
		response = append(response, packets.NewScheduleResponse(it))
	}
	return response, nil
}

// POST /api/admin/schedules/:kind
func (s *ScheduleController) createSchedule(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	kind, apiErr := kindParam(ctx)
	if apiErr != nil {
		return nil, apiErr
	}

	var request packets.ScheduleRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	// Zone gating happens here, not in the engine: the zone must exist and
	// be operational before any window validation runs.
	zone, err := s.store.GetZone(request.ZoneID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "zone not found"}
	}
	if zone.Status != model.ZoneOperational {
		return nil, &api.APIError{Code: http.StatusConflict, Message: "zone is not operational"}
	}

	created, err := s.engine.Create(kind, schedule.WindowInput{
		ZoneID:      request.ZoneID,
		StartsAt:    request.StartsAt,
		EndsAt:      request.EndsAt,
		Mode:        request.Mode,
		Description: request.Description,
	})
	if err != nil {
		return nil, scheduleError(err)
	}
	return api.Created(packets.NewScheduleResponse(created)), nil
}

// GET /api/admin/schedules/:kind/:id
func (s *ScheduleController) getSchedule(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	kind, id, apiErr := kindAndID(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	found, err := s.engine.Get(kind, id)
	if err != nil {
		return nil, scheduleError(err)
	}
	return packets.NewScheduleResponse(found), nil
}

// PUT /api/admin/schedules/:kind/:id
func (s *ScheduleController) updateSchedule(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	kind, id, apiErr := kindAndID(ctx)
	if apiErr != nil {
		return nil, apiErr
	}

	var request packets.ScheduleRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	updated, err := s.engine.Update(kind, id, schedule.WindowInput{
		ZoneID:      request.ZoneID,
		StartsAt:    request.StartsAt,
		EndsAt:      request.EndsAt,
		Mode:        request.Mode,
		Description: request.Description,
	})
	if err != nil {
		return nil, scheduleError(err)
	}
	return packets.NewScheduleResponse(updated), nil
}

// DELETE /api/admin/schedules/:kind/:id
func (s *ScheduleController) deleteSchedule(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	kind, id, apiErr := kindAndID(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	if err := s.engine.Delete(kind, id); err != nil {
		return nil, scheduleError(err)
	}
	return gin.H{"message": "deleted"}, nil
}

// PATCH /api/admin/schedules/:kind/:id/state
func (s *ScheduleController) toggleSchedule(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	kind, id, apiErr := kindAndID(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	active, err := s.engine.Toggle(kind, id)
	if err != nil {
		return nil, scheduleError(err)
	}
	return packets.ScheduleStateResponse{ID: id, Active: active}, nil
}

// GET /api/admin/schedules/:kind/:id/history
func (s *ScheduleController) listHistory(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	kind, id, apiErr := kindAndID(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	entries, err := s.engine.History(kind, id)
	if err != nil {
		return nil, scheduleError(err)
	}
	response := make([]packets.HistoryEntryResponse, 0, len(entries))
	for _, h := range entries {
		response = append(response, packets.NewHistoryEntryResponse(h))
	}
	return response, nil
}

func kindParam(ctx *gin.Context) (schedule.Kind, *api.APIError) {
	kind, err := schedule.ParseKind(ctx.Param("kind"))
	if err != nil {
		return "", &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	return kind, nil
}

func kindAndID(ctx *gin.Context) (schedule.Kind, int, *api.APIError) {
	kind, apiErr := kindParam(ctx)
	if apiErr != nil {
		return "", 0, apiErr
	}
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return "", 0, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	return kind, id, nil
}

// scheduleError maps engine errors onto API status codes.
func scheduleError(err error) *api.APIError {
	var ve schedule.ValidationError
	switch {
	case errors.As(err, &ve):
		return &api.APIError{Code: http.StatusBadRequest, Message: ve.Error(), Fields: ve}
	case errors.Is(err, schedule.ErrNotFound):
		return &api.APIError{Code: http.StatusNotFound, Message: "schedule not found"}
	case errors.Is(err, schedule.ErrConflict):
		return &api.APIError{Code: http.StatusConflict, Message: err.Error()}
	case errors.Is(err, schedule.ErrLocked):
		return &api.APIError{Code: http.StatusConflict, Message: err.Error()}
	default:
		return &api.APIError{Code: http.StatusInternalServerError, Message: "unexpected error"}
	}
}
