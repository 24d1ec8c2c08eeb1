package endpoints

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/greensys-tech/invernadero/internal/db"
	"github.com/greensys-tech/invernadero/internal/http/api"
	"github.com/greensys-tech/invernadero/internal/http/api/admin/packets"
	"github.com/greensys-tech/invernadero/internal/model"
)

type VisitController struct {
	store db.Store
}

func VisitModule(store db.Store) api.Module {
	ctl := &VisitController{store: store}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/visits", ctl.listVisits)
		c.POST("/visits", ctl.createVisit)
		c.GET("/visits/:id", ctl.getVisit)
		c.PUT("/visits/:id", ctl.updateVisit)
		c.DELETE("/visits/:id", ctl.deleteVisit)
	})
}

// GET /api/admin/visits?greenhouse_id=
func (v *VisitController) listVisits(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	greenhouseID, _ := strconv.Atoi(ctx.Query("greenhouse_id"))
	list, err := v.store.ListVisits(greenhouseID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to list visits"}
	}
	return list, nil
}

func (v *VisitController) createVisit(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.VisitRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	if _, err := v.store.GetGreenhouse(request.GreenhouseID); err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "greenhouse not found"}
	}

	created, err := v.store.CreateVisit(model.VisitLog{
		GreenhouseID: request.GreenhouseID,
		VisitorName:  request.VisitorName,
		Purpose:      request.Purpose,
		VisitedAt:    request.VisitedAt,
		Notes:        request.Notes,
	})
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create visit"}
	}
	return api.Created(created), nil
}

func (v *VisitController) getVisit(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	found, err := v.store.GetVisit(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "visit not found"}
	}
	return found, nil
}

func (v *VisitController) updateVisit(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	existing, err := v.store.GetVisit(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "visit not found"}
	}

	var request packets.VisitRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	updated, err := v.store.UpdateVisit(model.VisitLog{
		ID:           existing.ID,
		GreenhouseID: existing.GreenhouseID,
		VisitorName:  request.VisitorName,
		Purpose:      request.Purpose,
		VisitedAt:    request.VisitedAt,
		Notes:        request.Notes,
	})
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update visit"}
	}
	return updated, nil
}

func (v *VisitController) deleteVisit(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	if _, err := v.store.GetVisit(id); err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "visit not found"}
	}
	if err := v.store.DeleteVisit(id); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not delete visit"}
	}
	return gin.H{"message": "deleted"}, nil
}
