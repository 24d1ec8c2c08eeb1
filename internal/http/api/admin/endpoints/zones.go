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

type ZoneController struct {
	store db.Store
}

func ZoneModule(store db.Store) api.Module {
	ctl := &ZoneController{store: store}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/zones", ctl.listZones)
		c.POST("/zones", ctl.createZone)
		c.GET("/zones/:id", ctl.getZone)
		c.PUT("/zones/:id", ctl.updateZone)
		c.DELETE("/zones/:id", ctl.deleteZone)
	})
}

// GET /api/admin/zones?greenhouse_id=
func (z *ZoneController) listZones(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	greenhouseID, _ := strconv.Atoi(ctx.Query("greenhouse_id"))
	list, err := z.store.ListZones(greenhouseID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to list zones"}
	}
	return list, nil
}

func (z *ZoneController) createZone(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	request, apiErr := z.bindZone(ctx)
	if apiErr != nil {
		return nil, apiErr
	}

	if _, err := z.store.GetGreenhouse(request.GreenhouseID); err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "greenhouse not found"}
	}

	created, err := z.store.CreateZone(model.Zone{
		GreenhouseID: request.GreenhouseID,
		Name:         request.Name,
		Status:       request.Status,
		CropID:       request.CropID,
		HumidityMin:  request.HumidityMin,
		HumidityMax:  request.HumidityMax,
	})
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create zone"}
	}
	return api.Created(created), nil
}

func (z *ZoneController) getZone(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	found, err := z.store.GetZone(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "zone not found"}
	}
	return found, nil
}

func (z *ZoneController) updateZone(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	existing, err := z.store.GetZone(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "zone not found"}
	}

	request, apiErr := z.bindZone(ctx)
	if apiErr != nil {
		return nil, apiErr
	}

	updated, err := z.store.UpdateZone(model.Zone{
		ID:           existing.ID,
		GreenhouseID: existing.GreenhouseID,
		Name:         request.Name,
		Status:       request.Status,
		CropID:       request.CropID,
		HumidityMin:  request.HumidityMin,
		HumidityMax:  request.HumidityMax,
	})
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update zone"}
	}
	return updated, nil
}

func (z *ZoneController) deleteZone(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	if _, err := z.store.GetZone(id); err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "zone not found"}
	}
	if err := z.store.DeleteZone(id); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not delete zone"}
	}
	return gin.H{"message": "deleted"}, nil
}

func (z *ZoneController) bindZone(ctx *gin.Context) (packets.ZoneRequest, *api.APIError) {
	var request packets.ZoneRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return request, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	if request.HumidityMin >= request.HumidityMax {
		return request, &api.APIError{
			Code:   http.StatusBadRequest,
			Fields: map[string]string{"humidity_min": "must be below humidity_max"},
		}
	}
	return request, nil
}
