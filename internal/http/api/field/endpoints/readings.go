package endpoints

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/greensys-tech/invernadero/internal/http/api"
	"github.com/greensys-tech/invernadero/internal/http/api/field/packets"
	"github.com/greensys-tech/invernadero/internal/model"
	"github.com/greensys-tech/invernadero/internal/schedule"
)

type ReadingController struct {
	monitor *schedule.Monitor
}

// ReadingModule mounts humidity ingestion for field sensors.
func ReadingModule(monitor *schedule.Monitor) api.Module {
	ctl := &ReadingController{monitor: monitor}
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_POST("/readings", ctl.ingestReading)
	})
}

// POST /api/field/readings
func (rc *ReadingController) ingestReading(ctx *gin.Context) (any, *api.APIError) {
	var request packets.ReadingRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	err := rc.monitor.HandleReading(model.SensorReading{
		ZoneID:  request.ZoneID,
		Value:   *request.Value,
		TakenAt: request.TakenAt,
	})
	if err != nil {
		if errors.Is(err, schedule.ErrNotFound) {
			return nil, &api.APIError{Code: http.StatusNotFound, Message: "zone not found"}
		}
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not process reading"}
	}
	return gin.H{"message": "processed"}, nil
}
