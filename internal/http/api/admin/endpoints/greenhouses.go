package endpoints

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/greensys-tech/invernadero/internal/db"
	"github.com/greensys-tech/invernadero/internal/http/api"
	"github.com/greensys-tech/invernadero/internal/http/api/admin/packets"
	"github.com/greensys-tech/invernadero/internal/model"
	"github.com/greensys-tech/invernadero/internal/storage"
)

type GreenhouseController struct {
	store         db.Store
	storageSystem storage.Storage
}

func GreenhouseModule(store db.Store, storageSystem storage.Storage) api.Module {
	ctl := &GreenhouseController{store: store, storageSystem: storageSystem}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/greenhouses", ctl.listGreenhouses)
		c.POST("/greenhouses", ctl.createGreenhouse)
		c.GET("/greenhouses/:id", ctl.getGreenhouse)
		c.PUT("/greenhouses/:id", ctl.updateGreenhouse)
		c.DELETE("/greenhouses/:id", ctl.deleteGreenhouse)
		c.POST("/greenhouses/:id/image", ctl.uploadImage)
	})
}

func (g *GreenhouseController) listGreenhouses(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	list, err := g.store.ListGreenhouses()
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to list greenhouses"}
	}
	return list, nil
}

func (g *GreenhouseController) createGreenhouse(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.GreenhouseRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	created, err := g.store.CreateGreenhouse(model.Greenhouse{
		Name:        request.Name,
		Location:    request.Location,
		Description: request.Description,
	})
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create greenhouse"}
	}
	return api.Created(created), nil
}

func (g *GreenhouseController) getGreenhouse(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	found, err := g.store.GetGreenhouse(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "greenhouse not found"}
	}
	return found, nil
}

func (g *GreenhouseController) updateGreenhouse(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	if _, err := g.store.GetGreenhouse(id); err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "greenhouse not found"}
	}

	var request packets.GreenhouseRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	updated, err := g.store.UpdateGreenhouse(model.Greenhouse{
		ID:          id,
		Name:        request.Name,
		Location:    request.Location,
		Description: request.Description,
	})
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update greenhouse"}
	}
	return updated, nil
}

func (g *GreenhouseController) deleteGreenhouse(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	if _, err := g.store.GetGreenhouse(id); err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "greenhouse not found"}
	}
	if err := g.store.DeleteGreenhouse(id); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not delete greenhouse"}
	}
	return gin.H{"message": "deleted"}, nil
}

// POST /api/admin/greenhouses/:id/image
func (g *GreenhouseController) uploadImage(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	if _, err := g.store.GetGreenhouse(id); err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "greenhouse not found"}
	}

	fileHeader, err := ctx.FormFile("image")
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "image file is required"}
	}

	url, err := g.storageSystem.SaveFile(fileHeader, fileHeader.Filename)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not store image"}
	}
	if err := g.store.SetGreenhouseImage(id, url); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not save image url"}
	}
	return gin.H{"image_url": url}, nil
}
