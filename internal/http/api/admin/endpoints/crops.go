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

type CropController struct {
	store         db.Store
	storageSystem storage.Storage
}

func CropModule(store db.Store, storageSystem storage.Storage) api.Module {
	ctl := &CropController{store: store, storageSystem: storageSystem}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/crops", ctl.listCrops)
		c.POST("/crops", ctl.createCrop)
		c.GET("/crops/:id", ctl.getCrop)
		c.PUT("/crops/:id", ctl.updateCrop)
		c.DELETE("/crops/:id", ctl.deleteCrop)
		c.POST("/crops/:id/image", ctl.uploadImage)
	})
}

func (cc *CropController) listCrops(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	list, err := cc.store.ListCrops()
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to list crops"}
	}
	return list, nil
}

func (cc *CropController) createCrop(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.CropRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	created, err := cc.store.CreateCrop(model.Crop{
		Name:        request.Name,
		Variety:     request.Variety,
		Description: request.Description,
	})
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create crop"}
	}
	return api.Created(created), nil
}

func (cc *CropController) getCrop(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	found, err := cc.store.GetCrop(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "crop not found"}
	}
	return found, nil
}

func (cc *CropController) updateCrop(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	if _, err := cc.store.GetCrop(id); err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "crop not found"}
	}

	var request packets.CropRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	updated, err := cc.store.UpdateCrop(model.Crop{
		ID:          id,
		Name:        request.Name,
		Variety:     request.Variety,
		Description: request.Description,
	})
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update crop"}
	}
	return updated, nil
}

func (cc *CropController) deleteCrop(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	if _, err := cc.store.GetCrop(id); err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "crop not found"}
	}
	if err := cc.store.DeleteCrop(id); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not delete crop"}
	}
	return gin.H{"message": "deleted"}, nil
}

func (cc *CropController) uploadImage(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	if _, err := cc.store.GetCrop(id); err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "crop not found"}
	}

	fileHeader, err := ctx.FormFile("image")
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "image file is required"}
	}

	url, err := cc.storageSystem.SaveFile(fileHeader, fileHeader.Filename)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not store image"}
	}
	if err := cc.store.SetCropImage(id, url); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not save image url"}
	}
	return gin.H{"image_url": url}, nil
}
