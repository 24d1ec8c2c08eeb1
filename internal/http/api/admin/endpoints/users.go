package endpoints

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/greensys-tech/invernadero/internal/db"
	"github.com/greensys-tech/invernadero/internal/http/api"
	"github.com/greensys-tech/invernadero/internal/http/api/admin/packets"
	"github.com/greensys-tech/invernadero/internal/model"
)

type UserController struct {
	store db.Store
}

// UserModule mounts account administration endpoints. Every handler requires
// the admin role.
func UserModule(store db.Store) api.Module {
	ctl := &UserController{store: store}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/users", ctl.listUsers)
		c.PATCH("/users/:id/role", ctl.updateRole)
		c.DELETE("/users/:id", ctl.deleteUser)
	})
}

func requireAdmin(user *model.User) *api.APIError {
	if user.Role != model.RoleAdmin {
		return &api.APIError{Code: http.StatusForbidden, Message: "admin role required"}
	}
	return nil
}

func (u *UserController) listUsers(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	if apiErr := requireAdmin(user); apiErr != nil {
		return nil, apiErr
	}
	list, err := u.store.ListUsers()
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to list users"}
	}

	response := make([]packets.ProfileResponse, 0, len(list))
	for _, it := range list {
		response = append(response, packets.ProfileResponse{
			ID:        it.ID,
			Email:     it.Email,
			Name:      it.Name,
			Role:      it.Role,
			CreatedAt: it.CreatedAt.Format(time.RFC3339),
			UpdatedAt: it.UpdatedAt.Format(time.RFC3339),
		})
	}
	return response, nil
}

// PATCH /api/admin/users/:id/role
func (u *UserController) updateRole(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	if apiErr := requireAdmin(user); apiErr != nil {
		return nil, apiErr
	}
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	var request packets.UpdateUserRoleRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if _, err := u.store.GetUserByID(id); err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "user not found"}
	}
	if err := u.store.UpdateUserRole(id, request.Role); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update role"}
	}
	return gin.H{"message": "updated"}, nil
}

func (u *UserController) deleteUser(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	if apiErr := requireAdmin(user); apiErr != nil {
		return nil, apiErr
	}
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	if id == user.ID {
		return nil, &api.APIError{Code: http.StatusConflict, Message: "cannot delete your own account"}
	}
	if _, err := u.store.GetUserByID(id); err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "user not found"}
	}
	if err := u.store.DeleteUser(id); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not delete user"}
	}
	return gin.H{"message": "deleted"}, nil
}
