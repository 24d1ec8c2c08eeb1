package endpoints

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/greensys-tech/invernadero/internal/db"
	"github.com/greensys-tech/invernadero/internal/http/api"
	"github.com/greensys-tech/invernadero/internal/http/middleware"
	"github.com/greensys-tech/invernadero/internal/model"
	"github.com/greensys-tech/invernadero/internal/notify"
	"github.com/greensys-tech/invernadero/internal/schedule"
)

type NotificationController struct {
	store db.Store
	hub   *notify.Hub
}

func NotificationModule(store db.Store, hub *notify.Hub) api.Module {
	ctl := &NotificationController{store: store, hub: hub}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/notifications", ctl.listNotifications)
		c.PATCH("/notifications/:id/read", ctl.markRead)

		// Websocket upgrade cannot go through the JSON resolver.
		c.Group.GET("/notifications/live", ctl.live)
	})
}

// GET /api/admin/notifications?unread=true
func (n *NotificationController) listNotifications(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	unreadOnly := ctx.Query("unread") == "true"
	list, err := n.store.ListNotifications(unreadOnly)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to list notifications"}
	}
	return list, nil
}

// PATCH /api/admin/notifications/:id/read
func (n *NotificationController) markRead(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	if err := n.store.MarkNotificationRead(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &api.APIError{Code: http.StatusNotFound, Message: "notification not found"}
		}
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not mark notification"}
	}
	return gin.H{"message": "read"}, nil
}

// GET /api/admin/notifications/live upgrades to a websocket subscribed to
// the audience matching the caller's role.
func (n *NotificationController) live(ctx *gin.Context) {
	user, ok := middleware.GetCurrentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	audience := schedule.AudienceOperations
	if user.Role == model.RoleAdmin {
		audience = schedule.AudienceAdministration
	}
	if err := n.hub.HandleWS(ctx.Writer, ctx.Request, audience); err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
	}
}
