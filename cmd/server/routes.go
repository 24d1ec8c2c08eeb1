package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/greensys-tech/invernadero/internal/db"
	"github.com/greensys-tech/invernadero/internal/http/api"
	adminapi "github.com/greensys-tech/invernadero/internal/http/api/admin/endpoints"
	fieldapi "github.com/greensys-tech/invernadero/internal/http/api/field/endpoints"
	"github.com/greensys-tech/invernadero/internal/http/middleware"
	"github.com/greensys-tech/invernadero/internal/metrics"
	"github.com/greensys-tech/invernadero/internal/notify"
	"github.com/greensys-tech/invernadero/internal/schedule"
	"github.com/greensys-tech/invernadero/internal/storage"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(
	r *gin.Engine,
	env Environment,
	store db.Store,
	storageSystem storage.Storage,
	engine *schedule.Engine,
	monitor *schedule.Monitor,
	hub *notify.Hub,
) {
	// CORS
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"PATCH",
			"DELETE",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
			"X-Field-Token",
		},
		ExposeHeaders: []string{
			"Content-Length",
		},
		AllowCredentials: false,
	}))

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/admin",
		Auth:   false,
	},
		adminapi.AuthPublicModule(env.SecretKey, store),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/admin",
		Auth:      true,
		SecretKey: env.SecretKey,
		Store:     store,
	},
		adminapi.GreenhouseModule(store, storageSystem),
		adminapi.ZoneModule(store),
		adminapi.CropModule(store, storageSystem),
		adminapi.VisitModule(store),
		adminapi.ScheduleModule(store, engine),
		adminapi.NotificationModule(store, hub),
		adminapi.UserModule(store),
		// session endpoints that require auth
		adminapi.AuthSessionModule(env.SecretKey, store),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix:     "/api/field",
		Middleware: []gin.HandlerFunc{middleware.FieldTokenMiddleware(env.FieldToken)},
	},
		fieldapi.PollModule(engine, env.FieldZoneCount),
		fieldapi.ReadingModule(monitor),
	)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Static content
	if !env.UseSpaces {
		r.Static("/uploads", env.UploadDir)
	}
}
