package endpoints

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/greensys-tech/invernadero/internal/http/api"
	"github.com/greensys-tech/invernadero/internal/redis"
	"github.com/greensys-tech/invernadero/internal/schedule"
)

// pollCacheTTL bounds staleness for controllers polling every few seconds.
const pollCacheTTL = 5 * time.Second

type PollController struct {
	engine    *schedule.Engine
	zoneCount int
}

// PollModule mounts the endpoint field controllers poll to learn which
// zones should be running right now.
func PollModule(engine *schedule.Engine, zoneCount int) api.Module {
	ctl := &PollController{engine: engine, zoneCount: zoneCount}
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_GET("/schedules/:kind/zones/active", ctl.activeZones)
	})
}

// GET /api/field/schedules/:kind/zones/active
func (p *PollController) activeZones(ctx *gin.Context) (any, *api.APIError) {
	kind, err := schedule.ParseKind(ctx.Param("kind"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	cacheKey := "field:active:" + string(kind)
	if cached, err := redis.Get(context.Background(), cacheKey); err == nil && cached != "" {
		var out map[string]any
		if err := json.Unmarshal([]byte(cached), &out); err == nil {
			return out, nil
		}
	}

	out, err := p.engine.ActiveZones(kind, p.zoneCount)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to resolve active zones"}
	}

	if payload, err := json.Marshal(out); err == nil {
		redis.Set(context.Background(), cacheKey, payload, pollCacheTTL)
	}
	return out, nil
}
