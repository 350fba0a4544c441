package controller

import (
	"context"
	"net/http"
	"time"

	"openlearner_backend/internal/llm"
	"openlearner_backend/internal/repository"
	"openlearner_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type HealthController struct {
	Store    repository.Store
	Registry *llm.Registry
}

func NewHealthController(store repository.Store, registry *llm.Registry) *HealthController {
	return &HealthController{Store: store, Registry: registry}
}

// @Summary 健康检查
// @Description 存储不可用时返回 503；模型提供方未配置只在 components 中体现
// @Tags 系统
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} util.ErrorResponse
// @Router /health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	if err := c.Store.Ping(pingCtx); err != nil {
		util.Error(ctx, http.StatusServiceUnavailable, "Store unavailable")
		return
	}

	components := gin.H{"store": "up"}
	if c.Registry != nil {
		ai := "unconfigured"
		if c.Registry.Provider().IsAvailable() {
			ai = "configured"
		}
		components["ai"] = gin.H{"provider": c.Registry.Selected(), "status": ai}
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"components": components,
	})
}
