package controller

import (
	"net/http"

	"openlearner_backend/internal/service"
	"openlearner_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// UpdateProgress godoc
// @Summary 更新关卡进度
// @Description status 为 completed 且 xpEarned > 0 时累加经验值
// @Tags 学习进度
// @Accept json
// @Produce json
// @Param request body service.UpdateProgressRequest true "进度"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.ErrorResponse
// @Router /api/progress [post]
func (c *ProgressController) UpdateProgress(ctx *gin.Context) {
	var req service.UpdateProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Invalid request body")
		return
	}

	if err := c.ProgressService.UpdateProgress(ctx.Request.Context(), req); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.SuccessMessage(ctx, "Progress updated")
}

// GetProgress godoc
// @Summary 获取课程内已完成的关卡
// @Tags 学习进度
// @Produce json
// @Param userId query string false "用户ID" default(user-1)
// @Param courseId query string true "课程ID"
// @Success 200 {object} service.CourseProgress
// @Failure 400 {object} util.ErrorResponse
// @Router /api/progress [get]
func (c *ProgressController) GetProgress(ctx *gin.Context) {
	progress, err := c.ProgressService.GetProgress(ctx.Request.Context(),
		ctx.DefaultQuery("userId", util.DefaultUserID), ctx.Query("courseId"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, progress)
}
