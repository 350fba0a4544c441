package controller

import (
	"net/http"

	"openlearner_backend/internal/service"
	"openlearner_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type StudyController struct {
	StudyService *service.StudyService
}

func NewStudyController(studyService *service.StudyService) *StudyController {
	return &StudyController{StudyService: studyService}
}

// RecordStudy godoc
// @Summary 记录一次学习
// @Description 追加学习记录并更新连续学习天数（按 UTC 日期）
// @Tags 学习记录
// @Accept json
// @Produce json
// @Param request body service.RecordStudyRequest true "学习记录"
// @Success 200 {object} util.Response{data=model.StudyResult}
// @Failure 400 {object} util.ErrorResponse
// @Router /api/study [post]
func (c *StudyController) RecordStudy(ctx *gin.Context) {
	var req service.RecordStudyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Invalid request body")
		return
	}

	result, err := c.StudyService.RecordSession(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// GetStudy godoc
// @Summary 学习统计
// @Description type=today 时只返回今天是否学习过
// @Tags 学习记录
// @Produce json
// @Param userId query string false "用户ID" default(user-1)
// @Param type query string false "today"
// @Success 200 {object} model.StudyStats
// @Router /api/study [get]
func (c *StudyController) GetStudy(ctx *gin.Context) {
	userID := ctx.DefaultQuery("userId", util.DefaultUserID)

	if ctx.Query("type") == "today" {
		studied, err := c.StudyService.HasStudiedToday(ctx.Request.Context(), userID)
		if err != nil {
			util.HandleError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"hasStudied": studied})
		return
	}

	stats, err := c.StudyService.GetStats(ctx.Request.Context(), userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, stats)
}
