package controller

import (
	"net/http"

	"openlearner_backend/internal/service"
	"openlearner_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type FeedbackController struct {
	FeedbackService *service.FeedbackService
}

func NewFeedbackController(feedbackService *service.FeedbackService) *FeedbackController {
	return &FeedbackController{FeedbackService: feedbackService}
}

// RecordAnswer godoc
// @Summary 记录作答
// @Tags 反馈
// @Accept json
// @Produce json
// @Param request body service.RecordAnswerRequest true "作答"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.ErrorResponse
// @Router /api/answers [post]
func (c *FeedbackController) RecordAnswer(ctx *gin.Context) {
	var req service.RecordAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Invalid request body")
		return
	}
	if err := c.FeedbackService.RecordAnswer(ctx.Request.Context(), req); err != nil {
		util.HandleError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, util.Response{Success: true})
}

// ListAnswers godoc
// @Summary 作答记录
// @Tags 反馈
// @Produce json
// @Param userId query string false "用户ID" default(user-1)
// @Param levelId query string false "关卡ID"
// @Success 200 {object} map[string][]model.UserAnswer
// @Router /api/answers [get]
func (c *FeedbackController) ListAnswers(ctx *gin.Context) {
	answers, err := c.FeedbackService.ListAnswers(ctx.Request.Context(),
		ctx.DefaultQuery("userId", util.DefaultUserID), ctx.Query("levelId"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"answers": answers})
}

// RecordFeedback godoc
// @Summary 记录难度反馈
// @Tags 反馈
// @Accept json
// @Produce json
// @Param request body service.RecordFeedbackRequest true "反馈"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.ErrorResponse
// @Router /api/feedback [post]
func (c *FeedbackController) RecordFeedback(ctx *gin.Context) {
	var req service.RecordFeedbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Invalid request body")
		return
	}
	if err := c.FeedbackService.RecordFeedback(ctx.Request.Context(), req); err != nil {
		util.HandleError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, util.Response{Success: true})
}

// ListFeedback godoc
// @Summary 难度反馈记录
// @Tags 反馈
// @Produce json
// @Param userId query string false "用户ID" default(user-1)
// @Param levelId query string false "关卡ID"
// @Success 200 {object} map[string][]model.UserFeedback
// @Router /api/feedback [get]
func (c *FeedbackController) ListFeedback(ctx *gin.Context) {
	feedback, err := c.FeedbackService.ListFeedback(ctx.Request.Context(),
		ctx.DefaultQuery("userId", util.DefaultUserID), ctx.Query("levelId"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"feedback": feedback})
}
