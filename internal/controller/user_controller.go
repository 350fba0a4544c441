package controller

import (
	"net/http"

	"openlearner_backend/internal/service"
	"openlearner_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// UserController 学习者信息与 AI 助手
type UserController struct {
	UserService *service.UserService
	AIService   *service.AIService
}

func NewUserController(userService *service.UserService, aiService *service.AIService) *UserController {
	return &UserController{
		UserService: userService,
		AIService:   aiService,
	}
}

// AssistantRequest hint 使用 question/attempt，explain 使用 content
// swagger:model AssistantRequest
type AssistantRequest struct {
	Question string `json:"question"`
	Attempt  string `json:"attempt"`
	Content  string `json:"content"`
}

// GetUser godoc
// @Summary 获取学习者信息
// @Description 用户不存在时自动创建
// @Tags 用户
// @Produce json
// @Param userId query string false "用户ID" default(user-1)
// @Success 200 {object} service.UserProfile
// @Router /api/user [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	profile, err := c.UserService.GetProfile(ctx.Request.Context(), ctx.DefaultQuery("userId", util.DefaultUserID))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, profile)
}

// Assist godoc
// @Summary AI 答题提示 / 概念解释
// @Tags 用户
// @Accept json
// @Produce json
// @Param action query string true "hint 或 explain"
// @Param request body AssistantRequest true "问题或内容"
// @Success 200 {object} map[string]string
// @Failure 400 {object} util.ErrorResponse
// @Router /api/user [post]
func (c *UserController) Assist(ctx *gin.Context) {
	action := ctx.Query("action")
	if action != "hint" && action != "explain" {
		util.BadRequest(ctx, "Invalid action")
		return
	}

	var req AssistantRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Invalid request body")
		return
	}

	if action == "hint" {
		hint, err := c.AIService.Hint(ctx.Request.Context(), req.Question, req.Attempt)
		if err != nil {
			util.HandleError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"hint": hint})
		return
	}

	explanation, err := c.AIService.Explain(ctx.Request.Context(), req.Content)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"explanation": explanation})
}
