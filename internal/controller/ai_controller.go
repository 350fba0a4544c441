package controller

import (
	"net/http"

	"openlearner_backend/internal/model"
	"openlearner_backend/internal/service"
	"openlearner_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AIController struct {
	CourseService       *service.CourseService
	LevelContentService *service.LevelContentService
	AIService           *service.AIService
}

func NewAIController(courseService *service.CourseService, levelContentService *service.LevelContentService, aiService *service.AIService) *AIController {
	return &AIController{
		CourseService:       courseService,
		LevelContentService: levelContentService,
		AIService:           aiService,
	}
}

// LevelContentResponse 关卡内容，cached 表示是否命中缓存
// swagger:model LevelContentResponse
type LevelContentResponse struct {
	Success bool           `json:"success"`
	Data    LevelStepsData `json:"data"`
	Cached  bool           `json:"cached"`
}

type LevelStepsData struct {
	Steps []model.LessonStep `json:"steps"`
}

// GenerateCourse godoc
// @Summary 根据学习资料生成课程
// @Description 资料去除首尾空白后至少 50 个字符，只生成章节与关卡大纲
// @Tags AI
// @Accept json
// @Produce json
// @Param request body service.GenerateCourseRequest true "学习资料"
// @Success 200 {object} util.Response{data=service.GeneratedCourse}
// @Failure 400 {object} util.ErrorResponse
// @Failure 500 {object} util.ErrorResponse
// @Router /api/ai/generate-course [post]
func (c *AIController) GenerateCourse(ctx *gin.Context) {
	var req service.GenerateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Invalid request body")
		return
	}

	result, err := c.CourseService.GenerateCourse(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// GenerateLevel godoc
// @Summary 生成或读取关卡内容
// @Description 带反馈、历史作答或 generateNext 时跳过缓存重新生成
// @Tags AI
// @Accept json
// @Produce json
// @Param request body service.LevelContentRequest true "关卡信息"
// @Success 200 {object} LevelContentResponse
// @Failure 400 {object} util.ErrorResponse
// @Failure 500 {object} util.ErrorResponse
// @Router /api/ai/generate-level [post]
func (c *AIController) GenerateLevel(ctx *gin.Context) {
	var req service.LevelContentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Invalid request body")
		return
	}

	result, err := c.LevelContentService.GetLevelContent(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, LevelContentResponse{
		Success: true,
		Data:    LevelStepsData{Steps: result.Steps},
		Cached:  result.Cached,
	})
}

// ListProviders godoc
// @Summary 模型提供方状态
// @Tags AI
// @Produce json
// @Success 200 {object} service.ProvidersInfo
// @Router /api/ai/providers [get]
func (c *AIController) ListProviders(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, c.AIService.Providers())
}
