package controller

import (
	"net/http"

	"openlearner_backend/internal/service"
	"openlearner_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{CourseService: courseService}
}

// GetCourses godoc
// @Summary 课程列表或课程详情
// @Description 传 id 时返回课程详情（关卡状态按 userId 合并），否则返回全部课程
// @Tags 课程
// @Produce json
// @Param id query string false "课程ID"
// @Param userId query string false "用户ID" default(user-1)
// @Success 200 {object} model.CourseDetail
// @Failure 404 {object} util.ErrorResponse
// @Router /api/courses [get]
func (c *CourseController) GetCourses(ctx *gin.Context) {
	courseID := ctx.Query("id")
	userID := ctx.DefaultQuery("userId", util.DefaultUserID)

	if courseID != "" {
		detail, err := c.CourseService.GetCourse(ctx.Request.Context(), courseID, userID)
		if err != nil {
			util.HandleError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, detail)
		return
	}

	courses, err := c.CourseService.ListCourses(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"courses": courses})
}
