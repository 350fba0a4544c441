package app

import (
	"context"
	"time"

	"openlearner_backend/docs"
	"openlearner_backend/internal/config"
	"openlearner_backend/pkg/monitoring"
	"openlearner_backend/pkg/security"
	"openlearner_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title OpenLearner 后端 API
// @version 1.0
// @description 游戏化学习平台：由学习资料生成课程、按关卡生成内容、记录进度与连续学习天数。

// @contact.name API支持

// @host localhost:3000
// @BasePath /

func setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// aiTimeout 为模型调用设置上限，0 表示只受请求本身的 context 约束
func aiTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	// 调用模型的接口共用一份更严格的额度
	aiGuard := []gin.HandlerFunc{
		security.RateLimiter(cfg.RateLimit.AIMaxRequests, window),
		aiTimeout(cfg.AI.Timeout),
	}

	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", c.health.HealthCheck)
	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")

	ai := api.Group("/ai", aiGuard...)
	{
		ai.POST("/generate-course", c.ai.GenerateCourse)
		ai.POST("/generate-level", c.ai.GenerateLevel)
		ai.GET("/providers", c.ai.ListProviders)
	}

	api.GET("/courses", c.course.GetCourses)

	api.GET("/progress", c.progress.GetProgress)
	api.POST("/progress", c.progress.UpdateProgress)

	api.GET("/study", c.study.GetStudy)
	api.POST("/study", c.study.RecordStudy)

	api.GET("/user", c.user.GetUser)
	api.POST("/user", append(aiGuard, c.user.Assist)...)

	api.GET("/answers", c.feedback.ListAnswers)
	api.POST("/answers", c.feedback.RecordAnswer)
	api.GET("/feedback", c.feedback.ListFeedback)
	api.POST("/feedback", c.feedback.RecordFeedback)
}
