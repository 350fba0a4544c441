package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"openlearner_backend/internal/config"
	"openlearner_backend/internal/controller"
	"openlearner_backend/internal/generation"
	"openlearner_backend/internal/llm"
	"openlearner_backend/internal/repository"
	"openlearner_backend/internal/service"
	"openlearner_backend/pkg/configwatcher"
	"openlearner_backend/pkg/database"
	"openlearner_backend/pkg/logger"
	"openlearner_backend/pkg/monitoring"
	"openlearner_backend/pkg/objectstore"
	"openlearner_backend/pkg/scheduler"
	"openlearner_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	Store    repository.Store
	DB       *gorm.DB
	Redis    *redis.Client
	Registry *llm.Registry

	scheduler      *scheduler.Scheduler
	tracerProvider *sdktrace.TracerProvider
	stopWatch      context.CancelFunc
}

type services struct {
	course       *service.CourseService
	levelContent *service.LevelContentService
	progress     *service.ProgressService
	study        *service.StudyService
	user         *service.UserService
	feedback     *service.FeedbackService
	ai           *service.AIService
}

type controllers struct {
	ai       *controller.AIController
	course   *controller.CourseController
	progress *controller.ProgressController
	study    *controller.StudyController
	user     *controller.UserController
	feedback *controller.FeedbackController
	health   *controller.HealthController
}

func initServices(store repository.Store, registry *llm.Registry, cfg *config.Config) *services {
	return &services{
		course: service.NewCourseService(store, generation.NewOutlineGenerator(registry)),
		levelContent: service.NewLevelContentService(store, generation.NewLevelGenerator(registry),
			service.WithDedupe(cfg.AI.DedupeGeneration),
			service.WithCacheTTL(cfg.Cache.TTL),
		),
		progress: service.NewProgressService(store),
		study:    service.NewStudyService(store),
		user:     service.NewUserService(store),
		feedback: service.NewFeedbackService(store),
		ai:       service.NewAIService(registry),
	}
}

func initControllers(s *services, store repository.Store, registry *llm.Registry) *controllers {
	return &controllers{
		ai:       controller.NewAIController(s.course, s.levelContent, s.ai),
		course:   controller.NewCourseController(s.course),
		progress: controller.NewProgressController(s.progress),
		study:    controller.NewStudyController(s.study),
		user:     controller.NewUserController(s.user, s.ai),
		feedback: controller.NewFeedbackController(s.feedback),
		health:   controller.NewHealthController(store, registry),
	}
}

// openDatabase 连接数据库并执行自动迁移
func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return db, nil
}

// initStore 按配置组装存储：基础存储 -> 对象存储资料 -> Redis 内容缓存
func (a *App) initStore(ctx context.Context) (repository.Store, error) {
	cfg := a.Config

	var store repository.Store
	switch cfg.Storage.Backend {
	case "memory":
		logger.Log.Info("Using in-memory store")
		store = repository.NewMemoryStore()
	default:
		db, err := openDatabase(cfg)
		if err != nil {
			return nil, err
		}
		a.DB = db
		store = repository.NewGormStore(db)
	}

	objects, err := objectstore.New(ctx, &cfg.Material)
	if err != nil {
		return nil, fmt.Errorf("init material storage: %w", err)
	}
	if objects != nil {
		logger.Log.Info("Course material kept in object storage", zap.String("backend", cfg.Material.Backend))
		store = repository.NewObjectMaterialRepo(store, objects)
	}

	if cfg.Redis.Enabled {
		rdb, err := database.InitRedis(ctx, &cfg.Redis)
		if err != nil {
			// 缓存不可用时退回到直接读写存储
			logger.Log.Warn("Redis unavailable, level content cache disabled", zap.Error(err))
		} else {
			a.Redis = rdb
			store = repository.NewRedisContentCache(store, rdb, cfg.Redis.TTL)
		}
	}

	if cfg.Storage.SeedSample {
		if err := repository.SeedSampleCourse(ctx, store); err != nil {
			return nil, fmt.Errorf("seed sample course: %w", err)
		}
	}
	return store, nil
}

func NewApp(cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	// 监控初始化
	monitoring.Init()

	app := &App{Config: cfg}

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(cfg.Tracing)
		if err != nil {
			return nil, fmt.Errorf("init tracing: %w", err)
		}
		app.tracerProvider = tp
	}

	store, err := app.initStore(context.Background())
	if err != nil {
		return nil, err
	}
	app.Store = store

	app.Registry = llm.NewRegistry(cfg.AI)
	logger.Log.Info("AI provider selected", zap.String("provider", app.Registry.Selected()))

	svcs := initServices(store, app.Registry, cfg)
	ctrls := initControllers(svcs, store, app.Registry)

	if cfg.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	setupMiddlewares(router, cfg)
	registerRoutes(router, ctrls, cfg)
	app.Router = router

	app.scheduler = scheduler.New(store, cfg.Cache.TTL, cfg.Cache.PruneInterval)

	return app, nil
}

// Migrate 只执行数据库迁移，供 migrate 子命令使用
func Migrate(cfg *config.Config) error {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	logger.Log.Info("Database migration completed", zap.String("driver", cfg.Database.Driver))
	return nil
}

func (a *App) startBackgroundTasks() {
	if err := a.scheduler.Start(); err != nil {
		logger.Log.Error("Failed to start scheduler", zap.Error(err))
	}

	configFile := filepath.Join(a.Config.ConfigDir, "config.yaml")
	if _, err := os.Stat(configFile); err != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	if err := configwatcher.Watch(ctx, configFile, func(newCfg *config.Config) {
		logger.SetMode(newCfg.Server.Mode)
	}); err != nil {
		cancel()
		logger.Log.Warn("Config hot reload disabled", zap.Error(err))
		return
	}
	a.stopWatch = cancel
}

func (a *App) shutdown(ctx context.Context) {
	a.scheduler.Stop()
	if a.stopWatch != nil {
		a.stopWatch()
	}
	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
}

func (a *App) Run() error {
	defer logger.Log.Sync()

	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	a.startBackgroundTasks()

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case <-quit:
		logger.Log.Info("Shutting down server...")
	case runErr = <-errCh:
		logger.Log.Error("Server failed", zap.Error(runErr))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}
	a.shutdown(ctx)

	logger.Log.Info("Server exiting")
	return runErr
}
