package app

import (
	"classroom_portal/internal/config"
	"classroom_portal/internal/controller"
	"classroom_portal/internal/repository"
	"classroom_portal/internal/service"
	"classroom_portal/internal/util"
	"classroom_portal/pkg/configwatcher"
	"classroom_portal/pkg/database"
	"classroom_portal/pkg/logger"
	"classroom_portal/pkg/monitoring"
	"classroom_portal/pkg/security"
	"classroom_portal/pkg/tracing"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	tracer          *sdktrace.TracerProvider
	mu              sync.Mutex
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	classroom  *repository.ClassroomRepository
	assessment *repository.AssessmentRepository
	submission *repository.SubmissionRepository
	timetable  *repository.TimetableRepository
	cache      *repository.AssessmentCache
}

type services struct {
	storage    *service.StorageService
	access     *service.AccessService
	assessment *service.AssessmentService
	submission *service.SubmissionService
	timetable  *service.TimetableService
	classroom  *service.ClassroomService
	signaling  *service.SignalingService
}

type controllers struct {
	studentAssessment *controller.StudentAssessmentController
	teacherAssessment *controller.TeacherAssessmentController
	signaling         *controller.SignalingController
	timetable         *controller.TimetableController
	classroom         *controller.ClassroomController
	health            *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.mu.Lock()
	a.configCallbacks = append(a.configCallbacks, callback)
	a.mu.Unlock()
}

// applyConfig 把重新加载的配置交给所有已注册的回调
func (a *App) applyConfig(cfg *config.Config) {
	a.mu.Lock()
	callbacks := append([]func(*config.Config){}, a.configCallbacks...)
	a.mu.Unlock()
	for _, cb := range callbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		classroom:  repository.NewClassroomRepository(db),
		assessment: repository.NewAssessmentRepository(db),
		submission: repository.NewSubmissionRepository(db),
		timetable:  repository.NewTimetableRepository(db),
		cache:      repository.NewAssessmentCache(rdb, cfg.Redis.CacheTTL),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.access = service.NewAccessService(repos.classroom, repos.user, cfg.Location())
	s.assessment = service.NewAssessmentService(repos.assessment, repos.submission, repos.cache, s.storage)
	s.submission = service.NewSubmissionService(db, repos.submission, repos.assessment, cfg.Assessment.SubmissionGrace)
	s.timetable = service.NewTimetableService(repos.timetable, repos.user, repos.classroom)
	s.classroom = service.NewClassroomService(repos.classroom, repos.user, s.storage, s.access)
	s.signaling = service.NewSignalingService(cfg.Signaling)

	a.RegisterConfigCallback(func(newCfg *config.Config) {
		s.access.SetLocation(newCfg.Location())
		s.submission.UpdateGrace(newCfg.Assessment.SubmissionGrace)
		s.signaling.UpdateConfig(newCfg.Signaling)
		logger.Log.Info("Runtime settings updated",
			zap.String("timezone", newCfg.Schedule.Timezone),
			zap.Duration("submission_grace", newCfg.Assessment.SubmissionGrace),
		)
	})

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		studentAssessment: controller.NewStudentAssessmentController(s.assessment, s.submission),
		teacherAssessment: controller.NewTeacherAssessmentController(s.assessment, s.submission),
		signaling:         controller.NewSignalingController(s.signaling),
		timetable:         controller.NewTimetableController(s.timetable),
		classroom:         controller.NewClassroomController(s.classroom),
		health:            controller.NewHealthController(db, a.Redis),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// build 在已打开的连接之上组装整个应用
func build(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *App {
	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	util.RegisterValidators()
	monitoring.Init()

	repos := app.initRepositories(db, rdb, cfg)
	services := app.initServices(repos, cfg, db)
	app.services = services
	controllers := app.initControllers(services, db)

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, services, cfg)

	if cfg.Storage.Type == util.StorageLocal && strings.HasPrefix(cfg.Storage.PublicBaseURL, "/") {
		router.Static(cfg.Storage.PublicBaseURL, cfg.Storage.LocalPath)
	}

	return app
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if cfg.ForceMigrate || cfg.Server.Mode != gin.ReleaseMode {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
		logger.Log.Info("Database migrated")
	}
	if cfg.MigrateOnly {
		return &App{Config: cfg, DB: db}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := build(cfg, db, rdb)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	if a.Config.ConfigFile != "" {
		go func() {
			if err := configwatcher.WatchConfig(watchCtx, a.Config.ConfigFile, a.applyConfig); err != nil {
				logger.Log.Error("Config watcher stopped", zap.Error(err))
			}
		}()
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
}
