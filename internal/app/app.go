package app

import (
	"coachly_backend/internal/config"
	"coachly_backend/internal/controller"
	"coachly_backend/internal/repository"
	"coachly_backend/internal/service"
	"coachly_backend/pkg/database"
	"coachly_backend/pkg/logger"
	"coachly_backend/pkg/monitoring"
	"coachly_backend/pkg/security"
	"coachly_backend/pkg/tracing"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user        *repository.UserRepository
	course      *repository.CourseRepository
	batch       *repository.BatchRepository
	enrollment  *repository.EnrollmentRepository
	lesson      *repository.LessonRepository
	assignment  *repository.AssignmentRepository
	liveClass   *repository.LiveClassRepository
	exam        *repository.ExamRepository
	attempt     *repository.ExamAttemptRepository
	submission  *repository.ExamSubmissionRepository
	notify      *repository.NotificationRepository
	certificate *repository.CertificateRepository
}

type services struct {
	storage      *service.StorageService
	auth         *service.AuthService
	user         *service.UserService
	course       *service.CourseService
	batch        *service.BatchService
	enrollment   *service.EnrollmentService
	lesson       *service.LessonService
	assignment   *service.AssignmentService
	liveClass    *service.LiveClassService
	exam         *service.ExamService
	attempt      *service.ExamAttemptService
	submission   *service.ExamSubmissionService
	notification *service.NotificationService
	certificate  *service.CertificateService
}

type controllers struct {
	auth         *controller.AuthController
	user         *controller.UserController
	course       *controller.CourseController
	batch        *controller.BatchController
	enrollment   *controller.EnrollmentController
	lesson       *controller.LessonController
	assignment   *controller.AssignmentController
	liveClass    *controller.LiveClassController
	exam         *controller.ExamController
	attempt      *controller.ExamAttemptController
	submission   *controller.ExamSubmissionController
	notification *controller.NotificationController
	certificate  *controller.CertificateController
	health       *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// OnConfigReload 配置热更新入口，由配置监听器调用
func (a *App) OnConfigReload(cfg *config.Config) {
	a.Config = cfg
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
	logger.Log.Info("Config reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		course:      repository.NewCourseRepository(db),
		batch:       repository.NewBatchRepository(db),
		enrollment:  repository.NewEnrollmentRepository(db),
		lesson:      repository.NewLessonRepository(db),
		assignment:  repository.NewAssignmentRepository(db),
		liveClass:   repository.NewLiveClassRepository(db),
		exam:        repository.NewExamRepository(db),
		attempt:     repository.NewExamAttemptRepository(db),
		submission:  repository.NewExamSubmissionRepository(db),
		notify:      repository.NewNotificationRepository(db),
		certificate: repository.NewCertificateRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.notification = service.NewNotificationService(repos.notify, repos.enrollment)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.course = service.NewCourseService(repos.course, repos.batch)
	s.batch = service.NewBatchService(repos.batch, repos.course, repos.user, repos.enrollment)
	s.enrollment = service.NewEnrollmentService(repos.enrollment, repos.batch, s.notification)
	s.lesson = service.NewLessonService(repos.lesson, repos.batch, repos.enrollment, s.notification, s.storage)
	s.assignment = service.NewAssignmentService(repos.assignment, repos.batch, repos.enrollment, s.notification, s.storage)
	s.liveClass = service.NewLiveClassService(repos.liveClass, repos.batch, repos.enrollment, s.notification)
	s.exam = service.NewExamService(repos.exam, repos.batch, repos.enrollment, s.notification, rdb, cfg)
	s.attempt = service.NewExamAttemptService(repos.attempt, repos.exam, repos.enrollment)
	s.submission = service.NewExamSubmissionService(repos.submission, repos.exam, repos.enrollment, s.exam)
	s.certificate = service.NewCertificateService(repos.certificate, repos.batch, repos.enrollment, s.notification)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth, s.user),
		user:         controller.NewUserController(s.user, s.storage),
		course:       controller.NewCourseController(s.course),
		batch:        controller.NewBatchController(s.batch),
		enrollment:   controller.NewEnrollmentController(s.enrollment),
		lesson:       controller.NewLessonController(s.lesson),
		assignment:   controller.NewAssignmentController(s.assignment),
		liveClass:    controller.NewLiveClassController(s.liveClass),
		exam:         controller.NewExamController(s.exam),
		attempt:      controller.NewExamAttemptController(s.attempt, s.exam),
		submission:   controller.NewExamSubmissionController(s.submission, s.storage),
		notification: controller.NewNotificationController(s.notification),
		certificate:  controller.NewCertificateController(s.certificate),
		health:       controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 6000
	}
	windowMinutes := cfg.RateLimit.WindowMinutes
	if windowMinutes <= 0 {
		windowMinutes = 1
	}
	router.Use(security.RateLimiter(maxRequests, time.Duration(windowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if cfg.MigrateOnly {
		log.Println("Migration-only mode, exiting")
		os.Exit(0)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("coaching-platform", cfg.Tracing.CollectorEndpoint, cfg.Tracing.SampleRatio); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
