package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/study-planner-api/api/swagger"
	"github.com/noah-isme/study-planner-api/internal/handler"
	internalmiddleware "github.com/noah-isme/study-planner-api/internal/middleware"
	"github.com/noah-isme/study-planner-api/internal/repository"
	"github.com/noah-isme/study-planner-api/internal/service"
	"github.com/noah-isme/study-planner-api/pkg/cache"
	"github.com/noah-isme/study-planner-api/pkg/clock"
	"github.com/noah-isme/study-planner-api/pkg/config"
	"github.com/noah-isme/study-planner-api/pkg/database"
	"github.com/noah-isme/study-planner-api/pkg/jobs"
	"github.com/noah-isme/study-planner-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/study-planner-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/study-planner-api/pkg/middleware/requestid"
)

const shutdownTimeout = 15 * time.Second

// @title Study Planner API
// @version 1.0.0
// @description Study schedule planning around routines and exams.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	generatorCfg, err := generatorConfig(cfg.Planner)
	if err != nil {
		logr.Fatal("invalid planner configuration", zap.Error(err))
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, continuing without cache and distributed locks", zap.Error(err))
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	app := buildApp(cfg, generatorCfg, db, redisClient, logr)
	app.queue.Start(context.Background())
	defer app.queue.Stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           app.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}

type application struct {
	router *gin.Engine
	queue  *jobs.Queue
}

func buildApp(cfg *config.Config, generatorCfg service.ScheduleGeneratorConfig, db *sqlx.DB, redisClient *redis.Client, logr *zap.Logger) *application {
	validate := validator.New()
	metrics := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db)
	routineRepo := repository.NewRoutineRepository(db)
	examRepo := repository.NewExamRepository(db)
	entryRepo := repository.NewScheduleEntryRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.WeeklyTTL, logr, cfg.Cache.Enabled && redisClient != nil)

	analyticsWorker := service.NewAnalyticsWorker(entryRepo, analyticsRepo, logr)
	queue := jobs.NewQueue("analytics", analyticsWorker.Handle, jobs.QueueConfig{
		Workers:    cfg.Analytics.Workers,
		BufferSize: cfg.Analytics.BufferSize,
		MaxRetries: cfg.Analytics.MaxRetries,
		Logger:     logr,
		Observer: func(job jobs.Job, err error) {
			metrics.RecordJob(job.Type, err)
		},
	})
	analyticsSvc := service.NewAnalyticsService(analyticsRepo, queue, logr)

	var locker service.GenerationLocker = service.NewLocalGenerationLocker(cfg.Planner.LockWait)
	if redisClient != nil {
		locker = service.NewRedisGenerationLocker(
			repository.NewGenerationLockRepository(redisClient, ""),
			service.LockConfig{TTL: cfg.Planner.LockTTL, Wait: cfg.Planner.LockWait, RetryDelay: cfg.Planner.LockRetryDelay},
			logr,
		)
	}

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	routineSvc := service.NewRoutineService(routineRepo, validate, logr)
	examSvc := service.NewExamService(examRepo, validate, logr)
	scheduleSvc := service.NewScheduleService(entryRepo, cacheSvc, analyticsSvc, validate, logr, cfg.Cache.WeeklyTTL)
	exportSvc := service.NewExportService(entryRepo, nil, nil, logr)
	generatorSvc := service.NewScheduleGeneratorService(
		routineRepo, examRepo, entryRepo, locker, cacheSvc, analyticsSvc, metrics, validate, logr, generatorCfg,
	)

	checks := map[string]handler.ReadinessCheck{"database": db.PingContext}
	if redisClient != nil {
		checks["redis"] = cacheRepo.Ping
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))

	health := handler.NewHealthHandler(metrics, checks)
	r.GET("/health", health.Health)
	r.GET("/ready", health.Ready)
	r.GET("/metrics", health.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(internalmiddleware.WithResponseMeta())

	authHandler := handler.NewAuthHandler(authSvc)
	api.POST("/auth/signup", authHandler.Signup)
	api.POST("/auth/signin", authHandler.Signin)

	secured := api.Group("")
	secured.Use(internalmiddleware.JWT(authSvc))
	secured.GET("/auth/me", authHandler.Me)

	routineHandler := handler.NewRoutineHandler(routineSvc)
	secured.GET("/routines", routineHandler.List)
	secured.POST("/routine", routineHandler.Create)
	secured.PUT("/routine/:id", routineHandler.Update)
	secured.DELETE("/routine/:id", routineHandler.Delete)

	examHandler := handler.NewExamHandler(examSvc)
	secured.GET("/exams", examHandler.List)
	secured.POST("/exam", examHandler.Create)
	secured.PUT("/exam/:id", examHandler.Update)
	secured.DELETE("/exam/:id", examHandler.Delete)

	scheduleHandler := handler.NewScheduleHandler(scheduleSvc, exportSvc)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc)
	generatorHandler := handler.NewScheduleGeneratorHandler(generatorSvc)
	secured.POST("/schedule/generate", generatorHandler.Generate)
	secured.GET("/schedule", scheduleHandler.List)
	secured.GET("/schedule/weekly", scheduleHandler.Weekly)
	secured.PUT("/schedule/slot/:id", scheduleHandler.UpdateEntry)
	secured.DELETE("/schedule/slot/:id", scheduleHandler.DeleteEntry)
	secured.GET("/schedule/analytics", analyticsHandler.List)
	secured.GET("/schedule/export", scheduleHandler.Export)

	return &application{router: r, queue: queue}
}

// generatorConfig validates planner settings once at startup; the day window
// must be well-formed even though request input is parsed permissively.
func generatorConfig(p config.PlannerConfig) (service.ScheduleGeneratorConfig, error) {
	dayStart, err := clock.Strict.ParseTime(p.DayStart)
	if err != nil {
		return service.ScheduleGeneratorConfig{}, fmt.Errorf("PLANNER_DAY_START: %w", err)
	}
	dayEnd, err := clock.Strict.ParseTime(p.DayEnd)
	if err != nil {
		return service.ScheduleGeneratorConfig{}, fmt.Errorf("PLANNER_DAY_END: %w", err)
	}
	if dayEnd <= dayStart {
		return service.ScheduleGeneratorConfig{}, fmt.Errorf("planner day end %s must be after start %s", dayEnd, dayStart)
	}
	return service.ScheduleGeneratorConfig{
		DayStart:      dayStart,
		DayEnd:        dayEnd,
		StudyDuration: p.StudyDuration,
		BreakDuration: p.BreakDuration,
		MaxCandidates: p.MaxCandidates,
		DedupeEntries: p.DedupeEntries,
		MaxRangeDays:  p.MaxRangeDays,
	}, nil
}
