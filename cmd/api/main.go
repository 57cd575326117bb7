package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/plbureau/labplanner-api/api/swagger"
	"github.com/plbureau/labplanner-api/internal/handler"
	"github.com/plbureau/labplanner-api/internal/middleware"
	"github.com/plbureau/labplanner-api/internal/planner"
	"github.com/plbureau/labplanner-api/internal/repository"
	"github.com/plbureau/labplanner-api/internal/service"
	"github.com/plbureau/labplanner-api/pkg/cache"
	"github.com/plbureau/labplanner-api/pkg/config"
	"github.com/plbureau/labplanner-api/pkg/database"
	"github.com/plbureau/labplanner-api/pkg/jobs"
	"github.com/plbureau/labplanner-api/pkg/logger"
	corsmiddleware "github.com/plbureau/labplanner-api/pkg/middleware/cors"
	reqidmiddleware "github.com/plbureau/labplanner-api/pkg/middleware/requestid"
	"github.com/plbureau/labplanner-api/pkg/storage"
)

// @title Lab Planner API
// @version 1.0.0
// @description Daily classroom and lab room assignment for science courses
// @BasePath /api/v1
// @schemes http

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, planning cache disabled", "error", err)
		redisClient = nil
	}

	teacherRepo := repository.NewTeacherRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	windowRepo := repository.NewRoomWindowRepository(db)
	requestRepo := repository.NewMaterialRequestRepository(db)
	planningRepo := repository.NewPlanningRepository(db)
	reportRepo := repository.NewReportRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	teacherSvc := service.NewTeacherService(teacherRepo, validate, logr)
	roomSvc := service.NewRoomService(roomRepo, validate, logr)
	availabilitySvc := service.NewAvailabilityService(windowRepo, roomRepo, validate, logr)

	deadline := service.DeadlinePolicy{
		NoticeDays: cfg.Deadline.NoticeDays,
		Holidays:   cfg.Deadline.Holidays,
	}
	requestSvc := service.NewMaterialRequestService(requestRepo, teacherRepo, deadline, validate, logr)

	engine := planner.New(planner.Config{
		SolveTimeout:         cfg.Planner.SolveTimeout,
		SpecialRoom:          cfg.Planner.SpecialRoom,
		OpenWhenUnconfigured: cfg.Planner.SpecialRoomOpen,
		DefaultStartToken:    cfg.Planner.DefaultStartToken,
	}, logr)

	planningSvc := service.NewPlanningService(requestRepo, roomRepo, availabilitySvc, planningRepo, cacheRepo, engine, metricsSvc, service.PlanningServiceConfig{
		SpecialRoom: cfg.Planner.SpecialRoom,
		CacheTTL:    cfg.Planning.CacheTTL,
	}, logr)

	fileStore, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init export storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
	exportSvc := service.NewExportService(planningRepo, roomRepo, requestRepo, fileStore, signer, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Reports.SignedURLTTL,
	}, logr, nil, nil)

	worker := service.NewReportWorker(reportRepo, exportSvc, cfg.Reports.WorkerRetries, logr)
	queue := jobs.NewQueue("reports", worker.Handle, jobs.QueueConfig{
		Workers:    cfg.Reports.WorkerConcurrency,
		MaxRetries: cfg.Reports.WorkerRetries,
		Logger:     logr,
	})
	ctx := context.Background()
	queue.Start(ctx)
	defer queue.Stop()

	reportSvc := service.NewReportService(reportRepo, queue, exportSvc, logr, service.ReportServiceConfig{
		ResultTTL:       cfg.Reports.SignedURLTTL,
		CleanupInterval: cfg.Reports.CleanupInterval,
		MaxRetries:      cfg.Reports.WorkerRetries,
	})
	reportSvc.RecoverPendingJobs(ctx)
	reportSvc.StartCleanup(ctx)

	teacherHandler := handler.NewTeacherHandler(teacherSvc)
	roomHandler := handler.NewRoomHandler(roomSvc)
	availabilityHandler := handler.NewAvailabilityHandler(availabilitySvc)
	requestHandler := handler.NewMaterialRequestHandler(requestSvc)
	planningHandler := handler.NewPlanningHandler(planningSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/teachers", teacherHandler.List)
		api.POST("/teachers", teacherHandler.Create)
		api.GET("/teachers/:id", teacherHandler.Get)
		api.PUT("/teachers/:id", teacherHandler.Update)
		api.DELETE("/teachers/:id", teacherHandler.Delete)

		api.GET("/rooms", roomHandler.List)
		api.POST("/rooms", roomHandler.Create)
		api.POST("/rooms/import", roomHandler.Import)
		api.GET("/rooms/:id", roomHandler.Get)
		api.PUT("/rooms/:id", roomHandler.Update)
		api.DELETE("/rooms/:id", roomHandler.Delete)

		api.GET("/rooms/:id/windows", availabilityHandler.List)
		api.POST("/rooms/:id/windows", availabilityHandler.Create)
		api.DELETE("/rooms/:id/windows/:wid", availabilityHandler.Delete)

		api.GET("/requests", requestHandler.List)
		api.POST("/requests", requestHandler.Create)
		api.GET("/requests/:id", requestHandler.Get)
		api.PUT("/requests/:id", requestHandler.Update)
		api.DELETE("/requests/:id", requestHandler.Delete)

		api.POST("/plannings/generate", planningHandler.Generate)
		api.GET("/plannings/:date", planningHandler.Get)

		api.POST("/reports/generate", reportHandler.GenerateReport)
		api.GET("/reports/status/:id", reportHandler.ReportStatus)
		api.GET("/export/:token", reportHandler.DownloadReport)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
