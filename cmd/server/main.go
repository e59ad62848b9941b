package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/transit-data-service/internal/config"
	"github.com/smarttransit/transit-data-service/internal/database"
	"github.com/smarttransit/transit-data-service/internal/handlers"
	"github.com/smarttransit/transit-data-service/internal/middleware"
	"github.com/smarttransit/transit-data-service/internal/models"
	"github.com/smarttransit/transit-data-service/internal/schema"
	"github.com/smarttransit/transit-data-service/internal/services"
	"github.com/smarttransit/transit-data-service/pkg/token"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting SmartTransit Data Service")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Apply schema
	if cfg.Schema.MigrateOnStart {
		dialect, err := schema.DialectByName(cfg.Schema.Dialect)
		if err != nil {
			logger.Fatalf("Failed to resolve schema dialect: %v", err)
		}
		migrator := schema.NewMigrator(db, dialect)
		if err := migrator.Apply(); err != nil {
			logger.Fatalf("Failed to apply schema: %v", err)
		}
		logger.WithField("dialect", dialect.Name()).Info("Schema applied")
	}

	// Initialize repositories
	userRepository := database.NewUserRepository(db)
	sessionRepository := database.NewSessionRepository(db)
	driverRepository := database.NewDriverRepository(db)
	vehicleRepository := database.NewVehicleRepository(db)
	lineRepository := database.NewLineRepository(db)
	stopRepository := database.NewStopRepository(db)
	scheduleRepository := database.NewScheduleRepository(db)
	assignmentRepository := database.NewAssignmentRepository(db)
	tripRepository := database.NewTripRepository(db)

	// Initialize services
	logger.Info("Initializing services...")
	tokenService := token.NewService(cfg.Auth.TokenSecret)
	itineraryValidator := services.NewItineraryValidator(cfg.Schema.StrictItinerary, logger)
	etaService := services.NewEtaService(tripRepository, lineRepository, scheduleRepository, logger)
	facadeService := services.NewFacadeService(
		lineRepository,
		scheduleRepository,
		assignmentRepository,
		driverRepository,
		vehicleRepository,
		tripRepository,
		logger,
	)

	// Load reference data
	if cfg.Schema.SeedOnStart {
		seedService := services.NewSeedService(
			lineRepository,
			stopRepository,
			vehicleRepository,
			driverRepository,
			assignmentRepository,
			scheduleRepository,
			logger,
		)
		report, err := seedService.Run(services.DefaultSeedLines())
		if err != nil {
			logger.Fatalf("Failed to seed reference data: %v", err)
		}
		logger.WithFields(logrus.Fields{
			"inserted": report.Inserted,
			"skipped":  report.Skipped,
		}).Info("Reference data loaded")
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userRepository, sessionRepository, tokenService, cfg.Auth.SessionTTL, logger)
	userHandler := handlers.NewUserHandler(userRepository, logger)
	lineHandler := handlers.NewLineHandler(lineRepository, scheduleRepository, itineraryValidator, facadeService, logger)
	stopHandler := handlers.NewStopHandler(stopRepository, logger)
	fleetHandler := handlers.NewFleetHandler(driverRepository, vehicleRepository, logger)
	assignmentHandler := handlers.NewAssignmentHandler(assignmentRepository, facadeService, logger)
	tripHandler := handlers.NewTripHandler(tripRepository, etaService, facadeService, logger)

	// Setup router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))

	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.CORS.AllowedOrigins) == 1 && cfg.CORS.AllowedOrigins[0] == "*" {
		corsConfig.AllowCredentials = false
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowOrigins = nil
	}
	router.Use(cors.New(corsConfig))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "database unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": version})
	})

	requireAuth := middleware.AuthMiddleware(tokenService, sessionRepository, logger)
	requireAdmin := middleware.RequireRole(models.RoleAdmin)

	v1 := router.Group("/api/v1")
	{
		// Auth routes
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", requireAuth, authHandler.Logout)
			auth.GET("/sessions", requireAuth, authHandler.ListMySessions)
		}

		// User routes (admin only)
		users := v1.Group("/users")
		users.Use(requireAuth, requireAdmin)
		{
			users.GET("", userHandler.ListUsers)
			users.GET("/:id", userHandler.GetUser)
			users.PATCH("/:id/active", userHandler.SetUserActive)
			users.DELETE("/:id", userHandler.DeleteUser)
			users.GET("/:id/trips", tripHandler.GetUserHistory)
		}

		// Line routes (reads public, writes admin)
		lines := v1.Group("/lines")
		{
			lines.GET("", lineHandler.ListLines)
			lines.GET("/:code", lineHandler.GetLineSummary)
			lines.GET("/:code/itinerary", lineHandler.GetItinerary)
			lines.GET("/:code/schedules", lineHandler.ListSchedules)
			lines.GET("/:code/staffing", assignmentHandler.LineStaffing)
			lines.POST("", requireAuth, requireAdmin, lineHandler.CreateLine)
			lines.POST("/:code/stops", requireAuth, requireAdmin, lineHandler.AddStopTime)
			lines.PUT("/:code/schedules", requireAuth, requireAdmin, lineHandler.CreateSchedule)
			lines.DELETE("/:code", requireAuth, requireAdmin, lineHandler.DeleteLine)
		}

		// Stop routes
		stops := v1.Group("/stops")
		{
			stops.GET("", stopHandler.ListStops)
			stops.GET("/:code", stopHandler.GetStop)
			stops.POST("", requireAuth, requireAdmin, stopHandler.CreateStop)
		}

		// Fleet routes (admin only)
		drivers := v1.Group("/drivers")
		drivers.Use(requireAuth, requireAdmin)
		{
			drivers.GET("", fleetHandler.ListDrivers)
			drivers.GET("/:id", fleetHandler.GetDriver)
			drivers.POST("", fleetHandler.CreateDriver)
			drivers.DELETE("/:id", fleetHandler.DeleteDriver)
		}

		vehicles := v1.Group("/vehicles")
		vehicles.Use(requireAuth, requireAdmin)
		{
			vehicles.GET("", fleetHandler.ListVehicles)
			vehicles.GET("/:id", fleetHandler.GetVehicle)
			vehicles.POST("", fleetHandler.CreateVehicle)
			vehicles.PATCH("/:id/active", fleetHandler.SetVehicleActive)
		}

		// Assignment routes (admin only)
		assignments := v1.Group("/assignments")
		assignments.Use(requireAuth, requireAdmin)
		{
			assignments.GET("/open", assignmentHandler.ListOpenAssignments)
			assignments.GET("/:id", assignmentHandler.GetAssignment)
			assignments.POST("", assignmentHandler.CreateAssignment)
			assignments.POST("/:id/close", assignmentHandler.CloseAssignment)
		}

		// Trip routes (authenticated)
		trips := v1.Group("/trips")
		trips.Use(requireAuth)
		{
			trips.GET("/:id", tripHandler.GetTrip)
			trips.GET("/:id/progress", tripHandler.GetProgress)
			trips.POST("", tripHandler.CreateTrip)
			trips.POST("/:id/eta", tripHandler.ProjectETA)
			trips.POST("/:id/arrival", tripHandler.RecordArrival)
		}
	}

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Infof("Server listening on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}
	logger.Info("Server exited")
}
