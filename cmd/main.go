// cmd/main.go
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lmittmann/tint"
	"github.com/rs/cors"

	"course_quest/internal/config"
	"course_quest/internal/handlers"
	"course_quest/internal/middleware"
	"course_quest/internal/repository"
	"course_quest/internal/service"
	"course_quest/internal/timeutil"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	// 設定ファイル読み込み用の一時的なロガー
	tempLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(tempLogger)
	log.Println("Log Config Loading...")

	configDir := os.Getenv("APP_CONFIG_DIR")
	if configDir == "" {
		configDir = "configs"
	}
	if err := config.LoadConfig(configDir); err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}
	cfg := &config.Cfg

	logger := newLogger(cfg, tempLogger)
	slog.SetDefault(logger)
	slog.Info("Application starting...", slog.String("app", cfg.App.Name))

	// 1. Database (GORM)
	db, err := repository.NewDB(cfg.Database.URL, logger)
	if err != nil {
		slog.Error("Error initializing database", slog.Any("error", err))
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("Error getting underlying sql.DB from GORM", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("Error closing database connection", slog.Any("error", err))
		} else {
			slog.Info("Database connection closed.")
		}
	}()

	loc, err := cfg.App.Location()
	if err != nil {
		slog.Error("Invalid app timezone", slog.String("timezone", cfg.App.Timezone), slog.Any("error", err))
		os.Exit(1)
	}
	clock := timeutil.NewSystemClock(loc)

	// 2. Dependency Injection
	userRepo := repository.NewGormUserRepository()
	courseRepo := repository.NewGormCourseRepository()
	questionRepo := repository.NewGormQuestionRepository()
	enrollmentRepo := repository.NewGormEnrollmentRepository()
	progressRepo := repository.NewGormProgressRepository()
	activityRepo := repository.NewGormActivityRepository()
	badgeRepo := repository.NewGormBadgeRepository()

	ledger := service.NewXPLedger(userRepo)
	mailer, err := service.NewMailer(context.Background(), cfg)
	if err != nil {
		slog.Error("Error initializing mailer", slog.String("type", cfg.Mailer.Type), slog.Any("error", err))
		os.Exit(1)
	}
	badgeService := service.NewBadgeService(db, badgeRepo, ledger, clock, cfg)
	enrollmentService := service.NewEnrollmentService(db, courseRepo, enrollmentRepo, clock)
	authService := service.NewAuthService(db, userRepo, mailer, clock, cfg)
	courseService := service.NewCourseService(db, courseRepo, enrollmentService)
	questionService := service.NewQuestionService(db, courseRepo, questionRepo)
	progressService := service.NewProgressService(db, questionRepo, progressRepo, ledger, clock, cfg)
	activityService := service.NewActivityService(db, activityRepo, badgeService, clock)
	dashboardService := service.NewDashboardService(db, userRepo, courseRepo, questionRepo,
		enrollmentRepo, progressRepo, activityRepo, badgeRepo, clock)

	h := &handlers.Handlers{
		Auth:       handlers.NewAuthHandler(authService),
		Course:     handlers.NewCourseHandler(courseService),
		Question:   handlers.NewQuestionHandler(questionService, progressService),
		Enrollment: handlers.NewEnrollmentHandler(enrollmentService),
		Activity:   handlers.NewActivityHandler(activityService),
		Dashboard:  handlers.NewDashboardHandler(dashboardService),
		Badge:      handlers.NewBadgeHandler(badgeService),
		Health:     handlers.NewHealthHandler(sqlDB),
	}

	// 3. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware(logger))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
		Debug:            false,
	})
	r.Use(corsHandler.Handler)

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	handlers.RegisterRoutes(r, h, middleware.Authenticator(cfg))

	// 4. Server
	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Server listening", slog.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Could not listen on port", slog.String("port", cfg.Server.Port), slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", slog.Any("error", err))
	}

	log.Println("Server exiting")
}

// newLogger は log.level と APP_ENV に従って slog ロガーを作ります。dev では tint を使います。
func newLogger(cfg *config.Config, tempLogger *slog.Logger) *slog.Logger {
	logLevel := new(slog.LevelVar)
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		logLevel.Set(slog.LevelDebug)
	case "info":
		logLevel.Set(slog.LevelInfo)
	case "warn", "warning":
		logLevel.Set(slog.LevelWarn)
	case "error":
		logLevel.Set(slog.LevelError)
	default:
		logLevel.Set(slog.LevelInfo)
		tempLogger.Warn("Unknown log level specified in config, defaulting to INFO", slog.String("level", cfg.Log.Level))
	}

	var handler slog.Handler
	appEnv := os.Getenv("APP_ENV")
	if strings.ToLower(appEnv) == "dev" {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.RFC3339,
		})
		tempLogger.Info("Using TINT log handler", slog.String("APP_ENV", appEnv))
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})
		tempLogger.Info("Using JSON log handler", slog.String("APP_ENV", appEnv))
	}
	return slog.New(handler)
}
