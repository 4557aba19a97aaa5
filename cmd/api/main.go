package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	pkgvalidator "github.com/johnquangdev/coreagenda/pkg/validator"

	"github.com/johnquangdev/coreagenda/internal/adapter/handler"
	"github.com/johnquangdev/coreagenda/internal/adapter/repository"
	"github.com/johnquangdev/coreagenda/internal/adapter/repository/memory"
	"github.com/johnquangdev/coreagenda/internal/domain/repositories"
	"github.com/johnquangdev/coreagenda/internal/infrastructure/cache"
	"github.com/johnquangdev/coreagenda/internal/infrastructure/database"
	httpmw "github.com/johnquangdev/coreagenda/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/coreagenda/internal/infrastructure/storage"
	"github.com/johnquangdev/coreagenda/internal/usecase/attendance"
	"github.com/johnquangdev/coreagenda/internal/usecase/authz"
	"github.com/johnquangdev/coreagenda/internal/usecase/outreach"
	"github.com/johnquangdev/coreagenda/internal/usecase/workflow"
	"github.com/johnquangdev/coreagenda/pkg/config"
	"github.com/johnquangdev/coreagenda/pkg/jwt"
	pkglogger "github.com/johnquangdev/coreagenda/pkg/logger"
)

// @title           CoreAgenda API
// @version         1.0
// @description     Meeting workflow engine: agendas, minutes, action items, attendance and outside presenters

// @contact.name   API Support

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath  /v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := pkglogger.New(cfg.Server.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Echo instance
	e := echo.New()
	e.Validator = pkgvalidator.New()
	e.HideBanner = true
	e.HidePort = false

	e.Use(middleware.RequestID())
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${id} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "Cookie"},
		AllowCredentials: true,
	}))

	ctx := context.Background()
	checks := make(map[string]handler.HealthCheck)

	log.Println("🔧 Initializing dependencies...")

	// Repositories
	var repos repositories.Registry
	switch cfg.Database.Driver {
	case "memory":
		log.Println("📦 Using in-memory repositories (data is lost on restart)")
		repos = memory.NewStore().Repositories()
	default:
		log.Println("📦 Connecting to database...")
		db, err := database.NewPostgresDB(ctx, cfg, logger)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.CloseDB(db)

		// Production deployments manage schema with cmd/migrate
		if cfg.Database.AutoMigrate {
			log.Println("🔄 Running GORM AutoMigrate (development only) ...")
			if err := database.AutoMigrate(db); err != nil {
				log.Fatalf("Failed to run AutoMigrate: %v", err)
			}
		}
		repos = repository.NewRegistry(db)
		checks["database"] = pingDB(db)
	}

	// Agenda cache
	var agendaCache cache.Store
	if cfg.Redis.Host != "" {
		log.Println("📦 Connecting to Redis...")
		redisClient, err := cache.NewRedisClient(ctx, cfg, logger)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		agendaCache = cache.NewRedisStore(redisClient, "coreagenda:")
		checks["redis"] = pingRedis(redisClient)
	} else {
		log.Println("⚠️  REDIS_HOST is empty, caching agendas in process memory")
		agendaCache = cache.NewMemoryStore(time.Minute)
	}
	defer agendaCache.Close()

	// Minutes archive
	log.Printf("🗄️  Initializing %s archive...", cfg.Storage.Type)
	archive, err := storage.New(ctx, &cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize archive: %v", err)
	}

	authorizer := authz.NewRoleAuthorizer(authz.DefaultGrants())

	// Use cases
	log.Println("⚙️  Initializing workflow engine...")
	engine := workflow.NewEngine(workflow.Dependencies{
		Meetings:    repos.Meetings,
		AgendaItems: repos.AgendaItems,
		ActionItems: repos.ActionItems,
		Minutes:     repos.Minutes,
		Transitions: repos.Transitions,
		Authorizer:  authorizer,
		Cache:       agendaCache,
		Archive:     archive,
		Logger:      logger.Named("workflow"),
		AgendaTTL:   cfg.Workflow.AgendaCacheTTL,
	})
	attendanceService := attendance.NewService(
		repos.Meetings,
		repos.Users,
		repos.Attendance,
		cfg.Workflow.AttendanceGrace,
		logger.Named("attendance"),
	)
	outreachService := outreach.NewService(outreach.Dependencies{
		Meetings:    repos.Meetings,
		AgendaItems: repos.AgendaItems,
		Presenters:  repos.Presenters,
		Requests:    repos.ExternalRequests,
		Users:       repos.Users,
		Authorizer:  authorizer,
		Invalidator: engine,
		Logger:      logger.Named("outreach"),
	})

	log.Println("🔑 Initializing JWT manager...")
	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL)

	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, httpmw.EchoAuth(jwtManager), authorizer, handler.Handlers{
		Meeting:    handler.NewMeetingHandler(engine, logger),
		Action:     handler.NewActionHandler(engine, logger, time.Now),
		Minute:     handler.NewMinuteHandler(engine, logger),
		Attendance: handler.NewAttendanceHandler(attendanceService, authorizer, logger, time.Now),
		Outreach:   handler.NewOutreachHandler(outreachService, logger),
		User:       handler.NewUserHandler(repos.Users, authorizer, logger),
	}, checks)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
		return
	}

	log.Println("✅ Server stopped gracefully")
}

func pingDB(db *gorm.DB) handler.HealthCheck {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

func pingRedis(client *redis.Client) handler.HealthCheck {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
