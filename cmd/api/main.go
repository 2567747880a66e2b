package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/qslabs/sms-service/internal/api/http"
	"github.com/qslabs/sms-service/internal/api/http/handlers"
	"github.com/qslabs/sms-service/internal/auth"
	"github.com/qslabs/sms-service/internal/config"
	"github.com/qslabs/sms-service/internal/events"
	"github.com/qslabs/sms-service/internal/observability"
	"github.com/qslabs/sms-service/internal/persistence"
	"github.com/qslabs/sms-service/internal/repository"
	"github.com/qslabs/sms-service/internal/service"
	"github.com/qslabs/sms-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.App, cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, cfg.Auth.CacheTimeout(), logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)
	teacherRepo := repository.NewTeacherRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)
	attendanceRepo := repository.NewAttendanceRepository(pool)
	timetableRepo := repository.NewTimetableRepository(pool)
	assignmentRepo := repository.NewCourseAssignmentRepository(pool)

	tokenCache := auth.NewRedisTokenCache(redis.Client, cfg.Redis.KeyPrefix)
	authenticator, err := auth.NewAuthenticator(userRepo, tokenCache, auth.AuthenticatorOptions{
		TTL:        cfg.Auth.TokenTTL(),
		Policy:     cfg.Auth.SessionPolicy,
		BcryptCost: cfg.Auth.BcryptCost,
	})
	if err != nil {
		logger.Fatal("failed to build authenticator", zap.Error(err))
	}

	userService := service.NewUserService(cfg.Auth, userRepo, authenticator, dispatcher)
	sessionService := service.NewSessionService(authenticator, dispatcher, metrics, logger)
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger))

	if cfg.Auth.HasBootstrapAdmin() {
		var email *string
		if cfg.Auth.BootstrapAdminEmail != "" {
			email = &cfg.Auth.BootstrapAdminEmail
		}
		created, err := userService.EnsureAdmin(ctx, cfg.Auth.BootstrapAdminUsername, cfg.Auth.BootstrapAdminPassword, email)
		if err != nil {
			logger.Fatal("failed to create bootstrap admin", zap.Error(err))
		}
		if created {
			logger.Info("bootstrap admin created", zap.String("username", cfg.Auth.BootstrapAdminUsername))
		}
	}

	loginLimiter := httptransport.NewLoginRateLimiter(cfg.RateLimit.LoginRPS, cfg.RateLimit.LoginBurst)
	loginLimiter.Start(ctx)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler(logger, metrics),
	})
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:         logger,
		Metrics:        metrics,
		Timeout:        cfg.App.RequestTimeout(),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		IdentityFilter: auth.NewIdentityFilter(tokenCache, cfg.Auth.TokenHeader, cfg.Auth.CacheTimeout(), logger, metrics),
	})

	routes := httptransport.Routes(httptransport.RouteConfig{
		Health:       handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:        handlers.NewUsersHandler(userService, sessionService),
		Students:     handlers.NewStudentsHandler(service.NewStudentService(studentRepo)),
		Teachers:     handlers.NewTeachersHandler(service.NewTeacherService(teacherRepo)),
		Courses:      handlers.NewCoursesHandler(service.NewCourseService(courseRepo)),
		Attendance:   handlers.NewAttendanceHandler(service.NewAttendanceService(attendanceRepo)),
		Timetable:    handlers.NewTimetableHandler(service.NewTimetableService(timetableRepo)),
		Assignments:  handlers.NewCourseAssignmentsHandler(service.NewCourseAssignmentService(assignmentRepo)),
		LoginLimiter: loginLimiter,
		Metrics:      metrics,
	})
	if err := httptransport.RegisterRoutes(app, routes, metrics); err != nil {
		logger.Fatal("invalid route table", zap.Error(err))
	}

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
