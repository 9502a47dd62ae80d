// @title                       LariTechFarms API
// @version                     1.0
// @description                 Multi-tenant poultry farm management API.
// @BasePath                    /api/v1
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the token.

//go:generate swag init -g cmd/api/main.go -d ../../ -o ../../docs
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/laritechfarms/farms-api/internal/api"
	"github.com/laritechfarms/farms-api/internal/api/metrics"
	"github.com/laritechfarms/farms-api/internal/core/service"
	"github.com/laritechfarms/farms-api/internal/infrastructure/config"
	mongostore "github.com/laritechfarms/farms-api/internal/infrastructure/db/mongo"
	pgstore "github.com/laritechfarms/farms-api/internal/infrastructure/db/postgres"
	redisstore "github.com/laritechfarms/farms-api/internal/infrastructure/db/redis"
	"github.com/laritechfarms/farms-api/internal/infrastructure/http/handlers"
	"github.com/laritechfarms/farms-api/internal/infrastructure/telemetry"
	"github.com/laritechfarms/farms-api/pkg/logger"
)

const (
	serviceName     = "farms-api"
	version         = "1.0.0"
	shutdownTimeout = 10 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog, _ := logger.New(logger.Options{Service: serviceName})
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}

	log, err := logger.Init(logger.Options{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		Service:     serviceName,
		Version:     version,
		Environment: cfg.Env,
	})
	if err != nil {
		bootLog, _ := logger.New(logger.Options{Service: serviceName})
		bootLog.Fatal().Err(err).Msg("invalid logger configuration")
	}

	shutdownTelemetry, err := telemetry.Setup(ctx, telemetry.Config{
		Endpoint:    cfg.Telemetry.Endpoint,
		Insecure:    cfg.Telemetry.Insecure,
		ServiceName: cfg.Telemetry.ServiceName,
		Environment: cfg.Env,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("telemetry setup failed")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(ctx); err != nil {
			log.Warn().Err(err).Msg("telemetry shutdown failed")
		}
	}()

	// --- Stores ---
	db, err := pgstore.Connect(ctx, pgstore.Config{
		DSN:          cfg.Postgres.URL,
		MaxOpenConns: cfg.Postgres.MaxOpenConns,
		MaxIdleConns: cfg.Postgres.MaxIdleConns,
		Debug:        !cfg.IsProduction() && cfg.LogLevel == "debug",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connection failed")
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if cfg.Postgres.AutoMigrate {
		if err := pgstore.Migrate(ctx, db, logger.Component(log, "migrate")); err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}
	}

	audit, err := mongostore.Connect(ctx, mongostore.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		AppName:     serviceName,
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = audit.Close(ctx)
	}()

	auditRepo := mongostore.NewAuditRepository(audit.DB)
	if err := auditRepo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("audit indexes not created")
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		URL:      cfg.Redis.URL,
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- Repositories ---
	users := pgstore.NewUserRepository(db)
	batches := pgstore.NewBatchRepository(db)
	birds := pgstore.NewBirdRepository(db)
	products := pgstore.NewProductRepository(db)
	clients := pgstore.NewClientRepository(db)
	sales := pgstore.NewSaleRepository(db)
	employees := pgstore.NewEmployeeRepository(db)
	attendance := pgstore.NewAttendanceRepository(db)
	loans := pgstore.NewLoanRepository(db)
	inventory := pgstore.NewInventoryRepository(db)
	vehicles := pgstore.NewVehicleRepository(db)
	health := pgstore.NewHealthRepository(db)
	mortality := pgstore.NewMortalityRepository(db)
	eggs := pgstore.NewEggRepository(db)
	expenses := pgstore.NewExpenseRepository(db)

	// --- Services ---
	svc := api.Services{
		Auth:       service.NewAuthService(users, cfg.JWTSecret, cfg.JWTTTL, cfg.BcryptCost, logger.Component(log, "auth")),
		Batches:    service.NewBatchService(batches, log),
		Birds:      service.NewBirdService(birds, batches, log),
		Products:   service.NewProductService(products, log),
		Clients:    service.NewClientService(clients, log),
		Sales:      service.NewSaleService(sales, clients, redisstore.NewIdempotencyStore(rdb, cfg.Idempotency.TTL), logger.Component(log, "sales")),
		Employees:  service.NewEmployeeService(employees, log),
		Attendance: service.NewAttendanceService(attendance, employees, log),
		Loans:      service.NewLoanService(loans, employees, log),
		Inventory:  service.NewInventoryService(inventory, log),
		Vehicles:   service.NewVehicleService(vehicles, log),
		Health:     service.NewHealthService(health, birds, log),
		Mortality:  service.NewMortalityService(mortality, birds, log),
		Eggs:       service.NewEggService(eggs, birds, log),
		Expenses:   service.NewExpenseService(expenses, log),
		Audit:      service.NewAuditService(auditRepo, logger.Component(log, "audit"), metrics.AuditFailuresTotal.Inc),
	}

	e := api.NewRouter(svc, api.Options{
		Service:        serviceName,
		Version:        version,
		Environment:    cfg.Env,
		Production:     cfg.IsProduction(),
		AllowedOrigins: cfg.AllowedOrigins,
		BodyLimit:      cfg.BodyLimit,
		RateLimiter:    redisstore.NewRateLimitStore(rdb, cfg.RateLimit.Requests, cfg.RateLimit.Window),
		Checks: []handlers.Check{
			{Name: "postgres", Ping: func(ctx context.Context) error { return pgstore.Ping(ctx, db) }},
			{Name: "mongodb", Ping: func(ctx context.Context) error { return audit.Ping(ctx) }},
			{Name: "redis", Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
		},
	}, log)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           otelhttp.NewHandler(e, serviceName),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Str("env", cfg.Env).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}
