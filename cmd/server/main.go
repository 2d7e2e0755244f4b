// Copyright 2026 The ClarityRCM Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clarityrcm/clarityrcm/internal/audit"
	"github.com/clarityrcm/clarityrcm/internal/authz"
	"github.com/clarityrcm/clarityrcm/internal/config"
	"github.com/clarityrcm/clarityrcm/internal/observability/logger"
	"github.com/clarityrcm/clarityrcm/internal/observability/metrics"
	"github.com/clarityrcm/clarityrcm/internal/observability/tracing"
	"github.com/clarityrcm/clarityrcm/internal/organization"
	"github.com/clarityrcm/clarityrcm/internal/store/postgres"
	transportHTTP "github.com/clarityrcm/clarityrcm/internal/transport/http"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(logger.Config{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: cfg.Observability.ServiceName,
	})
	slog.Info("starting clarityrcm authorization service")

	ctx := context.Background()

	// Initialize tracer
	tracer, err := tracing.New(ctx, tracing.Config{
		Enabled:        cfg.Observability.OTELEnabled,
		ServiceName:    cfg.Observability.ServiceName,
		ServiceVersion: cfg.Observability.ServiceVersion,
		SamplingRate:   1.0,
	})
	if err != nil {
		slog.Error("failed to initialize tracer", logger.Error(err))
	}
	defer tracer.Shutdown(ctx)

	// Initialize meter
	meter, err := metrics.New(ctx, metrics.Config{
		Enabled: cfg.Observability.OTELEnabled,
	}, cfg.Observability.ServiceName)
	if err != nil {
		slog.Error("failed to initialize meter", logger.Error(err))
		os.Exit(1)
	}
	decisionMetrics, err := meter.NewDecisionMetrics()
	if err != nil {
		slog.Error("failed to create decision metrics", logger.Error(err))
		os.Exit(1)
	}

	// Initialize database
	db, err := postgres.New(ctx, postgres.Config{
		Host:         cfg.Database.Host,
		Port:         cfg.Database.Port,
		User:         cfg.Database.User,
		Password:     cfg.Database.Password,
		Database:     cfg.Database.Database,
		SSLMode:      cfg.Database.SSLMode,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		slog.Error("failed to connect to database", logger.Error(err))
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("connected to database")

	// Initialize repositories
	permissionRepo := postgres.NewPermissionRepository(db)
	roleRepo := postgres.NewRoleRepository(db)
	groupRepo := postgres.NewGroupRepository(db)
	grantRepo := postgres.NewGrantRepository(db)
	userRepo := postgres.NewUserRepository(db)
	orgRepo := postgres.NewOrganizationRepository(db)
	auditRepo := postgres.NewAuditRepository(db)

	// Audit trail: structured log line plus durable store, both best-effort
	storeRecorder := audit.NewStoreRecorder(auditRepo, cfg.Audit.BufferSize)
	defer storeRecorder.Close()
	recorder := audit.Multi(audit.NewSlogRecorder(), storeRecorder)

	// Initialize services
	authzService := authz.NewService(permissionRepo, roleRepo, groupRepo, grantRepo, recorder)
	orgService := organization.NewService(orgRepo, recorder)
	engine := authz.NewEngine(authz.NewResolver(grantRepo), decisionMetrics)

	// Rate Limiter
	rateLimiter := transportHTTP.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	// Initialize HTTP handler
	handler := transportHTTP.NewHandler(
		authzService,
		orgService,
		engine,
		userRepo,
		auditRepo,
		cfg.Auth.JWTSecret,
		cfg.Auth.JWTIssuer,
	)
	guard := transportHTTP.NewGuard(engine)

	// Create router
	router := transportHTTP.NewRouter(handler, guard, rateLimiter)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server
	go func() {
		slog.Info("starting http server", logger.Component("server"), logger.Operation("listen"))
		slog.Info(fmt.Sprintf("listening on %s", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", logger.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("forced shutdown", logger.Error(err))
	}

	slog.Info("server stopped")
}
