package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	accessapp "github.com/agrifield/backend/internal/application/access"
	identityapp "github.com/agrifield/backend/internal/application/identity"
	landapp "github.com/agrifield/backend/internal/application/land"
	licensingapp "github.com/agrifield/backend/internal/application/licensing"
	postingapp "github.com/agrifield/backend/internal/application/posting"
	"github.com/agrifield/backend/internal/infrastructure/auth"
	"github.com/agrifield/backend/internal/infrastructure/cache"
	"github.com/agrifield/backend/internal/infrastructure/config"
	"github.com/agrifield/backend/internal/infrastructure/logger"
	"github.com/agrifield/backend/internal/infrastructure/persistence"
	"github.com/agrifield/backend/internal/interfaces/http/handler"
	"github.com/agrifield/backend/internal/interfaces/http/middleware"
	"github.com/agrifield/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg.Log)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting AgriField backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Redis backs the posting idempotency cache. The server still runs
	// without it; the database unique constraint is authoritative.
	var postingCache postingapp.IdempotencyCache
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Warn("Redis unreachable, posting cache disabled", zap.Error(err))
		_ = redisClient.Close()
	} else {
		redisCache := cache.NewRedisPostingCache(redisClient, cfg.Posting.IdempotencyCacheTTL)
		defer func() {
			_ = redisCache.Close()
		}()
		postingCache = redisCache
		log.Info("Posting idempotency cache enabled",
			zap.Duration("ttl", cfg.Posting.IdempotencyCacheTTL))
	}
	cancelPing()

	// Repositories
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	moduleRepo := persistence.NewGormTenantModuleRepository(db.DB)
	parcelRepo := persistence.NewGormLandParcelRepository(db.DB)
	allocationRepo := persistence.NewGormLandAllocationRepository(db.DB)
	grnRepo := persistence.NewGormGRNRepository(db.DB)
	postingGroupRepo := persistence.NewGormPostingGroupRepository(db.DB)

	// Transaction scopes
	identityTxScope := persistence.NewGormIdentityTransactionScope(db.DB)
	licensingTxScope := persistence.NewGormLicensingTransactionScope(db.DB)
	landTxScope := persistence.NewGormLandTransactionScope(db.DB)
	postingTxScope := persistence.NewGormPostingTransactionScope(db.DB)

	// Access control
	jwtService := auth.NewJWTService(cfg.JWT)
	resolver := accessapp.NewResolver(tenantRepo, userRepo, accessapp.ResolverConfig{
		AllowRoleOnlyIdentity: cfg.Access.AllowRoleOnlyIdentity,
	}, log)
	gate := accessapp.NewGate(moduleRepo, accessapp.GateConfig{
		EnforceModules: cfg.Access.EnforceModules,
	}, log)

	// Application services
	tenantService := identityapp.NewTenantService(tenantRepo, identityTxScope, log)
	userService := identityapp.NewUserService(userRepo, identityTxScope, log)
	moduleService := licensingapp.NewModuleService(moduleRepo, licensingTxScope, log)
	allocationService := landapp.NewAllocationService(parcelRepo, allocationRepo, landTxScope, log)
	grnService := postingapp.NewGRNService(grnRepo, log)
	postingService := postingapp.NewPostingService(grnRepo, postingGroupRepo, postingTxScope, postingCache, log)

	// Handlers
	systemHandler := handler.NewSystemHandler(db)
	tenantHandler := handler.NewTenantHandler(tenantService, gate)
	userHandler := handler.NewUserHandler(userService, gate)
	moduleHandler := handler.NewModuleHandler(moduleService, gate)
	landHandler := handler.NewLandHandler(allocationService, gate)
	postingHandler := handler.NewPostingHandler(grnService, postingService, gate)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID(log))
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger())

	r := router.NewRouter(engine).
		RegisterPublic(systemHandler).
		WithAuth(middleware.Authenticate(jwtService, resolver)).
		RegisterProtected(tenantHandler, userHandler, moduleHandler, landHandler, postingHandler)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
