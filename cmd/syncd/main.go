package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"stockroom/internal/client/quickbooks"
	"stockroom/internal/client/shopify"
	"stockroom/internal/config"
	"stockroom/internal/credentials"
	cronrunner "stockroom/internal/cron"
	"stockroom/internal/db"
	"stockroom/internal/handler"
	"stockroom/internal/httpx"
	"stockroom/internal/lock"
	"stockroom/internal/logger"
	gormrepository "stockroom/internal/repository/gorm"
	"stockroom/internal/service"

	_ "stockroom/docs"
)

func main() {
	cfgPath := os.Getenv("STOCKROOM_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("STOCKROOM_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	var redisClient *redis.Client
	var locker lock.Locker = lock.NewLocal()
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		locker = lock.NewRedis(redisClient, "stockroom")
		logger.Info("sync lock on redis", zap.String("addr", cfg.Redis.Addr))
	}

	exec := httpx.NewExecutor(&http.Client{}, logger)
	exec.MaxRetries = cfg.Sync.MaxRetries
	exec.BaseDelay = cfg.Sync.BackoffBase
	exec.RequestTimeout = cfg.Sync.RequestTimeout
	exec.ResourceTimeout = cfg.Sync.ResourceTimeout

	shopifyClient := shopify.NewClient(shopify.Config{
		Host:       cfg.Shopify.Host,
		ShopDomain: cfg.Shopify.ShopDomain,
	}, &httpx.AuthClient{
		Exec:   exec,
		Creds:  newProvider(cfg.Shopify.AccessToken, cfg.Shopify.OAuth),
		Logger: logger,
	})
	quickbooksClient := quickbooks.NewClient(quickbooks.Config{
		Host:    cfg.QuickBooks.Host,
		RealmID: cfg.QuickBooks.RealmID,
	}, &httpx.AuthClient{
		Exec:   exec,
		Creds:  newProvider(cfg.QuickBooks.AccessToken, cfg.QuickBooks.OAuth),
		Logger: logger,
	})

	store := gormrepository.New(dbConn.Gorm)
	syncService := &service.SyncService{
		Store:      store,
		Shopify:    shopifyClient,
		QuickBooks: quickbooksClient,
		Locker:     locker,
		Logger:     logger,
		PageSize:   cfg.Sync.PageSize,
		MaxPages:   cfg.Sync.MaxPages,
		LockTTL:    cfg.Sync.LockTTL,
	}
	queryService := &service.QueryService{Store: store}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())
	engine.Use(handler.RequireBearer(cfg.Server.AuthToken))

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm, Redis: redisClient}
	healthHandler.Register(engine)
	syncHandler := &handler.SyncHandler{
		Service: syncService,
		Query:   queryService,
		Logger:  logger,
	}
	syncHandler.Register(engine)
	entitiesHandler := &handler.EntitiesHandler{
		Query:  queryService,
		Logger: logger,
	}
	entitiesHandler.Register(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cronRunner := cronrunner.New(logger, ctx)
	if cfg.Cron.Enabled {
		scope := cfg.Cron.Scope
		_, err := cronRunner.Add(cfg.Cron.Sync, func(ctx context.Context) {
			result, err := syncService.Sync(ctx, service.SyncOptions{Scope: scope})
			if err != nil {
				logger.Warn("cron sync failed", zap.String("scope", scope), zap.Error(err))
				return
			}
			logger.Info("cron sync ok",
				zap.String("scope", result.Scope),
				zap.Int("pages", result.Pages),
				zap.Int("fetched", result.Fetched),
				zap.Int("created", result.Created),
				zap.Int("updated", result.Updated),
				zap.Int("skipped", result.Skipped),
				zap.Int("failed", result.Failed),
				zap.Bool("partial", result.Partial),
			)
		})
		if err != nil {
			logger.Warn("cron register sync failed", zap.Error(err))
		}
	}
	cronRunner.Start()
	defer cronRunner.Stop()

	errCh := make(chan error, 2)

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

// newProvider picks the credential style per integration: a configured token
// endpoint means the refresh-token grant, otherwise the static token.
func newProvider(accessToken string, o config.OAuthConfig) credentials.Provider {
	if strings.TrimSpace(o.TokenURL) != "" {
		return credentials.NewOAuth(credentials.OAuthConfig{
			ClientID:     o.ClientID,
			ClientSecret: o.ClientSecret,
			TokenURL:     o.TokenURL,
			AccessToken:  accessToken,
			RefreshToken: o.RefreshToken,
		})
	}
	return credentials.NewStatic(accessToken)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
