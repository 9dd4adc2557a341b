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
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/cloud-ru/mcp-living-annuity-go/internal/api"
	"github.com/cloud-ru/mcp-living-annuity-go/internal/cache"
	"github.com/cloud-ru/mcp-living-annuity-go/internal/config"
	"github.com/cloud-ru/mcp-living-annuity-go/internal/logging"
	"github.com/cloud-ru/mcp-living-annuity-go/internal/service"
	"github.com/cloud-ru/mcp-living-annuity-go/internal/tools"
	"github.com/cloud-ru/mcp-living-annuity-go/internal/tracing"
)

const shutdownTimeout = 10 * time.Second

// main запускает MCP сервер на stdio или HTTP сервер с REST API и /mcp.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	tracer, shutdownTracing, err := tracing.InitTracing(ctx, cfg.OTELServiceName, cfg.OTELEndpoint, logger)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("tracing shutdown", zap.Error(err))
		}
	}()

	repo, closeCache := newCache(ctx, cfg, logger)
	defer closeCache()

	calc := service.NewCalculator(cfg, logger, tracer, repo)
	mcpServer := tools.NewServer(calc)

	switch cfg.Transport {
	case "http":
		return serveHTTP(ctx, cfg, calc, mcpServer, logger)
	default:
		logger.Info("MCP сервер запущен на stdio")
		return mcpServer.Run(ctx, &mcp.StdioTransport{})
	}
}

func newCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) (cache.Repository, func()) {
	if cfg.RedisAddr == "" {
		logger.Info("кэш результатов в памяти", zap.Duration("ttl", cfg.CacheTTL), zap.Int("max_entries", cfg.CacheMaxEntries))
		return cache.NewMemoryCache(cfg.CacheTTL, cfg.CacheMaxEntries), func() {}
	}

	redisCache := cache.NewRedisCache(cfg.RedisAddr, cfg.CacheTTL)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := redisCache.Ping(pingCtx); err != nil {
		logger.Warn("Redis недоступен, используется кэш в памяти", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		_ = redisCache.Close()
		return cache.NewMemoryCache(cfg.CacheTTL, cfg.CacheMaxEntries), func() {}
	}

	logger.Info("кэш результатов в Redis", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.CacheTTL))
	return redisCache, func() { _ = redisCache.Close() }
}

func serveHTTP(ctx context.Context, cfg *config.Config, calc *service.Calculator, mcpServer *mcp.Server, logger *zap.Logger) error {
	gin.SetMode(gin.ReleaseMode)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           api.NewRouter(calc, mcpServer, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP сервер запущен", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("остановка HTTP сервера")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
