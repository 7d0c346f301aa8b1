// internal/pkg/bootstrap/app.go
package bootstrap

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"flashmart/internal/pkg/config"
	"flashmart/internal/pkg/logger"
	"flashmart/internal/pkg/tracing"
)

type AppCtx struct {
	Mux *http.ServeMux
	Cfg *config.Config
}

// AppInfo 包含了启动一个服务进程所需的全部信息。
type AppInfo struct {
	ServiceName      string
	Port             int
	RegisterHandlers func(appCtx AppCtx) // 每个服务在这里注册自己的 HTTP 路由
	OnShutdown       func(ctx context.Context)
}

// Init 加载配置并初始化日志，应在 main 的最开头调用。
func Init(serviceName string) *config.Config {
	logger.Init(serviceName)
	cfg, err := config.Load("")
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	return cfg
}

// StartService 封装了所有服务进程的通用启动和优雅关停逻辑。
func StartService(info AppInfo) {
	cfg := config.Get()

	tp, err := tracing.InitTracerProvider(info.ServiceName, cfg.Jaeger.Endpoint)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize tracer provider")
	}

	mux := http.NewServeMux()
	if info.RegisterHandlers != nil {
		info.RegisterHandlers(AppCtx{Mux: mux, Cfg: cfg})
	}

	port := info.Port
	if port == 0 {
		port = cfg.Server.Port
	}
	server := &http.Server{Addr: ":" + strconv.Itoa(port), Handler: mux}
	go func() {
		logger.Info().Msgf("%s listening on :%d", info.ServiceName, port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msgf("could not listen on %s", server.Addr)
		}
	}()

	// 阻塞主 goroutine，直到接收到退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msgf("Shutting down service %s...", info.ServiceName)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// 关停顺序：业务清理 -> Tracer -> HTTP 服务器（后进先出）
	if info.OnShutdown != nil {
		info.OnShutdown(ctx)
	}

	if err := tp.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("error shutting down tracer provider")
	}

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("error shutting down http server")
	}

	logger.Info().Msgf("Service %s gracefully shut down.", info.ServiceName)
}
