package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/weisyn/contract-gateway/internal/api/http/handlers"
	"github.com/weisyn/contract-gateway/internal/api/http/middleware"
	apiconfig "github.com/weisyn/contract-gateway/internal/config/api"
	corelog "github.com/weisyn/contract-gateway/internal/core/infrastructure/log"
	contractiface "github.com/weisyn/contract-gateway/pkg/interfaces/contract"
	"github.com/weisyn/contract-gateway/pkg/interfaces/infrastructure/log"
)

// RouterParams 路由依赖
type RouterParams struct {
	Options      *apiconfig.APIOptions
	Logger       log.Logger
	ZapLogger    *zap.Logger
	Client       contractiface.Client
	Introspector contractiface.Introspector
	Registerer   prometheus.Registerer
	Gatherer     prometheus.Gatherer
}

// NewRouter 创建路由引擎并注册全部端点
//
// 中间件顺序：请求ID → 访问日志 → panic恢复 → 指标 → 错误兜底 → 限流 → 请求体限制
func NewRouter(params RouterParams) *gin.Engine {
	zl := corelog.NewModuleZapLogger(params.ZapLogger, "http")
	if zl == nil {
		zl = zap.NewNop()
	}
	params.Logger = corelog.NewModuleLogger(params.Logger, "http")
	reg := params.Registerer
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	router := gin.New()
	router.Use(
		middleware.NewRequestID().Middleware(),
		middleware.NewLogger(params.Logger).Middleware(),
		middleware.Recovery(zl),
		middleware.NewMetrics(zl, reg).Middleware(),
		middleware.ErrorHandler(zl),
	)

	if params.Options != nil {
		httpOpts := params.Options.HTTP
		if httpOpts.RateLimitEnabled() {
			limiter := middleware.NewRateLimit(zl, httpOpts.RateLimitRPS, httpOpts.RateLimitBurst, httpOpts.RateLimitIdleTTL)
			router.Use(limiter.Middleware())
			params.Logger.Infof("已启用限流: rps=%.2f burst=%d", httpOpts.RateLimitRPS, httpOpts.RateLimitBurst)
		}
		router.Use(middleware.BodyLimit(httpOpts.MaxRequestSize))
	}

	handlers.NewHealthHandler().RegisterRoutes(router)
	handlers.NewContractHandler(params.Client, params.Introspector, params.Logger).RegisterRoutes(router)

	if params.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(params.Gatherer, promhttp.HandlerOpts{})))
	}

	router.NoRoute(func(c *gin.Context) {
		middleware.WriteError(c, http.StatusNotFound, "Not Found")
	})

	return router
}

// ServerParams 服务器依赖
type ServerParams struct {
	fx.In

	Lifecycle    fx.Lifecycle
	Options      *apiconfig.APIOptions
	Logger       log.Logger
	ZapLogger    *zap.Logger                `optional:"true"`
	Client       contractiface.Client
	Introspector contractiface.Introspector `optional:"true"`
	Registerer   prometheus.Registerer      `optional:"true"`
	Gatherer     prometheus.Gatherer        `optional:"true"`
}

// Server HTTP服务器
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	options    *apiconfig.APIOptions
	logger     log.Logger

	mu       sync.Mutex
	listener net.Listener
	done     chan struct{}
}

// NewServer 创建HTTP服务器并注册生命周期钩子
func NewServer(params ServerParams) *Server {
	// 未显式指定 GIN_MODE 时使用 release 模式，关闭gin的调试输出
	if os.Getenv(gin.EnvGinMode) == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	server := newServer(RouterParams{
		Options:      params.Options,
		Logger:       params.Logger,
		ZapLogger:    params.ZapLogger,
		Client:       params.Client,
		Introspector: params.Introspector,
		Registerer:   params.Registerer,
		Gatherer:     params.Gatherer,
	})

	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return server.Start()
		},
		OnStop: func(ctx context.Context) error {
			return server.Stop(ctx)
		},
	})

	return server
}

func newServer(params RouterParams) *Server {
	return &Server{
		router:  NewRouter(params),
		options: params.Options,
		logger:  params.Logger,
	}
}

// Handler 返回路由引擎
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start 监听端口并在后台提供服务
// 端口被占用时直接返回错误
func (s *Server) Start() error {
	httpOpts := s.options.HTTP
	addr := net.JoinHostPort(httpOpts.Host, strconv.Itoa(httpOpts.Port))

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("监听 %s 失败: %w", addr, err)
	}

	s.mu.Lock()
	s.listener = listener
	s.done = make(chan struct{})
	s.httpServer = &http.Server{
		Handler:      s.router,
		ReadTimeout:  httpOpts.ReadTimeout,
		WriteTimeout: httpOpts.WriteTimeout,
		IdleTimeout:  httpOpts.IdleTimeout,
	}
	httpServer, done := s.httpServer, s.done
	s.mu.Unlock()

	go func() {
		defer close(done)
		// 正常关闭时返回 http.ErrServerClosed，不视为错误
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Errorf("HTTP服务器运行失败: %v", err)
		}
	}()

	s.logger.Infof("Server running on port %d", s.Port())
	return nil
}

// Port 实际监听端口（配置为0时由系统分配）
func (s *Server) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return 0
	}
	if tcpAddr, ok := s.listener.Addr().(*net.TCPAddr); ok {
		return tcpAddr.Port
	}
	return 0
}

// Stop 优雅关闭，最多等待 StopTimeout
// 超时后仍在等待交易确认的请求随请求上下文一起取消
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	httpServer, done := s.httpServer, s.done
	s.mu.Unlock()
	if httpServer == nil {
		return nil
	}

	s.logger.Info("正在关闭HTTP服务器")

	stopCtx := ctx
	if timeout := s.options.HTTP.StopTimeout; timeout > 0 {
		var cancel context.CancelFunc
		stopCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if err := httpServer.Shutdown(stopCtx); err != nil {
		s.logger.Warnf("HTTP服务器未能在限定时间内完成关闭，强制断开: %v", err)
		_ = httpServer.Close()
	}
	<-done

	s.logger.Info("HTTP服务器已关闭")
	return nil
}
