package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"Vibella/core"
	"Vibella/lib/sl"
	"Vibella/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 10 * time.Second

// HttpServer wraps the gin engine with graceful shutdown helpers.
type HttpServer struct {
	conf   *core.Config
	engine *gin.Engine
	log    *slog.Logger
}

func New(conf *core.Config, log *slog.Logger, chat core.ChatService, store storage.ConversationStorage) *HttpServer {
	if conf.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), metricsMiddleware())

	handler := NewHandler(conf, log, chat, store)
	registerRoutes(engine, handler)

	return &HttpServer{
		conf:   conf,
		engine: engine,
		log:    log.With(sl.Module("server")),
	}
}

func registerRoutes(engine *gin.Engine, handler *Handler) {
	engine.GET("/", handler.Root)
	engine.POST("/chat", handler.Chat)
	engine.GET("/history", handler.History)
	engine.GET("/stats", handler.Stats)
	engine.GET("/health", handler.Health)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// Run starts the HTTP listener and shuts it down when ctx is cancelled.
func (s *HttpServer) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    ":" + s.conf.Port,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		s.log.Info("shutting down HTTP server")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// Engine exposes the router for tests.
func (s *HttpServer) Engine() *gin.Engine {
	return s.engine
}
