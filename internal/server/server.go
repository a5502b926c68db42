// Package server exposes the analytics engines and the chatbot over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pharmacy-inventory/internal/alerts"
	"pharmacy-inventory/internal/analytics"
	"pharmacy-inventory/internal/chatbot"
	"pharmacy-inventory/internal/common/config"
	"pharmacy-inventory/internal/common/logger"
	"pharmacy-inventory/internal/dataset"
	"pharmacy-inventory/internal/forecast"
	"pharmacy-inventory/internal/inventory"
	"pharmacy-inventory/internal/reorder"
)

// ReorderLog reads back persisted reorder requests. Nil when persistence is
// not configured.
type ReorderLog interface {
	Recent(ctx context.Context, limit int) ([]reorder.Request, error)
}

// Deps are the engines the handlers delegate to. Everything is constructed
// once at startup; handlers only read.
type Deps struct {
	Dataset    *dataset.Dataset
	Snapshot   inventory.Snapshot
	Bot        *chatbot.Bot
	Alerts     *alerts.Engine
	Analytics  *analytics.Engine
	Forecast   *forecast.CachedEngine
	Reorder    *reorder.Engine
	ReorderLog ReorderLog
}

// Server wires the gin engine, middleware and routes.
type Server struct {
	cfg    *config.Config
	logger logger.Logger
	deps   Deps
	engine *gin.Engine
	http   *http.Server
}

func New(cfg *config.Config, log logger.Logger, deps Deps) *Server {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		cfg:    cfg,
		logger: log.WithFields(map[string]interface{}{"component": "http-server"}),
		deps:   deps,
		engine: engine,
	}

	engine.Use(s.corsMiddleware(), s.requestMiddleware())
	s.registerRoutes()

	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", s.handleHealth)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.engine.GET("/dashboard-kpis", s.handleDashboardKPIs)
	s.engine.GET("/inventory", s.handleInventory)
	s.engine.GET("/forecast/:drug", s.handleForecast)
	s.engine.GET("/alerts/low-stock", s.handleLowStockAlerts)
	s.engine.GET("/alerts/expiry", s.handleExpiryAlerts)
	s.engine.GET("/wastage", s.handleWastage)
	s.engine.GET("/expiry-risk", s.handleExpiryRisk)
	s.engine.GET("/expiry-loss-recovery", s.handleExpiryLossRecovery)

	s.engine.POST("/chatbot", s.handleChatbot)
	s.engine.POST("/reorder-request", s.handleReorderRequest)
	s.engine.GET("/reorder-requests", s.handleReorderHistory)
}

// Handler exposes the routing tree; used by tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start serves until the context is cancelled, then drains connections
// within the configured shutdown timeout.
func (s *Server) Start(ctx context.Context) error {
	s.http = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler:      s.engine,
		ReadTimeout:  time.Duration(s.cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Server.WriteTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", map[string]interface{}{
			"port": s.cfg.Server.Port,
		})
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(s.cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	s.logger.Info("shutting down http server", nil)
	return s.http.Shutdown(shutdownCtx)
}
