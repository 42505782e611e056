package controller

import (
	"net/http"

	"hwbot/internal/common/http/middleware"
	"hwbot/internal/homework/service"
	"hwbot/pkg/utils/logger"
	"hwbot/pkg/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StateSource provides the poll state snapshot.
type StateSource interface {
	Snapshot() service.State
}

// StatusController exposes the poller's health, state and metrics.
type StatusController struct {
	source   StateSource
	gatherer prometheus.Gatherer
	log      *logger.Logger
}

// NewStatusController creates a new controller.
func NewStatusController(source StateSource, gatherer prometheus.Gatherer, log *logger.Logger) *StatusController {
	if log == nil {
		log = logger.NewNop()
	}
	return &StatusController{source: source, gatherer: gatherer, log: log}
}

// Healthz reports liveness.
func (h *StatusController) Healthz(c *gin.Context) {
	c.Status(http.StatusOK)
}

// GetStatus returns the current poll state.
func (h *StatusController) GetStatus(c *gin.Context) {
	response.Success(c, h.source.Snapshot())
}

// Router builds the gin engine serving the status endpoints.
func (h *StatusController) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.TraceContextMiddleware())
	router.Use(middleware.RequestLogger(h.log))

	router.GET("/healthz", h.Healthz)
	router.GET("/status", h.GetStatus)
	if h.gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))
	}
	router.NoRoute(func(c *gin.Context) { response.NotFound(c, h.log) })
	return router
}
