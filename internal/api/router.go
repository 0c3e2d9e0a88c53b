package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/robotshop/shipping/internal/metrics"
	"github.com/robotshop/shipping/internal/middleware"
)

// NewRouter wires the shipping routes, middleware and the metrics endpoint
func NewRouter(h *Handlers, m *metrics.Metrics, log *zap.Logger) *gin.Engine {
	if log == nil {
		log = zap.NewNop()
	}
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	if m != nil {
		r.Use(middleware.Instrument(m))
	}
	// CORS aborts preflights, so it runs after instrumentation
	r.Use(middleware.CORS())
	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	r.GET("/health", h.Health)
	r.GET("/count", h.Count)
	r.GET("/codes", h.Codes)
	r.GET("/cities/:code", h.Cities)
	r.GET("/match/:code/:text", h.Match)
	r.GET("/calc/:uuid", h.Calc)

	return r
}
