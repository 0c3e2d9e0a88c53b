package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/robotshop/shipping/internal/service"
)

// MatchLimit caps the number of cities returned by a prefix match
const MatchLimit = 10

// Pinger reports whether the database is reachable
type Pinger interface {
	PingContext(ctx context.Context) error
}

// CountResponse represents the city count response
type CountResponse struct {
	Count int64 `json:"count"`
}

// Handlers serves the shipping API
type Handlers struct {
	store  service.Store
	pinger Pinger
	log    *zap.Logger
}

// NewHandlers creates the handler set. pinger may be nil.
func NewHandlers(store service.Store, pinger Pinger, log *zap.Logger) *Handlers {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handlers{store: store, pinger: pinger, log: log}
}

// Health reports service liveness and database reachability
func (h *Handlers) Health(c *gin.Context) {
	status := http.StatusOK
	body := gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "shipping",
	}

	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.pinger.PingContext(ctx); err != nil {
			h.log.Warn("health check: database unreachable", zap.Error(err))
			status = http.StatusServiceUnavailable
			body["status"] = "unhealthy"
			body["database"] = "unreachable"
		}
	}

	c.JSON(status, body)
}

// Count returns the number of cities
func (h *Handlers) Count(c *gin.Context) {
	count, err := h.store.CountCities(c.Request.Context())
	if err != nil {
		h.internalError(c, "failed to count cities", err)
		return
	}
	c.JSON(http.StatusOK, CountResponse{Count: count})
}

// Codes returns all country codes
func (h *Handlers) Codes(c *gin.Context) {
	codes, err := h.store.Codes(c.Request.Context())
	if err != nil {
		h.internalError(c, "failed to fetch codes", err)
		return
	}
	c.JSON(http.StatusOK, codes)
}

// Cities returns the cities of a country code
func (h *Handlers) Cities(c *gin.Context) {
	code, ok := countryCode(c)
	if !ok {
		return
	}

	cities, err := h.store.CitiesByCode(c.Request.Context(), code)
	if err != nil {
		h.internalError(c, "failed to fetch cities", err)
		return
	}
	c.JSON(http.StatusOK, cities)
}

// Match returns cities of a country whose name starts with the given text
func (h *Handlers) Match(c *gin.Context) {
	code, ok := countryCode(c)
	if !ok {
		return
	}
	text := strings.TrimSpace(c.Param("text"))
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Match text cannot be empty"})
		return
	}

	cities, err := h.store.MatchCities(c.Request.Context(), code, text, MatchLimit)
	if err != nil {
		h.internalError(c, "failed to match cities", err)
		return
	}
	c.JSON(http.StatusOK, cities)
}

// Calc quotes shipping to a city
func (h *Handlers) Calc(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("uuid"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid city ID"})
		return
	}

	city, err := h.store.CityByUUID(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "City not found"})
			return
		}
		h.internalError(c, "failed to fetch city", err)
		return
	}

	c.JSON(http.StatusOK, service.Calculate(city))
}

func (h *Handlers) internalError(c *gin.Context, msg string, err error) {
	h.log.Error(msg, zap.String("path", c.Request.URL.Path), zap.Error(err))
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

func countryCode(c *gin.Context) (string, bool) {
	code := strings.ToLower(strings.TrimSpace(c.Param("code")))
	if len(code) != 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Country code must be two letters"})
		return "", false
	}
	return code, true
}
