package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"grocy-planner/internal/logger"
	"grocy-planner/internal/metrics"
	"grocy-planner/internal/planner"
	"grocy-planner/internal/shopping"
)

const defaultHistoryLimit = 10

// Service is the application surface the HTTP API exposes.
type Service interface {
	GenerateShoppingList(ctx context.Context, start, end time.Time) (*shopping.List, error)
	History(ctx context.Context, limit int) ([]shopping.List, error)
}

// Handler serves the shopping list API.
type Handler struct {
	service  Service
	dataPath string
	log      *logger.Logger
	now      func() time.Time
}

// NewHandler creates a new Handler. dataPath is reported by /health.
func NewHandler(service Service, dataPath string, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{service: service, dataPath: dataPath, log: log, now: time.Now}
}

// NewRouter wires the routes onto a new gin engine.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), h.requestLogger())

	r.GET("/health", h.Health())

	api := r.Group("/api")
	api.GET("/shopping-list", h.GetShoppingList())
	api.GET("/shopping-list/history", h.GetHistory())

	return r
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		began := time.Now()
		c.Next()
		h.log.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(began).Milliseconds(),
		)
	}
}

// GET /health
func (h *Handler) Health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"system": metrics.GetSysHealth(h.dataPath),
		})
	}
}

// GET /api/shopping-list?start=YYYY-MM-DD&end=YYYY-MM-DD
//
// Without parameters the range is next Monday to Sunday.
func (h *Handler) GetShoppingList() gin.HandlerFunc {
	return func(c *gin.Context) {
		start, end, err := h.parseRange(c.Query("start"), c.Query("end"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		list, err := h.service.GenerateShoppingList(c.Request.Context(), start, end)
		if err != nil {
			if errors.Is(err, shopping.ErrInvalidRange) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			h.log.Error("shopping list generation failed", "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, list)
	}
}

// GET /api/shopping-list/history?limit=N
func (h *Handler) GetHistory() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := defaultHistoryLimit
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
				return
			}
			limit = n
		}

		lists, err := h.service.History(c.Request.Context(), limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if lists == nil {
			lists = []shopping.List{}
		}

		c.JSON(http.StatusOK, gin.H{"lists": lists})
	}
}

func (h *Handler) parseRange(rawStart, rawEnd string) (time.Time, time.Time, error) {
	if rawStart == "" && rawEnd == "" {
		start, end := planner.WeekRange(planner.GetNextMonday(h.now()))
		return start, end, nil
	}
	if rawStart == "" || rawEnd == "" {
		return time.Time{}, time.Time{}, errors.New("start and end must be given together")
	}

	start, err := time.Parse(planner.DateLayout, rawStart)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid start date, expected YYYY-MM-DD")
	}
	end, err := time.Parse(planner.DateLayout, rawEnd)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid end date, expected YYYY-MM-DD")
	}
	return start, end, nil
}
