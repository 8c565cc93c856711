package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"

	"go.ngs.io/sst-indices/internal/usecase"
)

// IndexService computes indices and describes the available regions.
type IndexService interface {
	Execute(req usecase.IndexRequest) (*usecase.IndexResponse, error)
	ListRegions() []usecase.RegionInfo
}

// Handler handles HTTP requests for SST climate indices.
type Handler struct {
	indexUC IndexService
	clock   clockwork.Clock
}

// NewHandler creates a new HTTP handler.
func NewHandler(indexUC IndexService, clock clockwork.Clock) *Handler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Handler{
		indexUC: indexUC,
		clock:   clock,
	}
}

// GetIndex handles GET /v1/indices/:region.
func (h *Handler) GetIndex(c *gin.Context) {
	req := usecase.IndexRequest{
		Region: c.Param("region"),
	}

	// Parse window (default from configuration).
	if windowStr := c.Query("window"); windowStr != "" {
		window, err := strconv.Atoi(windowStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid window: %v", err)})
			return
		}
		req.Window = &window
	}

	// Execute use case.
	response, err := h.indexUC.Execute(req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, usecase.ErrInvalidRequest) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetRegions handles GET /v1/regions.
func (h *Handler) GetRegions(c *gin.Context) {
	regions := h.indexUC.ListRegions()
	c.JSON(http.StatusOK, gin.H{
		"regions": regions,
		"count":   len(regions),
	})
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   h.clock.Now().UTC().Format(time.RFC3339),
	})
}
