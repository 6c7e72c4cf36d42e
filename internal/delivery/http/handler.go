package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hinote/backend/internal/domain"
	"github.com/sirupsen/logrus"
)

// OrderService is what the handlers need from the usecase layer
type OrderService interface {
	ExtractOrder(ctx context.Context, request *domain.ExtractRequest) (domain.ExtractionResult, error)
	MatchProduct(ctx context.Context, request *domain.MatchRequest) (*domain.Product, error)
	SaveCatalog(ctx context.Context, merchantID string, products []domain.Product) error
	GetCatalog(ctx context.Context, merchantID string) ([]domain.Product, error)
	DeleteCatalog(ctx context.Context, merchantID string) error
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	orders OrderService
	log    logrus.FieldLogger
}

// NewHandler creates a new HTTP handler
func NewHandler(orders OrderService, log logrus.FieldLogger) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{
		orders: orders,
		log:    log.WithField("component", "http_handler"),
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "hinote-backend",
		"version": "1.0.0",
	})
}

// ExtractOrder handles POST /api/v1/orders/extract
func (h *Handler) ExtractOrder(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var request domain.ExtractRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	result, err := h.orders.ExtractOrder(c.Request.Context(), &request)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// MatchProduct handles POST /api/v1/catalog/match
func (h *Handler) MatchProduct(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var request domain.MatchRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	product, err := h.orders.MatchProduct(c.Request.Context(), &request)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// PutCatalog handles PUT /api/v1/merchants/:merchantId/catalog
func (h *Handler) PutCatalog(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	merchantID := c.Param("merchantId")

	var request domain.CatalogRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	if err := h.orders.SaveCatalog(c.Request.Context(), merchantID, request.Products); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"merchantId": merchantID,
		"count":      len(request.Products),
	})
}

// GetCatalog handles GET /api/v1/merchants/:merchantId/catalog
func (h *Handler) GetCatalog(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	merchantID := c.Param("merchantId")

	products, err := h.orders.GetCatalog(c.Request.Context(), merchantID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"merchantId": merchantID,
		"products":   products,
	})
}

// DeleteCatalog handles DELETE /api/v1/merchants/:merchantId/catalog
func (h *Handler) DeleteCatalog(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	if err := h.orders.DeleteCatalog(c.Request.Context(), c.Param("merchantId")); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) ready(c *gin.Context) bool {
	if h.orders == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "order service not configured",
		})
		return false
	}
	return true
}

// respondError maps domain errors to HTTP status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrProductNotFound), errors.Is(err, domain.ErrCatalogNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
