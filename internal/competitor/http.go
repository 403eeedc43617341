package competitor

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ChenteAlv/oh-sansi-back/internal/metrics"
)

type Handler struct {
	service Service
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewHandler(service Service, logger *slog.Logger, metrics *metrics.Metrics) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
		metrics: metrics,
	}
}

func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.POST("/competitors", h.Register)
}

func (h *Handler) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	h.logger.InfoContext(c.Request.Context(), "registering competitor", "email", input.Email)
	result, err := h.service.Register(c.Request.Context(), input)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.metrics.RecordCompetitorRegistered(c.Request.Context())

	c.JSON(http.StatusCreated, result)
}

func (h *Handler) handleServiceError(c *gin.Context, err error) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		h.logger.Info("registration validation failed", "field", vErr.Field, "detail", vErr.Detail)
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error()})
		return
	}
	if errors.Is(err, ErrDuplicateRegistration) {
		h.logger.Info("duplicate registration rejected")
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	h.logger.Error("registration failed", "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
