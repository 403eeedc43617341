package enrollment

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ChenteAlv/oh-sansi-back/internal/competitor"
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
	router.GET("/competitors/:userId/submissions", h.Submissions)
	router.GET("/competitors/:userId/enrollments", h.Enrollments)
	router.GET("/rejection-reasons", h.RejectionReasons)
}

func (h *Handler) Submissions(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}

	h.logger.InfoContext(c.Request.Context(), "fetching competitor submissions", "user_id", userID)
	groups, err := h.service.CompetitorSubmissions(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.metrics.RecordSubmissionsViewed(c.Request.Context())

	c.JSON(http.StatusOK, groups)
}

func (h *Handler) Enrollments(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}

	h.logger.InfoContext(c.Request.Context(), "fetching competitor enrollments", "user_id", userID)
	views, err := h.service.CompetitorEnrollments(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.metrics.RecordEnrollmentsViewed(c.Request.Context())

	c.JSON(http.StatusOK, views)
}

func (h *Handler) RejectionReasons(c *gin.Context) {
	c.JSON(http.StatusOK, RejectionReasons())
}

func (h *Handler) handleServiceError(c *gin.Context, err error) {
	if errors.Is(err, competitor.ErrCompetitorNotFound) {
		h.logger.Info("competitor not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "competitor not found"})
		return
	}
	h.logger.Error("internal error", "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
