package api

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"universo/server/config"
	"universo/server/internal/cache"
	"universo/server/internal/database"
	"universo/server/internal/models"
)

const healthTimeout = 2 * time.Second

type Handler struct {
	db     *database.Database
	cache  cache.Store
	fence  *cache.Fence
	cfg    *config.Config
	logger *logrus.Logger
}

func NewHandler(db *database.Database, store cache.Store, cfg *config.Config, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	if store == nil {
		store = cache.Noop{}
	}

	return &Handler{
		db:     db,
		cache:  store,
		fence:  &cache.Fence{},
		cfg:    cfg,
		logger: logger,
	}
}

// fail writes the response for err. Validation errors are echoed so the
// caller can fix the request; anything else but not-found is logged and
// answered with the generic failure message.
func (h *Handler) fail(c *gin.Context, err error, notFound, failure string) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound})
	default:
		h.log(c).WithError(err).Error(failure)
		c.JSON(http.StatusInternalServerError, gin.H{"error": failure})
	}
}

// log returns an entry carrying the request id.
func (h *Handler) log(c *gin.Context) *logrus.Entry {
	return h.logger.WithField("request_id", c.GetString(requestIDKey))
}

// Health reports whether the database answers.
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.log(c).WithError(err).Error("Database health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "Database unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
