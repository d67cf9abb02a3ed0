package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/chaudhryu/police-report-request-backend/internal/config"
	"github.com/chaudhryu/police-report-request-backend/internal/db"
	"github.com/chaudhryu/police-report-request-backend/internal/logger"
	"github.com/chaudhryu/police-report-request-backend/internal/model"
	"github.com/chaudhryu/police-report-request-backend/internal/storage"
	pkgerrors "github.com/chaudhryu/police-report-request-backend/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Notifier is the enqueue-only face of the notification pipeline. The HTTP
// side never composes or sends mail; it records that an event happened.
type Notifier interface {
	EnqueueNotification(ctx context.Context, job model.NotificationJob) error
}

type Handler struct {
	repo     db.Repository
	notifier Notifier
	signer   *storage.Signer
	store    storage.BlobStore
	cfg      *config.Config
	log      zerolog.Logger
}

func NewHandler(
	repo db.Repository,
	notifier Notifier,
	signer *storage.Signer,
	store storage.BlobStore,
	cfg *config.Config,
) *Handler {
	return &Handler{
		repo:     repo,
		notifier: notifier,
		signer:   signer,
		store:    store,
		cfg:      cfg,
		log:      logger.Get(),
	}
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.cfg.App.Name,
		"version": h.cfg.App.Version,
	})
}

// respondError maps the error taxonomy onto HTTP statuses. Validation and
// referential problems are the client's fault; everything else is ours.
func (h *Handler) respondError(c *gin.Context, err error) {
	var validationErr pkgerrors.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.Is(err, pkgerrors.ErrInvalidPayload),
		errors.Is(err, pkgerrors.ErrInvalidStatus),
		errors.Is(err, pkgerrors.ErrFileTooLarge),
		errors.Is(err, pkgerrors.ErrFileTypeBlocked),
		errors.Is(err, pkgerrors.ErrUnknownUser):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, pkgerrors.ErrNoIdentity):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, pkgerrors.ErrNotAdmin):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, pkgerrors.ErrSubmissionNotFound),
		errors.Is(err, pkgerrors.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
