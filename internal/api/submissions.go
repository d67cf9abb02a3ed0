package api

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/chaudhryu/police-report-request-backend/internal/auth"
	"github.com/chaudhryu/police-report-request-backend/internal/mail"
	"github.com/chaudhryu/police-report-request-backend/internal/model"
	"github.com/chaudhryu/police-report-request-backend/internal/payload"
	"github.com/chaudhryu/police-report-request-backend/internal/storage"
	pkgerrors "github.com/chaudhryu/police-report-request-backend/pkg/errors"

	"github.com/gin-gonic/gin"
)

const maxMultipartMemory = 32 << 20

// CreateSubmission accepts a multipart form: a "data" field holding the report
// JSON plus zero or more "files". Files are stored first, their metadata is
// merged into the payload, and the row is inserted before the created
// notification is enqueued.
func (h *Handler) CreateSubmission(c *gin.Context) {
	authCtx, ok := auth.FromContext(c)
	if !ok {
		h.respondError(c, pkgerrors.ErrNoIdentity)
		return
	}

	if err := c.Request.ParseMultipartForm(maxMultipartMemory); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
		return
	}

	doc, err := payload.Parse([]byte(c.PostForm("data")))
	if err != nil {
		h.respondError(c, err)
		return
	}

	var files []*multipart.FileHeader
	if c.Request.MultipartForm != nil {
		files = c.Request.MultipartForm.File["files"]
	}

	entries, err := h.storeFiles(c, files, storage.PurposeUser, model.AttachmentRoleUser, 0)
	if err != nil {
		h.respondError(c, err)
		return
	}

	doc, err = doc.MergeAttachments(entries)
	if err != nil {
		h.respondError(c, err)
		return
	}
	encoded, err := doc.Encode()
	if err != nil {
		h.respondError(c, err)
		return
	}

	id, err := h.repo.InsertSubmission(c.Request.Context(), authCtx.Badge, encoded)
	if err != nil {
		h.respondError(c, err)
		return
	}

	job := model.NotificationJob{SubmissionID: id, Event: model.EventCreated}
	if err := h.notifier.EnqueueNotification(c.Request.Context(), job); err != nil {
		// The row is committed; mail is best-effort.
		h.log.Error().Err(err).Int64("submission_id", id).Msg("Failed to enqueue created notification")
	}

	h.log.Info().Int64("submission_id", id).Str("badge", authCtx.Badge).
		Int("files", len(entries)).Msg("Submission created")

	c.JSON(http.StatusCreated, gin.H{"id": id, "status": model.StatusSubmitted})
}

func (h *Handler) ListSubmissions(c *gin.Context) {
	authCtx, ok := auth.FromContext(c)
	if !ok {
		h.respondError(c, pkgerrors.ErrNoIdentity)
		return
	}

	filter := model.SubmissionFilter{CreatedBy: authCtx.Badge}
	if c.Query("all") == "true" {
		if !authCtx.IsAdmin {
			h.respondError(c, pkgerrors.ErrNotAdmin)
			return
		}
		filter.CreatedBy = ""
	}

	if status := c.Query("status"); status != "" {
		if !model.Status(status).Valid() {
			h.respondError(c, fmt.Errorf("%w: %s", pkgerrors.ErrInvalidStatus, status))
			return
		}
		filter.Status = model.Status(status)
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from timestamp"})
			return
		}
		filter.FromUTC = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to timestamp"})
			return
		}
		filter.ToUTC = &t
	}

	skip, _ := strconv.Atoi(c.Query("skip"))
	if skip < 0 {
		skip = 0
	}
	take, _ := strconv.Atoi(c.Query("take"))
	if take <= 0 || take > 100 {
		take = 20
	}

	summaries, err := h.repo.ListSubmissions(c.Request.Context(), filter, skip, take)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"submissions": summaries,
		"skip":        skip,
		"take":        take,
	})
}

type attachmentView struct {
	model.AttachmentMeta
	DownloadURL string `json:"download_url,omitempty"`
}

// GetSubmission returns the full record with a fresh signed read URL per
// attachment. The URLs are derived per-request and never persisted.
func (h *Handler) GetSubmission(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	sub, err := h.repo.GetSubmission(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if sub == nil {
		h.respondError(c, pkgerrors.ErrSubmissionNotFound)
		return
	}

	doc, err := payload.Parse(sub.SubmittedData)
	if err != nil {
		h.respondError(c, err)
		return
	}

	views := make([]attachmentView, 0)
	for _, meta := range doc.Attachments() {
		view := attachmentView{AttachmentMeta: meta}
		url, err := h.signer.CreateReadURL(meta.Container, meta.BlobName, 0)
		if err != nil {
			h.log.Error().Err(err).Int64("submission_id", id).Str("blob", meta.BlobName).
				Msg("Failed to sign read URL for details view")
		} else {
			view.DownloadURL = url
		}
		views = append(views, view)
	}

	c.JSON(http.StatusOK, gin.H{
		"id":                sub.ID,
		"created_by":        sub.CreatedBy,
		"status":            sub.Status,
		"submitted_data":    json.RawMessage(sub.SubmittedData),
		"attachments":       views,
		"created_date":      sub.CreatedDate,
		"last_updated_by":   sub.LastUpdatedBy,
		"last_updated_date": sub.LastUpdatedDate,
	})
}

// AppendAttachments adds staff-sourced files to an existing submission. Files
// land under the ops namespace keyed by submission id.
func (h *Handler) AppendAttachments(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	sub, err := h.repo.GetSubmission(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if sub == nil {
		h.respondError(c, pkgerrors.ErrSubmissionNotFound)
		return
	}

	if err := c.Request.ParseMultipartForm(maxMultipartMemory); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
		return
	}
	var files []*multipart.FileHeader
	if c.Request.MultipartForm != nil {
		files = c.Request.MultipartForm.File["files"]
	}
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No files provided"})
		return
	}

	entries, err := h.storeFiles(c, files, storage.PurposeOps, model.AttachmentRoleOps, id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	doc, err := payload.Parse(sub.SubmittedData)
	if err != nil {
		h.respondError(c, err)
		return
	}
	doc, err = doc.MergeAttachments(entries)
	if err != nil {
		h.respondError(c, err)
		return
	}
	encoded, err := doc.Encode()
	if err != nil {
		h.respondError(c, err)
		return
	}

	affected, err := h.repo.UpdateSubmissionPayload(c.Request.Context(), id, encoded)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if affected == 0 {
		h.respondError(c, pkgerrors.ErrSubmissionNotFound)
		return
	}

	h.log.Info().Int64("submission_id", id).Int("files", len(entries)).Msg("Staff attachments added")
	c.JSON(http.StatusOK, gin.H{"id": id, "attachments": doc.Attachments()})
}

type setStatusRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

// SetStatus validates the requested transition, persists it, then enqueues the
// matching notification. Same-status requests are a pure no-op: nothing is
// written and nothing is sent.
func (h *Handler) SetStatus(c *gin.Context) {
	authCtx, ok := auth.FromContext(c)
	if !ok {
		h.respondError(c, pkgerrors.ErrNoIdentity)
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	newStatus := model.Status(req.Status)
	if !newStatus.Valid() {
		h.respondError(c, fmt.Errorf("%w: %q", pkgerrors.ErrInvalidStatus, req.Status))
		return
	}

	sub, err := h.repo.GetSubmission(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if sub == nil {
		h.respondError(c, pkgerrors.ErrSubmissionNotFound)
		return
	}

	if sub.Status == newStatus {
		c.Status(http.StatusNoContent)
		return
	}

	affected, err := h.repo.UpdateSubmissionStatus(c.Request.Context(), id, newStatus, authCtx.Badge)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if affected == 0 {
		h.respondError(c, pkgerrors.ErrSubmissionNotFound)
		return
	}

	if event, ok := model.EventForStatus(newStatus); ok {
		job := model.NotificationJob{
			SubmissionID: id,
			Event:        event,
			Note:         mail.Truncate(req.Note, h.cfg.Notifications.MaxNoteChars),
			ActorBadge:   authCtx.Badge,
		}
		if err := h.notifier.EnqueueNotification(c.Request.Context(), job); err != nil {
			h.log.Error().Err(err).Int64("submission_id", id).
				Str("event", string(event)).Msg("Failed to enqueue status notification")
		}
	}

	h.log.Info().Int64("submission_id", id).Str("status", string(newStatus)).
		Str("badge", authCtx.Badge).Msg("Submission status updated")

	c.JSON(http.StatusOK, gin.H{"id": id, "status": newStatus})
}

// storeFiles validates and uploads multipart files, returning the metadata
// entries to merge into the submission payload.
func (h *Handler) storeFiles(c *gin.Context, files []*multipart.FileHeader, purpose, role string, submissionID int64) ([]model.AttachmentMeta, error) {
	var entries []model.AttachmentMeta
	for _, fh := range files {
		contentType := fh.Header.Get("Content-Type")
		if fh.Size <= 0 {
			return nil, pkgerrors.ValidationError{Field: "files", Value: fh.Filename, Message: "empty file"}
		}
		if fh.Size > h.cfg.Uploads.MaxFileBytes {
			return nil, fmt.Errorf("%w: %s", pkgerrors.ErrFileTooLarge, fh.Filename)
		}
		if !h.signer.ContentTypeAllowed(contentType) {
			return nil, fmt.Errorf("%w: %s", pkgerrors.ErrFileTypeBlocked, contentType)
		}

		key, err := storage.BlobKey(purpose, fh.Filename, submissionID)
		if err != nil {
			return nil, err
		}

		file, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open uploaded file %s: %w", fh.Filename, err)
		}
		err = h.store.Upload(c.Request.Context(), h.signer.Container(), key, contentType, file)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to store uploaded file %s: %w", fh.Filename, err)
		}

		entries = append(entries, model.AttachmentMeta{
			Container:   h.signer.Container(),
			BlobName:    key,
			FileName:    fh.Filename,
			ContentType: contentType,
			Length:      fh.Size,
			Role:        role,
			UploadedUTC: time.Now().UTC(),
		})
	}
	return entries, nil
}
