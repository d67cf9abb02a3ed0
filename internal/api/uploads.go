package api

import (
	"net/http"

	"github.com/chaudhryu/police-report-request-backend/internal/auth"
	"github.com/chaudhryu/police-report-request-backend/internal/storage"
	pkgerrors "github.com/chaudhryu/police-report-request-backend/pkg/errors"

	"github.com/gin-gonic/gin"
)

type uploadURLRequest struct {
	Purpose      string `json:"purpose"`
	FileName     string `json:"file_name"`
	ContentType  string `json:"content_type"`
	FileSize     int64  `json:"file_size"`
	SubmissionID int64  `json:"submission_id"`
}

// CreateUploadURL issues a short-lived presigned upload URL. Ops uploads are
// staff-only and must name the submission they belong to.
func (h *Handler) CreateUploadURL(c *gin.Context) {
	authCtx, ok := auth.FromContext(c)
	if !ok {
		h.respondError(c, pkgerrors.ErrNoIdentity)
		return
	}

	var req uploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Purpose == "" {
		req.Purpose = storage.PurposeUser
	}
	if req.Purpose == storage.PurposeOps && !authCtx.IsAdmin {
		h.respondError(c, pkgerrors.ErrNotAdmin)
		return
	}

	ticket, err := h.signer.CreateUploadURL(req.Purpose, req.FileName, req.ContentType, req.FileSize, req.SubmissionID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ticket)
}
