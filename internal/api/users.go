package api

import (
	"net/http"

	"github.com/chaudhryu/police-report-request-backend/internal/auth"
	pkgerrors "github.com/chaudhryu/police-report-request-backend/pkg/errors"

	"github.com/gin-gonic/gin"
)

type setAdminRequest struct {
	IsAdmin *bool `json:"is_admin"`
}

// SetAdmin grants or revokes the admin role for a badge. This is the only
// write path for the role flag; directory profile syncs never touch it.
func (h *Handler) SetAdmin(c *gin.Context) {
	authCtx, ok := auth.FromContext(c)
	if !ok {
		h.respondError(c, pkgerrors.ErrNoIdentity)
		return
	}

	badge := c.Param("badge")
	if badge == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Badge is required"})
		return
	}

	var req setAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsAdmin == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request body must set is_admin"})
		return
	}

	if err := h.repo.SetAdmin(c.Request.Context(), badge, *req.IsAdmin, authCtx.Badge); err != nil {
		h.respondError(c, err)
		return
	}

	h.log.Info().Str("badge", badge).Bool("is_admin", *req.IsAdmin).
		Str("actor", authCtx.Badge).Msg("Admin role updated")

	c.JSON(http.StatusOK, gin.H{"badge": badge, "is_admin": *req.IsAdmin})
}
