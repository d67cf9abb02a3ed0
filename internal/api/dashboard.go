package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

func (h *Handler) DashboardOverview(c *gin.Context) {
	year, err := yearParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
		return
	}

	overview, err := h.repo.DashboardOverview(c.Request.Context(), year)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}

// DashboardExport streams the year's submissions as an xlsx workbook.
func (h *Handler) DashboardExport(c *gin.Context) {
	year, err := yearParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
		return
	}

	summaries, err := h.repo.ListSubmissionsForYear(c.Request.Context(), year)
	if err != nil {
		h.respondError(c, err)
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Submissions"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Created By", "Status", "Incident Type", "Location", "Created (UTC)", "Last Updated (UTC)"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for row, s := range summaries {
		values := []interface{}{
			s.ID, s.CreatedBy, string(s.Status), s.IncidentType, s.Location,
			s.CreatedDate.Format(time.RFC3339), "",
		}
		if s.LastUpdatedDate != nil {
			values[6] = s.LastUpdatedDate.Format(time.RFC3339)
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="report-requests-%d.xlsx"`, year))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		h.log.Error().Err(err).Int("year", year).Msg("Failed to stream dashboard export")
	}
}

func yearParam(c *gin.Context) (int, error) {
	raw := c.Query("year")
	if raw == "" {
		return time.Now().UTC().Year(), nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 2000 || year > 2200 {
		return 0, fmt.Errorf("invalid year %q", raw)
	}
	return year, nil
}
