package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusResponse 系统状态
type StatusResponse struct {
	CurrentYear   int `json:"currentYear"`
	SiteCount     int `json:"siteCount"`
	ArchivedCount int `json:"archivedCount"`
	YearCount     int `json:"yearCount"`
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	year := h.ledger.CurrentYear()
	c.JSON(http.StatusOK, StatusResponse{
		CurrentYear:   year,
		SiteCount:     len(h.ledger.ActiveSites(year)),
		ArchivedCount: len(h.ledger.ArchivedSites(year)),
		YearCount:     len(h.ledger.Years()),
	})
}
