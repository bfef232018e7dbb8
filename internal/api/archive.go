package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListArchived 查询某年的归档站点
// GET /api/years/:year/archive
func (h *Handler) ListArchived(c *gin.Context) {
	year, ok := parseYearParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"year":  year,
		"sites": h.ledger.ArchivedSites(year),
	})
}

// ArchiveSite 将站点移入某年归档
// POST /api/years/:year/archive/:id
func (h *Handler) ArchiveSite(c *gin.Context) {
	year, ok := parseYearParam(c)
	if !ok {
		return
	}
	if err := h.ledger.ArchiveSite(year, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// RestoreSite 将站点从归档还原回活动列表
// POST /api/years/:year/restore/:id
func (h *Handler) RestoreSite(c *gin.Context) {
	year, ok := parseYearParam(c)
	if !ok {
		return
	}
	if err := h.ledger.RestoreSite(year, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// PurgeSite 从归档中永久清除站点，不可恢复
// POST /api/years/:year/purge/:id
func (h *Handler) PurgeSite(c *gin.Context) {
	year, ok := parseYearParam(c)
	if !ok {
		return
	}
	if err := h.ledger.PurgeSite(year, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
