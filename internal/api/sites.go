package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/privatep88/record-water-elc/internal/model"
	"github.com/privatep88/record-water-elc/internal/util"
)

type sitesResponse struct {
	Year        int                       `json:"year"`
	Sites       []*model.SiteData         `json:"sites"`
	GrandTotals map[model.MonthKey]string `json:"grandTotals"`
}

// ListSites 查询某年的活动站点与月度总计
// GET /api/years/:year/sites
func (h *Handler) ListSites(c *gin.Context) {
	year, ok := parseYearParam(c)
	if !ok {
		return
	}

	totals := h.ledger.GrandTotals(year)
	display := make(map[model.MonthKey]string, len(totals))
	for m, v := range totals {
		display[m] = util.FormatAmount(v)
	}

	c.JSON(http.StatusOK, sitesResponse{
		Year:        year,
		Sites:       h.ledger.ActiveSites(year),
		GrandTotals: display,
	})
}

type addSiteRequest struct {
	Name           string `json:"name"`
	MeterNumber    string `json:"meterNumber"`
	ActivationYear int    `json:"activationYear"`
}

// AddSite 全局新增站点
// 追加到模板与当前年起的已物化年份，历史年份不回溯
// POST /api/sites
func (h *Handler) AddSite(c *gin.Context) {
	var req addSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误"})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "站点名称不能为空"})
		return
	}

	activation := req.ActivationYear
	if activation == 0 {
		activation = h.ledger.CurrentYear()
	}

	site := model.NewSite(strings.TrimSpace(req.Name), strings.TrimSpace(req.MeterNumber), activation)
	created := h.ledger.AddSiteGlobally(site)

	c.JSON(http.StatusOK, gin.H{"site": created})
}

// UpdateSiteMetadata 更新站点元数据
// 模板、全部年份、全部归档同步更新
// PATCH /api/sites/:id
func (h *Handler) UpdateSiteMetadata(c *gin.Context) {
	var upd model.SiteMetadataUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误"})
		return
	}

	if err := h.ledger.UpdateSiteMetadata(c.Param("id"), upd); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
