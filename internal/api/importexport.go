package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/privatep88/record-water-elc/internal/excel"
	"github.com/privatep88/record-water-elc/internal/ledger"
)

// Import 导入 Excel 数据到某年
// 解析失败或一个站点都没读到时现有数据不动
// POST /api/import
func (h *Handler) Import(c *gin.Context) {
	yearStr := c.DefaultPostForm("year", strconv.Itoa(h.ledger.CurrentYear()))
	year, err := strconv.Atoi(yearStr)
	if err != nil || year <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "非法年份"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未找到上传文件"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "读取上传文件失败"})
		return
	}
	defer file.Close()

	importer := excel.NewImporter()
	if err := importer.LoadFile(file); err != nil {
		respondImportError(c, err)
		return
	}
	defer importer.Close()

	sites, err := importer.Parse()
	if err != nil {
		respondImportError(c, err)
		return
	}

	// 入账前恢复合计不变量，文件里的合计值不可信
	for _, site := range sites {
		ledger.RecalcSiteTotals(site)
	}
	h.ledger.SetActiveSites(year, sites)

	c.JSON(http.StatusOK, gin.H{
		"year":      year,
		"siteCount": len(sites),
	})
}

func respondImportError(c *gin.Context, err error) {
	var fmtErr *excel.ImportFormatError
	if errors.As(err, &fmtErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmtErr.Reason})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// Export 导出某年台账为 Excel 下载
// GET /api/export?year=2026
func (h *Handler) Export(c *gin.Context) {
	year := h.ledger.CurrentYear()
	if s := c.Query("year"); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil || y <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "非法年份"})
			return
		}
		year = y
	}

	sites := h.ledger.ActiveSites(year)
	totals := h.ledger.GrandTotals(year)

	f, err := excel.NewExporter().Export(year, sites, totals)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "导出失败"})
		return
	}

	filename := fmt.Sprintf("水电台账_%d.xlsx", year)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "写出文件失败"})
		return
	}
}
