package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/privatep88/record-water-elc/internal/ledger"
)

// Handler API 处理器
type Handler struct {
	ledger *ledger.Ledger
}

// NewHandler 创建 API 处理器
func NewHandler(l *ledger.Ledger) *Handler {
	return &Handler{ledger: l}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 年份
	router.GET("/years", h.ListYears)
	router.POST("/years/select", h.SelectYear)

	// 站点
	router.GET("/years/:year/sites", h.ListSites)
	router.POST("/sites", h.AddSite)
	router.PATCH("/sites/:id", h.UpdateSiteMetadata)

	// 行与单元格
	router.POST("/years/:year/sites/:id/rows", h.AddRow)
	router.DELETE("/years/:year/sites/:id/rows/:rowId", h.DeleteRow)
	router.PATCH("/years/:year/sites/:id/rows/:rowId", h.UpdateRow)
	router.PUT("/years/:year/sites/:id/rows/:rowId/value", h.SetCellValue)

	// 附件
	router.PUT("/years/:year/sites/:id/rows/:rowId/attachment", h.SetAttachment)
	router.DELETE("/years/:year/sites/:id/rows/:rowId/attachment", h.RemoveAttachment)

	// 归档生命周期
	router.GET("/years/:year/archive", h.ListArchived)
	router.POST("/years/:year/archive/:id", h.ArchiveSite)
	router.POST("/years/:year/restore/:id", h.RestoreSite)
	router.POST("/years/:year/purge/:id", h.PurgeSite)

	// 导入导出
	router.POST("/import", h.Import)
	router.GET("/export", h.Export)
}

// parseYearParam 解析路径中的年份参数
func parseYearParam(c *gin.Context) (int, bool) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "非法年份"})
		return 0, false
	}
	return year, true
}

// respondError 统一错误响应
func respondError(c *gin.Context, err error) {
	var vErr *ledger.ValidationError
	switch {
	case ledger.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ledger.ErrTotalRowProtected):
		c.JSON(http.StatusBadRequest, gin.H{"error": "合计行不可删除"})
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Message})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
