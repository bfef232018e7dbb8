package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/privatep88/record-water-elc/internal/ledger"
	"github.com/privatep88/record-water-elc/internal/model"
)

type addRowRequest struct {
	Label string `json:"label"`
	// AfterIndex 插入位置：>=0 插在该下标之后，-1 插在合计行之前
	AfterIndex *int `json:"afterIndex,omitempty"`
}

// AddRow 为站点插入录入行
// POST /api/years/:year/sites/:id/rows
func (h *Handler) AddRow(c *gin.Context) {
	year, ok := parseYearParam(c)
	if !ok {
		return
	}

	var req addRowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误"})
		return
	}

	afterIndex := -1
	if req.AfterIndex != nil {
		afterIndex = *req.AfterIndex
	}

	row, err := h.ledger.AddRow(year, c.Param("id"), req.Label, afterIndex)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"row": row})
}

// DeleteRow 删除站点的某行
// DELETE /api/years/:year/sites/:id/rows/:rowId
func (h *Handler) DeleteRow(c *gin.Context) {
	year, ok := parseYearParam(c)
	if !ok {
		return
	}

	index, err := strconv.Atoi(c.Param("rowId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "非法行下标"})
		return
	}

	if err := h.ledger.DeleteRow(year, c.Param("id"), index); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// UpdateRow 更新行的标签/单位/计费标记
// PATCH /api/years/:year/sites/:id/rows/:rowId
func (h *Handler) UpdateRow(c *gin.Context) {
	year, ok := parseYearParam(c)
	if !ok {
		return
	}

	var upd ledger.RowUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误"})
		return
	}

	if err := h.ledger.UpdateRow(year, c.Param("id"), c.Param("rowId"), upd); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type setCellValueRequest struct {
	Month string `json:"month"`
	Value string `json:"value"` // 原始输入文本，空串记 0
}

// SetCellValue 写入单元格值并重算站点合计
// PUT /api/years/:year/sites/:id/rows/:rowId/value
func (h *Handler) SetCellValue(c *gin.Context) {
	year, ok := parseYearParam(c)
	if !ok {
		return
	}

	var req setCellValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误"})
		return
	}

	month, ok := model.ParseMonth(req.Month)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未知月份"})
		return
	}

	if err := h.ledger.SetCellValue(year, c.Param("id"), c.Param("rowId"), month, req.Value); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
