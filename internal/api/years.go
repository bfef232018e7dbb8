package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type yearsResponse struct {
	CurrentYear int   `json:"currentYear"`
	Years       []int `json:"years"`
}

// ListYears 获取已有数据的年份列表
// GET /api/years
func (h *Handler) ListYears(c *gin.Context) {
	c.JSON(http.StatusOK, yearsResponse{
		CurrentYear: h.ledger.CurrentYear(),
		Years:       h.ledger.Years(),
	})
}

type selectYearRequest struct {
	Year int `json:"year"`
}

// SelectYear 切换当前操作财年
// POST /api/years/select
func (h *Handler) SelectYear(c *gin.Context) {
	var req selectYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误"})
		return
	}
	if req.Year <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "非法年份"})
		return
	}

	h.ledger.SetCurrentYear(req.Year)
	c.JSON(http.StatusOK, gin.H{"currentYear": req.Year})
}
