package api

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/privatep88/record-water-elc/internal/model"
)

// SetAttachment 上传行附件（multipart），超限拒绝，已有附件被替换
// PUT /api/years/:year/sites/:id/rows/:rowId/attachment
func (h *Handler) SetAttachment(c *gin.Context) {
	year, ok := parseYearParam(c)
	if !ok {
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

	// 读到上限 +1 字节即可判定超限，不必吞下整个超大文件
	data, err := io.ReadAll(io.LimitReader(file, model.MaxAttachmentSize+1))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "读取上传文件失败"})
		return
	}

	att := &model.Attachment{
		ID:       uuid.New().String(),
		Name:     fileHeader.Filename,
		MimeType: fileHeader.Header.Get("Content-Type"),
		Payload:  base64.StdEncoding.EncodeToString(data),
	}

	if err := h.ledger.SetAttachment(year, c.Param("id"), c.Param("rowId"), att); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"attachment": gin.H{
			"id":       att.ID,
			"name":     att.Name,
			"mimeType": att.MimeType,
			"size":     fmt.Sprintf("%d", len(att.Payload)),
		},
	})
}

// RemoveAttachment 移除行附件
// DELETE /api/years/:year/sites/:id/rows/:rowId/attachment
func (h *Handler) RemoveAttachment(c *gin.Context) {
	year, ok := parseYearParam(c)
	if !ok {
		return
	}

	if err := h.ledger.RemoveAttachment(year, c.Param("id"), c.Param("rowId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
