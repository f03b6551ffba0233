package response

import (
	"github.com/gin-gonic/gin"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

type PaginationMeta struct {
	Count int   `json:"count"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
}

func NewPaginationMeta(count int, total int64, page, limit int) PaginationMeta {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}

	return PaginationMeta{
		Count: count,
		Total: total,
		Page:  page,
		Pages: pages,
	}
}

// Success writes {success:true, message?, ...payload}.
func Success(c *gin.Context, status int, message string, payload gin.H) {
	body := gin.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

// List writes {success:true, count, total, page, pages, <key>: items}.
func List(c *gin.Context, key string, items any, meta PaginationMeta) {
	c.JSON(200, gin.H{
		"success": true,
		"count":   meta.Count,
		"total":   meta.Total,
		"page":    meta.Page,
		"pages":   meta.Pages,
		key:       items,
	})
}

func Error(c *gin.Context, status int, errorKind string, message string) {
	c.JSON(status, gin.H{
		"success":   false,
		"message":   message,
		"errorKind": errorKind,
	})
}

// Abort is Error for middleware: it also stops the handler chain.
func Abort(c *gin.Context, status int, errorKind string, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success":   false,
		"message":   message,
		"errorKind": errorKind,
	})
}
