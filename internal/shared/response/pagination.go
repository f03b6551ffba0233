package response

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

type PageQuery struct {
	Page  int
	Limit int
}

func (p PageQuery) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ParsePageQuery reads ?page and ?limit, falling back to page 1 and the
// default limit for missing or malformed values.
func ParsePageQuery(c *gin.Context) PageQuery {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultLimit)))
	if err != nil || limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return PageQuery{Page: page, Limit: limit}
}
