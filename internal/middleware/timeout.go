package middleware

import (
	"context"
	"errors"
	"time"

	"go-fleet/internal/shared/apperror"
	"go-fleet/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// Timeout bounds every request with a context deadline. Handlers observe
// it through the database and redis clients; if nothing was written when
// the deadline passes the client gets REQUEST_TIMEOUT.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			response.Abort(c, apperror.ErrRequestTimeout.HTTPStatus, apperror.ErrRequestTimeout.Code, apperror.ErrRequestTimeout.Message)
		}
	}
}
