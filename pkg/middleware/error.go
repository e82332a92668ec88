package middleware

import (
	"errors"
	"net/http"

	"mediaplane/pkg/errutil"

	"github.com/gin-gonic/gin"
)

// Error renders the last handler error through the errutil taxonomy so
// every endpoint reports failures in the same shape.
func Error() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		err := c.Errors.Last()
		if err == nil {
			return
		}

		var v errutil.BaseError
		if errors.As(err.Err, &v) {
			c.JSON(v.Code.HTTPStatus(), v.JSON())
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    errutil.StatusInternal,
				"message": err.Error(),
			},
		})
	}
}
