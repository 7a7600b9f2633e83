package middlewares

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"focusframe-server/internal/utils/platformerrors"
)

// BodyLimit caps the request body at maxBytes. Requests that announce a
// larger body are refused before anything is read.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 || c.Request.Body == nil {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			platformerrors.WritePayloadTooLarge(c, tooLargeMessage(maxBytes))
			c.Abort()
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// IsBodyTooLarge reports whether err came from reading past a BodyLimit cap.
func IsBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

// WriteBodyTooLarge writes the 413 response for err.
func WriteBodyTooLarge(c *gin.Context, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		platformerrors.WritePayloadTooLarge(c, tooLargeMessage(maxErr.Limit))
		return
	}
	platformerrors.WritePayloadTooLarge(c, "request body too large")
}

func tooLargeMessage(limit int64) string {
	return fmt.Sprintf("request body exceeds %d bytes", limit)
}
