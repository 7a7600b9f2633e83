// Package responses holds the response plumbing shared by all routes.
package responses

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"focusframe-server/internal/utils/platformerrors"
)

// ErrorResponse is the error body of every failed request.
type ErrorResponse = platformerrors.HTTPErrorResponse

// HandleError writes err as a JSON error body and records it on the gin context.
func HandleError(c *gin.Context, log zerolog.Logger, err error) {
	_ = c.Error(err)
	platformerrors.WriteError(c, err, log)
}

// HandleNewError builds a PlatformError of the given type and writes it.
func HandleNewError(c *gin.Context, log zerolog.Logger, errorType platformerrors.ErrorType, message string) {
	HandleError(c, log, platformerrors.NewError(c.Request.Context(), platformerrors.LayerRoute, errorType, message, nil))
}
