package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"focusframe-server/internal/infrastructure/auth"
	"focusframe-server/internal/interfaces/httpserver/handlers"
	"focusframe-server/internal/interfaces/httpserver/responses"

	// swagger type references
	_ "focusframe-server/internal/interfaces/httpserver/responses/accountres"
)

func registerAccountRoutes(router gin.IRouter, handler *handlers.AccountHandler, log zerolog.Logger) {
	router.GET("/account", getAccount(handler, log))
	router.DELETE("/account", deleteAccount(handler, log))
}

// getAccount godoc
// @Summary      Account profile
// @Description  Profile of the signed-in owner with their item count.
// @Tags         account
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  accountres.AccountResponse
// @Failure      400  {object}  responses.ErrorResponse
// @Router       /v1/account [get]
func getAccount(handler *handlers.AccountHandler, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := handler.Get(c.Request.Context(), auth.IdentityFrom(c))
		if err != nil {
			responses.HandleError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// deleteAccount godoc
// @Summary      Forget the account
// @Description  Deletes every item of the owner, then the owner record.
// @Tags         account
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  accountres.AccountDeletedResponse
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /v1/account [delete]
func deleteAccount(handler *handlers.AccountHandler, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := handler.Delete(c.Request.Context(), auth.OwnerID(c))
		if err != nil {
			responses.HandleError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
