package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"focusframe-server/internal/infrastructure/auth"
	"focusframe-server/internal/interfaces/httpserver/handlers"
	"focusframe-server/internal/interfaces/httpserver/middlewares"
	"focusframe-server/internal/interfaces/httpserver/requests/itemreq"
	"focusframe-server/internal/interfaces/httpserver/responses"
	"focusframe-server/internal/utils/platformerrors"
)

func registerVoiceRoutes(router gin.IRouter, handler *handlers.VoiceHandler, log zerolog.Logger) {
	limit := middlewares.BodyLimit(handler.MaxBodyBytes())
	router.POST("/transcriptions", limit, transcribe(handler, log))
	router.POST("/items/voice", limit, addFromVoice(handler, log))
}

// transcribe godoc
// @Summary      Transcribe a voice memo
// @Description  Accepts a data:audio/...;base64 URI and returns the recognized text.
// @Tags         voice
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      itemreq.TranscriptionRequest  true  "Voice memo"
// @Success      200      {object}  itemres.TranscriptionResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      413      {object}  responses.ErrorResponse
// @Failure      502      {object}  responses.ErrorResponse
// @Router       /v1/transcriptions [post]
func transcribe(handler *handlers.VoiceHandler, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req itemreq.TranscriptionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			if middlewares.IsBodyTooLarge(err) {
				middlewares.WriteBodyTooLarge(c, err)
				return
			}
			responses.HandleNewError(c, log, platformerrors.ErrorTypeValidation, "invalid request body")
			return
		}
		result, err := handler.Transcribe(c.Request.Context(), auth.OwnerID(c), req)
		if err != nil {
			responses.HandleError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// addFromVoice godoc
// @Summary      Add an item by voice
// @Description  Transcribes the memo and adds the text as a new item.
// @Tags         voice
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      itemreq.VoiceItemRequest  true  "Voice memo"
// @Success      201      {object}  itemres.VoiceItemResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      413      {object}  responses.ErrorResponse
// @Failure      502      {object}  responses.ErrorResponse
// @Router       /v1/items/voice [post]
func addFromVoice(handler *handlers.VoiceHandler, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req itemreq.VoiceItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			if middlewares.IsBodyTooLarge(err) {
				middlewares.WriteBodyTooLarge(c, err)
				return
			}
			responses.HandleNewError(c, log, platformerrors.ErrorTypeValidation, "invalid request body")
			return
		}
		result, err := handler.AddFromVoice(c.Request.Context(), auth.OwnerID(c), req)
		if err != nil {
			responses.HandleError(c, log, err)
			return
		}
		c.JSON(http.StatusCreated, result)
	}
}
