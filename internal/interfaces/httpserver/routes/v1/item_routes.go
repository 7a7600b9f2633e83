package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"focusframe-server/internal/infrastructure/auth"
	"focusframe-server/internal/interfaces/httpserver/handlers"
	"focusframe-server/internal/interfaces/httpserver/requests/itemreq"
	"focusframe-server/internal/interfaces/httpserver/responses"
	"focusframe-server/internal/utils/platformerrors"

	// swagger type references
	_ "focusframe-server/internal/interfaces/httpserver/responses/itemres"
)

func registerItemRoutes(router gin.IRouter, handler *handlers.ItemHandler, log zerolog.Logger) {
	items := router.Group("/items")
	items.GET("", listItems(handler, log))
	items.POST("", createItem(handler, log))
	items.GET("/:id", getItem(handler, log))
	items.PUT("/:id", editItem(handler, log))
	items.PATCH("/:id", patchItem(handler, log))
	items.DELETE("/:id", deleteItem(handler, log))
	items.POST("/:id/move", moveItem(handler, log))
	items.POST("/:id/suggestion/apply", applySuggestion(handler, log))
	items.DELETE("/:id/suggestion", dismissSuggestion(handler, log))
}

// listItems godoc
// @Summary      List items
// @Description  One-shot snapshot of the caller's items, newest first. Anonymous callers get an empty list.
// @Tags         items
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  itemres.ItemListResponse
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /v1/items [get]
func listItems(handler *handlers.ItemHandler, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := handler.List(c.Request.Context(), auth.OwnerID(c))
		if err != nil {
			responses.HandleError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// getItem godoc
// @Summary      Get an item
// @Tags         items
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  itemres.ItemResponse
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /v1/items/{id} [get]
func getItem(handler *handlers.ItemHandler, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := handler.Get(c.Request.Context(), auth.OwnerID(c), c.Param("id"))
		if err != nil {
			responses.HandleError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// createItem godoc
// @Summary      Add an item
// @Description  Creates the item and starts a background recategorization check.
// @Tags         items
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      itemreq.CreateItemRequest  true  "Item"
// @Success      201      {object}  itemres.ItemCreatedResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      500      {object}  responses.ErrorResponse
// @Router       /v1/items [post]
func createItem(handler *handlers.ItemHandler, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req itemreq.CreateItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleNewError(c, log, platformerrors.ErrorTypeValidation, "invalid request body")
			return
		}
		result, err := handler.Create(c.Request.Context(), auth.OwnerID(c), req)
		if err != nil {
			responses.HandleError(c, log, err)
			return
		}
		c.JSON(http.StatusCreated, result)
	}
}

// editItem godoc
// @Summary      Edit an item
// @Description  Replaces content and bucket. Any suggestion is cleared and the check runs again.
// @Tags         items
// @Security     BearerAuth
// @Accept       json
// @Param        id       path  string                   true  "Item ID"
// @Param        request  body  itemreq.EditItemRequest  true  "Item"
// @Success      204
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /v1/items/{id} [put]
func editItem(handler *handlers.ItemHandler, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req itemreq.EditItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleNewError(c, log, platformerrors.ErrorTypeValidation, "invalid request body")
			return
		}
		if err := handler.Edit(c.Request.Context(), auth.OwnerID(c), c.Param("id"), req); err != nil {
			responses.HandleError(c, log, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// patchItem godoc
// @Summary      Patch an item
// @Description  Partial update of content, bucket or suggestion. id, created_at and owner fields are ignored.
// @Tags         items
// @Security     BearerAuth
// @Accept       json
// @Param        id       path  string  true  "Item ID"
// @Param        request  body  object  true  "Fields to change"
// @Success      204
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /v1/items/{id} [patch]
func patchItem(handler *handlers.ItemHandler, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var fields map[string]any
		if err := c.ShouldBindJSON(&fields); err != nil {
			responses.HandleNewError(c, log, platformerrors.ErrorTypeValidation, "invalid request body")
			return
		}
		if err := handler.Patch(c.Request.Context(), auth.OwnerID(c), c.Param("id"), fields); err != nil {
			responses.HandleError(c, log, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// moveItem godoc
// @Summary      Move an item
// @Description  Moving to the current bucket writes nothing and reports moved=false.
// @Tags         items
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                   true  "Item ID"
// @Param        request  body      itemreq.MoveItemRequest  true  "Target bucket"
// @Success      200      {object}  itemres.ItemMovedResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      404      {object}  responses.ErrorResponse
// @Router       /v1/items/{id}/move [post]
func moveItem(handler *handlers.ItemHandler, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req itemreq.MoveItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleNewError(c, log, platformerrors.ErrorTypeValidation, "invalid request body")
			return
		}
		result, err := handler.Move(c.Request.Context(), auth.OwnerID(c), c.Param("id"), req)
		if err != nil {
			responses.HandleError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// deleteItem godoc
// @Summary      Delete an item
// @Description  Idempotent; deleting a missing item succeeds.
// @Tags         items
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  itemres.ItemDeletedResponse
// @Failure      400  {object}  responses.ErrorResponse
// @Router       /v1/items/{id} [delete]
func deleteItem(handler *handlers.ItemHandler, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := handler.Delete(c.Request.Context(), auth.OwnerID(c), c.Param("id"))
		if err != nil {
			responses.HandleError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// applySuggestion godoc
// @Summary      Accept the suggestion
// @Description  Moves the item to its suggested bucket and clears the suggestion.
// @Tags         items
// @Security     BearerAuth
// @Param        id  path  string  true  "Item ID"
// @Success      204
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /v1/items/{id}/suggestion/apply [post]
func applySuggestion(handler *handlers.ItemHandler, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := handler.ApplySuggestion(c.Request.Context(), auth.OwnerID(c), c.Param("id")); err != nil {
			responses.HandleError(c, log, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// dismissSuggestion godoc
// @Summary      Dismiss the suggestion
// @Tags         items
// @Security     BearerAuth
// @Param        id  path  string  true  "Item ID"
// @Success      204
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /v1/items/{id}/suggestion [delete]
func dismissSuggestion(handler *handlers.ItemHandler, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := handler.DismissSuggestion(c.Request.Context(), auth.OwnerID(c), c.Param("id")); err != nil {
			responses.HandleError(c, log, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
