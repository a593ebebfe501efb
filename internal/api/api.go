// Package api holds the HTTP handlers of the recipe service.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-share/backend/internal/middleware"
	"github.com/pageza/recipe-share/backend/internal/model"
)

// User-facing error messages
const (
	MsgInvalidRecipe     = "Invalid input. Please check your recipe details."
	MsgInvalidScale      = "Invalid input. Please check the serving size and ingredients."
	MsgScaleUnavailable  = "Failed to scale ingredients. The AI model may be temporarily unavailable. Please try again later."
	MsgSaveFailed        = "Failed to save the recipe."
	MsgUpdateFailed      = "Failed to update the recipe."
	MsgLoginToCreate     = "You must be logged in to create a recipe."
	MsgLoginToUpdate     = "You must be logged in to update a recipe."
	MsgRecipeNotFound    = "Recipe not found"
	MsgNotOwner          = "You can only edit your own recipes."
	MsgImageUploadFailed = "Image upload failed."
	MsgLoadFailed        = "Failed to load recipes."
)

// DataResponse wraps a successful payload
type DataResponse struct {
	Data interface{} `json:"data"`
}

// ValidationResponse is returned for a rejected recipe submission
type ValidationResponse struct {
	Error            string            `json:"error"`
	ValidationErrors model.FieldErrors `json:"validationErrors"`
}

func respondError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, middleware.ErrorResponse{Error: msg})
}

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, DataResponse{Data: data})
}
