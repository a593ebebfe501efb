package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipe-share/backend/internal/cache"
	"github.com/pageza/recipe-share/backend/internal/middleware"
	"github.com/pageza/recipe-share/backend/internal/model"
	"github.com/pageza/recipe-share/backend/internal/repository"
	"github.com/pageza/recipe-share/backend/internal/service"
	"github.com/pageza/recipe-share/backend/internal/types"
)

const mainImageField = "main_image"

// formOverhead is the room left for text fields and multipart framing on top
// of the image size limit.
const formOverhead = 1 << 20

type RecipeHandler struct {
	recipes   service.IRecipeService
	mutations service.IMutationService
	auth      middleware.TokenValidator
	pages     cache.PageCache
	maxUpload int64
	log       *zap.Logger
}

func NewRecipeHandler(
	recipes service.IRecipeService,
	mutations service.IMutationService,
	auth middleware.TokenValidator,
	pages cache.PageCache,
	maxUpload int64,
	log *zap.Logger,
) *RecipeHandler {
	if pages == nil {
		pages = cache.Noop{}
	}
	return &RecipeHandler{
		recipes:   recipes,
		mutations: mutations,
		auth:      auth,
		pages:     pages,
		maxUpload: maxUpload,
		log:       log.Named("recipe-handler"),
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	cached := middleware.CachePage(h.pages, h.log)
	recipes := router.Group("/recipes")
	{
		recipes.GET("", cached, h.ListRecipes)
		recipes.GET("/:id", cached, h.GetRecipe)
		// anonymous mutations reach the handler so they get the login message
		recipes.POST("", middleware.OptionalAuth(h.auth), h.CreateRecipe)
		recipes.PUT("/:id", middleware.OptionalAuth(h.auth), h.UpdateRecipe)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	recipes, err := h.recipes.ListRecipes(c.Request.Context(), model.DefaultListLimit)
	if err != nil {
		h.log.Error("failed to list recipes", zap.Error(err))
		respondError(c, http.StatusInternalServerError, MsgLoadFailed)
		return
	}
	respondData(c, http.StatusOK, recipes)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	recipe, err := h.recipes.GetRecipe(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		respondError(c, http.StatusNotFound, MsgRecipeNotFound)
		return
	}
	if err != nil {
		h.log.Error("failed to get recipe", zap.String("id", c.Param("id")), zap.Error(err))
		respondError(c, http.StatusInternalServerError, MsgLoadFailed)
		return
	}
	respondData(c, http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	form, image, ok := h.bindRecipeForm(c)
	if !ok {
		return
	}

	recipe, err := h.mutations.CreateRecipe(c.Request.Context(), middleware.UserID(c), form, image)
	if err != nil {
		h.mutationError(c, err, MsgLoginToCreate, MsgSaveFailed)
		return
	}
	respondData(c, http.StatusCreated, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	form, image, ok := h.bindRecipeForm(c)
	if !ok {
		return
	}

	recipe, err := h.mutations.UpdateRecipe(c.Request.Context(), middleware.UserID(c), c.Param("id"), form, image)
	if err != nil {
		h.mutationError(c, err, MsgLoginToUpdate, MsgUpdateFailed)
		return
	}
	respondData(c, http.StatusOK, recipe)
}

// bindRecipeForm reads the multipart (or urlencoded) submission and its optional image
func (h *RecipeHandler) bindRecipeForm(c *gin.Context) (model.RecipeForm, *types.ImageUpload, bool) {
	if h.maxUpload > 0 {
		limit := h.maxUpload + formOverhead
		if c.Request.ContentLength > limit {
			h.imageRejected(c, h.tooLargeMessage())
			return model.RecipeForm{}, nil, false
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	}
	if _, err := c.MultipartForm(); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.imageRejected(c, h.tooLargeMessage())
			return model.RecipeForm{}, nil, false
		}
		h.log.Warn("failed to parse recipe form", zap.Error(err))
		respondError(c, http.StatusBadRequest, MsgInvalidRecipe)
		return model.RecipeForm{}, nil, false
	}

	form := model.RecipeForm{
		Title:                c.PostForm("title"),
		Description:          c.PostForm("description"),
		CuisineType:          c.PostForm("cuisine_type"),
		Servings:             c.PostForm("servings"),
		Ingredients:          c.PostForm("ingredients"),
		Steps:                c.PostForm("steps"),
		UserID:               c.PostForm("user_id"),
		ExistingMainImageURL: c.PostForm("existing_main_image_url"),
	}

	fh, err := c.FormFile(mainImageField)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return form, nil, true
	}
	if err != nil {
		h.imageRejected(c, "Main image could not be read.")
		return form, nil, false
	}

	f, err := fh.Open()
	if err != nil {
		h.imageRejected(c, "Main image could not be read.")
		return form, nil, false
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxUpload+1))
	if err != nil {
		h.imageRejected(c, "Main image could not be read.")
		return form, nil, false
	}
	if int64(len(data)) > h.maxUpload {
		h.imageRejected(c, h.tooLargeMessage())
		return form, nil, false
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return form, &types.ImageUpload{Filename: fh.Filename, ContentType: contentType, Data: data}, true
}

func (h *RecipeHandler) tooLargeMessage() string {
	return fmt.Sprintf("Main image must be at most %d MB.", h.maxUpload>>20)
}

func (h *RecipeHandler) imageRejected(c *gin.Context, msg string) {
	fields := model.FieldErrors{}
	fields.Add(mainImageField, msg)
	c.AbortWithStatusJSON(http.StatusBadRequest, ValidationResponse{Error: MsgInvalidRecipe, ValidationErrors: fields})
}

func (h *RecipeHandler) mutationError(c *gin.Context, err error, loginMsg, faultMsg string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(http.StatusBadRequest, ValidationResponse{Error: MsgInvalidRecipe, ValidationErrors: verr.Fields})
	case errors.Is(err, service.ErrUnauthenticated):
		respondError(c, http.StatusUnauthorized, loginMsg)
	case errors.Is(err, service.ErrForbidden):
		respondError(c, http.StatusForbidden, MsgNotOwner)
	case errors.Is(err, repository.ErrNotFound):
		respondError(c, http.StatusNotFound, MsgRecipeNotFound)
	case errors.Is(err, service.ErrImageUpload):
		respondError(c, http.StatusBadGateway, MsgImageUploadFailed)
	default:
		h.log.Error("recipe mutation failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		respondError(c, http.StatusInternalServerError, faultMsg)
	}
}
