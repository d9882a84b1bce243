package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/savefarm/savefarm/internal/core/ports"
)

type CommunityHandler struct {
	service ports.CommunityService
}

func NewCommunityHandler(service ports.CommunityService) *CommunityHandler {
	return &CommunityHandler{service: service}
}

// Leaderboard ranks every account by total animals saved.
//
// @Summary      Community leaderboard
// @Tags         community
// @Produce      json
// @Success      200  {object}  leaderboardResponse
// @Router       /api/community/leaderboard [get]
func (h *CommunityHandler) Leaderboard(c echo.Context) error {
	entries, err := h.service.Leaderboard(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, leaderboardResponse{Leaderboard: entries})
}

// ShareRecipe posts a recipe to the feed.
//
// @Summary      Share a recipe
// @Tags         community
// @Accept       json
// @Produce      json
// @Security     SessionAuth
// @Param        body  body      shareRecipeRequest  true  "Recipe"
// @Success      200   {object}  shareRecipeResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/community/share-recipe [post]
func (h *CommunityHandler) ShareRecipe(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}
	var req shareRecipeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	recipe, err := h.service.ShareRecipe(c.Request().Context(), username, ports.ShareRecipeInput{
		RecipeName:   req.RecipeName,
		RecipeText:   req.RecipeText,
		Description:  req.Description,
		AnimalsSaved: req.AnimalsSaved,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, shareRecipeResponse{Success: true, Recipe: recipe})
}

// ListRecipes returns the feed, newest first.
//
// @Summary      List shared recipes
// @Tags         community
// @Produce      json
// @Success      200  {object}  recipesResponse
// @Router       /api/community/recipes [get]
func (h *CommunityHandler) ListRecipes(c echo.Context) error {
	recipes, err := h.service.ListRecipes(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, recipesResponse{Recipes: recipes})
}

// Like increments a recipe's like counter.
//
// @Summary      Like a recipe
// @Tags         community
// @Produce      json
// @Security     SessionAuth
// @Param        recipeId  path      string  true  "Recipe id"
// @Success      200       {object}  likeResponse
// @Failure      401       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Router       /api/community/like/{recipeId} [post]
func (h *CommunityHandler) Like(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}
	likes, err := h.service.LikeRecipe(c.Request().Context(), username, c.Param("recipeId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, likeResponse{Success: true, Likes: likes})
}

// Comment appends a comment to a recipe.
//
// @Summary      Comment on a recipe
// @Tags         community
// @Accept       json
// @Produce      json
// @Security     SessionAuth
// @Param        recipeId  path      string          true  "Recipe id"
// @Param        body      body      commentRequest  true  "Comment"
// @Success      200       {object}  commentResponse
// @Failure      400       {object}  errorResponse
// @Failure      401       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Router       /api/community/comment/{recipeId} [post]
func (h *CommunityHandler) Comment(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}
	var req commentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	comment, err := h.service.CommentOn(c.Request().Context(), username, c.Param("recipeId"), req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, commentResponse{Success: true, Comment: comment})
}
