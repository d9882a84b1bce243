package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/savefarm/savefarm/internal/core/ports"
)

type CatalogHandler struct {
	service ports.CatalogService
}

func NewCatalogHandler(service ports.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// Random picks a meal from the plant-friendly categories.
//
// @Summary      Random vegan-friendly meal
// @Tags         recipes
// @Produce      json
// @Success      200  {object}  mealResponse
// @Failure      404  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /api/recipes/random [get]
func (h *CatalogHandler) Random(c echo.Context) error {
	meal, err := h.service.RandomVeganMeal(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mealResponse{Meal: meal})
}

// Search finds meals by name.
//
// @Summary      Search meals
// @Tags         recipes
// @Produce      json
// @Param        q    query     string  true  "Name fragment"
// @Success      200  {object}  mealsResponse
// @Failure      400  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /api/recipes/search [get]
func (h *CatalogHandler) Search(c echo.Context) error {
	meals, err := h.service.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return err
	}
	if meals == nil {
		meals = []ports.CatalogMeal{}
	}
	return c.JSON(http.StatusOK, mealsResponse{Meals: meals})
}

// Get returns one meal by id.
//
// @Summary      Get a meal
// @Tags         recipes
// @Produce      json
// @Param        id   path      string  true  "Meal id"
// @Success      200  {object}  mealResponse
// @Failure      404  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /api/recipes/{id} [get]
func (h *CatalogHandler) Get(c echo.Context) error {
	meal, err := h.service.Meal(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mealResponse{Meal: meal})
}
