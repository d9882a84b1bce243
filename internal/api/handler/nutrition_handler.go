package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/savefarm/savefarm/internal/core/ports"
)

type NutritionHandler struct {
	service ports.NutritionService
}

func NewNutritionHandler(service ports.NutritionService) *NutritionHandler {
	return &NutritionHandler{service: service}
}

// LogMeal appends a meal to a date bucket.
//
// @Summary      Log a meal
// @Tags         nutrition
// @Accept       json
// @Produce      json
// @Security     SessionAuth
// @Param        body  body      logMealRequest  true  "Meal entry"
// @Success      200   {object}  logMealResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/nutrition/log [post]
func (h *NutritionHandler) LogMeal(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}
	var req logMealRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	entry, err := h.service.LogMeal(c.Request().Context(), username, ports.LogMealInput{
		Date:      req.Date,
		MealName:  req.MealName,
		Nutrition: req.Nutrition,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, logMealResponse{Success: true, Log: entry})
}

// ListLogs returns the caller's date buckets, optionally bounded.
//
// @Summary      List nutrition logs
// @Tags         nutrition
// @Produce      json
// @Security     SessionAuth
// @Param        startDate  query     string  false  "First date (YYYY-MM-DD)"
// @Param        endDate    query     string  false  "Last date (YYYY-MM-DD)"
// @Success      200        {object}  logsResponse
// @Failure      401        {object}  errorResponse
// @Router       /api/nutrition/logs [get]
func (h *NutritionHandler) ListLogs(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}
	logs, err := h.service.ListLogs(c.Request().Context(), username, c.QueryParam("startDate"), c.QueryParam("endDate"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, logsResponse{Logs: logs})
}

// DeleteLog removes one entry from a date bucket.
//
// @Summary      Delete a nutrition log entry
// @Tags         nutrition
// @Produce      json
// @Security     SessionAuth
// @Param        date   path      string  true  "Date bucket (YYYY-MM-DD)"
// @Param        logId  path      string  true  "Entry id"
// @Success      200    {object}  successResponse
// @Failure      401    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Router       /api/nutrition/log/{date}/{logId} [delete]
func (h *NutritionHandler) DeleteLog(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteLog(c.Request().Context(), username, c.Param("date"), c.Param("logId")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, successResponse{Success: true})
}

// GetGoals returns stored goals or the defaults.
//
// @Summary      Get nutrition goals
// @Tags         nutrition
// @Produce      json
// @Security     SessionAuth
// @Success      200  {object}  goalsResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/nutrition/goals [get]
func (h *NutritionHandler) GetGoals(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}
	goals, err := h.service.GetGoals(c.Request().Context(), username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, goalsResponse{Goals: goals})
}

// SetGoals replaces the caller's goals.
//
// @Summary      Save nutrition goals
// @Tags         nutrition
// @Accept       json
// @Produce      json
// @Security     SessionAuth
// @Param        body  body      goalsRequest  true  "Nutrient targets"
// @Success      200   {object}  saveGoalsResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/nutrition/goals [post]
func (h *NutritionHandler) SetGoals(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}
	var req goalsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	goals, err := h.service.SetGoals(c.Request().Context(), username, req.Goals)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, saveGoalsResponse{Success: true, Goals: goals})
}
