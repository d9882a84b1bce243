package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/savefarm/savefarm/internal/core/ports"
)

type AnalysisHandler struct {
	analysis ports.AnalysisService
	accounts ports.AccountService
}

func NewAnalysisHandler(analysis ports.AnalysisService, accounts ports.AccountService) *AnalysisHandler {
	return &AnalysisHandler{analysis: analysis, accounts: accounts}
}

// Analyze estimates the animal impact of a recipe. With save set, the result
// is folded into the caller's tally, which requires a session.
//
// @Summary      Analyze a recipe
// @Tags         analysis
// @Accept       json
// @Produce      json
// @Param        body  body      analyzeRequest  true  "Recipe text"
// @Success      200   {object}  analyzeResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse  "save requested without a session"
// @Router       /api/analyze [post]
func (h *AnalysisHandler) Analyze(c echo.Context) error {
	var req analyzeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	var username string
	if req.Save {
		u, err := ctxUsername(c)
		if err != nil {
			return err
		}
		username = u
	}

	ctx := c.Request().Context()
	analysis, err := h.analysis.Analyze(ctx, req.RecipeText)
	if err != nil {
		return err
	}

	resp := analyzeResponse{Result: analysis.Result, Source: analysis.Source, Model: analysis.Model}
	if req.Save {
		animals, err := h.accounts.RecordImpact(ctx, username, analysis.Result)
		if err != nil {
			return err
		}
		resp.Animals = animals
	}
	return c.JSON(http.StatusOK, resp)
}
