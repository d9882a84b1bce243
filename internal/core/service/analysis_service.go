package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/savefarm/savefarm/internal/api/metrics"
	"github.com/savefarm/savefarm/internal/core/domain"
	"github.com/savefarm/savefarm/internal/core/impact"
	"github.com/savefarm/savefarm/internal/core/ports"
)

const (
	SourceModel     = "model"
	SourceHeuristic = "heuristic"

	analysisPrompt = "Analyze this recipe and determine if it's vegan. Return JSON with animals_saved and comment.\nRecipe: "
)

// AnalysisService estimates the animal impact of a recipe. With an inference
// client the model's description is scored; otherwise, or when the model call
// fails, the recipe text itself is scored.
type AnalysisService struct {
	analyzer  *impact.Analyzer
	inference ports.InferenceClient
	log       zerolog.Logger
}

// NewAnalysisService accepts a nil inference client.
func NewAnalysisService(analyzer *impact.Analyzer, inference ports.InferenceClient, log zerolog.Logger) *AnalysisService {
	if analyzer == nil {
		analyzer = impact.New()
	}
	return &AnalysisService{analyzer: analyzer, inference: inference, log: log}
}

func (s *AnalysisService) Analyze(ctx context.Context, recipeText string) (*ports.Analysis, error) {
	if strings.TrimSpace(recipeText) == "" {
		return nil, domain.Invalid("recipe text required")
	}

	if s.inference == nil {
		metrics.InferenceRequestsTotal.WithLabelValues("disabled").Inc()
		return s.heuristic(recipeText), nil
	}

	out, err := s.inference.Generate(ctx, analysisPrompt+recipeText)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.log.Warn().Err(err).Msg("model inference failed, scoring recipe text")
		metrics.InferenceRequestsTotal.WithLabelValues("fallback").Inc()
		return s.heuristic(recipeText), nil
	}
	metrics.InferenceRequestsTotal.WithLabelValues("ok").Inc()

	if out.Verdict != nil {
		res := *out.Verdict
		if res.Details == nil {
			res.Details = []impact.Finding{}
		}
		res.Verdict = impact.VerdictModel
		metrics.AnalysesTotal.WithLabelValues(string(res.Verdict)).Inc()
		return &ports.Analysis{Result: res, Source: SourceModel, Model: out.Model}, nil
	}

	res := s.analyzer.Analyze(strings.TrimSpace(out.Text))
	metrics.AnalysesTotal.WithLabelValues(string(res.Verdict)).Inc()
	return &ports.Analysis{Result: res, Source: SourceModel, Model: out.Model}, nil
}

func (s *AnalysisService) heuristic(recipeText string) *ports.Analysis {
	res := s.analyzer.Analyze(recipeText)
	metrics.AnalysesTotal.WithLabelValues(string(res.Verdict)).Inc()
	return &ports.Analysis{Result: res, Source: SourceHeuristic}
}
