package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/savefarm/savefarm/internal/core/domain"
	"github.com/savefarm/savefarm/internal/core/impact"
	"github.com/savefarm/savefarm/internal/core/ports"
)

func TestAnalysisService_NoClientUsesHeuristic(t *testing.T) {
	svc := NewAnalysisService(nil, nil, discardLogger)

	a, err := svc.Analyze(context.Background(), "2 eggs and milk")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Source != SourceHeuristic {
		t.Errorf("expected heuristic source, got %q", a.Source)
	}
	if a.Result.Verdict != impact.VerdictAnimalProducts {
		t.Errorf("expected animal products verdict, got %q", a.Result.Verdict)
	}
}

func TestAnalysisService_EmptyRecipe(t *testing.T) {
	svc := NewAnalysisService(nil, nil, discardLogger)

	_, err := svc.Analyze(context.Background(), "  \n ")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAnalysisService_ScoresModelText(t *testing.T) {
	client := &stubInference{out: &ports.InferenceOutput{Model: "m1", Text: "This recipe uses tofu instead of chicken wings."}}
	svc := NewAnalysisService(impact.New(), client, discardLogger)

	a, err := svc.Analyze(context.Background(), "tofu bites")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(client.prompt, "Analyze this recipe and determine if it's vegan.") ||
		!strings.HasSuffix(client.prompt, "\nRecipe: tofu bites") {
		t.Errorf("unexpected prompt: %q", client.prompt)
	}
	if a.Source != SourceModel || a.Model != "m1" {
		t.Errorf("expected model source m1, got %q/%q", a.Source, a.Model)
	}
	// The model text mentions chicken, so the heuristic sees an animal product.
	if a.Result.Verdict != impact.VerdictAnimalProducts {
		t.Errorf("expected verdict from model text, got %q", a.Result.Verdict)
	}
}

func TestAnalysisService_StructuredModelVerdict(t *testing.T) {
	client := &stubInference{out: &ports.InferenceOutput{
		Model:   "m1",
		Verdict: &impact.Result{AnimalsSaved: 2, Comment: "vegan"},
	}}
	svc := NewAnalysisService(nil, client, discardLogger)

	a, err := svc.Analyze(context.Background(), "lentil soup")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Result.AnimalsSaved != 2 || a.Result.Comment != "vegan" {
		t.Errorf("expected model verdict passed through, got %+v", a.Result)
	}
	if a.Result.Details == nil {
		t.Error("details must never be nil")
	}
	if a.Result.Verdict != impact.VerdictModel {
		t.Errorf("expected model verdict tag, got %q", a.Result.Verdict)
	}
}

func TestAnalysisService_FallsBackOnFailure(t *testing.T) {
	client := &stubInference{err: errors.New("503")}
	svc := NewAnalysisService(nil, client, discardLogger)

	a, err := svc.Analyze(context.Background(), "seitan chicken nuggets")
	if err != nil {
		t.Fatalf("failure must not surface: %v", err)
	}
	if a.Source != SourceHeuristic {
		t.Errorf("expected heuristic fallback, got %q", a.Source)
	}
}

func TestAnalysisService_CancelledContext(t *testing.T) {
	client := &stubInference{err: context.Canceled}
	svc := NewAnalysisService(nil, client, discardLogger)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.Analyze(ctx, "rice"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
