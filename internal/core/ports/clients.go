package ports

import (
	"context"

	"github.com/savefarm/savefarm/internal/core/domain"
	"github.com/savefarm/savefarm/internal/core/impact"
)

// InferenceOutput is a model response reduced to text. Verdict is set instead
// when the model already answered with a structured estimate.
type InferenceOutput struct {
	Model   string
	Text    string
	Verdict *impact.Result
}

// InferenceClient calls a hosted text generation model.
type InferenceClient interface {
	Generate(ctx context.Context, prompt string) (*InferenceOutput, error)
}

// MealCatalog reads the public recipe database.
type MealCatalog interface {
	ListByCategory(ctx context.Context, category string) ([]domain.Meal, error)
	Lookup(ctx context.Context, id string) (*domain.Meal, error)
	Search(ctx context.Context, query string) ([]domain.Meal, error)
}
