package ports

import (
	"context"

	"github.com/savefarm/savefarm/internal/core/domain"
)

// RecipeRepository persists the community recipe feed, newest first.
type RecipeRepository interface {
	Create(ctx context.Context, recipe *domain.SharedRecipe) error
	List(ctx context.Context) ([]*domain.SharedRecipe, error)
	// Like increments the like counter and returns the new value.
	Like(ctx context.Context, recipeID string) (int, error)
	AddComment(ctx context.Context, recipeID string, comment domain.Comment) error
}
