package jsonfile

import (
	"context"

	"github.com/savefarm/savefarm/internal/core/domain"
)

// recipesFile is the on-disk shape of shared_recipes.json, newest first.
type recipesFile struct {
	Recipes []*domain.SharedRecipe `json:"recipes"`
}

func newRecipesFile() *recipesFile {
	return &recipesFile{Recipes: []*domain.SharedRecipe{}}
}

// RecipeRepository implements ports.RecipeRepository over shared_recipes.json.
type RecipeRepository struct {
	doc *Document[recipesFile]
}

func NewRecipeRepository(doc *Document[recipesFile]) *RecipeRepository {
	return &RecipeRepository{doc: doc}
}

func (r *RecipeRepository) Create(ctx context.Context, recipe *domain.SharedRecipe) error {
	return r.doc.Update(ctx, func(f *recipesFile) error {
		f.Recipes = append([]*domain.SharedRecipe{recipe.Clone()}, f.Recipes...)
		return nil
	})
}

func (r *RecipeRepository) List(ctx context.Context) ([]*domain.SharedRecipe, error) {
	var out []*domain.SharedRecipe
	err := r.doc.View(ctx, func(f *recipesFile) error {
		out = make([]*domain.SharedRecipe, 0, len(f.Recipes))
		for _, rec := range f.Recipes {
			if rec != nil {
				out = append(out, rec.Clone())
			}
		}
		return nil
	})
	return out, err
}

func (r *RecipeRepository) Like(ctx context.Context, recipeID string) (int, error) {
	var likes int
	err := r.doc.Update(ctx, func(f *recipesFile) error {
		rec := find(f, recipeID)
		if rec == nil {
			return Unchanged(domain.ErrRecipeNotFound)
		}
		rec.Likes++
		likes = rec.Likes
		return nil
	})
	return likes, err
}

func (r *RecipeRepository) AddComment(ctx context.Context, recipeID string, comment domain.Comment) error {
	return r.doc.Update(ctx, func(f *recipesFile) error {
		rec := find(f, recipeID)
		if rec == nil {
			return Unchanged(domain.ErrRecipeNotFound)
		}
		rec.Comments = append(rec.Comments, comment)
		return nil
	})
}

func find(f *recipesFile, id string) *domain.SharedRecipe {
	for _, rec := range f.Recipes {
		if rec != nil && rec.ID == id {
			return rec
		}
	}
	return nil
}
