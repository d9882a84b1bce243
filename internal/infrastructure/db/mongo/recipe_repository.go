package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/savefarm/savefarm/internal/core/domain"
)

type RecipeRepository struct {
	col *mongo.Collection
}

func NewRecipeRepository(db *mongo.Database) *RecipeRepository {
	return &RecipeRepository{col: db.Collection(CollectionRecipes)}
}

func (r *RecipeRepository) Create(ctx context.Context, recipe *domain.SharedRecipe) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, recipe); err != nil {
		return fmt.Errorf("insert recipe: %w", err)
	}
	return nil
}

// List returns the feed newest first.
func (r *RecipeRepository) List(ctx context.Context) ([]*domain.SharedRecipe, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "sharedAt", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find recipes: %w", err)
	}
	defer cur.Close(ctx)

	out := []*domain.SharedRecipe{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode recipes: %w", err)
	}
	return out, nil
}

func (r *RecipeRepository) Like(ctx context.Context, recipeID string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated domain.SharedRecipe
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": recipeID}, bson.M{"$inc": bson.M{"likes": 1}}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, domain.ErrRecipeNotFound
		}
		return 0, fmt.Errorf("like recipe: %w", err)
	}
	return updated.Likes, nil
}

func (r *RecipeRepository) AddComment(ctx context.Context, recipeID string, comment domain.Comment) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": recipeID}, bson.M{"$push": bson.M{"comments": comment}})
	if err != nil {
		return fmt.Errorf("comment on recipe: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrRecipeNotFound
	}
	return nil
}

// EnsureIndexes creates the index backing the feed order.
func (r *RecipeRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "sharedAt", Value: -1}}})
	return err
}
