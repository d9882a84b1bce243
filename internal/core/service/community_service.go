package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/savefarm/savefarm/internal/api/metrics"
	"github.com/savefarm/savefarm/internal/core/domain"
	"github.com/savefarm/savefarm/internal/core/ports"
)

// CommunityService serves the leaderboard and the shared recipe feed.
type CommunityService struct {
	accounts ports.AccountRepository
	recipes  ports.RecipeRepository
	log      zerolog.Logger
	now      func() time.Time
}

func NewCommunityService(accounts ports.AccountRepository, recipes ports.RecipeRepository, log zerolog.Logger) *CommunityService {
	return &CommunityService{
		accounts: accounts,
		recipes:  recipes,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Leaderboard ranks every account by its summed tally, highest first. Ties
// keep username order so the ranking is stable between calls.
func (s *CommunityService) Leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, err
	}

	board := make([]domain.LeaderboardEntry, 0, len(accounts))
	for _, a := range accounts {
		animals := a.Animals
		if animals == nil {
			animals = domain.Animals{}
		}
		board = append(board, domain.LeaderboardEntry{
			Username:     a.Username,
			TotalAnimals: animals.Total(),
			Animals:      animals,
			JoinedAt:     a.CreatedAt,
		})
	}
	sort.SliceStable(board, func(i, j int) bool {
		if board[i].TotalAnimals != board[j].TotalAnimals {
			return board[i].TotalAnimals > board[j].TotalAnimals
		}
		return board[i].Username < board[j].Username
	})
	return board, nil
}

func (s *CommunityService) ShareRecipe(ctx context.Context, username string, in ports.ShareRecipeInput) (*domain.SharedRecipe, error) {
	if in.RecipeName == "" || in.RecipeText == "" {
		return nil, domain.Invalid("recipe name and text required")
	}
	animals := in.AnimalsSaved
	if animals == nil {
		animals = map[string]any{}
	}

	recipe := &domain.SharedRecipe{
		ID:           uuid.NewString(),
		Username:     username,
		RecipeName:   in.RecipeName,
		RecipeText:   in.RecipeText,
		Description:  in.Description,
		AnimalsSaved: animals,
		SharedAt:     s.now(),
		Likes:        0,
		Comments:     []domain.Comment{},
	}
	if err := s.recipes.Create(ctx, recipe); err != nil {
		return nil, err
	}

	metrics.RecipesSharedTotal.Inc()
	s.log.Info().Str("username", username).Str("recipe_id", recipe.ID).Msg("recipe shared")
	return recipe, nil
}

func (s *CommunityService) ListRecipes(ctx context.Context) ([]*domain.SharedRecipe, error) {
	recipes, err := s.recipes.List(ctx)
	if err != nil {
		return nil, err
	}
	if recipes == nil {
		recipes = []*domain.SharedRecipe{}
	}
	return recipes, nil
}

// LikeRecipe counts every call; a user may like the same recipe repeatedly.
func (s *CommunityService) LikeRecipe(ctx context.Context, username, recipeID string) (int, error) {
	likes, err := s.recipes.Like(ctx, recipeID)
	if err != nil {
		return 0, err
	}
	metrics.RecipeLikesTotal.Inc()
	s.log.Debug().Str("username", username).Str("recipe_id", recipeID).Int("likes", likes).Msg("recipe liked")
	return likes, nil
}

func (s *CommunityService) CommentOn(ctx context.Context, username, recipeID, text string) (*domain.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.Invalid("comment cannot be empty")
	}

	comment := domain.Comment{
		ID:        uuid.NewString(),
		Username:  username,
		Text:      text,
		CreatedAt: s.now(),
	}
	if err := s.recipes.AddComment(ctx, recipeID, comment); err != nil {
		return nil, err
	}

	metrics.RecipeCommentsTotal.Inc()
	return &comment, nil
}
