package service

import (
	"context"
	"errors"
	"testing"

	"github.com/savefarm/savefarm/internal/core/domain"
	"github.com/savefarm/savefarm/internal/core/ports"
)

func newCommunityFixture() (*CommunityService, *stubAccountRepo, *stubRecipeRepo) {
	accounts := newStubAccountRepo()
	recipes := &stubRecipeRepo{}
	return NewCommunityService(accounts, recipes, discardLogger), accounts, recipes
}

func TestCommunityService_Leaderboard_Order(t *testing.T) {
	svc, accounts, _ := newCommunityFixture()
	accounts.accounts["carol"] = &domain.Account{Username: "carol"}
	accounts.accounts["alice"] = &domain.Account{Username: "alice", Animals: domain.Animals{"fish": 12, "cow": 0.5}}
	accounts.accounts["bob"] = &domain.Account{Username: "bob", Animals: domain.Animals{"cow": 5}}

	board, err := svc.Leaderboard(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(board) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(board))
	}
	want := []struct {
		user  string
		total float64
	}{{"alice", 12.5}, {"bob", 5}, {"carol", 0}}
	for i, w := range want {
		if board[i].Username != w.user || board[i].TotalAnimals != w.total {
			t.Errorf("rank %d: expected %s/%v, got %s/%v", i, w.user, w.total, board[i].Username, board[i].TotalAnimals)
		}
	}
	if board[2].Animals == nil {
		t.Error("accounts without a tally should report an empty map")
	}
}

func TestCommunityService_Leaderboard_TiesByUsername(t *testing.T) {
	svc, accounts, _ := newCommunityFixture()
	accounts.accounts["zed"] = &domain.Account{Username: "zed", Animals: domain.Animals{"cow": 1}}
	accounts.accounts["amy"] = &domain.Account{Username: "amy", Animals: domain.Animals{"pig": 1}}

	board, _ := svc.Leaderboard(context.Background())
	if board[0].Username != "amy" || board[1].Username != "zed" {
		t.Errorf("expected tie broken by username, got %s, %s", board[0].Username, board[1].Username)
	}
}

func TestCommunityService_ShareThenList(t *testing.T) {
	svc, _, _ := newCommunityFixture()
	ctx := context.Background()

	_, _ = svc.ShareRecipe(ctx, "alice", ports.ShareRecipeInput{RecipeName: "Old", RecipeText: "rice"})
	shared, err := svc.ShareRecipe(ctx, "bob", ports.ShareRecipeInput{
		RecipeName:   "Tofu Scramble",
		RecipeText:   "tofu, turmeric",
		AnimalsSaved: map[string]any{"chicken": "0.07"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shared.ID == "" || shared.Likes != 0 || shared.Comments == nil || shared.Username != "bob" {
		t.Errorf("unexpected shared recipe: %+v", shared)
	}

	list, _ := svc.ListRecipes(ctx)
	if len(list) != 2 || list[0].ID != shared.ID {
		t.Fatalf("newest recipe should be first, got %+v", list)
	}
	if list[0].AnimalsSaved["chicken"] != "0.07" {
		t.Errorf("animalsSaved must be stored verbatim, got %v", list[0].AnimalsSaved)
	}
}

func TestCommunityService_ShareRecipe_Validation(t *testing.T) {
	svc, _, _ := newCommunityFixture()

	_, err := svc.ShareRecipe(context.Background(), "alice", ports.ShareRecipeInput{RecipeName: "x"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCommunityService_ShareRecipe_DefaultsAnimals(t *testing.T) {
	svc, _, _ := newCommunityFixture()

	r, _ := svc.ShareRecipe(context.Background(), "alice", ports.ShareRecipeInput{RecipeName: "a", RecipeText: "b"})
	if r.AnimalsSaved == nil {
		t.Error("expected empty animalsSaved map")
	}
}

func TestCommunityService_ListRecipes_Empty(t *testing.T) {
	svc, _, _ := newCommunityFixture()

	list, err := svc.ListRecipes(context.Background())
	if err != nil || list == nil || len(list) != 0 {
		t.Errorf("expected empty non-nil list, got %v, %v", list, err)
	}
}

func TestCommunityService_LikeTwice(t *testing.T) {
	svc, _, _ := newCommunityFixture()
	ctx := context.Background()
	r, _ := svc.ShareRecipe(ctx, "alice", ports.ShareRecipeInput{RecipeName: "a", RecipeText: "b"})

	_, _ = svc.LikeRecipe(ctx, "bob", r.ID)
	likes, err := svc.LikeRecipe(ctx, "bob", r.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if likes != 2 {
		t.Errorf("expected 2 likes, got %d", likes)
	}
}

func TestCommunityService_LikeUnknown(t *testing.T) {
	svc, _, _ := newCommunityFixture()

	if _, err := svc.LikeRecipe(context.Background(), "bob", "missing"); !errors.Is(err, domain.ErrRecipeNotFound) {
		t.Errorf("expected ErrRecipeNotFound, got %v", err)
	}
}

func TestCommunityService_CommentOn(t *testing.T) {
	svc, _, recipes := newCommunityFixture()
	ctx := context.Background()
	r, _ := svc.ShareRecipe(ctx, "alice", ports.ShareRecipeInput{RecipeName: "a", RecipeText: "b"})

	c, err := svc.CommentOn(ctx, "bob", r.ID, "Looks great")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Username != "bob" || c.Text != "Looks great" || c.ID == "" || c.CreatedAt.IsZero() {
		t.Errorf("unexpected comment: %+v", c)
	}
	if got := recipes.recipes[0].Comments; len(got) != 1 || got[0].ID != c.ID {
		t.Errorf("comment not appended: %+v", got)
	}

	if _, err := svc.CommentOn(ctx, "bob", r.ID, "   "); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("blank comment: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.CommentOn(ctx, "bob", "missing", "hi"); !errors.Is(err, domain.ErrRecipeNotFound) {
		t.Errorf("unknown recipe: expected ErrRecipeNotFound, got %v", err)
	}
}
