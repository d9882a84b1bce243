package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
)

const (
	UsersFile   = "users.json"
	RecipesFile = "shared_recipes.json"
)

// Store opens both documents in a data directory.
type Store struct {
	Accounts *AccountRepository
	Recipes  *RecipeRepository

	users   *Document[usersFile]
	recipes *Document[recipesFile]
}

// Open creates dataDir if needed and loads users.json and shared_recipes.json.
func Open(dataDir string, opts ...Option) (*Store, error) {
	users, err := OpenDocument(filepath.Join(dataDir, UsersFile), newUsersFile, opts...)
	if err != nil {
		return nil, fmt.Errorf("open users: %w", err)
	}
	recipes, err := OpenDocument(filepath.Join(dataDir, RecipesFile), newRecipesFile, opts...)
	if err != nil {
		_ = users.Close()
		return nil, fmt.Errorf("open recipes: %w", err)
	}
	return &Store{
		Accounts: NewAccountRepository(users),
		Recipes:  NewRecipeRepository(recipes),
		users:    users,
		recipes:  recipes,
	}, nil
}

// Ping reports whether both document goroutines still accept work.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.users.View(ctx, func(*usersFile) error { return nil }); err != nil {
		return err
	}
	return s.recipes.View(ctx, func(*recipesFile) error { return nil })
}

func (s *Store) Close() error {
	return errors.Join(s.users.Close(), s.recipes.Close())
}
