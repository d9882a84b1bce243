package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/savefarm/savefarm/internal/core/domain"
	"github.com/savefarm/savefarm/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubAccountRepo struct {
	mu        sync.Mutex
	accounts  map[string]*domain.Account
	updateErr error
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{accounts: make(map[string]*domain.Account)}
}

func (r *stubAccountRepo) Create(_ context.Context, a *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[a.Username]; ok {
		return domain.ErrUsernameTaken
	}
	r.accounts[a.Username] = a.Clone()
	return nil
}

func (r *stubAccountRepo) Get(_ context.Context, username string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[username]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return a.Clone(), nil
}

func (r *stubAccountRepo) Update(_ context.Context, username string, fn func(*domain.Account) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	a, ok := r.accounts[username]
	if !ok {
		return domain.ErrAccountNotFound
	}
	working := a.Clone()
	if err := fn(working); err != nil {
		return err
	}
	r.accounts[username] = working
	return nil
}

func (r *stubAccountRepo) List(_ context.Context) ([]*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		out = append(out, a.Clone())
	}
	return out, nil
}

type stubRecipeRepo struct {
	recipes []*domain.SharedRecipe
}

func (r *stubRecipeRepo) Create(_ context.Context, recipe *domain.SharedRecipe) error {
	clone := *recipe
	r.recipes = append([]*domain.SharedRecipe{&clone}, r.recipes...)
	return nil
}

func (r *stubRecipeRepo) List(_ context.Context) ([]*domain.SharedRecipe, error) {
	return r.recipes, nil
}

func (r *stubRecipeRepo) find(id string) (*domain.SharedRecipe, error) {
	for _, rec := range r.recipes {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, domain.ErrRecipeNotFound
}

func (r *stubRecipeRepo) Like(_ context.Context, id string) (int, error) {
	rec, err := r.find(id)
	if err != nil {
		return 0, err
	}
	rec.Likes++
	return rec.Likes, nil
}

func (r *stubRecipeRepo) AddComment(_ context.Context, id string, c domain.Comment) error {
	rec, err := r.find(id)
	if err != nil {
		return err
	}
	rec.Comments = append(rec.Comments, c)
	return nil
}

// ---------------------------------------------------------------------------
// Stub session store
// ---------------------------------------------------------------------------

type stubSessions struct {
	seq    int
	tokens map[string]string
}

func newStubSessions() *stubSessions {
	return &stubSessions{tokens: make(map[string]string)}
}

func (s *stubSessions) Create(_ context.Context, username string) (string, error) {
	s.seq++
	token := fmt.Sprintf("tok-%d", s.seq)
	s.tokens[token] = username
	return token, nil
}

func (s *stubSessions) Lookup(_ context.Context, token string) (string, error) {
	u, ok := s.tokens[token]
	if !ok {
		return "", domain.ErrUnauthenticated
	}
	return u, nil
}

func (s *stubSessions) Invalidate(_ context.Context, token string) error {
	delete(s.tokens, token)
	return nil
}

// ---------------------------------------------------------------------------
// Stub clients
// ---------------------------------------------------------------------------

type stubInference struct {
	out    *ports.InferenceOutput
	err    error
	prompt string
}

func (s *stubInference) Generate(_ context.Context, prompt string) (*ports.InferenceOutput, error) {
	s.prompt = prompt
	if s.err != nil {
		return nil, s.err
	}
	return s.out, nil
}

type stubCatalog struct {
	categories map[string][]domain.Meal
	failing    map[string]error
	meals      map[string]domain.Meal
}

func (c *stubCatalog) ListByCategory(_ context.Context, category string) ([]domain.Meal, error) {
	if err := c.failing[category]; err != nil {
		return nil, err
	}
	return c.categories[category], nil
}

func (c *stubCatalog) Lookup(_ context.Context, id string) (*domain.Meal, error) {
	m, ok := c.meals[id]
	if !ok {
		return nil, domain.ErrMealNotFound
	}
	return &m, nil
}

func (c *stubCatalog) Search(_ context.Context, query string) ([]domain.Meal, error) {
	var out []domain.Meal
	for _, m := range c.meals {
		if m.Name == query {
			out = append(out, m)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

