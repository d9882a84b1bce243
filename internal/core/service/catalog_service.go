package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/rs/zerolog"

	"github.com/savefarm/savefarm/internal/core/domain"
	"github.com/savefarm/savefarm/internal/core/ports"
)

// veganFriendlyCategories are the catalog categories a random suggestion is
// drawn from. Vegetarian, Starter and Breakfast are not strictly vegan; the
// suggestion is meant to be analyzed.
var veganFriendlyCategories = []string{"Vegan", "Vegetarian", "Starter", "Breakfast"}

// CatalogService browses the public recipe database.
type CatalogService struct {
	catalog ports.MealCatalog
	log     zerolog.Logger
	pick    func(n int) int
}

func NewCatalogService(catalog ports.MealCatalog, log zerolog.Logger) *CatalogService {
	return &CatalogService{catalog: catalog, log: log, pick: rand.Intn}
}

// RandomVeganMeal picks one meal across the vegan-friendly categories and
// loads its full details. A failing category is skipped.
func (s *CatalogService) RandomVeganMeal(ctx context.Context) (*ports.CatalogMeal, error) {
	seen := make(map[string]struct{})
	var ids []string
	for _, category := range veganFriendlyCategories {
		meals, err := s.catalog.ListByCategory(ctx, category)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.log.Warn().Err(err).Str("category", category).Msg("catalog category unavailable")
			continue
		}
		for _, m := range meals {
			if _, dup := seen[m.ID]; dup {
				continue
			}
			seen[m.ID] = struct{}{}
			ids = append(ids, m.ID)
		}
	}
	if len(ids) == 0 {
		return nil, domain.ErrMealNotFound
	}
	return s.Meal(ctx, ids[s.pick(len(ids))])
}

func (s *CatalogService) Search(ctx context.Context, query string) ([]ports.CatalogMeal, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.Invalid("search query required")
	}
	meals, err := s.catalog.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search meals: %w", err)
	}
	out := make([]ports.CatalogMeal, 0, len(meals))
	for _, m := range meals {
		out = append(out, withAnalyzerText(m))
	}
	return out, nil
}

func (s *CatalogService) Meal(ctx context.Context, id string) (*ports.CatalogMeal, error) {
	meal, err := s.catalog.Lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	cm := withAnalyzerText(*meal)
	return &cm, nil
}

func withAnalyzerText(m domain.Meal) ports.CatalogMeal {
	return ports.CatalogMeal{Meal: m, AnalyzerText: m.AnalyzerText()}
}
