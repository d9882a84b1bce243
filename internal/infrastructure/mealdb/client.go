// Package mealdb reads TheMealDB public recipe database.
package mealdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/savefarm/savefarm/internal/core/domain"
)

const (
	DefaultBaseURL = "https://www.themealdb.com/api/json/v1/1"

	maxIngredients = 20
)

// Client implements ports.MealCatalog.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// mealsResponse is the envelope of every endpoint. "meals" is null when
// nothing matches; fields inside a meal may also be null.
type mealsResponse struct {
	Meals []map[string]*string `json:"meals"`
}

// ListByCategory returns the abbreviated meals of a category (id, name, thumbnail).
func (c *Client) ListByCategory(ctx context.Context, category string) ([]domain.Meal, error) {
	raw, err := c.get(ctx, "filter.php", url.Values{"c": {category}})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Meal, 0, len(raw))
	for _, m := range raw {
		meal := toMeal(m)
		if meal.Category == "" {
			meal.Category = category
		}
		out = append(out, meal)
	}
	return out, nil
}

func (c *Client) Lookup(ctx context.Context, id string) (*domain.Meal, error) {
	raw, err := c.get(ctx, "lookup.php", url.Values{"i": {id}})
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, domain.ErrMealNotFound
	}
	meal := toMeal(raw[0])
	return &meal, nil
}

func (c *Client) Search(ctx context.Context, query string) ([]domain.Meal, error) {
	raw, err := c.get(ctx, "search.php", url.Values{"s": {strings.TrimSpace(query)}})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Meal, 0, len(raw))
	for _, m := range raw {
		out = append(out, toMeal(m))
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values) ([]map[string]*string, error) {
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}

	u := fmt.Sprintf("%s/%s?%s", base, endpoint, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create mealdb request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: execute mealdb request: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read mealdb response: %v", domain.ErrUpstream, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: mealdb %s failed with status %d", domain.ErrUpstream, endpoint, resp.StatusCode)
	}

	var parsed mealsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decode mealdb response: %v", domain.ErrUpstream, err)
	}
	return parsed.Meals, nil
}

func toMeal(m map[string]*string) domain.Meal {
	meal := domain.Meal{
		ID:           field(m, "idMeal"),
		Name:         field(m, "strMeal"),
		Category:     field(m, "strCategory"),
		Area:         field(m, "strArea"),
		Instructions: field(m, "strInstructions"),
		Thumbnail:    field(m, "strMealThumb"),
		Ingredients:  []domain.MealIngredient{},
	}
	for i := 1; i <= maxIngredients; i++ {
		name := strings.TrimSpace(field(m, "strIngredient"+strconv.Itoa(i)))
		if name == "" {
			continue
		}
		meal.Ingredients = append(meal.Ingredients, domain.MealIngredient{
			Name:    name,
			Measure: strings.TrimSpace(field(m, "strMeasure"+strconv.Itoa(i))),
		})
	}
	return meal
}

func field(m map[string]*string, key string) string {
	if v := m[key]; v != nil {
		return *v
	}
	return ""
}
