package domain

import (
	"fmt"
	"strings"
)

// MealIngredient is one ingredient line of a catalog meal.
type MealIngredient struct {
	Name    string `json:"name"`
	Measure string `json:"measure"`
}

// Meal is a recipe from the public recipe database.
type Meal struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Category     string           `json:"category"`
	Area         string           `json:"area"`
	Instructions string           `json:"instructions"`
	Thumbnail    string           `json:"thumbnail,omitempty"`
	Ingredients  []MealIngredient `json:"ingredients"`
}

// AnalyzerText renders the meal as plain recipe text suitable for analysis.
func (m Meal) AnalyzerText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", m.Name)
	fmt.Fprintf(&b, "Category: %s\n", m.Category)
	fmt.Fprintf(&b, "Area: %s\n\n", m.Area)
	b.WriteString("Ingredients:\n")
	for _, ing := range m.Ingredients {
		fmt.Fprintf(&b, "- %s %s\n", ing.Measure, ing.Name)
	}
	fmt.Fprintf(&b, "\nInstructions:\n%s", m.Instructions)
	return b.String()
}
