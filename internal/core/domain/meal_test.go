package domain

import "testing"

func TestMeal_AnalyzerText(t *testing.T) {
	m := Meal{
		Name:         "Chana Masala",
		Category:     "Vegan",
		Area:         "Indian",
		Instructions: "Simmer.",
		Ingredients: []MealIngredient{
			{Name: "Chickpeas", Measure: "400g"},
			{Name: "Onion", Measure: "1"},
		},
	}

	want := "Chana Masala\n\nCategory: Vegan\nArea: Indian\n\nIngredients:\n- 400g Chickpeas\n- 1 Onion\n\nInstructions:\nSimmer."
	if got := m.AnalyzerText(); got != want {
		t.Errorf("unexpected analyzer text:\n%q\nwant\n%q", got, want)
	}
}
