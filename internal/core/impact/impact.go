// Package impact estimates how many animals a recipe affects per year.
//
// Detection is plain case-insensitive substring matching against fixed keyword
// tables. A recipe that names animal products is reported as not vegan, with
// the yearly impact that a vegan version would have. A recipe without them is
// checked for vegan substitutes, which count as animals saved.
package impact

import (
	"fmt"
	"strings"

	"github.com/savefarm/savefarm/internal/core/domain"
)

// Verdict names the branch that produced a Result.
type Verdict string

const (
	VerdictEmpty          Verdict = "empty"
	VerdictAnimalProducts Verdict = "animal_products"
	VerdictSubstitutes    Verdict = "substitutes"
	VerdictNaturallyVegan Verdict = "naturally_vegan"
	VerdictModel          Verdict = "model"
)

const (
	commentEmpty          = "No recipe text to analyze."
	commentSubstitutes    = "Recipe uses vegan alternatives that help save animals! 🌱"
	commentNaturallyVegan = "Naturally vegan recipe! No animal alternatives needed."
)

// Finding is one keyword match and its contribution to the estimate.
type Finding struct {
	Ingredient   string `json:"ingredient"`
	Animal       string `json:"animal"`
	YearlyImpact Amount `json:"yearly_impact"`
}

// Result is the structured estimate for one recipe.
type Result struct {
	AnimalsSaved          int       `json:"animals_saved"`
	PotentialYearlyImpact Amount    `json:"potential_yearly_impact"`
	Comment               string    `json:"comment"`
	Details               []Finding `json:"details"`

	Verdict Verdict `json:"-"`
}

// Analyzer applies the keyword tables under a configurable match policy.
type Analyzer struct {
	policy  MatchPolicy
	numeric bool
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithMatchPolicy selects how overlapping keywords are counted.
func WithMatchPolicy(p MatchPolicy) Option {
	return func(a *Analyzer) { a.policy = p }
}

// WithNumericAmounts makes every Amount in a Result encode as a JSON number.
func WithNumericAmounts(numeric bool) Option {
	return func(a *Analyzer) { a.numeric = numeric }
}

// New returns an Analyzer. The zero configuration counts overlapping keywords
// separately and keeps the mixed string/number amount encoding.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{policy: Overlapping}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

var defaultAnalyzer = New()

// Analyze runs the default Analyzer.
func Analyze(text string) Result {
	return defaultAnalyzer.Analyze(text)
}

// Analyze never fails; empty text yields an empty zero-impact Result.
// Whitespace is ordinary text and reads as naturally vegan.
func (a *Analyzer) Analyze(text string) Result {
	var res Result
	switch lower := strings.ToLower(text); {
	case text == "":
		res = Result{Comment: commentEmpty, Details: []Finding{}, Verdict: VerdictEmpty}
	default:
		if found := a.matchProducts(lower); len(found) > 0 {
			res = animalProductResult(found)
		} else {
			res = substituteResult(lower)
		}
	}
	if a.numeric {
		res.normalize()
	}
	return res
}

func (a *Analyzer) matchProducts(lower string) []animalProduct {
	var found []animalProduct
	for _, p := range animalProducts {
		if strings.Contains(lower, p.keyword) {
			found = append(found, p)
		}
	}
	if a.policy == Longest {
		found = dropContained(found)
	}
	return found
}

// dropContained removes keywords that are substrings of another match, so
// "eggs" no longer also counts as "egg".
func dropContained(found []animalProduct) []animalProduct {
	out := found[:0:0]
	for i, p := range found {
		contained := false
		for j, q := range found {
			if i != j && len(q.keyword) > len(p.keyword) && strings.Contains(q.keyword, p.keyword) {
				contained = true
				break
			}
		}
		if !contained {
			out = append(out, p)
		}
	}
	return out
}

type categoryTotal struct {
	animal      string
	total       float64
	ingredients []string
}

func animalProductResult(found []animalProduct) Result {
	var (
		totals []*categoryTotal
		index  = make(map[string]*categoryTotal)
		sum    float64
	)
	details := make([]Finding, 0, len(found))
	for _, p := range found {
		ct, ok := index[p.animal]
		if !ok {
			ct = &categoryTotal{animal: p.animal}
			index[p.animal] = ct
			totals = append(totals, ct)
		}
		ct.total += p.count
		ct.ingredients = append(ct.ingredients, p.keyword)
		sum += p.count
		details = append(details, Finding{Ingredient: p.keyword, Animal: p.animal, YearlyImpact: Fixed2(p.count)})
	}

	parts := make([]string, 0, len(totals))
	for _, ct := range totals {
		plural := "s"
		if ct.total == 1 {
			plural = ""
		}
		parts = append(parts, fmt.Sprintf("%.2f %s%s (from %s)", ct.total, ct.animal, plural, strings.Join(ct.ingredients, ", ")))
	}

	return Result{
		AnimalsSaved:          0,
		PotentialYearlyImpact: Fixed2(sum),
		Comment: "Recipe contains animal products. If made vegan, you could save approximately " +
			strings.Join(parts, " and ") + " per year.",
		Details: details,
		Verdict: VerdictAnimalProducts,
	}
}

func substituteResult(lower string) Result {
	var findings []Finding
	add := func(d dishContext) {
		findings = append(findings, Finding{Ingredient: d.ingredient, Animal: d.animal, YearlyImpact: Number(d.impact)})
	}

	hasProtein := containsAny(lower, proteinSubstitutes)
	if hasProtein {
		for _, d := range proteinDishes {
			if containsAny(lower, d.terms) {
				add(d)
			}
		}
	}
	if containsAny(lower, dairySubstitutes) && containsAny(lower, dairyDish.terms) {
		add(dairyDish)
	}
	if containsAny(lower, eggSubstitutes) && containsAny(lower, eggDish.terms) {
		add(eggDish)
	}
	if len(findings) == 0 && hasProtein {
		add(genericMeat)
	}

	if len(findings) == 0 {
		return Result{
			PotentialYearlyImpact: Number(0),
			Comment:               commentNaturallyVegan,
			Details:               []Finding{},
			Verdict:               VerdictNaturallyVegan,
		}
	}

	var sum float64
	for _, f := range findings {
		sum += f.YearlyImpact.Value
	}
	return Result{
		AnimalsSaved:          1,
		PotentialYearlyImpact: Number(domain.Round2(sum)),
		Comment:               commentSubstitutes,
		Details:               findings,
		Verdict:               VerdictSubstitutes,
	}
}

func (r *Result) normalize() {
	r.PotentialYearlyImpact.Fixed = false
	for i := range r.Details {
		r.Details[i].YearlyImpact.Fixed = false
	}
}

func containsAny(lower string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

// Tally folds the findings of a Result that saved animals into running totals.
// Results that saved nothing leave the totals untouched.
func Tally(totals domain.Animals, r Result) domain.Animals {
	if totals == nil {
		totals = make(domain.Animals)
	}
	if r.AnimalsSaved <= 0 {
		return totals
	}
	for _, f := range r.Details {
		totals[f.Animal] += f.YearlyImpact.Value
	}
	return totals
}
