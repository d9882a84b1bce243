package domain

import (
	"math"
	"time"
)

// Animals maps an animal category ("cow", "bee colony", ...) to a running total.
// Categories are open-ended: the impact heuristic may introduce new labels.
type Animals map[string]float64

// Total sums every category, rounded to two decimals.
func (a Animals) Total() float64 {
	var sum float64
	for _, v := range a {
		sum += v
	}
	return Round2(sum)
}

// Nutrition is the macro breakdown recorded with a meal.
type Nutrition struct {
	Calories float64 `json:"calories" bson:"calories"`
	Protein  float64 `json:"protein"  bson:"protein"`
	Carbs    float64 `json:"carbs"    bson:"carbs"`
	Fat      float64 `json:"fat"      bson:"fat"`
	Fiber    float64 `json:"fiber"    bson:"fiber"`
}

// NutritionLog is one meal inside a date bucket.
type NutritionLog struct {
	ID        string    `json:"id"        bson:"id"`
	MealName  string    `json:"mealName"  bson:"mealName"`
	Nutrition Nutrition `json:"nutrition" bson:"nutrition"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// NutritionLogs groups log entries by ISO date (YYYY-MM-DD).
type NutritionLogs map[string][]NutritionLog

// Between returns the buckets whose date key lies in [start, end]. Keys are
// zero-padded ISO dates, so string comparison orders them chronologically.
func (l NutritionLogs) Between(start, end string) NutritionLogs {
	out := make(NutritionLogs)
	for date, entries := range l {
		if date >= start && date <= end {
			out[date] = entries
		}
	}
	return out
}

// Remove deletes the entry with the given id from the date bucket and drops the
// bucket once it is empty. It reports whether the bucket existed.
func (l NutritionLogs) Remove(date, id string) bool {
	entries, ok := l[date]
	if !ok {
		return false
	}
	kept := entries[:0]
	for _, e := range entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == 0 {
		delete(l, date)
		return true
	}
	l[date] = kept
	return true
}

// NutritionGoals maps a nutrient key to its daily target.
type NutritionGoals map[string]float64

// DefaultNutritionGoals is served until an account stores its own goals.
func DefaultNutritionGoals() NutritionGoals {
	return NutritionGoals{
		"calories":   2000,
		"protein":    50,
		"carbs":      250,
		"fat":        70,
		"fiber":      30,
		"iron":       18,
		"calcium":    1000,
		"vitaminB12": 2.4,
		"vitaminD":   15,
		"omega3":     1.6,
		"zinc":       11,
	}
}

// Account is the persisted record for one user. Username is the storage key and
// is not repeated inside the JSON document.
type Account struct {
	Username       string         `json:"-"                        bson:"_id"`
	PasswordHash   string         `json:"passwordHash"             bson:"passwordHash"`
	Animals        Animals        `json:"animals"                  bson:"animals"`
	NutritionLogs  NutritionLogs  `json:"nutritionLogs,omitempty"  bson:"nutritionLogs,omitempty"`
	NutritionGoals NutritionGoals `json:"nutritionGoals,omitempty" bson:"nutritionGoals,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"                bson:"createdAt"`
}

// LeaderboardEntry is one row of the community leaderboard.
type LeaderboardEntry struct {
	Username     string    `json:"username"`
	TotalAnimals float64   `json:"totalAnimals"`
	Animals      Animals   `json:"animals"`
	JoinedAt     time.Time `json:"joinedAt"`
}

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Clone returns a deep copy; repositories hand out clones so callers never
// share maps with stored state.
func (a *Account) Clone() *Account {
	c := *a
	if a.Animals != nil {
		c.Animals = make(Animals, len(a.Animals))
		for k, v := range a.Animals {
			c.Animals[k] = v
		}
	}
	if a.NutritionLogs != nil {
		c.NutritionLogs = make(NutritionLogs, len(a.NutritionLogs))
		for date, entries := range a.NutritionLogs {
			c.NutritionLogs[date] = append([]NutritionLog(nil), entries...)
		}
	}
	if a.NutritionGoals != nil {
		c.NutritionGoals = make(NutritionGoals, len(a.NutritionGoals))
		for k, v := range a.NutritionGoals {
			c.NutritionGoals[k] = v
		}
	}
	return &c
}
