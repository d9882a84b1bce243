package service

import (
	"context"
	"errors"
	"testing"

	"github.com/savefarm/savefarm/internal/core/domain"
	"github.com/savefarm/savefarm/internal/core/ports"
)

func newNutritionFixture(t *testing.T) (*NutritionService, *stubAccountRepo) {
	t.Helper()
	repo := newStubAccountRepo()
	repo.accounts["alice"] = &domain.Account{Username: "alice", Animals: domain.Animals{}}
	return NewNutritionService(repo, discardLogger), repo
}

func meal(date, name string, kcal float64) ports.LogMealInput {
	return ports.LogMealInput{Date: date, MealName: name, Nutrition: &domain.Nutrition{Calories: kcal}}
}

func TestNutritionService_LogMeal_AppendsToDateBucket(t *testing.T) {
	svc, repo := newNutritionFixture(t)
	ctx := context.Background()

	first, err := svc.LogMeal(ctx, "alice", meal("2024-05-01", "Oats", 300))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _ := svc.LogMeal(ctx, "alice", meal("2024-05-01", "Salad", 200))

	if first.ID == "" || first.ID == second.ID {
		t.Errorf("expected distinct non-empty ids, got %q and %q", first.ID, second.ID)
	}
	if first.Timestamp.IsZero() {
		t.Error("timestamp must be set")
	}
	bucket := repo.accounts["alice"].NutritionLogs["2024-05-01"]
	if len(bucket) != 2 || bucket[0].MealName != "Oats" || bucket[1].MealName != "Salad" {
		t.Errorf("unexpected bucket: %+v", bucket)
	}
}

func TestNutritionService_LogMeal_DefaultName(t *testing.T) {
	svc, _ := newNutritionFixture(t)

	entry, err := svc.LogMeal(context.Background(), "alice", meal("2024-05-01", "  ", 100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.MealName != "Meal" {
		t.Errorf("expected default meal name, got %q", entry.MealName)
	}
}

func TestNutritionService_LogMeal_Validation(t *testing.T) {
	svc, _ := newNutritionFixture(t)
	ctx := context.Background()

	if _, err := svc.LogMeal(ctx, "alice", ports.LogMealInput{Date: "2024-05-01"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("missing nutrition: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.LogMeal(ctx, "alice", meal("", "Oats", 1)); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("missing date: expected ErrInvalidInput, got %v", err)
	}
}

func TestNutritionService_ListLogs_Range(t *testing.T) {
	svc, _ := newNutritionFixture(t)
	ctx := context.Background()
	for _, d := range []string{"2024-04-30", "2024-05-01", "2024-05-03", "2024-05-04"} {
		_, _ = svc.LogMeal(ctx, "alice", meal(d, "x", 1))
	}

	got, err := svc.ListLogs(ctx, "alice", "2024-05-01", "2024-05-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 buckets, got %d: %v", len(got), got)
	}
	if _, ok := got["2024-05-01"]; !ok {
		t.Error("start bound must be inclusive")
	}
	if _, ok := got["2024-05-03"]; !ok {
		t.Error("end bound must be inclusive")
	}

	// A single bound is ignored.
	all, _ := svc.ListLogs(ctx, "alice", "2024-05-01", "")
	if len(all) != 4 {
		t.Errorf("expected all 4 buckets with one bound, got %d", len(all))
	}
}

func TestNutritionService_ListLogs_EmptyAccount(t *testing.T) {
	svc, _ := newNutritionFixture(t)

	got, err := svc.ListLogs(context.Background(), "alice", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil map, got %v", got)
	}
}

func TestNutritionService_DeleteLog_DropsEmptyDate(t *testing.T) {
	svc, repo := newNutritionFixture(t)
	ctx := context.Background()
	entry, _ := svc.LogMeal(ctx, "alice", meal("2024-05-01", "Oats", 300))

	if err := svc.DeleteLog(ctx, "alice", "2024-05-01", entry.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := repo.accounts["alice"].NutritionLogs["2024-05-01"]; ok {
		t.Error("date key should be removed once its last entry is deleted")
	}
}

func TestNutritionService_DeleteLog_KeepsOtherEntries(t *testing.T) {
	svc, repo := newNutritionFixture(t)
	ctx := context.Background()
	a, _ := svc.LogMeal(ctx, "alice", meal("2024-05-01", "Oats", 300))
	_, _ = svc.LogMeal(ctx, "alice", meal("2024-05-01", "Salad", 200))

	_ = svc.DeleteLog(ctx, "alice", "2024-05-01", a.ID)

	bucket := repo.accounts["alice"].NutritionLogs["2024-05-01"]
	if len(bucket) != 1 || bucket[0].MealName != "Salad" {
		t.Errorf("unexpected bucket after delete: %+v", bucket)
	}
}

func TestNutritionService_DeleteLog_UnknownDate(t *testing.T) {
	svc, _ := newNutritionFixture(t)

	err := svc.DeleteLog(context.Background(), "alice", "1999-01-01", "nope")
	if !errors.Is(err, domain.ErrLogNotFound) {
		t.Errorf("expected ErrLogNotFound, got %v", err)
	}
}

func TestNutritionService_Goals(t *testing.T) {
	svc, _ := newNutritionFixture(t)
	ctx := context.Background()

	goals, err := svc.GetGoals(ctx, "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if goals["calories"] != 2000 || goals["vitaminB12"] != 2.4 {
		t.Errorf("expected defaults, got %v", goals)
	}

	saved, err := svc.SetGoals(ctx, "alice", domain.NutritionGoals{"calories": 1800})
	if err != nil {
		t.Fatalf("set goals: %v", err)
	}
	if saved["calories"] != 1800 {
		t.Errorf("expected echoed goals, got %v", saved)
	}
	goals, _ = svc.GetGoals(ctx, "alice")
	if len(goals) != 1 || goals["calories"] != 1800 {
		t.Errorf("stored goals should replace defaults, got %v", goals)
	}

	if _, err := svc.SetGoals(ctx, "alice", nil); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("nil goals: expected ErrInvalidInput, got %v", err)
	}
}
