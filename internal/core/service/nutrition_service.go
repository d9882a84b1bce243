package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/savefarm/savefarm/internal/api/metrics"
	"github.com/savefarm/savefarm/internal/core/domain"
	"github.com/savefarm/savefarm/internal/core/ports"
)

const defaultMealName = "Meal"

// NutritionService manages the per-account meal log and daily goals.
type NutritionService struct {
	accounts ports.AccountRepository
	log      zerolog.Logger
	now      func() time.Time
}

func NewNutritionService(accounts ports.AccountRepository, log zerolog.Logger) *NutritionService {
	return &NutritionService{
		accounts: accounts,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *NutritionService) LogMeal(ctx context.Context, username string, in ports.LogMealInput) (*domain.NutritionLog, error) {
	if in.Date == "" || in.Nutrition == nil {
		return nil, domain.Invalid("date and nutrition data required")
	}
	name := strings.TrimSpace(in.MealName)
	if name == "" {
		name = defaultMealName
	}

	entry := domain.NutritionLog{
		ID:        uuid.NewString(),
		MealName:  name,
		Nutrition: *in.Nutrition,
		Timestamp: s.now(),
	}
	err := s.update(ctx, username, func(a *domain.Account) error {
		if a.NutritionLogs == nil {
			a.NutritionLogs = make(domain.NutritionLogs)
		}
		a.NutritionLogs[in.Date] = append(a.NutritionLogs[in.Date], entry)
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.MealsLoggedTotal.Inc()
	s.log.Debug().Str("username", username).Str("date", in.Date).Str("log_id", entry.ID).Msg("meal logged")
	return &entry, nil
}

// ListLogs filters by date only when both bounds are given.
func (s *NutritionService) ListLogs(ctx context.Context, username, startDate, endDate string) (domain.NutritionLogs, error) {
	account, err := s.account(ctx, username)
	if err != nil {
		return nil, err
	}
	logs := account.NutritionLogs
	if logs == nil {
		logs = domain.NutritionLogs{}
	}
	if startDate != "" && endDate != "" {
		return logs.Between(startDate, endDate), nil
	}
	return logs, nil
}

func (s *NutritionService) DeleteLog(ctx context.Context, username, date, logID string) error {
	return s.update(ctx, username, func(a *domain.Account) error {
		if !a.NutritionLogs.Remove(date, logID) {
			return domain.ErrLogNotFound
		}
		return nil
	})
}

func (s *NutritionService) GetGoals(ctx context.Context, username string) (domain.NutritionGoals, error) {
	account, err := s.account(ctx, username)
	if err != nil {
		return nil, err
	}
	if account.NutritionGoals == nil {
		return domain.DefaultNutritionGoals(), nil
	}
	return account.NutritionGoals, nil
}

func (s *NutritionService) SetGoals(ctx context.Context, username string, goals domain.NutritionGoals) (domain.NutritionGoals, error) {
	if goals == nil {
		return nil, domain.Invalid("goals data required")
	}
	err := s.update(ctx, username, func(a *domain.Account) error {
		a.NutritionGoals = goals
		return nil
	})
	if err != nil {
		return nil, err
	}
	return goals, nil
}

func (s *NutritionService) account(ctx context.Context, username string) (*domain.Account, error) {
	account, err := s.accounts.Get(ctx, username)
	if err != nil {
		return nil, sessionOwnerErr(err)
	}
	return account, nil
}

func (s *NutritionService) update(ctx context.Context, username string, fn func(*domain.Account) error) error {
	return sessionOwnerErr(s.accounts.Update(ctx, username, fn))
}
