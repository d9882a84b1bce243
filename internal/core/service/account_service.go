package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/savefarm/savefarm/internal/api/metrics"
	"github.com/savefarm/savefarm/internal/core/domain"
	"github.com/savefarm/savefarm/internal/core/impact"
	"github.com/savefarm/savefarm/internal/core/ports"
)

// AccountService implements registration, sessions and the animal tally.
type AccountService struct {
	accounts ports.AccountRepository
	sessions ports.SessionStore
	log      zerolog.Logger
	now      func() time.Time
}

func NewAccountService(accounts ports.AccountRepository, sessions ports.SessionStore, log zerolog.Logger) *AccountService {
	return &AccountService{
		accounts: accounts,
		sessions: sessions,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *AccountService) Register(ctx context.Context, username, password string) (*ports.Session, error) {
	if username == "" || password == "" {
		return nil, domain.Invalid("username and password required")
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	account := &domain.Account{
		Username:     username,
		PasswordHash: hash,
		Animals:      domain.Animals{},
		CreatedAt:    s.now(),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	metrics.AccountsRegisteredTotal.Inc()

	token, err := s.sessions.Create(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("register: create session: %w", err)
	}

	s.log.Info().Str("username", username).Msg("account registered")
	return &ports.Session{Token: token, Username: username}, nil
}

// Login issues a fresh token on every success; earlier tokens stay valid.
func (s *AccountService) Login(ctx context.Context, username, password string) (*ports.Session, error) {
	if username == "" || password == "" {
		return nil, domain.Invalid("username and password required")
	}

	account, err := s.accounts.Get(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	ok, legacy := verifyPassword(account.PasswordHash, password)
	if !ok {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}
	if legacy {
		s.upgradeHash(ctx, username, password)
	}

	token, err := s.sessions.Create(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("login: create session: %w", err)
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	return &ports.Session{Token: token, Username: username}, nil
}

// upgradeHash replaces a legacy hash with argon2id. Failure only costs another
// attempt on the next login.
func (s *AccountService) upgradeHash(ctx context.Context, username, password string) {
	hash, err := hashPassword(password)
	if err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("rehash legacy password failed")
		return
	}
	err = s.accounts.Update(ctx, username, func(a *domain.Account) error {
		a.PasswordHash = hash
		return nil
	})
	if err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("store upgraded password hash failed")
		return
	}
	s.log.Info().Str("username", username).Msg("legacy password hash upgraded")
}

func (s *AccountService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Invalidate(ctx, token)
}

func (s *AccountService) Authenticate(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", domain.ErrUnauthenticated
	}
	return s.sessions.Lookup(ctx, token)
}

func (s *AccountService) GetAnimals(ctx context.Context, username string) (domain.Animals, error) {
	account, err := s.account(ctx, username)
	if err != nil {
		return nil, err
	}
	if account.Animals == nil {
		return domain.Animals{}, nil
	}
	return account.Animals, nil
}

// SetAnimals overwrites the whole tally.
func (s *AccountService) SetAnimals(ctx context.Context, username string, animals domain.Animals) error {
	for kind, v := range animals {
		if v < 0 {
			return domain.Invalid(fmt.Sprintf("animal count for %q must not be negative", kind))
		}
	}
	if animals == nil {
		animals = domain.Animals{}
	}
	return s.update(ctx, username, func(a *domain.Account) error {
		a.Animals = animals
		return nil
	})
}

func (s *AccountService) ResetAnimals(ctx context.Context, username string) error {
	return s.update(ctx, username, func(a *domain.Account) error {
		a.Animals = domain.Animals{}
		return nil
	})
}

// RecordImpact folds the findings of a vegan result into the stored tally and
// returns the new totals.
func (s *AccountService) RecordImpact(ctx context.Context, username string, result impact.Result) (domain.Animals, error) {
	var totals domain.Animals
	err := s.update(ctx, username, func(a *domain.Account) error {
		a.Animals = impact.Tally(a.Animals, result)
		totals = a.Animals
		return nil
	})
	if err != nil {
		return nil, err
	}
	return totals, nil
}

func (s *AccountService) account(ctx context.Context, username string) (*domain.Account, error) {
	account, err := s.accounts.Get(ctx, username)
	if err != nil {
		return nil, sessionOwnerErr(err)
	}
	return account, nil
}

func (s *AccountService) update(ctx context.Context, username string, fn func(*domain.Account) error) error {
	return sessionOwnerErr(s.accounts.Update(ctx, username, fn))
}
