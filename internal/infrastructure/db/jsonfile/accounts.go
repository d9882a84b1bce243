package jsonfile

import (
	"context"
	"sort"

	"github.com/savefarm/savefarm/internal/core/domain"
)

// usersFile is the on-disk shape of users.json. Accounts are keyed by
// username; the key is not repeated inside the record.
type usersFile struct {
	Users map[string]*domain.Account `json:"users"`
}

func newUsersFile() *usersFile {
	return &usersFile{Users: make(map[string]*domain.Account)}
}

// AccountRepository implements ports.AccountRepository over users.json.
type AccountRepository struct {
	doc *Document[usersFile]
}

func NewAccountRepository(doc *Document[usersFile]) *AccountRepository {
	return &AccountRepository{doc: doc}
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	return r.doc.Update(ctx, func(f *usersFile) error {
		if f.Users == nil {
			f.Users = make(map[string]*domain.Account)
		}
		if _, ok := f.Users[account.Username]; ok {
			return Unchanged(domain.ErrUsernameTaken)
		}
		f.Users[account.Username] = account.Clone()
		return nil
	})
}

func (r *AccountRepository) Get(ctx context.Context, username string) (*domain.Account, error) {
	var out *domain.Account
	err := r.doc.View(ctx, func(f *usersFile) error {
		a, ok := f.Users[username]
		if !ok || a == nil {
			return domain.ErrAccountNotFound
		}
		out = a.Clone()
		out.Username = username
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *AccountRepository) Update(ctx context.Context, username string, fn func(*domain.Account) error) error {
	return r.doc.Update(ctx, func(f *usersFile) error {
		a, ok := f.Users[username]
		if !ok || a == nil {
			return Unchanged(domain.ErrAccountNotFound)
		}
		working := a.Clone()
		working.Username = username
		if err := fn(working); err != nil {
			return Unchanged(err)
		}
		f.Users[username] = working
		return nil
	})
}

// List returns every account ordered by username.
func (r *AccountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	var out []*domain.Account
	err := r.doc.View(ctx, func(f *usersFile) error {
		out = make([]*domain.Account, 0, len(f.Users))
		for username, a := range f.Users {
			if a == nil {
				continue
			}
			c := a.Clone()
			c.Username = username
			out = append(out, c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}
