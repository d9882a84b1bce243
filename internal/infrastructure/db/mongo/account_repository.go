package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/savefarm/savefarm/internal/core/domain"
)

// maxUpdateAttempts bounds the optimistic retry loop in Update.
const maxUpdateAttempts = 5

var errUpdateConflict = errors.New("account modified concurrently")

// accountDocument stores an account under its username with a version used
// for compare-and-swap updates.
type accountDocument struct {
	domain.Account `bson:",inline"`
	Version        int64 `bson:"version"`
}

type AccountRepository struct {
	col *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{col: db.Collection(CollectionAccounts)}
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, accountDocument{Account: *account})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUsernameTaken
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (r *AccountRepository) Get(ctx context.Context, username string) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	doc, err := r.find(ctx, username)
	if err != nil {
		return nil, err
	}
	return &doc.Account, nil
}

// Update reads the account, applies fn and replaces the document only if no
// other writer bumped its version in between; conflicts are retried.
func (r *AccountRepository) Update(ctx context.Context, username string, fn func(*domain.Account) error) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		doc, err := r.find(ctx, username)
		if err != nil {
			return err
		}
		working := doc.Account.Clone()
		if err := fn(working); err != nil {
			return err
		}
		working.Username = username

		res, err := r.col.ReplaceOne(ctx,
			bson.M{"_id": username, "version": doc.Version},
			accountDocument{Account: *working, Version: doc.Version + 1},
		)
		if err != nil {
			return fmt.Errorf("replace account: %w", err)
		}
		if res.MatchedCount == 1 {
			return nil
		}
	}
	return fmt.Errorf("update %s: %w", username, errUpdateConflict)
}

func (r *AccountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find accounts: %w", err)
	}
	defer cur.Close(ctx)

	var docs []accountDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode accounts: %w", err)
	}
	out := make([]*domain.Account, 0, len(docs))
	for i := range docs {
		out = append(out, &docs[i].Account)
	}
	return out, nil
}

func (r *AccountRepository) find(ctx context.Context, username string) (*accountDocument, error) {
	var doc accountDocument
	err := r.col.FindOne(ctx, bson.M{"_id": username}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return &doc, nil
}
