package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iho/societyledger/internal/domain"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	provider CollectionProvider
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(provider CollectionProvider) *TransactionRepository {
	return &TransactionRepository{provider: provider}
}

// Create inserts a transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	doc, err := newTransactionDoc(tx)
	if err != nil {
		return err
	}

	_, err = r.provider.Collection(TransactionsCollection).InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: transaction %s already recorded", domain.ErrValidation, tx.ID)
	}
	return mapError(err)
}

// ListBySociety returns every transaction of a society ordered by voucher date.
// A document that cannot be decoded fails the whole read with ErrMalformedRecord.
func (r *TransactionRepository) ListBySociety(ctx context.Context, society string) ([]*domain.Transaction, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "created_at", Value: 1}})

	cursor, err := r.provider.Collection(TransactionsCollection).Find(ctx, bson.M{"society": society}, opts)
	if err != nil {
		return nil, mapError(err)
	}
	defer cursor.Close(ctx)

	txs := make([]*domain.Transaction, 0)
	for cursor.Next(ctx) {
		var doc transactionDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, malformed(TransactionsCollection, err)
		}
		tx, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	if err := cursor.Err(); err != nil {
		return nil, mapError(err)
	}

	return txs, nil
}
