package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iho/societyledger/internal/domain"
)

// BillRepository implements usecase.BillRepository.
type BillRepository struct {
	provider CollectionProvider
}

// NewBillRepository creates a new BillRepository.
func NewBillRepository(provider CollectionProvider) *BillRepository {
	return &BillRepository{provider: provider}
}

// Create inserts a bill definition. Bill numbers are unique per society.
func (r *BillRepository) Create(ctx context.Context, bill *domain.Bill) error {
	doc, err := newBillDoc(bill)
	if err != nil {
		return err
	}

	_, err = r.provider.Collection(BillsCollection).InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateBill, bill.BillNumber)
	}
	return mapError(err)
}

// Get returns one bill definition.
func (r *BillRepository) Get(ctx context.Context, society, billNumber string) (*domain.Bill, error) {
	res := r.provider.Collection(BillsCollection).FindOne(ctx, bson.M{"_id": billID(society, billNumber)})
	if err := res.Err(); err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrBillNotFound, billNumber)
		}
		return nil, mapError(err)
	}

	var doc billDoc
	if err := res.Decode(&doc); err != nil {
		return nil, malformed(BillsCollection, err)
	}
	return doc.toDomain()
}

// ListBySociety returns every bill of a society ordered by start date.
func (r *BillRepository) ListBySociety(ctx context.Context, society string) ([]*domain.Bill, error) {
	opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}, {Key: "bill_number", Value: 1}})

	cursor, err := r.provider.Collection(BillsCollection).Find(ctx, bson.M{"society": society}, opts)
	if err != nil {
		return nil, mapError(err)
	}
	defer cursor.Close(ctx)

	bills := make([]*domain.Bill, 0)
	for cursor.Next(ctx) {
		var doc billDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, malformed(BillsCollection, err)
		}
		bill, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		bills = append(bills, bill)
	}
	if err := cursor.Err(); err != nil {
		return nil, mapError(err)
	}

	return bills, nil
}
