package domain

import "time"

// Collections that publish change events.
const (
	CollectionTransactions = "transactions"
	CollectionFlats        = "flats"
	CollectionBills        = "bills"
)

// Change operations
const (
	ChangeCreated = "created"
	ChangeUpdated = "updated"
	ChangeDeleted = "deleted"
)

// ChangeEvent announces that a document in a collection changed.
type ChangeEvent struct {
	Collection  string       `json:"collection"`
	Operation   string       `json:"operation"`
	Society     string       `json:"society"`
	DocumentID  string       `json:"document_id"`
	Transaction *Transaction `json:"transaction,omitempty"`
	OccurredAt  time.Time    `json:"occurred_at"`
}
