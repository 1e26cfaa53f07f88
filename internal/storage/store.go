package storage

import "context"

// Transactor runs fn inside one transaction carried by the context.
// Nested calls join the outer transaction.
type Transactor interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Store is everything the ingestion service needs from persistence
type Store interface {
	IdeaStorage
	CategoryStorage
	TagStorage
	Transactor
}
