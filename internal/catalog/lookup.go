// Package catalog answers existence questions about catalog entities on any db handle.
package catalog

import (
	"context"

	"bibler-backend/internal/catalog/books"
	"bibler-backend/internal/catalog/borrowers"
	"bibler-backend/internal/platform/db"
)

// Lookup is bound per call so checks can join the caller's transaction.
type Lookup struct{}

func (Lookup) BookExists(ctx context.Context, q db.DBTX, key int64) (bool, error) {
	return books.NewStore(q).Exists(ctx, key)
}

func (Lookup) BorrowerExists(ctx context.Context, q db.DBTX, key int64) (bool, error) {
	return borrowers.NewStore(q).Exists(ctx, key)
}
