package transfer

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"

	"bibler-backend/internal/catalog/books"
	"bibler-backend/internal/catalog/borrowers"
	"bibler-backend/internal/catalog/categories"
	"bibler-backend/internal/platform/apierr"
	"bibler-backend/internal/platform/db"
)

type Service struct {
	db *sql.DB
}

func NewService(conn *sql.DB) *Service { return &Service{db: conn} }

func (s *Service) ExportBooks(ctx context.Context, w io.Writer) error {
	bs, err := books.NewStore(s.db).List(ctx, "")
	if err != nil {
		return err
	}
	return WriteBooks(w, bs)
}

func (s *Service) ExportBorrowers(ctx context.Context, w io.Writer) error {
	us, err := borrowers.NewStore(s.db).List(ctx)
	if err != nil {
		return err
	}
	return WriteBorrowers(w, us)
}

// ImportBooks inserts every usable row in one transaction and returns how
// many were written. Unknown categories are created on the way.
func (s *Service) ImportBooks(ctx context.Context, r io.Reader) (int, error) {
	bs, err := ParseBooks(r)
	if err != nil {
		return 0, apierr.ErrInvalid(err.Error())
	}
	log.Printf("[INFO] importing %d books", len(bs))

	err = db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		cats := categories.NewStore(tx)
		store := books.NewStore(tx)
		ensured := map[string]bool{}
		for _, b := range bs {
			if !ensured[b.Category] {
				if err := cats.Ensure(ctx, b.Category); err != nil {
					return fmt.Errorf("category %q: %w", b.Category, err)
				}
				ensured[b.Category] = true
			}
			if _, err := store.Create(ctx, b); err != nil {
				return fmt.Errorf("book number %d: %w", b.Number, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(bs), nil
}

func (s *Service) ImportBorrowers(ctx context.Context, r io.Reader) (int, error) {
	us, err := ParseBorrowers(r)
	if err != nil {
		return 0, apierr.ErrInvalid(err.Error())
	}
	log.Printf("[INFO] importing %d users", len(us))

	err = db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		store := borrowers.NewStore(tx)
		for _, u := range us {
			if _, err := store.Create(ctx, u); err != nil {
				return fmt.Errorf("user %s %s: %w", u.Firstname, u.Lastname, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(us), nil
}
