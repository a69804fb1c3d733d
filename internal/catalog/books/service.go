package books

import (
	"context"
	"database/sql"
	"log"
	"strings"

	"bibler-backend/internal/platform/apierr"
)

// LoanReferences counts loans (open or closed) pointing at a book.
type LoanReferences interface {
	CountForBook(ctx context.Context, bookKey int64) (int64, error)
}

// BorrowedLister lists the books a borrower currently holds.
type BorrowedLister interface {
	BooksForBorrower(ctx context.Context, borrowerKey int64) ([]Book, error)
}

type Service struct {
	store    *Store
	loans    LoanReferences
	borrowed BorrowedLister
}

func NewService(conn *sql.DB, loans LoanReferences, borrowed BorrowedLister) *Service {
	return &Service{store: NewStore(conn), loans: loans, borrowed: borrowed}
}

// GET /books?user_key=
func (s *Service) List(ctx context.Context, userKey *int64, category string) ([]BookResponse, error) {
	if userKey != nil {
		bs, err := s.borrowed.BooksForBorrower(ctx, *userKey)
		if err != nil {
			return nil, err
		}
		return ToResponses(bs), nil
	}
	bs, err := s.store.List(ctx, category)
	if err != nil {
		return nil, err
	}
	return ToResponses(bs), nil
}

// GET /book/:book_key
func (s *Service) Get(ctx context.Context, key int64) (BookResponse, error) {
	b, err := s.store.Get(ctx, key)
	if err != nil {
		return BookResponse{}, err
	}
	return ToResponse(*b), nil
}

// PUT /book
func (s *Service) Create(ctx context.Context, in BookRequest) (Status, int64, error) {
	b, err := normalize(in.toModel())
	if err != nil {
		return StatusNotCreated, 0, err
	}
	key, err := s.store.Create(ctx, b)
	if err != nil {
		if apierr.CodeOf(err) == apierr.CodeConflict {
			log.Printf("[WARN] book not created: number=%d: %v", b.Number, err)
			return StatusNotCreated, 0, nil
		}
		return StatusNotCreated, 0, err
	}
	log.Printf("[INFO] book created: key=%d number=%d", key, b.Number)
	return StatusCreated, key, nil
}

// PATCH /book
func (s *Service) Update(ctx context.Context, in BookRequest) (Status, error) {
	b, err := normalize(in.toModel())
	if err != nil {
		return StatusNotUpdated, err
	}
	if err := s.store.Update(ctx, b); err != nil {
		switch apierr.CodeOf(err) {
		case apierr.CodeConflict, apierr.CodeNotFound:
			log.Printf("[WARN] book not updated: key=%d: %v", b.Key, err)
			return StatusNotUpdated, nil
		}
		return StatusNotUpdated, err
	}
	return StatusUpdated, nil
}

// DELETE /book/:book_key
// Books with any loan history are kept.
func (s *Service) Delete(ctx context.Context, key int64) (Status, error) {
	n, err := s.loans.CountForBook(ctx, key)
	if err != nil {
		return StatusNotDeleted, err
	}
	if n > 0 {
		return StatusStillBorrowed, nil
	}
	if err := s.store.Delete(ctx, key); err != nil {
		switch apierr.CodeOf(err) {
		case apierr.CodeConflict:
			// 直前に貸出が作られた
			return StatusStillBorrowed, nil
		case apierr.CodeNotFound:
			return StatusNotDeleted, nil
		}
		return StatusNotDeleted, err
	}
	log.Printf("[INFO] book deleted: key=%d", key)
	return StatusDeleted, nil
}

func normalize(b Book) (Book, error) {
	b.Title = strings.TrimSpace(b.Title)
	b.Author = strings.TrimSpace(b.Author)
	b.Publisher = strings.TrimSpace(b.Publisher)
	b.Shorthand = strings.TrimSpace(b.Shorthand)
	b.Category = strings.TrimSpace(b.Category)
	switch {
	case b.Title == "":
		return b, apierr.ErrInvalid("title is required")
	case b.Author == "":
		return b, apierr.ErrInvalid("author is required")
	case b.Publisher == "":
		return b, apierr.ErrInvalid("publisher is required")
	case b.Shorthand == "":
		return b, apierr.ErrInvalid("shorthand is required")
	case b.Category == "":
		return b, apierr.ErrInvalid("category is required")
	case b.Number <= 0:
		return b, apierr.ErrInvalid("number must be > 0")
	}
	return b, nil
}
