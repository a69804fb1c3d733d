package borrowers

import (
	"context"
	"database/sql"
	"log"
	"strings"

	"bibler-backend/internal/platform/apierr"
)

// LoanReferences counts loans (open or closed) held by a borrower.
type LoanReferences interface {
	CountForBorrower(ctx context.Context, borrowerKey int64) (int64, error)
}

// ActiveLoanCounter maps borrower key to number of open loans.
type ActiveLoanCounter interface {
	ActiveLoanCounts(ctx context.Context) (map[int64]int64, error)
}

type Service struct {
	store  *Store
	loans  LoanReferences
	active ActiveLoanCounter
}

func NewService(conn *sql.DB, loans LoanReferences, active ActiveLoanCounter) *Service {
	return &Service{store: NewStore(conn), loans: loans, active: active}
}

// GET /users
func (s *Service) List(ctx context.Context) ([]UserWithBookCount, error) {
	bs, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.active.ActiveLoanCounts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]UserWithBookCount, 0, len(bs))
	for _, b := range bs {
		out = append(out, UserWithBookCount{UserResponse: ToResponse(b), BorrowedBooks: counts[b.Key]})
	}
	return out, nil
}

// GET /user/:user_key
func (s *Service) Get(ctx context.Context, key int64) (UserResponse, error) {
	b, err := s.store.Get(ctx, key)
	if err != nil {
		return UserResponse{}, err
	}
	return ToResponse(*b), nil
}

// PUT /user
func (s *Service) Create(ctx context.Context, in UserRequest) (Status, int64, error) {
	b, err := normalize(in.toModel())
	if err != nil {
		return StatusNotCreated, 0, err
	}
	key, err := s.store.Create(ctx, b)
	if err != nil {
		if apierr.CodeOf(err) == apierr.CodeConflict {
			log.Printf("[WARN] user not created: %v", err)
			return StatusNotCreated, 0, nil
		}
		return StatusNotCreated, 0, err
	}
	log.Printf("[INFO] user created: key=%d", key)
	return StatusCreated, key, nil
}

// PATCH /user
func (s *Service) Update(ctx context.Context, in UserRequest) (Status, error) {
	b, err := normalize(in.toModel())
	if err != nil {
		return StatusNotUpdated, err
	}
	if err := s.store.Update(ctx, b); err != nil {
		switch apierr.CodeOf(err) {
		case apierr.CodeConflict, apierr.CodeNotFound:
			log.Printf("[WARN] user not updated: key=%d: %v", b.Key, err)
			return StatusNotUpdated, nil
		}
		return StatusNotUpdated, err
	}
	return StatusUpdated, nil
}

// DELETE /user/:user_key
func (s *Service) Delete(ctx context.Context, key int64) (Status, error) {
	n, err := s.loans.CountForBorrower(ctx, key)
	if err != nil {
		return StatusNotDeleted, err
	}
	if n > 0 {
		return StatusStillBorrowing, nil
	}
	if err := s.store.Delete(ctx, key); err != nil {
		switch apierr.CodeOf(err) {
		case apierr.CodeConflict:
			return StatusStillBorrowing, nil
		case apierr.CodeNotFound:
			return StatusNotDeleted, nil
		}
		return StatusNotDeleted, err
	}
	log.Printf("[INFO] user deleted: key=%d", key)
	return StatusDeleted, nil
}

func normalize(b Borrower) (Borrower, error) {
	b.Firstname = strings.TrimSpace(b.Firstname)
	b.Lastname = strings.TrimSpace(b.Lastname)
	if b.Firstname == "" {
		return b, apierr.ErrInvalid("firstname is required")
	}
	if b.Lastname == "" {
		return b, apierr.ErrInvalid("lastname is required")
	}
	return b, nil
}
