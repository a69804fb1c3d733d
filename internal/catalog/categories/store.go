package categories

import (
	"context"

	"bibler-backend/internal/platform/apierr"
	"bibler-backend/internal/platform/db"
)

type Store struct{ db db.DBTX }

func NewStore(q db.DBTX) *Store { return &Store{db: q} }

// GET /category
func (s *Store) List(ctx context.Context) ([]Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, color FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make([]Category, 0, 16)
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.Name, &c.Color); err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Store) Create(ctx context.Context, c Category) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO categories (name, color) VALUES (?, ?)`, c.Name, c.Color)
	if db.IsDuplicateKey(err) {
		return apierr.ErrConflict("category already exists")
	}
	return err
}

// Ensure creates name with an empty color unless it already exists.
func (s *Store) Ensure(ctx context.Context, name string) error {
	err := s.Create(ctx, Category{Name: name})
	if apierr.CodeOf(err) == apierr.CodeConflict {
		return nil
	}
	return err
}
