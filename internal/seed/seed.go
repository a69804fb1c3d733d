// Package seed fills an empty database with the dev data set.
package seed

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"bibler-backend/internal/catalog"
	"bibler-backend/internal/catalog/books"
	"bibler-backend/internal/catalog/borrowers"
	"bibler-backend/internal/catalog/categories"
	"bibler-backend/internal/circulation/ledger"
	"bibler-backend/internal/circulation/workflow"
	"bibler-backend/internal/platform/clock"
	"bibler-backend/internal/platform/db"
)

func str(s string) sql.NullString { return sql.NullString{String: s, Valid: true} }

var Categories = []categories.Category{
	{Name: "Fantasy", Color: "#7b1fa2"},
	{Name: "Sachbuch", Color: "#00796b"},
	{Name: "Krimi", Color: "#c62828"},
	{Name: "Jugendbuch", Color: "#f9a825"},
}

var Borrowers = []borrowers.Borrower{
	{Key: 0, Firstname: "Lukas", Lastname: "Schmidt", Classname: str("5c")},
	{Key: 1, Firstname: "Alice", Lastname: "Schmidt", Classname: str("Lehrer*in")},
	{Key: 2, Firstname: "Randolf", Lastname: "Ravenclaw", Classname: str("3a")},
}

var Books = []books.Book{
	{Key: 0, Title: "Sabriel", Author: "Garth Nix", Publisher: "Carlsen", Number: 1, Shorthand: "Car", Category: "Fantasy", ISBN: str("3-551-58128-2")},
	{Key: 1, Title: "Die granulare Gesellschaft", Author: "Christoph Kucklick", Publisher: "Ullstein", Number: 2, Shorthand: "Ull", Category: "Sachbuch", ISBN: str("978-3-548-37625-7")},
	{Key: 2, Title: "Bartimäus Die Pforte des Magiers", Author: "Jonathan Stroud", Publisher: "cbj", Number: 3, Shorthand: "cbj", Category: "Fantasy", ISBN: str("978-3-570-12777-3")},
	{Key: 3, Title: "Der Pfad der Winde", Author: "Brandon Sanderson", Publisher: "Heyne", Number: 7, Shorthand: "Hey", Category: "Fantasy", ISBN: str("978-3-453-26768-8")},
	{Key: 4, Title: "Eragon Der Auftrag des Ältesten", Author: "Christopher Paolini", Publisher: "cbj", Number: 4, Shorthand: "cbj", Category: "Fantasy", ISBN: str("978-3-570-12804-6")},
	{Key: 5, Title: "Lirael", Author: "Garth Nix", Publisher: "Carlsen", Number: 5, Shorthand: "Car", Category: "Fantasy", ISBN: str("3-551-58129-2")},
	{Key: 6, Title: "Abhorsen", Author: "Garth Nix", Publisher: "Carlsen", Number: 6, Shorthand: "Car", Category: "Fantasy", ISBN: str("3-551-58130-2")},
}

// Borrows are (user, book) pairs checked out through the workflow.
var Borrows = [][2]int64{{1, 1}, {2, 2}, {2, 3}, {2, 4}, {1, 5}}

// overdue: Abhorsen went to Randolf five weeks ago and was due two weeks ago.
const overdueBook, overdueBorrower = 6, 2

// Run seeds conn unless it already holds books. It reports whether anything was written.
func Run(ctx context.Context, conn *sql.DB, driver string, clk clock.Clock) (bool, error) {
	n, err := books.NewStore(conn).Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		log.Printf("[INFO] seed: %d books present, skipping", n)
		return false, nil
	}

	today := clock.Today(clk)
	err = db.RunInTx(ctx, conn, nil, func(ctx context.Context, tx db.DBTX) error {
		if driver == db.DriverMySQL {
			// key 0 を自動採番させない
			if _, err := tx.ExecContext(ctx, `SET SESSION sql_mode = CONCAT(@@SESSION.sql_mode, ',NO_AUTO_VALUE_ON_ZERO')`); err != nil {
				return err
			}
		}
		cats := categories.NewStore(tx)
		for _, c := range Categories {
			if err := cats.Create(ctx, c); err != nil {
				return fmt.Errorf("category %s: %w", c.Name, err)
			}
		}
		us := borrowers.NewStore(tx)
		for _, u := range Borrowers {
			if err := us.Restore(ctx, u); err != nil {
				return fmt.Errorf("user %d: %w", u.Key, err)
			}
		}
		bs := books.NewStore(tx)
		for _, b := range Books {
			if err := bs.Restore(ctx, b); err != nil {
				return fmt.Errorf("book %d: %w", b.Key, err)
			}
		}
		_, err := ledger.NewStore(tx, driver).Insert(ctx, &ledger.Loan{
			BookKey:     overdueBook,
			BorrowerKey: overdueBorrower,
			Start:       today.AddDate(0, 0, -35),
			Expiration:  today.AddDate(0, 0, -14),
		})
		return err
	})
	if err != nil {
		return false, fmt.Errorf("seed: %w", err)
	}

	wf := workflow.NewService(conn, driver, catalog.Lookup{}).WithClock(clk)
	for _, p := range Borrows {
		res, err := wf.Borrow(ctx, p[0], p[1], workflow.DefaultBorrowWeeks)
		if err != nil {
			return false, fmt.Errorf("seed borrow %d/%d: %w", p[0], p[1], err)
		}
		if !res.Status.Succeeded() {
			log.Printf("[WARN] seed borrow %d/%d: %s", p[0], p[1], res.Status)
		}
	}
	log.Printf("[INFO] seed: %d categories, %d users, %d books, %d loans",
		len(Categories), len(Borrowers), len(Books), len(Borrows)+1)
	return true, nil
}
