package books

import "database/sql"

// DB行に対応（sqlx スキャン用）
type Book struct {
	Key       int64          `db:"book_id"`
	Title     string         `db:"title"`
	Author    string         `db:"author"`
	Publisher string         `db:"publisher"`
	Number    int64          `db:"number"`
	Shorthand string         `db:"shorthand"`
	Category  string         `db:"category"`
	ISBN      sql.NullString `db:"isbn"`
}

// Columns is the select list matching Book, prefixed for joins.
const Columns = `b.book_id, b.title, b.author, b.publisher, b.number, b.shorthand, b.category, b.isbn`
