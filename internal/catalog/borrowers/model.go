package borrowers

import "database/sql"

type Borrower struct {
	Key       int64          `db:"borrower_id"`
	Firstname string         `db:"firstname"`
	Lastname  string         `db:"lastname"`
	Classname sql.NullString `db:"classname"`
}

const Columns = `u.borrower_id, u.firstname, u.lastname, u.classname`
