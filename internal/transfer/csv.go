// Package transfer moves books and borrowers in and out as CSV files.
//
// Exports are ISO-8859-1. Imports accept UTF-8 (with or without BOM),
// UTF-16 with BOM and Windows-1252.
package transfer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"

	"bibler-backend/internal/catalog/books"
	"bibler-backend/internal/catalog/borrowers"
)

var (
	BookHeader     = []string{"title", "author", "publisher", "shorthand", "number", "category", "isbn"}
	BorrowerHeader = []string{"firstname", "lastname", "classname"}
)

// writeLatin1 は Latin-1 にない文字を '?' に置き換える
func writeLatin1(w io.Writer, header []string, rows [][]string) error {
	outside := runes.Map(func(r rune) rune {
		if r > 0xff {
			return '?'
		}
		return r
	})
	tw := transform.NewWriter(w, transform.Chain(outside, charmap.ISO8859_1.NewEncoder()))
	cw := csv.NewWriter(tw)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return tw.Close()
}

func WriteBooks(w io.Writer, bs []books.Book) error {
	rows := make([][]string, 0, len(bs))
	for _, b := range bs {
		rows = append(rows, []string{b.Title, b.Author, b.Publisher, b.Shorthand, strconv.FormatInt(b.Number, 10), b.Category, b.ISBN.String})
	}
	return writeLatin1(w, BookHeader, rows)
}

func WriteBorrowers(w io.Writer, us []borrowers.Borrower) error {
	rows := make([][]string, 0, len(us))
	for _, u := range us {
		rows = append(rows, []string{u.Firstname, u.Lastname, u.Classname.String})
	}
	return writeLatin1(w, BorrowerHeader, rows)
}

// Decode returns raw as UTF-8. A BOM decides first; otherwise valid UTF-8
// is taken as is and anything else is read as Windows-1252.
func Decode(raw []byte) io.Reader {
	fallback := encoding.Encoding(unicode.UTF8)
	if !utf8.Valid(raw) {
		fallback = charmap.Windows1252
	}
	return transform.NewReader(bytes.NewReader(raw), unicode.BOMOverride(fallback.NewDecoder()))
}

// table is a header-indexed view over CSV records.
type table struct {
	cols map[string]int
	rows [][]string
}

func readTable(r io.Reader, required []string) (*table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("csv is empty")
	}
	t := &table{cols: make(map[string]int, len(recs[0])), rows: recs[1:]}
	for i, name := range recs[0] {
		t.cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	var missing []string
	for _, name := range required {
		if _, ok := t.cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("csv lacks columns: %s", strings.Join(missing, ", "))
	}
	return t, nil
}

func (t *table) get(row []string, name string) string {
	i, ok := t.cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// complete reports whether every name has a non-empty value in row.
func (t *table) complete(row []string, names []string) bool {
	for _, n := range names {
		if t.get(row, n) == "" {
			return false
		}
	}
	return true
}

var bookRequired = []string{"title", "author", "publisher", "number", "shorthand", "category"}

// ParseBooks drops rows missing a required field or with an unreadable
// number. Of rows sharing a number only the first is kept.
func ParseBooks(r io.Reader) ([]books.Book, error) {
	t, err := readTable(r, bookRequired)
	if err != nil {
		return nil, err
	}
	seen := make(map[int64]bool, len(t.rows))
	out := make([]books.Book, 0, len(t.rows))
	for _, row := range t.rows {
		if !t.complete(row, bookRequired) {
			continue
		}
		n, ok := parseNumber(t.get(row, "number"))
		if !ok || seen[n] {
			continue
		}
		seen[n] = true
		b := books.Book{
			Title:     t.get(row, "title"),
			Author:    t.get(row, "author"),
			Publisher: t.get(row, "publisher"),
			Number:    n,
			Shorthand: t.get(row, "shorthand"),
			Category:  t.get(row, "category"),
		}
		if isbn := t.get(row, "isbn"); isbn != "" {
			b.ISBN.String, b.ISBN.Valid = isbn, true
		}
		out = append(out, b)
	}
	return out, nil
}

// spreadsheets like to write "12.0"
func parseNumber(s string) (int64, bool) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int64(f)) {
		return 0, false
	}
	return int64(f), true
}

var borrowerRequired = []string{"firstname", "lastname", "classname"}

func ParseBorrowers(r io.Reader) ([]borrowers.Borrower, error) {
	t, err := readTable(r, borrowerRequired)
	if err != nil {
		return nil, err
	}
	out := make([]borrowers.Borrower, 0, len(t.rows))
	for _, row := range t.rows {
		if !t.complete(row, borrowerRequired) {
			continue
		}
		u := borrowers.Borrower{Firstname: t.get(row, "firstname"), Lastname: t.get(row, "lastname")}
		u.Classname.String, u.Classname.Valid = t.get(row, "classname"), true
		out = append(out, u)
	}
	return out, nil
}
