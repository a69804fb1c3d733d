package db

import (
	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
)

// Builder returns a goqu dialect for the configured driver.
// Queries built with it must be rendered with Prepared(true) so values stay bound.
func Builder(driver string) goqu.DialectWrapper {
	if driver == DriverSQLite {
		return goqu.Dialect("sqlite3")
	}
	return goqu.Dialect("mysql")
}
