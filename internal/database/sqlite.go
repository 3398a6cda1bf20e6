package database

import (
	"database/sql"
	"strings"
	"sync"

	sqlite3 "github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// sqliteDriver is go-sqlite3 with LOWER replaced by a Unicode-aware fold.
// The built-in only folds ASCII, so LOWER('Ágora') stayed 'Ágora'.
const sqliteDriver = "sqlite3_universo"

var registerSQLite sync.Once

func sqliteDialector(dsn string) gorm.Dialector {
	registerSQLite.Do(func() {
		sql.Register(sqliteDriver, &sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				return conn.RegisterFunc("lower", foldLower, true)
			},
		})
	})
	return &sqlite.Dialector{DriverName: sqliteDriver, DSN: dsn}
}

// foldLower lowercases text the way strings.ToLower does. Other values,
// NULL included, pass through.
func foldLower(v interface{}) interface{} {
	switch s := v.(type) {
	case string:
		return strings.ToLower(s)
	case []byte:
		return strings.ToLower(string(s))
	}
	return v
}
