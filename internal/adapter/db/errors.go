package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"taskmanager/internal/core/domain"
)

const mysqlDuplicateEntry = 1062

func isUniqueViolation(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDuplicateEntry
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		case sqlite3.SQLITE_CONSTRAINT:
			return strings.Contains(sqliteErr.Error(), "UNIQUE")
		}
	}

	return false
}

// nullDate scans DATE columns from either driver: time.Time from MySQL with
// parseTime and from modernc, text otherwise.
type nullDate struct {
	Time  time.Time
	Valid bool
}

func (d *nullDate) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		d.Time, d.Valid = time.Time{}, false
		return nil
	case time.Time:
		d.Time, d.Valid = truncateToDate(v), true
		return nil
	case string:
		return d.parse(v)
	case []byte:
		return d.parse(string(v))
	default:
		return fmt.Errorf("cannot scan %T into date", value)
	}
}

func (d *nullDate) parse(value string) error {
	if len(value) < len(domain.DateLayout) {
		return fmt.Errorf("invalid date %q", value)
	}
	parsed, err := time.Parse(domain.DateLayout, value[:len(domain.DateLayout)])
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", value, err)
	}
	d.Time, d.Valid = parsed, true
	return nil
}

func (d nullDate) ptr() *time.Time {
	if !d.Valid {
		return nil
	}
	value := d.Time
	return &value
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func dateParam(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(domain.DateLayout), Valid: true}
}
