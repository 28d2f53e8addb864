package sqlstore

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect selects placeholder syntax and DDL for a database backend.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
)

// DialectFor maps a database/sql driver name to its Dialect.
func DialectFor(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	case "mysql":
		return MySQL, nil
	default:
		return "", fmt.Errorf("sqlstore: unsupported driver %q", driver)
	}
}

// rebind rewrites '?' placeholders into the dialect's form.
func (d Dialect) rebind(query string) string {
	if d != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

func (d Dialect) idColumn() string {
	switch d {
	case Postgres:
		return "id BIGSERIAL PRIMARY KEY"
	case MySQL:
		return "id BIGINT AUTO_INCREMENT PRIMARY KEY"
	default:
		return "id INTEGER PRIMARY KEY AUTOINCREMENT"
	}
}

// fromDual is required by MySQL for a SELECT with WHERE and no table.
func (d Dialect) fromDual() string {
	if d == MySQL {
		return " FROM DUAL"
	}
	return ""
}

// indexable returns a column expression usable in an index. MySQL cannot
// index TEXT without a prefix length.
func (d Dialect) indexable(column string) string {
	if d == MySQL {
		return column + "(191)"
	}
	return column
}
