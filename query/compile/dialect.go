// Package compile turns dialect-neutral statements into executable SQL
// plus a positionally aligned parameter list.
package compile

import (
	"fmt"
	"strings"
)

// Dialect is the closed set of supported backends. Compilation switches
// exhaustively over this enum, so a feature/dialect mismatch is decided
// up front and reported as *UnsupportedFeatureError instead of leaking
// half-built SQL.
type Dialect int

const (
	Postgres Dialect = iota
	MySQL
	SQLite
	// Cockroach speaks the Postgres wire dialect plus multi-region
	// extensions (LOCALITY, AS OF SYSTEM TIME).
	Cockroach
)

// String returns the dialect name.
func (d Dialect) String() string {
	switch d {
	case Postgres:
		return "postgres"
	case MySQL:
		return "mysql"
	case SQLite:
		return "sqlite"
	case Cockroach:
		return "cockroach"
	default:
		return "unknown"
	}
}

// Placeholder returns the parameter placeholder for the given 1-based
// index. Postgres and Cockroach use $N; MySQL and SQLite use ?.
func (d Dialect) Placeholder(index int) string {
	switch d {
	case Postgres, Cockroach:
		return fmt.Sprintf("$%d", index)
	default:
		return "?"
	}
}

// QuoteIdent quotes an identifier, escaping embedded quote characters by
// doubling them. Schema-qualified names are quoted per part.
func (d Dialect) QuoteIdent(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = d.quotePart(p)
	}
	return strings.Join(parts, ".")
}

func (d Dialect) quotePart(name string) string {
	if d == MySQL {
		return "`" + strings.ReplaceAll(name, "`", "``") + "`"
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// BoolLiteral returns the SQL literal for a boolean.
func (d Dialect) BoolLiteral(v bool) string {
	switch d {
	case MySQL, SQLite:
		if v {
			return "1"
		}
		return "0"
	default:
		if v {
			return "TRUE"
		}
		return "FALSE"
	}
}

// NowFunc returns the current-timestamp function.
func (d Dialect) NowFunc() string {
	if d == SQLite {
		return "datetime('now')"
	}
	return "NOW()"
}

// SupportsReturning reports RETURNING support on DML.
func (d Dialect) SupportsReturning() bool {
	return d != MySQL
}

// SupportsMaterializedViews reports materialized view support.
func (d Dialect) SupportsMaterializedViews() bool {
	return d == Postgres || d == Cockroach
}

// SupportsLocality reports multi-region table locality support.
func (d Dialect) SupportsLocality() bool {
	return d == Cockroach
}

// SupportsAsOfSystemTime reports historical-read support.
func (d Dialect) SupportsAsOfSystemTime() bool {
	return d == Cockroach
}

// SupportsSchemas reports CREATE/DROP SCHEMA support.
func (d Dialect) SupportsSchemas() bool {
	return d != SQLite
}

// SupportsSequences reports CREATE/DROP SEQUENCE support.
func (d Dialect) SupportsSequences() bool {
	return d == Postgres || d == Cockroach
}

// SupportsEnumTypes reports CREATE TYPE ... AS ENUM support.
func (d Dialect) SupportsEnumTypes() bool {
	return d == Postgres || d == Cockroach
}

// SupportsRoles reports CREATE ROLE support.
func (d Dialect) SupportsRoles() bool {
	return d != SQLite
}

// SupportsCreateDatabase reports CREATE DATABASE support. SQLite
// databases are files; there is nothing to create server-side.
func (d Dialect) SupportsCreateDatabase() bool {
	return d != SQLite
}
