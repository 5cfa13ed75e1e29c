// Package dburl resolves database URLs to a dialect, a database/sql
// driver name, and a driver-specific DSN.
package dburl

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Supported database dialects.
const (
	DialectPostgres  = "postgres"
	DialectMySQL     = "mysql"
	DialectSQLite    = "sqlite"
	DialectCockroach = "cockroach"
)

var (
	ErrUnknownDialect = errors.New("unknown database dialect")
	ErrInvalidURL     = errors.New("invalid database URL")
)

// InferDialect returns the dialect based on the URL scheme.
func InferDialect(dbURL string) (string, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "postgres", "postgresql":
		return DialectPostgres, nil
	case "mysql":
		return DialectMySQL, nil
	case "sqlite", "sqlite3":
		return DialectSQLite, nil
	case "cockroach", "cockroachdb", "crdb":
		return DialectCockroach, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownDialect, u.Scheme)
	}
}

// DriverName returns the registered database/sql driver for a dialect.
// CockroachDB speaks the Postgres wire protocol and shares its driver.
func DriverName(dialect string) (string, error) {
	switch dialect {
	case DialectPostgres, DialectCockroach:
		return "pgx", nil
	case DialectMySQL:
		return "mysql", nil
	case DialectSQLite:
		return "sqlite", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownDialect, dialect)
	}
}

// DSN converts a database URL into the form the driver expects.
// Postgres-family drivers take the URL as is (with the scheme normalized
// to postgres). MySQL wants user:pass@tcp(host:port)/db. SQLite wants a
// bare file path.
func DSN(dbURL string) (string, error) {
	dialect, err := InferDialect(dbURL)
	if err != nil {
		return "", err
	}
	u, err := url.Parse(dbURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	switch dialect {
	case DialectPostgres, DialectCockroach:
		u.Scheme = "postgres"
		return u.String(), nil

	case DialectMySQL:
		var b strings.Builder
		if u.User != nil {
			b.WriteString(u.User.Username())
			if pw, ok := u.User.Password(); ok {
				b.WriteString(":")
				b.WriteString(pw)
			}
			b.WriteString("@")
		}
		host := u.Host
		if host == "" {
			host = "127.0.0.1:3306"
		}
		fmt.Fprintf(&b, "tcp(%s)/%s", host, strings.TrimPrefix(u.Path, "/"))
		if u.RawQuery != "" {
			b.WriteString("?")
			b.WriteString(u.RawQuery)
		}
		return b.String(), nil

	default: // sqlite
		path := u.Opaque
		if path == "" {
			path = u.Path
		}
		if path == "" {
			path = u.Host // sqlite:relative.db parses the name as host
		}
		if path == "" {
			return "", fmt.Errorf("%w: sqlite URL has no path", ErrInvalidURL)
		}
		return path, nil
	}
}

// IsLocalhost returns true if the URL points to localhost. SQLite URLs
// are always local.
func IsLocalhost(dbURL string) bool {
	u, err := url.Parse(dbURL)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme == "sqlite" || scheme == "sqlite3" {
		return true
	}
	host := strings.ToLower(u.Hostname())
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}

// DatabaseName extracts the database name from a URL. Returns an empty
// string if no database name is present.
func DatabaseName(dbURL string) string {
	u, err := url.Parse(dbURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Path, "/")
}

// WithDatabaseName returns a new URL with the database name replaced.
func WithDatabaseName(dbURL, dbname string) (string, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	u.Path = "/" + dbname
	return u.String(), nil
}

// TestDatabaseURL returns the test database URL for a given dev URL.
// Convention: the test database is named {dev_db}_test; for SQLite the
// suffix goes before the .db extension.
func TestDatabaseURL(devURL string) (string, error) {
	name := DatabaseName(devURL)
	if name == "" {
		return "", fmt.Errorf("could not parse database name from URL")
	}
	dialect, err := InferDialect(devURL)
	if err != nil {
		return "", err
	}

	var testName string
	if dialect == DialectSQLite && strings.HasSuffix(name, ".db") {
		testName = strings.TrimSuffix(name, ".db") + "_test.db"
	} else {
		testName = name + "_test"
	}
	return WithDatabaseName(devURL, testName)
}
