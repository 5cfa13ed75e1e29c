//go:build property

package compile_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/crossql/crossql/proptest"
	"github.com/crossql/crossql/query"
	"github.com/crossql/crossql/query/compile"
	"github.com/crossql/crossql/value"
)

// generateRandomValue produces one random bound value.
func generateRandomValue(g *proptest.Generator) value.Value {
	switch g.IntRange(0, 5) {
	case 0:
		return value.BigInt(g.Int64Range(-1_000_000, 1_000_000))
	case 1:
		return value.Int(int32(g.IntRange(-100000, 100000)))
	case 2:
		return value.String(g.EdgeCaseString())
	case 3:
		return value.Bool(g.Bool())
	case 4:
		return value.BigUnsigned(g.Uint64())
	default:
		return value.Null(value.KindString)
	}
}

// generateRandomSelect builds a random but valid SELECT over one table.
func generateRandomSelect(g *proptest.Generator) *query.SelectStatement {
	table := g.IdentifierLower(12)
	s := query.Select().From(table)

	ncols := g.IntRange(1, 4)
	for i := 0; i < ncols; i++ {
		s.Columns(query.C(g.IdentifierLower(10)))
	}

	npreds := g.IntRange(0, 4)
	for i := 0; i < npreds; i++ {
		col := query.C(g.IdentifierLower(10))
		switch g.IntRange(0, 3) {
		case 0:
			s.AndWhere(col.Eq(generateRandomValue(g)))
		case 1:
			s.AndWhere(col.Lt(generateRandomValue(g)))
		case 2:
			vs := make([]value.Value, g.IntRange(1, 5))
			for j := range vs {
				vs[j] = generateRandomValue(g)
			}
			s.AndWhere(col.In(vs...))
		default:
			s.AndWhere(col.IsNotNull())
		}
	}

	if g.BoolWithProb(0.3) {
		s.WithLimit(uint64(g.IntRange(1, 1000)))
	}
	return s
}

func countPlaceholders(d compile.Dialect, sqlText string, n int) bool {
	if d == compile.Postgres || d == compile.Cockroach {
		// Each index from $1 to $n appears exactly once and $n+1 never.
		for i := 1; i <= n; i++ {
			if strings.Count(sqlText, fmt.Sprintf("$%d", i)) < 1 {
				return false
			}
		}
		return !strings.Contains(sqlText, fmt.Sprintf("$%d", n+1))
	}
	return strings.Count(sqlText, "?") == n
}

func TestPositionalAlignmentProperty(t *testing.T) {
	dialects := []compile.Dialect{compile.Postgres, compile.MySQL, compile.SQLite, compile.Cockroach}

	proptest.CheckWithLabel(t, "placeholders align with values", proptest.Config{NumTrials: 300},
		func(g *proptest.Generator) (string, bool) {
			stmt := generateRandomSelect(g)
			d := proptest.Pick(g, dialects)
			sqlText, vals, err := compile.Build(stmt, d)
			if err != nil {
				return fmt.Sprintf("%s: build failed: %v", d, err), false
			}
			if !countPlaceholders(d, sqlText, len(vals)) {
				return fmt.Sprintf("%s: %d values but placeholders disagree: %s", d, len(vals), sqlText), false
			}
			return "", true
		})
}

func TestBoundStringsNeverLeakIntoSQL(t *testing.T) {
	// Bound string payloads must travel as parameters, never be spliced
	// into the statement text.
	proptest.QuickCheck(t, "bound values stay out of sql text", func(g *proptest.Generator) bool {
		payload := "sentinel_" + g.StringFrom(proptest.CharsetAlphaNum, 20) + "'; DROP TABLE t; --"
		stmt := query.Select().From("t").Columns(query.C("id")).
			AndWhere(query.C("name").Eq(value.String(payload)))
		sqlText, vals, err := compile.Build(stmt, compile.Postgres)
		if err != nil {
			return false
		}
		return !strings.Contains(sqlText, payload) && len(vals) == 1
	})
}

func TestQuoteIdentRoundTrip(t *testing.T) {
	dialects := []compile.Dialect{compile.Postgres, compile.MySQL, compile.SQLite, compile.Cockroach}

	proptest.QuickCheck(t, "quoting preserves the identifier", func(g *proptest.Generator) bool {
		ident := g.IdentifierLower(30)
		d := proptest.Pick(g, dialects)
		quoted := d.QuoteIdent(ident)

		var unquoted string
		if d == compile.MySQL {
			unquoted = strings.ReplaceAll(strings.Trim(quoted, "`"), "``", "`")
		} else {
			unquoted = strings.ReplaceAll(strings.Trim(quoted, `"`), `""`, `"`)
		}
		return unquoted == ident
	})
}

func TestInsertRowOrderProperty(t *testing.T) {
	proptest.QuickCheck(t, "insert binds rows in order", func(g *proptest.Generator) bool {
		n := g.IntRange(1, 20)
		stmt := query.InsertInto("t").Columns("n")
		for i := 0; i < n; i++ {
			stmt.Values(value.BigInt(int64(i)))
		}
		_, vals, err := compile.Build(stmt, compile.Postgres)
		if err != nil || len(vals) != n {
			return false
		}
		for i, v := range vals {
			got, err := v.AsBigInt()
			if err != nil || got != int64(i) {
				return false
			}
		}
		return true
	})
}
