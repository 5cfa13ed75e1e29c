package schema

import (
	"context"
	"fmt"

	"github.com/crossql/crossql/backend"
	"github.com/crossql/crossql/query"
	"github.com/crossql/crossql/query/compile"
)

// CockroachEditor extends the shared editor with multi-region DDL.
type CockroachEditor struct {
	sqlEditor
}

// SetLocality changes a table's locality, e.g. to REGIONAL BY ROW.
// The database must have regions configured first.
func (e *CockroachEditor) SetLocality(ctx context.Context, conn *backend.Conn, table string, locality query.Locality) error {
	var clause string
	switch locality {
	case query.LocalityRegionalByRow:
		clause = "REGIONAL BY ROW"
	case query.LocalityRegionalByTable:
		clause = "REGIONAL BY TABLE"
	case query.LocalityGlobal:
		clause = "GLOBAL"
	default:
		return fmt.Errorf("schema: no locality to set")
	}
	sqlText := fmt.Sprintf("ALTER TABLE %s SET LOCALITY %s",
		compile.Cockroach.QuoteIdent(table), clause)
	_, err := conn.Execute(ctx, sqlText, nil)
	return err
}

// AddRegion adds a region to the database, a prerequisite for
// REGIONAL BY ROW tables.
func (e *CockroachEditor) AddRegion(ctx context.Context, conn *backend.Conn, database, region string) error {
	sqlText := fmt.Sprintf("ALTER DATABASE %s ADD REGION %s",
		compile.Cockroach.QuoteIdent(database), compile.Cockroach.QuoteIdent(region))
	_, err := conn.Execute(ctx, sqlText, nil)
	return err
}
