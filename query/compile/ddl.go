package compile

import (
	"fmt"
	"strings"

	"github.com/crossql/crossql/ddl"
	"github.com/crossql/crossql/query"
)

// DDL compilation. Tables, schemas, sequences, types, roles, databases
// and views; each write method checks dialect capabilities before
// emitting anything.

// columnType maps a logical ddl type to the dialect's storage type.
func columnType(d Dialect, col *ddl.ColumnDefinition) string {
	switch d {
	case Postgres, Cockroach:
		return postgresColumnType(col)
	case MySQL:
		return mysqlColumnType(col)
	default:
		return sqliteColumnType(col)
	}
}

func postgresColumnType(col *ddl.ColumnDefinition) string {
	switch col.Type {
	case ddl.SmallintType:
		return "SMALLINT"
	case ddl.IntegerType:
		return "INTEGER"
	case ddl.BigintType:
		return "BIGINT"
	case ddl.StringType:
		length := 255
		if col.Length != nil {
			length = *col.Length
		}
		return fmt.Sprintf("VARCHAR(%d)", length)
	case ddl.TextType:
		return "TEXT"
	case ddl.BooleanType:
		return "BOOLEAN"
	case ddl.DecimalType:
		return fmt.Sprintf("DECIMAL(%d, %d)", precision(col), scale(col))
	case ddl.FloatType:
		return "DOUBLE PRECISION"
	case ddl.TimestampType:
		return "TIMESTAMP WITH TIME ZONE"
	case ddl.BinaryType:
		return "BYTEA"
	case ddl.JSONType:
		return "JSONB"
	case ddl.UUIDType:
		return "UUID"
	default:
		return "TEXT"
	}
}

func mysqlColumnType(col *ddl.ColumnDefinition) string {
	switch col.Type {
	case ddl.SmallintType:
		return "SMALLINT"
	case ddl.IntegerType:
		return "INT"
	case ddl.BigintType:
		return "BIGINT"
	case ddl.StringType:
		length := 255
		if col.Length != nil {
			length = *col.Length
		}
		return fmt.Sprintf("VARCHAR(%d)", length)
	case ddl.TextType:
		return "TEXT"
	case ddl.BooleanType:
		return "TINYINT(1)"
	case ddl.DecimalType:
		return fmt.Sprintf("DECIMAL(%d, %d)", precision(col), scale(col))
	case ddl.FloatType:
		return "DOUBLE"
	case ddl.TimestampType:
		return "DATETIME(6)"
	case ddl.BinaryType:
		return "BLOB"
	case ddl.JSONType:
		return "JSON"
	case ddl.UUIDType:
		return "CHAR(36)"
	default:
		return "TEXT"
	}
}

func sqliteColumnType(col *ddl.ColumnDefinition) string {
	switch col.Type {
	case ddl.SmallintType, ddl.IntegerType, ddl.BigintType, ddl.BooleanType:
		return "INTEGER"
	case ddl.FloatType:
		return "REAL"
	case ddl.DecimalType:
		return "NUMERIC"
	case ddl.BinaryType:
		return "BLOB"
	default:
		return "TEXT"
	}
}

func precision(col *ddl.ColumnDefinition) int {
	if col.Precision != nil {
		return *col.Precision
	}
	return 10
}

func scale(col *ddl.ColumnDefinition) int {
	if col.Scale != nil {
		return *col.Scale
	}
	return 0
}

// formatDefault renders a DEFAULT literal for the column type. Numeric
// and boolean defaults are unquoted; everything else is single-quoted
// with embedded quotes doubled.
func (c *compiler) formatDefault(col *ddl.ColumnDefinition) string {
	def := *col.Default
	switch col.Type {
	case ddl.BooleanType:
		return c.dialect.BoolLiteral(def == "true")
	case ddl.SmallintType, ddl.IntegerType, ddl.BigintType, ddl.FloatType, ddl.DecimalType:
		return def
	default:
		return "'" + strings.ReplaceAll(def, "'", "''") + "'"
	}
}

func (c *compiler) writeColumnDef(b *strings.Builder, col *ddl.ColumnDefinition) {
	c.writeIdent(b, col.Name)
	b.WriteString(" ")
	b.WriteString(columnType(c.dialect, col))
	if col.PrimaryKey {
		b.WriteString(" PRIMARY KEY")
	} else if !col.Nullable {
		b.WriteString(" NOT NULL")
	}
	if col.Unique && !col.PrimaryKey {
		b.WriteString(" UNIQUE")
	}
	if col.Default != nil {
		b.WriteString(" DEFAULT ")
		b.WriteString(c.formatDefault(col))
	}
	if col.ForeignKey != "" {
		b.WriteString(" REFERENCES ")
		c.writeIdent(b, col.ForeignKey)
	}
}

// =============================================================================
// Tables
// =============================================================================

func (c *compiler) writeCreateTable(b *strings.Builder, s *query.CreateTableStatement) error {
	if s.Locality != query.LocalityNone && !c.dialect.SupportsLocality() {
		return unsupported(c.dialect, "table locality")
	}

	b.WriteString("CREATE ")
	if s.Temporary {
		b.WriteString("TEMPORARY ")
	}
	b.WriteString("TABLE ")
	if s.IfNotExists {
		b.WriteString("IF NOT EXISTS ")
	}
	c.writeIdent(b, s.Name)
	b.WriteString(" (")
	for i := range s.Cols {
		if i > 0 {
			b.WriteString(", ")
		}
		c.writeColumnDef(b, &s.Cols[i])
	}
	b.WriteString(")")

	switch s.Locality {
	case query.LocalityRegionalByRow:
		b.WriteString(" LOCALITY REGIONAL BY ROW")
	case query.LocalityRegionalByTable:
		b.WriteString(" LOCALITY REGIONAL BY TABLE")
	case query.LocalityGlobal:
		b.WriteString(" LOCALITY GLOBAL")
	}

	// Index definitions become their own CREATE INDEX statements after
	// the table, separated by "; " like ALTER TABLE operations.
	for i := range s.Indexes {
		b.WriteString("; ")
		c.writeCreateIndex(b, s.Name, &s.Indexes[i])
	}
	return nil
}

func (c *compiler) writeCreateIndex(b *strings.Builder, table string, idx *ddl.IndexDefinition) {
	name := idx.Name
	if name == "" {
		name = ddl.GenerateIndexName(table, idx.Columns)
	}
	b.WriteString("CREATE ")
	if idx.Unique {
		b.WriteString("UNIQUE ")
	}
	b.WriteString("INDEX ")
	c.writeIdent(b, name)
	b.WriteString(" ON ")
	c.writeIdent(b, table)
	b.WriteString(" (")
	for i, col := range idx.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		c.writeIdent(b, col)
	}
	b.WriteString(")")
}

func (c *compiler) writeAlterTable(b *strings.Builder, s *query.AlterTableStatement) error {
	// Each operation becomes its own ALTER TABLE statement, separated by
	// "; " and applied in insertion order.
	for i := range s.Ops {
		if i > 0 {
			b.WriteString("; ")
		}
		if err := c.writeTableOperation(b, s.Name, &s.Ops[i]); err != nil {
			return err
		}
	}
	return nil
}

func (c *compiler) writeTableOperation(b *strings.Builder, table string, op *ddl.TableOperation) error {
	prefix := func() {
		b.WriteString("ALTER TABLE ")
		c.writeIdent(b, table)
		b.WriteString(" ")
	}

	switch op.Type {
	case ddl.OpAddColumn:
		prefix()
		b.WriteString("ADD COLUMN ")
		c.writeColumnDef(b, op.ColumnDef)

	case ddl.OpDropColumn:
		prefix()
		b.WriteString("DROP COLUMN ")
		c.writeIdent(b, op.Column)

	case ddl.OpRenameColumn:
		prefix()
		b.WriteString("RENAME COLUMN ")
		c.writeIdent(b, op.Column)
		b.WriteString(" TO ")
		c.writeIdent(b, op.NewName)

	case ddl.OpChangeType:
		switch c.dialect {
		case Postgres, Cockroach:
			prefix()
			b.WriteString("ALTER COLUMN ")
			c.writeIdent(b, op.Column)
			b.WriteString(" TYPE ")
			b.WriteString(op.NewType)
		case MySQL:
			prefix()
			b.WriteString("MODIFY COLUMN ")
			c.writeIdent(b, op.Column)
			b.WriteString(" ")
			b.WriteString(op.NewType)
		default:
			return unsupported(c.dialect, "ALTER COLUMN TYPE")
		}

	case ddl.OpChangeNullable:
		switch c.dialect {
		case Postgres, Cockroach:
			prefix()
			b.WriteString("ALTER COLUMN ")
			c.writeIdent(b, op.Column)
			if *op.Nullable {
				b.WriteString(" DROP NOT NULL")
			} else {
				b.WriteString(" SET NOT NULL")
			}
		case MySQL:
			// MySQL restates the column type in MODIFY COLUMN; fall back
			// to TEXT when the operation does not carry one.
			typ := op.NewType
			if typ == "" {
				typ = "TEXT"
			}
			prefix()
			b.WriteString("MODIFY COLUMN ")
			c.writeIdent(b, op.Column)
			b.WriteString(" ")
			b.WriteString(typ)
			if *op.Nullable {
				b.WriteString(" NULL")
			} else {
				b.WriteString(" NOT NULL")
			}
		default:
			return unsupported(c.dialect, "ALTER COLUMN nullability")
		}

	case ddl.OpChangeDefault:
		if c.dialect == SQLite {
			return unsupported(c.dialect, "ALTER COLUMN DEFAULT")
		}
		prefix()
		b.WriteString("ALTER COLUMN ")
		c.writeIdent(b, op.Column)
		if op.Default == nil {
			b.WriteString(" DROP DEFAULT")
		} else {
			b.WriteString(" SET DEFAULT '")
			b.WriteString(strings.ReplaceAll(*op.Default, "'", "''"))
			b.WriteString("'")
		}

	case ddl.OpAddIndex:
		c.writeCreateIndex(b, table, op.IndexDef)

	case ddl.OpDropIndex:
		if c.dialect == MySQL {
			prefix()
			b.WriteString("DROP INDEX ")
			c.writeIdent(b, op.IndexName)
		} else {
			b.WriteString("DROP INDEX ")
			c.writeIdent(b, op.IndexName)
		}

	default:
		return fmt.Errorf("compile: unknown table operation %q", op.Type)
	}
	return nil
}

func (c *compiler) writeDropTable(b *strings.Builder, s *query.DropTableStatement) error {
	b.WriteString("DROP TABLE ")
	if s.IfExists {
		b.WriteString("IF EXISTS ")
	}
	c.writeIdent(b, s.Name)
	return c.writeBehavior(b, s.Behavior)
}

// writeBehavior appends CASCADE/RESTRICT. SQLite accepts neither.
func (c *compiler) writeBehavior(b *strings.Builder, behavior query.Behavior) error {
	if behavior == query.BehaviorDefault {
		return nil
	}
	if c.dialect == SQLite {
		return unsupported(c.dialect, "CASCADE/RESTRICT")
	}
	if behavior == query.Cascade {
		b.WriteString(" CASCADE")
	} else {
		b.WriteString(" RESTRICT")
	}
	return nil
}

// =============================================================================
// Schemas
// =============================================================================

func (c *compiler) writeCreateSchema(b *strings.Builder, s *query.CreateSchemaStatement) error {
	if !c.dialect.SupportsSchemas() {
		return unsupported(c.dialect, "CREATE SCHEMA")
	}
	b.WriteString("CREATE SCHEMA ")
	if s.IfNotExists {
		b.WriteString("IF NOT EXISTS ")
	}
	c.writeIdent(b, s.Name)
	if s.Authorization != "" {
		b.WriteString(" AUTHORIZATION ")
		c.writeIdent(b, s.Authorization)
	}
	return nil
}

func (c *compiler) writeAlterSchema(b *strings.Builder, s *query.AlterSchemaStatement) error {
	if !c.dialect.SupportsSchemas() {
		return unsupported(c.dialect, "ALTER SCHEMA")
	}
	if c.dialect == MySQL {
		// MySQL schemas are databases and cannot be renamed in place.
		return unsupported(c.dialect, "ALTER SCHEMA")
	}
	b.WriteString("ALTER SCHEMA ")
	c.writeIdent(b, s.Name)
	if s.RenameTo != "" {
		b.WriteString(" RENAME TO ")
		c.writeIdent(b, s.RenameTo)
	} else {
		b.WriteString(" OWNER TO ")
		c.writeIdent(b, s.OwnerTo)
	}
	return nil
}

func (c *compiler) writeDropSchema(b *strings.Builder, s *query.DropSchemaStatement) error {
	if !c.dialect.SupportsSchemas() {
		return unsupported(c.dialect, "DROP SCHEMA")
	}
	b.WriteString("DROP SCHEMA ")
	if s.IfExists {
		b.WriteString("IF EXISTS ")
	}
	c.writeIdent(b, s.Name)
	return c.writeBehavior(b, s.Behavior)
}

// =============================================================================
// Sequences
// =============================================================================

func (c *compiler) writeCreateSequence(b *strings.Builder, s *query.CreateSequenceStatement) error {
	if !c.dialect.SupportsSequences() {
		return unsupported(c.dialect, "CREATE SEQUENCE")
	}
	b.WriteString("CREATE SEQUENCE ")
	if s.IfNotExists {
		b.WriteString("IF NOT EXISTS ")
	}
	c.writeIdent(b, s.Name)
	if s.Increment != nil {
		fmt.Fprintf(b, " INCREMENT BY %d", *s.Increment)
	}
	if s.MinValue != nil {
		fmt.Fprintf(b, " MINVALUE %d", *s.MinValue)
	}
	if s.MaxValue != nil {
		fmt.Fprintf(b, " MAXVALUE %d", *s.MaxValue)
	}
	if s.Start != nil {
		fmt.Fprintf(b, " START WITH %d", *s.Start)
	}
	return nil
}

func (c *compiler) writeDropSequence(b *strings.Builder, s *query.DropSequenceStatement) error {
	if !c.dialect.SupportsSequences() {
		return unsupported(c.dialect, "DROP SEQUENCE")
	}
	b.WriteString("DROP SEQUENCE ")
	if s.IfExists {
		b.WriteString("IF EXISTS ")
	}
	c.writeIdent(b, s.Name)
	return c.writeBehavior(b, s.Behavior)
}

// =============================================================================
// Types
// =============================================================================

func (c *compiler) writeCreateType(b *strings.Builder, s *query.CreateTypeStatement) error {
	if !c.dialect.SupportsEnumTypes() {
		return unsupported(c.dialect, "CREATE TYPE")
	}
	b.WriteString("CREATE TYPE ")
	c.writeIdent(b, s.Name)
	b.WriteString(" AS ENUM (")
	for i, label := range s.Labels {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("'")
		b.WriteString(strings.ReplaceAll(label, "'", "''"))
		b.WriteString("'")
	}
	b.WriteString(")")
	return nil
}

func (c *compiler) writeDropType(b *strings.Builder, s *query.DropTypeStatement) error {
	if !c.dialect.SupportsEnumTypes() {
		return unsupported(c.dialect, "DROP TYPE")
	}
	b.WriteString("DROP TYPE ")
	if s.IfExists {
		b.WriteString("IF EXISTS ")
	}
	c.writeIdent(b, s.Name)
	return c.writeBehavior(b, s.Behavior)
}

// =============================================================================
// Roles and databases
// =============================================================================

func (c *compiler) writeCreateRole(b *strings.Builder, s *query.CreateRoleStatement) error {
	if !c.dialect.SupportsRoles() {
		return unsupported(c.dialect, "CREATE ROLE")
	}
	b.WriteString("CREATE ROLE ")
	c.writeIdent(b, s.Name)
	if c.dialect == MySQL {
		// MySQL roles carry no attributes at creation time.
		return nil
	}
	if s.Login {
		b.WriteString(" LOGIN")
	}
	if s.Superuser {
		b.WriteString(" SUPERUSER")
	}
	if s.CreateDB {
		b.WriteString(" CREATEDB")
	}
	if s.Password != "" {
		// Role DDL cannot take placeholders; quote and escape instead.
		b.WriteString(" PASSWORD '")
		b.WriteString(strings.ReplaceAll(s.Password, "'", "''"))
		b.WriteString("'")
	}
	return nil
}

func (c *compiler) writeCreateDatabase(b *strings.Builder, s *query.CreateDatabaseStatement) error {
	if !c.dialect.SupportsCreateDatabase() {
		return unsupported(c.dialect, "CREATE DATABASE")
	}
	b.WriteString("CREATE DATABASE ")
	c.writeIdent(b, s.Name)
	if c.dialect == MySQL {
		if s.Encoding != "" {
			b.WriteString(" CHARACTER SET ")
			b.WriteString(s.Encoding)
		}
		return nil
	}
	if s.Owner != "" {
		b.WriteString(" OWNER ")
		c.writeIdent(b, s.Owner)
	}
	if s.Encoding != "" {
		b.WriteString(" ENCODING '")
		b.WriteString(s.Encoding)
		b.WriteString("'")
	}
	if s.Template != "" {
		b.WriteString(" TEMPLATE ")
		c.writeIdent(b, s.Template)
	}
	return nil
}

func (c *compiler) writeDropDatabase(b *strings.Builder, s *query.DropDatabaseStatement) error {
	if !c.dialect.SupportsCreateDatabase() {
		return unsupported(c.dialect, "DROP DATABASE")
	}
	b.WriteString("DROP DATABASE ")
	if s.IfExists {
		b.WriteString("IF EXISTS ")
	}
	c.writeIdent(b, s.Name)
	return nil
}

// =============================================================================
// Views
// =============================================================================

func (c *compiler) writeCreateView(b *strings.Builder, s *query.CreateViewStatement) error {
	b.WriteString("CREATE ")
	if s.OrReplace {
		if c.dialect == SQLite {
			return unsupported(c.dialect, "CREATE OR REPLACE VIEW")
		}
		b.WriteString("OR REPLACE ")
	}
	b.WriteString("VIEW ")
	c.writeIdent(b, s.Name)
	if len(s.Cols) > 0 {
		b.WriteString(" (")
		for i, col := range s.Cols {
			if i > 0 {
				b.WriteString(", ")
			}
			c.writeIdent(b, col)
		}
		b.WriteString(")")
	}
	b.WriteString(" AS ")
	return c.writeSelect(b, s.As)
}

func (c *compiler) writeCreateMaterializedView(b *strings.Builder, s *query.CreateMaterializedViewStatement) error {
	if !c.dialect.SupportsMaterializedViews() {
		return unsupported(c.dialect, "materialized views")
	}
	b.WriteString("CREATE MATERIALIZED VIEW ")
	if s.IfNotExists {
		b.WriteString("IF NOT EXISTS ")
	}
	c.writeIdent(b, s.Name)
	b.WriteString(" AS ")
	if err := c.writeSelect(b, s.As); err != nil {
		return err
	}
	if s.WithData {
		b.WriteString(" WITH DATA")
	} else {
		b.WriteString(" WITH NO DATA")
	}
	return nil
}

func (c *compiler) writeAlterMaterializedView(b *strings.Builder, s *query.AlterMaterializedViewStatement) error {
	if !c.dialect.SupportsMaterializedViews() {
		return unsupported(c.dialect, "materialized views")
	}
	b.WriteString("ALTER MATERIALIZED VIEW ")
	c.writeIdent(b, s.Name)
	if s.RenameTo != "" {
		b.WriteString(" RENAME TO ")
		c.writeIdent(b, s.RenameTo)
	} else {
		b.WriteString(" OWNER TO ")
		c.writeIdent(b, s.OwnerTo)
	}
	return nil
}

func (c *compiler) writeRefreshMaterializedView(b *strings.Builder, s *query.RefreshMaterializedViewStatement) error {
	if !c.dialect.SupportsMaterializedViews() {
		return unsupported(c.dialect, "materialized views")
	}
	b.WriteString("REFRESH MATERIALIZED VIEW ")
	if s.Concurrently {
		b.WriteString("CONCURRENTLY ")
	}
	c.writeIdent(b, s.Name)
	if !s.WithData {
		b.WriteString(" WITH NO DATA")
	}
	return nil
}
