// Package query provides the dialect-neutral statement builders. A
// statement is assembled with a fluent builder, stays mutable while it is
// being built, and is treated as frozen once handed to a dialect compiler.
package query

// Statement is the closed set of SQL constructs the compilers accept.
// The compiler switches exhaustively over these types; adding a variant
// here without teaching every dialect about it is a compile-time smell,
// not a runtime surprise.
type Statement interface {
	stmtNode()

	// Validate checks structural invariants (non-empty identifiers,
	// column/value arity, non-empty IN lists). It never mutates the
	// statement and reports the first violated rule.
	Validate() error
}

// TableRef references a table, optionally with an alias.
type TableRef struct {
	Name  string
	Alias string
}

// Behavior selects CASCADE or RESTRICT on destructive DDL.
type Behavior int

const (
	BehaviorDefault Behavior = iota
	Cascade
	Restrict
)

// Query is the entry point mirrored after the statement kinds:
// query.Select(), query.InsertInto(...), and so on. Each constructor
// returns a fresh builder.

// Select starts a SELECT builder.
func Select(cols ...Col) *SelectStatement {
	s := &SelectStatement{}
	return s.Columns(cols...)
}

// InsertInto starts an INSERT builder for the given table.
func InsertInto(table string) *InsertStatement {
	return &InsertStatement{Table: TableRef{Name: table}}
}

// Update starts an UPDATE builder for the given table.
func Update(table string) *UpdateStatement {
	return &UpdateStatement{Table: TableRef{Name: table}}
}

// DeleteFrom starts a DELETE builder for the given table.
func DeleteFrom(table string) *DeleteStatement {
	return &DeleteStatement{Table: TableRef{Name: table}}
}

// CreateTable starts a CREATE TABLE builder.
func CreateTable(name string) *CreateTableStatement {
	return &CreateTableStatement{Name: name}
}

// AlterTable starts an ALTER TABLE builder.
func AlterTable(name string) *AlterTableStatement {
	return &AlterTableStatement{Name: name}
}

// DropTable starts a DROP TABLE builder.
func DropTable(name string) *DropTableStatement {
	return &DropTableStatement{Name: name}
}

// CreateSchema starts a CREATE SCHEMA builder.
func CreateSchema(name string) *CreateSchemaStatement {
	return &CreateSchemaStatement{Name: name}
}

// AlterSchema starts an ALTER SCHEMA builder.
func AlterSchema(name string) *AlterSchemaStatement {
	return &AlterSchemaStatement{Name: name}
}

// DropSchema starts a DROP SCHEMA builder.
func DropSchema(name string) *DropSchemaStatement {
	return &DropSchemaStatement{Name: name}
}

// CreateSequence starts a CREATE SEQUENCE builder.
func CreateSequence(name string) *CreateSequenceStatement {
	return &CreateSequenceStatement{Name: name}
}

// DropSequence starts a DROP SEQUENCE builder.
func DropSequence(name string) *DropSequenceStatement {
	return &DropSequenceStatement{Name: name}
}

// CreateType starts a CREATE TYPE builder (enum types).
func CreateType(name string) *CreateTypeStatement {
	return &CreateTypeStatement{Name: name}
}

// DropType starts a DROP TYPE builder.
func DropType(name string) *DropTypeStatement {
	return &DropTypeStatement{Name: name}
}

// CreateRole starts a CREATE ROLE builder.
func CreateRole(name string) *CreateRoleStatement {
	return &CreateRoleStatement{Name: name}
}

// CreateDatabase starts a CREATE DATABASE builder.
func CreateDatabase(name string) *CreateDatabaseStatement {
	return &CreateDatabaseStatement{Name: name}
}

// DropDatabase starts a DROP DATABASE builder.
func DropDatabase(name string) *DropDatabaseStatement {
	return &DropDatabaseStatement{Name: name}
}

// CreateView starts a CREATE VIEW builder.
func CreateView(name string) *CreateViewStatement {
	return &CreateViewStatement{Name: name}
}

// CreateMaterializedView starts a CREATE MATERIALIZED VIEW builder.
func CreateMaterializedView(name string) *CreateMaterializedViewStatement {
	return &CreateMaterializedViewStatement{Name: name, WithData: true}
}

// AlterMaterializedView starts an ALTER MATERIALIZED VIEW builder.
func AlterMaterializedView(name string) *AlterMaterializedViewStatement {
	return &AlterMaterializedViewStatement{Name: name}
}

// RefreshMaterializedView starts a REFRESH MATERIALIZED VIEW builder.
func RefreshMaterializedView(name string) *RefreshMaterializedViewStatement {
	return &RefreshMaterializedViewStatement{Name: name, WithData: true}
}
