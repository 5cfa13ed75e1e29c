package query

import "github.com/crossql/crossql/ddl"

// Locality selects the CockroachDB table locality. Non-Cockroach dialects
// reject any value other than LocalityNone at compile time.
type Locality int

const (
	LocalityNone Locality = iota
	LocalityRegionalByRow
	LocalityRegionalByTable
	LocalityGlobal
)

// CreateTableStatement is the builder for CREATE TABLE.
type CreateTableStatement struct {
	Name        string
	IfNotExists bool
	Temporary   bool
	Cols        []ddl.ColumnDefinition
	Indexes     []ddl.IndexDefinition
	Locality    Locality
}

func (*CreateTableStatement) stmtNode() {}

// Column appends a column definition. Insertion order is preserved.
func (s *CreateTableStatement) Column(col ddl.ColumnDefinition) *CreateTableStatement {
	s.Cols = append(s.Cols, col)
	return s
}

// Index appends an index definition.
func (s *CreateTableStatement) Index(idx ddl.IndexDefinition) *CreateTableStatement {
	s.Indexes = append(s.Indexes, idx)
	return s
}

// IfNotExistsOpt adds IF NOT EXISTS.
func (s *CreateTableStatement) IfNotExistsOpt() *CreateTableStatement {
	s.IfNotExists = true
	return s
}

// Temp marks the table TEMPORARY.
func (s *CreateTableStatement) Temp() *CreateTableStatement {
	s.Temporary = true
	return s
}

// WithLocality sets the CockroachDB locality clause.
func (s *CreateTableStatement) WithLocality(l Locality) *CreateTableStatement {
	s.Locality = l
	return s
}

// Take moves all fields out of the builder, leaving it empty.
func (s *CreateTableStatement) Take() *CreateTableStatement {
	out := *s
	*s = CreateTableStatement{}
	return &out
}

// Validate checks structural invariants without mutating the builder.
func (s *CreateTableStatement) Validate() error {
	if err := validateIdent("create table", s.Name); err != nil {
		return err
	}
	if len(s.Cols) == 0 {
		return validationError("create table", "at least one column is required")
	}
	for _, col := range s.Cols {
		if err := validateIdent("create table", col.Name); err != nil {
			return err
		}
	}
	pks := 0
	for _, col := range s.Cols {
		if col.PrimaryKey {
			pks++
		}
	}
	if pks > 1 {
		return validationError("create table", "at most one primary key column is allowed")
	}
	for _, idx := range s.Indexes {
		if len(idx.Columns) == 0 {
			return validationError("create table", "index requires at least one column")
		}
	}
	return nil
}

// AlterTableStatement is the builder for ALTER TABLE. Operations are
// applied in insertion order.
type AlterTableStatement struct {
	Name string
	Ops  []ddl.TableOperation
}

func (*AlterTableStatement) stmtNode() {}

// AddColumn appends an ADD COLUMN operation.
func (s *AlterTableStatement) AddColumn(col ddl.ColumnDefinition) *AlterTableStatement {
	s.Ops = append(s.Ops, ddl.TableOperation{Type: ddl.OpAddColumn, ColumnDef: &col})
	return s
}

// DropColumn appends a DROP COLUMN operation.
func (s *AlterTableStatement) DropColumn(name string) *AlterTableStatement {
	s.Ops = append(s.Ops, ddl.TableOperation{Type: ddl.OpDropColumn, Column: name})
	return s
}

// RenameColumn appends a RENAME COLUMN operation.
func (s *AlterTableStatement) RenameColumn(from, to string) *AlterTableStatement {
	s.Ops = append(s.Ops, ddl.TableOperation{Type: ddl.OpRenameColumn, Column: from, NewName: to})
	return s
}

// ChangeType appends a column type change.
func (s *AlterTableStatement) ChangeType(col, newType string) *AlterTableStatement {
	s.Ops = append(s.Ops, ddl.TableOperation{Type: ddl.OpChangeType, Column: col, NewType: newType})
	return s
}

// ChangeNullable appends a NULL/NOT NULL change.
func (s *AlterTableStatement) ChangeNullable(col string, nullable bool) *AlterTableStatement {
	s.Ops = append(s.Ops, ddl.TableOperation{Type: ddl.OpChangeNullable, Column: col, Nullable: &nullable})
	return s
}

// ChangeDefault appends a DEFAULT change; nil drops the default.
func (s *AlterTableStatement) ChangeDefault(col string, def *string) *AlterTableStatement {
	s.Ops = append(s.Ops, ddl.TableOperation{Type: ddl.OpChangeDefault, Column: col, Default: def})
	return s
}

// AddIndex appends an index creation.
func (s *AlterTableStatement) AddIndex(idx ddl.IndexDefinition) *AlterTableStatement {
	s.Ops = append(s.Ops, ddl.TableOperation{Type: ddl.OpAddIndex, IndexDef: &idx})
	return s
}

// DropIndex appends an index drop.
func (s *AlterTableStatement) DropIndex(name string) *AlterTableStatement {
	s.Ops = append(s.Ops, ddl.TableOperation{Type: ddl.OpDropIndex, IndexName: name})
	return s
}

// Take moves all fields out of the builder, leaving it empty.
func (s *AlterTableStatement) Take() *AlterTableStatement {
	out := *s
	*s = AlterTableStatement{}
	return &out
}

// Validate checks structural invariants without mutating the builder.
func (s *AlterTableStatement) Validate() error {
	if err := validateIdent("alter table", s.Name); err != nil {
		return err
	}
	if len(s.Ops) == 0 {
		return validationError("alter table", "at least one operation is required")
	}
	return nil
}

// DropTableStatement is the builder for DROP TABLE.
type DropTableStatement struct {
	Name     string
	IfExists bool
	Behavior Behavior
}

func (*DropTableStatement) stmtNode() {}

// IfExistsOpt adds IF EXISTS.
func (s *DropTableStatement) IfExistsOpt() *DropTableStatement {
	s.IfExists = true
	return s
}

// CascadeOpt adds CASCADE.
func (s *DropTableStatement) CascadeOpt() *DropTableStatement {
	s.Behavior = Cascade
	return s
}

// RestrictOpt adds RESTRICT.
func (s *DropTableStatement) RestrictOpt() *DropTableStatement {
	s.Behavior = Restrict
	return s
}

// Take moves all fields out of the builder, leaving it empty.
func (s *DropTableStatement) Take() *DropTableStatement {
	out := *s
	*s = DropTableStatement{}
	return &out
}

// Validate checks structural invariants without mutating the builder.
func (s *DropTableStatement) Validate() error {
	return validateIdent("drop table", s.Name)
}
