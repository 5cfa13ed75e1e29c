package query

// View statements. Plain views compile on every dialect; materialized
// views are Postgres/CockroachDB only and are rejected for MySQL and
// SQLite at compile time.

// CreateViewStatement is the builder for CREATE VIEW.
type CreateViewStatement struct {
	Name      string
	OrReplace bool
	Cols      []string
	As        *SelectStatement
}

func (*CreateViewStatement) stmtNode() {}

// OrReplaceOpt adds OR REPLACE.
func (s *CreateViewStatement) OrReplaceOpt() *CreateViewStatement {
	s.OrReplace = true
	return s
}

// Columns sets an explicit view column list.
func (s *CreateViewStatement) Columns(cols ...string) *CreateViewStatement {
	s.Cols = append(s.Cols, cols...)
	return s
}

// AsSelect sets the defining query.
func (s *CreateViewStatement) AsSelect(sel *SelectStatement) *CreateViewStatement {
	s.As = sel
	return s
}

// Take moves all fields out of the builder, leaving it empty.
func (s *CreateViewStatement) Take() *CreateViewStatement {
	out := *s
	*s = CreateViewStatement{}
	return &out
}

// Validate checks structural invariants without mutating the builder.
func (s *CreateViewStatement) Validate() error {
	if err := validateIdent("create view", s.Name); err != nil {
		return err
	}
	if s.As == nil {
		return validationError("create view", "defining SELECT is required")
	}
	return s.As.Validate()
}

// CreateMaterializedViewStatement is the builder for
// CREATE MATERIALIZED VIEW.
type CreateMaterializedViewStatement struct {
	Name        string
	IfNotExists bool
	As          *SelectStatement
	WithData    bool // WITH DATA (default) vs WITH NO DATA
}

func (*CreateMaterializedViewStatement) stmtNode() {}

// IfNotExistsOpt adds IF NOT EXISTS.
func (s *CreateMaterializedViewStatement) IfNotExistsOpt() *CreateMaterializedViewStatement {
	s.IfNotExists = true
	return s
}

// AsSelect sets the defining query.
func (s *CreateMaterializedViewStatement) AsSelect(sel *SelectStatement) *CreateMaterializedViewStatement {
	s.As = sel
	return s
}

// WithNoData defers population (WITH NO DATA).
func (s *CreateMaterializedViewStatement) WithNoData() *CreateMaterializedViewStatement {
	s.WithData = false
	return s
}

// Take moves all fields out of the builder, leaving it empty.
func (s *CreateMaterializedViewStatement) Take() *CreateMaterializedViewStatement {
	out := *s
	*s = CreateMaterializedViewStatement{}
	return &out
}

// Validate checks structural invariants without mutating the builder.
func (s *CreateMaterializedViewStatement) Validate() error {
	if err := validateIdent("create materialized view", s.Name); err != nil {
		return err
	}
	if s.As == nil {
		return validationError("create materialized view", "defining SELECT is required")
	}
	return s.As.Validate()
}

// AlterMaterializedViewStatement renames a materialized view or its owner.
type AlterMaterializedViewStatement struct {
	Name     string
	RenameTo string
	OwnerTo  string
}

func (*AlterMaterializedViewStatement) stmtNode() {}

// Rename sets RENAME TO.
func (s *AlterMaterializedViewStatement) Rename(to string) *AlterMaterializedViewStatement {
	s.RenameTo = to
	return s
}

// Owner sets OWNER TO.
func (s *AlterMaterializedViewStatement) Owner(to string) *AlterMaterializedViewStatement {
	s.OwnerTo = to
	return s
}

// Take moves all fields out of the builder, leaving it empty.
func (s *AlterMaterializedViewStatement) Take() *AlterMaterializedViewStatement {
	out := *s
	*s = AlterMaterializedViewStatement{}
	return &out
}

// Validate checks structural invariants without mutating the builder.
func (s *AlterMaterializedViewStatement) Validate() error {
	if err := validateIdent("alter materialized view", s.Name); err != nil {
		return err
	}
	if s.RenameTo == "" && s.OwnerTo == "" {
		return validationError("alter materialized view", "either RENAME TO or OWNER TO is required")
	}
	return nil
}

// RefreshMaterializedViewStatement is the builder for
// REFRESH MATERIALIZED VIEW.
type RefreshMaterializedViewStatement struct {
	Name         string
	Concurrently bool
	WithData     bool
}

func (*RefreshMaterializedViewStatement) stmtNode() {}

// ConcurrentlyOpt adds CONCURRENTLY.
func (s *RefreshMaterializedViewStatement) ConcurrentlyOpt() *RefreshMaterializedViewStatement {
	s.Concurrently = true
	return s
}

// WithNoData refreshes into an unpopulated state.
func (s *RefreshMaterializedViewStatement) WithNoData() *RefreshMaterializedViewStatement {
	s.WithData = false
	return s
}

// Take moves all fields out of the builder, leaving it empty.
func (s *RefreshMaterializedViewStatement) Take() *RefreshMaterializedViewStatement {
	out := *s
	*s = RefreshMaterializedViewStatement{}
	return &out
}

// Validate checks structural invariants without mutating the builder.
func (s *RefreshMaterializedViewStatement) Validate() error {
	if err := validateIdent("refresh materialized view", s.Name); err != nil {
		return err
	}
	if s.Concurrently && !s.WithData {
		return validationError("refresh materialized view", "CONCURRENTLY cannot be combined with WITH NO DATA")
	}
	return nil
}
