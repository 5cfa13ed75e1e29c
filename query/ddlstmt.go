package query

// Schema, sequence, type, role and database statements. These carry only
// identifiers and options; nothing here binds parameters.

// CreateSchemaStatement is the builder for CREATE SCHEMA.
type CreateSchemaStatement struct {
	Name          string
	IfNotExists   bool
	Authorization string
}

func (*CreateSchemaStatement) stmtNode() {}

// IfNotExistsOpt adds IF NOT EXISTS.
func (s *CreateSchemaStatement) IfNotExistsOpt() *CreateSchemaStatement {
	s.IfNotExists = true
	return s
}

// AuthorizationOpt sets AUTHORIZATION.
func (s *CreateSchemaStatement) AuthorizationOpt(owner string) *CreateSchemaStatement {
	s.Authorization = owner
	return s
}

// Take moves all fields out of the builder, leaving it empty.
func (s *CreateSchemaStatement) Take() *CreateSchemaStatement {
	out := *s
	*s = CreateSchemaStatement{}
	return &out
}

// Validate checks structural invariants without mutating the builder.
func (s *CreateSchemaStatement) Validate() error {
	return validateIdent("create schema", s.Name)
}

// AlterSchemaStatement renames a schema or changes its owner.
type AlterSchemaStatement struct {
	Name     string
	RenameTo string
	OwnerTo  string
}

func (*AlterSchemaStatement) stmtNode() {}

// Rename sets RENAME TO.
func (s *AlterSchemaStatement) Rename(to string) *AlterSchemaStatement {
	s.RenameTo = to
	return s
}

// Owner sets OWNER TO.
func (s *AlterSchemaStatement) Owner(to string) *AlterSchemaStatement {
	s.OwnerTo = to
	return s
}

// Take moves all fields out of the builder, leaving it empty.
func (s *AlterSchemaStatement) Take() *AlterSchemaStatement {
	out := *s
	*s = AlterSchemaStatement{}
	return &out
}

// Validate checks structural invariants without mutating the builder.
func (s *AlterSchemaStatement) Validate() error {
	if err := validateIdent("alter schema", s.Name); err != nil {
		return err
	}
	if s.RenameTo == "" && s.OwnerTo == "" {
		return validationError("alter schema", "either RENAME TO or OWNER TO is required")
	}
	return nil
}

// DropSchemaStatement is the builder for DROP SCHEMA.
type DropSchemaStatement struct {
	Name     string
	IfExists bool
	Behavior Behavior
}

func (*DropSchemaStatement) stmtNode() {}

// IfExistsOpt adds IF EXISTS.
func (s *DropSchemaStatement) IfExistsOpt() *DropSchemaStatement {
	s.IfExists = true
	return s
}

// CascadeOpt adds CASCADE.
func (s *DropSchemaStatement) CascadeOpt() *DropSchemaStatement {
	s.Behavior = Cascade
	return s
}

// Take moves all fields out of the builder, leaving it empty.
func (s *DropSchemaStatement) Take() *DropSchemaStatement {
	out := *s
	*s = DropSchemaStatement{}
	return &out
}

// Validate checks structural invariants without mutating the builder.
func (s *DropSchemaStatement) Validate() error {
	return validateIdent("drop schema", s.Name)
}

// CreateSequenceStatement is the builder for CREATE SEQUENCE.
type CreateSequenceStatement struct {
	Name        string
	IfNotExists bool
	Start       *int64
	Increment   *int64
	MinValue    *int64
	MaxValue    *int64
}

func (*CreateSequenceStatement) stmtNode() {}

// IfNotExistsOpt adds IF NOT EXISTS.
func (s *CreateSequenceStatement) IfNotExistsOpt() *CreateSequenceStatement {
	s.IfNotExists = true
	return s
}

// StartWith sets START WITH.
func (s *CreateSequenceStatement) StartWith(n int64) *CreateSequenceStatement {
	s.Start = &n
	return s
}

// IncrementBy sets INCREMENT BY.
func (s *CreateSequenceStatement) IncrementBy(n int64) *CreateSequenceStatement {
	s.Increment = &n
	return s
}

// Min sets MINVALUE.
func (s *CreateSequenceStatement) Min(n int64) *CreateSequenceStatement {
	s.MinValue = &n
	return s
}

// Max sets MAXVALUE.
func (s *CreateSequenceStatement) Max(n int64) *CreateSequenceStatement {
	s.MaxValue = &n
	return s
}

// Take moves all fields out of the builder, leaving it empty.
func (s *CreateSequenceStatement) Take() *CreateSequenceStatement {
	out := *s
	*s = CreateSequenceStatement{}
	return &out
}

// Validate checks structural invariants without mutating the builder.
func (s *CreateSequenceStatement) Validate() error {
	if err := validateIdent("create sequence", s.Name); err != nil {
		return err
	}
	if s.Increment != nil && *s.Increment == 0 {
		return validationError("create sequence", "increment must not be zero")
	}
	return nil
}

// DropSequenceStatement is the builder for DROP SEQUENCE.
type DropSequenceStatement struct {
	Name     string
	IfExists bool
	Behavior Behavior
}

func (*DropSequenceStatement) stmtNode() {}

// IfExistsOpt adds IF EXISTS.
func (s *DropSequenceStatement) IfExistsOpt() *DropSequenceStatement {
	s.IfExists = true
	return s
}

// CascadeOpt adds CASCADE.
func (s *DropSequenceStatement) CascadeOpt() *DropSequenceStatement {
	s.Behavior = Cascade
	return s
}

// Take moves all fields out of the builder, leaving it empty.
func (s *DropSequenceStatement) Take() *DropSequenceStatement {
	out := *s
	*s = DropSequenceStatement{}
	return &out
}

// Validate checks structural invariants without mutating the builder.
func (s *DropSequenceStatement) Validate() error {
	return validateIdent("drop sequence", s.Name)
}

// CreateTypeStatement creates an enum type (CREATE TYPE ... AS ENUM).
type CreateTypeStatement struct {
	Name   string
	Labels []string
}

func (*CreateTypeStatement) stmtNode() {}

// AsEnum sets the enum labels.
func (s *CreateTypeStatement) AsEnum(labels ...string) *CreateTypeStatement {
	s.Labels = append(s.Labels, labels...)
	return s
}

// Take moves all fields out of the builder, leaving it empty.
func (s *CreateTypeStatement) Take() *CreateTypeStatement {
	out := *s
	*s = CreateTypeStatement{}
	return &out
}

// Validate checks structural invariants without mutating the builder.
func (s *CreateTypeStatement) Validate() error {
	if err := validateIdent("create type", s.Name); err != nil {
		return err
	}
	if len(s.Labels) == 0 {
		return validationError("create type", "enum requires at least one label")
	}
	return nil
}

// DropTypeStatement is the builder for DROP TYPE.
type DropTypeStatement struct {
	Name     string
	IfExists bool
	Behavior Behavior
}

func (*DropTypeStatement) stmtNode() {}

// IfExistsOpt adds IF EXISTS.
func (s *DropTypeStatement) IfExistsOpt() *DropTypeStatement {
	s.IfExists = true
	return s
}

// CascadeOpt adds CASCADE.
func (s *DropTypeStatement) CascadeOpt() *DropTypeStatement {
	s.Behavior = Cascade
	return s
}

// Take moves all fields out of the builder, leaving it empty.
func (s *DropTypeStatement) Take() *DropTypeStatement {
	out := *s
	*s = DropTypeStatement{}
	return &out
}

// Validate checks structural invariants without mutating the builder.
func (s *DropTypeStatement) Validate() error {
	return validateIdent("drop type", s.Name)
}

// CreateRoleStatement is the builder for CREATE ROLE.
type CreateRoleStatement struct {
	Name      string
	Login     bool
	Superuser bool
	CreateDB  bool
	// Password is bound as a parameter where the dialect allows it.
	Password string
}

func (*CreateRoleStatement) stmtNode() {}

// WithLogin grants LOGIN.
func (s *CreateRoleStatement) WithLogin() *CreateRoleStatement {
	s.Login = true
	return s
}

// WithSuperuser grants SUPERUSER.
func (s *CreateRoleStatement) WithSuperuser() *CreateRoleStatement {
	s.Superuser = true
	return s
}

// WithCreateDB grants CREATEDB.
func (s *CreateRoleStatement) WithCreateDB() *CreateRoleStatement {
	s.CreateDB = true
	return s
}

// WithPassword sets the role password.
func (s *CreateRoleStatement) WithPassword(pw string) *CreateRoleStatement {
	s.Password = pw
	return s
}

// Take moves all fields out of the builder, leaving it empty.
func (s *CreateRoleStatement) Take() *CreateRoleStatement {
	out := *s
	*s = CreateRoleStatement{}
	return &out
}

// Validate checks structural invariants without mutating the builder.
func (s *CreateRoleStatement) Validate() error {
	return validateIdent("create role", s.Name)
}

// CreateDatabaseStatement is the builder for CREATE DATABASE.
type CreateDatabaseStatement struct {
	Name     string
	Owner    string
	Encoding string
	Template string
}

func (*CreateDatabaseStatement) stmtNode() {}

// OwnerOpt sets OWNER.
func (s *CreateDatabaseStatement) OwnerOpt(owner string) *CreateDatabaseStatement {
	s.Owner = owner
	return s
}

// EncodingOpt sets ENCODING.
func (s *CreateDatabaseStatement) EncodingOpt(enc string) *CreateDatabaseStatement {
	s.Encoding = enc
	return s
}

// TemplateOpt sets TEMPLATE.
func (s *CreateDatabaseStatement) TemplateOpt(tpl string) *CreateDatabaseStatement {
	s.Template = tpl
	return s
}

// Take moves all fields out of the builder, leaving it empty.
func (s *CreateDatabaseStatement) Take() *CreateDatabaseStatement {
	out := *s
	*s = CreateDatabaseStatement{}
	return &out
}

// Validate checks structural invariants without mutating the builder.
func (s *CreateDatabaseStatement) Validate() error {
	return validateIdent("create database", s.Name)
}

// DropDatabaseStatement is the builder for DROP DATABASE.
type DropDatabaseStatement struct {
	Name     string
	IfExists bool
}

func (*DropDatabaseStatement) stmtNode() {}

// IfExistsOpt adds IF EXISTS.
func (s *DropDatabaseStatement) IfExistsOpt() *DropDatabaseStatement {
	s.IfExists = true
	return s
}

// Take moves all fields out of the builder, leaving it empty.
func (s *DropDatabaseStatement) Take() *DropDatabaseStatement {
	out := *s
	*s = DropDatabaseStatement{}
	return &out
}

// Validate checks structural invariants without mutating the builder.
func (s *DropDatabaseStatement) Validate() error {
	return validateIdent("drop database", s.Name)
}
