// Package ddl holds the dialect-neutral schema model: column and index
// definitions plus the ALTER TABLE operation set consumed by the schema
// editors in backend/schema.
package ddl

import "strings"

// Column type constants. These name logical types; each dialect maps them
// to its own storage types at compile time.
const (
	SmallintType  = "smallint"
	IntegerType   = "integer"
	BigintType    = "bigint"
	DecimalType   = "decimal"
	FloatType     = "float"
	BooleanType   = "boolean"
	StringType    = "string"
	TextType      = "text"
	TimestampType = "timestamp"
	BinaryType    = "binary"
	JSONType      = "json"
	UUIDType      = "uuid"
)

// ColumnDefinition describes one column of a table.
type ColumnDefinition struct {
	Name       string
	Type       string
	Length     *int
	Precision  *int
	Scale      *int
	Nullable   bool
	Default    *string // nil = no default; &"" = empty-string default
	Unique     bool
	PrimaryKey bool
	ForeignKey string
}

// IndexDefinition describes an index on a table.
type IndexDefinition struct {
	Name    string
	Columns []string
	Unique  bool
}

// GenerateIndexName derives an index name from table and column names.
func GenerateIndexName(tableName string, columns []string) string {
	return "idx_" + tableName + "_" + strings.Join(columns, "_")
}

// OperationType identifies one kind of table alteration.
type OperationType string

const (
	OpAddColumn      OperationType = "add_column"
	OpDropColumn     OperationType = "drop_column"
	OpRenameColumn   OperationType = "rename_column"
	OpChangeType     OperationType = "change_type"
	OpChangeNullable OperationType = "change_nullable"
	OpChangeDefault  OperationType = "change_default"
	OpAddIndex       OperationType = "add_index"
	OpDropIndex      OperationType = "drop_index"
)

// TableOperation is a single alteration applied by a schema editor.
type TableOperation struct {
	Type      OperationType
	Column    string
	NewName   string
	ColumnDef *ColumnDefinition
	IndexDef  *IndexDefinition
	IndexName string
	NewType   string
	Nullable  *bool
	Default   *string
}
