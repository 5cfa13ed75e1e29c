// Package value provides the typed, nullable parameter representation shared
// by the statement builders and the dialect compilers.
//
// A Value is a tagged union over the SQL scalar kinds. Every kind has an
// explicit NULL variant: there is no "absent means NULL" shortcut, so a
// caller can always distinguish "bind NULL for this column" from "do not
// bind this column at all". Values are immutable once constructed.
package value

import (
	"fmt"
	"time"
)

// Kind identifies the SQL scalar kind carried by a Value.
type Kind int

const (
	KindTinyInt Kind = iota
	KindSmallInt
	KindInt
	KindBigInt
	KindTinyUnsigned
	KindSmallUnsigned
	KindUnsigned
	KindBigUnsigned
	KindString
	KindBool
	KindBytes
	KindDecimal
	KindTimestamp
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindTinyInt:
		return "tinyint"
	case KindSmallInt:
		return "smallint"
	case KindInt:
		return "int"
	case KindBigInt:
		return "bigint"
	case KindTinyUnsigned:
		return "tinyint unsigned"
	case KindSmallUnsigned:
		return "smallint unsigned"
	case KindUnsigned:
		return "int unsigned"
	case KindBigUnsigned:
		return "bigint unsigned"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindBytes:
		return "bytes"
	case KindDecimal:
		return "decimal"
	case KindTimestamp:
		return "timestamp"
	default:
		return "unknown"
	}
}

// Value is one bound SQL parameter. The zero Value is a NULL bigint;
// construct values with the typed constructors below.
type Value struct {
	kind Kind
	null bool

	// Exactly one of these is meaningful for a non-null value,
	// selected by kind.
	i64   int64
	u64   uint64
	str   string // string and decimal kinds
	b     bool
	bytes []byte
	ts    time.Time
}

// --- Constructors ---

// TinyInt returns an int8 value.
func TinyInt(v int8) Value { return Value{kind: KindTinyInt, i64: int64(v)} }

// SmallInt returns an int16 value.
func SmallInt(v int16) Value { return Value{kind: KindSmallInt, i64: int64(v)} }

// Int returns an int32 value.
func Int(v int32) Value { return Value{kind: KindInt, i64: int64(v)} }

// BigInt returns an int64 value.
func BigInt(v int64) Value { return Value{kind: KindBigInt, i64: v} }

// TinyUnsigned returns a uint8 value.
func TinyUnsigned(v uint8) Value { return Value{kind: KindTinyUnsigned, u64: uint64(v)} }

// SmallUnsigned returns a uint16 value.
func SmallUnsigned(v uint16) Value { return Value{kind: KindSmallUnsigned, u64: uint64(v)} }

// Unsigned returns a uint32 value.
func Unsigned(v uint32) Value { return Value{kind: KindUnsigned, u64: uint64(v)} }

// BigUnsigned returns a uint64 value.
func BigUnsigned(v uint64) Value { return Value{kind: KindBigUnsigned, u64: v} }

// String returns a string value. Zero-length and non-ASCII strings
// round-trip unchanged through binding.
func String(v string) Value { return Value{kind: KindString, str: v} }

// Bool returns a boolean value.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// Bytes returns a binary value. The slice is copied so later caller
// mutation cannot leak into an already-built statement.
func Bytes(v []byte) Value {
	cp := make([]byte, len(v))
	copy(cp, v)
	return Value{kind: KindBytes, bytes: cp}
}

// Decimal returns an arbitrary-precision decimal value. Decimals are
// carried as strings so precision survives the driver boundary.
func Decimal(v string) Value { return Value{kind: KindDecimal, str: v} }

// Timestamp returns a timestamp value.
func Timestamp(v time.Time) Value { return Value{kind: KindTimestamp, ts: v} }

// Null returns the NULL variant of the given kind.
func Null(k Kind) Value { return Value{kind: k, null: true} }

// --- Accessors ---

// Kind returns the SQL kind of the value, NULL or not.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is SQL NULL.
func (v Value) IsNull() bool { return v.null }

// Arg returns the driver-level argument for this value: a Go scalar for
// non-null values, nil for NULL.
func (v Value) Arg() any {
	if v.null {
		return nil
	}
	switch v.kind {
	case KindTinyInt:
		return int8(v.i64)
	case KindSmallInt:
		return int16(v.i64)
	case KindInt:
		return int32(v.i64)
	case KindBigInt:
		return v.i64
	case KindTinyUnsigned:
		return uint8(v.u64)
	case KindSmallUnsigned:
		return uint16(v.u64)
	case KindUnsigned:
		return uint32(v.u64)
	case KindBigUnsigned:
		return v.u64
	case KindString, KindDecimal:
		return v.str
	case KindBool:
		return v.b
	case KindBytes:
		// Copy out so callers cannot mutate the stored bytes.
		cp := make([]byte, len(v.bytes))
		copy(cp, v.bytes)
		return cp
	case KindTimestamp:
		return v.ts
	default:
		return nil
	}
}

// --- Explicit conversions ---
//
// A Value never silently changes width. Conversions between integer kinds
// are explicit and fail on kind mismatch; narrowing fails on overflow.

// AsBigInt converts any signed integer kind to int64.
func (v Value) AsBigInt() (int64, error) {
	if v.null {
		return 0, fmt.Errorf("value: cannot convert NULL %s to bigint", v.kind)
	}
	switch v.kind {
	case KindTinyInt, KindSmallInt, KindInt, KindBigInt:
		return v.i64, nil
	default:
		return 0, fmt.Errorf("value: cannot convert %s to bigint", v.kind)
	}
}

// AsBigUnsigned converts any unsigned integer kind to uint64.
func (v Value) AsBigUnsigned() (uint64, error) {
	if v.null {
		return 0, fmt.Errorf("value: cannot convert NULL %s to bigint unsigned", v.kind)
	}
	switch v.kind {
	case KindTinyUnsigned, KindSmallUnsigned, KindUnsigned, KindBigUnsigned:
		return v.u64, nil
	default:
		return 0, fmt.Errorf("value: cannot convert %s to bigint unsigned", v.kind)
	}
}

// AsString returns the string payload of a string or decimal value.
func (v Value) AsString() (string, error) {
	if v.null {
		return "", fmt.Errorf("value: cannot convert NULL %s to string", v.kind)
	}
	switch v.kind {
	case KindString, KindDecimal:
		return v.str, nil
	default:
		return "", fmt.Errorf("value: cannot convert %s to string", v.kind)
	}
}

// AsBool returns the boolean payload.
func (v Value) AsBool() (bool, error) {
	if v.null || v.kind != KindBool {
		return false, fmt.Errorf("value: cannot convert %s to bool", v.kind)
	}
	return v.b, nil
}

// AsTimestamp returns the timestamp payload.
func (v Value) AsTimestamp() (time.Time, error) {
	if v.null || v.kind != KindTimestamp {
		return time.Time{}, fmt.Errorf("value: cannot convert %s to timestamp", v.kind)
	}
	return v.ts, nil
}

// Values is a positional parameter list. Index i corresponds to the i-th
// placeholder emitted by the compiler; keeping that alignment intact is
// the core invariant of the whole layer.
type Values []Value

// Args converts the list to driver arguments.
func (vs Values) Args() []any {
	args := make([]any, len(vs))
	for i, v := range vs {
		args[i] = v.Arg()
	}
	return args
}

// Clone returns a copy of the list. Statements that are reused clone
// their values instead of sharing the backing array.
func (vs Values) Clone() Values {
	cp := make(Values, len(vs))
	copy(cp, vs)
	return cp
}
