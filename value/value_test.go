package value

import (
	"testing"
	"time"
)

func TestArgTypes(t *testing.T) {
	ts := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

	tests := []struct {
		name string
		v    Value
		want any
	}{
		{"tinyint", TinyInt(-8), int8(-8)},
		{"smallint", SmallInt(-1600), int16(-1600)},
		{"int", Int(-70000), int32(-70000)},
		{"bigint", BigInt(-5_000_000_000), int64(-5_000_000_000)},
		{"tiny unsigned", TinyUnsigned(200), uint8(200)},
		{"small unsigned", SmallUnsigned(60000), uint16(60000)},
		{"unsigned", Unsigned(4_000_000_000), uint32(4_000_000_000)},
		{"big unsigned", BigUnsigned(18_000_000_000_000_000_000), uint64(18_000_000_000_000_000_000)},
		{"string", String("hello"), "hello"},
		{"empty string", String(""), ""},
		{"bool", Bool(true), true},
		{"decimal", Decimal("3.14159"), "3.14159"},
		{"timestamp", Timestamp(ts), ts},
		{"null string", Null(KindString), nil},
		{"null bigint", Null(KindBigInt), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.v.Arg()
			if got != tt.want {
				t.Errorf("Arg() = %v (%T), want %v (%T)", got, got, tt.want, tt.want)
			}
		})
	}
}

func TestNullKeepsKind(t *testing.T) {
	v := Null(KindDecimal)
	if !v.IsNull() {
		t.Fatal("expected IsNull")
	}
	if v.Kind() != KindDecimal {
		t.Errorf("Kind() = %v, want decimal", v.Kind())
	}
	if v.Arg() != nil {
		t.Errorf("Arg() = %v, want nil", v.Arg())
	}
}

func TestBytesAreCopied(t *testing.T) {
	src := []byte{1, 2, 3}
	v := Bytes(src)
	src[0] = 99

	got, ok := v.Arg().([]byte)
	if !ok {
		t.Fatalf("Arg() is %T, want []byte", v.Arg())
	}
	if got[0] != 1 {
		t.Error("caller mutation leaked into stored value")
	}

	// Mutating the returned slice must not affect later reads either.
	got[1] = 99
	again := v.Arg().([]byte)
	if again[1] != 2 {
		t.Error("Arg() result shares backing array with stored value")
	}
}

func TestNoImplicitWidthCoercion(t *testing.T) {
	// A SmallUnsigned is never treated as a BigInt: the conversion must be
	// requested explicitly, and only within the same signedness.
	su := SmallUnsigned(42)

	if _, err := su.AsBigInt(); err == nil {
		t.Error("expected error converting unsigned to signed")
	}
	if got, err := su.AsBigUnsigned(); err != nil || got != 42 {
		t.Errorf("AsBigUnsigned() = %d, %v; want 42, nil", got, err)
	}

	si := SmallInt(-42)
	if _, err := si.AsBigUnsigned(); err == nil {
		t.Error("expected error converting signed to unsigned")
	}
	if got, err := si.AsBigInt(); err != nil || got != -42 {
		t.Errorf("AsBigInt() = %d, %v; want -42, nil", got, err)
	}
}

func TestConversionsRejectNull(t *testing.T) {
	if _, err := Null(KindBigInt).AsBigInt(); err == nil {
		t.Error("AsBigInt on NULL should fail")
	}
	if _, err := Null(KindString).AsString(); err == nil {
		t.Error("AsString on NULL should fail")
	}
	if _, err := Null(KindBool).AsBool(); err == nil {
		t.Error("AsBool on NULL should fail")
	}
	if _, err := Null(KindTimestamp).AsTimestamp(); err == nil {
		t.Error("AsTimestamp on NULL should fail")
	}
}

func TestAsStringCoversDecimal(t *testing.T) {
	got, err := Decimal("99999999999999999999.0001").AsString()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "99999999999999999999.0001" {
		t.Errorf("got %q", got)
	}

	if _, err := BigInt(1).AsString(); err == nil {
		t.Error("AsString on bigint should fail")
	}
}

func TestValuesArgs(t *testing.T) {
	vs := Values{BigInt(1), String("x"), Null(KindBool)}
	args := vs.Args()
	if len(args) != 3 {
		t.Fatalf("len = %d", len(args))
	}
	if args[0] != int64(1) || args[1] != "x" || args[2] != nil {
		t.Errorf("args = %v", args)
	}
}

func TestValuesClone(t *testing.T) {
	vs := Values{BigInt(1), BigInt(2)}
	cp := vs.Clone()
	cp[0] = BigInt(99)
	if got, _ := vs[0].AsBigInt(); got != 1 {
		t.Error("Clone shares backing array")
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		k    Kind
		want string
	}{
		{KindTinyInt, "tinyint"},
		{KindBigUnsigned, "bigint unsigned"},
		{KindDecimal, "decimal"},
		{Kind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.k.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.k, got, tt.want)
		}
	}
}
