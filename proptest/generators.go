package proptest

import (
	"math"
)

// Charsets for string generation
const (
	CharsetAlpha      = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	CharsetAlphaLower = "abcdefghijklmnopqrstuvwxyz"
	CharsetDigits     = "0123456789"
	CharsetAlphaNum   = CharsetAlpha + CharsetDigits
	CharsetPrintable  = CharsetAlphaNum + " !\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"
	CharsetIdentStart = CharsetAlpha + "_"
	CharsetIdentBody  = CharsetAlphaNum + "_"
)

// Int returns a random int (can be negative).
func (g *Generator) Int() int {
	high := g.rng.Int31()
	if g.Bool() {
		high = -high
	}
	return int(high)
}

// IntRange returns a random int in [min, max].
// Panics if min > max.
func (g *Generator) IntRange(min, max int) int {
	if min > max {
		panic("proptest: IntRange min > max")
	}
	if min == max {
		return min
	}
	return min + g.rng.Intn(max-min+1)
}

// Int64Range returns a random int64 in [min, max].
// Panics if min > max.
func (g *Generator) Int64Range(min, max int64) int64 {
	if min > max {
		panic("proptest: Int64Range min > max")
	}
	if min == max {
		return min
	}
	return min + g.rng.Int63n(max-min+1)
}

// Uint64 returns a random uint64.
func (g *Generator) Uint64() uint64 {
	return uint64(g.rng.Int63())<<1 | uint64(g.rng.Int63n(2))
}

// String returns a random printable ASCII string of length [0, maxLen].
func (g *Generator) String(maxLen int) string {
	return g.StringFrom(CharsetPrintable, maxLen)
}

// StringFrom returns a random string using characters from the given charset,
// with length [0, maxLen].
func (g *Generator) StringFrom(charset string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	length := g.Intn(maxLen + 1)
	return g.stringOfLen(charset, length)
}

func (g *Generator) stringOfLen(charset string, length int) string {
	if length == 0 {
		return ""
	}
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[g.Intn(len(charset))]
	}
	return string(b)
}

// Identifier returns a valid identifier (starts with letter or underscore,
// followed by alphanumeric or underscore) of length [1, maxLen].
func (g *Generator) Identifier(maxLen int) string {
	if maxLen <= 0 {
		maxLen = 1
	}
	length := g.IntRange(1, maxLen)

	b := make([]byte, length)
	b[0] = CharsetIdentStart[g.Intn(len(CharsetIdentStart))]
	for i := 1; i < length; i++ {
		b[i] = CharsetIdentBody[g.Intn(len(CharsetIdentBody))]
	}
	return string(b)
}

// IdentifierLower returns a valid lowercase identifier of length [1, maxLen].
func (g *Generator) IdentifierLower(maxLen int) string {
	if maxLen <= 0 {
		maxLen = 1
	}
	length := g.IntRange(1, maxLen)

	const startChars = CharsetAlphaLower + "_"
	const bodyChars = CharsetAlphaLower + CharsetDigits + "_"

	b := make([]byte, length)
	b[0] = startChars[g.Intn(len(startChars))]
	for i := 1; i < length; i++ {
		b[i] = bodyChars[g.Intn(len(bodyChars))]
	}
	return string(b)
}

// Bytes returns a random byte slice of length [0, maxLen].
func (g *Generator) Bytes(maxLen int) []byte {
	if maxLen <= 0 {
		return nil
	}
	length := g.Intn(maxLen + 1)
	b := make([]byte, length)
	for i := range b {
		b[i] = byte(g.Intn(256))
	}
	return b
}

// EdgeCaseInt returns an int that's likely to trigger edge cases.
func (g *Generator) EdgeCaseInt() int {
	edgeCases := []int{
		0, 1, -1,
		math.MaxInt32, math.MinInt32,
		math.MaxInt, math.MinInt,
		127, -128, 255, 256, 65535, 65536,
	}
	// 50% chance of edge case, 50% chance of random
	if g.Bool() {
		return edgeCases[g.Intn(len(edgeCases))]
	}
	return g.Int()
}

// EdgeCaseString returns a string that's likely to trigger edge cases
// when embedded in SQL.
func (g *Generator) EdgeCaseString() string {
	edgeCases := []string{
		"",
		" ",
		"\t",
		"\n",
		"'",
		"''",
		`"`,
		`""`,
		`\`,
		"it's",
		`say "hello"`,
		"line1\nline2",
		"NULL",
		"null",
		"true",
		"false",
		"0",
		"-1",
		"123.456",
		"日本語",
		"🎉",
		"--",
		"/**/",
		"; DROP TABLE users;",
		"SELECT * FROM",
	}
	// 70% chance of edge case, 30% chance of random
	if g.Float64() < 0.7 {
		return edgeCases[g.Intn(len(edgeCases))]
	}
	return g.String(50)
}

// EdgeCaseIdentifier returns an identifier that might be a reserved word.
func (g *Generator) EdgeCaseIdentifier() string {
	reservedWords := []string{
		"select", "from", "where", "table", "index",
		"create", "drop", "alter", "insert", "update",
		"delete", "and", "or", "not", "null", "true",
		"false", "is", "in", "like", "between", "join",
		"order", "by", "group", "having", "limit",
		"offset", "union", "all", "distinct", "user",
		"key", "primary", "foreign", "references",
		"constraint", "unique", "check", "default",
	}
	// 50% reserved word, 50% random identifier
	if g.Bool() {
		return reservedWords[g.Intn(len(reservedWords))]
	}
	return g.Identifier(20)
}
