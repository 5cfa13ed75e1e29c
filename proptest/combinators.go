package proptest

// Pick returns a random element from a non-empty slice. Panics if the
// slice is empty.
func Pick[T any](g *Generator, slice []T) T {
	if len(slice) == 0 {
		panic("proptest: Pick called with empty slice")
	}
	return slice[g.Intn(len(slice))]
}

// OneOf returns a random element from the provided values. Panics if
// none are given.
func OneOf[T any](g *Generator, values ...T) T {
	if len(values) == 0 {
		panic("proptest: OneOf called with no values")
	}
	return values[g.Intn(len(values))]
}

// Slice generates a slice of length [0, maxLen] from gen.
func Slice[T any](g *Generator, maxLen int, gen func(*Generator) T) []T {
	if maxLen <= 0 {
		return nil
	}
	return SliceExact(g, g.Intn(maxLen+1), gen)
}

// SliceExact generates a slice of exactly the given length from gen.
func SliceExact[T any](g *Generator, length int, gen func(*Generator) T) []T {
	result := make([]T, length)
	for i := range result {
		result[i] = gen(g)
	}
	return result
}

// Shuffle returns a shuffled copy of the slice.
func Shuffle[T any](g *Generator, slice []T) []T {
	result := make([]T, len(slice))
	copy(result, slice)
	g.rng.Shuffle(len(result), func(i, j int) {
		result[i], result[j] = result[j], result[i]
	})
	return result
}

// UniqueIdentifiers generates up to n distinct identifiers. Useful for
// column lists, where duplicate names would make a statement invalid
// for reasons unrelated to the property under test.
func (g *Generator) UniqueIdentifiers(n, maxLen int) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, n)
	for attempts := 0; attempts < n*10 && len(result) < n; attempts++ {
		s := g.IdentifierLower(maxLen)
		if !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	return result
}
