package domain

// GenerateCombinations expands product attributes into the full cartesian
// product of option choices. Attributes with no name or no options are
// skipped rather than collapsing the result to nothing. When every attribute
// is degenerate the result is empty, marking a simple product without
// variants.
func GenerateCombinations(attrs []Attribute) []ValueTuple {
	effective := make([]Attribute, 0, len(attrs))
	for _, a := range attrs {
		if a.Degenerate() {
			continue
		}
		effective = append(effective, a)
	}
	if len(effective) == 0 {
		return nil
	}

	size := 1
	for _, a := range effective {
		size *= len(a.Options)
	}
	out := make([]ValueTuple, 0, size)

	var walk func(idx int, current ValueTuple)
	walk = func(idx int, current ValueTuple) {
		if idx == len(effective) {
			out = append(out, current.Clone())
			return
		}
		attr := effective[idx]
		for _, opt := range attr.Options {
			current[attr.Name] = opt
			walk(idx+1, current)
		}
		delete(current, attr.Name)
	}
	walk(0, ValueTuple{})

	return out
}

// ReconcileVariants builds the variant list for a new set of combinations
// while preserving stock, price override and identity of any previous
// variant whose value tuple still exists. Combinations with no prior match
// start at zero stock, no override, and a fresh ID from newID. Previous
// variants whose tuple no longer appears are dropped along with their stock.
func ReconcileVariants(tuples []ValueTuple, previous []Variant, newID func() string) []Variant {
	out := make([]Variant, 0, len(tuples))
	for _, tuple := range tuples {
		matched := false
		for _, prev := range previous {
			if prev.Values.Equal(tuple) {
				kept := prev
				kept.Values = tuple.Clone()
				out = append(out, kept)
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		out = append(out, Variant{
			ID:     newID(),
			Values: tuple.Clone(),
			Stock:  0,
		})
	}
	return out
}
