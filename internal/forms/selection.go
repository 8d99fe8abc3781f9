package forms

// Option pairs a candidate item with its form selection state.
type Option[T any] struct {
	Item    T
	Checked bool
}

// MarkSelected annotates every candidate with whether its id string
// appears in the selected list. The candidate slice is never mutated;
// callers get a fresh view they can hand to a template. Selected ids
// with no matching candidate are ignored.
func MarkSelected[T any](items []T, selected []string, idOf func(T) string) []Option[T] {
	chosen := make(map[string]struct{}, len(selected))
	for _, id := range selected {
		chosen[id] = struct{}{}
	}

	options := make([]Option[T], len(items))
	for i, item := range items {
		_, checked := chosen[idOf(item)]
		options[i] = Option[T]{Item: item, Checked: checked}
	}
	return options
}
