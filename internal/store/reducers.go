package store

// Identifiable is any entity carrying a server id
type Identifiable interface {
	GetID() int64
}

// Append returns a new slice with item at the end
func Append[T any](list []T, item T) []T {
	out := make([]T, 0, len(list)+1)
	out = append(out, list...)
	return append(out, item)
}

// ReplaceByID returns a new slice where the entry with the given id is
// replaced by item. The slice is returned unchanged when no entry matches.
func ReplaceByID[T Identifiable](list []T, id int64, item T) []T {
	out := make([]T, len(list))
	for i, existing := range list {
		if existing.GetID() == id {
			out[i] = item
		} else {
			out[i] = existing
		}
	}
	return out
}

// RemoveByID returns a new slice without the entries with the given id
func RemoveByID[T Identifiable](list []T, id int64) []T {
	out := make([]T, 0, len(list))
	for _, existing := range list {
		if existing.GetID() != id {
			out = append(out, existing)
		}
	}
	return out
}

func cloneSlice[T any](list []T) []T {
	if list == nil {
		return nil
	}
	out := make([]T, len(list))
	copy(out, list)
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
