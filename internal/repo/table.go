package repo

import (
	"sync"
)

// Row is an entity that can be stored in a Table
type Row[T any] interface {
	GetID() int64
	WithID(id int64) T
}

// Table is an in-memory, insertion-ordered collection with sequential ids.
// It backs the stub API.
type Table[T Row[T]] struct {
	mu     sync.RWMutex
	rows   []T
	nextID int64
}

// NewTable creates an empty table whose first id is 1
func NewTable[T Row[T]]() *Table[T] {
	return &Table[T]{nextID: 1}
}

// List returns the rows matching keep (all rows when keep is nil)
func (t *Table[T]) List(keep func(T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]T, 0, len(t.rows))
	for _, row := range t.rows {
		if keep == nil || keep(row) {
			out = append(out, row)
		}
	}
	return out
}

// Get returns the row with the given id
func (t *Table[T]) Get(id int64) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, row := range t.rows {
		if row.GetID() == id {
			return row, true
		}
	}
	var zero T
	return zero, false
}

// Find returns the first row matching match
func (t *Table[T]) Find(match func(T) bool) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, row := range t.rows {
		if match(row) {
			return row, true
		}
	}
	var zero T
	return zero, false
}

// Insert assigns the next id and stores the row
func (t *Table[T]) Insert(row T) T {
	t.mu.Lock()
	defer t.mu.Unlock()

	row = row.WithID(t.nextID)
	t.nextID++
	t.rows = append(t.rows, row)
	return row
}

// InsertUnique stores the row unless conflict matches an existing row
func (t *Table[T]) InsertUnique(row T, conflict func(T) bool) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, existing := range t.rows {
		if conflict(existing) {
			var zero T
			return zero, false
		}
	}
	row = row.WithID(t.nextID)
	t.nextID++
	t.rows = append(t.rows, row)
	return row, true
}

// Update applies fn to the row with the given id and stores the result
func (t *Table[T]) Update(id int64, fn func(T) (T, error)) (T, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var zero T
	for i, row := range t.rows {
		if row.GetID() != id {
			continue
		}
		updated, err := fn(row)
		if err != nil {
			return zero, true, err
		}
		updated = updated.WithID(id)
		t.rows[i] = updated
		return updated, true, nil
	}
	return zero, false, nil
}

// Delete removes the row with the given id
func (t *Table[T]) Delete(id int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, row := range t.rows {
		if row.GetID() == id {
			t.rows = append(t.rows[:i], t.rows[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of rows
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}
