package mapz

// MultiMap represents a map that can contain 1 or more values for each key.
// Keys iterate in first-insertion order and values in each key's bucket are
// unique, in the order they were first added.
type MultiMap[T comparable, Q comparable] struct {
	keys  []T
	items map[T][]Q
}

// NewMultiMap initializes a new MultiMap.
func NewMultiMap[T comparable, Q comparable]() *MultiMap[T, Q] {
	return &MultiMap[T, Q]{items: map[T][]Q{}}
}

// Add inserts the value into the map at the given key. Adding a value already
// present under the key is a no-op.
func (mm *MultiMap[T, Q]) Add(key T, item Q) {
	existing, ok := mm.items[key]
	if !ok {
		mm.keys = append(mm.keys, key)
	}
	for _, e := range existing {
		if e == item {
			return
		}
	}
	mm.items[key] = append(existing, item)
}

// Touch ensures the key is present, even with no values.
func (mm *MultiMap[T, Q]) Touch(key T) {
	if _, ok := mm.items[key]; !ok {
		mm.keys = append(mm.keys, key)
		mm.items[key] = nil
	}
}

// Has returns true if the key is found in the map.
func (mm *MultiMap[T, Q]) Has(key T) bool {
	_, ok := mm.items[key]
	return ok
}

// Get returns the values stored in the map for the provided key and whether
// the key existed.
func (mm *MultiMap[T, Q]) Get(key T) ([]Q, bool) {
	found, ok := mm.items[key]
	if !ok {
		return []Q{}, false
	}
	return append([]Q(nil), found...), true
}

// IsEmpty returns true if the map is currently empty.
func (mm *MultiMap[T, Q]) IsEmpty() bool { return len(mm.keys) == 0 }

// Len returns the number of keys present.
func (mm *MultiMap[T, Q]) Len() int { return len(mm.keys) }

// Keys returns the keys of the map in insertion order.
func (mm *MultiMap[T, Q]) Keys() []T {
	return append([]T(nil), mm.keys...)
}
