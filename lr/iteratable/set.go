/*
Package iteratable implements an iteratable container data structure.

Set is a special purpose ordered set type, suitable mainly for
implementing the fixed-point constructions around LR parser generation
(closures, goto-sets, the canonical collection). These algorithms are
more straightforward to describe as set constructions and operations.

Unusually, Add and Union are destructive, and iteration visits
elements that are appended while the iteration is running. The closure
computation relies on exactly this property: it walks a set and unions
new items into it until the walk runs out of elements.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2025 The pylite authors
*/
package iteratable

// Set is an ordered set of comparable values. The zero value is not
// usable; create sets with NewSet.
type Set struct {
	items  []interface{}
	cursor int
}

// NewSet creates an empty set. The capacity hint may be 0.
func NewSet(capacity int) *Set {
	if capacity < 0 {
		capacity = 0
	}
	return &Set{
		items:  make([]interface{}, 0, capacity),
		cursor: -1,
	}
}

// Add inserts item into the set, unless it is already present.
// Insertion order is preserved.
func (s *Set) Add(item interface{}) {
	if s.Contains(item) {
		return
	}
	s.items = append(s.items, item)
}

// Contains reports membership. Elements are compared with ==.
func (s *Set) Contains(item interface{}) bool {
	for _, it := range s.items {
		if it == item {
			return true
		}
	}
	return false
}

// Size returns the number of elements in the set.
func (s *Set) Size() int {
	return len(s.items)
}

// Empty is true for sets without elements. A nil set is empty.
func (s *Set) Empty() bool {
	return s == nil || len(s.items) == 0
}

// Values returns the elements in insertion order. The returned slice
// is a copy.
func (s *Set) Values() []interface{} {
	vals := make([]interface{}, len(s.items))
	copy(vals, s.items)
	return vals
}

// Copy returns a new set with the same elements.
func (s *Set) Copy() *Set {
	c := NewSet(len(s.items))
	c.items = append(c.items, s.items...)
	return c
}

// Union adds all elements of other to s (destructive).
func (s *Set) Union(other *Set) {
	if other == nil {
		return
	}
	for _, it := range other.items {
		s.Add(it)
	}
}

// Difference returns a new set holding the elements of s which are not
// members of other. s is left untouched.
func (s *Set) Difference(other *Set) *Set {
	d := NewSet(0)
	for _, it := range s.items {
		if other == nil || !other.Contains(it) {
			d.Add(it)
		}
	}
	return d
}

// Equals is set equality, i.e. independent of insertion order.
func (s *Set) Equals(other *Set) bool {
	if other == nil {
		return s.Empty()
	}
	if len(s.items) != len(other.items) {
		return false
	}
	for _, it := range s.items {
		if !other.Contains(it) {
			return false
		}
	}
	return true
}

// IterateOnce starts (or restarts) an iteration over the set. Clients
// call it once, then advance with Next and read with Item. Elements
// added during the iteration will be visited, each element once.
func (s *Set) IterateOnce() {
	s.cursor = -1
}

// Next advances the iteration and reports whether an element is
// available.
func (s *Set) Next() bool {
	s.cursor++
	return s.cursor < len(s.items)
}

// Item returns the element at the current iteration position.
func (s *Set) Item() interface{} {
	return s.items[s.cursor]
}
