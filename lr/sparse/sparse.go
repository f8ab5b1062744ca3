/*
Package sparse implements a simple type for sparse integer matrices.
It is used for the parser tables (GOTO-table and ACTION-table). Every
entry in the table is either a single int32 or a pair (int32,int32);
the secondary slot records the losing entry of a resolved table
collision for diagnostics.

This implementation uses the COO algorithm (a.k.a. triplet-encoding).

   https://medium.com/@jmaxg3/101-ways-to-store-a-sparse-matrix-c7f2bf15a229

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2025 The pylite authors
*/
package sparse

import "fmt"

// IntMatrix is a sparse matrix of int32 values. Construct with
//
//     M := NewIntMatrix(10, 10, -1)   // last parameter is M's null-value
//
// Now
//
//     M.Set(2, 3, 4711)               // set a value
//     v := M.Value(2, 3)              // returns 4711
//     M.Add(2, 3, 123)                // add a secondary value
//     v = M.Value(9, 9)               // returns -1, i.e. the null-value
//
// Values cannot be deleted, but may be overwritten.
type IntMatrix struct {
	values  []triplet
	rowcnt  int
	colcnt  int
	nullval int32
}

// Triplet values to store.
type triplet struct {
	row, col int
	value    intPair
}

// we store up to 2 int32 per position
type intPair struct {
	a int32
	b int32
}

func (pr intPair) String() string {
	return fmt.Sprintf("[%d,%d]", pr.a, pr.b)
}

// DefaultNullValue is the default empty-value for matrices (min int32).
const DefaultNullValue = -2147483648

// NewIntMatrix creates a matrix of size m x n. The 3rd argument is the
// null-value indicating empty entries (use DefaultNullValue if you
// haven't any specific requirements).
func NewIntMatrix(m, n int, nullValue int32) *IntMatrix {
	return &IntMatrix{
		values:  []triplet{},
		rowcnt:  m,
		colcnt:  n,
		nullval: nullValue,
	}
}

// M returns the row count.
func (m *IntMatrix) M() int {
	return m.rowcnt
}

// N returns the column count.
func (m *IntMatrix) N() int {
	return m.colcnt
}

// NullValue returns this matrix' null value.
func (m *IntMatrix) NullValue() int32 {
	return m.nullval
}

// ValueCount returns the number of occupied positions.
func (m *IntMatrix) ValueCount() int {
	return len(m.values)
}

// Value returns the primary value at position (i,j), or NullValue.
func (m *IntMatrix) Value(i, j int) int32 {
	for _, t := range m.values {
		if !t.storedLeftOf(i, j) { // have skipped all lesser indices
			if t.storedAt(i, j) {
				return t.value.a
			}
			break
		}
	}
	return m.nullval
}

// Values returns the pair of values at position (i,j), or
// (NullValue, NullValue).
func (m *IntMatrix) Values(i, j int) (int32, int32) {
	for _, t := range m.values {
		if !t.storedLeftOf(i, j) {
			if t.storedAt(i, j) {
				return t.value.a, t.value.b
			}
			break
		}
	}
	return m.nullval, m.nullval
}

// Set stores value as the primary entry at (i,j), clearing any
// secondary entry.
func (m *IntMatrix) Set(i, j int, value int32) *IntMatrix {
	return m.setOrAdd(i, j, value, false)
}

// Add stores value in the first free slot at (i,j).
func (m *IntMatrix) Add(i, j int, value int32) *IntMatrix {
	return m.setOrAdd(i, j, value, true)
}

func (m *IntMatrix) setOrAdd(i, j int, value int32, doAdd bool) *IntMatrix {
	at := 0 // will be position of new value
	for k, t := range m.values {
		if !t.storedLeftOf(i, j) { // have skipped all lesser indices
			if t.storedAt(i, j) { // value already present
				if doAdd {
					v := m.values[k].value
					m.values[k].value = addIntValue(v, value, m.nullval)
				} else {
					m.values[k].value = intPair{value, m.nullval}
				}
				return m
			}
			break // no old value present
		}
		at++
	}
	tnew := triplet{row: i, col: j, value: intPair{value, m.nullval}}
	// the following 3 lines have to work for at being the right edge or not
	m.values = append(m.values, tnew)    // make room
	copy(m.values[at+1:], m.values[at:]) // shift remainder one to the right
	m.values[at] = tnew
	return m
}

func addIntValue(v intPair, n int32, nullval int32) intPair {
	if v.a == nullval {
		v.a = n
	} else {
		// primary is taken, overwrite the secondary slot
		v.b = n
	}
	return v
}

func (t *triplet) storedLeftOf(i, j int) bool {
	return t.row < i || t.row == i && t.col < j
}

func (t *triplet) storedAt(i, j int) bool {
	return t.row == i && t.col == j
}
