/*
Package sparse implements a simple type for sparse matrices.
It is mainly used for parser tables (LR action/goto tables and LL(1) tables).
Every entry in the table is a list of values. Parser tables for grammars
which are not deterministic for a given parser class will carry more than
one value in some entries.

This implementation uses the COO algorithm (a.k.a. triplet-encoding).

	https://medium.com/@jmaxg3/101-ways-to-store-a-sparse-matrix-c7f2bf15a229
	https://www.coin-or.org/Ipopt/documentation/node38.html

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package sparse

import (
	"fmt"
)

// Matrix is a type for a sparse matrix of value lists. Construct with
//
//	M := NewMatrix[int](10, 10)
//
// Now
//
//	M.Add(2, 3, 4711)              // add a value
//	v := M.Values(2, 3)            // returns [4711]
//	M.Add(2, 3, 123)               // add a second value
//	cnt := M.ValueCount()          // still returns 1 (one position set)
//	v = M.Values(10, 10)           // returns nil
//
// Values cannot be deleted. Values are kept in the order they have been added.
type Matrix[T any] struct {
	values []triplet[T]
	rowcnt int
	colcnt int
}

// Triplet values to store
type triplet[T any] struct {
	row, col int
	values   []T
}

// NewMatrix creates a new matrix, size m x n. The dimensions are informational
// only: the matrix will grow if values are added outside of m x n.
func NewMatrix[T any](m, n int) *Matrix[T] {
	return &Matrix[T]{
		values: []triplet[T]{},
		rowcnt: m,
		colcnt: n,
	}
}

// M returns the row count.
func (m *Matrix[T]) M() int {
	return m.rowcnt
}

// N returns the column count.
func (m *Matrix[T]) N() int {
	return m.colcnt
}

// ValueCount returns the number of positions in the matrix which carry values.
func (m *Matrix[T]) ValueCount() int {
	return len(m.values)
}

// Value returns the first value at position (i,j) and true, or the
// zero-value of T and false if (i,j) is empty.
func (m *Matrix[T]) Value(i, j int) (T, bool) {
	if vals := m.Values(i, j); len(vals) > 0 {
		return vals[0], true
	}
	var zero T
	return zero, false
}

// Values returns all the values at position (i,j), or nil.
// Clients must not modify the returned slice.
func (m *Matrix[T]) Values(i, j int) []T {
	for _, t := range m.values {
		if !t.storedLeftOf(i, j) { // have skipped all lesser indices
			if t.storedAt(i, j) {
				return t.values
			}
			break
		}
	}
	return nil
}

// Add appends a value to the list of values at position (i,j).
func (m *Matrix[T]) Add(i, j int, value T) *Matrix[T] {
	if i < 0 || j < 0 {
		panic(fmt.Sprintf("sparse.Matrix.Add() with index < 0: (%d,%d)", i, j))
	}
	at := 0 // will be position of new value
	for k, t := range m.values {
		if !t.storedLeftOf(i, j) { // have skipped all lesser indices
			if t.storedAt(i, j) { // values already present
				m.values[k].values = append(m.values[k].values, value)
				return m // and done
			}
			break // no old value present
		}
		at++
	}
	if i >= m.rowcnt {
		m.rowcnt = i + 1
	}
	if j >= m.colcnt {
		m.colcnt = j + 1
	}
	tnew := triplet[T]{row: i, col: j, values: []T{value}}
	// the following 3 lines have to work for k being the right edge of v or not
	m.values = append(m.values, tnew)    // make room
	copy(m.values[at+1:], m.values[at:]) // copy remainder values one index to right
	m.values[at] = tnew                  // if not append-case: insert new triplet
	return m
}

// Each calls f for every non-empty position of the matrix, in row-major order.
func (m *Matrix[T]) Each(f func(i, j int, values []T)) {
	for _, t := range m.values {
		f(t.row, t.col, t.values)
	}
}

// Row calls f for every non-empty position of row i, in column order.
func (m *Matrix[T]) Row(i int, f func(j int, values []T)) {
	for _, t := range m.values {
		if t.row < i {
			continue
		} else if t.row > i {
			break
		}
		f(t.col, t.values)
	}
}

func (t *triplet[T]) storedLeftOf(i, j int) bool {
	return t.row < i || t.row == i && t.col < j
}

func (t *triplet[T]) storedAt(i, j int) bool {
	return (t.row == i && t.col == j)
}
