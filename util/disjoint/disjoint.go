// Hornsolve
// Copyright (C) 2024+ the project contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package disjoint implements a "disjoint-set data structure", otherwise known
// as the "union-find data structure" which is commonly used for unification of
// logic variables, among other things.
//
// You create new elements with the NewElem function, which returns an Elem that
// has both Union and Find methods available. Each Elem can store some typed
// data associated with it, and as a result, this uses golang generics.
//
// The Union method merges two elements into the same set. The Find method picks
// a representative element for that set. Unless you change the contents of a
// set, any elements Find method will always return the same representative
// element for that set, and so this can be used to build the IsConnected
// function quite easily.
//
// Every mutation can optionally be recorded in a Log. A Log can later undo all
// of the mutations that happened after a particular point, which is what a
// backtracking search needs when it abandons a branch. To keep the undo exact,
// Find does not perform path compression. Union by rank alone keeps the trees
// logarithmic in height.
//
// This package does not attempt to be thread-safe, and as a result, make sure
// to wrap this with the synchronization primitives of your choosing.
//
// https://en.wikipedia.org/wiki/Disjoint-set_data_structure
package disjoint

// NewElem creates a new set with one element and returns the sole element (the
// representative element) of that set.
func NewElem[T any]() *Elem[T] {
	obj := &Elem[T]{}
	obj.parent = obj // initially point to self
	return obj
}

// Elem is the "node" or "element" type for objects contained in the set. It has
// a single Data field which can be used to store some user data.
type Elem[T any] struct {
	// Data is some data that the user might want to store with this element.
	// Only the data of the representative element is meaningful for a set.
	Data T

	// parent is the parent element that we link to. This points to ourself
	// if we are the root (representative element) of the set.
	parent *Elem[T]

	// rank is used for union by rank, a node stores its rank, which is an
	// upper bound for its height. To merge trees with roots x and y, first
	// compare their ranks. If the ranks are different, then the larger rank
	// tree becomes the parent. If the ranks are the same, then either one
	// can become the parent, but the new parent's rank is incremented.
	rank int
}

// Union combines two elements into the same set. If the elements are already
// part of the same set, then nothing changes. This is not recorded in any Log.
func (obj *Elem[T]) Union(elem *Elem[T]) {
	union(obj, elem, nil)
}

// Find returns the representative element of the set. The same element will
// always be returned when this is called on any element in that same set.
func (obj *Elem[T]) Find() *Elem[T] {
	for obj != obj.parent { // search until we reach the sentinel root value
		obj = obj.parent
	}
	return obj
}

// IsConnected returns true if the two elements are part of the same set. Since
// any set must return the same representative element for it, by comparing this
// value for each element, we can determine if they're connected.
func IsConnected[T any](elem1, elem2 *Elem[T]) bool {
	return elem1.Find() == elem2.Find()
}

// Merge runs the Union operation on the sets of two elements, after running a
// merge function which computes the new data for the representative element
// out of the data of each of the two representatives. If the merge function
// errors, nothing changes. If log is not nil, the change is recorded in it.
func Merge[T any](elem1, elem2 *Elem[T], merge func(T, T) (T, error), log *Log[T]) error {
	root1, root2 := elem1.Find(), elem2.Find()
	data, err := merge(root1.Data, root2.Data) // compute the merged data
	if err != nil {
		return err
	}
	if root1 == root2 {
		SetData(root1, data, log)
		return nil
	}

	root := union(root1, root2, log) // union always succeeds
	SetData(root, data, log)         // store the merged data in that element

	return nil
}

// SetData changes the data of an element. If log is not nil, the change is
// recorded in it, so that it can be undone.
func SetData[T any](elem *Elem[T], data T, log *Log[T]) {
	log.record(elem)
	elem.Data = data
}

// union links the two roots and returns the new representative.
func union[T any](obj, elem *Elem[T], log *Log[T]) *Elem[T] {
	root1 := obj.Find()
	root2 := elem.Find()
	if root1 == root2 {
		return root1 // already part of the same union, do nothing
	}

	switch {
	case root1.rank < root2.rank:
		log.record(root1)
		root1.parent = root2
		return root2
	case root1.rank > root2.rank:
		log.record(root2)
		root2.parent = root1
		return root1
	default:
		log.record(root1)
		log.record(root2)
		root1.rank++ // starts at the zero value of 0 if uninitialized
		root2.parent = root1
		return root1
	}
}

// Log is an undo log for mutations of elements. The zero value is ready to use.
type Log[T any] struct {
	entries []entry[T]
}

// entry stores the previous state of one element.
type entry[T any] struct {
	elem   *Elem[T]
	parent *Elem[T]
	rank   int
	data   T
}

// record saves the current state of elem. It is safe to call on a nil Log.
func (obj *Log[T]) record(elem *Elem[T]) {
	if obj == nil {
		return
	}
	obj.entries = append(obj.entries, entry[T]{
		elem:   elem,
		parent: elem.parent,
		rank:   elem.rank,
		data:   elem.Data,
	})
}

// Len returns the current position in the log. Pass it to Undo to revert all of
// the changes which were recorded after this point.
func (obj *Log[T]) Len() int {
	return len(obj.entries)
}

// Undo reverts every recorded change after position n, newest first.
func (obj *Log[T]) Undo(n int) {
	if n < 0 || n > len(obj.entries) {
		// programming error
		panic("undo position out of range")
	}
	for i := len(obj.entries) - 1; i >= n; i-- {
		e := obj.entries[i]
		e.elem.parent = e.parent
		e.elem.rank = e.rank
		e.elem.Data = e.data
	}
	var zero entry[T]
	for i := n; i < len(obj.entries); i++ {
		obj.entries[i] = zero // let the gc have the old data
	}
	obj.entries = obj.entries[:n]
}
