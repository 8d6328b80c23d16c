package datastructure

import (
	"math"

	"github.com/lintang-b-s/roadgraph/pkg/util"
)

type Entry[T any] struct {
	degree   int
	isMarked bool

	next   *Entry[T]
	prev   *Entry[T]
	child  *Entry[T]
	parent *Entry[T]

	elem     T
	priority float64
}

func newEntry[T any](elem T, priority float64) *Entry[T] {
	e := &Entry[T]{
		elem:     elem,
		priority: priority,
	}
	e.next = e
	e.prev = e

	return e
}

func (e *Entry[T]) GetPriority() float64 {
	return e.priority
}

func (e *Entry[T]) GetElem() T {
	return e.elem
}

/*
FibonacciHeap. min-heap with O(1) amortized Insert and DecreaseKey, O(log n) amortized ExtractMin.
ref: https://www.utsc.utoronto.ca/~atafliovich/cscb63/content/week10/clrs_fibonacci_chapter.pdf

potential function: pot(H) = t(H) + 2m(H)
t(H) = number of trees in the root list, m(H) = number of marked nodes.
*/
type FibonacciHeap[T any] struct {
	min  *Entry[T]
	size int
}

func NewFibonacciHeap[T any]() *FibonacciHeap[T] {
	return &FibonacciHeap[T]{}
}

func (f *FibonacciHeap[T]) GetMin() *Entry[T] {
	return f.min
}

// GetMinRank. priority of the min entry, +Inf when empty.
func (f *FibonacciHeap[T]) GetMinRank() float64 {
	if f.min == nil {
		return math.Inf(1)
	}
	return f.min.priority
}

func (f *FibonacciHeap[T]) Size() int {
	return f.size
}

func (f *FibonacciHeap[T]) IsEmpty() bool {
	return f.size == 0
}

// Insert. new single node tree in the root list. t(H) grows by one, actual cost 1, amortized O(1).
func (f *FibonacciHeap[T]) Insert(value T, priority float64) *Entry[T] {
	result := newEntry(value, priority)

	f.min = mergeLists(f.min, result)
	f.size++

	return result
}

// mergeLists. splice two circular lists, return the one with the smaller head.
func mergeLists[T any](one, two *Entry[T]) *Entry[T] {
	if one == nil {
		return two
	}
	if two == nil {
		return one
	}

	// one -> two.next ... two -> one.next ...
	oneNext := one.next
	one.next = two.next
	one.next.prev = one
	two.next = oneNext
	two.next.prev = two

	if one.priority < two.priority {
		return one
	}
	return two
}

/*
DecreaseKey. lower the priority of entry.

with c cascading cuts: t(H) grows by c, m(H) shrinks by at least c-2,
so the amortized cost is c + c + 2(2-c) = 4 = O(1).
*/
func (f *FibonacciHeap[T]) DecreaseKey(entry *Entry[T], newPriority float64) {
	util.AssertPanic(newPriority <= entry.priority, "new priority must be less or equal than old priority")

	entry.priority = newPriority

	if entry.parent != nil && entry.priority <= entry.parent.priority {
		// heap order violated, move the entry to the root list
		f.cutNode(entry)
	}

	if entry.priority <= f.min.priority {
		f.min = entry
	}
}

func (f *FibonacciHeap[T]) cutNode(entry *Entry[T]) {
	entry.isMarked = false

	parent := entry.parent
	if parent == nil {
		// already a root, nothing to cascade
		return
	}

	if entry.next != entry {
		entry.next.prev = entry.prev
		entry.prev.next = entry.next
	}

	if parent.child == entry {
		if entry.next != entry {
			parent.child = entry.next
		} else {
			parent.child = nil
		}
	}

	parent.degree--

	entry.prev = entry
	entry.next = entry
	entry.parent = nil

	f.min = mergeLists(f.min, entry)

	// cascading cut
	if parent.isMarked {
		f.cutNode(parent)
	} else if parent.parent != nil {
		parent.isMarked = true
	}
}

/*
ExtractMin. remove and return the min entry, nil when the heap is empty.

the children of min join the root list, then consolidate links roots of equal degree
until every degree appears at most once. max degree D(n) is O(log n), so the amortized cost is O(log n).
*/
func (f *FibonacciHeap[T]) ExtractMin() *Entry[T] {
	if f.min == nil {
		return nil
	}

	f.size--

	minElem := f.min

	if f.min.next == f.min {
		f.min = nil
	} else {
		f.min.prev.next = f.min.next
		f.min.next.prev = f.min.prev
		f.min = f.min.next
	}

	if minElem.child != nil {
		curr := minElem.child
		for {
			curr.parent = nil
			curr = curr.next
			if curr == minElem.child {
				break
			}
		}
	}

	f.min = mergeLists(f.min, minElem.child)

	minElem.child = nil
	minElem.next = minElem
	minElem.prev = minElem

	if f.min == nil {
		return minElem
	}

	f.consolidate()

	return minElem
}

func (f *FibonacciHeap[T]) consolidate() {
	// treeTable[d] holds the root of degree d seen so far
	treeTable := make([]*Entry[T], 0)

	toVisit := make([]*Entry[T], 0)
	for curr := f.min; len(toVisit) == 0 || toVisit[0] != curr; curr = curr.next {
		toVisit = append(toVisit, curr)
	}

	for _, curr := range toVisit {
		for {
			for curr.degree >= len(treeTable) {
				treeTable = append(treeTable, nil)
			}

			if treeTable[curr.degree] == nil {
				treeTable[curr.degree] = curr
				break
			}

			other := treeTable[curr.degree]
			treeTable[curr.degree] = nil

			small, large := curr, other
			if other.priority < curr.priority {
				small, large = other, curr
			}

			// unlink large from the root list and make it a child of small
			large.next.prev = large.prev
			large.prev.next = large.next
			large.next = large
			large.prev = large
			small.child = mergeLists(small.child, large)
			large.parent = small
			large.isMarked = false
			small.degree++

			curr = small
		}

		if curr.priority <= f.min.priority {
			f.min = curr
		}
	}
}
