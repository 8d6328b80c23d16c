package datastructure

import "math"

// Frontier . search frontier keyed by node id. Push inserts a node or lowers its priority.
// a node that was popped can be pushed again, it then starts as a fresh entry.
type Frontier struct {
	heap    *FibonacciHeap[int32]
	entries map[int32]*Entry[int32]
}

func NewFrontier() *Frontier {
	return &Frontier{
		heap:    NewFibonacciHeap[int32](),
		entries: make(map[int32]*Entry[int32]),
	}
}

// Push. returns true if node was inserted or its priority decreased.
func (f *Frontier) Push(node int32, priority float64) bool {
	if entry, ok := f.entries[node]; ok {
		if priority >= entry.priority {
			return false
		}
		f.heap.DecreaseKey(entry, priority)
		return true
	}
	f.entries[node] = f.heap.Insert(node, priority)
	return true
}

// Pop. node with the smallest priority. ok is false when the frontier is empty.
func (f *Frontier) Pop() (node int32, priority float64, ok bool) {
	entry := f.heap.ExtractMin()
	if entry == nil {
		return -1, math.Inf(1), false
	}
	delete(f.entries, entry.elem)
	return entry.elem, entry.priority, true
}

// PeekPriority. smallest pending priority, +Inf when empty.
func (f *Frontier) PeekPriority() float64 {
	return f.heap.GetMinRank()
}

func (f *Frontier) Len() int {
	return f.heap.Size()
}

func (f *Frontier) IsEmpty() bool {
	return f.heap.IsEmpty()
}

func (f *Frontier) Contains(node int32) bool {
	_, ok := f.entries[node]
	return ok
}
