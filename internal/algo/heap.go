package algo

// HeapItem is any value placed in an IntrusiveHeap. It carries its own
// heap index so Update/Remove can locate it in O(1) instead of scanning.
// Grounded on the teacher's astarHeap/cbsHeap container/heap
// implementations, which hand-roll this index field once per node type
// (n.index = len(*h) on Push, h[i].index = i on Swap); here it is a single
// generic structure reused by every search component (spec.md C3).
type HeapItem interface {
	HeapIndex() int
	SetHeapIndex(i int)
}

// LessFunc orders two items. IntrusiveHeap does not break ties itself and
// does not preserve insertion order; callers that need insertion-order ties
// embed a monotonic sequence number in their LessFunc.
type LessFunc[T HeapItem] func(a, b T) bool

// IntrusiveHeap is a binary min-heap over items that know their own
// index. Push/Pop are O(log n) amortized and Peek is O(1); Fix and Remove are O(log n)
// given the item's current index, no search required.
type IntrusiveHeap[T HeapItem] struct {
	items []T
	less  LessFunc[T]
}

// NewIntrusiveHeap creates an empty heap ordered by less.
func NewIntrusiveHeap[T HeapItem](less LessFunc[T]) *IntrusiveHeap[T] {
	return &IntrusiveHeap[T]{less: less}
}

// Len returns the number of items in the heap.
func (h *IntrusiveHeap[T]) Len() int { return len(h.items) }

// Peek returns the minimum item without removing it. Panics if empty.
func (h *IntrusiveHeap[T]) Peek() T { return h.items[0] }

func (h *IntrusiveHeap[T]) swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.items[i].SetHeapIndex(i)
	h.items[j].SetHeapIndex(j)
}

func (h *IntrusiveHeap[T]) up(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !h.less(h.items[i], h.items[parent]) {
			break
		}
		h.swap(i, parent)
		i = parent
	}
}

func (h *IntrusiveHeap[T]) down(i int) {
	n := len(h.items)
	for {
		left, right := 2*i+1, 2*i+2
		smallest := i
		if left < n && h.less(h.items[left], h.items[smallest]) {
			smallest = left
		}
		if right < n && h.less(h.items[right], h.items[smallest]) {
			smallest = right
		}
		if smallest == i {
			return
		}
		h.swap(i, smallest)
		i = smallest
	}
}

// Push inserts an item and restores the heap invariant.
func (h *IntrusiveHeap[T]) Push(item T) {
	item.SetHeapIndex(len(h.items))
	h.items = append(h.items, item)
	h.up(len(h.items) - 1)
}

// Pop removes and returns the minimum item. Panics if empty.
func (h *IntrusiveHeap[T]) Pop() T {
	min := h.items[0]
	last := len(h.items) - 1
	h.swap(0, last)
	h.items = h.items[:last]
	min.SetHeapIndex(-1)
	if len(h.items) > 0 {
		h.down(0)
	}
	return min
}

// Fix re-heapifies after an in-place key change to the item at its
// current heap index (a decrease-key when the item's priority dropped, or
// the general case when either direction is possible).
func (h *IntrusiveHeap[T]) Fix(item T) {
	i := item.HeapIndex()
	h.up(i)
	h.down(i)
}

// Remove deletes the item at its current heap index.
func (h *IntrusiveHeap[T]) Remove(item T) {
	i := item.HeapIndex()
	last := len(h.items) - 1
	if i != last {
		h.swap(i, last)
	}
	h.items = h.items[:last]
	item.SetHeapIndex(-1)
	if i <= last-1 {
		h.up(i)
		h.down(i)
	}
}
