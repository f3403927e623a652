package core

import "fmt"

// Arena is a bump allocator handing out stable integer handles into a
// backing slice. Nothing is freed individually; the whole arena is dropped
// with its owner. Handles stay valid across growth, pointers from At do not.
type Arena[T any] struct {
	items []T
}

// NewArena creates an arena with room for capacity items before it grows
func NewArena[T any](capacity int) *Arena[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Arena[T]{items: make([]T, 0, capacity)}
}

// Alloc reserves one zero-valued item and returns its handle
func (a *Arena[T]) Alloc() int32 {
	return a.AllocN(1)
}

// AllocN reserves n contiguous zero-valued items and returns the handle of
// the first. Carved ranges can be filled concurrently by different
// goroutines as long as no further allocation happens meanwhile.
func (a *Arena[T]) AllocN(n int) int32 {
	if n < 0 {
		panic(fmt.Sprintf("core: arena allocation of %d items", n))
	}
	start := len(a.items)
	a.items = append(a.items, make([]T, n)...)
	return int32(start)
}

// At returns a pointer to the item behind handle h
func (a *Arena[T]) At(h int32) *T {
	return &a.items[h]
}

// Len returns the number of allocated items
func (a *Arena[T]) Len() int {
	return len(a.items)
}
