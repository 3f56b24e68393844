package ast

// Arena is a bulk-owning store for one compilation. Nodes are never freed
// individually; the whole arena is dropped when the compilation ends.
type Arena[T any] struct {
	data []T
}

// NewArena creates an *Arena[T] with capacity capHint; zero is allowed.
func NewArena[T any](capHint uint) *Arena[T] {
	return &Arena[T]{
		data: make([]T, 0, capHint),
	}
}

// Allocate stores value and returns its 1-based index; 0 is reserved for
// "no payload".
func (a *Arena[T]) Allocate(value T) uint32 {
	a.data = append(a.data, value)
	return uint32(len(a.data))
}

func (a *Arena[T]) Get(index uint32) *T {
	if index == 0 {
		return nil
	}
	return &a.data[index-1]
}

func (a *Arena[T]) Len() uint32 {
	return uint32(len(a.data))
}
