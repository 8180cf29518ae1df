package device

// Buffer is a typed device buffer. With the pool standing in for the
// accelerator there is no transfer step; Data exposes the storage directly.
// Buffers written by a submitted command group must not be touched by the
// host until the queue has drained.
type Buffer[T any] struct {
	data []T
}

// NewBuffer allocates a zero-initialized buffer of n elements on d.
func NewBuffer[T any](d *Device, n int) *Buffer[T] {
	_ = d // ownership only; allocation is host memory
	return &Buffer[T]{data: make([]T, n)}
}

// BufferOf wraps existing host memory as a device buffer, sharing storage.
func BufferOf[T any](d *Device, data []T) *Buffer[T] {
	_ = d
	return &Buffer[T]{data: data}
}

// Len returns the element count.
func (b *Buffer[T]) Len() int { return len(b.data) }

// Data returns the buffer storage.
func (b *Buffer[T]) Data() []T { return b.data }
