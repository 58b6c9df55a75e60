package utils

import (
	"log/slog"
	"sync"
)

// BATCH_SIZE matches the DynamoDB BatchWriteItem request limit.
const BATCH_SIZE = 25

type BatchBuffer[T any] struct {
	buffer     []T
	bufferLock sync.Mutex
	capacity   int
}

func NewBatchBuffer[T any]() *BatchBuffer[T] {
	return NewBatchBufferWithCapacity[T](BATCH_SIZE)
}

func NewBatchBufferWithCapacity[T any](capacity int) *BatchBuffer[T] {
	if capacity <= 0 {
		capacity = BATCH_SIZE
	}
	return &BatchBuffer[T]{
		buffer:   make([]T, 0, capacity),
		capacity: capacity,
	}
}

// Add appends item and reports whether the buffer reached capacity.
func (b *BatchBuffer[T]) Add(item T) bool {
	b.bufferLock.Lock()
	defer b.bufferLock.Unlock()

	b.buffer = append(b.buffer, item)
	return len(b.buffer) >= b.capacity
}

func (b *BatchBuffer[T]) GetAndClear() []T {
	b.bufferLock.Lock()
	defer b.bufferLock.Unlock()

	if len(b.buffer) == 0 {
		return nil
	}

	batch := b.buffer
	b.buffer = make([]T, 0, b.capacity)
	return batch
}

// Requeue puts items back at the front of the buffer, ahead of anything
// added since they were taken.
func (b *BatchBuffer[T]) Requeue(items []T) {
	if len(items) == 0 {
		return
	}
	b.bufferLock.Lock()
	defer b.bufferLock.Unlock()

	b.buffer = append(append(make([]T, 0, len(items)+len(b.buffer)), items...), b.buffer...)
}

func (b *BatchBuffer[T]) Size() int {
	b.bufferLock.Lock()
	defer b.bufferLock.Unlock()
	return len(b.buffer)
}

func (b *BatchBuffer[T]) HasData() bool {
	b.bufferLock.Lock()
	defer b.bufferLock.Unlock()
	return len(b.buffer) > 0
}

func (b *BatchBuffer[T]) LogBatchProcessing(batchType string) {
	b.bufferLock.Lock()
	defer b.bufferLock.Unlock()

	slog.Info("[BatchBuffer] Processing batch",
		slog.String("type", batchType),
		slog.Int("batch_size", len(b.buffer)))
}
