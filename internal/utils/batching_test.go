package utils

import "testing"

func TestBatchBuffer_ReportsFullAndClears(t *testing.T) {
	b := NewBatchBufferWithCapacity[int](2)

	if b.Add(1) {
		t.Fatalf("full after one item")
	}
	if !b.Add(2) {
		t.Fatalf("not full after two items")
	}

	batch := b.GetAndClear()
	if len(batch) != 2 || batch[0] != 1 || batch[1] != 2 {
		t.Fatalf("batch=%v", batch)
	}
	if b.HasData() || b.Size() != 0 {
		t.Fatalf("buffer not cleared")
	}
	if b.GetAndClear() != nil {
		t.Fatalf("expected nil from empty buffer")
	}
}

func TestNewBatchBuffer_DefaultsToDynamoLimit(t *testing.T) {
	b := NewBatchBuffer[string]()
	for i := 0; i < BATCH_SIZE-1; i++ {
		if b.Add("x") {
			t.Fatalf("full at %d", i+1)
		}
	}
	if !b.Add("x") {
		t.Fatalf("not full at %d", BATCH_SIZE)
	}
}

func TestBatchBuffer_RequeuePutsItemsFirst(t *testing.T) {
	b := NewBatchBufferWithCapacity[int](10)
	b.Add(1)
	b.Add(2)
	taken := b.GetAndClear()
	b.Add(3)

	b.Requeue(taken)

	got := b.GetAndClear()
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("got=%v", got)
	}
}
