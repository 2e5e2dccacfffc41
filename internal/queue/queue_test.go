package queue

import (
	"sync"
	"testing"
)

type record struct {
	Quest int
	Hook  string
}

func TestQueue_New(t *testing.T) {
	q := New[record]()
	if !q.Empty() {
		t.Error("expected empty queue")
	}
	if q.Len() != 0 {
		t.Errorf("expected length 0, got %d", q.Len())
	}
	if got := q.Drain(); len(got) != 0 {
		t.Errorf("expected nothing drained, got %v", got)
	}
}

func TestQueue_PushDrainOrder(t *testing.T) {
	q := New[record]()
	q.Push(record{Quest: 1, Hook: "shipjob:signal"})
	q.Push(record{Quest: 2}, record{Quest: 3})

	if q.Len() != 3 {
		t.Fatalf("expected length 3, got %d", q.Len())
	}

	got := q.Drain()
	for i, want := range []int{1, 2, 3} {
		if got[i].Quest != want {
			t.Errorf("item %d: expected quest %d, got %d", i, want, got[i].Quest)
		}
	}
	if !q.Empty() {
		t.Error("expected empty queue after drain")
	}
}

func TestQueue_DrainedSliceIsDetached(t *testing.T) {
	q := New[int]()
	q.Push(1, 2)
	got := q.Drain()
	q.Push(9)

	if got[0] != 1 || got[1] != 2 {
		t.Errorf("drained slice changed: %v", got)
	}
}

func TestQueue_RequeueGoesFirst(t *testing.T) {
	q := New[int]()
	q.Push(1, 2)
	failed := q.Drain()
	q.Push(3)
	q.Requeue(failed...)

	got := q.Drain()
	want := []int{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: expected %d, got %d", i, want[i], got[i])
		}
	}
}

func TestQueue_RequeueNothing(t *testing.T) {
	q := New[int]()
	q.Requeue()
	if !q.Empty() {
		t.Error("expected empty queue")
	}
}

func TestQueue_ConcurrentPushDrain(t *testing.T) {
	q := New[int]()
	var wg sync.WaitGroup
	var mu sync.Mutex
	total := 0

	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				q.Push(i)
			}
		}()
	}
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				n := len(q.Drain())
				mu.Lock()
				total += n
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	total += len(q.Drain())

	if total != 800 {
		t.Errorf("expected 800 items drained, got %d", total)
	}
}
