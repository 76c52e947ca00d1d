package queue

import "testing"

func TestPop_Order(t *testing.T) {
	tests := []struct {
		order Order
		want  []string
	}{
		{LIFO, []string{"c", "b", "a"}},
		{FIFO, []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.order.String(), func(t *testing.T) {
			q := New[int]()
			q.Push("a", 1)
			q.Push("b", 2)
			q.Push("c", 3)

			for _, want := range tt.want {
				key, _, ok := q.Pop(tt.order)
				if !ok || key != want {
					t.Fatalf("expected %s, got %s (ok=%v)", want, key, ok)
				}
			}
			if _, _, ok := q.Pop(tt.order); ok {
				t.Fatalf("expected empty queue")
			}
		})
	}
}

func TestPush_ReplaceKeepsPlace(t *testing.T) {
	q := New[string]()
	q.Push("a", "first")
	q.Push("b", "b")

	if q.Push("a", "second") {
		t.Fatalf("expected re-push to report an existing key")
	}
	if q.Len() != 2 {
		t.Fatalf("expected 2 queued jobs, got %d", q.Len())
	}

	key, job, _ := q.Pop(FIFO)
	if key != "a" || job != "second" {
		t.Fatalf("expected a/second at the front, got %s/%s", key, job)
	}
}

func TestRemoveAndDrain(t *testing.T) {
	q := New[int]()
	q.Push("a", 1)
	q.Push("b", 2)
	q.Push("c", 3)

	if job, ok := q.Remove("b"); !ok || job != 2 {
		t.Fatalf("expected remove to return b's job")
	}
	if _, ok := q.Remove("b"); ok {
		t.Fatalf("expected second remove to fail")
	}
	if q.Contains("b") {
		t.Fatalf("expected b to be gone")
	}
	if dropped := q.Drain(); len(dropped) != 2 || dropped[0] != 1 || dropped[1] != 3 {
		t.Fatalf("expected [1 3] dropped, got %v", dropped)
	}
	if q.Len() != 0 {
		t.Fatalf("expected empty queue after drain")
	}
}
