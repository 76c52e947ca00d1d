package eviction

import (
	"testing"
	"time"

	"github.com/krisalay/jobcache/types"
)

func TestMinBy(t *testing.T) {
	score := func(v *int) (int64, bool) {
		if v == nil {
			return 0, false
		}
		return int64(*v), true
	}
	n := func(i int) *int { return &i }

	tests := []struct {
		name  string
		items []*int
		want  int // index into items
	}{
		{"single", []*int{n(5)}, 0},
		{"lowest wins", []*int{n(3), n(1), n(2)}, 1},
		{"first of ties", []*int{n(2), n(1), n(1)}, 1},
		{"absent sorts last", []*int{nil, n(9), nil}, 1},
		{"absent first then scored", []*int{nil, nil, n(-4)}, 2},
		{"all absent", []*int{nil, nil}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MinBy(tt.items, score)
			if !ok {
				t.Fatalf("expected a result")
			}
			if got != tt.items[tt.want] {
				t.Fatalf("expected item %d, got %v", tt.want, got)
			}
		})
	}
}

func TestMinBy_Empty(t *testing.T) {
	got, ok := MinBy(nil, func(s string) (int64, bool) { return 0, true })
	if ok || got != "" {
		t.Fatalf("expected zero value and false, got %q %v", got, ok)
	}
}

func TestPolicies(t *testing.T) {
	base := time.Unix(1000, 0)
	old := &types.Meta{Key: "old", CreatedAt: base, LastAccessedAt: base.Add(5 * time.Second), Hits: 7}
	young := &types.Meta{Key: "young", CreatedAt: base.Add(time.Second), LastAccessedAt: base.Add(2 * time.Second), Hits: 1}
	metas := []*types.Meta{old, young}

	tests := []struct {
		policy PolicyType
		want   string
	}{
		{LRU, "young"},
		{"", "young"},
		{LFU, "young"},
		{FIFO, "old"},
	}

	for _, tt := range tests {
		p := NewEvictionPolicy(tt.policy)
		got, _ := MinBy(metas, p.Score)
		if got.Key != tt.want {
			t.Fatalf("%s: expected %s to be evicted, got %s", tt.policy, tt.want, got.Key)
		}
	}
}

func TestLRU_UntouchedHasNoScore(t *testing.T) {
	if _, ok := NewEvictionPolicy(LRU).Score(&types.Meta{}); ok {
		t.Fatalf("expected zero recency to have no score")
	}
}

func TestNewEvictionPolicy_Unknown(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for unknown policy")
		}
	}()
	NewEvictionPolicy("MRU")
}
