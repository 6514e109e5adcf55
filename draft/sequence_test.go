package draft

import (
	"testing"

	"github.com/stela-go/stela/internal/token"
)

func TestSequenceDraftNativePushPop(t *testing.T) {
	t.Parallel()

	tok := token.New()
	d := NewSequenceFromNative([]any{1, 2, 3}, tok)
	if d.Dirty() {
		t.Fatalf("fresh draft reports Dirty")
	}

	d.Push(4)
	if !d.Dirty() {
		t.Fatalf("Push did not mark draft dirty")
	}
	if got := d.ToSlice(); len(got) != 4 || got[3] != 4 {
		t.Fatalf("ToSlice = %v, want [1 2 3 4]", got)
	}

	v, ok := d.Pop()
	if !ok || v != 4 {
		t.Fatalf("Pop = (%v,%v), want (4,true)", v, ok)
	}
	if got := d.ToSlice(); len(got) != 3 {
		t.Fatalf("ToSlice after Pop = %v, want len 3", got)
	}
}

func TestSequenceDraftSetOutOfRangePanics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on out-of-range Set")
		}
	}()
	d := NewSequenceFromNative([]any{1, 2}, token.New())
	d.Set(5, 99)
}

func TestSequenceDraftSetSameValueNotDirty(t *testing.T) {
	t.Parallel()

	d := NewSequenceFromNative([]any{1, 2, 3}, token.New())
	d.Set(1, 2)
	if d.Dirty() {
		t.Fatalf("Set to an equal value marked draft dirty")
	}
}

func TestSequenceDraftSpliceAndFilter(t *testing.T) {
	t.Parallel()

	d := NewSequenceFromNative([]any{1, 2, 3, 4, 5}, token.New())
	d.Splice(1, 2, 20, 21, 22)
	if got := d.ToSlice(); !equalSlice(got, []any{1, 20, 21, 22, 4, 5}) {
		t.Fatalf("after splice = %v", got)
	}

	d2 := NewSequenceFromNative([]any{1, 2, 3, 4, 5, 6}, token.New())
	d2.Filter(func(v any) bool { return v.(int)%2 == 0 })
	if got := d2.ToSlice(); !equalSlice(got, []any{2, 4, 6}) {
		t.Fatalf("after filter = %v", got)
	}
}

func equalSlice(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
