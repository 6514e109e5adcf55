package draft

import (
	"testing"

	"github.com/stela-go/stela/internal/token"
)

func TestSetDraftAddDuplicateNotDirty(t *testing.T) {
	t.Parallel()

	d := NewSetFromNative([]any{"a", "b"}, token.New())
	d.Add("a")
	if d.Dirty() {
		t.Fatalf("adding a duplicate element marked draft dirty")
	}
	if d.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", d.Len())
	}
}

func TestSetDraftAddDeleteClear(t *testing.T) {
	t.Parallel()

	d := NewSetFromNative(nil, token.New())
	d.Add("x")
	d.Add("y")
	if !d.Has("x") || !d.Has("y") {
		t.Fatalf("set missing added elements")
	}
	d.Delete("x")
	if d.Has("x") {
		t.Fatalf("Delete did not remove element")
	}
	d.Clear()
	if d.Len() != 0 {
		t.Fatalf("Len() after Clear = %d, want 0", d.Len())
	}
}
