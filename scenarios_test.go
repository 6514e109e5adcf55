package stela

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/stela-go/stela/draft"
)

// Deep overwrite of a small nested record through the explicit-operation
// draft, entirely at native representation.
func TestScenarioSmallRecordDeepOverwrite(t *testing.T) {
	t.Parallel()

	settings := NewRecord(Field{Name: "theme", Value: "light"}, Field{Name: "notifications", Value: true})
	profile := NewRecord(Field{Name: "bio", Value: "Hello"}, Field{Name: "settings", Value: settings})
	base := NewRecord(
		Field{Name: "name", Value: "Bob"},
		Field{Name: "age", Value: 25},
		Field{Name: "profile", Value: profile},
	)

	out, err := ProduceFast(base, func(ops *draft.FastOps) {
		ops.Set(draft.Path{"name"}, "Alice")
		ops.Set(draft.Path{"age"}, 30)
		ops.Set(draft.Path{"profile", "bio"}, "New")
		ops.Set(draft.Path{"profile", "settings", "theme"}, "dark")
	})
	require.NoError(t, err)
	require.False(t, out.IsPersistent())

	name, _ := out.Get("name")
	age, _ := out.Get("age")
	require.Equal(t, "Alice", name)
	require.Equal(t, 30, age)

	gotProfile, _ := out.Get("profile")
	bio, _ := gotProfile.(*Record).Get("bio")
	require.Equal(t, "New", bio)

	gotSettings, _ := gotProfile.(*Record).Get("settings")
	theme, _ := gotSettings.(*Record).Get("theme")
	notif, _ := gotSettings.(*Record).Get("notifications")
	require.Equal(t, "dark", theme)
	require.Equal(t, true, notif)

	var order []string
	out.Range(func(n string, v any) bool {
		order = append(order, n)
		return true
	})
	require.Equal(t, []string{"name", "age", "profile"}, order)
}

// Invariant 1: the producer never mutates the input's observable content.
func TestInvariantImmutability(t *testing.T) {
	t.Parallel()

	base := NewMapping(Entry{Key: "a", Val: 1}, Entry{Key: "b", Val: 2})
	before := append([]Entry(nil), base.Entries()...)

	_, err := ProduceMapping(base, func(d *draft.Mapping) {
		d.Set("a", 99)
		d.Delete("b")
		d.Set("c", 3)
	})
	require.NoError(t, err)
	require.Equal(t, before, base.Entries())
}

// Invariant 3: unwrap(wrap(v)) is deeply equal to v, and wrap is
// idempotent by identity once already wrapped.
func TestInvariantWrapUnwrapEquivalence(t *testing.T) {
	t.Parallel()

	base := NewSequence(1, 2, 3)
	wrapped := Wrap(base)
	back := Unwrap(wrapped)

	require.Empty(t, cmp.Diff(base.ToSlice(), back.(*Sequence).ToSlice()))
	require.Same(t, wrapped, Wrap(wrapped))
}

// Invariant 4: structural sharing — after a single-key mutation of a
// mapping, the untouched key keeps its value and the mutated key no
// longer holds the old value.
func TestInvariantStructuralSharing(t *testing.T) {
	t.Parallel()

	shared := NewSequence(1, 2, 3)
	base := NewMapping(
		Entry{Key: "a", Val: shared},
		Entry{Key: "b", Val: "untouched"},
	)

	out, err := ProduceMapping(base, func(d *draft.Mapping) {
		d.Set("a", NewSequence(9, 9, 9))
	})
	require.NoError(t, err)

	bVal, _ := out.Get("b")
	require.Equal(t, "untouched", bVal)

	aVal, _ := out.Get("a")
	require.NotSame(t, shared, aVal)
}

// Invariant 6: order preservation across mutation sequences.
func TestInvariantOrderPreservation(t *testing.T) {
	t.Parallel()

	s := NewSet("a", "b", "c")
	out, err := ProduceSet(s, func(d *draft.Set) {
		d.Delete("b")
		d.Add("d")
	})
	require.NoError(t, err)
	require.Equal(t, []any{"a", "c", "d"}, out.Elements())
}
