package stela

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stela-go/stela/draft"
)

func TestProduceFastOpsRecordedInOrder(t *testing.T) {
	t.Parallel()

	base := NewSequence(1, 2, 3)
	out, err := ProduceFast(base, func(ops *draft.FastOps) {
		ops.Push(draft.Path{}, 4)
		ops.Set(draft.Path{0}, 100)
	})
	require.NoError(t, err)
	require.Equal(t, []any{100, 2, 3, 4}, out.ToSlice())
}

func TestProduceFastNoOpsReturnsSameIdentity(t *testing.T) {
	t.Parallel()

	base := NewSet("a", "b")
	out, err := ProduceFast(base, func(ops *draft.FastOps) {})
	require.NoError(t, err)
	require.Same(t, base, out)
}

func TestProduceFastNestedRecordDeepOverwrite(t *testing.T) {
	t.Parallel()

	settings := NewRecord(Field{Name: "theme", Value: "light"})
	profile := NewRecord(Field{Name: "settings", Value: settings})
	base := NewRecord(Field{Name: "name", Value: "Bob"}, Field{Name: "profile", Value: profile})

	out, err := ProduceFast(base, func(ops *draft.FastOps) {
		ops.Set(draft.Path{"profile", "settings", "theme"}, "dark")
	})
	require.NoError(t, err)

	gotProfile, ok := out.Get("profile")
	require.True(t, ok)
	gotSettings, ok := gotProfile.(*Record).Get("settings")
	require.True(t, ok)
	theme, ok := gotSettings.(*Record).Get("theme")
	require.True(t, ok)
	require.Equal(t, "dark", theme)

	// Untouched sibling field keeps its value.
	nameVal, _ := out.Get("name")
	require.Equal(t, "Bob", nameVal)

	// Original input unchanged.
	origProfile, _ := base.Get("profile")
	origSettings, _ := origProfile.(*Record).Get("settings")
	origTheme, _ := origSettings.(*Record).Get("theme")
	require.Equal(t, "light", origTheme)
}

func TestProduceFastMergeAndClear(t *testing.T) {
	t.Parallel()

	base := NewMapping(Entry{Key: "a", Val: 1}, Entry{Key: "b", Val: 2})
	out, err := ProduceFast(base, func(ops *draft.FastOps) {
		ops.Merge(draft.Path{}, []draft.MapEntry{{Key: "c", Val: 3}})
	})
	require.NoError(t, err)
	require.Equal(t, 3, out.Len())

	cleared, err := ProduceFast(out, func(ops *draft.FastOps) {
		ops.Clear(draft.Path{})
	})
	require.NoError(t, err)
	require.Equal(t, 0, cleared.Len())
}

func TestProduceFastSpliceOnNestedSequence(t *testing.T) {
	t.Parallel()

	items := NewSequence(1, 2, 3, 4, 5)
	base := NewRecord(Field{Name: "items", Value: items})

	out, err := ProduceFast(base, func(ops *draft.FastOps) {
		ops.Splice(draft.Path{"items"}, 1, 2, 99)
	})
	require.NoError(t, err)

	gotItems, ok := out.Get("items")
	require.True(t, ok)
	require.Equal(t, []any{1, 99, 4, 5}, gotItems.(*Sequence).ToSlice())
}

func TestProduceFastBadPathReturnsBoundaryError(t *testing.T) {
	t.Parallel()

	base := NewMapping(Entry{Key: "a", Val: 1})
	_, err := ProduceFast(base, func(ops *draft.FastOps) {
		ops.Set(draft.Path{"missing", "x"}, 1)
	})
	require.Error(t, err)
}
