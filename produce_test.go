package stela

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stela-go/stela/draft"
)

func TestProduceSequenceAppendPromotion(t *testing.T) {
	t.Parallel()

	xs := make([]any, 511)
	for i := range xs {
		xs[i] = i
	}
	base := NewSequence(xs...)

	out, err := ProduceSequence(base, func(d *draft.Sequence) {
		d.Push(999)
	})
	require.NoError(t, err)
	require.True(t, out.IsPersistent(), "512 elements must cross the adaptive threshold")
	require.Equal(t, 512, out.Len())
	last, _ := out.Get(511)
	require.Equal(t, 999, last)
}

func TestProduceSequenceShrinkDemotion(t *testing.T) {
	t.Parallel()

	xs := make([]any, 520)
	for i := range xs {
		xs[i] = i
	}
	base := Wrap(NewSequence(xs...)).(*Sequence)
	require.True(t, base.IsPersistent())

	out, err := ProduceSequence(base, func(d *draft.Sequence) {
		for i := 0; i < 9; i++ {
			d.Pop()
		}
	})
	require.NoError(t, err)
	require.Equal(t, 511, out.Len())
	require.False(t, out.IsPersistent())
}

func TestProduceNoOpReturnsSameIdentity(t *testing.T) {
	t.Parallel()

	base := NewMapping(Entry{Key: "a", Val: 1})
	out, err := ProduceMapping(base, func(d *draft.Mapping) {
		d.Set("a", 1) // same value
	})
	require.NoError(t, err)
	require.Same(t, base, out)
}

func TestProduceRecipePanicLeavesInputUntouched(t *testing.T) {
	t.Parallel()

	base := NewSequence(1, 2, 3)
	out, err := ProduceSequence(base, func(d *draft.Sequence) {
		d.Push(4)
		panic("boom")
	})
	require.Error(t, err)
	require.Same(t, base, out)
	require.Equal(t, []any{1, 2, 3}, base.ToSlice())
}

func TestProduceSetAddAndClear(t *testing.T) {
	t.Parallel()

	base := NewSet("a", "b")
	out, err := ProduceSet(base, func(d *draft.Set) {
		d.Add("c")
	})
	require.NoError(t, err)
	require.Equal(t, 3, out.Len())
	require.True(t, out.Has("c"))

	cleared, err := ProduceSet(out, func(d *draft.Set) { d.Clear() })
	require.NoError(t, err)
	require.Equal(t, 0, cleared.Len())
}

func TestProduceMappingDeleteThenRead(t *testing.T) {
	t.Parallel()

	entries := make([]Entry, 0, 1000)
	for i := 0; i < 1000; i++ {
		entries = append(entries, Entry{Key: keyName(i), Val: i})
	}
	base := Wrap(NewMapping(entries...)).(*Mapping)

	out, err := ProduceMapping(base, func(d *draft.Mapping) {
		d.Delete(keyName(500))
	})
	require.NoError(t, err)
	require.Equal(t, 999, out.Len())
	_, ok := out.Get(keyName(500))
	require.False(t, ok)

	var order []any
	out.Range(func(k, v any) bool {
		order = append(order, k)
		return true
	})
	require.Equal(t, 999, len(order))
}

func keyName(i int) string {
	return "k-" + strconv.Itoa(i)
}
