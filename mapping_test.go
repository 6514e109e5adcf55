package stela

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMappingWrapUnwrapRoundTrip(t *testing.T) {
	t.Parallel()

	entries := make([]Entry, 0, 1000)
	for i := 0; i < 1000; i++ {
		entries = append(entries, Entry{Key: fmt.Sprintf("k%d", i), Val: i})
	}
	native := NewMapping(entries...)
	require.False(t, native.IsPersistent())

	indexed := Wrap(native).(*Mapping)
	require.True(t, indexed.IsPersistent())
	require.Equal(t, 1000, indexed.Len())

	back := Unwrap(indexed).(*Mapping)
	require.False(t, back.IsPersistent())
	require.Equal(t, native.Entries(), back.Entries())
}

func TestMappingOrderPreservedOnUpdate(t *testing.T) {
	t.Parallel()

	m := NewMapping(Entry{Key: "a", Val: 1}, Entry{Key: "b", Val: 2}, Entry{Key: "c", Val: 3})
	m2 := m.withSet("b", 99, nil)

	var order []any
	m2.Range(func(k, v any) bool {
		order = append(order, k)
		return true
	})
	require.Equal(t, []any{"a", "b", "c"}, order)

	v, ok := m2.Get("b")
	require.True(t, ok)
	require.Equal(t, 99, v)
}

func TestMappingNewMappingDropsDuplicateKeysKeepingLast(t *testing.T) {
	t.Parallel()

	m := NewMapping(Entry{Key: "a", Val: 1}, Entry{Key: "a", Val: 2})
	require.Equal(t, 1, m.Len())
	v, _ := m.Get("a")
	require.Equal(t, 2, v)
}
