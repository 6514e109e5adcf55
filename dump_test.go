package stela

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDumpStringShowsRepresentationAndNesting(t *testing.T) {
	t.Parallel()

	inner := NewSequence(1, 2, 3)
	r := NewRecord(Field{Name: "name", Value: "Bob"}, Field{Name: "items", Value: inner})

	out := DumpString(r)
	require.True(t, strings.Contains(out, "Record(native, len=2)"))
	require.True(t, strings.Contains(out, "items:"))
	require.True(t, strings.Contains(out, "Sequence(native, len=3)"))
	require.True(t, strings.Contains(out, "name: Bob"))
}

func TestDumpStringTagsIndexedRepresentation(t *testing.T) {
	t.Parallel()

	xs := make([]any, 600)
	for i := range xs {
		xs[i] = i
	}
	big := Wrap(NewSequence(xs...))

	out := DumpString(big)
	require.True(t, strings.Contains(out, "Sequence(indexed, len=600)"))
}
