package stela

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes a human-readable tree of v's current representation to
// w: whether each value is native or indexed, and its contents.
// Modeled on the teacher's dumper.go/liteDumper.go (plain fmt/io/
// strings, no external formatting library, never called from core
// logic itself — diagnostics only).
func Dump(w io.Writer, v Value) {
	dumpValue(w, v, 0)
}

// DumpString is Dump rendered to a string.
func DumpString(v Value) string {
	var b strings.Builder
	Dump(&b, v)
	return b.String()
}

func dumpValue(w io.Writer, v Value, depth int) {
	indent := strings.Repeat("  ", depth)
	switch x := v.(type) {
	case *Sequence:
		fmt.Fprintf(w, "%sSequence(%s, len=%d)\n", indent, repKind(x.IsPersistent()), x.Len())
		for i, e := range x.ToSlice() {
			dumpChild(w, depth+1, fmt.Sprintf("[%d]", i), e)
		}
	case *Mapping:
		fmt.Fprintf(w, "%sMapping(%s, len=%d)\n", indent, repKind(x.IsPersistent()), x.Len())
		x.Range(func(k, val any) bool {
			dumpChild(w, depth+1, fmt.Sprintf("%v", k), val)
			return true
		})
	case *Set:
		fmt.Fprintf(w, "%sSet(%s, len=%d)\n", indent, repKind(x.IsPersistent()), x.Len())
		x.Range(func(e any) bool {
			fmt.Fprintf(w, "%s  %v\n", indent, e)
			return true
		})
	case *Record:
		fmt.Fprintf(w, "%sRecord(%s, len=%d)\n", indent, repKind(x.IsPersistent()), x.Len())
		x.Range(func(name string, val any) bool {
			dumpChild(w, depth+1, name, val)
			return true
		})
	case nil:
		fmt.Fprintf(w, "%s<nil>\n", indent)
	default:
		fmt.Fprintf(w, "%s%v\n", indent, x)
	}
}

func dumpChild(w io.Writer, depth int, label string, val any) {
	indent := strings.Repeat("  ", depth)
	if child, ok := val.(Value); ok {
		fmt.Fprintf(w, "%s%s:\n", indent, label)
		dumpValue(w, child, depth+1)
		return
	}
	fmt.Fprintf(w, "%s%s: %v\n", indent, label, val)
}

func repKind(indexed bool) string {
	if indexed {
		return "indexed"
	}
	return "native"
}
