package hamt

import (
	"fmt"
	"testing"

	"github.com/stela-go/stela/internal/token"
)

// goldMap is a deliberately naive reference model, the same pattern the
// teacher's gold_table_test.go uses: a plain Go map checked against the
// trie on every operation.
type goldMap map[string]int

func TestMapAgainstGold(t *testing.T) {
	t.Parallel()

	gold := goldMap{}
	m := &Map{}
	tok := token.New()

	const n = 3000
	for i := 0; i < n; i++ {
		k := fmt.Sprintf("key-%d", i)
		gold[k] = i
		m = m.Insert(k, i, tok)
	}

	if m.Size() != len(gold) {
		t.Fatalf("Size() = %d, want %d", m.Size(), len(gold))
	}
	for k, want := range gold {
		got, ok := m.Lookup(k)
		if !ok || got != want {
			t.Fatalf("Lookup(%q) = (%v,%v), want (%v,true)", k, got, ok, want)
		}
	}

	// Delete every third key.
	i := 0
	for k := range gold {
		if i%3 == 0 {
			delete(gold, k)
			m = m.Remove(k, tok)
		}
		i++
	}
	if m.Size() != len(gold) {
		t.Fatalf("after deletes, Size() = %d, want %d", m.Size(), len(gold))
	}
	for k, want := range gold {
		got, ok := m.Lookup(k)
		if !ok || got != want {
			t.Fatalf("Lookup(%q) = (%v,%v), want (%v,true)", k, got, ok, want)
		}
	}
	seen := map[string]bool{}
	m.Range(func(k, v any) bool {
		seen[k.(string)] = true
		if gold[k.(string)] != v {
			t.Fatalf("Range gave (%v,%v), gold has %v", k, v, gold[k.(string)])
		}
		return true
	})
	if len(seen) != len(gold) {
		t.Fatalf("Range visited %d keys, want %d", len(seen), len(gold))
	}
}

func TestMapIdentityShortCircuits(t *testing.T) {
	t.Parallel()

	m := (&Map{}).Insert("a", 1, nil)

	same := m.Insert("a", 1, nil)
	if same != m {
		t.Fatalf("Insert with unchanged value did not short-circuit by identity")
	}

	stillSame := m.Remove("does-not-exist", nil)
	if stillSame != m {
		t.Fatalf("Remove of absent key did not short-circuit by identity")
	}

	changed := m.Insert("a", 2, nil)
	if changed == m {
		t.Fatalf("Insert with changed value incorrectly returned same identity")
	}
}

func TestMapStructuralSharing(t *testing.T) {
	t.Parallel()

	m := &Map{}
	tok := token.New()
	for i := 0; i < 2000; i++ {
		m = m.Insert(fmt.Sprintf("k%d", i), i, tok)
	}

	updated := m.Insert("k500", -1, nil)

	got500, _ := updated.Lookup("k500")
	if got500 != -1 {
		t.Fatalf("updated.Lookup(k500) = %v, want -1", got500)
	}
	orig500, _ := m.Lookup("k500")
	if orig500 != 500 {
		t.Fatalf("original map mutated: Lookup(k500) = %v, want 500", orig500)
	}

	for i := 0; i < 2000; i++ {
		if i == 500 {
			continue
		}
		k := fmt.Sprintf("k%d", i)
		a, _ := m.Lookup(k)
		b, _ := updated.Lookup(k)
		if a != b {
			t.Fatalf("key %s diverged: orig=%v updated=%v", k, a, b)
		}
	}
}

func TestMapUpdate(t *testing.T) {
	t.Parallel()

	m := &Map{}
	m = m.Update("counter", func(old any, ok bool) any {
		if !ok {
			return 1
		}
		return old.(int) + 1
	}, nil)
	m = m.Update("counter", func(old any, ok bool) any {
		return old.(int) + 1
	}, nil)

	v, ok := m.Lookup("counter")
	if !ok || v != 2 {
		t.Fatalf("Lookup(counter) = (%v,%v), want (2,true)", v, ok)
	}
	if m.Size() != 1 {
		t.Fatalf("Size() = %d, want 1 (Update must not change key count)", m.Size())
	}
}

func TestMapCollisionBucket(t *testing.T) {
	t.Parallel()

	// A real collision node needs two keys with the same full hash,
	// and that cannot be forced from here (hashing lives in bitutil),
	// so this only asserts correctness over a large key set; it does
	// not check that a collision node was built.
	m := &Map{}
	for i := 0; i < 20000; i++ {
		m = m.Insert(i, i*i, nil)
	}
	for i := 0; i < 20000; i++ {
		v, ok := m.Lookup(i)
		if !ok || v != i*i {
			t.Fatalf("Lookup(%d) = (%v,%v), want (%d,true)", i, v, ok, i*i)
		}
	}
}
