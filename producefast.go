package stela

import (
	"github.com/pkg/errors"

	"github.com/stela-go/stela/draft"
	"github.com/stela-go/stela/internal/policy"
	"github.com/stela-go/stela/internal/token"
)

// ProduceFast runs recipe against a draft.FastOps recorder and applies
// the recorded operations to base through one ownership token, per
// spec §4.H/§4.G's explicit-operation draft. Unlike ProduceSequence/
// ProduceMapping/ProduceSet/ProduceRecord, ProduceFast's recipe
// signature does not depend on base's kind — draft.FastOps is one
// uniform, path-addressed recorder for every kind — so this one
// function is generic over T, matching spec.md §9's guidance that a
// systems-language implementation should make this engine the primary
// surface.
func ProduceFast[T Value](base T, recipe func(ops *draft.FastOps)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = base
			err = errors.Wrapf(ErrRecipe, "recipe panicked: %v", r)
		}
	}()

	fo := draft.NewFastOps()
	recipe(fo)
	ops := fo.Ops()
	if len(ops) == 0 {
		return base, nil
	}

	tok := token.New()
	root := Value(base)
	for _, op := range ops {
		next, aerr := applyOp(root, op, tok)
		if aerr != nil {
			return base, aerr
		}
		root = next
	}

	if root == Value(base) {
		return base, nil
	}

	committed := applyRepresentationPolicy(Value(base), root)
	out, ok := committed.(T)
	if !ok {
		return base, boundaryf("produce_fast: committed value changed kind from %T to %T", base, committed)
	}
	return out, nil
}

// applyOp dispatches one recorded Op against root, returning the new
// root (or the same root by identity, if the underlying index
// structure detected a no-op).
func applyOp(root Value, op draft.Op, tok *token.Token) (Value, error) {
	switch op.Kind {
	case draft.OpSet, draft.OpUpdate, draft.OpDelete:
		return applyKeyedOp(root, op, tok)
	default:
		return applyWholeOp(root, op, tok)
	}
}

// applyKeyedOp handles Set/Update/Delete: path is the parent
// container's path with the key as its last segment.
func applyKeyedOp(root Value, op draft.Op, tok *token.Token) (Value, error) {
	if len(op.Path) == 0 {
		return nil, boundaryf("operation %s requires a non-empty path", op.Kind)
	}
	containerPath := op.Path[:len(op.Path)-1]
	key := op.Path[len(op.Path)-1]

	container, err := navigate(root, containerPath)
	if err != nil {
		return nil, err
	}
	newContainer, err := mutateKeyed(container, key, op, tok)
	if err != nil {
		return nil, err
	}
	return rebuildWithChild(root, containerPath, newContainer, tok)
}

// applyWholeOp handles Merge/Push/Pop/Splice/Filter/Add/Clear: path
// names the target container itself.
func applyWholeOp(root Value, op draft.Op, tok *token.Token) (Value, error) {
	container, err := navigate(root, op.Path)
	if err != nil {
		return nil, err
	}
	newContainer, err := mutateWhole(container, op, tok)
	if err != nil {
		return nil, err
	}
	return rebuildWithChild(root, op.Path, newContainer, tok)
}

func mutateKeyed(container Value, key any, op draft.Op, tok *token.Token) (Value, error) {
	switch c := container.(type) {
	case *Record:
		name, ok := key.(string)
		if !ok {
			return nil, boundaryf("record key must be a string, got %T", key)
		}
		switch op.Kind {
		case draft.OpSet:
			return c.withSet(name, op.Value, tok), nil
		case draft.OpUpdate:
			old, _ := c.Get(name)
			return c.withSet(name, op.Fn(old), tok), nil
		case draft.OpDelete:
			return c.withDelete(name, tok), nil
		default:
			return nil, boundaryf("operation %s not valid at a record field", op.Kind)
		}
	case *Mapping:
		switch op.Kind {
		case draft.OpSet:
			return c.withSet(key, op.Value, tok), nil
		case draft.OpUpdate:
			old, _ := c.Get(key)
			return c.withSet(key, op.Fn(old), tok), nil
		case draft.OpDelete:
			return c.withDelete(key, tok), nil
		default:
			return nil, boundaryf("operation %s not valid at a mapping key", op.Kind)
		}
	case *Sequence:
		idx, ok := key.(int)
		if !ok {
			return nil, boundaryf("sequence key must be an int, got %T", key)
		}
		switch op.Kind {
		case draft.OpSet:
			return c.withSet(idx, op.Value, tok)
		case draft.OpUpdate:
			old, _ := c.Get(idx)
			return c.withSet(idx, op.Fn(old), tok)
		case draft.OpDelete:
			return nil, boundaryf("sequence has no keyed delete; use splice")
		default:
			return nil, boundaryf("operation %s not valid at a sequence index", op.Kind)
		}
	default:
		return nil, boundaryf("cannot address a key within %T", container)
	}
}

func mutateWhole(container Value, op draft.Op, tok *token.Token) (Value, error) {
	switch c := container.(type) {
	case *Sequence:
		switch op.Kind {
		case draft.OpPush:
			return c.withPush(op.Value, tok), nil
		case draft.OpPop:
			nv, _, _ := c.withPop(tok)
			return nv, nil
		case draft.OpSplice:
			return c.withSplice(op.SpliceStart, op.SpliceDeleteCount, op.SpliceInserts)
		case draft.OpFilter:
			return c.withFilter(op.Keep), nil
		default:
			return nil, boundaryf("operation %s not valid on a sequence", op.Kind)
		}
	case *Mapping:
		switch op.Kind {
		case draft.OpMerge:
			return c.withMerge(op.Merge, tok), nil
		case draft.OpClear:
			return c.withClear(), nil
		default:
			return nil, boundaryf("operation %s not valid on a mapping", op.Kind)
		}
	case *Set:
		switch op.Kind {
		case draft.OpAdd:
			return c.withAdd(op.Value, tok), nil
		case draft.OpClear:
			return c.withClear(), nil
		default:
			return nil, boundaryf("operation %s not valid on a set", op.Kind)
		}
	case *Record:
		switch op.Kind {
		case draft.OpMerge:
			return c.withMerge(op.Merge, tok), nil
		case draft.OpClear:
			return c.withClear(), nil
		default:
			return nil, boundaryf("operation %s not valid on a record", op.Kind)
		}
	default:
		return nil, boundaryf("cannot operate on %T", container)
	}
}

// navigate walks path through root, descending into nested
// Sequence/Mapping/Set/Record values, and returns the Value found at
// its end (root itself, if path is empty).
func navigate(root Value, path draft.Path) (Value, error) {
	cur := root
	for _, seg := range path {
		child, err := childAt(cur, seg)
		if err != nil {
			return nil, err
		}
		cur = child
	}
	return cur, nil
}

func childAt(v Value, seg any) (Value, error) {
	switch c := v.(type) {
	case *Record:
		name, ok := seg.(string)
		if !ok {
			return nil, boundaryf("record path segment must be a string, got %T", seg)
		}
		val, ok := c.Get(name)
		if !ok {
			return nil, boundaryf("record has no field %q", name)
		}
		child, ok := val.(Value)
		if !ok {
			return nil, boundaryf("field %q is not a nested container", name)
		}
		return child, nil
	case *Mapping:
		val, ok := c.Get(seg)
		if !ok {
			return nil, boundaryf("mapping has no key %v", seg)
		}
		child, ok := val.(Value)
		if !ok {
			return nil, boundaryf("value at key %v is not a nested container", seg)
		}
		return child, nil
	case *Sequence:
		idx, ok := seg.(int)
		if !ok {
			return nil, boundaryf("sequence path segment must be an int, got %T", seg)
		}
		val, ok := c.Get(idx)
		if !ok {
			return nil, boundaryf("sequence index %d out of range", idx)
		}
		child, ok := val.(Value)
		if !ok {
			return nil, boundaryf("element %d is not a nested container", idx)
		}
		return child, nil
	default:
		return nil, boundaryf("cannot navigate into %T", v)
	}
}

// rebuildWithChild rewrites root so that the container at path is
// replaced by newChild, reusing every value off that path by identity.
func rebuildWithChild(root Value, path draft.Path, newChild Value, tok *token.Token) (Value, error) {
	if len(path) == 0 {
		return newChild, nil
	}
	seg := path[0]
	rest := path[1:]
	switch c := root.(type) {
	case *Record:
		name, ok := seg.(string)
		if !ok {
			return nil, boundaryf("record path segment must be a string, got %T", seg)
		}
		oldVal, _ := c.Get(name)
		oldChild, _ := oldVal.(Value)
		updated, err := rebuildWithChild(oldChild, rest, newChild, tok)
		if err != nil {
			return nil, err
		}
		return c.withSet(name, updated, tok), nil
	case *Mapping:
		oldVal, _ := c.Get(seg)
		oldChild, _ := oldVal.(Value)
		updated, err := rebuildWithChild(oldChild, rest, newChild, tok)
		if err != nil {
			return nil, err
		}
		return c.withSet(seg, updated, tok), nil
	case *Sequence:
		idx, ok := seg.(int)
		if !ok {
			return nil, boundaryf("sequence path segment must be an int, got %T", seg)
		}
		oldVal, _ := c.Get(idx)
		oldChild, _ := oldVal.(Value)
		updated, err := rebuildWithChild(oldChild, rest, newChild, tok)
		if err != nil {
			return nil, err
		}
		return c.withSet(idx, updated, tok)
	default:
		return nil, boundaryf("cannot rebuild through %T", root)
	}
}

// applyRepresentationPolicy applies spec §4.F to the committed root,
// using the original base's representation as the "in" state.
func applyRepresentationPolicy(base, committed Value) Value {
	action := policy.Decide(base.IsPersistent(), committed.Len())
	switch action {
	case policy.StayNative, policy.Demote:
		return Unwrap(committed)
	default:
		return Wrap(committed)
	}
}
