package stela

import (
	"github.com/pkg/errors"

	"github.com/stela-go/stela/internal/policy"
	"github.com/stela-go/stela/internal/rrbvector"
	"github.com/stela-go/stela/internal/token"

	"github.com/stela-go/stela/draft"
)

// ProduceSequence runs recipe against a recording draft of base and
// returns the committed result, applying the adaptive policy and the
// no-op identity short-circuit (spec §4.F/§4.H). Produce is kind-
// dispatched in this module through one exported function per kind
// rather than a single generic entry point with a runtime type switch:
// the caller already knows base's kind statically, so the kind-
// specific recipe signature (func(d *draft.Sequence) here) is chosen
// at compile time, which is the idiomatic Go shape for what spec.md
// §4.H describes as "dispatch by runtime kind to the right draft
// implementation".
func ProduceSequence(base *Sequence, recipe func(d *draft.Sequence)) (result *Sequence, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = base
			err = errors.Wrapf(ErrRecipe, "recipe panicked: %v", r)
		}
	}()

	tok := token.New()
	d := startSequenceDraft(base, tok)
	recipe(d)
	if !d.Dirty() {
		return base, nil
	}

	committed := d.ToSlice()
	switch policy.Decide(base.IsPersistent(), len(committed)) {
	case policy.StayNative, policy.Demote:
		return NewSequence(committed...), nil
	default:
		if d.IsIndexed() {
			return sequenceFromIndexed(d.Indexed()), nil
		}
		return sequenceFromIndexed(rrbvector.FromSlice(committed)), nil
	}
}

func startSequenceDraft(base *Sequence, tok *token.Token) *draft.Sequence {
	if base.IsPersistent() {
		return draft.NewSequenceFromIndexed(base.indexed, tok)
	}
	if len(base.native) >= policy.Threshold {
		return draft.NewSequenceFromIndexed(rrbvector.FromSlice(base.native), tok)
	}
	return draft.NewSequenceFromNative(base.native, tok)
}

// ProduceMapping runs recipe against a recording draft of base.
func ProduceMapping(base *Mapping, recipe func(d *draft.Mapping)) (result *Mapping, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = base
			err = errors.Wrapf(ErrRecipe, "recipe panicked: %v", r)
		}
	}()

	tok := token.New()
	d := startMappingDraft(base, tok)
	recipe(d)
	if !d.Dirty() {
		return base, nil
	}

	switch policy.Decide(base.IsPersistent(), d.Len()) {
	case policy.StayNative, policy.Demote:
		return nativeMappingFromDraftEntries(d), nil
	default:
		if d.IsIndexed() {
			return mappingFromIndexed(d.Indexed()), nil
		}
		return mappingFromIndexed(mappingFromEntries(d.Entries())), nil
	}
}

func startMappingDraft(base *Mapping, tok *token.Token) *draft.Mapping {
	if base.IsPersistent() {
		return draft.NewMappingFromIndexed(base.indexed, tok)
	}
	entries := make([]draft.MapEntry, len(base.native))
	for i, e := range base.native {
		entries[i] = draft.MapEntry{Key: e.Key, Val: e.Val}
	}
	if len(base.native) >= policy.Threshold {
		idx := mappingFromEntries(entries)
		return draft.NewMappingFromIndexed(idx, tok)
	}
	return draft.NewMappingFromNative(entries, tok)
}

func nativeMappingFromDraftEntries(d *draft.Mapping) *Mapping {
	src := d.Entries()
	out := make([]Entry, len(src))
	for i, e := range src {
		out[i] = Entry{Key: e.Key, Val: e.Val}
	}
	return &Mapping{native: out}
}

// ProduceSet runs recipe against a recording draft of base.
func ProduceSet(base *Set, recipe func(d *draft.Set)) (result *Set, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = base
			err = errors.Wrapf(ErrRecipe, "recipe panicked: %v", r)
		}
	}()

	tok := token.New()
	d := startSetDraft(base, tok)
	recipe(d)
	if !d.Dirty() {
		return base, nil
	}

	switch policy.Decide(base.IsPersistent(), d.Len()) {
	case policy.StayNative, policy.Demote:
		return &Set{native: d.Elements()}, nil
	default:
		if d.IsIndexed() {
			return setFromIndexed(d.Indexed()), nil
		}
		return NewSet(d.Elements()...).wrap(), nil
	}
}

func startSetDraft(base *Set, tok *token.Token) *draft.Set {
	if base.IsPersistent() {
		return draft.NewSetFromIndexed(base.indexed, tok)
	}
	if len(base.native) >= policy.Threshold {
		return draft.NewSetFromIndexed(setFromElems(base.native), tok)
	}
	return draft.NewSetFromNative(base.native, tok)
}

// ProduceRecord runs recipe against a recording draft of base. Nested
// records and containers are mutated by the recipe itself issuing a
// recursive Produce/ProduceFast call against the value read from the
// draft and writing the result back with Set — see draft.Record's doc
// comment.
func ProduceRecord(base *Record, recipe func(d *draft.Record)) (result *Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = base
			err = errors.Wrapf(ErrRecipe, "recipe panicked: %v", r)
		}
	}()

	tok := token.New()
	d := startRecordDraft(base, tok)
	recipe(d)
	if !d.Dirty() {
		return base, nil
	}

	switch policy.Decide(base.IsPersistent(), d.Len()) {
	case policy.StayNative, policy.Demote:
		return nativeRecordFromDraft(d), nil
	default:
		if d.IsIndexed() {
			return recordFromMapping(mappingFromIndexed(d.Indexed())), nil
		}
		return nativeRecordFromDraft(d).wrap(), nil
	}
}

func startRecordDraft(base *Record, tok *token.Token) *draft.Record {
	if base.IsPersistent() {
		return draft.NewRecordFromIndexed(base.m.indexed, tok)
	}
	fields := make([]draft.Field, len(base.m.native))
	for i, e := range base.m.native {
		fields[i] = draft.Field{Name: e.Key.(string), Val: e.Val}
	}
	if len(base.m.native) >= policy.Threshold {
		idx := mappingFromEntries(toMapEntries(fields))
		return draft.NewRecordFromIndexed(idx, tok)
	}
	return draft.NewRecordFromNative(fields, tok)
}

func nativeRecordFromDraft(d *draft.Record) *Record {
	src := d.Fields()
	out := make([]Field, len(src))
	for i, f := range src {
		out[i] = Field{Name: f.Name, Value: f.Val}
	}
	return NewRecord(out...)
}

func toMapEntries(fields []draft.Field) []draft.MapEntry {
	out := make([]draft.MapEntry, len(fields))
	for i, f := range fields {
		out[i] = draft.MapEntry{Key: f.Name, Val: f.Val}
	}
	return out
}
