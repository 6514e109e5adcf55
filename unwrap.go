package stela

// Unwrap returns the native form of v. If v is already native, the
// identical value is returned, except for a native Record with an
// indexed value somewhere in its fields, which is rebuilt with those
// fields unwrapped. An indexed v is rebuilt as a native copy. Record
// field values that are themselves Values are unwrapped recursively;
// a Sequence, Mapping or Set is unwrapped shallowly, and elements or
// values inside it that are themselves Values are left as they are.
func Unwrap(v Value) Value {
	switch x := v.(type) {
	case *Sequence:
		return x.unwrap()
	case *Mapping:
		return x.unwrap()
	case *Set:
		return x.unwrap()
	case *Record:
		return unwrapRecordDeep(x)
	default:
		return v
	}
}

// unwrapRecordDeep unwraps r itself and then, recursively, every field
// value that is a Value (a nested Sequence/Mapping/Set/Record).
func unwrapRecordDeep(r *Record) *Record {
	if r == nil {
		return r
	}
	shallow := r.unwrap()
	fields := shallow.Fields()
	changed := false
	for i, f := range fields {
		if child, ok := f.Value.(Value); ok {
			if u := Unwrap(child); u != child {
				fields[i].Value = u
				changed = true
			}
		}
	}
	if !changed {
		return shallow
	}
	return NewRecord(fields...)
}

// IsPersistent reports whether v is currently backed by an indexed
// representation.
func IsPersistent(v Value) bool {
	return v != nil && v.IsPersistent()
}
