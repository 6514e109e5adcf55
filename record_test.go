package stela

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecordBasics(t *testing.T) {
	t.Parallel()

	r := NewRecord(
		Field{Name: "name", Value: "Bob"},
		Field{Name: "age", Value: 25},
	)
	require.False(t, r.IsPersistent())
	v, ok := r.Get("name")
	require.True(t, ok)
	require.Equal(t, "Bob", v)
	require.False(t, r.Has("missing"))
}

func TestRecordNestedFields(t *testing.T) {
	t.Parallel()

	settings := NewRecord(Field{Name: "theme", Value: "light"}, Field{Name: "notifications", Value: true})
	profile := NewRecord(Field{Name: "bio", Value: "Hello"}, Field{Name: "settings", Value: settings})
	r := NewRecord(Field{Name: "name", Value: "Bob"}, Field{Name: "profile", Value: profile})

	got, ok := r.Get("profile")
	require.True(t, ok)
	gotProfile, ok := got.(*Record)
	require.True(t, ok)

	gotSettings, ok := gotProfile.Get("settings")
	require.True(t, ok)
	theme, ok := gotSettings.(*Record).Get("theme")
	require.True(t, ok)
	require.Equal(t, "light", theme)
}
