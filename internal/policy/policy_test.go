package policy

import "testing"

func TestDecide(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		wasIndexed bool
		count      int
		want       Action
	}{
		{"native stays native", false, 0, StayNative},
		{"native stays native at boundary-1", false, Threshold - 1, StayNative},
		{"native promotes at boundary", false, Threshold, Promote},
		{"native promotes well above", false, Threshold * 4, Promote},
		{"indexed demotes below boundary", true, Threshold - 1, Demote},
		{"indexed stays indexed at boundary", true, Threshold, StayIndexed},
		{"indexed stays indexed well above", true, Threshold * 4, StayIndexed},
	}
	for _, c := range cases {
		if got := Decide(c.wasIndexed, c.count); got != c.want {
			t.Errorf("%s: Decide(%v,%d) = %v, want %v", c.name, c.wasIndexed, c.count, got, c.want)
		}
	}
}
