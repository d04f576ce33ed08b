package posewrap

import "testing"

func TestOpt(t *testing.T) {
	t.Parallel()

	zero := Some(0)
	if v, ok := zero.Get(); !ok || v != 0 {
		t.Fatalf("Some(0).Get()=%v,%v", v, ok)
	}
	if zero == None[int]() {
		t.Fatalf("Some(0) equals None")
	}
	if got := None[string]().Or("session"); got != "session" {
		t.Fatalf("Or=%q", got)
	}
	if got := Some("A").Or("session"); got != "A" {
		t.Fatalf("Or=%q", got)
	}
	if None[int]().String() != "<none>" || Some(7).String() != "7" {
		t.Fatalf("String mismatch")
	}
	if !lessOpt(None[int](), Some(-5)) || lessOpt(Some(1), None[int]()) || !lessOpt(Some("a"), Some("b")) {
		t.Fatalf("lessOpt ordering wrong")
	}
}
