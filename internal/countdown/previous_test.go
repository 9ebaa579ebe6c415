package countdown

import "testing"

func TestPreviousReadsBeforeWrite(t *testing.T) {
	var p Previous[int]

	if _, ok := p.Observe(3); ok {
		t.Fatal("first observation must report no previous value")
	}

	steps := []struct {
		in   int
		want int
	}{
		{2, 3},
		{1, 2},
		{0, 1},
		{0, 0},
	}
	for _, s := range steps {
		prev, ok := p.Observe(s.in)
		if !ok || prev != s.want {
			t.Fatalf("Observe(%d) = (%d, %v), want (%d, true)", s.in, prev, ok, s.want)
		}
	}

	if v, ok := p.Peek(); !ok || v != 0 {
		t.Fatalf("Peek = (%d, %v), want (0, true)", v, ok)
	}
}

func TestPreviousChangedAndReset(t *testing.T) {
	var p Previous[string]

	if !p.Changed("a") {
		t.Fatal("first value counts as a change")
	}
	if p.Changed("a") {
		t.Fatal("same value is not a change")
	}
	if !p.Changed("b") {
		t.Fatal("different value is a change")
	}

	p.Reset()
	if _, ok := p.Peek(); ok {
		t.Fatal("expected no value after reset")
	}
	if !p.Changed("b") {
		t.Fatal("first value after reset counts as a change")
	}
}
