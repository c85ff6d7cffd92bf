package grade

import "testing"

func TestFromCPLBoundaries(t *testing.T) {
	th := Defaults()
	cases := []struct {
		cpl  float64
		want string
	}{
		{1, "S"},
		{5000, "S"},
		{5001, "A"},
		{10000, "A"},
		{10001, "B"},
		{20000, "B"},
		{20001, "C"},
		{35000, "C"},
		{35001, "D"},
		{50000, "D"},
		{50001, "F"},
		{1e9, "F"},
	}
	for _, tc := range cases {
		if got := th.FromCPL(tc.cpl); got != tc.want {
			t.Fatalf("FromCPL(%v) = %q, want %q", tc.cpl, got, tc.want)
		}
	}
}

func TestGradeNullGuards(t *testing.T) {
	th := Defaults()

	if g, ok := th.Grade(99999, 0); ok || g != "" {
		t.Fatalf("leads=0 must yield no grade, got %q ok=%v", g, ok)
	}
	if g, ok := th.Grade(0, 10); ok || g != "" {
		t.Fatalf("spend=0 must yield no grade, got %q ok=%v", g, ok)
	}
}

func TestGradeComputesCPL(t *testing.T) {
	th := Defaults()

	// 23000 / 5 = 4600 per lead
	if g, ok := th.Grade(23000, 5); !ok || g != "S" {
		t.Fatalf("Grade(23000, 5) = %q ok=%v, want S", g, ok)
	}
	if g, ok := th.Grade(50001, 1); !ok || g != "F" {
		t.Fatalf("Grade(50001, 1) = %q ok=%v, want F", g, ok)
	}
}

func TestCustomThresholds(t *testing.T) {
	th := Thresholds{S: 10, A: 20, B: 30, C: 40, D: 50}
	if g := th.FromCPL(15); g != "A" {
		t.Fatalf("FromCPL(15) = %q, want A", g)
	}
	if g := th.FromCPL(51); g != "F" {
		t.Fatalf("FromCPL(51) = %q, want F", g)
	}
}
