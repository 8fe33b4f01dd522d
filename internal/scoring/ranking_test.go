package scoring

import (
	"testing"

	"vida-plena/internal/domain"
)

func TestRankDescendingAndStable(t *testing.T) {
	scales := []domain.ScaleScore{
		{Code: "a", Value: 1},
		{Code: "b", Value: 4},
		{Code: "c", Value: 1},
		{Code: "d", Value: 4},
		{Code: "e", Value: 0},
	}
	r := Rank(scales)

	want := []string{"b", "d", "a", "c", "e"}
	for i, code := range want {
		if r[i].Code != code {
			t.Fatalf("rank[%d] = %s, want %s", i, r[i].Code, code)
		}
	}
	for i := 0; i+1 < len(r); i++ {
		if r[i].Value < r[i+1].Value {
			t.Fatalf("ranking not descending at %d", i)
		}
	}
	if scales[0].Code != "a" {
		t.Fatalf("Rank must not reorder its input")
	}
	if Position(r, "a") != 3 || Position(r, "zz") != 0 {
		t.Fatalf("unexpected positions")
	}
}

func TestTop(t *testing.T) {
	r := []domain.ScaleScore{{Code: "a"}, {Code: "b"}}
	if len(Top(r, 1)) != 1 || len(Top(r, 5)) != 2 || len(Top(r, -1)) != 0 {
		t.Fatalf("unexpected Top slicing")
	}
}

func TestTBAndClassify(t *testing.T) {
	if tb := TB(domain.ScaleScore{Value: 2, MaxPossible: 3}); tb != 67 {
		t.Fatalf("expected TB 67, got %d", tb)
	}
	if tb := TB(domain.ScaleScore{Value: 2}); tb != 0 {
		t.Fatalf("expected TB 0 without ceiling, got %d", tb)
	}
	tests := []struct {
		tb   int
		want Severity
	}{
		{100, SeverityMain},
		{60, SeverityMain},
		{59, SeverityMild},
		{40, SeverityMild},
		{39, SeverityNull},
		{0, SeverityNull},
	}
	for _, tc := range tests {
		if got := Classify(tc.tb); got != tc.want {
			t.Fatalf("Classify(%d) = %q, want %q", tc.tb, got, tc.want)
		}
	}
}
