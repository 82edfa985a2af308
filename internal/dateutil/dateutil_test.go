package dateutil

import (
	"testing"
	"time"
)

func TestParseDueDateAcceptedShapes(t *testing.T) {
	want := time.Date(2025, 3, 1, 0, 0, 0, 0, time.Local)

	for _, input := range []string{"2025-03-01", "20250301", "  2025-03-01  "} {
		got := ParseDueDate(input)
		if got == nil {
			t.Fatalf("ParseDueDate(%q) = nil, want %v", input, want)
		}
		if !got.Equal(want) {
			t.Errorf("ParseDueDate(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestParseDueDateBothShapesAgree(t *testing.T) {
	dashed := ParseDueDate("2025-03-01")
	compact := ParseDueDate("20250301")
	if dashed == nil || compact == nil {
		t.Fatal("expected both shapes to parse")
	}
	if !dashed.Equal(*compact) {
		t.Errorf("shapes disagree: %v vs %v", dashed, compact)
	}
}

func TestParseDueDateNoDate(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		// These only reach the parser if validation is bypassed; the parser
		// treats them as "no date" rather than erroring. Should never trigger
		// in correct operation.
		{"garbage", "not-a-date"},
		{"partial", "2025-03"},
		{"seven digits", "2025030"},
		{"impossible month", "2025-13-45"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParseDueDate(tc.input); got != nil {
				t.Errorf("ParseDueDate(%q) = %v, want nil", tc.input, got)
			}
		})
	}
}

func TestParseDueDateLocalMidnight(t *testing.T) {
	got := ParseDueDate("2025-01-15")
	if got == nil {
		t.Fatal("expected a date")
	}
	h, m, sec := got.Clock()
	if h != 0 || m != 0 || sec != 0 {
		t.Errorf("expected local midnight, got %v", got)
	}
	if got.Location() != time.Local {
		t.Errorf("expected local location, got %v", got.Location())
	}
}

func TestIsAcceptedShape(t *testing.T) {
	accepted := []string{"2025-03-01", "20250301", " 20250301 "}
	for _, input := range accepted {
		if !IsAcceptedShape(input) {
			t.Errorf("IsAcceptedShape(%q) = false, want true", input)
		}
	}
	rejected := []string{"", "not-a-date", "2025/03/01", "202503011", "2025-3-1"}
	for _, input := range rejected {
		if IsAcceptedShape(input) {
			t.Errorf("IsAcceptedShape(%q) = true, want false", input)
		}
	}
}
