package pkg

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateReference(t *testing.T) {
	ref := GenerateReference()

	if !strings.HasPrefix(ref, "TXN-") {
		t.Errorf("expected TXN- prefix, got %s", ref)
	}
	parts := strings.Split(ref, "-")
	if len(parts) != 3 {
		t.Fatalf("expected three segments, got %s", ref)
	}
	if len(parts[2]) != 9 {
		t.Errorf("expected 9-character suffix, got %s", parts[2])
	}

	if GenerateReference() == ref {
		t.Error("consecutive references should differ")
	}
}

func TestDayStart(t *testing.T) {
	at := time.Date(2024, 3, 5, 23, 59, 59, 0, time.UTC)
	want := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	if got := DayStart(at); !got.Equal(want) {
		t.Errorf("DayStart() = %v, want %v", got, want)
	}
}

func TestDaysBetween(t *testing.T) {
	cases := []struct {
		a, b time.Time
		want int
	}{
		{
			a:    time.Date(2024, 3, 1, 23, 50, 0, 0, time.UTC),
			b:    time.Date(2024, 3, 2, 0, 10, 0, 0, time.UTC),
			want: 1,
		},
		{
			a:    time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC),
			b:    time.Date(2024, 3, 2, 21, 0, 0, 0, time.UTC),
			want: 0,
		},
		{
			a:    time.Date(2024, 2, 28, 12, 0, 0, 0, time.UTC),
			b:    time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
			want: 2, // leap year
		},
	}

	for _, tc := range cases {
		if got := DaysBetween(tc.a, tc.b); got != tc.want {
			t.Errorf("DaysBetween(%v, %v) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestNormalizeCourseCode(t *testing.T) {
	if got := NormalizeCourseCode("  csc 201 "); got != "CSC 201" {
		t.Errorf("NormalizeCourseCode() = %q", got)
	}
}

func TestValidateRating(t *testing.T) {
	for _, r := range []int{1, 3, 5} {
		if err := ValidateRating(r); err != nil {
			t.Errorf("ValidateRating(%d) = %v", r, err)
		}
	}
	for _, r := range []int{0, 6, -1} {
		if err := ValidateRating(r); err == nil {
			t.Errorf("ValidateRating(%d) should fail", r)
		}
	}
}

func TestValidateAmount(t *testing.T) {
	if err := ValidateAmount(100); err != nil {
		t.Errorf("ValidateAmount(100) = %v", err)
	}
	if err := ValidateAmount(0); err == nil {
		t.Error("ValidateAmount(0) should fail")
	}
	if err := ValidateAmount(-5); err == nil {
		t.Error("ValidateAmount(-5) should fail")
	}
}
