package reviews

import (
	"strings"
	"testing"
	"time"
)

func TestTooSoon(t *testing.T) {
	base := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC).UnixMilli()

	fourMin := base + 4*time.Minute.Milliseconds()
	if !TooSoon(base, fourMin) {
		t.Error("4 minutes apart must be rejected")
	}

	exactly := base + 5*time.Minute.Milliseconds()
	if TooSoon(base, exactly) {
		t.Error("exactly 5 minutes apart is allowed")
	}

	fivePlus := base + 5*time.Minute.Milliseconds() + time.Second.Milliseconds()
	if TooSoon(base, fivePlus) {
		t.Error("5 minutes 1 second apart must be allowed")
	}
}

func TestValidRating(t *testing.T) {
	valid := []float64{1, 1.5, 7, 9.5, 10}
	for _, r := range valid {
		if !ValidRating(r) {
			t.Errorf("rating %v should be valid", r)
		}
	}

	invalid := []float64{0, 0.5, 10.5, 11, 7.3, 4.25, -1}
	for _, r := range invalid {
		if ValidRating(r) {
			t.Errorf("rating %v should be invalid", r)
		}
	}
}

func TestMaskBadWords(t *testing.T) {
	got := MaskBadWords("This tour was a damn SCAM, total Crap")
	want := "This tour was a **** ****, total ****"
	if got != want {
		t.Fatalf("MaskBadWords = %q, want %q", got, want)
	}
}

func TestMaskPreservesLength(t *testing.T) {
	in := "what a stupid bastard of a schedule"
	out := MaskBadWords(in)
	if len(out) != len(in) {
		t.Fatalf("mask changed length: %d -> %d", len(in), len(out))
	}
	if strings.Contains(strings.ToLower(out), "stupid") || strings.Contains(strings.ToLower(out), "bastard") {
		t.Fatalf("blocked words survived: %q", out)
	}
}

func TestMaskIdempotent(t *testing.T) {
	once := MaskBadWords("a bloody hell of a damn trip")
	twice := MaskBadWords(once)
	if once != twice {
		t.Fatalf("masking is not idempotent: %q vs %q", once, twice)
	}
}

func TestMaskCleanComment(t *testing.T) {
	in := "Lovely guide, great views, would book again"
	if got := MaskBadWords(in); got != in {
		t.Fatalf("clean comment modified: %q", got)
	}
	if got := MaskBadWords(""); got != "" {
		t.Fatalf("empty comment modified: %q", got)
	}
}
