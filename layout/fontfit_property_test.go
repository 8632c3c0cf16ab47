package layout

import (
	"testing"

	"pgregory.net/rapid"
)

// Font-fit maximality: with a monotone fits predicate (if size S fits, every
// smaller size fits), the optimizer returns the largest fitting size within
// [min, start], or reports failure when even min does not fit.
func TestPropertyFitFontReturnsMaximum(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		min := rapid.IntRange(6, 72).Draw(t, "min")
		start := rapid.IntRange(min, 72).Draw(t, "start")
		threshold := rapid.IntRange(0, 80).Draw(t, "threshold")

		calls := 0
		size, ok := FitFont(min, start, func(s int) bool {
			calls++
			return s <= threshold
		})

		if threshold < min {
			if ok {
				t.Fatalf("min %d above threshold %d must fail, got size %d", min, threshold, size)
			}
			return
		}
		if !ok {
			t.Fatalf("threshold %d within [%d,%d] must fit", threshold, min, start)
		}
		want := threshold
		if want > start {
			want = start
		}
		if size != want {
			t.Fatalf("FitFont = %d, want maximum fitting size %d", size, want)
		}
		// Descending scan visits each candidate at most once.
		if calls > start-min+1 {
			t.Fatalf("predicate called %d times for range of %d", calls, start-min+1)
		}
	})
}

func TestFitFontStartBelowMin(t *testing.T) {
	size, ok := FitFont(9, 6, func(s int) bool { return true })
	if !ok || size != 9 {
		t.Fatalf("start below min should clamp to min, got (%d, %v)", size, ok)
	}
}

func TestClampSize(t *testing.T) {
	if got := clampSize(5, 8, 14); got != 8 {
		t.Fatalf("clampSize below min = %d", got)
	}
	if got := clampSize(20, 8, 14); got != 14 {
		t.Fatalf("clampSize above start = %d", got)
	}
	if got := clampSize(11, 8, 14); got != 11 {
		t.Fatalf("clampSize in range = %d", got)
	}
}
