package rangehttp

import (
	"reflect"
	"testing"
)

func TestPlanExamples(t *testing.T) {
	tests := []struct {
		name    string
		length  int64
		workers int
		want    [][2]int64
	}{
		{"ten over four", 10, 4, [][2]int64{{0, 2}, {2, 5}, {5, 7}, {7, 10}}},
		{"ten over three", 10, 3, [][2]int64{{0, 3}, {3, 6}, {6, 10}}},
		{"even split", 12, 4, [][2]int64{{0, 3}, {3, 6}, {6, 9}, {9, 12}}},
		{"single worker", 7, 1, [][2]int64{{0, 7}}},
		{"fewer bytes than workers", 2, 4, [][2]int64{{0, 0}, {0, 1}, {1, 1}, {1, 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranges := Plan(tt.length, tt.workers)
			got := make([][2]int64, len(ranges))
			for i, r := range ranges {
				if r.Index != i+1 {
					t.Errorf("range %d has index %d", i, r.Index)
				}
				got[i] = [2]int64{r.Start, r.End}
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Plan(%d, %d) = %v, want %v", tt.length, tt.workers, got, tt.want)
			}
		})
	}
}

func TestPlanZeroLength(t *testing.T) {
	if ranges := Plan(0, 4); len(ranges) != 0 {
		t.Errorf("expected no ranges, got %v", ranges)
	}
}

func TestPlanCoversContentExactly(t *testing.T) {
	for length := int64(1); length <= 64; length++ {
		for workers := 1; workers <= 9; workers++ {
			ranges := Plan(length, workers)
			if len(ranges) != workers {
				t.Fatalf("Plan(%d, %d): got %d ranges", length, workers, len(ranges))
			}
			if ranges[0].Start != 0 {
				t.Fatalf("Plan(%d, %d): first range starts at %d", length, workers, ranges[0].Start)
			}
			if last := ranges[workers-1]; last.End != length {
				t.Fatalf("Plan(%d, %d): last range ends at %d", length, workers, last.End)
			}
			minLen, maxLen := ranges[0].Len(), ranges[0].Len()
			for i := 1; i < workers; i++ {
				if ranges[i].Start != ranges[i-1].End {
					t.Fatalf("Plan(%d, %d): gap between ranges %d and %d", length, workers, i, i+1)
				}
				minLen = min(minLen, ranges[i].Len())
				maxLen = max(maxLen, ranges[i].Len())
			}
			if maxLen-minLen > 1 {
				t.Fatalf("Plan(%d, %d): range sizes differ by %d", length, workers, maxLen-minLen)
			}
		}
	}
}

func TestPlanLargeLengthDoesNotOverflow(t *testing.T) {
	const length = int64(1) << 62
	ranges := Plan(length, 7)
	if ranges[6].End != length {
		t.Errorf("last range ends at %d, want %d", ranges[6].End, length)
	}
	for i := 1; i < len(ranges); i++ {
		if ranges[i].Start < ranges[i-1].Start {
			t.Fatalf("range %d starts before range %d", i+1, i)
		}
	}
}

func TestPlanPanicsOnInvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		length  int64
		workers int
	}{
		{"zero workers", 10, 0},
		{"negative workers", 10, -1},
		{"negative length", -1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("Plan(%d, %d) did not panic", tt.length, tt.workers)
				}
			}()
			Plan(tt.length, tt.workers)
		})
	}
}

func TestByteRangeHeader(t *testing.T) {
	r := ByteRange{Index: 2, Start: 2, End: 5}
	if got := r.Header(); got != "bytes=2-4" {
		t.Errorf("Header() = %q, want %q", got, "bytes=2-4")
	}
	if r.Len() != 3 {
		t.Errorf("Len() = %d, want 3", r.Len())
	}
}
