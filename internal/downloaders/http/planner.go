package rangehttp

import "fmt"

// ByteRange is the half-open span [Start, End) fetched by worker Index.
type ByteRange struct {
	Index int
	Start int64
	End   int64
}

func (r ByteRange) Len() int64 {
	return r.End - r.Start
}

// Header formats the inclusive HTTP Range header value for the span.
func (r ByteRange) Header() string {
	return fmt.Sprintf("bytes=%d-%d", r.Start, r.End-1)
}

// Plan splits [0, contentLength) into workers contiguous ranges. Boundary i
// sits at floor(i*contentLength/workers), computed exactly in integers, so
// the last range always ends at contentLength. When contentLength is smaller
// than workers some ranges are empty. A zero length yields no ranges.
func Plan(contentLength int64, workers int) []ByteRange {
	if workers <= 0 {
		panic("rangehttp: workers must be positive")
	}
	if contentLength < 0 {
		panic("rangehttp: negative content length")
	}
	if contentLength == 0 {
		return nil
	}
	n := int64(workers)
	q, r := contentLength/n, contentLength%n
	boundary := func(i int64) int64 {
		return i*q + i*r/n
	}
	ranges := make([]ByteRange, workers)
	for i := range n {
		ranges[i] = ByteRange{
			Index: int(i) + 1,
			Start: boundary(i),
			End:   boundary(i + 1),
		}
	}
	return ranges
}
