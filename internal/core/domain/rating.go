package domain

type ratingKind int

const (
	ratingNone ratingKind = iota
	ratingScalar
	ratingDetailed
)

// Rating is absent, a bare average, or an average with a review count.
// Upstream feeds deliver all three shapes, so the zero value means
// "no rating" and sorting treats it as 0.
type Rating struct {
	kind    ratingKind
	average float64
	count   int
}

func NoRating() Rating {
	return Rating{}
}

func ScalarRating(average float64) Rating {
	return Rating{kind: ratingScalar, average: average}
}

func DetailedRating(average float64, count int) Rating {
	return Rating{kind: ratingDetailed, average: average, count: count}
}

func (r Rating) Present() bool {
	return r.kind != ratingNone
}

// Average returns the effective rating value, 0 when absent.
func (r Rating) Average() float64 {
	return r.average
}

// Count returns the review count, 0 unless the detailed shape was given.
func (r Rating) Count() int {
	return r.count
}
