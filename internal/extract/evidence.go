package extract

import (
	"math"

	"github.com/ppiankov/layergraph/internal/model"
)

// noBoxDistance ranks candidates without a box after every real distance
const noBoxDistance = math.MaxFloat64

// EvidenceResolver picks the span that best supports a derived fact
type EvidenceResolver struct {
	spans []model.TextSpan
}

// NewEvidenceResolver creates a resolver over spans in input order
func NewEvidenceResolver(spans []model.TextSpan) *EvidenceResolver {
	return &EvidenceResolver{spans: spans}
}

// Resolve selects the best span for the page and box hints:
//  1. no page hint: the first span
//  2. no span on that page: the first span
//  3. no box hint: the first span on the page
//  4. otherwise the same-page span whose box centroid is nearest (Manhattan)
//     to the hint centroid; ties keep input order
//
// ok is false only when there are no spans at all.
func (r *EvidenceResolver) Resolve(page *int, box *model.BBox) (model.TextSpan, bool) {
	if len(r.spans) == 0 {
		return model.TextSpan{}, false
	}
	if page == nil {
		return r.spans[0], true
	}

	var candidates []model.TextSpan
	for _, s := range r.spans {
		if s.PageIndex != nil && *s.PageIndex == *page {
			candidates = append(candidates, s)
		}
	}
	if len(candidates) == 0 {
		return r.spans[0], true
	}
	if box == nil {
		return candidates[0], true
	}

	cx, cy := box.Centroid()
	best := 0
	bestDist := centroidDistance(candidates[0], cx, cy)
	for i := 1; i < len(candidates); i++ {
		// strict less keeps the earliest candidate on ties
		if d := centroidDistance(candidates[i], cx, cy); d < bestDist {
			best, bestDist = i, d
		}
	}
	return candidates[best], true
}

func centroidDistance(s model.TextSpan, cx, cy float64) float64 {
	if s.BBox == nil {
		return noBoxDistance
	}
	sx, sy := s.BBox.Centroid()
	return math.Abs(sx-cx) + math.Abs(sy-cy)
}
