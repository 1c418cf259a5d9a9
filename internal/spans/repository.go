// Package spans holds the raw evidence layer: text spans with page and
// bounding-box provenance, the grounding document, and upstream quantity candidates.
package spans

import (
	"math"
	"sort"

	"github.com/ppiankov/layergraph/internal/model"
	"github.com/ppiankov/layergraph/internal/rdf"
)

// Repository is an immutable snapshot of one document's parse layer
type Repository struct {
	namespace  rdf.Namespace
	document   *model.Document
	spans      []model.TextSpan
	quantities []model.RawQuantity
	byID       map[string]int
}

// NewRepository builds a repository. Spans keep their input order; a later
// span with a duplicate ID is dropped.
func NewRepository(ns rdf.Namespace, doc *model.Document, spans []model.TextSpan, quantities []model.RawQuantity) *Repository {
	r := &Repository{
		namespace: ns,
		document:  doc,
		byID:      make(map[string]int, len(spans)),
	}
	for _, s := range spans {
		if _, dup := r.byID[s.ID]; dup {
			continue
		}
		r.byID[s.ID] = len(r.spans)
		r.spans = append(r.spans, s)
	}
	r.quantities = append(r.quantities, quantities...)
	return r
}

// Namespace returns the parse-layer namespace the spans were typed with
func (r *Repository) Namespace() rdf.Namespace {
	return r.namespace
}

// Document returns the grounding document, or nil when the input had none
func (r *Repository) Document() *model.Document {
	return r.document
}

// Len returns the number of spans
func (r *Repository) Len() int {
	return len(r.spans)
}

// Spans returns the spans in input order
func (r *Repository) Spans() []model.TextSpan {
	out := make([]model.TextSpan, len(r.spans))
	copy(out, r.spans)
	return out
}

// Quantities returns the upstream quantity candidates in input order
func (r *Repository) Quantities() []model.RawQuantity {
	out := make([]model.RawQuantity, len(r.quantities))
	copy(out, r.quantities)
	return out
}

// Lookup finds a span by ID
func (r *Repository) Lookup(id string) (model.TextSpan, bool) {
	i, ok := r.byID[id]
	if !ok {
		return model.TextSpan{}, false
	}
	return r.spans[i], true
}

// WithQuantities returns a copy of the repository with extra quantity candidates appended
func (r *Repository) WithQuantities(extra []model.RawQuantity) *Repository {
	qs := make([]model.RawQuantity, 0, len(r.quantities)+len(extra))
	qs = append(qs, r.quantities...)
	qs = append(qs, extra...)
	return NewRepository(r.namespace, r.document, r.spans, qs)
}

// Canonical returns the spans in reading order: page, then y0, then x0,
// then span ID. Missing page or box sorts after everything known.
func Canonical(in []model.TextSpan) []model.TextSpan {
	out := make([]model.TextSpan, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		return canonicalLess(out[i], out[j])
	})
	return out
}

// NoPage is the sort key for spans without a page index
const NoPage = math.MaxInt

func canonicalLess(a, b model.TextSpan) bool {
	pa, pb := pageKey(a), pageKey(b)
	if pa != pb {
		return pa < pb
	}
	ya, xa := boxKey(a)
	yb, xb := boxKey(b)
	if ya != yb {
		return ya < yb
	}
	if xa != xb {
		return xa < xb
	}
	return a.ID < b.ID
}

func pageKey(s model.TextSpan) int {
	if s.PageIndex == nil {
		return NoPage
	}
	return *s.PageIndex
}

func boxKey(s model.TextSpan) (float64, float64) {
	if s.BBox == nil {
		return math.Inf(1), math.Inf(1)
	}
	return s.BBox.Y0, s.BBox.X0
}
