package model

import "strings"

// BBox is a rectangle in page coordinates: x0, y0 (top-left) to x1, y1.
type BBox struct {
	X0 float64 `json:"x0" yaml:"x0"`
	Y0 float64 `json:"y0" yaml:"y0"`
	X1 float64 `json:"x1" yaml:"x1"`
	Y1 float64 `json:"y1" yaml:"y1"`
}

// Centroid returns the center point of the box
func (b BBox) Centroid() (float64, float64) {
	return (b.X0 + b.X1) / 2.0, (b.Y0 + b.Y1) / 2.0
}

// TextSpan is the raw evidence unit: a text fragment with optional page and box provenance.
// Spans are immutable once loaded; derived entities reference them by ID.
type TextSpan struct {
	ID        string `json:"id"`                   // IRI of the span in the parse graph
	Text      string `json:"text"`                 // Span text (rdfs:label upstream)
	PageIndex *int   `json:"page_index,omitempty"` // nil when the page is unknown
	BBox      *BBox  `json:"bbox,omitempty"`       // nil when geometry is unknown
}

// HasGeometry reports whether the span carries both a page index and a bounding box
func (s TextSpan) HasGeometry() bool {
	return s.PageIndex != nil && s.BBox != nil
}

// RawQuantity is an upstream dimension candidate (value and unit as extracted text).
type RawQuantity struct {
	ID        string `json:"id"`
	Value     string `json:"value,omitempty"`
	Unit      string `json:"unit,omitempty"`
	PageIndex *int   `json:"page_index,omitempty"`
	BBox      *BBox  `json:"bbox,omitempty"`
}

// OriginalText joins the trimmed value and unit the way they appeared upstream
func (q RawQuantity) OriginalText() string {
	parts := make([]string, 0, 2)
	for _, p := range []string{q.Value, q.Unit} {
		if t := strings.TrimSpace(p); t != "" {
			parts = append(parts, t)
		}
	}
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	default:
		return parts[0] + " " + parts[1]
	}
}

// Document is the single identifiable document node that grounds an analysis.
type Document struct {
	ID string `json:"id"`
}

// IntPtr is a small helper for optional page indexes
func IntPtr(v int) *int {
	return &v
}
