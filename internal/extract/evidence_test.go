package extract

import (
	"testing"

	"github.com/ppiankov/layergraph/internal/model"
)

// centered builds a span whose box is centered at (cx, cy)
func centered(id string, page int, cx, cy float64) model.TextSpan {
	return model.TextSpan{
		ID:        id,
		PageIndex: model.IntPtr(page),
		BBox:      &model.BBox{X0: cx - 5, Y0: cy - 5, X1: cx + 5, Y1: cy + 5},
	}
}

func TestEvidenceResolver_NearestCentroid(t *testing.T) {
	r := NewEvidenceResolver([]model.TextSpan{
		centered("p1", 1, 50, 50),
		centered("far", 2, 10, 10),
		centered("near", 2, 48, 52),
	})

	got, ok := r.Resolve(model.IntPtr(2), &model.BBox{X0: 40, Y0: 40, X1: 60, Y1: 60})
	if !ok {
		t.Fatal("Expected a span")
	}
	if got.ID != "near" {
		t.Errorf("Expected near, got %s", got.ID)
	}
}

func TestEvidenceResolver_Fallbacks(t *testing.T) {
	noBox := model.TextSpan{ID: "p3-nobox", PageIndex: model.IntPtr(3)}
	r := NewEvidenceResolver([]model.TextSpan{
		centered("first", 0, 0, 0),
		noBox,
		centered("p3-boxed", 3, 500, 500),
	})

	tests := []struct {
		name string
		page *int
		box  *model.BBox
		want string
	}{
		{"no page hint", nil, &model.BBox{}, "first"},
		{"page without spans", model.IntPtr(9), nil, "first"},
		{"no box hint", model.IntPtr(3), nil, "p3-nobox"},
		{"boxless candidate loses", model.IntPtr(3), &model.BBox{X0: 0, Y0: 0, X1: 2, Y1: 2}, "p3-boxed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.Resolve(tt.page, tt.box)
			if !ok {
				t.Fatal("Expected a span")
			}
			if got.ID != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got.ID)
			}
		})
	}
}

func TestEvidenceResolver_TieKeepsInputOrder(t *testing.T) {
	r := NewEvidenceResolver([]model.TextSpan{
		centered("a", 0, 40, 50),
		centered("b", 0, 60, 50),
	})
	got, _ := r.Resolve(model.IntPtr(0), &model.BBox{X0: 45, Y0: 45, X1: 55, Y1: 55})
	if got.ID != "a" {
		t.Errorf("Expected the earlier span a on a tie, got %s", got.ID)
	}
}

func TestEvidenceResolver_Empty(t *testing.T) {
	if _, ok := NewEvidenceResolver(nil).Resolve(model.IntPtr(0), nil); ok {
		t.Error("Expected no span from an empty resolver")
	}
}
