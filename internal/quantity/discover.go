package quantity

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ppiankov/layergraph/internal/ident"
	"github.com/ppiankov/layergraph/internal/model"
)

// numberUnitRe finds a number (with optional thousands separators, decimals
// or a simple fraction) followed by a short unit token
var numberUnitRe = regexp.MustCompile(`(\d+(?:,\d{3})*(?:\.\d+)?(?:\s*/\s*\d+)?)\s*([a-zA-Z]+|["'])`)

// Discover scans span text for number-unit pairs whose unit token is in the
// table. Each hit becomes a candidate anchored to its span's page and box.
func Discover(spans []model.TextSpan, units UnitTable) []model.RawQuantity {
	if units == nil {
		units = DefaultUnitTable()
	}
	var out []model.RawQuantity
	for _, s := range spans {
		for _, loc := range numberUnitRe.FindAllStringSubmatchIndex(s.Text, -1) {
			value := s.Text[loc[2]:loc[3]]
			unit := s.Text[loc[4]:loc[5]]
			if _, ok := units.Normalize(unit); !ok {
				continue
			}
			out = append(out, model.RawQuantity{
				ID:        "urn:layergraph:discovered:" + ident.StableID("discovered", s.ID, strconv.Itoa(loc[0])),
				Value:     strings.TrimSpace(value),
				Unit:      unit,
				PageIndex: s.PageIndex,
				BBox:      s.BBox,
			})
		}
	}
	return out
}
