// Package quantity parses numeric literals and maps unit tokens to a
// canonical unit vocabulary.
package quantity

import (
	"regexp"
	"strings"

	"github.com/ppiankov/layergraph/internal/extract"
	"github.com/ppiankov/layergraph/internal/ident"
	"github.com/ppiankov/layergraph/internal/model"
	"github.com/ppiankov/layergraph/internal/rdf"
	"github.com/shopspring/decimal"
)

var fractionRe = regexp.MustCompile(`^(\d+)\s*/\s*(\d+)$`)

// ParseValue parses a plain decimal ("12,000", "3.5") or a simple fraction
// ("1/2"). Anything else, including a zero denominator, yields ok=false.
func ParseValue(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Decimal{}, false
	}

	if m := fractionRe.FindStringSubmatch(s); m != nil {
		num, err1 := decimal.NewFromString(m[1])
		den, err2 := decimal.NewFromString(m[2])
		if err1 != nil || err2 != nil || den.IsZero() {
			return decimal.Decimal{}, false
		}
		return divide(num, den), true
	}

	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// fractionDigits is the number of significant digits kept when dividing a fraction
const fractionDigits = 28

// divide rounds num/den to fractionDigits significant digits
func divide(num, den decimal.Decimal) decimal.Decimal {
	places := int32(fractionDigits)
	if whole := num.Div(den).Abs().Truncate(0); !whole.IsZero() {
		places -= int32(len(whole.String()))
	}
	return num.DivRound(den, places)
}

// UnitTable maps lower-cased unit tokens to canonical units
type UnitTable map[string]model.Unit

// DefaultUnitTable returns the length and distance units
func DefaultUnitTable() UnitTable {
	t := UnitTable{}
	for unit, tokens := range map[model.Unit][]string{
		model.UnitInch:       {"in", "inch", "inches", `"`},
		model.UnitFoot:       {"ft", "foot", "feet", "'"},
		model.UnitMillimeter: {"mm", "millimeter", "millimeters"},
		model.UnitCentimeter: {"cm", "centimeter", "centimeters"},
		model.UnitMeter:      {"m", "meter", "meters"},
	} {
		for _, tok := range tokens {
			t[tok] = unit
		}
	}
	return t
}

// Normalize maps a raw unit token; unknown or empty tokens yield ok=false
func (t UnitTable) Normalize(raw string) (model.Unit, bool) {
	u := strings.ToLower(strings.TrimSpace(raw))
	if u == "" {
		return model.UnitNone, false
	}
	unit, ok := t[u]
	return unit, ok
}

// Normalizer turns raw quantity candidates into grounded quantity mentions
type Normalizer struct {
	units UnitTable
}

// NewNormalizer creates a normalizer; a nil table selects DefaultUnitTable
func NewNormalizer(units UnitTable) *Normalizer {
	if units == nil {
		units = DefaultUnitTable()
	}
	return &Normalizer{units: units}
}

// Units returns the unit table in use
func (n *Normalizer) Units() UnitTable {
	return n.units
}

// Normalize converts each candidate whose value and unit both normalize.
// The evidence span comes from the resolver using the candidate's own hints.
// dropped counts candidates that were skipped.
func (n *Normalizer) Normalize(candidates []model.RawQuantity, resolver *extract.EvidenceResolver) (mentions []model.QuantityMention, dropped int) {
	for _, q := range candidates {
		value, ok := ParseValue(q.Value)
		if !ok {
			dropped++
			continue
		}
		unit, ok := n.units.Normalize(q.Unit)
		if !ok {
			dropped++
			continue
		}
		ev, ok := resolver.Resolve(q.PageIndex, q.BBox)
		if !ok {
			dropped++
			continue
		}
		mentions = append(mentions, model.QuantityMention{
			ID:           ident.StableID(q.ID, value.String(), UnitIRI(unit)),
			Source:       q.ID,
			Value:        value,
			Unit:         unit,
			OriginalText: q.OriginalText(),
			EvidenceSpan: ev.ID,
		})
	}
	return mentions, dropped
}

// UnitIRI returns the unit vocabulary IRI for a canonical unit
func UnitIRI(u model.Unit) string {
	return string(rdf.UNIT) + string(u)
}
