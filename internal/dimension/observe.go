// Package dimension fires keyword rules along fixed axes of interest and
// records each hit as an observation grounded on the span that triggered it.
package dimension

import (
	"strings"

	"github.com/ppiankov/layergraph/internal/ident"
	"github.com/ppiankov/layergraph/internal/model"
	"github.com/ppiankov/layergraph/internal/rdf"
	"github.com/shopspring/decimal"
)

// AxisRule fires its axis when any keyword occurs in a span's lower-cased text
type AxisRule struct {
	Axis       model.Axis
	Keywords   []string
	Confidence decimal.Decimal
}

// Matches reports whether the rule fires on text
func (r AxisRule) Matches(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range r.Keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// DefaultRules returns the built-in axis rules in evaluation order
func DefaultRules() []AxisRule {
	return []AxisRule{
		{
			Axis:       model.AxisSafetyRisk,
			Keywords:   []string{"danger", "warning", "caution", "hazard", "shock", "injury", "burn"},
			Confidence: decimal.RequireFromString("0.85"),
		},
		{
			Axis:       model.AxisToolsRequired,
			Keywords:   []string{"tool", "wrench", "screwdriver", "pliers", "allen", "hex"},
			Confidence: decimal.RequireFromString("0.65"),
		},
		{
			Axis:       model.AxisCompliance,
			Keywords:   []string{"dispose", "disposal", "permit", "code", "compliance"},
			Confidence: decimal.RequireFromString("0.60"),
		},
		{
			Axis:       model.AxisCost,
			Keywords:   []string{"$", "cost", "price", "fee"},
			Confidence: decimal.RequireFromString("0.55"),
		},
		{
			Axis:       model.AxisTime,
			Keywords:   []string{"minute", "minutes", "hour", "hours", "sec", "seconds"},
			Confidence: decimal.RequireFromString("0.55"),
		},
		{
			Axis:       model.AxisLocation,
			Keywords:   []string{"kitchen", "basement", "garage", "under sink", "undersink"},
			Confidence: decimal.RequireFromString("0.50"),
		},
	}
}

// AxisIRI returns the dimension vocabulary IRI for an axis
func AxisIRI(axis model.Axis) string {
	return string(rdf.DIM) + string(axis)
}

// Engine evaluates axis rules over spans
type Engine struct {
	rules []AxisRule
}

// NewEngine creates an engine; nil rules selects DefaultRules
func NewEngine(rules []AxisRule) *Engine {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Engine{rules: rules}
}

// Rules returns the rules in evaluation order
func (e *Engine) Rules() []AxisRule {
	return e.rules
}

// Observe emits one observation per (rule, span) hit. Output is rule-major:
// all hits of the first rule in span order, then the next rule.
// Spans with blank text never fire.
func (e *Engine) Observe(spans []model.TextSpan) []model.Observation {
	var out []model.Observation
	for _, rule := range e.rules {
		axisIRI := AxisIRI(rule.Axis)
		for _, s := range spans {
			if strings.TrimSpace(s.Text) == "" || !rule.Matches(s.Text) {
				continue
			}
			out = append(out, model.Observation{
				ID:           ident.StableID(axisIRI, s.ID),
				Axis:         rule.Axis,
				Confidence:   rule.Confidence,
				EvidenceSpan: s.ID,
			})
		}
	}
	return out
}

// AxisCount is the number of observations on one axis
type AxisCount struct {
	Axis  model.Axis `json:"axis"`
	Count int        `json:"count"`
}

// Summarize counts observations per axis, in rule order, skipping axes with no hits
func (e *Engine) Summarize(obs []model.Observation) []AxisCount {
	counts := make(map[model.Axis]int, len(e.rules))
	for _, o := range obs {
		counts[o.Axis]++
	}
	var out []AxisCount
	seen := make(map[model.Axis]bool, len(e.rules))
	for _, r := range e.rules {
		if seen[r.Axis] || counts[r.Axis] == 0 {
			continue
		}
		seen[r.Axis] = true
		out = append(out, AxisCount{Axis: r.Axis, Count: counts[r.Axis]})
	}
	return out
}
