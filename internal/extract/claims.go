// Package extract derives grounded facts from spans: evidence selection,
// claim classification and procedure segmentation.
package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/layergraph/internal/ident"
	"github.com/ppiankov/layergraph/internal/model"
	"github.com/shopspring/decimal"
)

// ClaimRule is one step of the claim cascade. A rule matches when any keyword
// is a substring of the lower-cased text, or, for heading rules, when the
// line ends with a colon and is at most HeadingMax characters long.
type ClaimRule struct {
	Name       string
	Keywords   []string
	HeadingMax int
	Polarity   model.Polarity
	Confidence decimal.Decimal
	Strength   model.Strength
}

func (r ClaimRule) matches(lower string) bool {
	if r.HeadingMax > 0 {
		return strings.HasSuffix(lower, ":") && utf8.RuneCountInString(lower) <= r.HeadingMax
	}
	for _, k := range r.Keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// DefaultClaimRules returns the cascade in evaluation order; the first match wins
func DefaultClaimRules() []ClaimRule {
	return []ClaimRule{
		{
			Name:       "hazard",
			Keywords:   []string{"warning", "danger", "caution", "hazard", "risk of", "shock", "injury", "burn"},
			Polarity:   model.PolarityAsserts,
			Confidence: decimal.RequireFromString("0.85"),
		},
		{
			Name:       "prohibition",
			Keywords:   []string{"do not", "never "},
			Polarity:   model.PolarityAsserts,
			Confidence: decimal.RequireFromString("0.80"),
			Strength:   model.StrengthAvoid,
		},
		{
			Name:       "mandatory",
			Keywords:   []string{"must ", "shall "},
			Polarity:   model.PolarityAsserts,
			Confidence: decimal.RequireFromString("0.70"),
			Strength:   model.StrengthMust,
		},
		{
			Name:       "recommended",
			Keywords:   []string{"should ", "recommended", "recommend "},
			Polarity:   model.PolarityAsserts,
			Confidence: decimal.RequireFromString("0.60"),
			Strength:   model.StrengthShould,
		},
		{
			Name:       "heading",
			HeadingMax: 80,
			Polarity:   model.PolarityHedges,
			Confidence: decimal.RequireFromString("0.45"),
		},
	}
}

// ClaimExtractor classifies spans as claims
type ClaimExtractor struct {
	rules []ClaimRule
}

// NewClaimExtractor creates an extractor; nil rules select the defaults
func NewClaimExtractor(rules []ClaimRule) *ClaimExtractor {
	if rules == nil {
		rules = DefaultClaimRules()
	}
	return &ClaimExtractor{rules: rules}
}

// Classify returns the first rule matching the text. Blank text never matches.
func (e *ClaimExtractor) Classify(text string) (ClaimRule, bool) {
	t := strings.TrimSpace(text)
	if t == "" {
		return ClaimRule{}, false
	}
	lower := strings.ToLower(t)
	for _, rule := range e.rules {
		if rule.matches(lower) {
			return rule, true
		}
	}
	return ClaimRule{}, false
}

// Extract classifies spans in the order given (callers pass canonical reading order)
func (e *ClaimExtractor) Extract(spans []model.TextSpan) []model.Claim {
	var claims []model.Claim
	for _, s := range spans {
		rule, ok := e.Classify(s.Text)
		if !ok {
			continue
		}
		claims = append(claims, model.Claim{
			ID:           ident.StableID("claim", s.ID, s.Text),
			Polarity:     rule.Polarity,
			Confidence:   rule.Confidence,
			Strength:     rule.Strength,
			EvidenceSpan: s.ID,
			Label:        strings.TrimSpace(s.Text),
			Heuristic:    rule.Name,
		})
	}
	return claims
}
