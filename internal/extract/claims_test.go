package extract

import (
	"reflect"
	"testing"

	"github.com/ppiankov/layergraph/internal/model"
)

func TestClaimExtractor_Cascade(t *testing.T) {
	e := NewClaimExtractor(nil)

	tests := []struct {
		text       string
		heuristic  string
		polarity   model.Polarity
		confidence string
		strength   model.Strength
	}{
		{"WARNING: risk of shock", "hazard", model.PolarityAsserts, "0.85", model.StrengthNone},
		{"Do not remove cover", "prohibition", model.PolarityAsserts, "0.8", model.StrengthAvoid},
		{"Never touch the terminals", "prohibition", model.PolarityAsserts, "0.8", model.StrengthAvoid},
		{"The installer must verify the breaker", "mandatory", model.PolarityAsserts, "0.7", model.StrengthMust},
		{"Units shall be grounded", "mandatory", model.PolarityAsserts, "0.7", model.StrengthMust},
		{"You should check the seal", "recommended", model.PolarityAsserts, "0.6", model.StrengthShould},
		{"Annual service is recommended", "recommended", model.PolarityAsserts, "0.6", model.StrengthShould},
		{"Settings:", "heading", model.PolarityHedges, "0.45", model.StrengthNone},
		// Hazard outranks the prohibition phrase in the same line
		{"Do not touch: shock hazard", "hazard", model.PolarityAsserts, "0.85", model.StrengthNone},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			rule, ok := e.Classify(tt.text)
			if !ok {
				t.Fatalf("Expected %q to be a claim", tt.text)
			}
			if rule.Name != tt.heuristic {
				t.Errorf("Expected heuristic %s, got %s", tt.heuristic, rule.Name)
			}
			if rule.Polarity != tt.polarity {
				t.Errorf("Expected polarity %s, got %s", tt.polarity, rule.Polarity)
			}
			if got := rule.Confidence.String(); got != tt.confidence {
				t.Errorf("Expected confidence %s, got %s", tt.confidence, got)
			}
			if rule.Strength != tt.strength {
				t.Errorf("Expected strength %q, got %q", tt.strength, rule.Strength)
			}
		})
	}
}

func TestClaimExtractor_NonClaims(t *testing.T) {
	e := NewClaimExtractor(nil)
	long := "This is an unusually long line that happens to end with a colon but is clearly prose text:"
	for _, text := range []string{"", "   ", "Remove the four screws.", "mustard and shallots", long} {
		if rule, ok := e.Classify(text); ok {
			t.Errorf("%q should not be a claim, matched %s", text, rule.Name)
		}
	}
}

func TestClaimExtractor_ExtractGroundsEveryClaim(t *testing.T) {
	spans := []model.TextSpan{
		{ID: "s1", Text: "  CAUTION: hot surface  "},
		{ID: "s2", Text: "plain text"},
		{ID: "s3", Text: "Settings:"},
	}
	claims := NewClaimExtractor(nil).Extract(spans)
	if len(claims) != 2 {
		t.Fatalf("Expected 2 claims, got %d", len(claims))
	}

	if claims[0].EvidenceSpan != "s1" {
		t.Errorf("Expected first claim grounded on s1, got %s", claims[0].EvidenceSpan)
	}
	if claims[0].Label != "CAUTION: hot surface" {
		t.Errorf("Expected trimmed label, got %q", claims[0].Label)
	}
	if claims[1].EvidenceSpan != "s3" {
		t.Errorf("Expected second claim grounded on s3, got %s", claims[1].EvidenceSpan)
	}
	if claims[1].Polarity != model.PolarityHedges {
		t.Errorf("Expected heading to hedge, got %s", claims[1].Polarity)
	}

	again := NewClaimExtractor(nil).Extract(spans)
	if !reflect.DeepEqual(claims, again) {
		t.Error("Expected identical claims across runs")
	}
	if claims[0].ID == claims[1].ID {
		t.Errorf("Expected distinct claim ids, both %s", claims[0].ID)
	}
}

func TestClaimExtractor_CustomRules(t *testing.T) {
	rules := DefaultClaimRules()[:1]
	rules[0].Keywords = []string{"achtung"}
	e := NewClaimExtractor(rules)

	if _, ok := e.Classify("Achtung! Hochspannung"); !ok {
		t.Error("Expected custom keyword to match")
	}
	if _, ok := e.Classify("WARNING: risk of shock"); ok {
		t.Error("Expected default keywords to be replaced")
	}
}
