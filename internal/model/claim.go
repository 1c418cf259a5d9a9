package model

import "github.com/shopspring/decimal"

// Polarity classifies how firmly a claim is stated
type Polarity string

const (
	PolarityAsserts Polarity = "asserts" // Directive, hazard, or prohibition
	PolarityHedges  Polarity = "hedges"  // Heading-like line, deliberately under-confident
)

// Strength is the normative force of a directive claim
type Strength string

const (
	StrengthNone   Strength = ""
	StrengthAvoid  Strength = "avoid"  // Prohibition ("do not", "never")
	StrengthMust   Strength = "must"   // Mandatory ("must", "shall")
	StrengthShould Strength = "should" // Recommended ("should", "recommended")
)

// Claim is a span classified as a statement worth recording in the meaning layer
type Claim struct {
	ID           string          `json:"id"`
	Polarity     Polarity        `json:"polarity"`
	Confidence   decimal.Decimal `json:"confidence"`
	Strength     Strength        `json:"strength,omitempty"`
	EvidenceSpan string          `json:"evidence_span"` // TextSpan ID
	Label        string          `json:"label"`
	Heuristic    string          `json:"heuristic,omitempty"` // Which cascade rule matched (e.g., "hazard")
}

// Step is one ordered action inside a procedure
type Step struct {
	ID           string `json:"id"`
	Order        int    `json:"order"` // 1-based, contiguous within a procedure
	ActionVerb   string `json:"action_verb"`
	EvidenceSpan string `json:"evidence_span"`
	Label        string `json:"label"`
}

// Procedure is an ordered list of at least two steps from one page segment
type Procedure struct {
	ID             string `json:"id"`
	Page           int    `json:"page"` // -1 when the steps carry no page index
	Steps          []Step `json:"steps"`
	SourceDocument string `json:"source_document"`
}
