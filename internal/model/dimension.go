package model

import "github.com/shopspring/decimal"

// Block is a reading-order cluster of spans on one page
type Block struct {
	ID          string   `json:"id"`
	Index       int      `json:"index"` // Position in the block list
	Label       string   `json:"label"`
	MemberSpans []string `json:"member_spans"` // TextSpan IDs, reading order
}

// SpanCount returns the number of member spans
func (b Block) SpanCount() int {
	return len(b.MemberSpans)
}

// Axis is a named dimension of interest that drives keyword observations
type Axis string

const (
	AxisSafetyRisk    Axis = "SafetyRisk"
	AxisToolsRequired Axis = "ToolsRequired"
	AxisCompliance    Axis = "Compliance"
	AxisCost          Axis = "Cost"
	AxisTime          Axis = "Time"
	AxisLocation      Axis = "Location"
)

// Observation records that an axis fired on a span
type Observation struct {
	ID           string          `json:"id"`
	Axis         Axis            `json:"axis"`
	Confidence   decimal.Decimal `json:"confidence"`
	EvidenceSpan string          `json:"evidence_span"`
}

// Unit is a canonical unit from the controlled vocabulary
type Unit string

const (
	UnitNone       Unit = ""
	UnitInch       Unit = "IN"
	UnitFoot       Unit = "FT"
	UnitMillimeter Unit = "MilliM"
	UnitCentimeter Unit = "CentiM"
	UnitMeter      Unit = "M"
)

// QuantityMention is a normalized numeric value with a canonical unit
type QuantityMention struct {
	ID           string          `json:"id"`
	Source       string          `json:"source"` // RawQuantity ID
	Value        decimal.Decimal `json:"value"`
	Unit         Unit            `json:"unit"`
	OriginalText string          `json:"original_text"`
	EvidenceSpan string          `json:"evidence_span"`
}
