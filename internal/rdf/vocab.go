package rdf

const (
	RDFNS  Namespace = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNS Namespace = "http://www.w3.org/2000/01/rdf-schema#"
	XSDNS  Namespace = "http://www.w3.org/2001/XMLSchema#"

	DA   Namespace = "https://nkllon.org/da#"
	DIM  Namespace = "https://nkllon.org/dim#"
	M    Namespace = "https://nkllon.org/meaning#"
	QUDT Namespace = "http://qudt.org/schema/qudt/"
	UNIT Namespace = "http://qudt.org/vocab/unit/"
)

const (
	XSDString  = string(XSDNS) + "string"
	XSDInteger = string(XSDNS) + "integer"
	XSDDecimal = string(XSDNS) + "decimal"
	XSDFloat   = string(XSDNS) + "float"
	XSDBoolean = string(XSDNS) + "boolean"
)

var (
	Type  = RDFNS.Term("type")
	Label = RDFSNS.Term("label")
)

// Local names of the parse-layer vocabulary. The namespace varies per input.
const (
	PGDocument  = "Document"
	PGTextSpan  = "TextSpan"
	PGDimension = "Dimension"
	PGPageIndex = "pageIndex"
	PGBBoxX0    = "bboxX0"
	PGBBoxY0    = "bboxY0"
	PGBBoxX1    = "bboxX1"
	PGBBoxY1    = "bboxY1"
	PGHasValue  = "hasValue"
	PGHasUnit   = "hasUnit"
)

// Dimensional analysis vocabulary
var (
	DAAnalysis           = DA.Term("Analysis")
	DABlock              = DA.Term("Block")
	DAObservation        = DA.Term("Observation")
	DAQuantityMention    = DA.Term("QuantityMention")
	DAAboutDocument      = DA.Term("aboutDocument")
	DAHasBlock           = DA.Term("hasBlock")
	DABlockLabel         = DA.Term("blockLabel")
	DASpanCount          = DA.Term("spanCount")
	DAHasEvidenceSpan    = DA.Term("hasEvidenceSpan")
	DAHasObservation     = DA.Term("hasObservation")
	DADimension          = DA.Term("dimension")
	DAConfidence         = DA.Term("confidence")
	DAHasQuantityMention = DA.Term("hasQuantityMention")
	DANumericValue       = DA.Term("numericValue")
	DAUnit               = DA.Term("unit")
	DAOriginalText       = DA.Term("originalText")
	QUDTUnit             = QUDT.Term("Unit")
)

// Meaning vocabulary
var (
	MClaim               = M.Term("Claim")
	MProcedure           = M.Term("Procedure")
	MStep                = M.Term("Step")
	MPolarity            = M.Term("polarity")
	MConfidence          = M.Term("confidence")
	MStrength            = M.Term("strength")
	MEvidenceSpan        = M.Term("evidenceSpan")
	MPredicate           = M.Term("predicate")
	MDerivedFromDocument = M.Term("derivedFromDocument")
	MHasStep             = M.Term("hasStep")
	MStepOrder           = M.Term("stepOrder")
	MActionVerb          = M.Term("actionVerb")
	MDerivedFromSpan     = M.Term("derivedFromSpan")
)
