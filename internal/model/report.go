package model

// Report summarizes one pipeline run over a single document
type Report struct {
	Source   string `json:"source"`   // Input path
	Document string `json:"document"` // Document IRI the analysis is grounded to

	Spans        int `json:"spans"`
	Blocks       int `json:"blocks"`
	Observations int `json:"observations"`
	Quantities   int `json:"quantities"`
	Dropped      int `json:"dropped_quantities"` // Candidates whose value or unit did not normalize
	Claims       int `json:"claims"`
	Procedures   int `json:"procedures"`
	Steps        int `json:"steps"`

	Triples    LayerCounts         `json:"triples"`
	Validation []ValidationSummary `json:"validation,omitempty"`
	Cached     bool                `json:"cached"`
}

// LayerCounts holds triple counts per output layer
type LayerCounts struct {
	DA      int `json:"da"`
	Meaning int `json:"meaning"`
}

// ValidationSummary is the outcome of one conformance check
type ValidationSummary struct {
	Layer      string `json:"layer"` // "da" or "meaning"
	Conforms   bool   `json:"conforms"`
	Violations int    `json:"violations"`
}

// Conforms reports whether every recorded check passed
func (r *Report) Conforms() bool {
	for _, v := range r.Validation {
		if !v.Conforms {
			return false
		}
	}
	return true
}
