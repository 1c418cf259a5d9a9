// Package validate checks composed graphs against declarative node shapes.
package validate

import (
	"fmt"
	"strings"

	"github.com/ppiankov/layergraph/internal/rdf"
	"github.com/shopspring/decimal"
)

// Checker validates a data graph against a shapes set
type Checker interface {
	Check(data *rdf.Graph, shapes *Shapes) Result
}

// Violation is one failed constraint on one focus node
type Violation struct {
	Shape      string `json:"shape"`
	Focus      string `json:"focus"`
	Path       string `json:"path"`
	Constraint string `json:"constraint"`
	Value      string `json:"value,omitempty"`
	Message    string `json:"message"`
}

// Result is the outcome of a conformance check
type Result struct {
	Conforms   bool        `json:"conforms"`
	Violations []Violation `json:"violations,omitempty"`
}

// Report renders the result as readable text
func (r Result) Report() string {
	var b strings.Builder
	b.WriteString("Validation Report\n")
	if r.Conforms {
		b.WriteString("Conforms: true\n")
		return b.String()
	}
	fmt.Fprintf(&b, "Conforms: false\nResults (%d):\n", len(r.Violations))
	for _, v := range r.Violations {
		fmt.Fprintf(&b, "- %s violation on %s\n", v.Constraint, v.Focus)
		fmt.Fprintf(&b, "    shape: %s\n    path: %s\n", v.Shape, v.Path)
		if v.Value != "" {
			fmt.Fprintf(&b, "    value: %s\n", v.Value)
		}
		fmt.Fprintf(&b, "    message: %s\n", v.Message)
	}
	return b.String()
}

// NonConformanceError reports a layer graph that failed its shapes
type NonConformanceError struct {
	Layer  string
	Result Result
}

func (e *NonConformanceError) Error() string {
	return fmt.Sprintf("%s graph does not conform: %d violation(s)", e.Layer, len(e.Result.Violations))
}

// ShapeChecker is the built-in Checker
type ShapeChecker struct{}

// NewShapeChecker creates a checker
func NewShapeChecker() *ShapeChecker {
	return &ShapeChecker{}
}

// Check evaluates every node shape against every node typed with its target class.
// Shapes must have passed LoadShapes; unexpandable names are skipped.
func (c *ShapeChecker) Check(data *rdf.Graph, shapes *Shapes) Result {
	var violations []Violation
	for _, ns := range shapes.Shapes {
		target, err := shapes.Expand(ns.TargetClass)
		if err != nil {
			continue
		}
		for _, focus := range data.Subjects(rdf.Type, rdf.IRI(target)) {
			for _, ps := range ns.Properties {
				violations = append(violations, c.checkProperty(data, shapes, ns.Name, focus, ps)...)
			}
		}
	}
	return Result{Conforms: len(violations) == 0, Violations: violations}
}

func (c *ShapeChecker) checkProperty(data *rdf.Graph, shapes *Shapes, shape string, focus rdf.Term, ps PropertyShape) []Violation {
	path, err := shapes.Expand(ps.Path)
	if err != nil {
		return nil
	}
	values := data.Objects(focus, rdf.IRI(path))

	var out []Violation
	fail := func(constraint, value, msg string) {
		out = append(out, Violation{
			Shape:      shape,
			Focus:      focus.Value,
			Path:       ps.Path,
			Constraint: constraint,
			Value:      value,
			Message:    msg,
		})
	}

	if ps.MinCount != nil && len(values) < *ps.MinCount {
		fail("MinCount", "", fmt.Sprintf("less than %d values", *ps.MinCount))
	}
	if ps.MaxCount != nil && len(values) > *ps.MaxCount {
		fail("MaxCount", "", fmt.Sprintf("more than %d values", *ps.MaxCount))
	}

	var datatype, class string
	if ps.Datatype != "" {
		datatype, _ = shapes.Expand(ps.Datatype)
	}
	if ps.Class != "" {
		class, _ = shapes.Expand(ps.Class)
	}

	for _, v := range values {
		switch ps.NodeKind {
		case NodeKindIRI:
			if !v.IsIRI() {
				fail("NodeKind", v.Value, "value is not an IRI")
			}
		case NodeKindLiteral:
			if !v.IsLiteral() {
				fail("NodeKind", v.Value, "value is not a literal")
			}
		}
		if datatype != "" && (!v.IsLiteral() || v.Datatype != datatype) {
			fail("Datatype", v.Value, fmt.Sprintf("value does not have datatype %s", ps.Datatype))
		}
		if class != "" && !data.Has(v, rdf.Type, rdf.IRI(class)) {
			fail("Class", v.Value, fmt.Sprintf("value is not an instance of %s", ps.Class))
		}
		if len(ps.In) > 0 && !contains(ps.In, v.Value) {
			fail("In", v.Value, fmt.Sprintf("value is not one of %s", strings.Join(ps.In, ", ")))
		}
		if ps.MinInclusive != "" || ps.MaxInclusive != "" {
			if msg := checkRange(v, ps.MinInclusive, ps.MaxInclusive); msg != "" {
				fail("Range", v.Value, msg)
			}
		}
	}
	return out
}

func checkRange(v rdf.Term, minInc, maxInc string) string {
	if !v.IsLiteral() {
		return "value is not a literal"
	}
	d, err := decimal.NewFromString(v.Value)
	if err != nil {
		return "value is not numeric"
	}
	if lo, err := decimal.NewFromString(minInc); err == nil && d.LessThan(lo) {
		return "value is below " + minInc
	}
	if hi, err := decimal.NewFromString(maxInc); err == nil && d.GreaterThan(hi) {
		return "value is above " + maxInc
	}
	return ""
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
