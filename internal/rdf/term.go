// Package rdf provides a small insertion-ordered triple store with
// Turtle, N-Triples and JSON serialization.
package rdf

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// TermKind distinguishes IRIs, literals and blank nodes
type TermKind int

const (
	KindIRI TermKind = iota
	KindLiteral
	KindBlank
)

// Term is a node or literal in a triple. Terms are comparable and usable as map keys.
type Term struct {
	Kind     TermKind
	Value    string
	Datatype string // Literal datatype IRI (empty for plain or language-tagged literals)
	Lang     string
}

// IRI returns an IRI term
func IRI(v string) Term {
	return Term{Kind: KindIRI, Value: v}
}

// Blank returns a blank node term
func Blank(label string) Term {
	return Term{Kind: KindBlank, Value: label}
}

// Literal returns a typed literal
func Literal(v, datatype string) Term {
	return Term{Kind: KindLiteral, Value: v, Datatype: datatype}
}

// String returns an xsd:string literal
func String(v string) Term {
	return Literal(v, XSDString)
}

// Integer returns an xsd:integer literal
func Integer(v int) Term {
	return Literal(strconv.Itoa(v), XSDInteger)
}

// Float returns an xsd:float literal
func Float(v float64) Term {
	return Literal(strconv.FormatFloat(v, 'g', -1, 64), XSDFloat)
}

// Decimal returns an xsd:decimal literal in canonical decimal notation
func Decimal(d decimal.Decimal) Term {
	return Literal(d.String(), XSDDecimal)
}

// IsIRI reports whether the term is an IRI
func (t Term) IsIRI() bool { return t.Kind == KindIRI }

// IsLiteral reports whether the term is a literal
func (t Term) IsLiteral() bool { return t.Kind == KindLiteral }

// IsZero reports whether the term is unset
func (t Term) IsZero() bool { return t == Term{} }

// Triple is a subject-predicate-object statement
type Triple struct {
	S Term
	P Term
	O Term
}

// Namespace is an IRI prefix that mints terms
type Namespace string

// Term returns the IRI for a local name in the namespace
func (n Namespace) Term(local string) Term {
	return IRI(string(n) + local)
}

// String returns the namespace IRI
func (n Namespace) String() string {
	return string(n)
}
