// Package compose assembles derived entities into layered graphs.
//
// The DA graph re-declares the document and span typing so it can be
// checked on its own. The Meaning graph starts from a copy of the DA graph
// and only adds to it.
package compose

import (
	"errors"
	"strings"

	"github.com/ppiankov/layergraph/internal/dimension"
	"github.com/ppiankov/layergraph/internal/model"
	"github.com/ppiankov/layergraph/internal/quantity"
	"github.com/ppiankov/layergraph/internal/rdf"
	"github.com/ppiankov/layergraph/internal/spans"
)

// ErrNoDocument is returned when the input has no document node to ground the graph to
var ErrNoDocument = errors.New("no document node in input")

// ClaimPredicate is the predicate literal attached to every claim
const ClaimPredicate = "states"

// DALayer is the derived content of the dimensional analysis layer
type DALayer struct {
	Blocks       []model.Block
	Observations []model.Observation
	Quantities   []model.QuantityMention
}

// MeaningLayer is the derived content of the meaning layer
type MeaningLayer struct {
	Claims     []model.Claim
	Procedures []model.Procedure
}

// Composer builds graphs under fixed analysis and run IRIs
type Composer struct {
	analysisURI string
	runURI      string
}

// NewComposer creates a composer; empty IRIs fall back to the defaults
func NewComposer(cfg model.GraphConfig) *Composer {
	c := &Composer{
		analysisURI: strings.TrimRight(cfg.DAAnalysisURI, "/"),
		runURI:      strings.TrimRight(cfg.MeaningRunURI, "/"),
	}
	if c.analysisURI == "" {
		c.analysisURI = model.DefaultDAAnalysisURI
	}
	if c.runURI == "" {
		c.runURI = model.DefaultMeaningRunURI
	}
	return c
}

// AnalysisURI returns the IRI of the DA analysis node
func (c *Composer) AnalysisURI() string {
	return c.analysisURI
}

// BuildDA builds the DA layer graph
func (c *Composer) BuildDA(repo *spans.Repository, layer DALayer) (*rdf.Graph, error) {
	doc := repo.Document()
	if doc == nil {
		return nil, ErrNoDocument
	}

	g := rdf.NewGraph()
	g.Bind("da", rdf.DA)
	g.Bind("dim", rdf.DIM)
	g.Bind("qudt", rdf.QUDT)
	g.Bind("unit", rdf.UNIT)
	g.Bind("pg", repo.Namespace())
	g.Bind("rdfs", rdf.RDFSNS)
	g.Bind("xsd", rdf.XSDNS)

	analysis := rdf.IRI(c.analysisURI)
	docIRI := rdf.IRI(doc.ID)
	g.Add(analysis, rdf.Type, rdf.DAAnalysis)
	g.Add(analysis, rdf.DAAboutDocument, docIRI)
	addProvenance(g, repo)

	for _, b := range layer.Blocks {
		node := rdf.IRI(c.analysisURI + "/block/" + b.ID)
		g.Add(node, rdf.Type, rdf.DABlock)
		g.Add(node, rdf.DABlockLabel, rdf.String(b.Label))
		g.Add(node, rdf.DASpanCount, rdf.Integer(b.SpanCount()))
		for _, id := range b.MemberSpans {
			g.Add(node, rdf.DAHasEvidenceSpan, rdf.IRI(id))
		}
		g.Add(analysis, rdf.DAHasBlock, node)
	}

	for _, o := range layer.Observations {
		node := rdf.IRI(c.analysisURI + "/obs/" + o.ID)
		g.Add(node, rdf.Type, rdf.DAObservation)
		g.Add(node, rdf.DADimension, rdf.IRI(dimension.AxisIRI(o.Axis)))
		g.Add(node, rdf.DAConfidence, rdf.Decimal(o.Confidence))
		g.Add(node, rdf.DAHasEvidenceSpan, rdf.IRI(o.EvidenceSpan))
		g.Add(analysis, rdf.DAHasObservation, node)
	}

	var units []rdf.Term
	seen := make(map[rdf.Term]bool)
	for _, q := range layer.Quantities {
		node := rdf.IRI(c.analysisURI + "/quantity/" + q.ID)
		unit := rdf.IRI(quantity.UnitIRI(q.Unit))
		g.Add(node, rdf.Type, rdf.DAQuantityMention)
		g.Add(node, rdf.DANumericValue, rdf.Decimal(q.Value))
		g.Add(node, rdf.DAUnit, unit)
		if q.OriginalText != "" {
			g.Add(node, rdf.DAOriginalText, rdf.String(q.OriginalText))
		}
		g.Add(node, rdf.DAHasEvidenceSpan, rdf.IRI(q.EvidenceSpan))
		g.Add(analysis, rdf.DAHasQuantityMention, node)
		if !seen[unit] {
			seen[unit] = true
			units = append(units, unit)
		}
	}
	for _, u := range units {
		g.Add(u, rdf.Type, rdf.QUDTUnit)
	}

	return g, nil
}

// BuildMeaning builds the meaning layer graph. When da is non-nil its
// triples and prefixes are copied in first; da itself is not modified.
func (c *Composer) BuildMeaning(repo *spans.Repository, da *rdf.Graph, layer MeaningLayer) (*rdf.Graph, error) {
	doc := repo.Document()
	if doc == nil {
		return nil, ErrNoDocument
	}

	g := rdf.Merge(da)
	g.Bind("m", rdf.M)
	g.Bind("da", rdf.DA)
	g.Bind("pg", repo.Namespace())
	g.Bind("rdfs", rdf.RDFSNS)
	g.Bind("xsd", rdf.XSDNS)

	addProvenance(g, repo)

	for _, cl := range layer.Claims {
		node := rdf.IRI(c.runURI + "/claim/" + cl.ID)
		g.Add(node, rdf.Type, rdf.MClaim)
		g.Add(node, rdf.MPolarity, rdf.String(string(cl.Polarity)))
		g.Add(node, rdf.MConfidence, rdf.Decimal(cl.Confidence))
		g.Add(node, rdf.MEvidenceSpan, rdf.IRI(cl.EvidenceSpan))
		g.Add(node, rdf.MPredicate, rdf.String(ClaimPredicate))
		g.Add(node, rdf.Label, rdf.String(cl.Label))
		if cl.Strength != model.StrengthNone {
			g.Add(node, rdf.MStrength, rdf.String(string(cl.Strength)))
		}
	}

	docIRI := rdf.IRI(doc.ID)
	for _, p := range layer.Procedures {
		proc := rdf.IRI(c.runURI + "/procedure/" + p.ID)
		g.Add(proc, rdf.Type, rdf.MProcedure)
		g.Add(proc, rdf.MDerivedFromDocument, docIRI)
		for _, s := range p.Steps {
			step := rdf.IRI(c.runURI + "/step/" + s.ID)
			g.Add(step, rdf.Type, rdf.MStep)
			g.Add(step, rdf.MStepOrder, rdf.Integer(s.Order))
			g.Add(step, rdf.MActionVerb, rdf.String(s.ActionVerb))
			g.Add(step, rdf.MDerivedFromSpan, rdf.IRI(s.EvidenceSpan))
			g.Add(step, rdf.Label, rdf.String(s.Label))
			g.Add(proc, rdf.MHasStep, step)
		}
	}

	return g, nil
}

// addProvenance types the document and every span in the parse-layer namespace
func addProvenance(g *rdf.Graph, repo *spans.Repository) {
	ns := repo.Namespace()
	g.Add(rdf.IRI(repo.Document().ID), rdf.Type, ns.Term(rdf.PGDocument))
	for _, s := range repo.Spans() {
		g.Add(rdf.IRI(s.ID), rdf.Type, ns.Term(rdf.PGTextSpan))
	}
}
