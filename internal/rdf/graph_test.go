package rdf

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraph_AddDeduplicatesAndKeepsOrder(t *testing.T) {
	g := NewGraph()
	s := IRI("http://example.org/a")

	assert.True(t, g.Add(s, Type, DABlock))
	assert.True(t, g.Add(s, DASpanCount, Integer(2)))
	assert.False(t, g.Add(s, Type, DABlock), "duplicate triple must be ignored")

	triples := g.Triples()
	require.Len(t, triples, 2)
	assert.Equal(t, Type, triples[0].P)
	assert.Equal(t, DASpanCount, triples[1].P)
}

func TestGraph_ValueAndObjects(t *testing.T) {
	g := NewGraph()
	s := IRI("http://example.org/b")
	g.Add(s, DAHasEvidenceSpan, IRI("http://example.org/span/1"))
	g.Add(s, DAHasEvidenceSpan, IRI("http://example.org/span/2"))

	v, ok := g.Value(s, DAHasEvidenceSpan)
	require.True(t, ok)
	assert.Equal(t, "http://example.org/span/1", v.Value)
	assert.Len(t, g.Objects(s, DAHasEvidenceSpan), 2)

	_, ok = g.Value(s, DABlockLabel)
	assert.False(t, ok)
}

func TestMerge_ReturnsNewGraph(t *testing.T) {
	a := NewGraph()
	a.Bind("da", DA)
	a.Add(IRI("http://example.org/x"), Type, DAAnalysis)

	b := NewGraph()
	b.Bind("m", M)
	b.Add(IRI("http://example.org/y"), Type, MClaim)
	b.Add(IRI("http://example.org/x"), Type, DAAnalysis)

	merged := Merge(a, b)
	assert.Equal(t, 2, merged.Len())
	assert.Equal(t, 1, a.Len(), "inputs must not be mutated")
	assert.Equal(t, 2, b.Len())
	assert.Equal(t, []Prefix{{"da", DA}, {"m", M}}, merged.Prefixes())

	merged.Add(IRI("http://example.org/z"), Type, MStep)
	assert.False(t, a.Has(IRI("http://example.org/z"), Type, MStep))
}

func TestWriteTurtle_CompactsAndGroups(t *testing.T) {
	g := NewGraph()
	g.Bind("da", DA)
	g.Bind("xsd", XSDNS)
	obs := IRI("http://example.org/obs/abc")
	g.Add(obs, Type, DAObservation)
	g.Add(obs, DAConfidence, Decimal(decimal.RequireFromString("0.85")))
	g.Add(obs, DADimension, DIM.Term("SafetyRisk"))

	out, err := Serialize(g, FormatTurtle)
	require.NoError(t, err)

	expected := strings.Join([]string{
		"@prefix da: <https://nkllon.org/da#> .",
		"@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .",
		"",
		"<http://example.org/obs/abc>",
		"    a da:Observation ;",
		`    da:confidence "0.85"^^xsd:decimal ;`,
		"    da:dimension <https://nkllon.org/dim#SafetyRisk> .",
		"",
		"",
	}, "\n")
	assert.Equal(t, expected, string(out))
}

func TestNTriples_RoundTrip(t *testing.T) {
	g := NewGraph()
	s := IRI("http://example.org/text/0/0")
	g.Add(s, Label, String("WARNING: \"hot\"\nsurface\t\\ ok"))
	g.Add(s, IRI("http://example.org/pg#pageIndex"), Integer(3))
	g.Add(Blank("b0"), Label, Term{Kind: KindLiteral, Value: "hallo", Lang: "de"})

	out, err := Serialize(g, FormatNTriples)
	require.NoError(t, err)

	parsed, err := ParseNTriples(strings.NewReader(string(out)))
	require.NoError(t, err)
	assert.Equal(t, g.Triples(), parsed.Triples())
}

func TestParseNTriples_UnicodeEscapeAndComments(t *testing.T) {
	src := "# comment\n\n<http://e/s> <http://e/p> \"caf\\u00E9\" .\n"
	g, err := ParseNTriples(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, 1, g.Len())
	assert.Equal(t, "café", g.Triples()[0].O.Value)
}

func TestParseNTriples_Errors(t *testing.T) {
	cases := map[string]string{
		"missing dot":      `<http://e/s> <http://e/p> <http://e/o>`,
		"literal subject":  `"x" <http://e/p> <http://e/o> .`,
		"unterminated iri": `<http://e/s <http://e/p> <http://e/o> .`,
		"open literal":     `<http://e/s> <http://e/p> "abc .`,
	}
	for name, line := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseNTriples(strings.NewReader(line + "\n"))
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "line 1")
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("ttl")
	require.NoError(t, err)
	assert.Equal(t, FormatTurtle, f)

	f, err = ParseFormat(".nt")
	require.NoError(t, err)
	assert.Equal(t, FormatNTriples, f)

	f, err = ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("rdfxml")
	assert.Error(t, err)
}
