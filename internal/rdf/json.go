package rdf

import (
	"encoding/json"
	"io"
)

type jsonDocument struct {
	Prefixes []jsonPrefix `json:"prefixes"`
	Triples  []jsonTriple `json:"triples"`
}

type jsonPrefix struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace"`
}

type jsonTriple struct {
	S jsonTerm `json:"s"`
	P jsonTerm `json:"p"`
	O jsonTerm `json:"o"`
}

type jsonTerm struct {
	Type     string `json:"type"` // iri, literal, blank
	Value    string `json:"value"`
	Datatype string `json:"datatype,omitempty"`
	Lang     string `json:"lang,omitempty"`
}

// WriteJSON writes prefixes and the ordered triple list as indented JSON
func WriteJSON(w io.Writer, g *Graph) error {
	doc := jsonDocument{
		Prefixes: make([]jsonPrefix, 0, len(g.prefixes)),
		Triples:  make([]jsonTriple, 0, len(g.triples)),
	}
	for _, p := range g.prefixes {
		doc.Prefixes = append(doc.Prefixes, jsonPrefix{Name: p.Name, Namespace: string(p.Namespace)})
	}
	for _, t := range g.triples {
		doc.Triples = append(doc.Triples, jsonTriple{S: toJSONTerm(t.S), P: toJSONTerm(t.P), O: toJSONTerm(t.O)})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func toJSONTerm(t Term) jsonTerm {
	kind := "iri"
	switch t.Kind {
	case KindLiteral:
		kind = "literal"
	case KindBlank:
		kind = "blank"
	}
	return jsonTerm{Type: kind, Value: t.Value, Datatype: t.Datatype, Lang: t.Lang}
}
