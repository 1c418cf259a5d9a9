package rdf

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

var localNameRe = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_\-]*$`)

// WriteTurtle writes the graph as Turtle. Subjects appear in first-insertion
// order; each subject's predicates follow in insertion order.
func WriteTurtle(w io.Writer, g *Graph) error {
	bw := bufio.NewWriter(w)
	prefixes := g.Prefixes()

	for _, p := range prefixes {
		fmt.Fprintf(bw, "@prefix %s: <%s> .\n", p.Name, p.Namespace)
	}
	if len(prefixes) > 0 {
		bw.WriteString("\n")
	}

	order, groups := g.BySubject()
	for _, subj := range order {
		triples := groups[subj]
		bw.WriteString(turtleTerm(subj, prefixes))
		bw.WriteString("\n")
		for i, t := range triples {
			pred := turtleTerm(t.P, prefixes)
			if t.P == Type {
				pred = "a"
			}
			fmt.Fprintf(bw, "    %s %s", pred, turtleTerm(t.O, prefixes))
			if i < len(triples)-1 {
				bw.WriteString(" ;\n")
			} else {
				bw.WriteString(" .\n")
			}
		}
		bw.WriteString("\n")
	}

	return bw.Flush()
}

// turtleTerm renders a term, compacting IRIs with bound prefixes when the local part is safe
func turtleTerm(t Term, prefixes []Prefix) string {
	switch t.Kind {
	case KindIRI:
		return compactIRI(t.Value, prefixes)
	case KindBlank:
		return "_:" + t.Value
	default:
		lit := `"` + escapeLiteral(t.Value) + `"`
		if t.Lang != "" {
			return lit + "@" + t.Lang
		}
		if t.Datatype != "" {
			return lit + "^^" + compactIRI(t.Datatype, prefixes)
		}
		return lit
	}
}

func compactIRI(iri string, prefixes []Prefix) string {
	best := -1
	for i, p := range prefixes {
		ns := string(p.Namespace)
		if ns == "" || !strings.HasPrefix(iri, ns) {
			continue
		}
		if !localNameRe.MatchString(iri[len(ns):]) {
			continue
		}
		// Prefer the longest matching namespace
		if best < 0 || len(ns) > len(prefixes[best].Namespace) {
			best = i
		}
	}
	if best < 0 {
		return "<" + iri + ">"
	}
	p := prefixes[best]
	return p.Name + ":" + iri[len(p.Namespace):]
}
