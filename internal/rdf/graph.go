package rdf

// Prefix binds a short name to a namespace for serialization
type Prefix struct {
	Name      string
	Namespace Namespace
}

// Graph is a set of triples that remembers insertion order.
// Serializers walk triples in that order, so output is reproducible.
type Graph struct {
	triples   []Triple
	index     map[Triple]struct{}
	bySubject map[Term][]int
	prefixes  []Prefix
}

// NewGraph creates an empty graph
func NewGraph() *Graph {
	return &Graph{
		triples:   make([]Triple, 0),
		index:     make(map[Triple]struct{}),
		bySubject: make(map[Term][]int),
	}
}

// Add inserts a triple; it returns false if the triple was already present
func (g *Graph) Add(s, p, o Term) bool {
	t := Triple{S: s, P: p, O: o}
	if _, exists := g.index[t]; exists {
		return false
	}
	g.index[t] = struct{}{}
	g.bySubject[s] = append(g.bySubject[s], len(g.triples))
	g.triples = append(g.triples, t)
	return true
}

// Has reports whether the graph contains the triple
func (g *Graph) Has(s, p, o Term) bool {
	_, ok := g.index[Triple{S: s, P: p, O: o}]
	return ok
}

// Len returns the number of triples
func (g *Graph) Len() int {
	return len(g.triples)
}

// Triples returns a copy of the triples in insertion order
func (g *Graph) Triples() []Triple {
	out := make([]Triple, len(g.triples))
	copy(out, g.triples)
	return out
}

// Bind registers a prefix. Rebinding a name replaces its namespace in place.
func (g *Graph) Bind(name string, ns Namespace) {
	for i, p := range g.prefixes {
		if p.Name == name {
			g.prefixes[i].Namespace = ns
			return
		}
	}
	g.prefixes = append(g.prefixes, Prefix{Name: name, Namespace: ns})
}

// Prefixes returns the bound prefixes in binding order
func (g *Graph) Prefixes() []Prefix {
	out := make([]Prefix, len(g.prefixes))
	copy(out, g.prefixes)
	return out
}

// Merge returns a new graph holding g's triples followed by each other graph's.
// Neither input is modified.
func Merge(graphs ...*Graph) *Graph {
	out := NewGraph()
	for _, g := range graphs {
		if g == nil {
			continue
		}
		for _, p := range g.prefixes {
			out.Bind(p.Name, p.Namespace)
		}
		for _, t := range g.triples {
			out.Add(t.S, t.P, t.O)
		}
	}
	return out
}

// Subjects returns subjects of triples matching predicate and object, in insertion order
func (g *Graph) Subjects(p, o Term) []Term {
	var out []Term
	seen := make(map[Term]bool)
	for _, t := range g.triples {
		if t.P == p && t.O == o && !seen[t.S] {
			seen[t.S] = true
			out = append(out, t.S)
		}
	}
	return out
}

// Objects returns objects of triples matching subject and predicate, in insertion order
func (g *Graph) Objects(s, p Term) []Term {
	var out []Term
	for _, i := range g.bySubject[s] {
		if g.triples[i].P == p {
			out = append(out, g.triples[i].O)
		}
	}
	return out
}

// Value returns the first object for subject and predicate
func (g *Graph) Value(s, p Term) (Term, bool) {
	for _, i := range g.bySubject[s] {
		if g.triples[i].P == p {
			return g.triples[i].O, true
		}
	}
	return Term{}, false
}

// BySubject groups triples by subject, keeping first-appearance order of subjects
func (g *Graph) BySubject() ([]Term, map[Term][]Triple) {
	var order []Term
	groups := make(map[Term][]Triple)
	for _, t := range g.triples {
		if _, ok := groups[t.S]; !ok {
			order = append(order, t.S)
		}
		groups[t.S] = append(groups[t.S], t)
	}
	return order, groups
}
