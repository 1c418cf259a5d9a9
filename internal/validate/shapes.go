package validate

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ppiankov/layergraph/internal/rdf"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed shapes/*.yaml
var builtinShapes embed.FS

// Shapes is a set of node shapes plus the prefixes their names use
type Shapes struct {
	Name     string            `yaml:"name"`
	Prefixes map[string]string `yaml:"prefixes"`
	Shapes   []NodeShape       `yaml:"shapes"`
}

// NodeShape constrains every node typed with TargetClass
type NodeShape struct {
	Name        string          `yaml:"name"`
	TargetClass string          `yaml:"target_class"`
	Properties  []PropertyShape `yaml:"properties"`
}

// PropertyShape constrains the values reached through one predicate
type PropertyShape struct {
	Path         string   `yaml:"path"`
	MinCount     *int     `yaml:"min_count,omitempty"`
	MaxCount     *int     `yaml:"max_count,omitempty"`
	Datatype     string   `yaml:"datatype,omitempty"`
	Class        string   `yaml:"class,omitempty"`
	NodeKind     string   `yaml:"node_kind,omitempty"` // iri or literal
	In           []string `yaml:"in,omitempty"`
	MinInclusive string   `yaml:"min_inclusive,omitempty"`
	MaxInclusive string   `yaml:"max_inclusive,omitempty"`
}

// LoadShapes reads a YAML shapes document
func LoadShapes(r io.Reader) (*Shapes, error) {
	var s Shapes
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty shapes document")
		}
		return nil, fmt.Errorf("parse shapes: %w", err)
	}
	if err := s.check(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadShapesFile reads a YAML shapes file
func LoadShapesFile(path string) (*Shapes, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read shapes: %w", err)
	}
	s, err := LoadShapes(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Builtin returns the embedded shapes for a layer ("da" or "meaning")
func Builtin(layer string) (*Shapes, error) {
	data, err := builtinShapes.ReadFile("shapes/" + layer + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("no built-in shapes for layer %q", layer)
	}
	return LoadShapes(bytes.NewReader(data))
}

// Resolve returns the shapes at path, or the built-in shapes for layer when path is empty
func Resolve(layer, path string) (*Shapes, error) {
	if path == "" {
		return Builtin(layer)
	}
	return LoadShapesFile(path)
}

// Expand turns a prefixed name ("da:Block") or an absolute IRI into a full IRI
func (s *Shapes) Expand(name string) (string, error) {
	if strings.HasPrefix(name, "<") && strings.HasSuffix(name, ">") {
		return name[1 : len(name)-1], nil
	}
	if strings.Contains(name, "://") {
		return name, nil
	}
	prefix, local, ok := strings.Cut(name, ":")
	if !ok {
		return "", fmt.Errorf("name %q has no prefix", name)
	}
	if ns, ok := s.Prefixes[prefix]; ok {
		return ns + local, nil
	}
	if ns, ok := wellKnown[prefix]; ok {
		return string(ns) + local, nil
	}
	return "", fmt.Errorf("unknown prefix %q in %q", prefix, name)
}

var wellKnown = map[string]rdf.Namespace{
	"rdf":  rdf.RDFNS,
	"rdfs": rdf.RDFSNS,
	"xsd":  rdf.XSDNS,
}

// check expands every name once so malformed shapes fail at load time
func (s *Shapes) check() error {
	for _, ns := range s.Shapes {
		if _, err := s.Expand(ns.TargetClass); err != nil {
			return fmt.Errorf("shape %s: target_class: %w", ns.Name, err)
		}
		for _, p := range ns.Properties {
			for _, name := range []string{p.Path, p.Datatype, p.Class} {
				if name == "" {
					continue
				}
				if _, err := s.Expand(name); err != nil {
					return fmt.Errorf("shape %s: %w", ns.Name, err)
				}
			}
			for _, bound := range []string{p.MinInclusive, p.MaxInclusive} {
				if bound == "" {
					continue
				}
				if _, err := decimal.NewFromString(bound); err != nil {
					return fmt.Errorf("shape %s: bound %q is not a number", ns.Name, bound)
				}
			}
			switch p.NodeKind {
			case "", NodeKindIRI, NodeKindLiteral:
			default:
				return fmt.Errorf("shape %s: unknown node_kind %q", ns.Name, p.NodeKind)
			}
		}
	}
	return nil
}

const (
	NodeKindIRI     = "iri"
	NodeKindLiteral = "literal"
)
