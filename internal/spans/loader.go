package spans

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ppiankov/layergraph/internal/model"
	"github.com/ppiankov/layergraph/internal/rdf"
	"gopkg.in/yaml.v3"
)

// InputFormat identifies a span input encoding
type InputFormat string

const (
	InputYAML     InputFormat = "yaml" // Also accepts JSON
	InputNTriples InputFormat = "ntriples"
)

// DetectFormat picks the input format from a file extension
func DetectFormat(path string) (InputFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return InputYAML, nil
	case ".nt":
		return InputNTriples, nil
	default:
		return "", fmt.Errorf("unsupported input extension %q (want .yaml, .yml, .json or .nt)", filepath.Ext(path))
	}
}

// LoadFile reads a span repository from disk. It also returns the raw bytes
// so callers can derive cache keys from exactly what was parsed.
func LoadFile(path string, fallbackNS rdf.Namespace) (*Repository, []byte, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	repo, err := Load(bytes.NewReader(data), format, fallbackNS)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", path, err)
	}
	return repo, data, nil
}

// Load parses a span repository in the given format
func Load(r io.Reader, format InputFormat, fallbackNS rdf.Namespace) (*Repository, error) {
	switch format {
	case InputYAML:
		return loadYAML(r, fallbackNS)
	case InputNTriples:
		g, err := rdf.ParseNTriples(r)
		if err != nil {
			return nil, err
		}
		return FromGraph(g, fallbackNS), nil
	default:
		return nil, fmt.Errorf("unsupported input format: %s", format)
	}
}

// spanFile is the on-disk YAML/JSON layout
type spanFile struct {
	Namespace  string         `yaml:"namespace"`
	Document   string         `yaml:"document"`
	Spans      []spanEntry    `yaml:"spans"`
	Quantities []quantityItem `yaml:"quantities"`
}

type spanEntry struct {
	ID   string    `yaml:"id"`
	Text string    `yaml:"text"`
	Page *int      `yaml:"page"`
	BBox []float64 `yaml:"bbox"`
}

type quantityItem struct {
	ID    string    `yaml:"id"`
	Value string    `yaml:"value"`
	Unit  string    `yaml:"unit"`
	Page  *int      `yaml:"page"`
	BBox  []float64 `yaml:"bbox"`
}

func loadYAML(r io.Reader, fallbackNS rdf.Namespace) (*Repository, error) {
	var f spanFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return NewRepository(fallbackNS, nil, nil, nil), nil
		}
		return nil, fmt.Errorf("decode: %w", err)
	}

	ns := fallbackNS
	if f.Namespace != "" {
		ns = rdf.Namespace(f.Namespace)
	}

	var doc *model.Document
	if f.Document != "" {
		doc = &model.Document{ID: f.Document}
	}

	spans := make([]model.TextSpan, 0, len(f.Spans))
	for i, e := range f.Spans {
		if e.ID == "" {
			return nil, fmt.Errorf("spans[%d]: missing id", i)
		}
		box, err := bboxFromSlice(e.BBox)
		if err != nil {
			return nil, fmt.Errorf("spans[%d] (%s): %w", i, e.ID, err)
		}
		spans = append(spans, model.TextSpan{ID: e.ID, Text: e.Text, PageIndex: e.Page, BBox: box})
	}

	quantities := make([]model.RawQuantity, 0, len(f.Quantities))
	for i, q := range f.Quantities {
		if q.ID == "" {
			return nil, fmt.Errorf("quantities[%d]: missing id", i)
		}
		box, err := bboxFromSlice(q.BBox)
		if err != nil {
			return nil, fmt.Errorf("quantities[%d] (%s): %w", i, q.ID, err)
		}
		quantities = append(quantities, model.RawQuantity{
			ID:        q.ID,
			Value:     q.Value,
			Unit:      q.Unit,
			PageIndex: q.Page,
			BBox:      box,
		})
	}

	return NewRepository(ns, doc, spans, quantities), nil
}

func bboxFromSlice(v []float64) (*model.BBox, error) {
	if len(v) == 0 {
		return nil, nil
	}
	if len(v) != 4 {
		return nil, fmt.Errorf("bbox needs 4 values (x0, y0, x1, y1), got %d", len(v))
	}
	return &model.BBox{X0: v[0], Y0: v[1], X1: v[2], Y1: v[3]}, nil
}

// FromGraph reads spans, the document node and dimension candidates out of a
// parse graph. The parse namespace is taken from the first TextSpan or
// Document type IRI; fallbackNS is used when neither is present.
func FromGraph(g *rdf.Graph, fallbackNS rdf.Namespace) *Repository {
	ns := DetectNamespace(g, fallbackNS)

	var doc *model.Document
	if docs := g.Subjects(rdf.Type, ns.Term(rdf.PGDocument)); len(docs) > 0 {
		doc = &model.Document{ID: docs[0].Value}
	}

	var spans []model.TextSpan
	for _, s := range g.Subjects(rdf.Type, ns.Term(rdf.PGTextSpan)) {
		text := ""
		if v, ok := g.Value(s, rdf.Label); ok {
			text = v.Value
		}
		spans = append(spans, model.TextSpan{
			ID:        s.Value,
			Text:      text,
			PageIndex: graphInt(g, s, ns.Term(rdf.PGPageIndex)),
			BBox:      graphBBox(g, s, ns),
		})
	}

	var quantities []model.RawQuantity
	for _, d := range g.Subjects(rdf.Type, ns.Term(rdf.PGDimension)) {
		q := model.RawQuantity{
			ID:        d.Value,
			PageIndex: graphInt(g, d, ns.Term(rdf.PGPageIndex)),
			BBox:      graphBBox(g, d, ns),
		}
		if v, ok := g.Value(d, ns.Term(rdf.PGHasValue)); ok {
			q.Value = v.Value
		}
		if v, ok := g.Value(d, ns.Term(rdf.PGHasUnit)); ok {
			q.Unit = v.Value
		}
		quantities = append(quantities, q)
	}

	return NewRepository(ns, doc, spans, quantities)
}

// DetectNamespace finds the parse namespace from TextSpan or Document typing triples
func DetectNamespace(g *rdf.Graph, fallback rdf.Namespace) rdf.Namespace {
	for _, t := range g.Triples() {
		if t.P != rdf.Type || !t.O.IsIRI() {
			continue
		}
		for _, local := range []string{rdf.PGTextSpan, rdf.PGDocument} {
			if strings.HasSuffix(t.O.Value, local) && len(t.O.Value) > len(local) {
				prefix := t.O.Value[:len(t.O.Value)-len(local)]
				if strings.HasSuffix(prefix, "#") || strings.HasSuffix(prefix, "/") {
					if prefix == string(rdf.DA) || prefix == string(rdf.M) {
						continue
					}
					return rdf.Namespace(prefix)
				}
			}
		}
	}
	return fallback
}

// graphInt reads an integer literal; values that do not parse are treated as absent
func graphInt(g *rdf.Graph, s, p rdf.Term) *int {
	v, ok := g.Value(s, p)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v.Value))
	if err != nil {
		return nil
	}
	return &n
}

func graphFloat(g *rdf.Graph, s, p rdf.Term) (float64, bool) {
	v, ok := g.Value(s, p)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.Value), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// graphBBox returns a box only when all four coordinates parse
func graphBBox(g *rdf.Graph, s rdf.Term, ns rdf.Namespace) *model.BBox {
	x0, ok0 := graphFloat(g, s, ns.Term(rdf.PGBBoxX0))
	y0, ok1 := graphFloat(g, s, ns.Term(rdf.PGBBoxY0))
	x1, ok2 := graphFloat(g, s, ns.Term(rdf.PGBBoxX1))
	y1, ok3 := graphFloat(g, s, ns.Term(rdf.PGBBoxY1))
	if !ok0 || !ok1 || !ok2 || !ok3 {
		return nil
	}
	return &model.BBox{X0: x0, Y0: y0, X1: x1, Y1: y1}
}
