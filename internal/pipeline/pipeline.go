// Package pipeline runs one document from spans to validated, serialized
// DA and Meaning graphs.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ppiankov/layergraph/internal/cache"
	"github.com/ppiankov/layergraph/internal/cluster"
	"github.com/ppiankov/layergraph/internal/compose"
	"github.com/ppiankov/layergraph/internal/dimension"
	"github.com/ppiankov/layergraph/internal/extract"
	"github.com/ppiankov/layergraph/internal/model"
	"github.com/ppiankov/layergraph/internal/quantity"
	"github.com/ppiankov/layergraph/internal/rdf"
	"github.com/ppiankov/layergraph/internal/spans"
	"github.com/ppiankov/layergraph/internal/validate"
	"gopkg.in/yaml.v3"
)

// Layer names used in reports, errors and logs
const (
	LayerDA      = "da"
	LayerMeaning = "meaning"
)

// Pipeline wires the engines for one configuration. It holds no per-document
// state, so one Pipeline may serve concurrent Run calls.
type Pipeline struct {
	config     *model.Config
	format     rdf.Format
	loader     *Loader
	clusterer  *cluster.Clusterer
	engine     *dimension.Engine
	normalizer *quantity.Normalizer
	claims     *extract.ClaimExtractor
	segmenter  *extract.ProcedureSegmenter
	composer   *compose.Composer
	checker    validate.Checker
	daShapes   *validate.Shapes
	mShapes    *validate.Shapes
	cache      cache.Cache
	logger     *slog.Logger
}

// Option customizes a Pipeline
type Option func(*Pipeline)

// WithLogger sets the structured logger; the default discards everything
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithCache replaces the cache built from the configuration
func WithCache(c cache.Cache) Option {
	return func(p *Pipeline) {
		if c != nil {
			p.cache = c
		}
	}
}

// WithChecker replaces the built-in shape checker
func WithChecker(c validate.Checker) Option {
	return func(p *Pipeline) {
		if c != nil {
			p.checker = c
		}
	}
}

// NewPipeline creates a pipeline for cfg. It fails on an unknown output
// format or unreadable shapes files.
func NewPipeline(cfg *model.Config, opts ...Option) (*Pipeline, error) {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	format, err := rdf.ParseFormat(cfg.Graph.Format)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		config:     cfg,
		format:     format,
		loader:     NewLoader(cfg.Graph.PGNamespace),
		clusterer:  cluster.NewClusterer(cfg.Cluster),
		engine:     dimension.NewEngine(nil),
		normalizer: quantity.NewNormalizer(nil),
		claims:     extract.NewClaimExtractor(nil),
		segmenter:  extract.NewProcedureSegmenter(nil, cfg.Procedure),
		composer:   compose.NewComposer(cfg.Graph),
		checker:    validate.NewShapeChecker(),
		cache:      cache.New(cfg.Cache),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}

	if cfg.Validation.Enabled {
		if p.daShapes, err = validate.Resolve(LayerDA, cfg.Validation.DAShapes); err != nil {
			return nil, fmt.Errorf("da shapes: %w", err)
		}
		if p.mShapes, err = validate.Resolve(LayerMeaning, cfg.Validation.MeaningShapes); err != nil {
			return nil, fmt.Errorf("meaning shapes: %w", err)
		}
	}
	return p, nil
}

// Format returns the output serialization format
func (p *Pipeline) Format() rdf.Format {
	return p.format
}

// Loader returns the input loader
func (p *Pipeline) Loader() *Loader {
	return p.loader
}

// Result holds the serialized layers of one document and its report.
// The graphs are nil when the result came from the cache.
type Result struct {
	Source       string
	Name         string
	Report       *model.Report
	DA           []byte
	Meaning      []byte
	DAGraph      *rdf.Graph
	MeaningGraph *rdf.Graph
	Checks       []LayerCheck
}

// LayerCheck is the full validation outcome of one layer
type LayerCheck struct {
	Layer  string          `json:"layer"`
	Result validate.Result `json:"result"`
}

// RunFile loads path and runs it
func (p *Pipeline) RunFile(ctx context.Context, path string) (*Result, error) {
	src, err := p.loader.Load(path)
	if err != nil {
		return nil, err
	}
	return p.Run(ctx, src)
}

// Run builds, validates and serializes both layers for one source.
// On a conformance failure the populated Result is returned together with a
// *validate.NonConformanceError so callers can still write the output.
func (p *Pipeline) Run(ctx context.Context, src *Source) (*Result, error) {
	log := p.logger.With("source", src.Path)

	key, err := p.cacheKey(src.Raw)
	if err != nil {
		return nil, err
	}
	if res, ok := p.fromCache(key, src); ok {
		log.Debug("cache hit", "key", key)
		return res, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	daGraph, report, err := p.BuildDA(src.Repo)
	if err != nil {
		return nil, err
	}
	report.Source = src.Path

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	mGraph, err := p.buildMeaning(src.Repo, daGraph, report)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Source:       src.Path,
		Name:         src.Name,
		Report:       report,
		DAGraph:      daGraph,
		MeaningGraph: mGraph,
	}
	if res.DA, err = rdf.Serialize(daGraph, p.format); err != nil {
		return nil, fmt.Errorf("serialize da: %w", err)
	}
	if res.Meaning, err = rdf.Serialize(mGraph, p.format); err != nil {
		return nil, fmt.Errorf("serialize meaning: %w", err)
	}

	verr := p.validateLayers(res, log)
	if verr == nil {
		p.toCache(key, res, log)
	}
	log.Info("document processed",
		"blocks", report.Blocks,
		"observations", report.Observations,
		"quantities", report.Quantities,
		"claims", report.Claims,
		"procedures", report.Procedures,
		"triples_da", report.Triples.DA,
		"triples_meaning", report.Triples.Meaning,
	)
	return res, verr
}

// AnalyzeDA derives the DA layer entities. dropped counts quantity
// candidates that did not normalize.
func (p *Pipeline) AnalyzeDA(repo *spans.Repository) (layer compose.DALayer, dropped int) {
	all := repo.Spans()
	candidates := repo.Quantities()
	if p.config.Quantity.Discover {
		candidates = append(candidates, quantity.Discover(all, p.normalizer.Units())...)
	}

	layer.Blocks = p.clusterer.Cluster(all)
	layer.Observations = p.engine.Observe(all)
	layer.Quantities, dropped = p.normalizer.Normalize(candidates, extract.NewEvidenceResolver(all))
	return layer, dropped
}

// AnalyzeMeaning derives claims and procedures in canonical reading order
func (p *Pipeline) AnalyzeMeaning(repo *spans.Repository) compose.MeaningLayer {
	ordered := spans.Canonical(repo.Spans())
	var docID string
	if doc := repo.Document(); doc != nil {
		docID = doc.ID
	}
	return compose.MeaningLayer{
		Claims:     p.claims.Extract(ordered),
		Procedures: p.segmenter.Segment(docID, ordered),
	}
}

// BuildDA builds the DA graph and a report holding its counts
func (p *Pipeline) BuildDA(repo *spans.Repository) (*rdf.Graph, *model.Report, error) {
	layer, dropped := p.AnalyzeDA(repo)
	g, err := p.composer.BuildDA(repo, layer)
	if err != nil {
		return nil, nil, fmt.Errorf("compose da: %w", err)
	}
	report := &model.Report{
		Document:     repo.Document().ID,
		Spans:        repo.Len(),
		Blocks:       len(layer.Blocks),
		Observations: len(layer.Observations),
		Quantities:   len(layer.Quantities),
		Dropped:      dropped,
		Triples:      model.LayerCounts{DA: g.Len()},
	}
	return g, report, nil
}

// BuildMeaning builds the Meaning graph over an optional DA context graph
func (p *Pipeline) BuildMeaning(repo *spans.Repository, da *rdf.Graph) (*rdf.Graph, *model.Report, error) {
	report := &model.Report{Spans: repo.Len()}
	if doc := repo.Document(); doc != nil {
		report.Document = doc.ID
	}
	if da != nil {
		report.Triples.DA = da.Len()
	}
	g, err := p.buildMeaning(repo, da, report)
	if err != nil {
		return nil, nil, err
	}
	return g, report, nil
}

func (p *Pipeline) buildMeaning(repo *spans.Repository, da *rdf.Graph, report *model.Report) (*rdf.Graph, error) {
	layer := p.AnalyzeMeaning(repo)
	g, err := p.composer.BuildMeaning(repo, da, layer)
	if err != nil {
		return nil, fmt.Errorf("compose meaning: %w", err)
	}
	report.Claims = len(layer.Claims)
	report.Procedures = len(layer.Procedures)
	for _, proc := range layer.Procedures {
		report.Steps += len(proc.Steps)
	}
	report.Triples.Meaning = g.Len()
	return g, nil
}

// Check validates g against the shapes for layer. It returns nil when
// validation is disabled.
func (p *Pipeline) Check(layer string, g *rdf.Graph) *validate.Result {
	shapes := p.shapesFor(layer)
	if shapes == nil {
		return nil
	}
	res := p.checker.Check(g, shapes)
	return &res
}

func (p *Pipeline) shapesFor(layer string) *validate.Shapes {
	switch layer {
	case LayerDA:
		return p.daShapes
	case LayerMeaning:
		return p.mShapes
	}
	return nil
}

// validateLayers checks both graphs and returns the first failure
func (p *Pipeline) validateLayers(res *Result, log *slog.Logger) error {
	var first error
	for _, lg := range []struct {
		layer string
		graph *rdf.Graph
	}{{LayerDA, res.DAGraph}, {LayerMeaning, res.MeaningGraph}} {
		vr := p.Check(lg.layer, lg.graph)
		if vr == nil {
			continue
		}
		res.Checks = append(res.Checks, LayerCheck{Layer: lg.layer, Result: *vr})
		res.Report.Validation = append(res.Report.Validation, model.ValidationSummary{
			Layer:      lg.layer,
			Conforms:   vr.Conforms,
			Violations: len(vr.Violations),
		})
		if !vr.Conforms {
			log.Warn("graph does not conform", "layer", lg.layer, "violations", len(vr.Violations))
			if first == nil {
				first = &validate.NonConformanceError{Layer: lg.layer, Result: *vr}
			}
		}
	}
	return first
}

// cacheKey covers the input bytes, every setting that changes output, the
// resolved shapes and the format
func (p *Pipeline) cacheKey(raw []byte) (string, error) {
	relevant := *p.config
	relevant.Cache = model.CacheConfig{}
	relevant.Concurrency = model.ConcurrencyConfig{}
	relevant.Output = model.OutputConfig{}
	cfgYAML, err := yaml.Marshal(relevant)
	if err != nil {
		return "", fmt.Errorf("cache key: %w", err)
	}
	// Shapes files are keyed by content so editing one in place invalidates entries
	shapesYAML, err := yaml.Marshal([]*validate.Shapes{p.daShapes, p.mShapes})
	if err != nil {
		return "", fmt.Errorf("cache key: %w", err)
	}
	return cache.Key(raw, cfgYAML, shapesYAML, []byte(p.format)), nil
}

// cachedResult is the stored form of a conforming Result
type cachedResult struct {
	Report  *model.Report `json:"report"`
	DA      []byte        `json:"da"`
	Meaning []byte        `json:"meaning"`
	Checks  []LayerCheck  `json:"checks,omitempty"`
}

func (p *Pipeline) fromCache(key string, src *Source) (*Result, bool) {
	data, ok := p.cache.Get(key)
	if !ok {
		return nil, false
	}
	var cr cachedResult
	if err := json.Unmarshal(data, &cr); err != nil || cr.Report == nil {
		_ = p.cache.Delete(key)
		return nil, false
	}
	cr.Report.Source = src.Path
	cr.Report.Cached = true
	return &Result{
		Source:  src.Path,
		Name:    src.Name,
		Report:  cr.Report,
		DA:      cr.DA,
		Meaning: cr.Meaning,
		Checks:  cr.Checks,
	}, true
}

func (p *Pipeline) toCache(key string, res *Result, log *slog.Logger) {
	data, err := json.Marshal(cachedResult{
		Report:  res.Report,
		DA:      res.DA,
		Meaning: res.Meaning,
		Checks:  res.Checks,
	})
	if err == nil {
		err = p.cache.Set(key, data, 0)
	}
	if err != nil {
		log.Warn("cache write failed", "error", err)
	}
}

// IsNonConformance reports whether err carries a conformance failure
func IsNonConformance(err error) bool {
	var nce *validate.NonConformanceError
	return errors.As(err, &nce)
}
