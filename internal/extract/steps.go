package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ppiankov/layergraph/internal/ident"
	"github.com/ppiankov/layergraph/internal/model"
)

// DefaultStepPattern matches an ordinal ("1.", "2)", "(3)") or bullet ("-", "*", "•")
// marker followed by the step body in the "body" group.
var DefaultStepPattern = regexp.MustCompile(`^\s*(?:\(?\d+\)?[.)]|[-*•])\s+(?P<body>.+?)\s*$`)

// DefaultActionVerb is used when a step body has no usable leading word
const DefaultActionVerb = "do"

// NoPageGroup is the page key for step candidates without a page index
const NoPageGroup = -1

var nonVerbChars = regexp.MustCompile(`[^A-Za-z-]`)

// ProcedureSegmenter groups marker lines into procedures
type ProcedureSegmenter struct {
	pattern  *regexp.Regexp
	bodyIdx  int
	gap      float64
	minSteps int
}

// NewProcedureSegmenter creates a segmenter. A nil pattern selects
// DefaultStepPattern; the pattern must have a "body" group or its first
// group is used. minSteps below 2 is raised to 2.
func NewProcedureSegmenter(pattern *regexp.Regexp, cfg model.ProcedureConfig) *ProcedureSegmenter {
	if pattern == nil {
		pattern = DefaultStepPattern
	}
	idx := pattern.SubexpIndex("body")
	if idx < 0 {
		idx = 1
	}
	gap := cfg.YGapThreshold
	if gap <= 0 {
		gap = model.DefaultProcedureGap
	}
	minSteps := cfg.MinSteps
	if minSteps < model.DefaultMinSteps {
		minSteps = model.DefaultMinSteps
	}
	return &ProcedureSegmenter{pattern: pattern, bodyIdx: idx, gap: gap, minSteps: minSteps}
}

type stepCandidate struct {
	span model.TextSpan
	body string
}

// StepBody strips the marker from a step line; ok is false when the line is not a step
func (p *ProcedureSegmenter) StepBody(text string) (string, bool) {
	m := p.pattern.FindStringSubmatch(text)
	if m == nil || p.bodyIdx >= len(m) {
		return "", false
	}
	body := strings.TrimSpace(m[p.bodyIdx])
	return body, body != ""
}

// Segment builds procedures from spans given in canonical reading order.
// Candidates are grouped by page; within a page a new segment starts when the
// gap between the running bottom edge and the next top edge exceeds the
// threshold. Segments shorter than the minimum are discarded.
func (p *ProcedureSegmenter) Segment(document string, spans []model.TextSpan) []model.Procedure {
	byPage := make(map[int][]stepCandidate)
	for _, s := range spans {
		body, ok := p.StepBody(s.Text)
		if !ok {
			continue
		}
		page := NoPageGroup
		if s.PageIndex != nil {
			page = *s.PageIndex
		}
		byPage[page] = append(byPage[page], stepCandidate{span: s, body: body})
	}

	pages := make([]int, 0, len(byPage))
	for page := range byPage {
		pages = append(pages, page)
	}
	sort.Ints(pages)

	var procedures []model.Procedure
	for _, page := range pages {
		for _, segment := range p.segmentPage(byPage[page]) {
			if len(segment) < p.minSteps {
				continue
			}
			procedures = append(procedures, newProcedure(document, page, segment))
		}
	}
	return procedures
}

func (p *ProcedureSegmenter) segmentPage(items []stepCandidate) [][]stepCandidate {
	var segments [][]stepCandidate
	var current []stepCandidate
	var prevY1 *float64

	for _, item := range items {
		var y0, y1 *float64
		if item.span.BBox != nil {
			top, bottom := item.span.BBox.Y0, item.span.BBox.Y1
			y0, y1 = &top, &bottom
		}

		if len(current) == 0 {
			current = []stepCandidate{item}
			prevY1 = y1
			continue
		}
		if prevY1 != nil && y0 != nil && *y0-*prevY1 > p.gap {
			segments = append(segments, current)
			current = []stepCandidate{item}
		} else {
			current = append(current, item)
		}
		if y1 != nil && (prevY1 == nil || *y1 > *prevY1) {
			prevY1 = y1
		}
	}
	if len(current) > 0 {
		segments = append(segments, current)
	}
	return segments
}

func newProcedure(document string, page int, segment []stepCandidate) model.Procedure {
	procID := ident.StableID("proc", document, strconv.Itoa(page), segment[0].span.ID)
	steps := make([]model.Step, len(segment))
	for i, item := range segment {
		order := i + 1
		steps[i] = model.Step{
			ID:           ident.StableID("step", procID, strconv.Itoa(order), item.span.ID),
			Order:        order,
			ActionVerb:   ActionVerb(item.body),
			EvidenceSpan: item.span.ID,
			Label:        item.body,
		}
	}
	return model.Procedure{
		ID:             procID,
		Page:           page,
		Steps:          steps,
		SourceDocument: document,
	}
}

// ActionVerb returns the lower-cased first token of a step body with
// non-letters removed, or DefaultActionVerb when nothing remains
func ActionVerb(body string) string {
	fields := strings.Fields(body)
	if len(fields) == 0 {
		return DefaultActionVerb
	}
	verb := strings.ToLower(nonVerbChars.ReplaceAllString(fields[0], ""))
	if verb == "" {
		return DefaultActionVerb
	}
	return verb
}
