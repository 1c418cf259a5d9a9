// Package cluster groups spans into reading-order blocks per page.
package cluster

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ppiankov/layergraph/internal/ident"
	"github.com/ppiankov/layergraph/internal/model"
)

// Clusterer groups spans by vertical proximity
type Clusterer struct {
	gap      float64
	labelMax int
}

// NewClusterer creates a clusterer. Non-positive arguments fall back to defaults.
func NewClusterer(cfg model.ClusterConfig) *Clusterer {
	c := &Clusterer{gap: cfg.YGapThreshold, labelMax: cfg.LabelMax}
	if c.gap <= 0 {
		c.gap = model.DefaultBlockGap
	}
	if c.labelMax <= 3 {
		c.labelMax = model.DefaultLabelMax
	}
	return c
}

// Cluster partitions spans into blocks. Spans with page and box are grouped
// per page (ascending), sorted by (y0, x0), and split wherever y0 exceeds the
// running max y1 by more than the gap. Spans missing geometry follow as
// singleton blocks in input order. Every span lands in exactly one block.
func (c *Clusterer) Cluster(spans []model.TextSpan) []model.Block {
	byPage := make(map[int][]model.TextSpan)
	var orphans []model.TextSpan
	for _, s := range spans {
		if !s.HasGeometry() {
			orphans = append(orphans, s)
			continue
		}
		byPage[*s.PageIndex] = append(byPage[*s.PageIndex], s)
	}

	pages := make([]int, 0, len(byPage))
	for p := range byPage {
		pages = append(pages, p)
	}
	sort.Ints(pages)

	var groups [][]model.TextSpan
	for _, page := range pages {
		groups = append(groups, c.clusterPage(byPage[page])...)
	}
	for _, s := range orphans {
		groups = append(groups, []model.TextSpan{s})
	}

	blocks := make([]model.Block, 0, len(groups))
	for i, members := range groups {
		blocks = append(blocks, c.newBlock(i, members))
	}
	return blocks
}

func (c *Clusterer) clusterPage(pageSpans []model.TextSpan) [][]model.TextSpan {
	sorted := make([]model.TextSpan, len(pageSpans))
	copy(sorted, pageSpans)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].BBox, sorted[j].BBox
		if a.Y0 != b.Y0 {
			return a.Y0 < b.Y0
		}
		return a.X0 < b.X0
	})

	var groups [][]model.TextSpan
	var current []model.TextSpan
	var prevY1 float64
	for _, s := range sorted {
		if len(current) == 0 {
			current = []model.TextSpan{s}
			prevY1 = s.BBox.Y1
			continue
		}
		if s.BBox.Y0-prevY1 > c.gap {
			groups = append(groups, current)
			current = []model.TextSpan{s}
		} else {
			current = append(current, s)
		}
		if s.BBox.Y1 > prevY1 {
			prevY1 = s.BBox.Y1
		}
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}
	return groups
}

func (c *Clusterer) newBlock(index int, members []model.TextSpan) model.Block {
	ids := make([]string, len(members))
	for i, s := range members {
		ids[i] = s.ID
	}

	page := "none"
	if members[0].PageIndex != nil {
		page = strconv.Itoa(*members[0].PageIndex)
	}
	parts := append([]string{"block", page}, ids...)

	return model.Block{
		ID:          ident.StableID(parts...),
		Index:       index,
		Label:       c.label(index, members[0].Text),
		MemberSpans: ids,
	}
}

// label truncates the first member's text; empty text gets a synthetic label
func (c *Clusterer) label(index int, text string) string {
	label := strings.TrimSpace(text)
	if runes := []rune(label); len(runes) > c.labelMax {
		label = string(runes[:c.labelMax-3]) + "..."
	}
	if label == "" {
		label = fmt.Sprintf("Block %d", index)
	}
	return label
}
