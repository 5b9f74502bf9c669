package graph

import (
	"math"
	"math/rand"
	"sort"
	"strings"

	"recall/backend/internal/constants"
	"recall/backend/internal/entity"
	"recall/backend/internal/record"
	"recall/backend/pkg/logger"
	"go.uber.org/zap"
)

// Builder turns a batch of records into a co-occurrence graph. Nothing is
// persisted; every call is a full rebuild.
type Builder struct {
	width  float64
	height float64
	logger *zap.Logger
}

// NewBuilder creates a graph builder for the given canvas dimensions
func NewBuilder(width, height float64) *Builder {
	return &Builder{
		width:  width,
		height: height,
		logger: logger.Named("graph"),
	}
}

// Build extracts entities from each record, accumulates co-occurrences, keeps
// the heaviest nodes, and places them on an initial circular layout. Records
// are expected newest first.
func (b *Builder) Build(records []record.Record) ([]*Node, []Edge) {
	nodes := make(map[string]*Node)
	var order []string // first-seen order, for tie-breaks
	cooccur := make(map[string]map[string]bool)

	upsert := func(key, label string, typ entity.Type) {
		if n, ok := nodes[key]; ok {
			n.Weight++
			return
		}
		nodes[key] = &Node{
			ID:    key,
			Label: label,
			Type:  typ,
			// Weight counts records, not mentions
			Weight: 1,
			Color:  colorForType(typ),
		}
		order = append(order, key)
	}

	for _, rec := range records {
		touched := make(map[string]bool)

		catKey := "cat_" + rec.Category.Display().Label
		touched[catKey] = true
		upsert(catKey, rec.Category.Display().Label, entity.TypeCategory)

		for _, ent := range entity.Extract(rec.SearchText()) {
			key := strings.ToLower(ent.Label)
			if touched[key] {
				continue
			}
			touched[key] = true
			upsert(key, ent.Label, ent.Type)
		}

		// Every unordered pair within this record co-occurs
		keys := make([]string, 0, len(touched))
		for k := range touched {
			keys = append(keys, k)
		}
		for i := 0; i < len(keys); i++ {
			for j := i + 1; j < len(keys); j++ {
				if cooccur[keys[i]] == nil {
					cooccur[keys[i]] = make(map[string]bool)
				}
				cooccur[keys[i]][keys[j]] = true
			}
		}
	}

	// Keep the heaviest nodes, first-seen order breaking ties
	sorted := make([]string, len(order))
	copy(sorted, order)
	sort.SliceStable(sorted, func(i, j int) bool {
		return nodes[sorted[i]].Weight > nodes[sorted[j]].Weight
	})
	if len(sorted) > constants.MaxGraphNodes {
		sorted = sorted[:constants.MaxGraphNodes]
	}
	kept := make(map[string]bool, len(sorted))
	for _, key := range sorted {
		kept[key] = true
	}

	// Deduplicate unordered pairs; repeat co-occurrence does not add weight
	var edges []Edge
	seenPairs := make(map[string]bool)
	for a, partners := range cooccur {
		for p := range partners {
			lo, hi := a, p
			if lo > hi {
				lo, hi = hi, lo
			}
			pairKey := lo + "|" + hi
			if seenPairs[pairKey] || !kept[lo] || !kept[hi] {
				continue
			}
			seenPairs[pairKey] = true
			edges = append(edges, Edge{Source: lo, Target: hi, Weight: 1})
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		return edges[i].Target < edges[j].Target
	})

	out := make([]*Node, 0, len(sorted))
	for _, key := range sorted {
		n := nodes[key]
		n.Radius = radiusForWeight(n.Weight)
		out = append(out, n)
	}
	b.placeInitial(out)

	b.logger.Debug("Graph built",
		zap.Int("records", len(records)),
		zap.Int("nodes", len(out)),
		zap.Int("edges", len(edges)),
	)

	return out, edges
}

// placeInitial spaces nodes evenly around a circle with a small random jitter
func (b *Builder) placeInitial(nodes []*Node) {
	if len(nodes) == 0 {
		return
	}
	cx, cy := b.width/2, b.height/2
	radius := math.Min(b.width, b.height) * 0.35

	for i, n := range nodes {
		angle := 2 * math.Pi * float64(i) / float64(len(nodes))
		n.X = cx + radius*math.Cos(angle) + (rand.Float64()-0.5)*20
		n.Y = cy + radius*math.Sin(angle) + (rand.Float64()-0.5)*20
		n.VX = 0
		n.VY = 0
	}
}
