package graph

import (
	"math"

	"recall/backend/internal/entity"
)

// Node is one entity or category in the co-occurrence graph. Position and
// velocity are owned by the layout simulation; everything else is fixed once
// the build pass finishes.
type Node struct {
	ID     string      `json:"id"`
	Label  string      `json:"label"`
	Type   entity.Type `json:"type"`
	Weight int         `json:"weight"`
	Color  string      `json:"color"`
	Radius float64     `json:"radius"`
	X      float64     `json:"x"`
	Y      float64     `json:"y"`
	VX     float64     `json:"-"`
	VY     float64     `json:"-"`
}

// Edge is one unordered co-occurrence between two nodes
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Weight int    `json:"weight"`
}

// nodeColors maps each node type to its display color
var nodeColors = map[entity.Type]string{
	entity.TypePerson:       "#FF9500",
	entity.TypePlace:        "#34C759",
	entity.TypeOrganization: "#5856D6",
	entity.TypeTopic:        "#007AFF",
	entity.TypeCategory:     "#8E8E93",
}

const (
	minNodeRadius = 8.0
	maxNodeRadius = 28.0
)

// radiusForWeight maps an occurrence count to a bounded display radius
func radiusForWeight(weight int) float64 {
	r := minNodeRadius + 4*math.Sqrt(float64(weight))
	if r > maxNodeRadius {
		return maxNodeRadius
	}
	return r
}

// colorForType returns the display color for a node type
func colorForType(t entity.Type) string {
	if c, ok := nodeColors[t]; ok {
		return c
	}
	return nodeColors[entity.TypeCategory]
}
