package graph

import (
	"context"
	"math"
	"sync"
	"time"

	"recall/backend/internal/constants"
	"recall/backend/pkg/logger"
	"go.uber.org/zap"
)

// Force tuning. The relaxation is cosmetic; none of these are load-bearing.
const (
	repulsionStrength = 8000.0
	springStrength    = 0.02
	springRestLength  = 110.0
	centerStrength    = 0.012
	velocityDamping   = 0.85
	maxVelocity       = 40.0
)

// Simulation runs a bounded force-directed relaxation over a node set. Only
// the simulation mutates node positions, except for nodes pinned by an
// interactive drag, which the tick skips until released.
type Simulation struct {
	mu        sync.Mutex
	nodes     []*Node
	neighbors map[string][]*Node
	width     float64
	height    float64
	pinned    map[string]bool
	logger    *zap.Logger
}

// NewSimulation prepares a simulation over the given nodes and edges
func NewSimulation(nodes []*Node, edges []Edge, width, height float64) *Simulation {
	byID := make(map[string]*Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	neighbors := make(map[string][]*Node)
	for _, e := range edges {
		src, okS := byID[e.Source]
		dst, okT := byID[e.Target]
		if !okS || !okT {
			continue
		}
		neighbors[src.ID] = append(neighbors[src.ID], dst)
		neighbors[dst.ID] = append(neighbors[dst.ID], src)
	}

	return &Simulation{
		nodes:     nodes,
		neighbors: neighbors,
		width:     width,
		height:    height,
		pinned:    make(map[string]bool),
		logger:    logger.Named("layout"),
	}
}

// Run drives Step at a fixed tick rate until the wall-clock budget elapses or
// the context is cancelled. It blocks; callers run it on their own goroutine
// when they need the positions live.
func (s *Simulation) Run(ctx context.Context) {
	ticker := time.NewTicker(constants.LayoutTickInterval)
	defer ticker.Stop()

	deadline := time.NewTimer(constants.LayoutDuration)
	defer deadline.Stop()

	ticks := 0
	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Layout cancelled", zap.Int("ticks", ticks))
			return
		case <-deadline.C:
			s.logger.Debug("Layout budget elapsed", zap.Int("ticks", ticks))
			return
		case <-ticker.C:
			s.Step(constants.LayoutTickInterval.Seconds())
			ticks++
		}
	}
}

// Step advances the simulation by one fixed timestep. Pinned nodes keep their
// position and velocity untouched.
func (s *Simulation) Step(dt float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	type force struct{ x, y float64 }
	forces := make([]force, len(s.nodes))

	// Pairwise inverse-square repulsion
	for i := 0; i < len(s.nodes); i++ {
		for j := i + 1; j < len(s.nodes); j++ {
			a, b := s.nodes[i], s.nodes[j]
			dx, dy := a.X-b.X, a.Y-b.Y
			distSq := dx*dx + dy*dy
			if distSq < 1 {
				distSq = 1
			}
			dist := math.Sqrt(distSq)
			f := repulsionStrength / distSq
			fx, fy := f*dx/dist, f*dy/dist
			forces[i].x += fx
			forces[i].y += fy
			forces[j].x -= fx
			forces[j].y -= fy
		}
	}

	// Linear spring toward each neighbor, weak pull toward center
	cx, cy := s.width/2, s.height/2
	for i, n := range s.nodes {
		for _, nb := range s.neighbors[n.ID] {
			dx, dy := nb.X-n.X, nb.Y-n.Y
			dist := math.Hypot(dx, dy)
			if dist < 1 {
				continue
			}
			f := springStrength * (dist - springRestLength)
			forces[i].x += f * dx / dist
			forces[i].y += f * dy / dist
		}
		forces[i].x += (cx - n.X) * centerStrength
		forces[i].y += (cy - n.Y) * centerStrength
	}

	for i, n := range s.nodes {
		if s.pinned[n.ID] {
			continue
		}
		n.VX = (n.VX + forces[i].x*dt) * velocityDamping
		n.VY = (n.VY + forces[i].y*dt) * velocityDamping
		if v := math.Hypot(n.VX, n.VY); v > maxVelocity {
			n.VX *= maxVelocity / v
			n.VY *= maxVelocity / v
		}
		n.X = clamp(n.X+n.VX, n.Radius, s.width-n.Radius)
		n.Y = clamp(n.Y+n.VY, n.Radius, s.height-n.Radius)
	}
}

// Pin marks a node as interactively held; the tick skips it until Release
func (s *Simulation) Pin(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pinned[id] = true
}

// Release hands a node back to the simulation after a drag
func (s *Simulation) Release(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pinned, id)
}

// MoveTo repositions a pinned node during a drag
func (s *Simulation) MoveTo(id string, x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.nodes {
		if n.ID == id {
			n.X = clamp(x, n.Radius, s.width-n.Radius)
			n.Y = clamp(y, n.Radius, s.height-n.Radius)
			n.VX = 0
			n.VY = 0
			return
		}
	}
}

// Snapshot returns a copy of the current node states
func (s *Simulation) Snapshot() []Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Node, len(s.nodes))
	for i, n := range s.nodes {
		out[i] = *n
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
