package collide

import (
	"math"
	"sort"

	"github.com/Rhoahndur/siteplanner/pkg/geo"
)

// SpatialIndex answers "which stored ids might be near this region".
// Implementations may over-report (extra candidates are filtered by the
// broad phase) but must never under-report: a stale or lossy index that
// misses a real overlap is a correctness bug, not a performance tradeoff.
type SpatialIndex interface {
	Insert(id string, min, max geo.Point2D)
	Remove(id string)
	Clear()
	// Search returns the ids whose stored boxes overlap the query box,
	// sorted for deterministic iteration.
	Search(min, max geo.Point2D) []string
}

// gridCell keys a bucket in the grid index.
type gridCell struct {
	cx, cy int
}

// GridIndex buckets bounding boxes into fixed-size grid cells. Suited to
// layouts with tens to thousands of assets.
type GridIndex struct {
	cellSize float64
	cells    map[gridCell]map[string]bool
	boxes    map[string][2]geo.Point2D
}

// NewGridIndex creates a grid index with the given cell size in meters.
func NewGridIndex(cellSize float64) *GridIndex {
	if cellSize <= 0 {
		cellSize = 50
	}
	return &GridIndex{
		cellSize: cellSize,
		cells:    make(map[gridCell]map[string]bool),
		boxes:    make(map[string][2]geo.Point2D),
	}
}

func (g *GridIndex) cellRange(min, max geo.Point2D) (int, int, int, int) {
	x0 := int(math.Floor(min.X / g.cellSize))
	y0 := int(math.Floor(min.Y / g.cellSize))
	x1 := int(math.Floor(max.X / g.cellSize))
	y1 := int(math.Floor(max.Y / g.cellSize))
	return x0, y0, x1, y1
}

// Insert stores a bounding box under the given id, replacing any previous
// entry for that id.
func (g *GridIndex) Insert(id string, min, max geo.Point2D) {
	g.Remove(id)
	g.boxes[id] = [2]geo.Point2D{min, max}
	x0, y0, x1, y1 := g.cellRange(min, max)
	for cx := x0; cx <= x1; cx++ {
		for cy := y0; cy <= y1; cy++ {
			key := gridCell{cx, cy}
			if g.cells[key] == nil {
				g.cells[key] = make(map[string]bool)
			}
			g.cells[key][id] = true
		}
	}
}

// Remove drops the id from the index. Unknown ids are ignored.
func (g *GridIndex) Remove(id string) {
	box, ok := g.boxes[id]
	if !ok {
		return
	}
	x0, y0, x1, y1 := g.cellRange(box[0], box[1])
	for cx := x0; cx <= x1; cx++ {
		for cy := y0; cy <= y1; cy++ {
			delete(g.cells[gridCell{cx, cy}], id)
		}
	}
	delete(g.boxes, id)
}

// Clear empties the index.
func (g *GridIndex) Clear() {
	g.cells = make(map[gridCell]map[string]bool)
	g.boxes = make(map[string][2]geo.Point2D)
}

// Search returns ids whose boxes overlap the query box, sorted.
func (g *GridIndex) Search(min, max geo.Point2D) []string {
	seen := make(map[string]bool)
	x0, y0, x1, y1 := g.cellRange(min, max)
	for cx := x0; cx <= x1; cx++ {
		for cy := y0; cy <= y1; cy++ {
			for id := range g.cells[gridCell{cx, cy}] {
				if seen[id] {
					continue
				}
				box := g.boxes[id]
				if geo.BoundingBoxesOverlap(min, max, box[0], box[1]) {
					seen[id] = true
				}
			}
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// LinearIndex is the fallback implementation: a flat list with a
// bounding-box pre-filter. Fine for modest asset counts.
type LinearIndex struct {
	boxes map[string][2]geo.Point2D
}

// NewLinearIndex creates an empty linear index.
func NewLinearIndex() *LinearIndex {
	return &LinearIndex{boxes: make(map[string][2]geo.Point2D)}
}

// Insert stores a bounding box under the given id.
func (l *LinearIndex) Insert(id string, min, max geo.Point2D) {
	l.boxes[id] = [2]geo.Point2D{min, max}
}

// Remove drops the id from the index.
func (l *LinearIndex) Remove(id string) {
	delete(l.boxes, id)
}

// Clear empties the index.
func (l *LinearIndex) Clear() {
	l.boxes = make(map[string][2]geo.Point2D)
}

// Search scans every stored box.
func (l *LinearIndex) Search(min, max geo.Point2D) []string {
	var ids []string
	for id, box := range l.boxes {
		if geo.BoundingBoxesOverlap(min, max, box[0], box[1]) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
