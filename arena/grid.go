package arena

import (
	"math"
	"sort"
)

type cellKey struct {
	X int
	Y int
}

const defaultCellSize = 4.0

// spatialGrid buckets entity positions into fixed-size cells so radius
// queries touch only the covering cells. Entities are points; one cell each.
type spatialGrid struct {
	cellSize    float64
	invCellSize float64
	cells       map[cellKey][]string
	entries     map[string]cellKey
}

func newSpatialGrid(cellSize float64) *spatialGrid {
	if cellSize <= 0 {
		cellSize = defaultCellSize
	}
	return &spatialGrid{
		cellSize:    cellSize,
		invCellSize: 1.0 / cellSize,
		cells:       make(map[cellKey][]string),
		entries:     make(map[string]cellKey),
	}
}

func (g *spatialGrid) cellFor(x, y float64) cellKey {
	return cellKey{
		X: int(math.Floor(x * g.invCellSize)),
		Y: int(math.Floor(y * g.invCellSize)),
	}
}

func (g *spatialGrid) Upsert(id string, x, y float64) {
	if g == nil || id == "" {
		return
	}
	cell := g.cellFor(x, y)
	if prev, ok := g.entries[id]; ok {
		if prev == cell {
			return
		}
		g.removeFromCell(id, prev)
	}
	g.entries[id] = cell
	g.cells[cell] = append(g.cells[cell], id)
}

func (g *spatialGrid) Remove(id string) {
	if g == nil || id == "" {
		return
	}
	cell, ok := g.entries[id]
	if !ok {
		return
	}
	g.removeFromCell(id, cell)
	delete(g.entries, id)
}

func (g *spatialGrid) removeFromCell(id string, cell cellKey) {
	bucket := g.cells[cell]
	for i := range bucket {
		if bucket[i] != id {
			continue
		}
		bucket[i] = bucket[len(bucket)-1]
		bucket = bucket[:len(bucket)-1]
		break
	}
	if len(bucket) == 0 {
		delete(g.cells, cell)
	} else {
		g.cells[cell] = bucket
	}
}

// idsNear returns every entity id in the cells covering the circle, sorted so
// downstream tie-breaking stays deterministic. Callers still filter by exact
// distance.
func (g *spatialGrid) idsNear(x, y, radius float64) []string {
	if g == nil || radius < 0 {
		return nil
	}
	minCell := g.cellFor(x-radius, y-radius)
	maxCell := g.cellFor(x+radius, y+radius)
	var ids []string
	for cx := minCell.X; cx <= maxCell.X; cx++ {
		for cy := minCell.Y; cy <= maxCell.Y; cy++ {
			ids = append(ids, g.cells[cellKey{X: cx, Y: cy}]...)
		}
	}
	sort.Strings(ids)
	return ids
}
