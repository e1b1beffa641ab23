package spatialindex

import (
	"sort"

	"github.com/lintang-b-s/pedflow/pkg/geometry"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"
)

// AreaIndex answers which measurement areas contain a position.
type AreaIndex struct {
	tr    *rtree.RTreeG[geometry.MeasurementArea]
	count int
}

func NewAreaIndex() *AreaIndex {
	var tr rtree.RTreeG[geometry.MeasurementArea]
	return &AreaIndex{
		tr: &tr,
	}
}

// Build. inserts every area with its bounding box as leaf.
func (ai *AreaIndex) Build(areas []geometry.MeasurementArea, log *zap.Logger) {
	log.Info("Building R-tree spatial index of measurement areas...", zap.Int("areas", len(areas)))
	for _, area := range areas {
		bounds := area.Polygon().Bounds()
		lo, hi := bounds.Lo(), bounds.Hi()
		ai.tr.Insert([2]float64{lo.X, lo.Y}, [2]float64{hi.X, hi.Y}, area)
		ai.count++
	}
	log.Info("R-tree spatial index built.")
}

func (ai *AreaIndex) Len() int {
	return ai.count
}

// Locate returns the ids of all areas containing p, boundary included, in ascending order.
func (ai *AreaIndex) Locate(p geometry.Point) []int {
	q := p.Coords()
	results := make([]int, 0, 2)
	ai.tr.Search(q, q,
		func(min, max [2]float64, area geometry.MeasurementArea) bool {
			if area.Contains(p) {
				results = append(results, area.ID())
			}
			return true
		})
	sort.Ints(results)
	return results
}
