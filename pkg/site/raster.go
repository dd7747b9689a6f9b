package site

import "github.com/Rhoahndur/siteplanner/pkg/geo"

// Raster is a row-major grid of float samples over a rectangular extent,
// used for elevation and slope surfaces. Row 0 is the southern edge.
type Raster struct {
	Origin   geo.Point2D `json:"origin"` // min corner
	CellSize float64     `json:"cell_size"`
	Cols     int         `json:"cols"`
	Rows     int         `json:"rows"`
	Values   []float64   `json:"values"`
}

// NewRaster allocates a zero-filled raster.
func NewRaster(origin geo.Point2D, cellSize float64, cols, rows int) *Raster {
	return &Raster{
		Origin:   origin,
		CellSize: cellSize,
		Cols:     cols,
		Rows:     rows,
		Values:   make([]float64, cols*rows),
	}
}

// Set assigns the value of cell (col, row). Out-of-range indices are ignored.
func (r *Raster) Set(col, row int, v float64) {
	if col < 0 || col >= r.Cols || row < 0 || row >= r.Rows {
		return
	}
	r.Values[row*r.Cols+col] = v
}

// Sample returns the value of the cell containing the point. The second
// return is false when the point falls outside the raster extent.
func (r *Raster) Sample(pt geo.Point2D) (float64, bool) {
	if r == nil || r.CellSize <= 0 || len(r.Values) == 0 {
		return 0, false
	}
	col := int((pt.X - r.Origin.X) / r.CellSize)
	row := int((pt.Y - r.Origin.Y) / r.CellSize)
	if col < 0 || col >= r.Cols || row < 0 || row >= r.Rows {
		return 0, false
	}
	return r.Values[row*r.Cols+col], true
}
