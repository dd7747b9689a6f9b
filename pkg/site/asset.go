package site

import (
	"fmt"
	"math"

	"github.com/Rhoahndur/siteplanner/pkg/geo"
)

// AssetType is the category of a placeable site feature.
type AssetType string

const (
	TypeBuilding      AssetType = "building"
	TypeEquipmentYard AssetType = "equipment_yard"
	TypeParking       AssetType = "parking"
	TypeStorageTank   AssetType = "storage_tank"
	TypeUtility       AssetType = "utility"
	TypeRoad          AssetType = "road"
	TypeStructure     AssetType = "structure"
	TypeLandscape     AssetType = "landscape"
	TypeCustom        AssetType = "custom"
)

// areaTolerance is the relative tolerance for a declared area disagreeing
// with width*length.
const areaTolerance = 1e-6

// Overrides carries optional per-asset attributes. Zero values mean
// "use the site or type default".
type Overrides struct {
	Area            float64
	MinSetback      float64
	MinSpacing      float64
	MaxSlope        float64
	MinRoadDistance float64
	MaxRoadDistance float64
	Priority        int
}

// Asset is a placed or placeable rectangular footprint. Position and
// rotation are mutated by the optimizer; all other fields are fixed at
// construction.
type Asset struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Type     AssetType   `json:"type"`
	Position geo.Point2D `json:"position"`
	Rotation float64     `json:"rotation"` // degrees in [0,360)
	Width    float64     `json:"width"`    // meters, X extent at zero rotation
	Length   float64     `json:"length"`   // meters, Y extent at zero rotation
	Area     float64     `json:"area"`

	MinSetback      float64 `json:"min_setback,omitempty"`
	MinSpacing      float64 `json:"min_spacing,omitempty"`
	MaxSlope        float64 `json:"max_slope,omitempty"`
	MinRoadDistance float64 `json:"min_road_distance,omitempty"`
	MaxRoadDistance float64 `json:"max_road_distance,omitempty"`
	Priority        int     `json:"priority,omitempty"`
}

// NewAsset constructs an unplaced asset. It fails on non-positive
// dimensions or a declared area inconsistent with the dimensions.
func NewAsset(id, name string, typ AssetType, width, length float64, ov Overrides) (*Asset, error) {
	if width <= 0 || length <= 0 {
		return nil, fmt.Errorf("asset %s: dimensions must be positive, got %gx%g", id, width, length)
	}
	area := width * length
	if ov.Area > 0 && math.Abs(ov.Area-area)/area > areaTolerance {
		return nil, fmt.Errorf("asset %s: declared area %g inconsistent with %gx%g", id, ov.Area, width, length)
	}
	return &Asset{
		ID:              id,
		Name:            name,
		Type:            typ,
		Width:           width,
		Length:          length,
		Area:            area,
		MinSetback:      ov.MinSetback,
		MinSpacing:      ov.MinSpacing,
		MaxSlope:        ov.MaxSlope,
		MinRoadDistance: ov.MinRoadDistance,
		MaxRoadDistance: ov.MaxRoadDistance,
		Priority:        ov.Priority,
	}, nil
}

// SetPosition moves the asset's centroid.
func (a *Asset) SetPosition(p geo.Point2D) {
	a.Position = p
}

// SetRotation sets the rotation, normalized to [0,360).
func (a *Asset) SetRotation(deg float64) {
	a.Rotation = geo.NormalizeDegrees(deg)
}

// Footprint returns the asset's rotated rectangular footprint at its
// current position.
func (a *Asset) Footprint() geo.Polygon {
	return geo.Rectangle(a.Position, a.Width, a.Length, a.Rotation)
}

// SpacingZone returns the footprint expanded outward by the asset's own
// minimum spacing override. With no override it is the plain footprint.
func (a *Asset) SpacingZone() geo.Polygon {
	return geo.InflatedRectangle(a.Position, a.Width, a.Length, a.Rotation, a.MinSpacing)
}

// BoundingBox returns the axis-aligned bounding box of the footprint.
func (a *Asset) BoundingBox() (geo.Point2D, geo.Point2D) {
	return a.Footprint().BoundingBox()
}

// Clone returns an independent copy of the asset.
func (a *Asset) Clone() *Asset {
	c := *a
	return &c
}
