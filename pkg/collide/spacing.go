package collide

import "github.com/Rhoahndur/siteplanner/pkg/site"

// typePair is an unordered asset-type pair.
type typePair struct {
	a, b site.AssetType
}

// defaultSpacing holds default separation distances in meters for asset
// type pairs. Lookups check both orderings, so each pair is stored once.
var defaultSpacing = map[typePair]float64{
	{site.TypeBuilding, site.TypeBuilding}:         30,
	{site.TypeBuilding, site.TypeStorageTank}:      15,
	{site.TypeBuilding, site.TypeEquipmentYard}:    10,
	{site.TypeBuilding, site.TypeParking}:          5,
	{site.TypeBuilding, site.TypeUtility}:          5,
	{site.TypeStorageTank, site.TypeStorageTank}:   10,
	{site.TypeStorageTank, site.TypeEquipmentYard}: 10,
	{site.TypeStorageTank, site.TypeUtility}:       8,
	{site.TypeEquipmentYard, site.TypeEquipmentYard}: 5,
	{site.TypeParking, site.TypeParking}:           2,
	{site.TypeUtility, site.TypeUtility}:           3,
}

// typePairSpacing returns the default spacing for a type pair, checking
// both orderings. Zero when the pair has no default.
func typePairSpacing(a, b site.AssetType) float64 {
	if d, ok := defaultSpacing[typePair{a, b}]; ok {
		return d
	}
	if d, ok := defaultSpacing[typePair{b, a}]; ok {
		return d
	}
	return 0
}

// RequiredSpacing returns the separation distance two assets must keep.
// Per-asset overrides win over the type-pair default; when both assets
// carry an override the larger one applies, keeping the rule symmetric.
// The site-wide minimum spacing acts as a floor in every case.
func (e *Engine) RequiredSpacing(a, b *site.Asset) float64 {
	var required float64
	switch {
	case a.MinSpacing > 0 && b.MinSpacing > 0:
		required = max(a.MinSpacing, b.MinSpacing)
	case a.MinSpacing > 0:
		required = a.MinSpacing
	case b.MinSpacing > 0:
		required = b.MinSpacing
	default:
		required = typePairSpacing(a.Type, b.Type)
	}
	if e.constraints != nil && e.constraints.MinSpacing > required {
		required = e.constraints.MinSpacing
	}
	return required
}

// maxDefaultSpacing is the largest type-pair default, used to size the
// candidate search radius.
func maxDefaultSpacing() float64 {
	m := 0.0
	for _, d := range defaultSpacing {
		if d > m {
			m = d
		}
	}
	return m
}
