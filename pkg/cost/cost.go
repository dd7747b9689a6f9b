package cost

import (
	"github.com/Rhoahndur/siteplanner/pkg/geo"
	"github.com/Rhoahndur/siteplanner/pkg/objective"
	"github.com/Rhoahndur/siteplanner/pkg/site"
)

// Breakdown itemizes direct costs by category.
type Breakdown struct {
	SitePrep    float64 `json:"site_prep"`
	Pads        float64 `json:"pads"`
	Roads       float64 `json:"roads"`
	Utilities   float64 `json:"utilities"`
	Contingency float64 `json:"contingency"`
	Total       float64 `json:"total"`
}

// Report is the complete cost output for one layout.
type Report struct {
	Breakdown   Breakdown          `json:"breakdown"`
	PerAsset    map[string]float64 `json:"per_asset"`
	RoadLengthM float64            `json:"road_length_m"`
}

// Estimate computes a planning-stage cost for a layout: per-asset pad
// construction, clearing the buildable area, and roads plus trenched
// utilities along the internal road network proxy.
func Estimate(c *site.ConstraintModel, s *site.Solution, roadEntry geo.Point2D) *Report {
	report := &Report{PerAsset: make(map[string]float64, len(s.Assets))}

	for _, a := range s.Assets {
		padCost := a.Area * padCostPerM2(a.Type)
		report.PerAsset[a.ID] = padCost
		report.Breakdown.Pads += padCost
	}

	report.Breakdown.SitePrep = c.BuildableArea() * SitePrepCostPerM2

	report.RoadLengthM = objective.RoadNetworkLength(roadEntry, s)
	report.Breakdown.Roads = report.RoadLengthM * RoadCostPerM
	report.Breakdown.Utilities = report.RoadLengthM * UtilityCostPerM

	direct := report.Breakdown.SitePrep + report.Breakdown.Pads +
		report.Breakdown.Roads + report.Breakdown.Utilities
	report.Breakdown.Contingency = direct * ContingencyRate
	report.Breakdown.Total = direct + report.Breakdown.Contingency
	return report
}

// padCostPerM2 returns the unit construction cost for an asset type.
func padCostPerM2(typ site.AssetType) float64 {
	switch typ {
	case site.TypeBuilding:
		return BuildingCostPerM2
	case site.TypeStructure:
		return StructureCostPerM2
	case site.TypeStorageTank:
		return StorageTankCostPerM2
	case site.TypeUtility:
		return UtilityPadCostPerM2
	case site.TypeEquipmentYard:
		return EquipmentYardCostPerM2
	case site.TypeParking:
		return ParkingCostPerM2
	case site.TypeLandscape:
		return LandscapeCostPerM2
	default:
		return DefaultPadCostPerM2
	}
}
