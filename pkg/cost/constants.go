package cost

// Unit cost constants for the planning-stage estimate.
// These are baseline values; refine per project.
const (
	SitePrepCostPerM2 = 12.0   // $/m² clearing and grading
	RoadCostPerM      = 1000.0 // $/m access road
	UtilityCostPerM   = 700.0  // $/m trenched services along roads

	BuildingCostPerM2      = 1800.0 // $/m² pad, enclosed structure
	StructureCostPerM2     = 900.0  // $/m² pad, open structure
	StorageTankCostPerM2   = 450.0  // $/m² pad incl. containment
	UtilityPadCostPerM2    = 350.0  // $/m² pad
	EquipmentYardCostPerM2 = 90.0   // $/m² compacted surface
	ParkingCostPerM2       = 60.0   // $/m² paved surface
	LandscapeCostPerM2     = 25.0   // $/m² planted area
	DefaultPadCostPerM2    = 120.0  // $/m² for unclassified assets

	ContingencyRate = 0.15 // fraction of direct cost
)
