package pgn

// Category groups PGNs into the broad telemetry domains used for
// fan-out routing and collection naming.
type Category string

const (
	CategoryHeartbeat          Category = "heartbeat"
	CategoryEngine             Category = "engine"
	CategoryFuel               Category = "fuel"
	CategoryNavigation         Category = "navigation"
	CategoryEnergyDistribution Category = "energy_distribution"
	CategorySteering           Category = "steering"
	CategoryBattery            Category = "battery"
	CategoryProduct            Category = "product"
	CategoryUnknown            Category = "unknown"
)

// categoryByPGN is the static PGN-to-Category map. Every PGN recognized
// by the table in table.go has exactly one entry here; PGNs absent from
// this map classify as CategoryUnknown.
var categoryByPGN = map[uint32]Category{
	126993: CategoryHeartbeat,
	127488: CategoryEngine,
	127489: CategoryEngine,
	127497: CategoryEngine,
	127505: CategoryFuel,
	127250: CategoryNavigation,
	127257: CategoryNavigation,
	127258: CategoryNavigation,
	126992: CategoryNavigation,
	129025: CategoryNavigation,
	129026: CategoryNavigation,
	129029: CategoryNavigation,
	129283: CategoryNavigation,
	129284: CategoryNavigation,
	129539: CategoryNavigation,
	129540: CategoryNavigation,
	127500: CategoryEnergyDistribution,
	127501: CategoryEnergyDistribution,
	127751: CategoryEnergyDistribution,
	127245: CategorySteering,
	127506: CategoryBattery,
	127508: CategoryBattery,
	65361:  CategoryProduct,
	60928:  CategoryProduct,
	59392:  CategoryProduct,
}

// collectionByCategory names the storage collection each category is
// forwarded to in store_can_data COMMAND messages: the title-cased
// category name, except Heartbeat ("NodeHeartbeat") and Unknown
// ("Unknown").
var collectionByCategory = map[Category]string{
	CategoryHeartbeat:          "NodeHeartbeat",
	CategoryEngine:             "Engine",
	CategoryFuel:               "Fuel",
	CategoryNavigation:         "Navigation",
	CategoryEnergyDistribution: "EnergyDistribution",
	CategorySteering:           "Steering",
	CategoryBattery:            "Battery",
	CategoryProduct:            "Product",
	CategoryUnknown:            "Unknown",
}

// Classify returns the Category a PGN belongs to, or CategoryUnknown if
// the PGN is not in the recognized table.
func Classify(pgnNumber uint32) Category {
	if c, ok := categoryByPGN[pgnNumber]; ok {
		return c
	}
	return CategoryUnknown
}

// CollectionName returns the storage collection name for a category.
func CollectionName(c Category) string {
	if name, ok := collectionByCategory[c]; ok {
		return name
	}
	return collectionByCategory[CategoryUnknown]
}
