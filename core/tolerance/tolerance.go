// Package tolerance maps heterogeneous tolerance descriptors to normalized
// (band, category) pairs and their cost multipliers.
package tolerance

// Band is a normalized tolerance tier.
type Band string

const (
	BandCoarse         Band = "coarse"
	BandMedium         Band = "medium"
	BandFine           Band = "fine"
	BandPrecision      Band = "precision"
	BandUltraPrecision Band = "ultra_precision"
)

// Category is the kind of dimension being toleranced.
type Category string

const (
	CategoryLinear          Category = "linear"
	CategoryAngular         Category = "angular"
	CategoryFlatness        Category = "flatness"
	CategoryParallelism     Category = "parallelism"
	CategoryConcentricity   Category = "concentricity"
	CategoryRunout          Category = "runout"
	CategoryProfile         Category = "profile"
	CategorySurfaceFinish   Category = "surface_finish"
)

// CostMapping holds the multipliers attached to one (band, category) pair.
// The table is created at process start and never mutated.
type CostMapping struct {
	Band                 Band
	Category             Category
	BaseMultiplier       float64
	SetupMultiplier      float64
	InspectionMultiplier float64
}

// CostMappings is the fixed multiplier table.
var CostMappings = []CostMapping{
	{BandCoarse, CategoryLinear, 1.00, 1.00, 1.00},
	{BandMedium, CategoryLinear, 1.10, 1.05, 1.10},
	{BandFine, CategoryLinear, 1.30, 1.15, 1.30},
	{BandPrecision, CategoryLinear, 1.80, 1.40, 1.80},
	{BandUltraPrecision, CategoryLinear, 2.50, 2.00, 3.00},

	{BandCoarse, CategoryAngular, 1.00, 1.00, 1.00},
	{BandMedium, CategoryAngular, 1.15, 1.10, 1.20},
	{BandFine, CategoryAngular, 1.40, 1.20, 1.50},
	{BandPrecision, CategoryAngular, 2.00, 1.50, 2.20},
	{BandUltraPrecision, CategoryAngular, 3.00, 2.50, 4.00},

	{BandCoarse, CategoryFlatness, 1.05, 1.02, 1.10},
	{BandMedium, CategoryFlatness, 1.20, 1.10, 1.30},
	{BandFine, CategoryFlatness, 1.50, 1.30, 1.80},
	{BandPrecision, CategoryFlatness, 2.20, 1.80, 2.50},
	{BandUltraPrecision, CategoryFlatness, 3.50, 2.80, 5.00},

	{BandCoarse, CategoryParallelism, 1.10, 1.05, 1.20},
	{BandMedium, CategoryParallelism, 1.25, 1.15, 1.40},
	{BandFine, CategoryParallelism, 1.60, 1.30, 1.90},
	{BandPrecision, CategoryParallelism, 2.30, 1.90, 2.80},
	{BandUltraPrecision, CategoryParallelism, 3.80, 3.00, 6.00},

	{BandCoarse, CategoryConcentricity, 1.15, 1.10, 1.30},
	{BandMedium, CategoryConcentricity, 1.35, 1.20, 1.60},
	{BandFine, CategoryConcentricity, 1.80, 1.40, 2.20},
	{BandPrecision, CategoryConcentricity, 2.60, 2.10, 3.50},
	{BandUltraPrecision, CategoryConcentricity, 4.20, 3.50, 7.00},

	{BandCoarse, CategoryRunout, 1.20, 1.15, 1.40},
	{BandMedium, CategoryRunout, 1.40, 1.25, 1.70},
	{BandFine, CategoryRunout, 1.90, 1.50, 2.40},
	{BandPrecision, CategoryRunout, 2.80, 2.30, 3.80},
	{BandUltraPrecision, CategoryRunout, 4.50, 3.80, 8.00},

	{BandCoarse, CategoryProfile, 1.10, 1.05, 1.20},
	{BandMedium, CategoryProfile, 1.30, 1.20, 1.50},
	{BandFine, CategoryProfile, 1.70, 1.40, 2.10},
	{BandPrecision, CategoryProfile, 2.40, 2.00, 3.20},
	{BandUltraPrecision, CategoryProfile, 4.00, 3.20, 6.50},

	{BandCoarse, CategorySurfaceFinish, 1.00, 1.00, 1.00},
	{BandMedium, CategorySurfaceFinish, 1.05, 1.02, 1.10},
	{BandFine, CategorySurfaceFinish, 1.15, 1.05, 1.30},
	{BandPrecision, CategorySurfaceFinish, 1.30, 1.10, 1.80},
	{BandUltraPrecision, CategorySurfaceFinish, 1.60, 1.20, 2.50},
}

// ISOClassToBand maps ISO/ANSI class ids to bands.
var ISOClassToBand = map[string]Band{
	"ISO2768-c":         BandCoarse,
	"ISO2768-m":         BandMedium,
	"ISO2768-f":         BandFine,
	"ASMEB89-general":   BandMedium,
	"ASMEB89-precision": BandPrecision,
	"ASMEB89-ultra":     BandUltraPrecision,
}

// ClassNameToBand maps free-text class names to bands.
var ClassNameToBand = map[string]Band{
	"standard":  BandMedium,
	"loose":     BandCoarse,
	"fine":      BandFine,
	"tight":     BandPrecision,
	"precision": BandPrecision,
	"high":      BandPrecision,
	"critical":  BandUltraPrecision,
	"custom":    BandFine,
}

// IDToBand maps catalog tolerance ids to bands.
var IDToBand = map[string]Band{
	"iso-2768-c":    BandCoarse,
	"iso-2768-m":    BandMedium,
	"iso-2768-f":    BandFine,
	"precision-001": BandPrecision,
	"precision-005": BandUltraPrecision,
	"ansi b4.1":     BandPrecision,
	"ansi-b4.1":     BandPrecision,
	"standard":      BandMedium,
	"std":           BandMedium,
	"loose":         BandCoarse,
	"tight":         BandPrecision,
	"tighten":       BandPrecision,
	"critical":      BandUltraPrecision,
}

// FeatureMultipliers scales the band multipliers by toleranced feature kind.
var FeatureMultipliers = map[string]float64{
	"hole":    1.20,
	"slot":    1.10,
	"pocket":  1.15,
	"boss":    1.10,
	"surface": 1.00,
	"thread":  1.30,
	"gear":    1.40,
	"keyway":  1.25,
}

// featureCategories maps toleranced feature kinds to a default category.
var featureCategories = map[string]Category{
	"hole":    CategoryLinear,
	"holes":   CategoryLinear,
	"pocket":  CategoryLinear,
	"pockets": CategoryLinear,
	"slot":    CategoryLinear,
	"slots":   CategoryLinear,
	"thread":  CategoryLinear,
	"threads": CategoryLinear,
	"face":    CategoryFlatness,
	"faces":   CategoryFlatness,
	"surface": CategoryFlatness,
	"bend":    CategoryParallelism,
	"bends":   CategoryParallelism,
}

// BandFromMicrometers maps a numeric tolerance value in µm to a band using
// the threshold ladder: ≥100 coarse, ≥50 medium, ≥10 fine, ≥1 precision,
// else ultra-precision.
func BandFromMicrometers(valueUm float64) Band {
	switch {
	case valueUm >= 100:
		return BandCoarse
	case valueUm >= 50:
		return BandMedium
	case valueUm >= 10:
		return BandFine
	case valueUm >= 1:
		return BandPrecision
	default:
		return BandUltraPrecision
	}
}

// MappingFor returns the table entry for an exact (band, category) pair.
func MappingFor(band Band, category Category) (CostMapping, bool) {
	for _, m := range CostMappings {
		if m.Band == band && m.Category == category {
			return m, true
		}
	}
	return CostMapping{}, false
}

// FeatureMultiplier returns the multiplier for a toleranced feature kind,
// defaulting to 1.
func FeatureMultiplier(featureCategory string) float64 {
	if m, ok := FeatureMultipliers[featureCategory]; ok {
		return m
	}
	return 1.0
}
