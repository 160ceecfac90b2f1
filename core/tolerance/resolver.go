// Package tolerance - resolution chain
package tolerance

import "strings"

const defaultBand = BandMedium

// Resolution is the outcome of ResolveMapping.
type Resolution struct {
	Band     Band
	Category Category
	Mapping  CostMapping
	// Source records which input resolved the band: "id", "class" or "default".
	Source string
}

// ResolveOptions are the inputs to ResolveMapping.
type ResolveOptions struct {
	// ToleranceIDs is an ordered list of catalog tolerance ids
	ToleranceIDs []string

	// ToleranceClass is a free-text class name
	ToleranceClass string

	// FeatureCategory names the toleranced feature
	FeatureCategory string

	// DefaultCategory overrides the linear default when set
	DefaultCategory Category
}

// ResolveCategory maps a feature category to a tolerance category, falling
// back to the supplied default.
func ResolveCategory(featureCategory string, def Category) Category {
	if def == "" {
		def = CategoryLinear
	}
	if featureCategory == "" {
		return def
	}
	if c, ok := featureCategories[strings.ToLower(strings.TrimSpace(featureCategory))]; ok {
		return c
	}
	return def
}

// ResolveMapping resolves a cost mapping from heterogeneous inputs. The band
// is taken from the first matching id, then the class name, then the fixed
// default. The mapping lookup degrades through (band, linear) and
// (medium, linear) to the first table entry, so resolution never fails.
func ResolveMapping(opts ResolveOptions) Resolution {
	band := Band("")
	source := "default"

	for _, id := range opts.ToleranceIDs {
		if mapped, ok := IDToBand[strings.ToLower(strings.TrimSpace(id))]; ok {
			band = mapped
			source = "id"
			break
		}
	}

	if band == "" && opts.ToleranceClass != "" {
		if mapped, ok := ClassNameToBand[strings.ToLower(strings.TrimSpace(opts.ToleranceClass))]; ok {
			band = mapped
			source = "class"
		}
	}

	if band == "" {
		band = defaultBand
	}

	category := ResolveCategory(opts.FeatureCategory, opts.DefaultCategory)

	mapping, ok := MappingFor(band, category)
	if !ok {
		mapping, ok = MappingFor(band, CategoryLinear)
	}
	if !ok {
		mapping, ok = MappingFor(defaultBand, CategoryLinear)
	}
	if !ok {
		mapping = CostMappings[0]
	}

	return Resolution{
		Band:     band,
		Category: mapping.Category,
		Mapping:  mapping,
		Source:   source,
	}
}
