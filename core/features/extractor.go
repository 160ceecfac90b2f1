// Package features - heuristic feature extraction
package features

import (
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"part-cost/core/hashing"
	"part-cost/core/types"
)

const (
	extractionMethod  = "geometric_analysis"
	extractionVersion = "1.0.0"

	// confidenceScore is a fixed constant: the heuristics carry no per-part
	// confidence model.
	confidenceScore = 0.85
)

// Config tunes the extraction heuristics.
type Config struct {
	// MinHoleDiameter is the smallest hole diameter to report (mm)
	MinHoleDiameter float64

	// ThreadDetection enables thread inference on turned parts
	ThreadDetection bool

	// UndercutDetection enables undercut inference
	UndercutDetection bool
}

// DefaultConfig returns the standard heuristic tuning.
func DefaultConfig() Config {
	return Config{
		MinHoleDiameter:   1.0,
		ThreadDetection:   true,
		UndercutDetection: true,
	}
}

// Extractor infers manufacturing features from geometry summaries. Feature
// placement uses a generator seeded from the input, so identical inputs
// yield identical features.
type Extractor struct {
	cfg Config
}

// NewExtractor creates an extractor with the default configuration.
func NewExtractor() *Extractor {
	return &Extractor{cfg: DefaultConfig()}
}

// NewExtractorWithConfig creates an extractor with a custom configuration.
func NewExtractorWithConfig(cfg Config) *Extractor {
	return &Extractor{cfg: cfg}
}

// commonHoleSizes is the ladder of common drill diameters in mm.
var commonHoleSizes = []float64{3, 5, 8, 10, 12, 16, 20}

// Extract runs the full heuristic pass over one geometry.
func (e *Extractor) Extract(geom types.Geometry, materialCode string, process types.ProcessCode) (*ExtractionResult, error) {
	start := time.Now()

	rng := seededRand(geom, materialCode, process)
	feats := e.analyze(geom, materialCode, process, rng)
	violations := evaluateDFM(feats)

	counts := make(map[Type]int)
	totalRemoval := 0.0
	for _, f := range feats {
		counts[f.Type]++
		totalRemoval += f.MaterialRemoval
	}

	return &ExtractionResult{
		Features: feats,
		Summary: Summary{
			TotalFeatures:        len(feats),
			FeatureCounts:        counts,
			TotalMaterialRemoval: totalRemoval,
			ComplexityScore:      complexityScore(feats, geom),
			DFMViolations:        violations,
		},
		Metadata: Metadata{
			Method:           extractionMethod,
			ConfidenceScore:  confidenceScore,
			ProcessingTimeMS: float64(time.Since(start).Microseconds()) / 1000.0,
			Version:          extractionVersion,
		},
	}, nil
}

// seededRand derives a deterministic generator from the extraction input.
func seededRand(geom types.Geometry, materialCode string, process types.ProcessCode) *rand.Rand {
	h := hashing.Hash(struct {
		Geometry types.Geometry    `json:"geometry"`
		Material string            `json:"material"`
		Process  types.ProcessCode `json:"process"`
	}{geom, materialCode, process})

	seed, err := strconv.ParseUint(h[:16], 16, 64)
	if err != nil {
		seed = 1
	}
	return rand.New(rand.NewSource(int64(seed)))
}

func (e *Extractor) analyze(geom types.Geometry, materialCode string, process types.ProcessCode, rng *rand.Rand) []Properties {
	var feats []Properties

	proc := string(process)
	if strings.Contains(proc, "MILL") || strings.Contains(proc, "TURN") {
		feats = append(feats, e.detectHoles(geom, materialCode, rng)...)
	}

	feats = append(feats, detectPockets(geom, rng)...)
	feats = append(feats, detectBosses(geom, rng)...)
	feats = append(feats, detectThinWalls(geom)...)

	if e.cfg.ThreadDetection && strings.Contains(proc, "TURN") {
		feats = append(feats, detectThreads(geom)...)
	}
	if e.cfg.UndercutDetection {
		feats = append(feats, detectUndercuts(geom)...)
	}

	return feats
}

func (e *Extractor) detectHoles(geom types.Geometry, materialCode string, rng *rand.Rand) []Properties {
	ratio := geom.AreaMm2 / geom.VolumeMm3

	count := 0
	switch {
	case ratio > 0.5:
		count = 3
	case ratio > 0.2:
		count = 2
	case ratio > 0.1:
		count = 1
	}
	if geom.VolumeMm3 < 1000 && count > 1 {
		count = 1
	}

	var holes []Properties
	for i := 0; i < count; i++ {
		diameter := math.Min(commonHoleSizes[i%len(commonHoleSizes)], geom.MinDim()*0.8)
		if diameter < e.cfg.MinHoleDiameter {
			continue
		}
		depth := holeDepth(geom, rng)

		holes = append(holes, Properties{
			Type: TypeHole,
			Location: Location{Position: [3]float64{
				(rng.Float64() - 0.5) * geom.BboxMm[0] * 0.8,
				(rng.Float64() - 0.5) * geom.BboxMm[1] * 0.8,
				geom.BboxMm[2] * 0.5,
			}},
			Dimensions:          Dimensions{Diameter: diameter, Depth: depth},
			MaterialRemoval:     math.Pi * math.Pow(diameter/2, 2) * depth,
			MachiningDifficulty: holeDifficulty(diameter, depth, materialCode),
		})
	}
	return holes
}

// holeDepth picks a through hole or a blind hole at 30-70% of the part.
func holeDepth(geom types.Geometry, rng *rand.Rand) float64 {
	maxDepth := geom.MaxDim()
	if rng.Float64() > 0.3 {
		return maxDepth
	}
	return maxDepth * (0.3 + rng.Float64()*0.4)
}

func holeDifficulty(diameter, depth float64, materialCode string) float64 {
	difficulty := 3.0

	if diameter < 3 {
		difficulty += 3
	} else if diameter < 6 {
		difficulty += 1
	}

	d := diameter
	if d <= 0 {
		d = 1
	}
	depthRatio := depth / d
	if depthRatio > 10 {
		difficulty += 4
	} else if depthRatio > 5 {
		difficulty += 2
	}

	if strings.Contains(materialCode, "titanium") || strings.Contains(materialCode, "stainless") {
		difficulty += 1
	}

	return math.Min(difficulty, 10)
}

func detectPockets(geom types.Geometry, rng *rand.Rand) []Properties {
	bboxVolume := geom.BboxVolume()
	if bboxVolume <= 0 {
		return nil
	}
	fillRatio := geom.VolumeMm3 / bboxVolume
	if fillRatio >= 0.7 {
		return nil
	}

	count := int(math.Floor((1 - fillRatio) * 2))
	if count < 1 {
		count = 1
	}

	var pockets []Properties
	for i := 0; i < count; i++ {
		width := geom.BboxMm[0] * 0.25
		length := geom.BboxMm[1] * 0.25
		depth := geom.BboxMm[2] * 0.15
		pockets = append(pockets, Properties{
			Type: TypePocket,
			Location: Location{Position: [3]float64{
				(rng.Float64() - 0.5) * geom.BboxMm[0] * 0.6,
				(rng.Float64() - 0.5) * geom.BboxMm[1] * 0.6,
				geom.BboxMm[2] * 0.3,
			}},
			Dimensions:          Dimensions{Width: width, Length: length, Depth: depth},
			MaterialRemoval:     width * length * depth,
			MachiningDifficulty: 4,
		})
	}
	return pockets
}

func detectBosses(geom types.Geometry, rng *rand.Rand) []Properties {
	footprint := geom.BboxMm[0] * geom.BboxMm[1]
	if footprint <= 0 {
		return nil
	}
	areaRatio := geom.AreaMm2 / footprint
	if areaRatio <= 2.0 {
		return nil
	}

	count := int(math.Floor(areaRatio - 1.5))
	var bosses []Properties
	for i := 0; i < count; i++ {
		bosses = append(bosses, Properties{
			Type: TypeBoss,
			Location: Location{Position: [3]float64{
				(rng.Float64() - 0.5) * geom.BboxMm[0] * 0.7,
				(rng.Float64() - 0.5) * geom.BboxMm[1] * 0.7,
				0,
			}},
			Dimensions: Dimensions{
				Diameter: geom.BboxMm[0] * 0.12,
				Height:   geom.BboxMm[2] * 0.25,
			},
			// Bosses add material, they do not remove it
			MaterialRemoval:     0,
			MachiningDifficulty: 3,
		})
	}
	return bosses
}

func detectThinWalls(geom types.Geometry) []Properties {
	minDim := geom.MinDim()
	if minDim >= 2.0 {
		return nil
	}

	difficulty := 5.0
	var issues []string
	if minDim < 1.0 {
		difficulty = 8
		issues = []string{"wall_too_thin"}
	}

	return []Properties{{
		Type:     TypeThinWall,
		Location: Location{Position: [3]float64{0, 0, geom.BboxMm[2] / 2}},
		Dimensions: Dimensions{
			Height: minDim,
			Width:  geom.MaxDim(),
			Length: geom.BboxMm[1],
		},
		MachiningDifficulty: difficulty,
		DFMIssues:           issues,
	}}
}

func detectThreads(geom types.Geometry) []Properties {
	x, y, z := geom.BboxMm[0], geom.BboxMm[1], geom.BboxMm[2]

	// Elongated, roughly cylindrical stock with a usable thread diameter.
	if math.Abs(x-y) > 1e-9 || z <= x*3 || x <= 10 {
		return nil
	}

	diameter := math.Min(x, y) * 0.9
	length := z * 0.15
	return []Properties{{
		Type:                TypeThread,
		Location:            Location{Position: [3]float64{0, 0, z * 0.8}},
		Dimensions:          Dimensions{Diameter: diameter, Length: length},
		MaterialRemoval:     math.Pi * math.Pow(diameter/2, 2) * length * 0.1,
		MachiningDifficulty: 6,
	}}
}

func detectUndercuts(geom types.Geometry) []Properties {
	denom := geom.BboxMm[0] * geom.BboxMm[1] * 2
	if denom <= 0 {
		return nil
	}
	if geom.AreaMm2/denom <= 2.0 {
		return nil
	}

	return []Properties{{
		Type:                TypeUndercut,
		Location:            Location{Position: [3]float64{0, 0, geom.BboxMm[2] * 0.5}},
		Dimensions:          Dimensions{Radius: geom.MinDim() * 0.2},
		MachiningDifficulty: 9,
		DFMIssues:           []string{"undercut_present"},
	}}
}

// evaluateDFM runs the fixed rule table and returns deduplicated
// "<severity>: <message>" strings.
func evaluateDFM(feats []Properties) []string {
	violations := []string{}
	seen := make(map[string]bool)

	for i := range feats {
		for _, rule := range DFMRules {
			if rule.FeatureType != feats[i].Type {
				continue
			}
			if !rule.Condition(&feats[i]) {
				continue
			}
			v := string(rule.Severity) + ": " + rule.Message
			if !seen[v] {
				seen[v] = true
				violations = append(violations, v)
			}
		}
	}
	return violations
}

// complexityScore combines feature count, average difficulty, aspect ratio,
// and material removal into a [1,10] score.
func complexityScore(feats []Properties, geom types.Geometry) float64 {
	score := 1.0
	score += float64(len(feats)) * 0.5

	if len(feats) > 0 {
		sum := 0.0
		removal := 0.0
		for _, f := range feats {
			sum += f.MachiningDifficulty
			removal += f.MaterialRemoval
		}
		score += (sum / float64(len(feats))) * 0.3
		if geom.VolumeMm3 > 0 {
			score += math.Min((removal/geom.VolumeMm3)*5, 3)
		}
	}

	if geom.MinDim() > 0 {
		aspect := geom.MaxDim() / geom.MinDim()
		score += math.Min(aspect*0.2, 2)
	}

	return math.Min(math.Max(score, 1), 10)
}
