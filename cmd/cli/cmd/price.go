// Package cmd - price command
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"part-cost/adapters/cache"
	"part-cost/api"
	"part-cost/core/costbook"
	"part-cost/core/engine"
	"part-cost/core/types"
	"part-cost/internal/config"
)

var (
	quoteFile    string
	outputFormat string
	bookFile     string
	cacheDBPath  string

	processCode   string
	materialCode  string
	quantity      int
	volumeMm3     float64
	areaMm2       float64
	bboxSpec      string
	toleranceBand string
	finishes      []string
	leadClass     string
	riskScore     float64
	currencyCode  string
)

// priceCmd represents the price command
var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Price a quote configuration",
	Long: `Run the pricing pipeline over one quote configuration.

The quote is read from --file (JSON, same shape as the POST /price body) or
assembled from flags.

Examples:
  part-cost price --file quote.json
  part-cost price --process CNC-MILL-3AX --material aluminum_6061 --qty 10 \
    --volume 100000 --area 50000 --bbox 100,50,20 --finish anodize`,
	RunE: runPrice,
}

func init() {
	priceCmd.Flags().StringVarP(&quoteFile, "file", "f", "", "quote configuration JSON file")
	priceCmd.Flags().StringVar(&outputFormat, "format", "cli", "output format (cli, json)")
	priceCmd.Flags().StringVar(&bookFile, "book", "", "HCL cost-book file overriding the built-in tables")
	priceCmd.Flags().StringVar(&cacheDBPath, "cache-db", "", "SQLite pricing-cache path (enables the sqlite backend)")

	priceCmd.Flags().StringVar(&processCode, "process", "", "manufacturing process code")
	priceCmd.Flags().StringVar(&materialCode, "material", "", "material code")
	priceCmd.Flags().IntVar(&quantity, "qty", 1, "part quantity")
	priceCmd.Flags().Float64Var(&volumeMm3, "volume", 0, "part volume in mm³")
	priceCmd.Flags().Float64Var(&areaMm2, "area", 0, "surface area in mm²")
	priceCmd.Flags().StringVar(&bboxSpec, "bbox", "", "bounding box as x,y,z in mm")
	priceCmd.Flags().StringVar(&toleranceBand, "tolerance-band", "", "tolerance band (coarse, medium, fine, precision, ultra_precision)")
	priceCmd.Flags().StringSliceVar(&finishes, "finish", nil, "finish codes (repeatable)")
	priceCmd.Flags().StringVar(&leadClass, "lead", "", "lead-time class (standard, expedited, rush)")
	priceCmd.Flags().Float64Var(&riskScore, "risk", 0, "DFM risk score in [0,1]")
	priceCmd.Flags().StringVar(&currencyCode, "currency", "USD", "quote currency (USD, EUR, INR)")
}

func runPrice(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	quote, err := loadQuote()
	if err != nil {
		return err
	}

	orch, closeFn, err := buildOrchestrator()
	if err != nil {
		return err
	}
	defer closeFn()

	result, err := orch.CalculatePrice(ctx, quote)
	if err != nil {
		return fmt.Errorf("pricing failed: %w", err)
	}

	switch outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(api.PriceResponse{QuoteID: quote.ID, Result: result})
	default:
		printResult(quote, result)
		return nil
	}
}

// loadQuote reads the quote from --file or assembles it from flags.
func loadQuote() (*types.QuoteConfig, error) {
	if quoteFile != "" {
		data, err := os.ReadFile(quoteFile)
		if err != nil {
			return nil, fmt.Errorf("read quote file: %w", err)
		}
		var req api.PriceRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, fmt.Errorf("parse quote file: %w", err)
		}
		if req.ID == "" {
			req.ID = uuid.NewString()
		}
		return req.ToQuote(), nil
	}

	if processCode == "" || materialCode == "" {
		return nil, fmt.Errorf("either --file or --process and --material are required")
	}

	bbox, err := parseBbox(bboxSpec)
	if err != nil {
		return nil, err
	}

	quote := &types.QuoteConfig{
		ID:           uuid.NewString(),
		ProcessCode:  types.ProcessCode(processCode),
		MaterialCode: materialCode,
		Quantity:     quantity,
		Geometry: types.Geometry{
			VolumeMm3: volumeMm3,
			AreaMm2:   areaMm2,
			BboxMm:    bbox,
		},
		Finishes:  finishes,
		LeadClass: leadClass,
		RiskScore: riskScore,
		Currency:  types.Currency(currencyCode),
	}
	if toleranceBand != "" {
		quote.Tolerance = &types.ToleranceSpec{
			Source: types.ToleranceSourceBand,
			Band:   toleranceBand,
		}
	}
	return quote, nil
}

func parseBbox(spec string) ([3]float64, error) {
	var bbox [3]float64
	if spec == "" {
		return bbox, nil
	}
	parts := strings.Split(spec, ",")
	if len(parts) != 3 {
		return bbox, fmt.Errorf("bbox must have exactly 3 dimensions, got %d", len(parts))
	}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return bbox, fmt.Errorf("invalid bbox dimension %q: %w", p, err)
		}
		bbox[i] = v
	}
	return bbox, nil
}

// buildOrchestrator wires the cost book and cache adapter from the app
// configuration.
func buildOrchestrator() (*engine.Orchestrator, func(), error) {
	cfg := config.Get()

	bookPath := cfg.CostBook.Path
	if bookFile != "" {
		bookPath = bookFile
	}
	book := costbook.Default()
	if bookPath != "" {
		loaded, err := costbook.LoadHCL(bookPath)
		if err != nil {
			return nil, nil, fmt.Errorf("load cost book: %w", err)
		}
		book = loaded
	}

	backend := cfg.Cache.Backend
	dbPath := cfg.Cache.DatabasePath
	if cacheDBPath != "" {
		backend = "sqlite"
		dbPath = cacheDBPath
	}

	var adapter cache.Adapter = cache.NewNoop()
	if cfg.Cache.Enabled || cacheDBPath != "" {
		switch backend {
		case "sqlite":
			s, err := cache.NewSQLite(dbPath)
			if err != nil {
				return nil, nil, fmt.Errorf("open cache: %w", err)
			}
			adapter = s
		default:
			adapter = cache.NewMemory()
		}
	}

	ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	orch := engine.New(book, engine.WithCache(adapter, ttl))
	return orch, func() { adapter.Close() }, nil
}

func printResult(quote *types.QuoteConfig, result *types.PricingResult) {
	fmt.Printf("Quote %s\n", quote.ID)
	fmt.Printf("%s × %d, %s\n\n", quote.ProcessCode, quote.Quantity, quote.MaterialCode)

	for _, item := range result.Breakdown {
		fmt.Printf("  %-28s %12s %s\n", item.Code, item.Amount.StringFixed(2), item.Label)
	}

	fmt.Printf("\n  %-28s %12s %s\n", "total", result.Total.StringFixed(2), result.Currency)
	if result.CacheHit {
		fmt.Println("  (cached)")
	}
	fmt.Printf("  computed in %.1f ms\n", result.TimingsMS["total"])
}
