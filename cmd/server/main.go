// Package main - entry point for the part-cost pricing server
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"part-cost/adapters/cache"
	"part-cost/api"
	"part-cost/core/costbook"
	"part-cost/core/engine"
	"part-cost/internal/config"
	"part-cost/internal/logging"
)

const version = "1.0.0"

func main() {
	cfgPath := flag.String("config", "", "config file path")
	addr := flag.String("addr", "", "listen address (overrides config)")
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}
	config.Set(cfg)

	if err := logging.Initialize(cfg.Logging); err != nil {
		log.Fatalf("initialize logging: %v", err)
	}
	defer logging.Sync()

	book := costbook.Default()
	if cfg.CostBook.Path != "" {
		loaded, err := costbook.LoadHCL(cfg.CostBook.Path)
		if err != nil {
			log.Fatalf("load cost book: %v", err)
		}
		book = loaded
	}

	var adapter cache.Adapter = cache.NewNoop()
	if cfg.Cache.Enabled {
		switch cfg.Cache.Backend {
		case "sqlite":
			s, err := cache.NewSQLite(cfg.Cache.DatabasePath)
			if err != nil {
				log.Fatalf("open cache: %v", err)
			}
			adapter = s
		default:
			adapter = cache.NewMemory()
		}
	}
	defer adapter.Close()

	ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	orch := engine.New(book, engine.WithCache(adapter, ttl))
	server := api.NewServer(orch, version)

	listen := cfg.Server.ListenAddr
	if *addr != "" {
		listen = *addr
	}

	fmt.Printf("part-cost pricing server v%s listening on %s\n", version, listen)
	if err := http.ListenAndServe(listen, server); err != nil {
		log.Fatal(err)
	}
}
