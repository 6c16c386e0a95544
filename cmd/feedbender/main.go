package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"feedbender/internal/cache"
	"feedbender/internal/config"
	"feedbender/internal/feed"
	"feedbender/internal/server"
	"feedbender/internal/sources"
)

var (
	// Version will be set during build
	Version = "dev"

	// Command line flags
	port       = flag.Int("port", 0, "Port to run the server on (default: 8000 or FEEDBENDER_PORT)")
	dbPath     = flag.String("db", "", "Path to cache database file (default: data/feedbender.db or FEEDBENDER_DB_PATH)")
	staticPath = flag.String("static", "", "Path to static files (default: static or FEEDBENDER_STATIC_PATH)")
	baseURL    = flag.String("base-url", "", "Public base URL used in feed self links (default: FEEDBENDER_BASE_URL)")
	configPath = flag.String("config", "", "Optional YAML config file, applied over environment settings")
	version    = flag.Bool("version", false, "Print version information")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("feedbender version %s\n", Version)
		return
	}

	logger := log.New(os.Stdout, "feedbender: ", log.LstdFlags|log.Lshortfile)

	// Get base configuration from environment
	cfg := config.GetConfig()

	if *configPath != "" {
		var err error
		cfg, err = config.LoadFile(cfg, *configPath)
		if err != nil {
			logger.Fatalf("Failed to load config file: %v", err)
		}
	}

	// Override with command line flags if provided
	if *port > 0 {
		cfg.Port = *port
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *staticPath != "" {
		cfg.StaticPath = *staticPath
	}
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}

	if cfg.UserAgent == "" {
		cfg.UserAgent = "Feedbender/1.0 (+" + cfg.BaseURL + ")"
	}

	catalogue := sources.All()
	sources.ApplyOverrides(catalogue, cfg.Sources)

	logger.Printf("Starting feedbender v%s", Version)
	logger.Printf("Port: %d", cfg.Port)
	logger.Printf("Cache database: %s", cfg.DBPath)
	logger.Printf("Base URL: %s", cfg.BaseURL)
	logger.Printf("Sources: %d", len(catalogue))

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		logger.Fatalf("Failed to create database directory: %v", err)
	}

	store, err := cache.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		logger.Fatalf("Failed to open cache database: %v", err)
	}
	defer store.Close()

	fetcher := feed.NewFetcher(logger, cfg.UserAgent, feed.DefaultFetchTimeout)
	pipeline := feed.NewPipeline(store, fetcher, logger)

	srv := server.NewServer(logger, pipeline, catalogue, cfg)
	if err := srv.Start(cfg.GetAddress()); err != nil {
		logger.Fatalf("Server error: %v", err)
	}
}
