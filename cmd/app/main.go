package main

import (
	"flag"
	"log"
	"os"

	"QuantPro/internal/di"
	"QuantPro/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s upstream=%s cache=%t archive=%t",
		cfg.Environment, cfg.Upstream.BaseURL, cfg.Cache.Enabled, cfg.Archive.Enabled)

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
