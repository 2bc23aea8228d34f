package main

import (
	"flag"
	"fmt"
	"os"

	"solar-roi/internal/api"
	"solar-roi/internal/backtest"
	"solar-roi/internal/config"
	"solar-roi/internal/logger"
	"solar-roi/internal/metrics"
	"solar-roi/internal/results"

	"github.com/gin-gonic/gin"
)

func main() {
	cfgPath := flag.String("config", os.Getenv("API_CONFIG"), "Optional server config file (yaml or json)")
	flag.Parse()

	log := logger.New("api")

	cfg, err := config.LoadServer(*cfgPath)
	if err != nil {
		log.Errorf("failed to load server config: %v", err)
		os.Exit(1)
	}

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	if info, err := os.Stat(cfg.ProviderDir); err != nil || !info.IsDir() {
		log.Warnf("provider directory %s not found; preset lookups will fail", cfg.ProviderDir)
	}

	rec, err := metrics.NewRecorder()
	if err != nil {
		log.Errorf("failed to register metrics: %v", err)
		os.Exit(1)
	}
	cache := results.NewCache(cfg.CacheTTL)
	defer cache.Close()

	router := api.NewRouter(api.Deps{
		Engine:      backtest.New(logger.New("backtest")),
		Cache:       cache,
		Metrics:     rec,
		Log:         log,
		ProviderDir: cfg.ProviderDir,
		CORSOrigins: cfg.CORSOrigins,
	})

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Infof("starting API server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Errorf("server stopped: %v", err)
		os.Exit(1)
	}
}
