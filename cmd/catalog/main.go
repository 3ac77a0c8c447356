package main

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"MiniCatalog/internal/catalog"
	"MiniCatalog/internal/config"
	"MiniCatalog/pkg/kit"
)

func main() {
	service := "catalog"
	cfg := config.Load()

	log := kit.NewLogger(service, cfg.LogLevel)
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	assets, err := catalog.NewAssetStore(cfg.UploadDir, cfg.PublicBaseURL)
	if err != nil {
		log.Fatal("init asset store failed", zap.Error(err), zap.String("dir", cfg.UploadDir))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := &catalog.Server{
		Store:          catalog.NewStore(),
		Assets:         assets,
		Metrics:        catalog.NewMetrics(reg),
		Log:            log,
		MaxUploadBytes: cfg.MaxUploadBytes,
		CreateLimiter:  kit.NewIPRateLimiter(cfg.CreateLimitPerMin, time.Minute),
	}

	h := catalog.NewHandler(s, catalog.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: cfg.MetricsEnabled,
		MetricsToken:   cfg.MetricsToken,
	})

	if cfg.MetricsEnabled && cfg.MetricsToken == "" {
		log.Warn("METRICS_TOKEN is empty, /metrics will refuse all requests")
	}

	if err := kit.RunHTTPServer(cfg.Addr(), h, log, cfg.ShutdownTimeout); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}
