package main

import (
	"log"
	"net/http"

	"github.com/querylens/querylens/pkg/catalog"
	"github.com/querylens/querylens/pkg/config"
	"github.com/querylens/querylens/pkg/executor"
	"github.com/querylens/querylens/pkg/guard"
	"github.com/querylens/querylens/pkg/handlers"
	"github.com/querylens/querylens/pkg/logging"
	"github.com/querylens/querylens/pkg/orchestrator"
	"github.com/querylens/querylens/pkg/session"
	"github.com/querylens/querylens/pkg/translator"

	// Datasource adapters register themselves on import.
	_ "github.com/querylens/querylens/pkg/datasource/mssql"
	_ "github.com/querylens/querylens/pkg/datasource/postgres"
	_ "github.com/querylens/querylens/pkg/datasource/sqlite"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	tr, err := translator.New(cfg.Translator, logger)
	if err != nil {
		log.Fatalf("Failed to create translator: %v", err)
	}

	cat := catalog.NewService(logger)
	exec := executor.New(guard.New(), cfg.Query, logger)
	orch := orchestrator.New(cfg, cat, exec, tr, session.NewRegistry(), logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewPipelineHandler(orch, logger).RegisterRoutes(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	log.Printf("Starting querylens on %s (version: %s, provider: %s)", addr, cfg.Version, cfg.Translator.Provider)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
