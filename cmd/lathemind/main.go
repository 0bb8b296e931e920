// File path: cmd/lathemind/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/lathemind/lathemind/internal/api"
	"github.com/lathemind/lathemind/internal/catalog"
	"github.com/lathemind/lathemind/internal/common"
	"github.com/lathemind/lathemind/internal/config"
	"github.com/lathemind/lathemind/internal/generator"
	"github.com/lathemind/lathemind/internal/knowledge"
	"github.com/lathemind/lathemind/internal/llm"
	"github.com/lathemind/lathemind/internal/process"
)

func main() {
	logger := common.Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := godotenv.Load(); err != nil {
		logger.Warn("lathemind: .env file not loaded", "error", err)
	} else {
		logger.Info("lathemind: environment loaded from .env")
	}

	cfg := config.Load()

	addr := flag.String("addr", ":8080", "listen address")
	knowledgePath := flag.String("knowledge", cfg.KnowledgePath, "path to the sample knowledge base directory")
	catalogPath := flag.String("catalog", cfg.CatalogPath, "path to the SQLite generation-history database (empty disables history)")
	flag.Parse()

	if trimmed := strings.TrimSpace(*knowledgePath); trimmed != "" {
		cfg.KnowledgePath = trimmed
	}
	cfg.CatalogPath = strings.TrimSpace(*catalogPath)

	logger.Info("lathemind: startup initiated",
		"addr", *addr, "knowledge", cfg.KnowledgeAbsPath(), "cincom_model", cfg.CincomModel)

	store, err := knowledge.NewStore(cfg.KnowledgePath)
	if err != nil {
		logger.Error("lathemind: knowledge base init failed", "error", err)
		fmt.Println("knowledge base error:", err)
		os.Exit(1)
	}

	var history *catalog.Store
	if cfg.CatalogPath != "" {
		history, err = catalog.Open(cfg.CatalogPath)
		if err != nil {
			logger.Warn("lathemind: history catalog unavailable", "error", err)
			history = nil
		} else {
			defer history.Close()
		}
	}

	provider := llm.NewProvider(ctx)
	opts := []generator.Option{
		generator.WithCincomModel(cfg.CincomModel),
		generator.WithMaxSamples(cfg.MaxReferenceSamples),
	}
	if history != nil {
		opts = append(opts, generator.WithRecorder(history))
	}
	gen := generator.New(provider, store, opts...)

	server := api.NewServer(store, process.NewStore(), gen, history, cfg)

	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info("lathemind: listening", "addr", *addr, "provider", provider.Name())
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("lathemind: server stopped", "error", err)
		fmt.Println("server error:", err)
		os.Exit(1)
	}
}
