package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Pahinithi/stock-market-chatbot/internal/adapters/filewatcher"
	"github.com/Pahinithi/stock-market-chatbot/internal/adapters/llm"
	"github.com/Pahinithi/stock-market-chatbot/internal/adapters/marketdata"
	"github.com/Pahinithi/stock-market-chatbot/internal/config"
	"github.com/Pahinithi/stock-market-chatbot/internal/domain/ports"
	"github.com/Pahinithi/stock-market-chatbot/internal/domain/usecases"
	httpapi "github.com/Pahinithi/stock-market-chatbot/internal/infrastructure/http"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] stock market chatbot starting...")

	// .env is optional; real env vars win either way.
	godotenv.Load()

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Load the dataset once; a bad source is fatal, there is no partial service.
	ds, err := marketdata.LoadCSV(cfg.Data.IndexInfo, cfg.Data.IndexData)
	if err != nil {
		log.Fatalf("[FATAL] load market data: %v", err)
	}
	log.Printf("[INFO] loaded %d indices, %d records (%d rows skipped)",
		len(ds.Indices), len(ds.Records), ds.Skipped)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Store selection
	var store ports.MarketStore
	switch cfg.Data.Store {
	case "sqlite":
		st, err := marketdata.NewSQLiteStore(cfg.Data.SQLitePath)
		if err != nil {
			log.Fatalf("[FATAL] init sqlite store: %v", err)
		}
		defer st.Close()
		if err := st.Import(ds); err != nil {
			log.Fatalf("[FATAL] import dataset: %v", err)
		}
		store = st
	default:
		store = marketdata.NewMemoryStore(ds)
	}
	log.Printf("[INFO] data store: %s", cfg.Data.Store)

	// Language backend selection
	timeout := time.Duration(cfg.LLM.TimeoutSeconds) * time.Second
	var generator ports.TextGenerator
	switch cfg.LLM.Provider {
	case "ollama":
		generator = llm.NewOllamaAdapter(cfg.LLM.BaseURL, cfg.LLM.Model, timeout)
	default:
		g, err := llm.NewGeminiAdapter(ctx, os.Getenv("GEMINI_API_KEY"), cfg.LLM.Model)
		if err != nil {
			log.Fatalf("[FATAL] init gemini adapter: %v", err)
		}
		generator = g
	}
	log.Printf("[INFO] language backend: %s", cfg.LLM.Provider)

	// Pipeline wiring
	resolver := usecases.NewResolver(store)
	builder := usecases.NewContextBuilder(store, cfg.Context.RecordsPerSymbol, cfg.Context.MaxTotalRecords)
	chat := usecases.NewChatUseCase(resolver, builder, generator, timeout)

	// The store is immutable for the process lifetime; the watcher only
	// flags that the sources changed on disk.
	if cfg.Data.Watch {
		watcher, err := filewatcher.NewFSNotifyWatcher()
		if err != nil {
			log.Printf("[WARN] init file watcher: %v", err)
		} else {
			defer watcher.Stop()
			events, err := watcher.Watch(ctx, cfg.Data.IndexInfo, cfg.Data.IndexData)
			if err != nil {
				log.Printf("[WARN] watch data files: %v", err)
			} else {
				go func() {
					for ev := range events {
						log.Printf("[WARN] %s changed on disk; restart to reload data", ev.Path)
					}
				}()
			}
		}
	}

	// Serve until shutdown signal
	server := httpapi.NewServer(chat, store, cfg.Server.Addr)
	errCh := make(chan error, 1)
	go func() { errCh <- server.Start(ctx) }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		log.Println("[INFO] shutdown signal received, stopping...")
		cancel()
		<-errCh
	case err := <-errCh:
		if err != nil {
			log.Fatalf("[FATAL] server: %v", err)
		}
	}
	log.Println("[INFO] stock market chatbot stopped")
}
