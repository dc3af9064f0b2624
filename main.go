package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/ottie-ai/ottie-app-1-sub003/config"
	"github.com/ottie-ai/ottie-app-1-sub003/generator"
	"github.com/ottie-ai/ottie-app-1-sub003/httputil"
	"github.com/ottie-ai/ottie-app-1-sub003/logging"
	"github.com/ottie-ai/ottie-app-1-sub003/scheduler"
	"github.com/ottie-ai/ottie-app-1-sub003/services"
	"github.com/ottie-ai/ottie-app-1-sub003/storage"
)

var (
	importURL = flag.String("url", "", "Import one listing URL and exit")
	siteID    = flag.String("site", "", "Site id for the one-shot import (new id if omitted)")
)

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	logFile, err := logging.Setup("importer.log")
	if err != nil {
		log.Printf("Warning: could not set up file logging: %v", err)
	} else {
		defer logFile.Close()
	}

	log.Println("Starting listing importer...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("Loaded %d provider override(s)", len(cfg.Providers))
	clients := httputil.NewClients(&cfg.Proxy)

	ctx := context.Background()

	// Postgres is optional: local runs can work from SQLite alone.
	var pgStore *storage.PostgresStore
	if cfg.Supabase.DBURL != "" {
		pgStore, err = storage.NewPostgresStore(ctx, cfg.Supabase.DBURL)
		if err != nil {
			log.Fatalf("Failed to connect to Postgres: %v", err)
		}
		defer pgStore.Close()
		log.Printf("Connected to Postgres: %s", maskConnectionString(cfg.Supabase.DBURL))
	} else {
		log.Println("No database URL configured, configurations stay local")
	}

	sqliteStore, err := storage.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open SQLite: %v", err)
	}
	defer sqliteStore.Close()
	log.Printf("SQLite database: %s", cfg.DBPath)

	var archive *storage.S3Archive
	if cfg.Archive.Bucket != "" {
		archive, err = storage.NewS3Archive(ctx, &cfg.Archive)
		if err != nil {
			log.Printf("Warning: raw archive disabled: %v", err)
			archive = nil
		} else {
			log.Printf("Raw archive bucket: %s", cfg.Archive.Bucket)
		}
	}

	gemini, err := generator.NewGeminiClient(ctx, &cfg.Gemini)
	if err != nil {
		log.Fatalf("Failed to create Gemini client: %v", err)
	}
	defer gemini.Close()
	log.Printf("Gemini model: %s", cfg.Gemini.Model)

	publish := storage.NewSupabaseStore(&cfg.Supabase)
	importer := services.NewImportService(cfg, pgStore, sqliteStore, publish, archive, generator.New(gemini), clients)

	// One-shot import
	if *importURL != "" {
		id := uuid.New()
		if *siteID != "" {
			parsed, err := uuid.Parse(*siteID)
			if err != nil {
				log.Fatalf("Invalid site id: %v", err)
			}
			id = parsed
		}

		run, err := importer.Import(ctx, id, *importURL)
		if err != nil {
			if run != nil {
				log.Fatalf("Import failed at %s: %v", run.Stage, err)
			}
			log.Fatalf("Import failed: %v", err)
		}
		log.Printf("Import complete for site %s (run %d, %d tokens)", id, run.ID, run.TotalTokens)
		return
	}

	// Daemon mode
	sched := scheduler.New(cfg, importer, sqliteStore, pgStore)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := sched.Start(ctx); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	log.Println("Daemon running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")
	sched.Stop()
	log.Println("Goodbye!")
}

// maskConnectionString masks password in connection string for logging
func maskConnectionString(connStr string) string {
	// Simple mask - find :// and mask until @
	start := 0
	for i := 0; i < len(connStr)-3; i++ {
		if connStr[i:i+3] == "://" {
			start = i + 3
			break
		}
	}
	if start == 0 {
		return connStr
	}

	// Find : after user
	colonIdx := -1
	atIdx := -1
	for i := start; i < len(connStr); i++ {
		if connStr[i] == ':' && colonIdx == -1 {
			colonIdx = i
		}
		if connStr[i] == '@' {
			atIdx = i
			break
		}
	}

	if colonIdx > 0 && atIdx > colonIdx {
		return connStr[:colonIdx+1] + "****" + connStr[atIdx:]
	}
	return connStr
}
