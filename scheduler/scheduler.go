// Package scheduler drives background work: periodic refresh of stale site
// configurations and the SQLite command queue the debug tooling writes into.
package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/ottie-ai/ottie-app-1-sub003/config"
	"github.com/ottie-ai/ottie-app-1-sub003/models"
	"github.com/ottie-ai/ottie-app-1-sub003/services"
	"github.com/ottie-ai/ottie-app-1-sub003/storage"
)

const refreshBatchSize = 10

type Scheduler struct {
	cfg      *config.Config
	importer *services.ImportService
	ops      *storage.SQLiteStore
	store    *storage.PostgresStore
	cron     *cron.Cron
	ticker   *time.Ticker
	stopCh   chan struct{}

	mu     sync.Mutex
	paused bool
}

func New(cfg *config.Config, importer *services.ImportService, ops *storage.SQLiteStore, store *storage.PostgresStore) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		importer: importer,
		ops:      ops,
		store:    store,
		cron:     cron.New(),
		stopCh:   make(chan struct{}),
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	go s.pollCommands(ctx)

	if s.cfg.Scheduler.Cron != "" {
		log.Printf("Starting scheduler with cron: %s", s.cfg.Scheduler.Cron)
		_, err := s.cron.AddFunc(s.cfg.Scheduler.Cron, func() {
			if err := s.RefreshStale(ctx); err != nil {
				log.Printf("Scheduled refresh error: %v", err)
			}
		})
		if err != nil {
			return fmt.Errorf("invalid cron expression: %w", err)
		}
		s.cron.Start()
	} else if s.cfg.Scheduler.Interval > 0 {
		log.Printf("Starting scheduler with interval: %s", s.cfg.Scheduler.Interval)
		s.ticker = time.NewTicker(s.cfg.Scheduler.Interval)
		go func() {
			for {
				select {
				case <-s.ticker.C:
					if err := s.RefreshStale(ctx); err != nil {
						log.Printf("Scheduled refresh error: %v", err)
					}
				case <-s.stopCh:
					return
				case <-ctx.Done():
					return
				}
			}
		}()
	} else {
		log.Println("No schedule configured, daemon will only respond to commands")
	}

	return nil
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
	if s.ticker != nil {
		s.ticker.Stop()
	}
	close(s.stopCh)
}

// RefreshStale re-imports sites whose configuration is older than the
// refresh window, oldest first.
func (s *Scheduler) RefreshStale(ctx context.Context) error {
	if s.isPaused() {
		log.Println("Refresh skipped: scheduler paused")
		return nil
	}
	if s.store == nil {
		return nil
	}

	sites, err := s.store.ListStaleSites(ctx, s.cfg.Scheduler.RefreshAge, refreshBatchSize)
	if err != nil {
		return fmt.Errorf("list stale sites: %w", err)
	}
	if len(sites) == 0 {
		return nil
	}

	log.Printf("Refreshing %d stale site(s)", len(sites))
	for _, site := range sites {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if _, err := s.importer.Import(ctx, site.SiteID, site.SourceURL); err != nil {
			log.Printf("Refresh failed for site %s: %v", site.SiteID, err)
		}
	}
	return nil
}

func (s *Scheduler) pollCommands(ctx context.Context) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cmds, err := s.ops.PendingCommands()
			if err != nil {
				log.Printf("Error getting commands: %v", err)
				continue
			}

			for _, cmd := range cmds {
				log.Printf("Processing command: %s", cmd.Command)
				if err := s.handleCommand(ctx, &cmd); err != nil {
					log.Printf("Command error: %v", err)
				}
				if err := s.ops.MarkCommandProcessed(cmd.ID); err != nil {
					log.Printf("Error marking command processed: %v", err)
				}
			}
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scheduler) handleCommand(ctx context.Context, cmd *models.Command) error {
	switch cmd.Command {
	case models.CmdImportURL:
		var params models.CommandParams
		if err := json.Unmarshal(cmd.Params, &params); err != nil {
			return fmt.Errorf("bad command params: %w", err)
		}
		if params.URL == "" {
			return fmt.Errorf("import_url command without a url")
		}
		siteID, err := uuid.Parse(params.SiteID)
		if err != nil {
			siteID = uuid.New()
		}
		_, err = s.importer.Import(ctx, siteID, params.URL)
		return err
	case models.CmdRefresh:
		return s.RefreshStale(ctx)
	case models.CmdPause:
		s.setPaused(true)
		log.Println("Scheduler paused")
		return nil
	case models.CmdResume:
		s.setPaused(false)
		log.Println("Scheduler resumed")
		return nil
	default:
		return fmt.Errorf("unknown command: %s", cmd.Command)
	}
}

func (s *Scheduler) setPaused(paused bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = paused
}

func (s *Scheduler) isPaused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}
