package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/stoktrack/internal/config"
	"github.com/mamadbah2/stoktrack/internal/repository/sheets"
	"github.com/mamadbah2/stoktrack/internal/store"
)

// Scheduler manages the periodic safety autosave and the optional
// spreadsheet export. The store already saves synchronously on every
// mutation; the autosave exists so a failed mutation-time save is retried
// instead of lost.
type Scheduler struct {
	cron     *cron.Cron
	store    *store.Store
	saver    store.Saver
	exporter sheets.Exporter
	cfg      config.AutosaveConfig
	logger   *zap.Logger

	lastSaved uint64
}

// NewScheduler creates a new scheduler instance. exporter may be nil.
func NewScheduler(cfg config.AutosaveConfig, st *store.Store, saver store.Saver, exporter sheets.Exporter, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []cron.Option{}
	if loc, err := time.LoadLocation(cfg.Timezone); err == nil {
		opts = append(opts, cron.WithLocation(loc))
	} else {
		logger.Warn("unknown timezone, scheduler uses local time", zap.String("timezone", cfg.Timezone), zap.Error(err))
	}

	return &Scheduler{
		cron:     cron.New(opts...),
		store:    st,
		saver:    saver,
		exporter: exporter,
		cfg:      cfg,
		logger:   logger,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler")

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.autosave); err != nil {
		s.logger.Error("failed to schedule autosave", zap.Error(err))
	}

	if s.exporter != nil {
		// Daily export at 06:00 in the configured timezone.
		if _, err := s.cron.AddFunc("0 6 * * *", s.exportInventory); err != nil {
			s.logger.Error("failed to schedule inventory export", zap.Error(err))
		}
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) autosave() {
	version := s.store.Version()
	if version == s.lastSaved {
		s.logger.Debug("autosave skipped, store unchanged", zap.Uint64("version", version))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := s.saver.Save(ctx, s.store.Snapshot()); err != nil {
		s.logger.Error("autosave failed", zap.Error(err))
		return
	}
	s.lastSaved = version
	s.logger.Info("autosave completed", zap.Uint64("version", version))
}

func (s *Scheduler) exportInventory() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.exporter.ExportInventory(ctx, s.store.Snapshot()); err != nil {
		s.logger.Error("inventory export failed", zap.Error(err))
		return
	}
	s.logger.Info("inventory export completed")
}
