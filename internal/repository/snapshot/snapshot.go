// Package snapshot persists the store state as a JSON document and owns the
// two-tier load policy: durable snapshot, else bundled seed, else empty.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/mamadbah2/stoktrack/internal/config"
	"github.com/mamadbah2/stoktrack/internal/domain/models"
)

// Backend reads and writes the raw persisted snapshot document.
type Backend interface {
	// ReadSnapshot returns ok=false when no snapshot has been written yet.
	ReadSnapshot(ctx context.Context) (models.Snapshot, bool, error)
	WriteSnapshot(ctx context.Context, snap models.Snapshot) error
}

// Store layers seed fallback over a Backend. Load never fails the
// application: every degraded tier is reported and the next one tried.
type Store struct {
	backend  Backend
	seedPath string
	seedURL  string
	http     *resty.Client
	logger   *zap.Logger
}

// NewStore builds the snapshot store. The seed URL takes precedence over the
// seed file when both are configured.
func NewStore(backend Backend, cfg config.StorageConfig, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}

	client := resty.New().SetTimeout(10 * time.Second)

	return &Store{
		backend:  backend,
		seedPath: cfg.SeedPath,
		seedURL:  cfg.SeedURL,
		http:     client,
		logger:   logger,
	}
}

// Load resolves the initial store contents. On a missing or unreadable
// snapshot it falls back to the seed and immediately persists it, so the
// fallback path only ever runs once; when the seed is also unavailable it
// degrades to an empty snapshot.
func (s *Store) Load(ctx context.Context) models.Snapshot {
	snap, ok, err := s.backend.ReadSnapshot(ctx)
	if err != nil {
		s.logger.Warn("snapshot unreadable, falling back to seed", zap.Error(err))
	}
	if ok {
		s.logger.Info("snapshot loaded",
			zap.Int("stocks", len(snap.Stocks)),
			zap.Int("delivery_orders", len(snap.DeliveryOrders)))
		return snap
	}

	seed, err := s.loadSeed(ctx)
	if err != nil {
		s.logger.Warn("seed unavailable, starting empty", zap.Error(err))
		return models.Snapshot{}
	}

	if err := s.backend.WriteSnapshot(ctx, seed); err != nil {
		s.logger.Warn("failed persisting seed snapshot", zap.Error(err))
	}

	s.logger.Info("seed data loaded",
		zap.Int("stocks", len(seed.Stocks)),
		zap.Int("delivery_orders", len(seed.DeliveryOrders)))
	return seed
}

// Save persists the snapshot through the backend.
func (s *Store) Save(ctx context.Context, snap models.Snapshot) error {
	if err := s.backend.WriteSnapshot(ctx, snap); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

func (s *Store) loadSeed(ctx context.Context) (models.Snapshot, error) {
	if s.seedURL != "" {
		return s.fetchSeed(ctx)
	}
	if s.seedPath != "" {
		return readSeedFile(s.seedPath)
	}
	return models.Snapshot{}, errors.New("no seed source configured")
}

func (s *Store) fetchSeed(ctx context.Context) (models.Snapshot, error) {
	resp, err := s.http.R().SetContext(ctx).Get(s.seedURL)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("fetch seed %s: %w", s.seedURL, err)
	}
	if resp.IsError() {
		return models.Snapshot{}, fmt.Errorf("fetch seed %s: status %d", s.seedURL, resp.StatusCode())
	}

	var snap models.Snapshot
	if err := json.Unmarshal(resp.Body(), &snap); err != nil {
		return models.Snapshot{}, fmt.Errorf("decode seed %s: %w", s.seedURL, err)
	}
	return snap, nil
}
