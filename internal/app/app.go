// Package app wires the catalog, booking ledger and session manager into the
// core service used by the HTTP layer.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/evcraddock/homeview/internal/auth"
	"github.com/evcraddock/homeview/internal/booking"
	"github.com/evcraddock/homeview/internal/config"
	"github.com/evcraddock/homeview/internal/db"
	"github.com/evcraddock/homeview/internal/metrics"
	"github.com/evcraddock/homeview/internal/property"
	"github.com/evcraddock/homeview/internal/seed"
	"github.com/evcraddock/homeview/internal/snapshot"
)

// Core is the running service: one catalog, one ledger, one session.
type Core struct {
	catalog  *property.Catalog
	searcher *property.Searcher
	ledger   *booking.Ledger
	sessions *auth.Manager
	store    snapshot.Store

	log       *slog.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
	cacheSize int64
	closers   []func() error
}

// Option configures a Core.
type Option func(*Core)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Core) { c.log = l }
}

// WithMetrics sets the collectors. Defaults to a fresh set.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Core) { c.metrics = m }
}

// WithClock overrides the clock used for booking dates and dashboards.
func WithClock(now func() time.Time) Option {
	return func(c *Core) { c.now = now }
}

// WithSearchCacheSize sets how many distinct searches are cached.
func WithSearchCacheSize(n int) Option {
	return func(c *Core) { c.cacheSize = int64(n) }
}

// New builds a Core from loaded components, restoring the persisted session
// and reconciling bookings with the store.
func New(ctx context.Context, catalog *property.Catalog, dir *auth.Directory, store snapshot.Store, seedBookings []booking.Booking, opts ...Option) (*Core, error) {
	c := &Core{
		catalog: catalog,
		store:   store,
		log:     slog.Default(),
		now:     time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	if c.metrics == nil {
		c.metrics = metrics.New()
	}

	c.searcher = property.NewSearcher(catalog, c.cacheSize, property.WithCacheObserver(c.metrics.ObserveCache))
	c.closers = append(c.closers, func() error { c.searcher.Stop(); return nil })

	ledger, err := booking.Open(ctx, catalog, store, seedBookings, booking.WithClock(c.now))
	if err != nil {
		c.searcher.Stop()
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	c.ledger = ledger

	c.sessions = auth.NewManager(dir, store, auth.WithManagerClock(c.now), auth.WithLogger(c.log))
	s, err := c.sessions.Restore(ctx)
	if err != nil {
		c.searcher.Stop()
		return nil, err
	}
	if s != nil {
		c.log.Info("session restored", "user_id", s.ID, "session_id", s.SessionID)
	}

	c.log.Info("core ready",
		"properties", catalog.Len(),
		"users", dir.Len(),
		"bookings", len(ledger.All()),
	)
	return c, nil
}

// Open builds a Core from configuration: it opens the configured snapshot
// store and loads the seed files, falling back to the embedded defaults.
func Open(ctx context.Context, cfg config.Config, opts ...Option) (*Core, error) {
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	catalog, dir, bookings, err := loadSeed(cfg)
	if err != nil {
		return nil, errors.Join(err, closeStore())
	}

	opts = append([]Option{WithSearchCacheSize(cfg.SearchCacheSize)}, opts...)
	c, err := New(ctx, catalog, dir, store, bookings, opts...)
	if err != nil {
		return nil, errors.Join(err, closeStore())
	}
	c.closers = append(c.closers, closeStore)
	return c, nil
}

// Close releases the store and cache.
func (c *Core) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Metrics returns the collectors the core records to.
func (c *Core) Metrics() *metrics.Metrics { return c.metrics }

func openStore(ctx context.Context, cfg config.Config) (snapshot.Store, func() error, error) {
	switch cfg.Store {
	case config.StoreMemory:
		return snapshot.NewMemory(), func() error { return nil }, nil
	case config.StoreRedis:
		r, err := snapshot.NewRedis(ctx, snapshot.RedisConfig{Addr: cfg.RedisAddr, KeyPrefix: cfg.RedisPrefix})
		if err != nil {
			return nil, nil, fmt.Errorf("opening redis store: %w", err)
		}
		return r, r.Close, nil
	default:
		d, err := db.Open(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		return snapshot.NewSQLite(d), d.Close, nil
	}
}

func loadSeed(cfg config.Config) (*property.Catalog, *auth.Directory, []booking.Booking, error) {
	var (
		catalog *property.Catalog
		dir     *auth.Directory
		err     error
	)

	if cfg.PropertiesFile != "" {
		catalog, err = property.LoadFile(cfg.PropertiesFile)
	} else {
		var props []property.Property
		if props, err = seed.Properties(); err == nil {
			catalog, err = property.NewCatalog(props)
		}
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading catalog: %w", err)
	}

	if cfg.UsersFile != "" {
		dir, err = auth.LoadDirectoryFile(cfg.UsersFile)
	} else {
		var entries []auth.Entry
		if entries, err = seed.Users(); err == nil {
			dir, err = auth.NewDirectory(entries)
		}
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading users: %w", err)
	}

	var bookings []booking.Booking
	if cfg.BookingsFile != "" {
		bookings, err = booking.LoadFile(cfg.BookingsFile)
	} else {
		bookings, err = seed.Bookings()
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading bookings: %w", err)
	}

	return catalog, dir, bookings, nil
}
