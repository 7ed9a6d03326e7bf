// Package app holds the process-wide dependencies shared by every transport.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sandeepkv93/listd/internal/config"
	"github.com/sandeepkv93/listd/internal/logging"
	"github.com/sandeepkv93/listd/internal/metrics"
	"github.com/sandeepkv93/listd/internal/reminder"
	"github.com/sandeepkv93/listd/internal/router"
	"github.com/sandeepkv93/listd/internal/storage"
)

type App struct {
	Config   *config.Config
	Logger   *logging.Logger
	Metrics  *metrics.Metrics
	Repo     storage.Repository
	Lists    *storage.Lists
	Router   *router.Router
	Location *time.Location
}

// New opens the configured store and builds the router. A corrupt document
// store is reported as storage.ErrCorrupt and never overwritten.
func New(cfg *config.Config, logger *logging.Logger) (*App, error) {
	if cfg == nil {
		return nil, errors.New("app: nil config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		var err error
		if logger, err = logging.NewLogger(&cfg.Logging); err != nil {
			return nil, fmt.Errorf("logger: %w", err)
		}
	}
	loc, err := cfg.Reminder.Location()
	if err != nil {
		return nil, err
	}

	repo, err := OpenRepository(cfg.Storage)
	if err != nil {
		return nil, err
	}
	lists, err := storage.NewLists(repo, storage.LockPolicy(cfg.Storage.Locking))
	if err != nil {
		_ = repo.Close()
		return nil, err
	}
	m := metrics.NewMetrics()
	r, err := router.New(lists, router.Options{Logger: logger, Metrics: m, Location: loc})
	if err != nil {
		_ = repo.Close()
		return nil, err
	}

	logger.Info(context.Background(), "store opened",
		zap.String("driver", cfg.Storage.Driver),
		zap.String("path", cfg.Storage.Path),
		zap.String("locking", cfg.Storage.Locking),
	)
	return &App{
		Config:   cfg,
		Logger:   logger,
		Metrics:  m,
		Repo:     repo,
		Lists:    lists,
		Router:   r,
		Location: loc,
	}, nil
}

func OpenRepository(cfg config.StorageConfig) (storage.Repository, error) {
	switch cfg.Driver {
	case "json":
		store, err := storage.OpenDocumentStore(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("open document store: %w", err)
		}
		return store, nil
	case "sqlite":
		repo, err := storage.OpenSQLite(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("app: unknown storage driver %q", cfg.Driver)
	}
}

// Sweeper builds the reminder sweeper for the given sender.
func (a *App) Sweeper(sender reminder.Sender) (*reminder.Sweeper, error) {
	return reminder.NewSweeper(a.Repo, sender, reminder.Options{
		Location:     a.Location,
		SendInterval: a.Config.Reminder.SendInterval,
		Logger:       a.Logger,
		Metrics:      a.Metrics,
	})
}

// ReminderService builds the daily reminder loop.
func (a *App) ReminderService(sender reminder.Sender) (*reminder.Service, error) {
	sw, err := a.Sweeper(sender)
	if err != nil {
		return nil, err
	}
	hour, minute, err := a.Config.Reminder.Clock()
	if err != nil {
		return nil, err
	}
	return &reminder.Service{
		Sweeper:  sw,
		Hour:     hour,
		Minute:   minute,
		Location: a.Location,
		Logger:   a.Logger,
	}, nil
}

func (a *App) Close() error {
	var errs []error
	if a.Repo != nil {
		errs = append(errs, a.Repo.Close())
	}
	if a.Logger != nil {
		errs = append(errs, a.Logger.Sync())
	}
	return errors.Join(errs...)
}
