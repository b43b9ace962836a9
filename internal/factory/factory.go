// Package factory wires the application's components together.
package factory

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/gridmatch/gridmatch/internal/broadcast"
	"github.com/gridmatch/gridmatch/internal/dependencies/clock"
	"github.com/gridmatch/gridmatch/internal/dependencies/random"
	"github.com/gridmatch/gridmatch/internal/services/matchmaker"
	"github.com/gridmatch/gridmatch/internal/services/registry"
	"github.com/gridmatch/gridmatch/internal/services/session"
	"github.com/gridmatch/gridmatch/internal/storage"
	"github.com/gridmatch/gridmatch/internal/storage/memory"
	redisstorage "github.com/gridmatch/gridmatch/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// The gateway must satisfy both notifier contracts
var (
	_ registry.Notifier = (*broadcast.Gateway)(nil)
	_ session.Notifier  = (*broadcast.Gateway)(nil)
)

// App contains all wired application components
type App struct {
	Storage storage.Storage

	Clock  clock.Clock
	Random random.Random

	HubManager        *broadcast.HubManager
	Gateway           *broadcast.Gateway
	Registry          *registry.Service
	SessionController *session.Controller
	Matchmaker        *matchmaker.Controller
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// ResetDelay overrides the post-outcome rematch delay (optional)
	ResetDelay time.Duration
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	return newWithDependencies(store, clock.New(), random.New(), cfg.ResetDelay, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	resetDelay time.Duration,
	logger *slog.Logger,
) *App {
	hubManager := broadcast.NewHubManager(logger)
	gateway := broadcast.NewGateway(hubManager, logger)
	reg := registry.New(store, clk, rnd, gateway, logger)
	sessionController := session.NewController(store, reg, clk, rnd, gateway, resetDelay, logger)
	mm := matchmaker.NewController(store, sessionController, logger)

	return &App{
		Storage:           store,
		Clock:             clk,
		Random:            rnd,
		HubManager:        hubManager,
		Gateway:           gateway,
		Registry:          reg,
		SessionController: sessionController,
		Matchmaker:        mm,
	}
}
