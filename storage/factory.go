package storage

import (
	"fmt"
	"sort"

	apperrors "github.com/kbukum/iocapture/errors"
	"github.com/kbukum/iocapture/logger"
)

// StorageFactory creates a Storage implementation from config.
type StorageFactory func(cfg Config, log *logger.Logger) (Storage, error)

var factories = make(map[string]StorageFactory)

// RegisterFactory registers a storage backend factory for the given provider name.
// Implementation packages call this (typically in an init function) to make
// themselves available to the New constructor.
func RegisterFactory(name string, f StorageFactory) {
	factories[name] = f
}

// Providers returns the registered provider names, sorted.
func Providers() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New creates a Storage implementation based on the given Config.
// The provider field determines which backend is used.
// Ensure the desired provider package has been imported (e.g.
// _ "github.com/kbukum/iocapture/storage/local") so its factory is registered.
func New(cfg Config, log *logger.Logger) (Storage, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, apperrors.InvalidConfig("storage", err.Error()).WithCause(err)
	}

	if log == nil {
		log = logger.Nop()
	}
	l := log.WithComponent("storage")

	f, ok := factories[cfg.Provider]
	if !ok {
		return nil, apperrors.InvalidConfig("storage.provider",
			fmt.Sprintf("unsupported provider %q (not registered)", cfg.Provider))
	}

	l.Info("initializing storage", logger.Fields(logger.FieldProvider, cfg.Provider))
	return f(cfg, l)
}
