package tsmeta

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/chrono-lab/tsmeta/engine"
	"github.com/chrono-lab/tsmeta/functions"
)

// Config configures the metadata facade.
type Config struct {
	// Engine is the storage engine that persists database schemas and
	// table data.
	// REQUIRED: MUST NOT be nil.
	Engine engine.Engine

	// Functions is the registry of scalar and aggregate UDFs.
	// OPTIONAL: an empty in-memory registry is used if nil.
	Functions functions.Registry

	// Logger for internal logging.
	// OPTIONAL: Uses slog.Default() if nil.
	Logger *slog.Logger
}

// ErrInvalidConfig indicates Config validation failed.
var ErrInvalidConfig = errors.New("invalid metadata config")

// withDefaults validates the config and fills optional fields.
func (c Config) withDefaults() (Config, error) {
	if c.Engine == nil {
		return c, fmt.Errorf("%w: engine must not be nil", ErrInvalidConfig)
	}
	if c.Functions == nil {
		c.Functions = functions.NewMemRegistry()
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c, nil
}
