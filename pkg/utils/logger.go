package utils

import (
	"io"
	"strings"

	"cosmossdk.io/errors"
	"cosmossdk.io/log"
	"github.com/rs/zerolog"

	"github.com/oxygene76/kepler-orbit/internal/types"
)

// NewLogger builds the application logger from the log section of the config
func NewLogger(w io.Writer, cfg LogConfig) (log.Logger, error) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return nil, errors.Wrapf(types.ErrInvalidConfig, "log level %q", cfg.Level)
		}
		level = parsed
	}

	opts := []log.Option{log.LevelOption(level)}
	if cfg.JSON {
		opts = append(opts, log.OutputJSONOption())
	} else {
		opts = append(opts, log.ColorOption(false))
	}
	return log.NewLogger(w, opts...), nil
}
