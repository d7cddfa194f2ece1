// Package loader turns the source sections of a job configuration into
// worksheet sources and whole workbooks.
package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/go-data-exporter/excel/internal/config"
	"github.com/go-data-exporter/excel/source"
)

var ErrUnknownSourceType = errors.New("loader: unknown source type")

type Loader struct {
	logger  *slog.Logger
	baseDir string
}

// New creates a Loader. Relative file sources are resolved against baseDir,
// normally the directory of the configuration file.
func New(logger *slog.Logger, baseDir string) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{logger: logger, baseDir: baseDir}
}

// Load reads the data described by cfg. Files and query results are read
// completely before Load returns.
func (l *Loader) Load(ctx context.Context, cfg config.SourceConfig) (source.Source, error) {
	start := time.Now()
	var (
		src source.Source
		err error
	)
	switch cfg.Type {
	case config.SourceInline:
		src = source.Table(cfg.Rows)
	case config.SourceCSV:
		src, err = loadCSV(l.path(cfg.File))
	case config.SourceJSON:
		src, err = loadJSON(l.path(cfg.File), cfg.Header)
	case config.SourceYAML:
		src, err = loadYAML(l.path(cfg.File), cfg.Header)
	case config.SourceSQL:
		src, err = loadSQL(ctx, cfg)
	case config.SourceHive:
		src, err = loadHive(ctx, cfg)
	default:
		err = fmt.Errorf("%w %q", ErrUnknownSourceType, cfg.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("loader: %s source: %w", cfg.Type, err)
	}
	l.logger.Debug("source loaded",
		slog.String("type", cfg.Type),
		slog.String("kind", src.Kind().String()),
		slog.Duration("elapsed", time.Since(start)),
	)
	return src, nil
}

func (l *Loader) path(file string) string {
	if l.baseDir == "" || filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(l.baseDir, file)
}
