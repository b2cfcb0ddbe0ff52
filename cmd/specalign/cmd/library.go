package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ChrisMcGann/SpecAlign/internal/config"
	"github.com/ChrisMcGann/SpecAlign/pkg/core"
	"github.com/ChrisMcGann/SpecAlign/pkg/resolve"
	"github.com/ChrisMcGann/SpecAlign/pkg/store/sqlite"
)

// libraries combines imported SQLite libraries and parsed library files
type libraries struct {
	dbs    []*sqlite.Library
	memory *resolve.MemoryResolver
	chain  resolve.Chain
}

// openLibraries opens every path given with --library, falling back to the
// configured default library.
func openLibraries(cfg *config.Config) (*libraries, error) {
	paths := libraryPaths
	if len(paths) == 0 && cfg.Library.Path != "" {
		paths = []string{cfg.Library.Path}
	}
	if len(paths) == 0 {
		return nil, errors.New("no library given, use --library or set library.path in the config")
	}

	libs := &libraries{}
	var files []string
	for _, path := range paths {
		if !isDatabase(path) {
			files = append(files, path)
			continue
		}
		db, err := sqlite.Open(path)
		if err != nil {
			libs.Close()
			return nil, fmt.Errorf("failed to open library: %w", err)
		}
		libs.dbs = append(libs.dbs, db)
		libs.chain = append(libs.chain, db)
	}

	if len(files) > 0 {
		memory, err := resolve.LoadFiles(files, inputFormat)
		if err != nil {
			libs.Close()
			return nil, fmt.Errorf("failed to load library files: %w", err)
		}
		libs.memory = memory
		libs.chain = append(libs.chain, memory)
	}

	return libs, nil
}

func isDatabase(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// Resolve looks id up in every library in the order they were given
func (l *libraries) Resolve(ctx context.Context, id string) (*core.Spectrum, error) {
	return l.chain.Resolve(ctx, id)
}

// All returns every spectrum from every library
func (l *libraries) All(ctx context.Context) ([]*core.Spectrum, error) {
	var all []*core.Spectrum
	for _, db := range l.dbs {
		spectra, err := db.All(ctx)
		if err != nil {
			return nil, err
		}
		all = append(all, spectra...)
	}
	if l.memory != nil {
		all = append(all, l.memory.Spectra()...)
	}
	return all, nil
}

// Close closes any open databases
func (l *libraries) Close() {
	for _, db := range l.dbs {
		db.Close()
	}
}
