package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/paramframe/internal/adapters/driven/config/file"
	"github.com/custodia-labs/paramframe/internal/adapters/driven/connector"
	"github.com/custodia-labs/paramframe/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/paramframe/internal/adapters/driven/storage/snapshot"
	"github.com/custodia-labs/paramframe/internal/adapters/driving/cli"
	"github.com/custodia-labs/paramframe/internal/codec"
	"github.com/custodia-labs/paramframe/internal/core/ports/driven"
	"github.com/custodia-labs/paramframe/internal/core/services"
	"github.com/custodia-labs/paramframe/internal/logger"
	"github.com/custodia-labs/paramframe/internal/namegen"
)

// DefaultStateFile is the engine state file under the data directory.
const DefaultStateFile = "state.cbor"

// app owns the resources opened for one command.
type app struct {
	conn driven.Connector
}

// setup loads settings from dataDir, opens the connector, and restores
// the engine from the last saved state.
func (a *app) setup(dataDir string) (cli.Services, func() error, error) {
	ctx := context.Background()

	if dataDir == "" {
		dir, err := file.DefaultDir()
		if err != nil {
			return cli.Services{}, nil, fmt.Errorf("resolving data directory: %w", err)
		}
		dataDir = dir
	}

	configStore, err := file.NewConfigStore(dataDir)
	if err != nil {
		return cli.Services{}, nil, fmt.Errorf("loading config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return cli.Services{}, nil, err
	}
	if err := settingsService.Validate(settings); err != nil {
		logger.Warn("invalid settings in %s: %v", configStore.Path(), err)
	}

	conn, err := connector.Open(settings.Connector, dataDir)
	if err != nil {
		return cli.Services{}, nil, err
	}
	a.conn = conn

	statePath := settings.State.Path
	if statePath == "" {
		statePath = filepath.Join(dataDir, DefaultStateFile)
	}
	state := snapshot.New(statePath)

	stores := services.Stores{
		Parameters:    memory.NewParameterStore(),
		ParameterSets: memory.NewParameterSetStore(),
		Solutions:     memory.NewSolutionStore(),
		Staging:       memory.NewStagingStore(),
	}
	c := codec.New(
		codec.WithChunkSize(settings.Codec.ChunkSize),
		codec.WithMaxDepth(settings.Codec.MaxDepth),
	)
	engine := services.NewEngine(stores, c, namegen.New(settings.Names.Seed), conn, settings.Connector.Database)

	saved, err := state.Load(ctx)
	if err != nil {
		return cli.Services{}, nil, fmt.Errorf("loading state: %w", err)
	}
	if err := engine.Restore(ctx, saved); err != nil {
		return cli.Services{}, nil, fmt.Errorf("restoring state: %w", err)
	}
	logger.Debug("state restored from %s", statePath)

	save := func() error {
		snap, err := engine.Snapshot(ctx)
		if err != nil {
			return err
		}
		return state.Save(ctx, snap)
	}

	svc := cli.Services{
		Parameters:    engine.Parameters,
		ParameterSets: engine.ParameterSets,
		Solutions:     engine.Solutions,
		Commits:       engine.Commits,
		Sync:          engine.Sync,
		Reconstruct:   engine.Reconstruct,
		Settings:      settingsService,
		Checkpoint:    save,
	}
	cleanup := func() error {
		return errors.Join(save(), a.close())
	}
	return svc, cleanup, nil
}

// close releases the connector. Safe to call more than once.
func (a *app) close() error {
	if a.conn == nil {
		return nil
	}
	err := a.conn.Close()
	a.conn = nil
	return err
}
