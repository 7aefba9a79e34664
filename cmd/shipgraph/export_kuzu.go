//go:build cgo

package main

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/dusk-indust/shipgraph/internal/importgraph"
)

// exportToDB persists a traced graph into a file-backed KuzuDB database.
func exportToDB(ctx context.Context, logger *log.Logger, res *importgraph.Result, dbPath string) error {
	store, err := importgraph.NewKuzuFileStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := importgraph.PopulateStore(ctx, store, res); err != nil {
		return err
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		return err
	}
	logger.Info("graph exported", "db", dbPath, "files", stats.FileCount, "edges", stats.EdgeCount)
	return nil
}
