//go:build !cgo

package main

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"

	"github.com/dusk-indust/shipgraph/internal/importgraph"
)

func exportToDB(_ context.Context, _ *log.Logger, _ *importgraph.Result, _ string) error {
	return errors.New("database export requires a cgo-enabled build")
}
