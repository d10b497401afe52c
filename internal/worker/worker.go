package worker

import (
	"context"
)

// Worker is a background task with a managed lifecycle.
type Worker interface {
	// Start runs the worker until the context or stop channel fires.
	Start(ctx context.Context) error

	// Stop signals the worker to shut down.
	Stop() error

	// Name identifies the worker in logs.
	Name() string
}
