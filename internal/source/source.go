// Package source provides scan ingestion adapters. Each adapter receives scan
// messages from one transport and invokes the pipeline handler once per
// message, synchronously, from a single goroutine.
package source

import (
	"context"

	"github.com/banshee-data/scanview/internal/scan"
)

// Handler is invoked once per decoded scan message. The message is read-only
// for the duration of the call and not retained afterwards.
type Handler func(msg *scan.Message)

// Source delivers scan messages until the context is cancelled or the
// transport ends. Run blocks; errors other than context cancellation indicate
// the transport failed.
type Source interface {
	Run(ctx context.Context) error
}
