// Package ports defines interfaces for external dependencies.
// Usecases depend on these abstractions; adapters implement them.
package ports

import (
	"context"

	"github.com/Pahinithi/stock-market-chatbot/internal/domain/entities"
)

// MarketStore exposes read-only access to the loaded index dataset.
// Implementations are loaded once at startup and never mutated afterwards,
// so all methods are safe for concurrent use without external locking.
type MarketStore interface {
	// IndexInfo looks up one index by symbol, case-insensitively.
	IndexInfo(symbol string) (entities.IndexInfo, bool)

	// ListIndices returns indices whose region contains the given filter,
	// case-insensitively. An empty filter returns all indices, ordered by symbol.
	ListIndices(region string) []entities.IndexInfo

	// Records returns price history for a symbol. With limit > 0 the most
	// recent records are returned newest-first, at most limit of them;
	// with limit <= 0 the full history is returned in ascending date order.
	Records(symbol string, limit int) []entities.PriceRecord

	// Summary describes the whole dataset, including rows skipped at load.
	Summary() entities.Summary
}

// TextGenerator produces a free-text answer from a language backend.
// One call per query, no implicit retries; callers bound the call with
// a context deadline.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// FileWatcher monitors files for on-disk changes.
type FileWatcher interface {
	// Watch starts monitoring the given paths and emits events until
	// the context is cancelled.
	Watch(ctx context.Context, paths ...string) (<-chan FileEvent, error)

	// Stop stops the watcher.
	Stop() error
}

// FileEvent is a single file system change.
type FileEvent struct {
	Path      string
	Operation FileOperation
}

// FileOperation is the type of file change.
type FileOperation int

const (
	FileCreated FileOperation = iota
	FileModified
	FileDeleted
)
