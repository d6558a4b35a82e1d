// Package ingest loads dictionary files and writes their entries into
// dictionary tables in transactional batches.
package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/japaniel/dictlookup/pkg/db"
)

// DefaultBatchSize is the number of entries committed per transaction.
const DefaultBatchSize = 1000

// Importer writes entries into existing dictionary tables.
type Importer struct {
	store     *db.Store
	logger    *log.Logger
	batchSize int
}

// NewImporter creates an importer. batchSize <= 0 selects DefaultBatchSize.
func NewImporter(store *db.Store, logger *log.Logger, batchSize int) *Importer {
	if logger == nil {
		logger = log.Default()
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Importer{store: store, logger: logger, batchSize: batchSize}
}

// Import appends entries to table and returns how many were written.
// Entries without a term are skipped.
func (im *Importer) Import(ctx context.Context, table string, entries []db.Entry) (int, error) {
	ok, err := db.TableExists(ctx, im.store.Conn(), table)
	if err != nil {
		return 0, fmt.Errorf("check table %s: %w", table, err)
	}
	if !ok {
		return 0, fmt.Errorf("table %s: %w", table, db.ErrNotFound)
	}

	bw := NewBatchWriter(im.store.Conn(), table, im.batchSize, 0)
	skipped := 0
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			_ = bw.Close()
			return int(bw.Written()), err
		}
		if strings.TrimSpace(e.Term) == "" {
			skipped++
			continue
		}
		if err := bw.Write(e); err != nil {
			_ = bw.Close()
			return int(bw.Written()), err
		}
	}
	if err := bw.Close(); err != nil {
		return int(bw.Written()), err
	}
	if skipped > 0 {
		im.logger.Warn("skipped entries without a term", "table", table, "count", skipped)
	}
	n := int(bw.Written())
	im.logger.Info("imported entries", "table", table, "count", n)
	return n, nil
}

// ImportFile loads a dictionary file into an installed dictionary.
func (im *Importer) ImportFile(ctx context.Context, dictionary, path string) (int, error) {
	d, err := im.store.Dictionary(ctx, dictionary)
	if err != nil {
		return 0, err
	}
	entries, err := LoadDictionaryFile(path)
	if err != nil {
		return 0, err
	}
	return im.Import(ctx, d.Table, entries)
}
