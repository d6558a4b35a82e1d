package ingest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/japaniel/dictlookup/pkg/db"
)

// ErrBatchWriterClosed is returned by Write after Close.
var ErrBatchWriterClosed = errors.New("batch writer closed")

// BatchWriter buffers entries for one dictionary table and commits them in
// batches, each inside its own transaction. A failed batch is rolled back as
// a whole; the first such error is returned by Close.
type BatchWriter struct {
	table string

	mu          sync.Mutex
	buf         []db.Entry
	cap         int
	flushTicker *time.Ticker
	closed      bool
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc

	commitCh chan []db.Entry
	conn     *sql.DB
	OnError  func(error)

	written atomic.Int64

	errMu   sync.Mutex
	lastErr error
}

// NewBatchWriter creates a writer for table.
// batchSize: flush when the buffer reaches this many entries.
// flushInterval: also flush on this period (0 to disable).
func NewBatchWriter(conn *sql.DB, table string, batchSize int, flushInterval time.Duration) *BatchWriter {
	if batchSize <= 0 {
		batchSize = 1000
	}
	ctx, cancel := context.WithCancel(context.Background())
	bw := &BatchWriter{
		table:    table,
		buf:      make([]db.Entry, 0, batchSize),
		cap:      batchSize,
		ctx:      ctx,
		cancel:   cancel,
		commitCh: make(chan []db.Entry, 2),
		conn:     conn,
	}

	bw.wg.Add(1)
	go bw.committer()

	if flushInterval > 0 {
		bw.flushTicker = time.NewTicker(flushInterval)
		bw.wg.Add(1)
		go bw.loop()
	}
	return bw
}

// Write buffers entries, flushing whenever the buffer fills.
func (bw *BatchWriter) Write(entries ...db.Entry) error {
	bw.mu.Lock()
	defer bw.mu.Unlock()
	if bw.closed {
		return ErrBatchWriterClosed
	}
	for _, e := range entries {
		bw.buf = append(bw.buf, e)
		if len(bw.buf) >= bw.cap {
			bw.flushLocked()
		}
	}
	return nil
}

// Written is the number of entries committed so far.
func (bw *BatchWriter) Written() int64 { return bw.written.Load() }

// flushLocked assumes bw.mu is held. A full commit queue blocks the caller.
func (bw *BatchWriter) flushLocked() {
	if len(bw.buf) == 0 {
		return
	}
	batch := bw.buf
	bw.buf = make([]db.Entry, 0, bw.cap)

	select {
	case bw.commitCh <- batch:
	case <-bw.ctx.Done():
		bw.fail(fmt.Errorf("batch writer: dropping batch of %d entries due to context cancellation", len(batch)))
	}
}

func (bw *BatchWriter) fail(err error) {
	bw.errMu.Lock()
	if bw.lastErr == nil {
		bw.lastErr = err
	}
	bw.errMu.Unlock()
	if bw.OnError != nil {
		bw.OnError(err)
	}
}

func (bw *BatchWriter) committer() {
	defer bw.wg.Done()
	for batch := range bw.commitCh {
		if err := bw.commit(batch); err != nil {
			bw.fail(err)
			continue
		}
		bw.written.Add(int64(len(batch)))
	}
}

func (bw *BatchWriter) commit(batch []db.Entry) error {
	// Background context so a closing writer still commits what it accepted.
	ctx := context.Background()

	tx, err := bw.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin batch tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // ignored if committed
	}()

	if err := db.InsertEntries(ctx, tx, bw.table, batch); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch (%d entries): %w", len(batch), err)
	}
	return nil
}

func (bw *BatchWriter) loop() {
	defer bw.wg.Done()
	for {
		select {
		case <-bw.ctx.Done():
			return
		case <-bw.flushTicker.C:
			bw.mu.Lock()
			bw.flushLocked()
			bw.mu.Unlock()
		}
	}
}

// Close flushes the remaining entries, waits for every pending commit and
// returns the first commit error, if any.
func (bw *BatchWriter) Close() error {
	bw.mu.Lock()
	if bw.closed {
		bw.mu.Unlock()
		return ErrBatchWriterClosed
	}
	bw.closed = true
	if bw.flushTicker != nil {
		bw.flushTicker.Stop()
	}
	bw.flushLocked()
	bw.mu.Unlock()

	bw.cancel()
	close(bw.commitCh)
	bw.wg.Wait()

	bw.errMu.Lock()
	defer bw.errMu.Unlock()
	return bw.lastErr
}
