// Package jsonfile stores the application state in two pretty-printed JSON
// documents under a data directory.
//
// Every document is owned by a single goroutine. Reads and read-modify-write
// cycles are queued to it over a channel, so concurrent requests never lose
// each other's updates, and every write goes through a temp file and a rename
// so a crash never leaves a half-written document behind.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/savefarm/savefarm/internal/core/domain"
)

const opBuffer = 64

// ErrStoreClosed is returned by operations submitted after Close.
var ErrStoreClosed = errors.New("document store closed")

// WriteObserver receives the duration of every persisted update.
type WriteObserver func(document string, elapsed time.Duration)

type options struct {
	log     zerolog.Logger
	observe WriteObserver
}

// Option configures a Document or a Store.
type Option func(*options)

func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.log = log }
}

func WithWriteObserver(fn WriteObserver) Option {
	return func(o *options) { o.observe = fn }
}

// Unchanged marks an update failure that happened before fn touched the
// state, so the document skips restoring it from disk. Update returns err.
func Unchanged(err error) error {
	if err == nil {
		return nil
	}
	return &unchangedError{err: err}
}

type unchangedError struct{ err error }

func (e *unchangedError) Error() string { return e.err.Error() }
func (e *unchangedError) Unwrap() error { return e.err }

type op[T any] struct {
	ctx    context.Context
	fn     func(*T) error
	mutate bool
	done   chan error
}

// Document is a JSON file decoded into a T and served by one goroutine.
type Document[T any] struct {
	path  string
	name  string
	empty func() *T
	opts  options

	ops     chan op[T]
	quit    chan struct{}
	stopped chan struct{}
	once    sync.Once

	// owned by run
	doc      *T
	snapshot []byte
}

// OpenDocument loads path, creating it from empty() when it does not exist.
// An empty file is treated as a fresh document; undecodable content fails
// with domain.ErrCorruptDocument.
func OpenDocument[T any](path string, empty func() *T, opts ...Option) (*Document[T], error) {
	d := &Document[T]{
		path:    path,
		name:    filepath.Base(path),
		empty:   empty,
		opts:    options{log: zerolog.Nop()},
		ops:     make(chan op[T], opBuffer),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(&d.opts)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o770); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist) || (err == nil && len(bytes.TrimSpace(raw)) == 0):
		d.doc = empty()
		if err := d.persist(); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", path, err)
	default:
		doc := empty()
		if err := json.Unmarshal(raw, doc); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrCorruptDocument, d.name, err)
		}
		d.doc = doc
		d.snapshot = raw
	}

	go d.run()
	return d, nil
}

// View runs fn against the current state. fn must not retain or modify it.
func (d *Document[T]) View(ctx context.Context, fn func(*T) error) error {
	return d.submit(ctx, op[T]{fn: fn})
}

// Update runs fn against the current state and persists the result. When fn
// returns an error, or the write fails, the state is rolled back to what is
// on disk, unless fn wrapped its error with Unchanged. An update whose ctx is
// done before it reaches the front of the queue is dropped with ctx.Err().
func (d *Document[T]) Update(ctx context.Context, fn func(*T) error) error {
	return d.submit(ctx, op[T]{fn: fn, mutate: true})
}

// Close stops the owning goroutine after the queued operations finish.
func (d *Document[T]) Close() error {
	d.once.Do(func() { close(d.quit) })
	<-d.stopped
	return nil
}

func (d *Document[T]) submit(ctx context.Context, o op[T]) error {
	o.ctx = ctx
	o.done = make(chan error, 1)
	select {
	case <-d.quit:
		return ErrStoreClosed
	default:
	}
	select {
	case d.ops <- o:
	case <-d.quit:
		return ErrStoreClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	// once queued, run either applies the op or drops it for its ctx
	select {
	case err := <-o.done:
		return err
	case <-d.stopped:
		select {
		case err := <-o.done:
			return err
		default:
			return ErrStoreClosed
		}
	}
}

func (d *Document[T]) run() {
	defer close(d.stopped)
	for {
		select {
		case o := <-d.ops:
			o.done <- d.apply(o)
		case <-d.quit:
			// drain what was accepted before Close
			for {
				select {
				case o := <-d.ops:
					o.done <- d.apply(o)
				default:
					return
				}
			}
		}
	}
}

func (d *Document[T]) apply(o op[T]) error {
	if err := o.ctx.Err(); err != nil {
		return err
	}
	if !o.mutate {
		return o.fn(d.doc)
	}

	start := time.Now()
	if err := o.fn(d.doc); err != nil {
		var unchanged *unchangedError
		if errors.As(err, &unchanged) {
			return unchanged.err
		}
		d.rollback()
		return err
	}
	if err := d.persist(); err != nil {
		d.opts.log.Error().Err(err).Str("document", d.name).Msg("document write failed")
		d.rollback()
		return err
	}
	if d.opts.observe != nil {
		d.opts.observe(d.name, time.Since(start))
	}
	return nil
}

func (d *Document[T]) rollback() {
	doc := d.empty()
	if len(d.snapshot) > 0 {
		if err := json.Unmarshal(d.snapshot, doc); err != nil {
			d.opts.log.Error().Err(err).Str("document", d.name).Msg("document rollback failed")
			return
		}
	}
	d.doc = doc
}

func (d *Document[T]) persist() error {
	raw, err := json.MarshalIndent(d.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", d.name, err)
	}
	if err := writeAtomic(d.path, raw); err != nil {
		return err
	}
	d.snapshot = raw
	return nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	name := tmp.Name()
	cleanup := func() { _ = os.Remove(name) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(name, path); err != nil {
		cleanup()
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
