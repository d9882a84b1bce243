package jsonfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/savefarm/savefarm/internal/core/domain"
)

type counterDoc struct {
	N     int      `json:"n"`
	Names []string `json:"names"`
}

func newCounterDoc() *counterDoc { return &counterDoc{Names: []string{}} }

func TestOpenDocument_CreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "counter.json")

	d, err := OpenDocument(path, newCounterDoc)
	require.NoError(t, err)
	defer d.Close()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.JSONEq(t, `{"n":0,"names":[]}`, string(raw))
}

func TestOpenDocument_EmptyFileIsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counter.json")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	d, err := OpenDocument(path, newCounterDoc)
	require.NoError(t, err)
	defer d.Close()
}

func TestOpenDocument_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counter.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := OpenDocument(path, newCounterDoc)
	require.ErrorIs(t, err, domain.ErrCorruptDocument)
}

func TestDocument_UpdatePersistsIndented(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counter.json")
	d, err := OpenDocument(path, newCounterDoc)
	require.NoError(t, err)

	require.NoError(t, d.Update(context.Background(), func(c *counterDoc) error {
		c.N = 7
		return nil
	}))
	require.NoError(t, d.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "{\n  \"n\": 7,\n  \"names\": []\n}", string(raw))

	reopened, err := OpenDocument(path, newCounterDoc)
	require.NoError(t, err)
	defer reopened.Close()
	var n int
	require.NoError(t, reopened.View(context.Background(), func(c *counterDoc) error {
		n = c.N
		return nil
	}))
	require.Equal(t, 7, n)
}

func TestDocument_FailedUpdateRollsBack(t *testing.T) {
	d, err := OpenDocument(filepath.Join(t.TempDir(), "counter.json"), newCounterDoc)
	require.NoError(t, err)
	defer d.Close()

	boom := errors.New("boom")
	err = d.Update(context.Background(), func(c *counterDoc) error {
		c.N = 99
		c.Names = append(c.Names, "partial")
		return boom
	})
	require.ErrorIs(t, err, boom)

	require.NoError(t, d.View(context.Background(), func(c *counterDoc) error {
		require.Equal(t, 0, c.N)
		require.Empty(t, c.Names)
		return nil
	}))
}

func TestDocument_UnchangedSkipsRestore(t *testing.T) {
	d, err := OpenDocument(filepath.Join(t.TempDir(), "counter.json"), newCounterDoc)
	require.NoError(t, err)
	defer d.Close()

	var before *counterDoc
	require.NoError(t, d.View(context.Background(), func(c *counterDoc) error {
		before = c
		return nil
	}))

	err = d.Update(context.Background(), func(*counterDoc) error {
		return Unchanged(domain.ErrRecipeNotFound)
	})
	require.Equal(t, domain.ErrRecipeNotFound, err)

	require.NoError(t, d.View(context.Background(), func(c *counterDoc) error {
		require.Same(t, before, c)
		return nil
	}))

	require.NoError(t, Unchanged(nil))
}

func TestDocument_CancelledQueuedUpdateIsDropped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counter.json")
	d, err := OpenDocument(path, newCounterDoc)
	require.NoError(t, err)
	defer d.Close()

	started := make(chan struct{})
	release := make(chan struct{})
	first := make(chan error, 1)
	go func() {
		first <- d.Update(context.Background(), func(c *counterDoc) error {
			close(started)
			<-release
			c.N = 1
			return nil
		})
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	second := make(chan error, 1)
	go func() {
		second <- d.Update(ctx, func(c *counterDoc) error {
			c.N++
			return nil
		})
	}()
	require.Eventually(t, func() bool { return len(d.ops) == 1 }, time.Second, time.Millisecond)

	cancel()
	close(release)

	require.NoError(t, <-first)
	require.ErrorIs(t, <-second, context.Canceled)

	require.NoError(t, d.View(context.Background(), func(c *counterDoc) error {
		require.Equal(t, 1, c.N)
		return nil
	}))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.JSONEq(t, `{"n":1,"names":[]}`, string(raw))
}

func TestDocument_ConcurrentUpdatesAreNotLost(t *testing.T) {
	d, err := OpenDocument(filepath.Join(t.TempDir(), "counter.json"), newCounterDoc)
	require.NoError(t, err)
	defer d.Close()

	const writers = 50
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = d.Update(context.Background(), func(c *counterDoc) error {
				c.N++
				return nil
			})
		}()
	}
	wg.Wait()

	require.NoError(t, d.View(context.Background(), func(c *counterDoc) error {
		require.Equal(t, writers, c.N)
		return nil
	}))
}

func TestDocument_ClosedRejectsWork(t *testing.T) {
	d, err := OpenDocument(filepath.Join(t.TempDir(), "counter.json"), newCounterDoc)
	require.NoError(t, err)
	require.NoError(t, d.Close())
	require.NoError(t, d.Close())

	err = d.View(context.Background(), func(*counterDoc) error { return nil })
	require.ErrorIs(t, err, ErrStoreClosed)
}

func TestDocument_WriteObserver(t *testing.T) {
	var (
		mu    sync.Mutex
		names []string
	)
	observe := func(doc string, elapsed time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		names = append(names, doc)
	}
	d, err := OpenDocument(filepath.Join(t.TempDir(), "counter.json"), newCounterDoc, WithWriteObserver(observe))
	require.NoError(t, err)
	defer d.Close()

	require.NoError(t, d.Update(context.Background(), func(c *counterDoc) error { c.N++; return nil }))
	_ = d.Update(context.Background(), func(*counterDoc) error { return errors.New("skip") })

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{"counter.json"}, names)
}
