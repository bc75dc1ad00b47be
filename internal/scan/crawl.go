// Package scan walks a music collection and reads the tags of every audio
// file it finds.
package scan

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/mmcdole/avalon/internal/domain"
	"golang.org/x/sync/errgroup"
)

// DefaultExtensions are the audio file types read during a crawl
var DefaultExtensions = []string{".mp3", ".m4a", ".ogg", ".oga", ".flac"}

// progressEvery is how many read files pass between progress reports
const progressEvery = 250

// Crawler reads metadata for a collection with a pool of tag readers.
// Implements domain.Scanner.
type Crawler struct {
	workers  int
	exts     map[string]bool
	read     func(path string) (domain.Metadata, error)
	progress domain.ProgressFunc
	logger   *slog.Logger
}

// NewCrawler creates a crawler. workers <= 0 uses one reader per CPU.
func NewCrawler(workers int, logger *slog.Logger) *Crawler {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = slog.Default()
	}
	exts := make(map[string]bool, len(DefaultExtensions))
	for _, e := range DefaultExtensions {
		exts[e] = true
	}
	return &Crawler{workers: workers, exts: exts, read: ReadFile, logger: logger}
}

// OnProgress registers fn to be called periodically during Crawl and once
// when it finishes.
func (c *Crawler) OnProgress(fn domain.ProgressFunc) {
	c.progress = fn
}

func (c *Crawler) report(read int, skipped *atomic.Int64, final bool) {
	if c.progress == nil || (!final && read%progressEvery != 0) {
		return
	}
	c.progress(read, int(skipped.Load()))
}

// Crawl returns the metadata of every readable audio file under root,
// sorted by path. Files that cannot be read are logged and skipped.
func (c *Crawler) Crawl(ctx context.Context, root string) ([]domain.Metadata, error) {
	start := time.Now()

	files := make(chan string, 100)
	results := make(chan domain.Metadata, 100)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(files)
		return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == root {
					return err
				}
				c.logger.Warn("skipping unreadable path", "path", path, "error", err)
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() || !c.exts[strings.ToLower(filepath.Ext(path))] {
				return nil
			}
			select {
			case files <- filepath.Clean(path):
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	})

	var failed atomic.Int64
	for range c.workers {
		g.Go(func() error {
			for path := range files {
				if gctx.Err() != nil {
					continue
				}
				m, err := c.read(path)
				if err != nil {
					c.logger.Warn("skipping unreadable file", "path", path, "error", err)
					failed.Add(1)
					continue
				}
				results <- m
			}
			return nil
		})
	}

	var walkErr error
	go func() {
		walkErr = g.Wait()
		close(results)
	}()

	var out []domain.Metadata
	for m := range results {
		out = append(out, m)
		c.report(len(out), &failed, false)
	}

	if walkErr != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, walkErr)
	}

	c.report(len(out), &failed, true)
	slices.SortFunc(out, func(a, b domain.Metadata) int { return strings.Compare(a.Path, b.Path) })

	c.logger.Info("crawled collection",
		"root", root,
		"files", len(out),
		"skipped", failed.Load(),
		"workers", c.workers,
		"duration", time.Since(start),
	)
	return out, nil
}
