package library

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/mmcdole/avalon/internal/domain"
	"golang.org/x/sync/singleflight"
)

// Commands rebuilds the collection from the record store.
type Commands struct {
	source domain.RecordSource
	live   *collection
	logger *slog.Logger
	flight singleflight.Group
	writes atomic.Uint64 // successful Ingest calls
}

// Reload reads the whole record set in one store transaction, builds a
// complete generation off to the side, and publishes it with a single
// pointer swap. On failure the previous generation stays live and the error
// wraps domain.ErrReloadFailed.
//
// Concurrent calls share one reload unless an Ingest committed in between;
// a reload requested after a write always reads that write. Once started a
// reload runs to completion even if the caller's context is canceled.
func (c *Commands) Reload(ctx context.Context) (Stats, error) {
	ctx = context.WithoutCancel(ctx)
	version := c.writes.Load()
	key := "reload-" + strconv.FormatUint(version, 10)

	v, err, shared := c.flight.Do(key, func() (any, error) {
		return c.reload(ctx, version)
	})
	if err != nil {
		return Stats{}, err
	}
	if shared {
		c.logger.Debug("joined in-flight reload", "version", version)
	}
	return v.(Stats), nil
}

func (c *Commands) reload(ctx context.Context, version uint64) (Stats, error) {
	start := time.Now()

	recs, err := c.source.GetAll(ctx)
	if err != nil {
		c.logger.Error("reload failed, keeping previous generation", "error", err)
		return Stats{}, fmt.Errorf("%w: failed to fetch collection: %w", domain.ErrReloadFailed, err)
	}

	gen := newGeneration(recs)
	gen.version = version
	gen.stats.LoadedAt = time.Now()
	gen.stats.Duration = time.Since(start)

	live := c.live.publish(gen)
	if live != gen {
		c.logger.Info("discarded reload, newer collection already live",
			"version", version,
			"liveVersion", live.version,
		)
		return live.stats, nil
	}

	c.logger.Info("reloaded collection",
		"tracks", gen.stats.Tracks,
		"albums", gen.stats.Albums,
		"artists", gen.stats.Artists,
		"genres", gen.stats.Genres,
		"trieNodes", gen.stats.TrieNodes,
		"version", version,
		"duration", gen.stats.Duration,
	)
	return gen.stats, nil
}

// Ingest crawls root, derives the collection records, and replaces the
// stored collection with them. The live generation is not touched; call
// Reload (or Rescan) to publish the result.
func (c *Commands) Ingest(
	ctx context.Context,
	scanner domain.Scanner,
	root string,
	writer domain.RecordWriter,
) (domain.Records, error) {
	scanned, err := scanner.Crawl(ctx, root)
	if err != nil {
		return domain.Records{}, fmt.Errorf("failed to scan collection: %w", err)
	}

	recs := domain.BuildRecords(scanned)
	if err := writer.ReplaceAll(ctx, recs); err != nil {
		return domain.Records{}, fmt.Errorf("failed to store collection: %w", err)
	}
	c.writes.Add(1)

	c.logger.Info("stored collection",
		"root", root,
		"files", len(scanned),
		"tracks", len(recs.Tracks),
		"albums", len(recs.Albums),
		"artists", len(recs.Artists),
		"genres", len(recs.Genres),
	)
	return recs, nil
}

// Rescan ingests root and then reloads the live collection from the store.
func (c *Commands) Rescan(
	ctx context.Context,
	scanner domain.Scanner,
	root string,
	writer domain.RecordWriter,
) (Stats, error) {
	if _, err := c.Ingest(ctx, scanner, root, writer); err != nil {
		c.logger.Error("rescan failed", "error", err, "root", root)
		return Stats{}, err
	}
	return c.Reload(ctx)
}
