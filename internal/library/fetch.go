package library

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"media-sweep/internal/asset"
)

// defaultEstimatedSize is the last-resort file size when neither metadata
// nor a type-specific estimate is available.
const defaultEstimatedSize = 3 * 1024 * 1024

// MetadataSource is the per-asset metadata half of the Library contract.
type MetadataSource interface {
	AssetInfo(ctx context.Context, a asset.MediaAsset) (Info, error)
}

// FetchOptions bounds the metadata fan-out.
type FetchOptions struct {
	Concurrency int           // parallel lookups, default 4
	Attempts    int           // tries per asset, default 3
	RetryDelay  time.Duration // backoff base, default 100ms
	Timeout     time.Duration // per-call timeout, default 5s
}

func (o FetchOptions) withDefaults() FetchOptions {
	if o.Concurrency < 1 {
		o.Concurrency = 4
	}
	if o.Attempts < 1 {
		o.Attempts = 3
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = 100 * time.Millisecond
	}
	if o.Timeout <= 0 {
		o.Timeout = 5 * time.Second
	}
	return o
}

// FetchInfo looks up metadata for every asset concurrently and returns the
// assets with file sizes filled in, preserving input order. Lookups that
// still fail after the bounded retries drop their asset from the result;
// only cancellation aborts the whole batch. The caller is guaranteed that
// every lookup has completed or failed before FetchInfo returns.
func FetchInfo(ctx context.Context, src MetadataSource, assets []asset.MediaAsset, opts FetchOptions) ([]asset.MediaAsset, error) {
	opts = opts.withDefaults()

	results := make([]asset.MediaAsset, len(assets))
	kept := make([]bool, len(assets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for i := range assets {
		i := i
		a := assets[i]
		g.Go(func() error {
			info, err := lookupWithRetry(gctx, src, a, opts)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				// partial metadata failure: drop the asset, keep the batch
				return nil
			}
			size := info.Size
			if size <= 0 {
				size = estimateSize(a)
			}
			a.FileSize = size
			results[i] = a
			kept[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// a source that ignores its ctx can succeed after cancellation; the
	// batch must still abort rather than hand back a result
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]asset.MediaAsset, 0, len(assets))
	for i, ok := range kept {
		if ok {
			out = append(out, results[i])
		}
	}
	return out, nil
}

func lookupWithRetry(ctx context.Context, src MetadataSource, a asset.MediaAsset, opts FetchOptions) (Info, error) {
	var lastErr error
	for attempt := 1; attempt <= opts.Attempts; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
		info, err := src.AssetInfo(callCtx, a)
		cancel()
		if err == nil {
			return info, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return Info{}, ctx.Err()
		}
		if attempt == opts.Attempts {
			break
		}
		select {
		case <-ctx.Done():
			return Info{}, ctx.Err()
		case <-time.After(opts.RetryDelay * time.Duration(attempt)):
		}
	}
	return Info{}, lastErr
}

// estimateSize mirrors the size heuristics used when the platform cannot
// report a real byte count: videos at ~5 MB per second, photos from raw
// pixel volume, 3 MB otherwise.
func estimateSize(a asset.MediaAsset) int64 {
	switch a.MediaType {
	case asset.MediaTypeVideo:
		if a.Duration > 0 {
			return int64(a.Duration * estimatedVideoRate)
		}
	case asset.MediaTypePhoto:
		if a.Width > 0 && a.Height > 0 {
			return int64(a.Width) * int64(a.Height) * 3 / 8
		}
	}
	return defaultEstimatedSize
}
