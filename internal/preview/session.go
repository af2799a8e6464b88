package preview

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"media-sweep/internal/analytics"
	"media-sweep/internal/asset"
	"media-sweep/internal/classify"
	"media-sweep/internal/library"
	"media-sweep/internal/selection"
)

// Options tunes a session. Zero values fall back to the upstream defaults.
type Options struct {
	Fetch     library.FetchOptions
	ScanLimit int              // raw assets per load, default and cap 200
	Now       func() time.Time // injected for deterministic classification
}

// Session runs the category load pipeline: permission check, enumeration,
// metadata fan-out, classification, selection list. One session serves many
// loads; each load owns its own selection list.
type Session struct {
	lib  library.Library
	gate selection.Entitlement
	sink analytics.Sink
	log  zerolog.Logger
	opts Options
}

// Load is one completed category load.
type Load struct {
	Category asset.Category
	List     *selection.List
}

// Count returns the number of assets in the loaded category.
func (l *Load) Count() int { return l.List.Len() }

// TotalSize returns the combined byte count of the loaded assets.
func (l *Load) TotalSize() int64 {
	var total int64
	for _, a := range l.List.Assets() {
		total += a.SizeOrZero()
	}
	return total
}

// AllClean reports the distinct "no files found" condition.
func (l *Load) AllClean() bool { return l.List.Len() == 0 }

// NewSession builds a session over the library.
func NewSession(lib library.Library, gate selection.Entitlement, sink analytics.Sink, log zerolog.Logger, opts Options) *Session {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Session{lib: lib, gate: gate, sink: sink, log: log, opts: opts}
}

// Load runs the pipeline for one category. The classifier only runs once
// every metadata lookup has completed or failed; a canceled context aborts
// the load before any result is handed back, so an abandoned screen never
// sees a stale list. Permission refusal surfaces as
// library.ErrPermissionDenied, a non-enumerable category as
// classify.ErrNotEnumerable, and an empty list is the all-clean state.
func (s *Session) Load(ctx context.Context, category asset.Category) (*Load, error) {
	if !category.Enumerable() {
		return nil, classify.ErrNotEnumerable
	}

	s.sink.Track(analytics.PageView{Page: "FilePreview"})
	s.sink.Track(analytics.PreviewOpened{Category: category})

	raw, err := s.lib.ListAssets(ctx, s.queryFor(category))
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	enriched, err := library.FetchInfo(ctx, s.lib, raw, s.opts.Fetch)
	if err != nil {
		return nil, err
	}

	classified, err := classify.Classify(category, enriched, s.opts.Now())
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.log.Debug().
		Str("category", category.Title()).
		Int("raw", len(raw)).
		Int("kept", len(enriched)).
		Int("shown", len(classified)).
		Msg("category loaded")

	return &Load{Category: category, List: selection.NewList(classified, s.gate)}, nil
}

// queryFor mirrors the per-category enumeration filters: videos for Large
// Videos, photos for duplicates, both for Old Downloads, photos for the
// catch-all. Always newest first, always capped upstream.
func (s *Session) queryFor(category asset.Category) library.Query {
	q := library.Query{
		SortBy: library.SortCreationTime,
		Limit:  s.opts.ScanLimit,
	}
	switch category {
	case asset.CategoryLargeVideos:
		q.Types = []asset.MediaType{asset.MediaTypeVideo}
	case asset.CategoryOldDownloads:
		q.Types = []asset.MediaType{asset.MediaTypePhoto, asset.MediaTypeVideo}
	default:
		q.Types = []asset.MediaType{asset.MediaTypePhoto}
	}
	return q
}
