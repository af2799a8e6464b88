package preview

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"media-sweep/internal/analytics"
	"media-sweep/internal/asset"
	"media-sweep/internal/classify"
	"media-sweep/internal/library"
)

type stubGate struct{ ok bool }

func (g stubGate) Allowed() bool { return g.ok }

// fakeLibrary serves canned assets and sizes.
type fakeLibrary struct {
	assets    []asset.MediaAsset
	sizes     map[string]int64
	infoFails map[string]bool
	listErr   error
	lastQuery library.Query
}

func (f *fakeLibrary) ListAssets(ctx context.Context, q library.Query) ([]asset.MediaAsset, error) {
	f.lastQuery = q
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []asset.MediaAsset
	for _, a := range f.assets {
		for _, t := range q.Types {
			if a.MediaType == t {
				out = append(out, a)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeLibrary) AssetInfo(ctx context.Context, a asset.MediaAsset) (library.Info, error) {
	if f.infoFails[a.ID] {
		return library.Info{}, errors.New("metadata unavailable")
	}
	return library.Info{Size: f.sizes[a.ID]}, nil
}

func (f *fakeLibrary) DeleteAssets(ctx context.Context, ids []string) ([]string, error) {
	return ids, nil
}

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestSession(lib library.Library) (*Session, *analytics.CaptureSink) {
	sink := &analytics.CaptureSink{}
	s := NewSession(lib, stubGate{ok: true}, sink, zerolog.Nop(), Options{
		Fetch: library.FetchOptions{Concurrency: 2, Attempts: 1, RetryDelay: time.Millisecond, Timeout: time.Second},
		Now:   func() time.Time { return fixedNow },
	})
	return s, sink
}

func TestLoadLargeVideos(t *testing.T) {
	lib := &fakeLibrary{
		assets: []asset.MediaAsset{
			{ID: "long", MediaType: asset.MediaTypeVideo, Duration: 30},
			{ID: "short", MediaType: asset.MediaTypeVideo, Duration: 3},
			{ID: "photo", MediaType: asset.MediaTypePhoto},
		},
		sizes: map[string]int64{"long": 500, "short": 100},
	}
	s, sink := newTestSession(lib)

	load, err := s.Load(context.Background(), asset.CategoryLargeVideos)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if load.Count() != 1 || load.List.Assets()[0].ID != "long" {
		t.Fatalf("assets = %v", load.List.Assets())
	}
	if load.TotalSize() != 500 {
		t.Fatalf("TotalSize = %d", load.TotalSize())
	}
	// only videos were requested from the library
	if len(lib.lastQuery.Types) != 1 || lib.lastQuery.Types[0] != asset.MediaTypeVideo {
		t.Fatalf("query types = %v", lib.lastQuery.Types)
	}
	// analytics fired
	var names []string
	for _, e := range sink.Events() {
		names = append(names, e.Name())
	}
	if len(names) != 2 || names[1] != "File Preview Opened" {
		t.Fatalf("events = %v", names)
	}
}

func TestLoadDropsFailedMetadata(t *testing.T) {
	lib := &fakeLibrary{
		assets: []asset.MediaAsset{
			{ID: "a", MediaType: asset.MediaTypePhoto, Width: 1, Height: 1, FileSize: 0},
			{ID: "b", MediaType: asset.MediaTypePhoto, Width: 1, Height: 1},
		},
		sizes:     map[string]int64{"a": 10, "b": 10},
		infoFails: map[string]bool{"b": true},
	}
	s, _ := newTestSession(lib)

	load, err := s.Load(context.Background(), asset.CategoryUnnecessaryFiles)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if load.Count() != 1 || load.List.Assets()[0].ID != "a" {
		t.Fatalf("assets = %v", load.List.Assets())
	}
}

func TestLoadAllClean(t *testing.T) {
	s, _ := newTestSession(&fakeLibrary{})
	load, err := s.Load(context.Background(), asset.CategoryDuplicatePhotos)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !load.AllClean() {
		t.Fatal("empty category should be all-clean, not an error")
	}
}

func TestLoadPermissionDenied(t *testing.T) {
	s, _ := newTestSession(&fakeLibrary{listErr: library.ErrPermissionDenied})
	_, err := s.Load(context.Background(), asset.CategoryLargeVideos)
	if !errors.Is(err, library.ErrPermissionDenied) {
		t.Fatalf("err = %v", err)
	}
}

func TestLoadCacheJunkRedirects(t *testing.T) {
	lib := &fakeLibrary{}
	s, _ := newTestSession(lib)
	_, err := s.Load(context.Background(), asset.CategoryCacheJunk)
	if !errors.Is(err, classify.ErrNotEnumerable) {
		t.Fatalf("err = %v", err)
	}
	if lib.lastQuery.Limit != 0 {
		t.Fatal("non-enumerable category must not hit the library")
	}
}

func TestLoadCanceledReturnsNoList(t *testing.T) {
	lib := &fakeLibrary{
		assets: []asset.MediaAsset{{ID: "a", MediaType: asset.MediaTypePhoto}},
		sizes:  map[string]int64{"a": 10},
	}
	s, _ := newTestSession(lib)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	load, err := s.Load(ctx, asset.CategoryUnnecessaryFiles)
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if load != nil {
		t.Fatal("canceled load must not hand back a list")
	}
}

func TestLoadDuplicatesEndToEnd(t *testing.T) {
	lib := &fakeLibrary{
		assets: []asset.MediaAsset{
			{ID: "1", Filename: "b.jpg", MediaType: asset.MediaTypePhoto, Width: 100, Height: 100},
			{ID: "2", Filename: "a.jpg", MediaType: asset.MediaTypePhoto, Width: 100, Height: 100},
			{ID: "3", Filename: "c.jpg", MediaType: asset.MediaTypePhoto, Width: 200, Height: 200},
		},
		sizes: map[string]int64{"1": 50, "2": 50, "3": 50},
	}
	s, _ := newTestSession(lib)

	load, err := s.Load(context.Background(), asset.CategoryDuplicatePhotos)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	assets := load.List.Assets()
	if len(assets) != 2 {
		t.Fatalf("assets = %v", assets)
	}
	if assets[0].Filename != "a.jpg" || assets[1].Filename != "b.jpg" {
		t.Fatalf("order = %s,%s", assets[0].Filename, assets[1].Filename)
	}
	if assets[0].GroupKey != "100x100x50" {
		t.Fatalf("GroupKey = %q", assets[0].GroupKey)
	}
}
