package summary

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"media-sweep/internal/analytics"
	"media-sweep/internal/asset"
	"media-sweep/internal/library"
	"media-sweep/internal/preview"
)

type stubGate struct{}

func (stubGate) Allowed() bool { return true }

type fakeLibrary struct {
	assets []asset.MediaAsset
	sizes  map[string]int64
}

func (f *fakeLibrary) ListAssets(ctx context.Context, q library.Query) ([]asset.MediaAsset, error) {
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
	return library.Info{Size: f.sizes[a.ID]}, nil
}

func (f *fakeLibrary) DeleteAssets(ctx context.Context, ids []string) ([]string, error) {
	return ids, nil
}

func TestOverview(t *testing.T) {
	old := time.Now().Add(-90 * 24 * time.Hour).UnixMilli()
	lib := &fakeLibrary{
		assets: []asset.MediaAsset{
			{ID: "v", MediaType: asset.MediaTypeVideo, Duration: 30},
			{ID: "p1", Filename: "a.jpg", MediaType: asset.MediaTypePhoto, Width: 1, Height: 1, CreationTime: old},
			{ID: "p2", Filename: "b.jpg", MediaType: asset.MediaTypePhoto, Width: 1, Height: 1, CreationTime: old},
		},
		sizes: map[string]int64{"v": 1000, "p1": 50, "p2": 50},
	}
	sess := preview.NewSession(lib, stubGate{}, analytics.NopSink{}, zerolog.Nop(), preview.Options{
		Fetch: library.FetchOptions{Attempts: 1, RetryDelay: time.Millisecond},
	})

	rows, grand, err := Overview(context.Background(), sess)
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if len(rows) != len(asset.Categories()) {
		t.Fatalf("rows = %d", len(rows))
	}
	byCat := map[asset.Category]CategorySummary{}
	for _, r := range rows {
		byCat[r.Category] = r
	}
	if got := byCat[asset.CategoryLargeVideos]; got.Count != 1 || got.TotalBytes != 1000 {
		t.Fatalf("large videos = %+v", got)
	}
	if got := byCat[asset.CategoryDuplicatePhotos]; got.Count != 2 || got.TotalBytes != 100 {
		t.Fatalf("duplicates = %+v", got)
	}
	if got := byCat[asset.CategoryCacheJunk]; got.Enumerable || got.Count != 0 {
		t.Fatalf("cache & junk = %+v", got)
	}
	if grand == 0 {
		t.Fatal("grand total should be non-zero")
	}
}
