package library

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"media-sweep/internal/asset"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

func writeFileOfSize(t *testing.T, path string, size int64) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := f.Truncate(size); err != nil {
		t.Fatalf("truncate %s: %v", path, err)
	}
}

func testLib(t *testing.T, root string) *LocalLibrary {
	t.Helper()
	return NewLocal(root, 2, zerolog.Nop())
}

func TestListAssetsClassifiesByExtension(t *testing.T) {
	root := t.TempDir()
	writePNG(t, filepath.Join(root, "a.png"), 10, 20)
	writeFileOfSize(t, filepath.Join(root, "clip.mp4"), 1024)
	writeFileOfSize(t, filepath.Join(root, "song.mp3"), 512)
	writeFileOfSize(t, filepath.Join(root, "notes.txt"), 10)

	lib := testLib(t, root)
	assets, err := lib.ListAssets(context.Background(), Query{})
	if err != nil {
		t.Fatalf("ListAssets: %v", err)
	}
	if len(assets) != 3 {
		t.Fatalf("len = %d; want 3 (txt skipped)", len(assets))
	}
	kinds := map[asset.MediaType]int{}
	for _, a := range assets {
		kinds[a.MediaType]++
		if a.ID == "" || a.URI == "" || a.Filename == "" {
			t.Fatalf("incomplete descriptor: %+v", a)
		}
		if a.FileSize != 0 {
			t.Fatalf("ListAssets must not fill sizes, got %d", a.FileSize)
		}
	}
	if kinds[asset.MediaTypePhoto] != 1 || kinds[asset.MediaTypeVideo] != 1 || kinds[asset.MediaTypeAudio] != 1 {
		t.Fatalf("kinds = %v", kinds)
	}
}

func TestListAssetsPhotoDimensions(t *testing.T) {
	root := t.TempDir()
	writePNG(t, filepath.Join(root, "a.png"), 32, 16)

	lib := testLib(t, root)
	assets, err := lib.ListAssets(context.Background(), Query{Types: []asset.MediaType{asset.MediaTypePhoto}})
	if err != nil {
		t.Fatalf("ListAssets: %v", err)
	}
	if len(assets) != 1 {
		t.Fatalf("len = %d", len(assets))
	}
	if assets[0].Width != 32 || assets[0].Height != 16 {
		t.Fatalf("dims = %dx%d", assets[0].Width, assets[0].Height)
	}
}

func TestListAssetsTypeFilterAndLimit(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 5; i++ {
		writeFileOfSize(t, filepath.Join(root, "v"+string(rune('a'+i))+".mp4"), int64(100*(i+1)))
	}
	writePNG(t, filepath.Join(root, "p.png"), 4, 4)

	lib := testLib(t, root)
	assets, err := lib.ListAssets(context.Background(), Query{
		Types:  []asset.MediaType{asset.MediaTypeVideo},
		SortBy: SortFileSize,
		Limit:  3,
	})
	if err != nil {
		t.Fatalf("ListAssets: %v", err)
	}
	if len(assets) != 3 {
		t.Fatalf("len = %d; want 3", len(assets))
	}
	for _, a := range assets {
		if a.MediaType != asset.MediaTypeVideo {
			t.Fatalf("type filter leaked %s", a.MediaType)
		}
	}
	// largest first by default
	if assets[0].Filename != "ve.mp4" {
		t.Fatalf("first = %s", assets[0].Filename)
	}
}

func TestAssetInfoReturnsRealSize(t *testing.T) {
	root := t.TempDir()
	writeFileOfSize(t, filepath.Join(root, "clip.mp4"), 2048)

	lib := testLib(t, root)
	assets, err := lib.ListAssets(context.Background(), Query{})
	if err != nil {
		t.Fatalf("ListAssets: %v", err)
	}
	info, err := lib.AssetInfo(context.Background(), assets[0])
	if err != nil {
		t.Fatalf("AssetInfo: %v", err)
	}
	if info.Size != 2048 {
		t.Fatalf("size = %d", info.Size)
	}
}

func TestDeleteAssetsRemovesFilesAndReportsIDs(t *testing.T) {
	root := t.TempDir()
	writeFileOfSize(t, filepath.Join(root, "a.mp4"), 10)
	writeFileOfSize(t, filepath.Join(root, "b.mp4"), 10)

	lib := testLib(t, root)
	assets, err := lib.ListAssets(context.Background(), Query{})
	if err != nil {
		t.Fatalf("ListAssets: %v", err)
	}
	ids := []string{assets[0].ID, assets[1].ID}
	deleted, err := lib.DeleteAssets(context.Background(), ids)
	if err != nil {
		t.Fatalf("DeleteAssets: %v", err)
	}
	if len(deleted) != 2 {
		t.Fatalf("deleted = %v", deleted)
	}
	for _, a := range assets {
		path := a.URI[len("file://"):]
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Fatalf("%s should be gone", path)
		}
	}
}

func TestDeleteAssetsPartialFailure(t *testing.T) {
	root := t.TempDir()
	writeFileOfSize(t, filepath.Join(root, "a.mp4"), 10)

	lib := testLib(t, root)
	assets, err := lib.ListAssets(context.Background(), Query{})
	if err != nil {
		t.Fatalf("ListAssets: %v", err)
	}
	deleted, err := lib.DeleteAssets(context.Background(), []string{assets[0].ID, "bogus-id"})
	if err == nil {
		t.Fatal("expected an error for the unknown id")
	}
	if len(deleted) != 1 || deleted[0] != assets[0].ID {
		t.Fatalf("deleted = %v", deleted)
	}
}

func TestListAssetsMissingRoot(t *testing.T) {
	lib := testLib(t, filepath.Join(t.TempDir(), "nope"))
	if _, err := lib.ListAssets(context.Background(), Query{}); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestListAssetsCreationTimeOrder(t *testing.T) {
	root := t.TempDir()
	oldPath := filepath.Join(root, "old.mp4")
	newPath := filepath.Join(root, "new.mp4")
	writeFileOfSize(t, oldPath, 10)
	writeFileOfSize(t, newPath, 10)
	past := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(oldPath, past, past); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	lib := testLib(t, root)
	assets, err := lib.ListAssets(context.Background(), Query{SortBy: SortCreationTime, Ascending: true})
	if err != nil {
		t.Fatalf("ListAssets: %v", err)
	}
	if assets[0].Filename != "old.mp4" {
		t.Fatalf("oldest first, got %s", assets[0].Filename)
	}
}
