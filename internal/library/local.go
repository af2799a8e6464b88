package library

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"media-sweep/internal/asset"
)

// estimatedVideoRate approximates bytes per second of video when no real
// duration metadata is available.
const estimatedVideoRate = 5 * 1024 * 1024

var photoExts = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {},
	".bmp": {}, ".tif": {}, ".tiff": {}, ".heic": {},
}

var videoExts = map[string]struct{}{
	".mp4": {}, ".mov": {}, ".avi": {}, ".mkv": {}, ".webm": {}, ".m4v": {},
}

var audioExts = map[string]struct{}{
	".mp3": {}, ".m4a": {}, ".wav": {}, ".aac": {}, ".flac": {}, ".ogg": {},
}

// LocalLibrary implements Library over a directory of media files, standing
// in for the platform media store. Asset ids are minted per enumeration and
// resolved back to paths for metadata and deletion.
type LocalLibrary struct {
	root        string
	concurrency int
	log         zerolog.Logger

	mu    sync.Mutex
	paths map[string]string // asset id -> absolute path
}

// NewLocal builds a library rooted at dir.
func NewLocal(dir string, concurrency int, log zerolog.Logger) *LocalLibrary {
	if concurrency < 1 {
		concurrency = 1
	}
	return &LocalLibrary{
		root:        dir,
		concurrency: concurrency,
		log:         log,
		paths:       make(map[string]string),
	}
}

// ListAssets walks the root and returns raw asset descriptors matching the
// query, sorted and clamped to the upstream cap. File sizes are left unset;
// they arrive through AssetInfo like any other per-asset metadata.
func (l *LocalLibrary) ListAssets(ctx context.Context, q Query) ([]asset.MediaAsset, error) {
	f, err := os.Open(l.root)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, l.root)
		}
		return nil, fmt.Errorf("open library root: %w", err)
	}
	f.Close()

	type entry struct {
		a    asset.MediaAsset
		path string
		size int64
	}
	var entries []entry

	walkErr := filepath.WalkDir(l.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrPermission) {
				return nil // skip unreadable subtrees
			}
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if d.IsDir() {
			if d.Name() != "." && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}
		mt := kindOf(path)
		if mt == asset.MediaTypeUnknown {
			return nil
		}
		if !q.wants(mt) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		a := asset.MediaAsset{
			ID:           uuid.NewString(),
			URI:          "file://" + path,
			Filename:     d.Name(),
			MediaType:    mt,
			CreationTime: info.ModTime().UnixMilli(),
		}
		if mt == asset.MediaTypePhoto {
			a.Width, a.Height = imageDims(path)
		}
		if mt == asset.MediaTypeVideo {
			a.Duration = float64(info.Size()) / float64(estimatedVideoRate)
		}
		entries = append(entries, entry{a: a, path: path, size: info.Size()})
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	switch q.SortBy {
	case SortFileSize:
		sort.SliceStable(entries, func(i, j int) bool {
			if q.Ascending {
				return entries[i].size < entries[j].size
			}
			return entries[i].size > entries[j].size
		})
	default:
		sort.SliceStable(entries, func(i, j int) bool {
			if q.Ascending {
				return entries[i].a.CreationTime < entries[j].a.CreationTime
			}
			return entries[i].a.CreationTime > entries[j].a.CreationTime
		})
	}

	limit := q.limit()
	if len(entries) > limit {
		entries = entries[:limit]
	}

	out := make([]asset.MediaAsset, 0, len(entries))
	l.mu.Lock()
	for _, e := range entries {
		l.paths[e.a.ID] = e.path
		out = append(out, e.a)
	}
	l.mu.Unlock()

	l.log.Debug().Int("assets", len(out)).Str("root", l.root).Msg("library enumerated")
	return out, nil
}

// AssetInfo stats the file behind the asset and returns its size.
func (l *LocalLibrary) AssetInfo(ctx context.Context, a asset.MediaAsset) (Info, error) {
	select {
	case <-ctx.Done():
		return Info{}, ctx.Err()
	default:
	}
	path, ok := l.PathFor(a.ID)
	if !ok {
		return Info{}, fmt.Errorf("unknown asset id %s", a.ID)
	}
	st, err := os.Stat(path)
	if err != nil {
		return Info{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return Info{Size: st.Size()}, nil
}

// DeleteAssets removes the files behind the given ids with a small worker
// pool. It returns the ids actually removed; if any removal failed the
// returned error describes every failure and the caller treats the batch as
// failed while reconciling against the returned ids.
func (l *LocalLibrary) DeleteAssets(ctx context.Context, ids []string) ([]string, error) {
	jobs := make(chan string)
	var wg sync.WaitGroup

	var mu sync.Mutex
	var deleted []string
	var failures []error

	worker := func() {
		defer wg.Done()
		for id := range jobs {
			var err error
			select {
			case <-ctx.Done():
				err = ctx.Err()
			default:
				path, ok := l.PathFor(id)
				if !ok {
					err = fmt.Errorf("unknown asset id %s", id)
				} else {
					err = os.Remove(path)
				}
			}
			mu.Lock()
			if err != nil {
				failures = append(failures, fmt.Errorf("delete %s: %w", id, err))
			} else {
				deleted = append(deleted, id)
			}
			mu.Unlock()
		}
	}

	wg.Add(l.concurrency)
	for i := 0; i < l.concurrency; i++ {
		go worker()
	}
	go func() {
		defer close(jobs)
		for _, id := range ids {
			select {
			case <-ctx.Done():
				return
			case jobs <- id:
			}
		}
	}()
	wg.Wait()

	l.mu.Lock()
	for _, id := range deleted {
		delete(l.paths, id)
	}
	l.mu.Unlock()

	return deleted, combineErrors(failures)
}

// PathFor resolves an asset id to its file path.
func (l *LocalLibrary) PathFor(id string) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.paths[id]
	return p, ok
}

func kindOf(path string) asset.MediaType {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := photoExts[ext]; ok {
		return asset.MediaTypePhoto
	}
	if _, ok := videoExts[ext]; ok {
		return asset.MediaTypeVideo
	}
	if _, ok := audioExts[ext]; ok {
		return asset.MediaTypeAudio
	}
	return asset.MediaTypeUnknown
}

// imageDims reads just the image header for pixel dimensions. Undecodable
// files keep zero dimensions; the classifier copes with that.
func imageDims(path string) (int, int) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}

func combineErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	var b strings.Builder
	b.WriteString("multiple errors:")
	for _, e := range errs {
		if e == nil {
			continue
		}
		b.WriteString("\n - ")
		b.WriteString(e.Error())
	}
	return errors.New(b.String())
}
