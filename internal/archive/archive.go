package archive

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"media-sweep/internal/asset"
)

// Resolver maps an asset id to the file path behind it.
type Resolver func(id string) (string, bool)

// Backup writes the given assets into one zip archive under destDir and
// returns the archive path and bytes written. Any unresolvable or unreadable
// asset fails the whole backup; callers use this as a safety net before
// deletion, so a partial archive is worse than none.
func Backup(ctx context.Context, assets []asset.MediaAsset, resolve Resolver, destDir string) (string, int64, error) {
	if len(assets) == 0 {
		return "", 0, errors.New("nothing to back up")
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", 0, fmt.Errorf("create backup dir: %w", err)
	}

	dest := nextAvailable(filepath.Join(destDir, "media-sweep-backup.zip"))
	f, err := os.Create(dest)
	if err != nil {
		return "", 0, fmt.Errorf("create archive: %w", err)
	}

	written, err := writeArchive(ctx, f, assets, resolve)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dest)
		return "", 0, err
	}
	return dest, written, nil
}

func writeArchive(ctx context.Context, f *os.File, assets []asset.MediaAsset, resolve Resolver) (int64, error) {
	zw := zip.NewWriter(f)
	used := make(map[string]int)
	var total int64

	for _, a := range assets {
		select {
		case <-ctx.Done():
			return total, ctx.Err()
		default:
		}

		path, ok := resolve(a.ID)
		if !ok {
			return total, fmt.Errorf("no file for asset %s", a.ID)
		}
		info, err := os.Stat(path)
		if err != nil {
			return total, fmt.Errorf("stat %s: %w", path, err)
		}
		hdr, err := zip.FileInfoHeader(info)
		if err != nil {
			return total, err
		}
		hdr.Name = entryName(used, a.Filename)
		hdr.Method = zip.Deflate

		w, err := zw.CreateHeader(hdr)
		if err != nil {
			return total, err
		}
		rf, err := os.Open(path)
		if err != nil {
			return total, fmt.Errorf("open %s: %w", path, err)
		}
		n, err := io.Copy(w, rf)
		rf.Close()
		if err != nil {
			return total, fmt.Errorf("archive %s: %w", a.Filename, err)
		}
		total += n
	}

	if err := zw.Close(); err != nil {
		return total, err
	}
	return total, nil
}

// entryName makes filenames unique inside the archive: the second a.jpg
// becomes a-1.jpg.
func entryName(used map[string]int, name string) string {
	n := used[name]
	used[name] = n + 1
	if n == 0 {
		return name
	}
	ext := filepath.Ext(name)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(name, ext), n, ext)
}

func nextAvailable(p string) string {
	if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
		return p
	}
	dir := filepath.Dir(p)
	base := filepath.Base(p)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	for i := 1; i < 10000; i++ {
		cand := filepath.Join(dir, fmt.Sprintf("%s-%d%s", name, i, ext))
		if _, err := os.Stat(cand); errors.Is(err, fs.ErrNotExist) {
			return cand
		}
	}
	return p
}
