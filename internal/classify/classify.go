package classify

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"media-sweep/internal/asset"
)

// maxResults bounds every category list except the duplicate path, which is
// bounded by what the grouper returns.
const maxResults = 50

// oldDownloadAge is the cutoff for the Old Downloads category.
const oldDownloadAge = 30 * 24 * time.Hour

// ErrNotEnumerable is returned for categories that never produce a file list
// and redirect to an explanatory notice instead.
var ErrNotEnumerable = errors.New("category cannot be enumerated on this device")

// Classify maps a raw asset list and a category to the bounded, ordered
// subset relevant to that category. It is pure: the input slice is not
// modified, and identical (assets, now) always produce identical output.
func Classify(category asset.Category, assets []asset.MediaAsset, now time.Time) ([]asset.MediaAsset, error) {
	switch category {
	case asset.CategoryDuplicatePhotos:
		return GroupDuplicates(assets), nil
	case asset.CategoryLargeVideos:
		return largeVideos(assets), nil
	case asset.CategoryOldDownloads:
		return oldDownloads(assets, now), nil
	case asset.CategoryUnnecessaryFiles:
		return largestFirst(assets), nil
	case asset.CategoryCacheJunk:
		return nil, ErrNotEnumerable
	}
	return nil, fmt.Errorf("unknown category %q", category)
}

// largeVideos keeps videos longer than 10 seconds, largest file first.
func largeVideos(assets []asset.MediaAsset) []asset.MediaAsset {
	out := make([]asset.MediaAsset, 0, len(assets))
	for _, a := range assets {
		if a.MediaType == asset.MediaTypeVideo && a.Duration > 10 {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SizeOrZero() > out[j].SizeOrZero()
	})
	return truncate(out)
}

// oldDownloads keeps assets created more than 30 days before now, oldest
// first. An unknown creation time sorts as 0, i.e. first.
func oldDownloads(assets []asset.MediaAsset, now time.Time) []asset.MediaAsset {
	cutoff := now.UnixMilli() - oldDownloadAge.Milliseconds()
	out := make([]asset.MediaAsset, 0, len(assets))
	for _, a := range assets {
		if a.CreationTime < cutoff {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreationTime < out[j].CreationTime
	})
	return truncate(out)
}

// largestFirst is the catch-all pipeline: no filter, largest file first.
func largestFirst(assets []asset.MediaAsset) []asset.MediaAsset {
	out := make([]asset.MediaAsset, len(assets))
	copy(out, assets)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SizeOrZero() > out[j].SizeOrZero()
	})
	return truncate(out)
}

func truncate(assets []asset.MediaAsset) []asset.MediaAsset {
	if len(assets) > maxResults {
		return assets[:maxResults]
	}
	return assets
}
