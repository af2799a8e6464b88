package library

import (
	"context"
	"errors"

	"media-sweep/internal/asset"
)

// ErrPermissionDenied signals that media enumeration was refused. Callers
// surface a distinct "permission required" condition; classification never
// proceeds.
var ErrPermissionDenied = errors.New("media library access denied")

// maxQueryLimit is the upstream cap on assets returned per load.
const maxQueryLimit = 200

// SortKey selects the enumeration order of a query.
type SortKey string

const (
	SortCreationTime SortKey = "creationTime"
	SortFileSize     SortKey = "fileSize"
)

// Query describes one enumeration request. A zero Limit, or anything above
// the upstream cap, is clamped to 200.
type Query struct {
	Types     []asset.MediaType
	SortBy    SortKey
	Ascending bool
	Limit     int
}

func (q Query) limit() int {
	if q.Limit <= 0 || q.Limit > maxQueryLimit {
		return maxQueryLimit
	}
	return q.Limit
}

func (q Query) wants(mt asset.MediaType) bool {
	if len(q.Types) == 0 {
		return true
	}
	for _, t := range q.Types {
		if t == mt {
			return true
		}
	}
	return false
}

// Info is the per-asset metadata record. A zero Size means the library could
// not determine one and the caller falls back to an estimate.
type Info struct {
	Size int64
}

// Library is the media-library collaborator contract: enumeration, per-asset
// metadata and batch deletion. DeleteAssets reports the ids actually removed
// so callers can reconcile after a partial failure.
type Library interface {
	ListAssets(ctx context.Context, q Query) ([]asset.MediaAsset, error)
	AssetInfo(ctx context.Context, a asset.MediaAsset) (Info, error)
	DeleteAssets(ctx context.Context, ids []string) ([]string, error)
}
