package classify

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"media-sweep/internal/asset"
)

// GroupDuplicates identifies actual duplicate photos by exact match on the
// (width, height, fileSize) fingerprint. Metadata-only on purpose: it never
// reads file bytes, trading false negatives for responsiveness.
//
// Members of each surviving group are ordered by filename using locale-aware
// collation, groups appear in first-seen input order, and every member is
// tagged with its group key. An empty result means "no duplicates found" and
// callers render it as an all-clean state, not an error.
func GroupDuplicates(assets []asset.MediaAsset) []asset.MediaAsset {
	groups := make(map[string][]asset.MediaAsset)
	var order []string

	for _, a := range assets {
		if a.MediaType != asset.MediaTypePhoto {
			continue
		}
		key := a.FingerprintKey()
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], a)
	}

	coll := collate.New(language.Und)
	var out []asset.MediaAsset
	for _, key := range order {
		group := groups[key]
		if len(group) < 2 {
			continue
		}
		sort.SliceStable(group, func(i, j int) bool {
			return coll.CompareString(group[i].Filename, group[j].Filename) < 0
		})
		for _, a := range group {
			a.GroupKey = key
			out = append(out, a)
		}
	}
	return out
}
