package asset

import "fmt"

// Category is one of the fixed cleanup buckets assets are classified into.
// Matching is exhaustive; an unrecognized category name is a parse error,
// never a silent fallthrough.
type Category string

const (
	CategoryDuplicatePhotos  Category = "Duplicate Photos"
	CategoryLargeVideos      Category = "Large Videos"
	CategoryOldDownloads     Category = "Old Downloads"
	CategoryUnnecessaryFiles Category = "Unnecessary Files"
	CategoryCacheJunk        Category = "Cache & Junk"
)

// Categories returns every category in display order.
func Categories() []Category {
	return []Category{
		CategoryDuplicatePhotos,
		CategoryLargeVideos,
		CategoryOldDownloads,
		CategoryUnnecessaryFiles,
		CategoryCacheJunk,
	}
}

// ParseCategory maps a display title onto a Category.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryDuplicatePhotos, CategoryLargeVideos, CategoryOldDownloads,
		CategoryUnnecessaryFiles, CategoryCacheJunk:
		return Category(s), nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Title returns the user-facing display title.
func (c Category) Title() string {
	return string(c)
}

// Enumerable reports whether the category can produce a concrete file list.
// Cache & Junk cannot be enumerated on-device and always redirects to an
// explanatory notice instead.
func (c Category) Enumerable() bool {
	return c != CategoryCacheJunk
}
