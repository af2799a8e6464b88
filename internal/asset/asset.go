package asset

import "fmt"

// MediaAsset represents one photo, video or audio record sourced from the
// device media library. It is constructed fresh on each category load and
// discarded when the preview is dismissed; nothing here persists.
type MediaAsset struct {
	ID           string    `json:"id"`
	URI          string    `json:"uri"`
	Filename     string    `json:"filename"`
	MediaType    MediaType `json:"mediaType"`
	Duration     float64   `json:"duration"` // seconds, 0 for photos
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	FileSize     int64     `json:"fileSize"`     // bytes, 0 when unknown
	CreationTime int64     `json:"creationTime"` // ms since epoch, 0 when unknown
	Selected     bool      `json:"selected"`
	GroupKey     string    `json:"groupKey,omitempty"` // set only for duplicate groups
}

// SizeOrZero returns the file size, treating unknown as 0.
func (a MediaAsset) SizeOrZero() int64 {
	if a.FileSize < 0 {
		return 0
	}
	return a.FileSize
}

// FingerprintKey is the composite duplicate-detection key: dimensions plus
// file size. Strict equality on metadata, not content hashing.
func (a MediaAsset) FingerprintKey() string {
	return fmt.Sprintf("%dx%dx%d", a.Width, a.Height, a.SizeOrZero())
}
