package asset

// MediaType identifies the kind of a media asset.
type MediaType string

const (
	MediaTypePhoto   MediaType = "photo"
	MediaTypeVideo   MediaType = "video"
	MediaTypeAudio   MediaType = "audio"
	MediaTypeUnknown MediaType = "unknown"
)

// String returns the string representation of MediaType.
func (mt MediaType) String() string {
	return string(mt)
}

// ParseMediaType maps a raw string onto a MediaType, falling back to
// MediaTypeUnknown for anything unrecognized.
func ParseMediaType(s string) MediaType {
	switch s {
	case "photo":
		return MediaTypePhoto
	case "video":
		return MediaTypeVideo
	case "audio":
		return MediaTypeAudio
	default:
		return MediaTypeUnknown
	}
}
