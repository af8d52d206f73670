package enums

import "strings"

type MediaKind string

const (
	MediaKindImagePost MediaKind = "image_post"
	MediaKindVideo     MediaKind = "video"
	MediaKindExternal  MediaKind = "external"
	MediaKindOther     MediaKind = "other"
)

func ParseMediaKind(raw string) (MediaKind, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "image_post", "post", "image":
		return MediaKindImagePost, true
	case "video":
		return MediaKindVideo, true
	case "external", "website", "link":
		return MediaKindExternal, true
	case "other":
		return MediaKindOther, true
	}
	return "", false
}
