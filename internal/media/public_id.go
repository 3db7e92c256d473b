package media

import (
	"path"
	"strings"
)

// PublicIDFromURL derives the host-side public id from a stored access URL:
// the last path segment minus any file extension, namespaced under folder.
// Returns "" when the URL has no usable segment.
func PublicIDFromURL(rawURL, folder string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(rawURL), "/")
	if trimmed == "" {
		return ""
	}
	segment := trimmed
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		segment = trimmed[idx+1:]
	}
	segment = strings.TrimSuffix(segment, path.Ext(segment))
	if segment == "" {
		return ""
	}
	if folder == "" {
		return segment
	}
	return folder + "/" + segment
}
