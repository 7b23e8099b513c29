package utils

import "strings"

// FilenameFromURL returns the last path segment of a URL, without any query
// string or fragment.
func FilenameFromURL(rawURL string) string {
	name := rawURL
	if idx := strings.IndexAny(name, "?#"); idx >= 0 {
		name = name[:idx]
	}
	name = strings.TrimSuffix(name, "/")
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	return name
}

// ImageFilename builds the destination filename for an image by prefixing
// the source URL's filename with the breed's full name.
func ImageFilename(breedFullName, imageURL string) string {
	return breedFullName + "_" + FilenameFromURL(imageURL)
}

// JoinFolder joins remote path segments with a single slash separator.
func JoinFolder(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		s = strings.Trim(s, "/")
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "/")
}
