package urlbuilder

import (
	"slices"
	"strings"
)

// pathSegments holds a URL path as a list of cleaned segments. A trailing slash
// is recorded by the flag, never by an empty last segment.
type pathSegments struct {
	segments      []string
	trailingSlash bool
}

func (p *pathSegments) String() string {
	path := strings.Join(p.segments, "/")
	if len(p.segments) > 0 && p.trailingSlash {
		path += "/"
	}
	return path
}

func (p *pathSegments) set(path string) {
	p.segments = p.segments[:0]
	for _, segment := range strings.Split(path, "/") {
		p.add(segment)
	}
	// The flag follows the raw input, even when its last part was dropped as empty.
	p.trailingSlash = strings.HasSuffix(path, "/")
}

// add appends segment. The trailing slash flag is taken from the raw segment,
// so adding "/" marks the path as ending in a slash without adding a segment.
func (p *pathSegments) add(segment string) {
	p.segments = append(p.segments, splitSegment(segment)...)
	p.trailingSlash = strings.HasSuffix(segment, "/")
}

// remove deletes the first occurrence of segment, if present.
func (p *pathSegments) remove(segment string) {
	parts := splitSegment(segment)
	if len(parts) == 0 {
		return
	}
	for i := 0; i+len(parts) <= len(p.segments); i++ {
		if slices.Equal(p.segments[i:i+len(parts)], parts) {
			p.segments = slices.Delete(p.segments, i, i+len(parts))
			return
		}
	}
}

func (p *pathSegments) clone() pathSegments {
	return pathSegments{
		segments:      slices.Clone(p.segments),
		trailingSlash: p.trailingSlash,
	}
}

// splitSegment cleans segment and splits it on any slashes left inside it, so
// that no stored segment contains a '/'.
func splitSegment(segment string) (parts []string) {
	for _, part := range strings.Split(cleanSegment(segment), "/") {
		if part == "" {
			continue
		}
		parts = append(parts, part)
	}
	return parts
}
