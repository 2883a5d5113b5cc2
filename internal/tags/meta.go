package tags

import (
	"regexp"

	"renderview/internal/logging"

	"go.uber.org/zap"
)

// MetaTag is one <meta name=... content=...> tag found in content.
type MetaTag struct {
	Span
	Name    string
	Content string
}

// MetaResult is the outcome of a meta tag extraction pass.
type MetaResult struct {
	// Content is the input with all well-formed meta tags removed.
	Content string
	// Meta maps tag name to content; a repeated name keeps the later value.
	Meta map[string]string
	// Tags holds every well-formed tag in ascending source order.
	Tags []MetaTag
}

// Meta tag names the host document applier recognizes.
const (
	MetaFavicon     = "favicon"
	MetaTitle       = "title"
	MetaThemeColor  = "theme-color"
	MetaDescription = "description"
)

// Both attributes are required; the two patterns cover the two orders.
var (
	metaNameFirst    = regexp.MustCompile(`(?i)<meta\s+name\s*=\s*["']([^"']*)["']\s+content\s*=\s*["']([^"']*)["']\s*/?\s*>`)
	metaContentFirst = regexp.MustCompile(`(?i)<meta\s+content\s*=\s*["']([^"']*)["']\s+name\s*=\s*["']([^"']*)["']\s*/?\s*>`)
)

// HasMetaTags cheaply reports whether content contains at least one
// well-formed meta tag with a non-empty name, the same filter the full
// parse applies.
func HasMetaTags(content string) bool {
	for _, m := range metaNameFirst.FindAllStringSubmatch(content, -1) {
		if m[1] != "" {
			return true
		}
	}
	for _, m := range metaContentFirst.FindAllStringSubmatch(content, -1) {
		if m[2] != "" {
			return true
		}
	}
	return false
}

// ParseMetaTags extracts every meta tag from content and strips them.
func ParseMetaTags(content string) MetaResult {
	var found []MetaTag
	for _, m := range metaNameFirst.FindAllStringSubmatchIndex(content, -1) {
		found = append(found, MetaTag{
			Span:    Span{Original: content[m[0]:m[1]], StartIndex: m[0], EndIndex: m[1]},
			Name:    content[m[2]:m[3]],
			Content: content[m[4]:m[5]],
		})
	}
	for _, m := range metaContentFirst.FindAllStringSubmatchIndex(content, -1) {
		found = append(found, MetaTag{
			Span:    Span{Original: content[m[0]:m[1]], StartIndex: m[0], EndIndex: m[1]},
			Name:    content[m[4]:m[5]],
			Content: content[m[2]:m[3]],
		})
	}
	sortAscending(found)

	meta := make(map[string]string, len(found))
	for _, t := range found {
		if t.Name == "" {
			logging.L(logging.CategoryTags).Warn("meta tag with empty name, skipping",
				zap.String("tag", t.Original))
			continue
		}
		meta[t.Name] = t.Content
	}

	kept := found[:0]
	for _, t := range found {
		if t.Name != "" {
			kept = append(kept, t)
		}
	}
	found = kept

	return MetaResult{
		Content: spliceSpans(content, found, func(MetaTag) string { return "" }),
		Meta:    meta,
		Tags:    found,
	}
}
