package tags

import (
	"fmt"
	"html"
	"regexp"

	"renderview/internal/logging"

	"go.uber.org/zap"
)

// ContinueTag is one {{continue collection=... from=N total=T}} marker
// (or the page=N per_page=M pagination variant). It tells the viewer
// that more entries of a collection exist beyond what was rendered.
type ContinueTag struct {
	Span
	Collection string
	From       int
	Total      int
	// Paged is true for the pagination variant; Page/PerPage are only
	// meaningful then.
	Paged   bool
	Page    int
	PerPage int
}

// ChunkTag is one {{chunk collection=... index=N}} marker standing in
// for a single lazily loaded chunk.
type ChunkTag struct {
	Span
	Collection  string
	Index       int
	Placeholder string
}

// ChunkResult is the outcome of a continuation/chunk extraction pass.
type ChunkResult struct {
	// Content is the input with every well-formed tag replaced by a
	// placeholder marker element a loader can later locate and hydrate.
	Content   string
	Continues []ContinueTag
	Chunks    []ChunkTag
}

var (
	continueTagPattern = regexp.MustCompile(`(?i)\{\{continue\s+([^}]*)\}\}`)
	chunkTagPattern    = regexp.MustCompile(`(?i)\{\{chunk\s+([^}]*)\}\}`)
)

// ElementID derives the stable marker element id for the continuation.
func (t ContinueTag) ElementID() string {
	return fmt.Sprintf("continue-%s-%d", t.Collection, t.From)
}

// ElementID derives the stable marker element id for the chunk.
func (t ChunkTag) ElementID() string {
	return fmt.Sprintf("chunk-%s-%d", t.Collection, t.Index)
}

// CacheKey derives the loader cache key for the chunk's content.
func (t ChunkTag) CacheKey() string {
	return fmt.Sprintf("%s:%d", t.Collection, t.Index)
}

// HasChunkTags cheaply reports whether content contains at least one
// well-formed continuation or chunk tag.
func HasChunkTags(content string) bool {
	for _, m := range continueTagPattern.FindAllStringSubmatch(content, -1) {
		if parseAttrs(m[1])["collection"] != "" {
			return true
		}
	}
	for _, m := range chunkTagPattern.FindAllStringSubmatch(content, -1) {
		attrs := parseAttrs(m[1])
		if attrs["collection"] != "" {
			if _, ok := attrInt(attrs, "index"); ok {
				return true
			}
		}
	}
	return false
}

// ParseChunkTags extracts every continuation and chunk tag from content
// and replaces each with its placeholder marker element. Tags missing
// required attributes are skipped and left in place.
func ParseChunkTags(content string) ChunkResult {
	log := logging.L(logging.CategoryTags)

	var continues []ContinueTag
	for _, m := range continueTagPattern.FindAllStringSubmatchIndex(content, -1) {
		original := content[m[0]:m[1]]
		attrs := parseAttrs(content[m[2]:m[3]])
		collection := attrs["collection"]
		if collection == "" {
			log.Warn("continue tag missing collection attribute, skipping",
				zap.String("tag", original))
			continue
		}
		t := ContinueTag{
			Span:       Span{Original: original, StartIndex: m[0], EndIndex: m[1]},
			Collection: collection,
		}
		t.From, _ = attrInt(attrs, "from")
		t.Total, _ = attrInt(attrs, "total")
		if page, ok := attrInt(attrs, "page"); ok {
			t.Paged = true
			t.Page = page
			t.PerPage, _ = attrInt(attrs, "per_page")
		}
		continues = append(continues, t)
	}

	var chunks []ChunkTag
	for _, m := range chunkTagPattern.FindAllStringSubmatchIndex(content, -1) {
		original := content[m[0]:m[1]]
		attrs := parseAttrs(content[m[2]:m[3]])
		collection := attrs["collection"]
		index, hasIndex := attrInt(attrs, "index")
		if collection == "" || !hasIndex {
			log.Warn("chunk tag missing collection or index attribute, skipping",
				zap.String("tag", original))
			continue
		}
		chunks = append(chunks, ChunkTag{
			Span:        Span{Original: original, StartIndex: m[0], EndIndex: m[1]},
			Collection:  collection,
			Index:       index,
			Placeholder: attrs["placeholder"],
		})
	}

	// One combined descending-order splice: replacing either family
	// first would shift the offsets captured for the other.
	edits := make([]spanEdit, 0, len(continues)+len(chunks))
	for _, t := range continues {
		edits = append(edits, spanEdit{Span: t.Span, replacement: continueMarker(t)})
	}
	for _, t := range chunks {
		edits = append(edits, spanEdit{Span: t.Span, replacement: chunkMarker(t)})
	}
	content = spliceSpans(content, edits, func(e spanEdit) string { return e.replacement })

	sortAscending(continues)
	sortAscending(chunks)
	return ChunkResult{Content: content, Continues: continues, Chunks: chunks}
}

func continueMarker(t ContinueTag) string {
	extra := ""
	if t.Paged {
		extra = fmt.Sprintf(` data-page="%d" data-per-page="%d"`, t.Page, t.PerPage)
	}
	return fmt.Sprintf(
		`<span id="%s" class="render-continue" data-collection="%s" data-from="%d" data-total="%d"%s></span>`,
		t.ElementID(), html.EscapeString(t.Collection), t.From, t.Total, extra)
}

func chunkMarker(t ChunkTag) string {
	return fmt.Sprintf(
		`<span id="%s" class="render-chunk" data-collection="%s" data-index="%d">%s</span>`,
		t.ElementID(), html.EscapeString(t.Collection), t.Index, html.EscapeString(t.Placeholder))
}
