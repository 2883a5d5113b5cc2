// Package tags extracts the inline tag mini-languages embedded in
// contract-rendered text: meta tags, style tags and fenced CSS blocks,
// error-code mappings, continuation/chunk markers, and include
// directives.
//
// All extractors share one contract: a full parse returns structured
// records carrying the exact source span of every well-formed tag plus
// the content with those tags removed (or replaced by placeholder
// markers), and a cheap Has* probe agrees with the full parse on
// presence. Extractors are pure functions of their input; each call
// runs a fresh regexp scan, so repeated calls against identical input
// yield identical results. Malformed individual tags are logged and
// skipped, never fatal.
package tags

import "sort"

// Span records where a tag was matched in the source content.
// Content[StartIndex:EndIndex] == Original for the content the tag was
// parsed from.
type Span struct {
	Original   string
	StartIndex int
	EndIndex   int
}

// spanned is implemented by every tag record type.
type spanned interface {
	span() Span
}

func (s Span) span() Span { return s }

// spliceSpans rewrites content by replacing each span with the string
// produced by repl (empty string removes the tag). Replacement runs in
// descending start order so earlier edits never shift offsets that are
// still pending; spans must not overlap.
func spliceSpans[T spanned](content string, items []T, repl func(T) string) string {
	ordered := make([]T, len(items))
	copy(ordered, items)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].span().StartIndex > ordered[j].span().StartIndex
	})
	for _, it := range ordered {
		sp := it.span()
		content = content[:sp.StartIndex] + repl(it) + content[sp.EndIndex:]
	}
	return content
}

// spanEdit pairs a span with its replacement text, for extractors that
// rewrite several tag families in one pass.
type spanEdit struct {
	Span
	replacement string
}

// sortAscending orders tag records by source position for callers.
func sortAscending[T spanned](items []T) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].span().StartIndex < items[j].span().StartIndex
	})
}
