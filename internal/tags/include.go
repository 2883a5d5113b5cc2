package tags

import (
	"fmt"
	"html"
	"regexp"

	"renderview/internal/logging"

	"go.uber.org/zap"
)

// IncludeTag is one {{include contract=... func="name"}} directive,
// pulling a rendered fragment (header, nav, footer) from another
// contract into this document.
type IncludeTag struct {
	Span
	Contract string // contract ID or the SELF sentinel
	Func     string
}

// IncludeResult is the outcome of an include extraction pass.
type IncludeResult struct {
	// Content is the input with every well-formed include tag replaced
	// by a placeholder marker element for the loader to hydrate.
	Content string
	Tags    []IncludeTag
}

var includeTagPattern = regexp.MustCompile(`(?i)\{\{include\s+([^}]*)\}\}`)

// ElementID derives the stable marker element id for the include.
func (t IncludeTag) ElementID() string {
	return fmt.Sprintf("include-%s-%s", t.Contract, t.Func)
}

// CacheKey derives the loader cache key for the included fragment.
func (t IncludeTag) CacheKey() string {
	return fmt.Sprintf("include:%s:%s", t.Contract, t.Func)
}

// HasIncludeTags cheaply reports whether content contains at least one
// include tag carrying both required attributes.
func HasIncludeTags(content string) bool {
	for _, m := range includeTagPattern.FindAllStringSubmatch(content, -1) {
		attrs := parseAttrs(m[1])
		if attrs["contract"] != "" && attrs["func"] != "" {
			return true
		}
	}
	return false
}

// ParseIncludeTags extracts every include tag from content and replaces
// each with its placeholder marker. Both contract and func are
// required; tags missing either are skipped and left in place.
func ParseIncludeTags(content string) IncludeResult {
	var found []IncludeTag
	for _, m := range includeTagPattern.FindAllStringSubmatchIndex(content, -1) {
		original := content[m[0]:m[1]]
		attrs := parseAttrs(content[m[2]:m[3]])
		if attrs["contract"] == "" || attrs["func"] == "" {
			logging.L(logging.CategoryTags).Warn("include tag missing contract or func attribute, skipping",
				zap.String("tag", original))
			continue
		}
		found = append(found, IncludeTag{
			Span:     Span{Original: original, StartIndex: m[0], EndIndex: m[1]},
			Contract: attrs["contract"],
			Func:     attrs["func"],
		})
	}
	return IncludeResult{
		Content: spliceSpans(content, found, includeMarker),
		Tags:    found,
	}
}

func includeMarker(t IncludeTag) string {
	return fmt.Sprintf(
		`<span id="%s" class="render-include" data-contract="%s" data-func="%s"></span>`,
		t.ElementID(), html.EscapeString(t.Contract), html.EscapeString(t.Func))
}
