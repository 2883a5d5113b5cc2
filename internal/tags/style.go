package tags

import (
	"fmt"
	"regexp"
	"strings"

	"renderview/internal/logging"

	"go.uber.org/zap"
)

// SelfContract is the sentinel contract value meaning "the contract
// whose content is being rendered".
const SelfContract = "SELF"

// StyleTag is one {{style contract=... [func=...]}} directive.
type StyleTag struct {
	Span
	Contract string
	Func     string // "" means the contract's default styles entry point
}

// StyleResult is the outcome of a style tag extraction pass.
type StyleResult struct {
	// Content is the input with all well-formed style tags removed.
	Content string
	// Tags holds every well-formed tag in ascending source order.
	Tags []StyleTag
}

// CSSBlock is one fenced css code block found in content. Blocks stay
// in the content by default (they render as visible code); StripCSSBlocks
// removes them for hosts that treat them as style-only.
type CSSBlock struct {
	Span
	Text string // trimmed block body
}

var (
	styleTagPattern = regexp.MustCompile(`(?i)\{\{style\s+([^}]*)\}\}`)
	cssBlockPattern = regexp.MustCompile("(?is)```css[ \t]*\r?\n(.*?)```")
)

// CacheKey derives the host cache key for a style tag's stylesheet.
func (t StyleTag) CacheKey() string {
	fn := t.Func
	if fn == "" {
		fn = "styles"
	}
	return fmt.Sprintf("style:%s:%s", t.Contract, fn)
}

// HasStyleTags cheaply reports whether content contains at least one
// style tag with the required contract attribute.
func HasStyleTags(content string) bool {
	for _, m := range styleTagPattern.FindAllStringSubmatch(content, -1) {
		if parseAttrs(m[1])["contract"] != "" {
			return true
		}
	}
	return false
}

// ParseStyleTags extracts every style tag from content and strips them.
// Tags missing the required contract attribute are skipped.
func ParseStyleTags(content string) StyleResult {
	var found []StyleTag
	for _, m := range styleTagPattern.FindAllStringSubmatchIndex(content, -1) {
		original := content[m[0]:m[1]]
		attrs := parseAttrs(content[m[2]:m[3]])
		contract := attrs["contract"]
		if contract == "" {
			logging.L(logging.CategoryTags).Warn("style tag missing contract attribute, skipping",
				zap.String("tag", original))
			continue
		}
		found = append(found, StyleTag{
			Span:     Span{Original: original, StartIndex: m[0], EndIndex: m[1]},
			Contract: contract,
			Func:     attrs["func"],
		})
	}
	return StyleResult{
		Content: spliceSpans(content, found, func(StyleTag) string { return "" }),
		Tags:    found,
	}
}

// HasCSSBlocks cheaply reports whether content contains a fenced css block.
func HasCSSBlocks(content string) bool {
	return cssBlockPattern.MatchString(content)
}

// ExtractCSSBlocks returns every fenced css block in source order without
// modifying content.
func ExtractCSSBlocks(content string) []CSSBlock {
	var blocks []CSSBlock
	for _, m := range cssBlockPattern.FindAllStringSubmatchIndex(content, -1) {
		blocks = append(blocks, CSSBlock{
			Span: Span{Original: content[m[0]:m[1]], StartIndex: m[0], EndIndex: m[1]},
			Text: strings.TrimSpace(content[m[2]:m[3]]),
		})
	}
	return blocks
}

// StripCSSBlocks removes every fenced css block from content, for hosts
// that do not want the CSS displayed inline.
func StripCSSBlocks(content string) string {
	return spliceSpans(content, ExtractCSSBlocks(content), func(CSSBlock) string { return "" })
}

// CombineCSS concatenates extracted block texts with blank-line
// separation, ready to hand to a stylesheet injector.
func CombineCSS(blocks []CSSBlock) string {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if b.Text != "" {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n\n")
}
