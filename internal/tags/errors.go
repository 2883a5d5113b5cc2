package tags

import (
	"encoding/json"
	"regexp"

	"renderview/internal/logging"

	"go.uber.org/zap"
)

// ErrorMappingTag is one {{errors {"code":"message"}}} directive.
type ErrorMappingTag struct {
	Span
	Mappings map[string]string
}

// ErrorResult is the outcome of an error-mapping extraction pass.
type ErrorResult struct {
	// Content is the input with all well-formed error tags removed.
	Content string
	// ErrorMappings merges every tag's payload; a code repeated across
	// tags keeps the value from the later tag.
	ErrorMappings map[string]string
	// Tags holds every tag whose payload parsed, in ascending source order.
	Tags []ErrorMappingTag
}

// The payload is a flat JSON object, so the first unnested } closes it.
var errorTagPattern = regexp.MustCompile(`(?is)\{\{errors\s+(\{[^{}]*\})\s*\}\}`)

// HasErrorTags cheaply reports whether content contains at least one
// error-mapping tag with a parseable payload.
func HasErrorTags(content string) bool {
	for _, m := range errorTagPattern.FindAllStringSubmatch(content, -1) {
		var payload map[string]string
		if json.Unmarshal([]byte(m[1]), &payload) == nil {
			return true
		}
	}
	return false
}

// ParseErrorTags extracts every error-mapping tag from content and
// strips them. A tag whose payload is not valid JSON is skipped: it
// contributes no mappings and stays in the content.
func ParseErrorTags(content string) ErrorResult {
	merged := make(map[string]string)
	var found []ErrorMappingTag
	for _, m := range errorTagPattern.FindAllStringSubmatchIndex(content, -1) {
		original := content[m[0]:m[1]]
		var payload map[string]string
		if err := json.Unmarshal([]byte(content[m[2]:m[3]]), &payload); err != nil {
			logging.L(logging.CategoryTags).Warn("error tag with invalid JSON payload, skipping",
				zap.String("tag", original), zap.Error(err))
			continue
		}
		found = append(found, ErrorMappingTag{
			Span:     Span{Original: original, StartIndex: m[0], EndIndex: m[1]},
			Mappings: payload,
		})
		for code, msg := range payload {
			merged[code] = msg
		}
	}
	return ErrorResult{
		Content:       spliceSpans(content, found, func(ErrorMappingTag) string { return "" }),
		ErrorMappings: merged,
		Tags:          found,
	}
}
