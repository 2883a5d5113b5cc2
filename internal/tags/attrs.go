package tags

import (
	"regexp"
	"strconv"
)

// attrPattern matches one key=value pair inside a {{...}} tag body.
// Values may be double-quoted, single-quoted, or bare.
var attrPattern = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_]*)\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s}]+))`)

// parseAttrs decodes the attribute body of a {{...}} tag into a map.
// Attribute order is free; a repeated key keeps its last value.
func parseAttrs(body string) map[string]string {
	attrs := make(map[string]string)
	for _, m := range attrPattern.FindAllStringSubmatch(body, -1) {
		value := m[2]
		if value == "" && m[3] != "" {
			value = m[3]
		}
		if value == "" && m[4] != "" {
			value = m[4]
		}
		attrs[m[1]] = value
	}
	return attrs
}

// attrInt parses an integer attribute, reporting presence separately so
// callers can distinguish 0 from absent.
func attrInt(attrs map[string]string, key string) (int, bool) {
	raw, ok := attrs[key]
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}
