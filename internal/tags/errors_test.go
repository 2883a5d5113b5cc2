package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseErrorTags(t *testing.T) {
	content := `{{errors {"1":"Task not found","2":"Not authorized"}}}
body`

	res := ParseErrorTags(content)

	require.Len(t, res.Tags, 1)
	assert.Equal(t, "Task not found", res.ErrorMappings["1"])
	assert.Equal(t, "Not authorized", res.ErrorMappings["2"])
	assert.NotContains(t, res.Content, "{{errors")
	assert.Contains(t, res.Content, "body")
}

func TestErrorTagsLaterWins(t *testing.T) {
	content := `{{errors {"1":"A"}}}{{errors {"1":"B"}}}`
	res := ParseErrorTags(content)
	assert.Equal(t, "B", res.ErrorMappings["1"])
	require.Len(t, res.Tags, 2)
}

func TestErrorTagsCaseInsensitive(t *testing.T) {
	content := `{{ERRORS {"9":"boom"}}}`
	res := ParseErrorTags(content)
	assert.Equal(t, "boom", res.ErrorMappings["9"])
}

func TestErrorTagInvalidJSONSkipped(t *testing.T) {
	content := `{{errors {"1":"ok"}}} and {{errors {bad json}}}`

	res := ParseErrorTags(content)

	require.Len(t, res.Tags, 1)
	assert.Equal(t, "ok", res.ErrorMappings["1"])
	// The malformed tag contributes nothing and stays in content.
	assert.Contains(t, res.Content, "{{errors {bad json}}}")
	assert.NotContains(t, res.Content, `{"1":"ok"}`)
}

func TestErrorTagSpans(t *testing.T) {
	content := `x {{errors {"1":"a"}}} y`
	res := ParseErrorTags(content)
	require.Len(t, res.Tags, 1)
	tag := res.Tags[0]
	assert.Equal(t, tag.Original, content[tag.StartIndex:tag.EndIndex])
}

func TestHasErrorTagsAgreesWithParse(t *testing.T) {
	for _, content := range []string{
		`{{errors {"1":"a"}}}`,
		`{{errors {nope}}}`,
		`plain`,
	} {
		res := ParseErrorTags(content)
		assert.Equal(t, len(res.Tags) > 0, HasErrorTags(content), content)
	}
}
