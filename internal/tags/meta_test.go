package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMetaTags(t *testing.T) {
	content := `<meta name="title" content="My dApp">
# Hello
<meta content="#336699" name="theme-color" />
body text`

	res := ParseMetaTags(content)

	require.Len(t, res.Tags, 2)
	assert.Equal(t, "My dApp", res.Meta["title"])
	assert.Equal(t, "#336699", res.Meta["theme-color"])
	assert.NotContains(t, res.Content, "<meta")
	assert.Contains(t, res.Content, "# Hello")
	assert.Contains(t, res.Content, "body text")
}

func TestMetaTagSpans(t *testing.T) {
	content := `before <meta name="title" content="T"/> middle <meta name='favicon' content='/i.png'> after`

	res := ParseMetaTags(content)

	require.Len(t, res.Tags, 2)
	for _, tag := range res.Tags {
		assert.Equal(t, tag.Original, content[tag.StartIndex:tag.EndIndex])
	}
	// Ascending source order.
	assert.Equal(t, "title", res.Tags[0].Name)
	assert.Equal(t, "favicon", res.Tags[1].Name)
}

func TestMetaLaterDuplicateWins(t *testing.T) {
	content := `<meta name="title" content="first"><meta name="title" content="second">`
	res := ParseMetaTags(content)
	assert.Equal(t, "second", res.Meta["title"])
}

func TestMetaMalformedSkipped(t *testing.T) {
	// Missing content attribute: not a match, text stays put.
	content := `<meta name="title"> plain`
	res := ParseMetaTags(content)
	assert.Empty(t, res.Tags)
	assert.Equal(t, content, res.Content)
}

func TestMetaCaseInsensitiveKeyword(t *testing.T) {
	content := `<META NAME="title" CONTENT="X">`
	res := ParseMetaTags(content)
	require.Len(t, res.Tags, 1)
	assert.Equal(t, "X", res.Meta["title"])
}

func TestMetaIdempotentOnPlainContent(t *testing.T) {
	content := "# Just markdown\n\nNothing to see."
	res := ParseMetaTags(content)
	assert.Equal(t, content, res.Content)
	assert.Empty(t, res.Tags)
}

func TestHasMetaTagsAgreesWithParse(t *testing.T) {
	for _, content := range []string{
		`<meta name="a" content="b">`,
		`no tags here`,
		`<meta name="only">`,
		`<META CONTENT="v" NAME="k"/>`,
		`<meta name="" content="x">`,
		`<meta content="x" name="">`,
		`<meta name="" content="x"><meta name="real" content="y">`,
	} {
		res := ParseMetaTags(content)
		assert.Equal(t, len(res.Tags) > 0, HasMetaTags(content), content)
	}
}

func TestMetaEmptyNameSkipped(t *testing.T) {
	content := `<meta name="" content="x"> rest`
	res := ParseMetaTags(content)
	assert.Empty(t, res.Tags)
	assert.False(t, HasMetaTags(content))
	// The empty-name tag is malformed, so it stays in the content.
	assert.Equal(t, content, res.Content)
}
