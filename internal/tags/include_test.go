package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIncludeTags(t *testing.T) {
	content := `{{include contract=` + styleContractID + ` func="header"}}
body
{{include contract=SELF func="footer"}}`

	res := ParseIncludeTags(content)

	require.Len(t, res.Tags, 2)
	assert.Equal(t, styleContractID, res.Tags[0].Contract)
	assert.Equal(t, "header", res.Tags[0].Func)
	assert.Equal(t, SelfContract, res.Tags[1].Contract)
	assert.Equal(t, "include:SELF:footer", res.Tags[1].CacheKey())

	assert.NotContains(t, res.Content, "{{include")
	assert.Contains(t, res.Content, `data-func="header"`)
	assert.Contains(t, res.Content, "body")
}

func TestIncludeMissingAttrsSkipped(t *testing.T) {
	content := `{{include contract=SELF}} {{include func="header"}}`
	res := ParseIncludeTags(content)
	assert.Empty(t, res.Tags)
	assert.Equal(t, content, res.Content)
	assert.False(t, HasIncludeTags(content))
}

func TestIncludeSpans(t *testing.T) {
	content := `x {{include contract=SELF func="nav"}} y`
	res := ParseIncludeTags(content)
	require.Len(t, res.Tags, 1)
	tag := res.Tags[0]
	assert.Equal(t, tag.Original, content[tag.StartIndex:tag.EndIndex])
	assert.Equal(t, "include-SELF-nav", tag.ElementID())
}
