package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"renderview/internal/tags"
)

func headOf(t *testing.T, doc *html.Node) *html.Node {
	t.Helper()
	head := findElement(doc, "head")
	require.NotNil(t, head)
	return head
}

func countChildren(n *html.Node, name string) int {
	count := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == name {
			count++
		}
	}
	return count
}

func TestApplyDocumentMetaCreatesElements(t *testing.T) {
	doc := parseHTML(t, `<html><head></head><body></body></html>`)
	ApplyDocumentMeta(doc, map[string]string{
		tags.MetaTitle:       "Todo List",
		tags.MetaFavicon:     "/icon.svg",
		tags.MetaThemeColor:  "#0b6",
		tags.MetaDescription: "on-chain todos",
	})

	head := headOf(t, doc)
	title := findElement(head, "title")
	require.NotNil(t, title)
	assert.Equal(t, "Todo List", textContent(title))

	icon := findLinkByRel(head, "icon")
	require.NotNil(t, icon)
	assert.Equal(t, "/icon.svg", getAttr(icon, "href"))

	theme := findMetaByName(head, tags.MetaThemeColor)
	require.NotNil(t, theme)
	assert.Equal(t, "#0b6", getAttr(theme, "content"))

	desc := findMetaByName(head, tags.MetaDescription)
	require.NotNil(t, desc)
	assert.Equal(t, "on-chain todos", getAttr(desc, "content"))
}

func TestApplyDocumentMetaUpdatesInPlace(t *testing.T) {
	doc := parseHTML(t, `<html><head>
		<title>Old</title>
		<link rel="icon" href="/old.ico">
		<meta name="theme-color" content="#000">
	</head><body></body></html>`)

	meta := map[string]string{
		tags.MetaTitle:      "New",
		tags.MetaFavicon:    "/new.svg",
		tags.MetaThemeColor: "#fff",
	}
	ApplyDocumentMeta(doc, meta)
	ApplyDocumentMeta(doc, meta)

	head := headOf(t, doc)
	assert.Equal(t, 1, countChildren(head, "title"))
	assert.Equal(t, 1, countChildren(head, "link"))
	assert.Equal(t, 1, countChildren(head, "meta"))

	assert.Equal(t, "New", textContent(findElement(head, "title")))
	assert.Equal(t, "/new.svg", getAttr(findLinkByRel(head, "icon"), "href"))
	assert.Equal(t, "#fff", getAttr(findMetaByName(head, tags.MetaThemeColor), "content"))
}

func TestApplyDocumentMetaIgnoresUnknownKeys(t *testing.T) {
	doc := parseHTML(t, `<html><head></head><body></body></html>`)
	ApplyDocumentMeta(doc, map[string]string{"og:image": "/banner.png"})

	head := headOf(t, doc)
	assert.Nil(t, head.FirstChild)
}

func TestApplyDocumentMetaNoHead(t *testing.T) {
	// A bare text node has no head to write into; nothing should panic.
	n := &html.Node{Type: html.TextNode, Data: "plain"}
	ApplyDocumentMeta(n, map[string]string{tags.MetaTitle: "x"})
}
