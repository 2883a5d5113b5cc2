package dom

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"renderview/internal/logging"
	"renderview/internal/tags"

	"go.uber.org/zap"
)

// ApplyDocumentMeta applies the recognized metadata keys extracted from
// rendered content onto the host document's head: favicon, title,
// theme-color, and description. Each key updates its element in place
// when one exists and creates it otherwise, so repeated renders never
// accumulate duplicate head elements. Unrecognized keys are ignored.
func ApplyDocumentMeta(doc *html.Node, meta map[string]string) {
	head := findElement(doc, "head")
	if head == nil {
		logging.L(logging.CategoryDOM).Warn("document has no head element, skipping meta application")
		return
	}
	for name, content := range meta {
		switch name {
		case tags.MetaTitle:
			applyTitle(head, content)
		case tags.MetaFavicon:
			applyFavicon(head, content)
		case tags.MetaThemeColor, tags.MetaDescription:
			applyNamedMeta(head, name, content)
		default:
			logging.L(logging.CategoryDOM).Debug("ignoring unrecognized meta key",
				zap.String("name", name))
		}
	}
}

func applyTitle(head *html.Node, title string) {
	el := findElement(head, "title")
	if el == nil {
		el = &html.Node{Type: html.ElementNode, Data: "title", DataAtom: atom.Title}
		head.AppendChild(el)
	}
	for el.FirstChild != nil {
		el.RemoveChild(el.FirstChild)
	}
	el.AppendChild(&html.Node{Type: html.TextNode, Data: title})
}

func applyFavicon(head *html.Node, href string) {
	el := findLinkByRel(head, "icon")
	if el == nil {
		el = &html.Node{
			Type: html.ElementNode, Data: "link", DataAtom: atom.Link,
			Attr: []html.Attribute{{Key: "rel", Val: "icon"}},
		}
		head.AppendChild(el)
	}
	setAttr(el, "href", href)
}

func applyNamedMeta(head *html.Node, name, content string) {
	el := findMetaByName(head, name)
	if el == nil {
		el = &html.Node{
			Type: html.ElementNode, Data: "meta", DataAtom: atom.Meta,
			Attr: []html.Attribute{{Key: "name", Val: name}},
		}
		head.AppendChild(el)
	}
	setAttr(el, "content", content)
}

func findElement(n *html.Node, name string) *html.Node {
	if n.Type == html.ElementNode && n.Data == name {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, name); found != nil {
			return found
		}
	}
	return nil
}

func findLinkByRel(head *html.Node, rel string) *html.Node {
	for c := head.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "link" && getAttr(c, "rel") == rel {
			return c
		}
	}
	return nil
}

func findMetaByName(head *html.Node, name string) *html.Node {
	for c := head.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "meta" && getAttr(c, "name") == name {
			return c
		}
	}
	return nil
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
