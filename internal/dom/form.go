// Package dom implements the DOM-facing pieces of the core: collecting
// form field values ahead of a submit action, and applying extracted
// document metadata to a host document's head. Both operate on
// golang.org/x/net/html node trees, the representation hosts hand us.
package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// Field is one named form value, in document order.
type Field struct {
	Name  string
	Value string
}

// Fields is an ordered list of collected form values. Order matters to
// callers that translate field values into positional contract call
// arguments.
type Fields []Field

// Map flattens the fields into a name-keyed map, losing order.
func (fs Fields) Map() map[string]string {
	m := make(map[string]string, len(fs))
	for _, f := range fs {
		m[f.Name] = f.Value
	}
	return m
}

// Get returns the value for name and whether it was present.
func (fs Fields) Get(name string) (string, bool) {
	for _, f := range fs {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// CollectFormInputs gathers the current values of every named
// input/select/textarea under root. When boundary is non-nil only
// fields strictly preceding it in document order are included, so a
// submit link collects exactly the fields rendered above it. Fields
// without a name attribute are skipped; checkable fields contribute
// only when checked. There is no error condition: an empty scan yields
// an empty list.
func CollectFormInputs(root, boundary *html.Node) Fields {
	var fields Fields
	walkFields(root, boundary, &fields)
	return fields
}

// walkFields visits nodes depth-first in document order. Returning
// false stops the walk once the boundary has been reached.
func walkFields(n, boundary *html.Node, out *Fields) bool {
	if n == boundary && boundary != nil {
		return false
	}
	if n.Type == html.ElementNode {
		switch n.Data {
		case "input":
			collectInput(n, out)
		case "select":
			collectSelect(n, out)
		case "textarea":
			collectTextarea(n, out)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walkFields(c, boundary, out) {
			return false
		}
	}
	return true
}

func collectInput(n *html.Node, out *Fields) {
	name := getAttr(n, "name")
	if name == "" {
		return
	}
	typ := strings.ToLower(getAttr(n, "type"))
	if typ == "checkbox" || typ == "radio" {
		if !hasAttr(n, "checked") {
			return
		}
		value := getAttr(n, "value")
		if value == "" {
			// Checked with no explicit value submits the literal "on",
			// matching browser form semantics.
			value = "on"
		}
		setField(out, name, value)
		return
	}
	setField(out, name, getAttr(n, "value"))
}

func collectSelect(n *html.Node, out *Fields) {
	name := getAttr(n, "name")
	if name == "" {
		return
	}
	var first, selected *html.Node
	var findOption func(*html.Node)
	findOption = func(c *html.Node) {
		for ; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.Data == "option" {
				if first == nil {
					first = c
				}
				if selected == nil && hasAttr(c, "selected") {
					selected = c
				}
				continue
			}
			findOption(c.FirstChild)
		}
	}
	findOption(n.FirstChild)

	opt := selected
	if opt == nil {
		opt = first
	}
	if opt == nil {
		setField(out, name, "")
		return
	}
	value := getAttr(opt, "value")
	if value == "" {
		value = strings.TrimSpace(textContent(opt))
	}
	setField(out, name, value)
}

func collectTextarea(n *html.Node, out *Fields) {
	name := getAttr(n, "name")
	if name == "" {
		return
	}
	setField(out, name, textContent(n))
}

// setField records a value, overwriting an earlier entry of the same
// name in place. Same-named radio groups therefore yield exactly one
// entry.
func setField(out *Fields, name, value string) {
	for i := range *out {
		if (*out)[i].Name == name {
			(*out)[i].Value = value
			return
		}
	}
	*out = append(*out, Field{Name: name, Value: value})
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		for ; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				sb.WriteString(c.Data)
			}
			walk(c.FirstChild)
		}
	}
	walk(n.FirstChild)
	return sb.String()
}
