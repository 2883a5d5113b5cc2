// Package jsonui validates declarative JSON UI documents produced by
// render contracts. A document is a format tag plus a recursive
// component tree drawn from a closed set of component types; validation
// walks the tree in document order and fails fast with a descriptive
// reason at the first violation. Visual rendering of the components is
// the host's concern.
package jsonui

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	// FormatPrefix is the family prefix every supported document starts with.
	FormatPrefix = "soroban-render-json"
	// FormatV1 is the exact version this validator accepts.
	FormatV1 = "soroban-render-json-v1"
)

// Document is a validated JSON UI document.
type Document struct {
	Format     string      `json:"format"`
	Title      string      `json:"title,omitempty"`
	Components []Component `json:"components"`
}

// Component is one node of the component tree, kept as raw key-value
// pairs after validation so hosts can render any declared attribute.
type Component map[string]any

// Type returns the component's type discriminator.
func (c Component) Type() string {
	t, _ := c["type"].(string)
	return t
}

// Children returns the nested components of a container, nil otherwise.
func (c Component) Children() []Component {
	raw, ok := c["components"].([]any)
	if !ok {
		return nil
	}
	children := make([]Component, 0, len(raw))
	for _, r := range raw {
		if m, ok := r.(map[string]any); ok {
			children = append(children, Component(m))
		}
	}
	return children
}

// IsJSONFormat cheaply reports whether text looks like a render JSON
// document: it begins with '{', parses as JSON, and carries a format
// value in the supported family. No component validation happens here.
func IsJSONFormat(text string) bool {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "{") {
		return false
	}
	var probe struct {
		Format string `json:"format"`
	}
	if err := json.Unmarshal([]byte(trimmed), &probe); err != nil {
		return false
	}
	return strings.HasPrefix(probe.Format, FormatPrefix)
}

// Parse validates text as a JSON UI document. Every failure step has a
// distinct reason; the first violation in document order wins.
func Parse(text string) (*Document, error) {
	var raw struct {
		Format     string          `json:"format"`
		Title      string          `json:"title"`
		Components json.RawMessage `json:"components"`
	}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if raw.Format == "" || !strings.HasPrefix(raw.Format, FormatPrefix) {
		return nil, fmt.Errorf("not a render JSON document: missing or foreign format tag")
	}
	if raw.Format != FormatV1 {
		return nil, fmt.Errorf("unsupported version %q (supported: %s)", raw.Format, FormatV1)
	}

	var componentList []any
	if raw.Components == nil || string(raw.Components) == "null" {
		return nil, fmt.Errorf("components must be an array")
	}
	if err := json.Unmarshal(raw.Components, &componentList); err != nil {
		return nil, fmt.Errorf("components must be an array")
	}

	components := make([]Component, 0, len(componentList))
	for i, entry := range componentList {
		m, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("component %d: not an object", i)
		}
		c := Component(m)
		if err := validateComponent(c, fmt.Sprintf("component %d", i)); err != nil {
			return nil, err
		}
		components = append(components, c)
	}

	return &Document{Format: raw.Format, Title: raw.Title, Components: components}, nil
}

// componentTypes is the closed set of known component types. Populated
// in init because validateContainer recurses through validateComponent,
// which looks the container's children up in this map.
var componentTypes map[string]func(Component, string) error

func init() {
	componentTypes = map[string]func(Component, string) error{
		"heading":    validateHeading,
		"text":       validateText,
		"markdown":   validateMarkdown,
		"divider":    func(Component, string) error { return nil },
		"form":       validateForm,
		"button":     validateButton,
		"list":       validateList,
		"task":       validateTask,
		"navigation": validateNavigation,
		"container":  validateContainer,
		"include":    validateInclude,
		"chart":      validateChart,
	}
}

func validateComponent(c Component, path string) error {
	typ := c.Type()
	if typ == "" {
		return fmt.Errorf("%s: missing type", path)
	}
	validate, ok := componentTypes[typ]
	if !ok {
		return fmt.Errorf("%s: unknown component type %q", path, typ)
	}
	return validate(c, path)
}

func validateHeading(c Component, path string) error {
	level, ok := c["level"].(float64)
	if !ok {
		return fmt.Errorf("%s: heading requires a numeric level", path)
	}
	if level < 1 || level > 6 || level != float64(int(level)) {
		return fmt.Errorf("%s: heading level must be an integer between 1 and 6", path)
	}
	if _, ok := c["text"].(string); !ok {
		return fmt.Errorf("%s: heading requires text", path)
	}
	return nil
}

func validateText(c Component, path string) error {
	if _, ok := c["content"].(string); !ok {
		return fmt.Errorf("%s: text requires content", path)
	}
	return nil
}

func validateMarkdown(c Component, path string) error {
	if _, ok := c["content"].(string); !ok {
		return fmt.Errorf("%s: markdown requires content", path)
	}
	return nil
}

func validateForm(c Component, path string) error {
	if action, ok := c["action"].(string); !ok || action == "" {
		return fmt.Errorf("%s: form requires an action", path)
	}
	fields, ok := c["fields"].([]any)
	if !ok {
		return fmt.Errorf("%s: form requires a fields array", path)
	}
	for i, f := range fields {
		field, ok := f.(map[string]any)
		if !ok {
			return fmt.Errorf("%s: form field %d is not an object", path, i)
		}
		if name, ok := field["name"].(string); !ok || name == "" {
			return fmt.Errorf("%s: form field %d requires a name", path, i)
		}
	}
	return nil
}

func validateButton(c Component, path string) error {
	if label, ok := c["label"].(string); !ok || label == "" {
		return fmt.Errorf("%s: button requires a label", path)
	}
	action, _ := c["action"].(string)
	if action != "tx" && action != "render" {
		return fmt.Errorf("%s: button action must be tx or render, got %q", path, action)
	}
	return nil
}

func validateList(c Component, path string) error {
	if _, ok := c["items"].([]any); !ok {
		return fmt.Errorf("%s: list requires an items array", path)
	}
	return nil
}

func validateTask(c Component, path string) error {
	if _, ok := c["text"].(string); !ok {
		return fmt.Errorf("%s: task requires text", path)
	}
	if actions, present := c["actions"]; present {
		if _, ok := actions.([]any); !ok {
			return fmt.Errorf("%s: task actions must be an array", path)
		}
	}
	return nil
}

func validateNavigation(c Component, path string) error {
	items, ok := c["items"].([]any)
	if !ok {
		return fmt.Errorf("%s: navigation requires an items array", path)
	}
	for i, entry := range items {
		item, ok := entry.(map[string]any)
		if !ok {
			return fmt.Errorf("%s: navigation item %d is not an object", path, i)
		}
		if label, ok := item["label"].(string); !ok || label == "" {
			return fmt.Errorf("%s: navigation item %d requires a label", path, i)
		}
	}
	return nil
}

func validateContainer(c Component, path string) error {
	raw, ok := c["components"].([]any)
	if !ok {
		return fmt.Errorf("%s: container requires a components array", path)
	}
	for i, entry := range raw {
		child, ok := entry.(map[string]any)
		if !ok {
			return fmt.Errorf("%s.%d: not an object", path, i)
		}
		if err := validateComponent(Component(child), fmt.Sprintf("%s.%d", path, i)); err != nil {
			return err
		}
	}
	return nil
}

func validateChart(c Component, path string) error {
	if chartType, ok := c["chartType"].(string); !ok || chartType == "" {
		return fmt.Errorf("%s: chart requires a chartType", path)
	}
	if _, ok := c["data"].([]any); !ok {
		return fmt.Errorf("%s: chart requires a data array", path)
	}
	return nil
}

func validateInclude(c Component, path string) error {
	if contract, ok := c["contract"].(string); !ok || contract == "" {
		return fmt.Errorf("%s: include requires a contract", path)
	}
	return nil
}
