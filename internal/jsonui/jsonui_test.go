package jsonui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMinimalDocument(t *testing.T) {
	doc, err := Parse(`{"format":"soroban-render-json-v1","components":[]}`)
	require.NoError(t, err)
	assert.Equal(t, FormatV1, doc.Format)
	assert.Empty(t, doc.Components)
}

func TestParseFullDocument(t *testing.T) {
	text := `{
	  "format": "soroban-render-json-v1",
	  "title": "Todo List",
	  "components": [
	    {"type": "heading", "level": 1, "text": "Todo List"},
	    {"type": "text", "content": "Manage your tasks."},
	    {"type": "divider"},
	    {"type": "form", "action": "add_task", "fields": [{"name": "description", "type": "text"}], "submitLabel": "Add"},
	    {"type": "navigation", "items": [{"label": "All", "path": "/json", "active": true}]},
	    {"type": "container", "className": "task-list", "components": [
	      {"type": "task", "id": 1, "text": "buy milk", "completed": false,
	       "actions": [{"type": "tx", "method": "complete_task", "args": {"id": 1}, "label": "Done"}]}
	    ]},
	    {"type": "button", "label": "Refresh", "action": "render"}
	  ]
	}`

	doc, err := Parse(text)
	require.NoError(t, err)
	assert.Equal(t, "Todo List", doc.Title)
	require.Len(t, doc.Components, 7)
	assert.Equal(t, "container", doc.Components[5].Type())
	require.Len(t, doc.Components[5].Children(), 1)
	assert.Equal(t, "task", doc.Components[5].Children()[0].Type())
}

func TestParseFailureReasons(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr string
	}{
		{"invalid json", `{not json`, "invalid JSON"},
		{"missing format", `{"components":[]}`, "missing or foreign format"},
		{"foreign format", `{"format":"other-v1","components":[]}`, "missing or foreign format"},
		{"unsupported version", `{"format":"soroban-render-json-v2","components":[]}`, `unsupported version "soroban-render-json-v2"`},
		{"components missing", `{"format":"soroban-render-json-v1"}`, "components must be an array"},
		{"components not array", `{"format":"soroban-render-json-v1","components":{}}`, "components must be an array"},
		{"unknown type", `{"format":"soroban-render-json-v1","components":[{"type":"carousel"}]}`, `unknown component type "carousel"`},
		{"missing type", `{"format":"soroban-render-json-v1","components":[{"text":"x"}]}`, "missing type"},
		{"heading level 7", `{"format":"soroban-render-json-v1","components":[{"type":"heading","level":7,"text":"x"}]}`, "level must be an integer between 1 and 6"},
		{"heading level missing", `{"format":"soroban-render-json-v1","components":[{"type":"heading","text":"x"}]}`, "requires a numeric level"},
		{"button bad action", `{"format":"soroban-render-json-v1","components":[{"type":"button","label":"Del","action":"delete"}]}`, "must be tx or render"},
		{"form no fields", `{"format":"soroban-render-json-v1","components":[{"type":"form","action":"go"}]}`, "requires a fields array"},
		{"form field unnamed", `{"format":"soroban-render-json-v1","components":[{"type":"form","action":"go","fields":[{"type":"text"}]}]}`, "field 0 requires a name"},
		{"nested failure", `{"format":"soroban-render-json-v1","components":[{"type":"container","components":[{"type":"heading","level":0,"text":"x"}]}]}`, "component 0.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseChartComponent(t *testing.T) {
	text := `{"format":"soroban-render-json-v1","components":[
	  {"type":"chart","chartType":"pie","title":"Task Status","data":[
	    {"label":"Completed","value":2,"color":"#22c55e"},
	    {"label":"Pending","value":1,"color":"#eab308"}
	  ]}
	]}`
	doc, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, doc.Components, 1)
	assert.Equal(t, "chart", doc.Components[0].Type())
}

func TestParseChartMissingFields(t *testing.T) {
	_, err := Parse(`{"format":"soroban-render-json-v1","components":[{"type":"chart","data":[]}]}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chart requires a chartType")

	_, err = Parse(`{"format":"soroban-render-json-v1","components":[{"type":"chart","chartType":"pie"}]}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chart requires a data array")
}

func TestParseDeeplyNestedContainers(t *testing.T) {
	text := `{"format":"soroban-render-json-v1","components":[
	  {"type":"container","components":[
	    {"type":"container","components":[
	      {"type":"container","components":[
	        {"type":"divider"}
	      ]}
	    ]}
	  ]}
	]}`
	doc, err := Parse(text)
	require.NoError(t, err)
	child := doc.Components[0].Children()[0].Children()[0].Children()[0]
	assert.Equal(t, "divider", child.Type())
}

func TestFirstViolationInDocumentOrderWins(t *testing.T) {
	text := `{"format":"soroban-render-json-v1","components":[
	  {"type":"heading","level":9,"text":"a"},
	  {"type":"unknown-thing"}
	]}`
	_, err := Parse(text)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "component 0")
}

func TestIsJSONFormat(t *testing.T) {
	assert.True(t, IsJSONFormat(`{"format":"soroban-render-json-v1","components":[]}`))
	// The probe skips component validation entirely.
	assert.True(t, IsJSONFormat(`{"format":"soroban-render-json-v1","components":"nope"}`))
	assert.False(t, IsJSONFormat(`# markdown`))
	assert.False(t, IsJSONFormat(`{"format":"something-else"}`))
	assert.False(t, IsJSONFormat(`{broken`))
}
