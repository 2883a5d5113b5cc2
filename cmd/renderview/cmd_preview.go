// This file contains the terminal preview command: tags are stripped
// the way a browser host would strip them, then the remaining markdown
// renders through glamour with a side-channel summary panel.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"renderview/internal/tags"
)

var previewWidth int

var previewCmd = &cobra.Command{
	Use:   "preview [file]",
	Short: "Render content in the terminal after tag extraction",
	Args:  cobra.ExactArgs(1),
	RunE:  runPreview,
}

func init() {
	previewCmd.Flags().IntVar(&previewWidth, "width", 100, "Render width in columns")
}

var sidebarStyle = lipgloss.NewStyle().
	Border(lipgloss.NormalBorder(), true, false, false, false).
	Faint(true)

func runPreview(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	content, summary := extractForPreview(string(data))

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(previewWidth),
	)
	if err != nil {
		return fmt.Errorf("failed to build renderer: %w", err)
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return fmt.Errorf("failed to render content: %w", err)
	}

	fmt.Print(rendered)
	if summary != "" {
		fmt.Println(sidebarStyle.Render(summary))
	}
	return nil
}

// extractForPreview runs the full extraction pipeline and reports the
// side-channel data a browser host would consume.
func extractForPreview(content string) (string, string) {
	var notes []string

	meta := tags.ParseMetaTags(content)
	content = meta.Content
	if title, ok := meta.Meta[tags.MetaTitle]; ok {
		notes = append(notes, fmt.Sprintf("title: %s", title))
	}

	style := tags.ParseStyleTags(content)
	content = style.Content
	for _, t := range style.Tags {
		notes = append(notes, fmt.Sprintf("stylesheet: %s", t.CacheKey()))
	}
	if blocks := tags.ExtractCSSBlocks(content); len(blocks) > 0 {
		notes = append(notes, fmt.Sprintf("inline css: %d block(s)", len(blocks)))
		content = tags.StripCSSBlocks(content)
	}

	errResult := tags.ParseErrorTags(content)
	content = errResult.Content
	if len(errResult.ErrorMappings) > 0 {
		notes = append(notes, fmt.Sprintf("error mappings: %d", len(errResult.ErrorMappings)))
	}

	chunks := tags.ParseChunkTags(content)
	content = chunks.Content
	for _, t := range chunks.Continues {
		notes = append(notes, fmt.Sprintf("pending: %s", t.ElementID()))
	}
	for _, t := range chunks.Chunks {
		notes = append(notes, fmt.Sprintf("pending: %s", t.ElementID()))
	}

	includes := tags.ParseIncludeTags(content)
	content = includes.Content
	for _, t := range includes.Tags {
		notes = append(notes, fmt.Sprintf("pending: %s", t.ElementID()))
	}

	return content, strings.Join(notes, "\n")
}
