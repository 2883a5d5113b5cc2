// This file contains the inline tag extraction command.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"renderview/internal/tags"
)

var tagsStrip bool

// tagsCmd runs the full tag extraction pipeline over a content file.
var tagsCmd = &cobra.Command{
	Use:   "tags [file]",
	Short: "Extract inline tags (meta, style, errors, continue/chunk, include) from content",
	Args:  cobra.ExactArgs(1),
	RunE:  runTags,
}

func init() {
	tagsCmd.Flags().BoolVar(&tagsStrip, "strip", false, "Print the content with all tags handled instead of a summary")
}

func runTags(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	content := string(data)

	meta := tags.ParseMetaTags(content)
	content = meta.Content
	style := tags.ParseStyleTags(content)
	content = style.Content
	cssBlocks := tags.ExtractCSSBlocks(content)
	errResult := tags.ParseErrorTags(content)
	content = errResult.Content
	chunks := tags.ParseChunkTags(content)
	content = chunks.Content
	includes := tags.ParseIncludeTags(content)
	content = includes.Content

	if tagsStrip {
		fmt.Print(content)
		return nil
	}

	fmt.Printf("meta tags:       %d\n", len(meta.Tags))
	for name, value := range meta.Meta {
		fmt.Printf("  %s = %q\n", name, value)
	}
	fmt.Printf("style tags:      %d\n", len(style.Tags))
	for _, t := range style.Tags {
		fmt.Printf("  %s\n", t.CacheKey())
	}
	fmt.Printf("css blocks:      %d (%d bytes combined)\n",
		len(cssBlocks), len(tags.CombineCSS(cssBlocks)))
	fmt.Printf("error mappings:  %d\n", len(errResult.ErrorMappings))
	for code, msg := range errResult.ErrorMappings {
		fmt.Printf("  %s -> %q\n", code, msg)
	}
	fmt.Printf("continuations:   %d\n", len(chunks.Continues))
	for _, t := range chunks.Continues {
		fmt.Printf("  %s (from=%d total=%d)\n", t.ElementID(), t.From, t.Total)
	}
	fmt.Printf("chunk markers:   %d\n", len(chunks.Chunks))
	for _, t := range chunks.Chunks {
		fmt.Printf("  %s\n", t.CacheKey())
	}
	fmt.Printf("includes:        %d\n", len(includes.Tags))
	for _, t := range includes.Tags {
		fmt.Printf("  %s\n", t.CacheKey())
	}
	return nil
}
