// This file contains the file-watch preview loop.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"renderview/internal/logging"
)

var watchCmd = &cobra.Command{
	Use:   "watch [file]",
	Short: "Re-render the preview whenever the content file changes",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	path := args[0]
	log := logging.L(logging.CategoryWatch)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors replace files on save
	// and the inode-level watch would be lost.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	if err := runPreview(cmd, args); err != nil {
		return err
	}
	fmt.Printf("\nwatching %s (ctrl+c to stop)\n", path)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	// Editors fire bursts of events per save; debounce them.
	var pending <-chan time.Time
	target := filepath.Clean(path)
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = time.After(150 * time.Millisecond)
		case <-pending:
			pending = nil
			fmt.Print("\033[H\033[2J") // clear screen
			if err := runPreview(cmd, args); err != nil {
				log.Warn("preview failed", zap.Error(err))
				fmt.Fprintln(os.Stderr, "preview failed:", err)
			}
			fmt.Printf("\nwatching %s (ctrl+c to stop)\n", path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", zap.Error(err))
		case <-sig:
			return nil
		}
	}
}
