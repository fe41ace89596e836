package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"coldcase/internal/archive"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var validateWatch bool

// validateCmd checks a case file for authoring errors
var validateCmd = &cobra.Command{
	Use:   "validate [case-file]",
	Short: "Validate a case file",
	Long: `Loads a case file and reports the first problem found: duplicate names,
missing passwords, a missing or repeated solving record, and so on.

With --watch the file is validated again every time it is saved.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if !validateWatch {
			return validateFile(out, path)
		}

		ctx, stop := signal.NotifyContext(cmdContext(cmd), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return watchCaseFile(ctx, out, path)
	},
}

// validateFile loads path and prints a one-line verdict.
func validateFile(out io.Writer, path string) error {
	arc, err := archive.LoadFile(path)
	if err != nil {
		fmt.Fprintf(out, "INVALID %v\n", err)
		return err
	}
	files, dirs := 0, 0
	archive.Walk(arc.Root, func(_ string, n archive.Node) bool {
		if _, ok := n.(*archive.Directory); ok {
			dirs++
		} else {
			files++
		}
		return true
	})
	fmt.Fprintf(out, "OK %s: case #%s, %d directories, %d files\n", filepath.Base(path), arc.Case.ID, dirs, files)
	return nil
}

// watchCaseFile validates path now and after every write until ctx ends.
// The parent directory is watched so editors that replace the file on save
// are still seen. Bursts of events within debounce collapse into one run.
func watchCaseFile(ctx context.Context, out io.Writer, path string) error {
	const debounce = 200 * time.Millisecond

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	_ = validateFile(out, path)

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if logger != nil {
				logger.Debug("case file changed", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			}
			pending = time.After(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if logger != nil {
				logger.Warn("watcher error", zap.Error(err))
			}

		case <-pending:
			pending = nil
			_ = validateFile(out, path)
		}
	}
}
