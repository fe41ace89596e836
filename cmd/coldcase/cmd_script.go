package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"coldcase/internal/session"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var scriptInstant bool

// scriptCmd plays a list of commands without the terminal UI
var scriptCmd = &cobra.Command{
	Use:   "script [file]",
	Short: "Run commands from a file (or stdin) and print the transcript",
	Long: `Feeds each line of the input to a fresh session and prints the
resulting transcript, one entry per block, prefixed with its kind.

Example:
  printf 'cd encrypted\ndecrypt coordinates 071495\nopen coordinates\n' | coldcase script`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func runScript(cmd *cobra.Command, args []string) error {
	in := cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open script: %w", err)
		}
		defer f.Close()
		in = f
	}

	ws, err := resolveWorkspace()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(ws)
	if err != nil {
		return err
	}

	opts := session.Options{}
	if !scriptInstant {
		opts.DecryptDelay = cfg.GetDecryptDelay()
	}
	ctx := cmdContext(cmd)
	sess, err := newSession(ctx, cfg, opts)
	if err != nil {
		return err
	}
	return playScript(ctx, sess, in, cmd.OutOrStdout())
}

// playScript runs every non-blank line of in through sess and writes each
// produced entry to out. The solved banner is printed once, when the case
// closes.
func playScript(ctx context.Context, sess *session.Session, in io.Reader, out io.Writer) error {
	st := sess.State()
	writeEntries(out, st.Transcript)
	solved := st.Solved

	scanner := bufio.NewScanner(in)
	lines := 0
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines++

		delta, err := sess.Run(ctx, line)
		if err != nil {
			return fmt.Errorf("line %d: %w", lines, err)
		}
		if delta.Cleared {
			fmt.Fprintln(out, "-- cleared --")
		}
		writeEntries(out, delta.Entries)

		if !solved && sess.State().Solved {
			solved = true
			for _, l := range sess.Engine().Archive().Case.Solved {
				fmt.Fprintln(out, l)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}

	if logger != nil {
		logger.Debug("script finished", zap.Int("lines", lines), zap.Bool("solved", solved))
	}
	return nil
}

// writeEntries prints entries as "KIND      content"; continuation lines of a
// multi-line entry are indented to the same column.
func writeEntries(out io.Writer, entries []session.Entry) {
	for _, e := range entries {
		prefix := fmt.Sprintf("%-10s", strings.ToUpper(string(e.Kind)))
		indent := strings.Repeat(" ", len(prefix))
		body := strings.TrimRight(e.Content, "\n")
		for i, l := range strings.Split(body, "\n") {
			if i == 0 {
				fmt.Fprintln(out, strings.TrimRight(prefix+l, " "))
				continue
			}
			fmt.Fprintln(out, strings.TrimRight(indent+l, " "))
		}
	}
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
