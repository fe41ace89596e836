package main

import (
	"fmt"
	"io"
	"strings"

	"coldcase/internal/archive"

	"github.com/spf13/cobra"
)

// treeCmd prints the layout of a case without any file content
var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the case directory tree (names and types only)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := resolveWorkspace()
		if err != nil {
			return err
		}
		cfg, err := loadConfig(ws)
		if err != nil {
			return err
		}
		arc, err := archive.Open(cfg.Case.Source)
		if err != nil {
			return fmt.Errorf("failed to open case: %w", err)
		}
		printTree(cmd.OutOrStdout(), arc)
		return nil
	},
}

// printTree writes one line per node, indented by depth. Locked state is shown
// for encrypted records; bodies, previews and passwords never are.
func printTree(out io.Writer, arc *archive.Archive) {
	fmt.Fprintf(out, "CASE #%s %s\n", arc.Case.ID, arc.Case.Title)
	archive.Walk(arc.Root, func(path string, n archive.Node) bool {
		depth := strings.Count(path, "/")
		line := fmt.Sprintf("%s%-6s %s", strings.Repeat("  ", depth+1), archive.TypeTag(n), archive.NameOf(n))
		if e, ok := n.(*archive.Encrypted); ok {
			if e.Locked() {
				line += " (locked)"
			}
			if e.SolvesCase() {
				line += " *"
			}
		}
		fmt.Fprintln(out, line)
		return true
	})
}
