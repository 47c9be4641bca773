// Package cmd holds the cobra command tree for the vtcore CLI, grounded
// on dcosson-h2/internal/cmd/root.go's NewRootCmd + newXCmd shape.
package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "vtcore",
		Short: "Terminal emulator core: local shell or SSH, vi navigation",
		Long: `vtcore drives internal/session against the controlling terminal:
it parses a child shell's (or remote host's) VT output through the screen
engine and repaints it to stdout, translating raw keystrokes back into
guest-bound bytes.`,
	}

	root.AddCommand(newRunCmd(), newSSHCmd())
	return root
}
