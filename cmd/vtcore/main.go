// Command vtcore drives internal/session against a real TTY: it puts the
// controlling terminal into raw mode, spawns a local shell or SSH
// transport, and repaints the screen engine's RenderBuffer to stdout.
// It's a thin demonstration harness over the library packages, grounded
// on dcosson-h2/internal/cmd's cobra command tree (NewRootCmd plus one
// newXCmd per subcommand) and internal/session/client's raw-mode/resize/
// render loop (term.MakeRaw, SIGWINCH via term.GetSize, save/restore
// cursor around a repaint).
package main

import (
	"fmt"
	"os"

	"github.com/dgterm/vtcore/cmd/vtcore/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
