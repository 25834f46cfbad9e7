package cli

import (
	"bufio"
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	if a.email == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", a.email)
}

// Root runs the REPL on the app's input until the user exits.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to authkeeper CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
}
