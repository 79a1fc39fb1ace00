package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/thenoetrevino/embudo/cmd"
	"github.com/thenoetrevino/embudo/internal/cli"
)

func main() {
	if err := cmd.Execute(context.Background()); err != nil {
		// Commands report their own failures; anything else is cobra's
		var exitErr *cli.CommandError
		if !errors.As(err, &exitErr) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(cli.ExitCodeFor(err))
	}
}
