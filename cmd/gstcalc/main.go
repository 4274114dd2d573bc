package main

import (
	"fmt"
	"io"
	"os"

	"github.com/Maxx-Protein/compliance-companion/internal/config"
	"github.com/Maxx-Protein/compliance-companion/internal/logger"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	if err := logger.SetupWriter(config.LogConfig{Level: "warn", Format: "json"}, stderr); err != nil {
		fmt.Fprintf(stderr, "Error setting up logging: %v\n", err)
		return 1
	}
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		l := logger.WithComponent("gstcalc")
		l.Error().Err(err).Msg("command failed")
		return 1
	}
	return 0
}
