// Package cmd implements harnessd's command-line surface: "run" drives one
// configuration through the full plugin lifecycle, "plugins" lists the
// sections a configuration file declares, and "version" prints build
// information. The shape — one exported RootCommand every subcommand's
// init() attaches itself to — a common cobra wiring pattern.
package cmd

import (
	"github.com/spf13/cobra"
)

// RootCommand is the harnessd CLI's entry point; main.go does nothing but
// call RootCommand.Execute().
var RootCommand = &cobra.Command{
	Use:   "harnessd",
	Short: "harnessd runs a MySQL Router-style plugin harness",
	Long: `harnessd loads a configuration file, resolves the dependency order of
the plugins it declares, and runs them to completion: load, resolve,
initialize, start, wait for shutdown, stop, deinitialize, release.`,
}
