package cmd

import (
	"github.com/spf13/pflag"
)

// addProgramFlag attaches the --program/-p flag shared by every subcommand
// that loads a configuration file and needs to know which directory layout
// to derive from it.
func addProgramFlag(fs *pflag.FlagSet, program *string) {
	fs.StringVarP(program, "program", "p", "harnessd", "program name, used to derive the default directory layout")
}
