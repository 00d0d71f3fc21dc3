package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mysqlrouter/harness/internal/config"
)

func init() {
	var program string

	pluginsCommand := &cobra.Command{
		Use:   "plugins <config-file>",
		Short: "List the plugin sections a configuration file declares",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dirs := config.DefaultDirectories(program)
			store, err := config.LoadFile(args[0], dirs)
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			for _, name := range pluginSectionNames(store) {
				fmt.Fprintln(os.Stdout, name)
			}
			return nil
		},
	}

	addProgramFlag(pluginsCommand.Flags(), &program)
	RootCommand.AddCommand(pluginsCommand)
}
