package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/mysqlrouter/harness/internal/descriptor"
)

// harnessVersion is the harness's own release version, independent of the
// plugin ABI version it enforces (descriptor.ABI).
const harnessVersion = "1.0.0"

func init() {
	versionCommand := &cobra.Command{
		Use:   "version",
		Short: "Print harnessd's version and ABI information",
		Run: func(cmd *cobra.Command, args []string) {
			generateVersionOutput(os.Stdout)
		},
	}
	RootCommand.AddCommand(versionCommand)
}

func generateVersionOutput(out *os.File) {
	fmt.Fprintln(out, "Version:", harnessVersion)
	fmt.Fprintf(out, "Plugin ABI: %d.%d\n", descriptor.ABIMajor(descriptor.ABI), descriptor.ABIMinor(descriptor.ABI))
	fmt.Fprintln(out, "Go Version:", runtime.Version())
}
