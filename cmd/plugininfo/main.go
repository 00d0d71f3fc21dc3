// Command plugininfo is a standalone diagnostic: given a plugin shared
// object and the plugin name it exports, it prints the plugin's descriptor
// without starting a harness.
package main

import (
	"fmt"
	"os"

	"github.com/mysqlrouter/harness/internal/descriptor"
	"github.com/mysqlrouter/harness/internal/pluginloader"
)

const appName = "plugininfo"
const appVersion = "1.0.0"

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

func run(args []string, out, errOut *os.File) int {
	if len(args) == 2 {
		switch args[1] {
		case "--help":
			printUsage(args[0], errOut)
			return 0
		case "--version":
			fmt.Fprintf(errOut, "%s %s\n", appName, appVersion)
			return 0
		}
	}

	if len(args) != 3 {
		printUsage(args[0], errOut)
		return 1
	}

	fileName, pluginName := args[1], args[2]

	desc, newerMinor, err := pluginloader.LoadPath(fileName, pluginName)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}

	printDescriptor(out, desc, newerMinor)
	return 0
}

func printUsage(exe string, errOut *os.File) {
	fmt.Fprintln(errOut, "Usage:")
	fmt.Fprintf(errOut, "\t%s <plugin_file> <plugin_name>\n", exe)
	fmt.Fprintln(errOut, "Example:")
	fmt.Fprintf(errOut, "\t%s /usr/lib/harnessd/routing.so routing\n", exe)
	fmt.Fprintln(errOut, "To print help information:")
	fmt.Fprintf(errOut, "\t%s --help\n", exe)
	fmt.Fprintln(errOut, "To print application version:")
	fmt.Fprintf(errOut, "\t%s --version\n", exe)
}

func printDescriptor(out *os.File, desc descriptor.Descriptor, newerMinor bool) {
	fmt.Fprintf(out, "name:          %s\n", desc.Name)
	fmt.Fprintf(out, "abi_version:   %d.%d\n", descriptor.ABIMajor(desc.ABI), descriptor.ABIMinor(desc.ABI))
	fmt.Fprintf(out, "plugin_version: %s\n", desc.Version)
	fmt.Fprintf(out, "brief:         %s\n", desc.Brief)
	fmt.Fprintf(out, "requires:      %s\n", joinOrNone(desc.Requires))
	fmt.Fprintf(out, "conflicts:     %s\n", joinOrNone(desc.Conflicts))
	if newerMinor {
		fmt.Fprintln(out, "note:          built against a newer, compatible harness ABI minor version")
	}
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	s := items[0]
	for _, it := range items[1:] {
		s += ", " + it
	}
	return s
}
