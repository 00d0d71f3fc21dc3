package main

import (
	"fmt"
	"os"

	_ "go.uber.org/automaxprocs"

	"github.com/mysqlrouter/harness/cmd"
)

func main() {
	if err := cmd.RootCommand.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
