package cmd

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/mysqlrouter/harness/internal/config"
	"github.com/mysqlrouter/harness/internal/harness"
	"github.com/mysqlrouter/harness/internal/pluginloader"
	"github.com/mysqlrouter/harness/log"
)

func init() {
	var program string
	var logLevel string

	runCommand := &cobra.Command{
		Use:   "run <config-file>",
		Short: "Load a configuration file and run its plugins to completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHarness(args[0], program, logLevel)
		},
	}

	addProgramFlag(runCommand.Flags(), &program)
	runCommand.Flags().StringVarP(&logLevel, "log-level", "l", "info", "set log level (debug, info, warn, error)")
	RootCommand.AddCommand(runCommand)
}

func runHarness(configFile, program, logLevel string) error {
	if err := log.SetLevel(logLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	logEntry := log.ForComponent("cmd")

	dirs := config.DefaultDirectories(program)
	store, err := config.LoadFile(configFile, dirs)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	pluginNames := pluginSectionNames(store)
	if len(pluginNames) == 0 {
		return fmt.Errorf("configuration %s declares no plugin sections", configFile)
	}

	stopWatch, err := watchConfigFile(configFile, logEntry)
	if err != nil {
		logEntry.WithField("err", err).Warn("config file watch not available")
	} else {
		defer stopWatch()
	}

	loader := pluginloader.New(dirs.ExtensionDir)
	engine := harness.New(store, loader, logEntry)

	if err := engine.Run(context.Background(), pluginNames); err != nil {
		return fmt.Errorf("harness run: %w", err)
	}
	return nil
}

// pluginSectionNames returns the unique section names declared in store, in
// the order they first appear in the configuration file — each one names a
// plugin to load. The "DEFAULT" section go-ini yields for options outside
// any named section is never loaded as a plugin.
func pluginSectionNames(store *config.Store) []string {
	seen := map[string]bool{}
	var names []string
	for _, sec := range store.Sections() {
		if sec.Name == "DEFAULT" || seen[sec.Name] {
			continue
		}
		seen[sec.Name] = true
		names = append(names, sec.Name)
	}
	return names
}

// watchConfigFile watches the configuration file itself and logs when it
// changes, giving a future SIGHUP-triggered reload a notification path
// to build on — today the harness only observes the change, it does not
// act on it (see Non-goals: no hot reload).
func watchConfigFile(configFile string, logEntry *log.Entry) (stop func(), err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(configFile); err != nil {
		watcher.Close()
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				logEntry.WithField("event", event.String()).Info("configuration file changed")
			case werr, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logEntry.WithField("err", werr).Warn("config watcher error")
			case <-done:
				return
			}
		}
	}()

	return func() {
		close(done)
		watcher.Close()
	}, nil
}
