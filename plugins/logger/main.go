// Command logger is the logging plugin: its init hook reads the
// "[logger]" configuration section and wires the process-wide logger's
// level, format, and destination from it. It has no start hook — logging
// setup is a one-shot operation, not a running worker.
package main

import (
	"fmt"
	"os"

	"github.com/mysqlrouter/harness/internal/config"
	"github.com/mysqlrouter/harness/internal/descriptor"
	"github.com/mysqlrouter/harness/internal/pluginversion"
	"github.com/mysqlrouter/harness/log"
)

const sectionName = "logger"

func pluginInit(info *descriptor.HarnessInfo) error {
	sections := info.Config.Get(sectionName)
	if len(sections) == 0 {
		return nil
	}
	if len(sections) > 1 {
		return fmt.Errorf("%s: only one [%s] section is supported", sectionName, sectionName)
	}
	sec := sections[0]

	level, err := config.GetOptionString(sec, "level", config.OptionSpec{Default: "info"})
	if err != nil {
		return fmt.Errorf("%s: %w", sectionName, err)
	}
	if err := log.SetLevel(level); err != nil {
		return fmt.Errorf("%s: level: %w", sectionName, err)
	}

	format, err := config.GetOptionString(sec, "format", config.OptionSpec{Default: "text"})
	if err != nil {
		return fmt.Errorf("%s: %w", sectionName, err)
	}
	if format == "json" {
		log.SetJSONFormatter()
	}

	destination, err := config.GetOptionString(sec, "destination", config.OptionSpec{Default: ""})
	if err != nil {
		return fmt.Errorf("%s: %w", sectionName, err)
	}
	if destination != "" && destination != "stderr" {
		f, err := os.OpenFile(destination, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("%s: destination: %w", sectionName, err)
		}
		log.SetOutput(f)
	}

	return nil
}

func pluginDeinit(info *descriptor.HarnessInfo) error {
	return nil
}

// HarnessPlugin_logger is the symbol the loader resolves.
func HarnessPlugin_logger() descriptor.Descriptor {
	return descriptor.Descriptor{
		ABI:     descriptor.ABI,
		Brief:   "process-wide logger configuration",
		Version: pluginversion.Version{Major: 1, Minor: 0, Patch: 0},
		Init:    pluginInit,
		Deinit:  pluginDeinit,
	}
}

func main() {}
