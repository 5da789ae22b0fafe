package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/h41-dev/hal"
)

var debug bool

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "hal",
		Short: "hal - an embeddable WebAssembly interpreter",
		Long: `hal loads WebAssembly binaries and executes exported functions with a
trap-safe interpreter covering the integer core of the 1.0 format.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	root.AddCommand(newRunCmd())
	root.AddCommand(newInspectCmd())
	return root
}

// newEnvironment builds the Environment all subcommands share, wiring the
// --debug flag to a development logger.
func newEnvironment() (*hal.Environment, error) {
	log := zap.NewNop()
	if debug {
		var err error
		if log, err = zap.NewDevelopment(); err != nil {
			return nil, err
		}
	}
	return hal.NewEnvironment(hal.WithLogger(log)), nil
}

// loadModule reads path and instantiates it in a fresh environment.
func loadModule(path string) (*hal.Instance, error) {
	bin, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	env, err := newEnvironment()
	if err != nil {
		return nil, err
	}
	id, err := env.Load(bin)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return env.Instantiate(id)
}
