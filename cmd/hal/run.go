package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/h41-dev/hal/api"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <module.wasm> <export> [arg...]",
		Short: "Invoke an exported function",
		Long: `Invoke an exported function of a WebAssembly module.

Arguments are parsed per the export's signature: decimal integers, read as
i32 or i64 as declared.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := loadModule(args[0])
			if err != nil {
				return err
			}

			name := args[1]
			def, err := exportDefinition(inst.ExportedFunctions(), name)
			if err != nil {
				return err
			}
			values, err := parseArgs(def, args[2:])
			if err != nil {
				return err
			}

			results, err := inst.Invoke(name, values)
			if err != nil {
				color.Red("trap: %v", err)
				return err
			}

			if len(results) == 0 {
				color.Green("ok")
				return nil
			}
			out := make([]string, 0, len(results))
			for _, r := range results {
				out = append(out, r.String())
			}
			color.Green("%s", strings.Join(out, " "))
			return nil
		},
	}
}

func exportDefinition(defs []api.FunctionDefinition, name string) (api.FunctionDefinition, error) {
	for _, def := range defs {
		if def.Name == name {
			return def, nil
		}
	}
	return api.FunctionDefinition{}, fmt.Errorf("no export named %q", name)
}

func parseArgs(def api.FunctionDefinition, raw []string) ([]api.Value, error) {
	if len(raw) != len(def.ParamTypes) {
		return nil, fmt.Errorf("%q expects %d arguments, have %d", def.Name, len(def.ParamTypes), len(raw))
	}
	values := make([]api.Value, 0, len(raw))
	for i, s := range raw {
		switch def.ParamTypes[i] {
		case api.ValueTypeI32:
			v, err := strconv.ParseInt(s, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i, err)
			}
			values = append(values, api.I32(int32(v)))
		default:
			v, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i, err)
			}
			values = append(values, api.I64(v))
		}
	}
	return values, nil
}
