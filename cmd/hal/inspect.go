package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/h41-dev/hal/api"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <module.wasm>",
		Short: "List a module's exported functions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := loadModule(args[0])
			if err != nil {
				return err
			}

			defs := inst.ExportedFunctions()
			if len(defs) == 0 {
				fmt.Println("no exported functions")
				return nil
			}
			for _, def := range defs {
				color.Cyan("%s: (%s) -> (%s)",
					def.Name, typeList(def.ParamTypes), typeList(def.ResultTypes))
			}
			return nil
		},
	}
}

func typeList(types []api.ValueType) string {
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, t.String())
	}
	return strings.Join(names, ", ")
}
