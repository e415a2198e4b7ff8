package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newSchemaCommand(a *app) *cobra.Command {
	var skipLoad bool
	cmd := &cobra.Command{
		Use:   "schema FILE",
		Short: "Print the column types inferred for a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.loader(cmd, args[0])
			if err != nil {
				return err
			}
			schema, err := l.InferSchema()
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(a.out)
			if skipLoad {
				table.SetHeader([]string{"Column", "Inferred"})
				for _, c := range schema.Columns {
					inferred := "default"
					if d, ok := schema.Lookup(c); ok {
						inferred = d.String()
					}
					table.Append([]string{c, inferred})
				}
				table.Render()
				return nil
			}

			data, err := l.LoadWithSchema(schema)
			if err != nil {
				return err
			}

			table.SetHeader([]string{"Column", "Inferred", "Loaded", "Missing", "Memory"})
			for _, ser := range data {
				inferred := "default"
				if d, ok := schema.Lookup(ser.Name); ok {
					inferred = d.String()
				}
				table.Append([]string{
					ser.Name,
					inferred,
					ser.Dtype().String(),
					fmt.Sprintf("%d", ser.CountMissing()),
					humanize.IBytes(uint64(ser.MemoryUsage())),
				})
			}
			rows := 0
			if len(data) > 0 {
				rows = data[0].Length()
			}
			table.SetFooter([]string{"", "", fmt.Sprintf("%d rows", rows), "total",
				humanize.IBytes(uint64(data.MemoryUsage()))})
			table.Render()
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipLoad, "sample-only", false, "only infer the types, do not load the file")
	return cmd
}
