package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lucasefe/dboutline"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the dboutline version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "dboutline version %s\n", dboutline.Version)
			return err
		},
	}
}

func newScriptCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "script <file>",
		Short: "Run a Starlark script over the database metadata",
		Long: `Run a Starlark script over the database metadata.

The script sees a "database" global with schemaCrawlerInfo, databaseInfo,
jdbcDriverInfo and schemas; each schema has fullName and tables, each table
has name and columns, each column has name, type and nullable. println(...)
writes one line to the output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f.script = args[0]
			cfg, err := resolveConfig(cmd, f)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cmd, cfg)
		},
	}
}
