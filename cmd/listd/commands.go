package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/listd/internal/commands"
)

func newCommandsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "Print the slash command definitions as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(commands.Definitions())
		},
	}
}
