package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danmuck/edgeapi/internal/config"
	"github.com/danmuck/edgeapi/internal/protocol/schema"
)

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the CDDL schema of the envelopes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), schema.CDDL)
			return err
		},
	}
}

func newConfigCmd() *cobra.Command {
	var force bool
	initCmd := &cobra.Command{
		Use:   "init <path>",
		Short: "Write a config file holding the defaults",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.WriteTemplate(args[0], force); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
			return err
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage envctl config files",
	}
	cmd.AddCommand(initCmd)
	return cmd
}
