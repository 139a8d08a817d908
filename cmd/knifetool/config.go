package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	var (
		to   string
		save bool
	)
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration, or write it to a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch {
			case to != "":
				if err := cfg.SaveTo(to); err != nil {
					return err
				}
				fmt.Fprintf(out, "wrote %s\n", to)
			case save:
				path, err := cfg.Save()
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "wrote %s\n", path)
			default:
				data, err := cfg.Marshal()
				if err != nil {
					return err
				}
				if _, err := out.Write(data); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Write the configuration to this path")
	cmd.Flags().BoolVar(&save, "save", false, "Write the configuration to the user config directory")
	return cmd
}
