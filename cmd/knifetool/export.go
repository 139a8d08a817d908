package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Faultbox/meshknife/pkg/formats"
)

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-stl <model.yaml> <mesh-id> <out.stl>",
		Short: "Write one mesh of a model as STL",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := formats.LoadModel(args[0])
			if err != nil {
				return err
			}
			m, err := doc.Mesh(args[1])
			if err != nil {
				return err
			}
			if err := formats.SaveSTL(args[2], m); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d faces to %s\n", len(m.Faces), args[2])
			return nil
		},
	}
}
