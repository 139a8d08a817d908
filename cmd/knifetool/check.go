package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Faultbox/meshknife/pkg/formats"
	"github.com/Faultbox/meshknife/pkg/mesh"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <model.yaml>",
		Short: "Validate the meshes of a model",
		Args:  cobra.ExactArgs(1),
		RunE:  runCheck,
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	doc, err := formats.LoadModel(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	failed := 0
	for _, md := range doc.Meshes {
		m := md.ToMesh()
		problems := mesh.Validate(m)
		fmt.Fprintf(out, "%s: %d vertices, %d faces, %d problems\n", m.ID, len(m.Vertices), len(m.Faces), len(problems))
		for _, p := range problems {
			fmt.Fprintf(out, "  %s\n", p)
		}
		if mesh.HasErrors(problems) {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d meshes are invalid", failed, len(doc.Meshes))
	}
	return nil
}
