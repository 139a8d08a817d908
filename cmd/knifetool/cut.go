package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Faultbox/meshknife/internal/knife"
	"github.com/Faultbox/meshknife/pkg/formats"
)

// cutOptions are shared by the cut and split-box commands.
type cutOptions struct {
	output     string
	dryRun     bool
	pickRadius float64
}

func (o *cutOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "Write the result here instead of over the model")
	cmd.Flags().BoolVar(&o.dryRun, "dry-run", false, "Resolve the path and print it without applying")
	cmd.Flags().Float64Var(&o.pickRadius, "pick-radius", 0.05, "Vertex and edge pick radius for ray events")
}

func (o *cutOptions) target(modelPath string) string {
	if o.output != "" {
		return o.output
	}
	return modelPath
}

func loadInputs(modelPath, cutPath string) (*formats.Model, *formats.CutPathDoc, error) {
	doc, err := formats.LoadModel(modelPath)
	if err != nil {
		return nil, nil, err
	}
	path, err := formats.LoadCutPath(cutPath)
	if err != nil {
		return nil, nil, err
	}
	return doc, path, nil
}

func newCutCmd() *cobra.Command {
	var opts cutOptions
	cmd := &cobra.Command{
		Use:   "cut <model.yaml> <path.yaml>",
		Short: "Cut a mesh along a recorded path",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCut(cmd, args[0], args[1], &opts)
		},
	}
	opts.bind(cmd)
	return cmd
}

func runCut(cmd *cobra.Command, modelPath, cutPath string, opts *cutOptions) error {
	doc, path, err := loadInputs(modelPath, cutPath)
	if err != nil {
		return err
	}
	m, err := doc.Mesh(path.Target)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	console := newConsoleHost(out)
	host, journal := newHost(doc, console)
	tool := knife.NewTool(cfg.Knife, host)

	s, err := tool.BeginMesh(m)
	if err != nil {
		return err
	}
	replay(s, path, meshCaster(m), opts.pickRadius, out)

	if opts.dryRun {
		printPreview(cmd, s.Preview())
		return s.Cancel()
	}

	outcome, err := s.Apply()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s: %s\n", m.ID, outcome)
	if outcome != knife.OutcomeApplied {
		return nil
	}
	console.printSelection()
	for _, e := range journal.Entries() {
		fmt.Fprintf(out, "recorded: %s\n", e.Label)
	}

	doc.PutMesh(m)
	return doc.Save(opts.target(modelPath))
}

func printPreview(cmd *cobra.Command, p knife.Preview) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d points\n", p.Target, len(p.Points))
	if p.Hover != nil {
		fmt.Fprintf(out, "hover: %s\n", p.Hover)
	}
	if p.Plane != nil {
		fmt.Fprintf(out, "plane: axis %d at %.4f\n", p.Plane.Axis, p.Plane.Offset)
	}
}
