package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Faultbox/meshknife/internal/knife"
)

func newSplitBoxCmd() *cobra.Command {
	var opts cutOptions
	cmd := &cobra.Command{
		Use:   "split-box <model.yaml> <path.yaml>",
		Short: "Split a box in two along the plane of a recorded path",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSplitBox(cmd, args[0], args[1], &opts)
		},
	}
	opts.bind(cmd)
	return cmd
}

func runSplitBox(cmd *cobra.Command, modelPath, cutPath string, opts *cutOptions) error {
	doc, path, err := loadInputs(modelPath, cutPath)
	if err != nil {
		return err
	}
	b, err := doc.Box(path.Target)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	console := newConsoleHost(out)
	host, _ := newHost(doc, console)
	tool := knife.NewTool(cfg.Knife, host)

	s, err := tool.BeginBox(b)
	if err != nil {
		return err
	}
	replay(s, path, boxCaster(b), opts.pickRadius, out)

	if opts.dryRun {
		printPreview(cmd, s.Preview())
		return s.Cancel()
	}

	outcome, err := s.Apply()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s: %s\n", b.ID, outcome)
	if outcome != knife.OutcomeApplied {
		return nil
	}
	console.printSelection()

	// The new half was added to the document by the scene.
	doc.PutBox(b)
	return doc.Save(opts.target(modelPath))
}
