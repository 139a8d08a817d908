// knifetool applies recorded knife cuts to model documents.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Faultbox/meshknife/internal/config"
	"github.com/Faultbox/meshknife/internal/logger"
)

var (
	flags config.Flags
	cfg   *config.Config
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "knifetool",
		Short: "Cut meshes and split boxes in model documents",
		Long: `knifetool replays a recorded cut path against an element of a model
document. Meshes are split face by face along the path; boxes are split in
two along the plane picked by the first two points.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load(&flags)
			if err != nil {
				return err
			}
			cfg = c
			return logger.Init(cfg.Logging.Level, cfg.Logging.LogFile)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}
	flags.Bind(root.PersistentFlags())

	root.AddCommand(newCutCmd(), newSplitBoxCmd(), newCheckCmd(), newExportCmd(), newConfigCmd())
	return root
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
