// Command pixparse decodes image files and writes their upright pixels as
// raw straight-alpha RGBA8 bytes.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/pixparse"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pixparse",
		Short:         "Convert images to raw RGBA8 pixel buffers",
		Version:       pixparse.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				pixparse.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})))
			}
		},
	}
	root.PersistentFlags().BoolP("verbose", "v", false, "Log decode details to stderr")

	root.AddCommand(newExtractCmd(), newInfoCmd(), newBackendsCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
