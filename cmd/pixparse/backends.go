package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogpu/pixparse"
)

func newBackendsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "List registered rasterizer backends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			def := pixparse.DefaultRasterizer()
			for _, name := range pixparse.Rasterizers() {
				mark := ""
				if def != nil && def.Name() == name {
					mark = " (default)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", name, mark)
			}
			return nil
		},
	}
}
