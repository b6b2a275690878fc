package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/pixparse"
	"github.com/gogpu/pixparse/source"
)

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <file>...",
		Short: "Show format, orientation and output size without decoding pixels",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runInfo,
	}
	cmd.Flags().String("lang", "en", "Language tag for number formatting")
	return cmd
}

func runInfo(cmd *cobra.Command, args []string) error {
	lang, _ := cmd.Flags().GetString("lang")
	tag, err := language.Parse(lang)
	if err != nil {
		return fmt.Errorf("invalid --lang %q: %w", lang, err)
	}
	p := message.NewPrinter(tag)
	w := cmd.OutOrStdout()

	for i, path := range args {
		cfg, err := readConfig(path)
		if err != nil {
			return err
		}
		vw, vh := cfg.VisualSize()

		if i > 0 {
			fmt.Fprintln(w)
		}
		p.Fprintf(w, "File:        %s\n", path)
		p.Fprintf(w, "Format:      %s (%s)\n", cfg.Format, cfg.ColorModel)
		p.Fprintf(w, "Layout:      %s\n", cfg.Layout)
		p.Fprintf(w, "Stored:      %d x %d\n", cfg.Width, cfg.Height)
		p.Fprintf(w, "Orientation: %s (%d)\n", cfg.Orientation, uint8(cfg.Orientation))
		p.Fprintf(w, "Output:      %d x %d\n", vw, vh)
		p.Fprintf(w, "Buffer:      %d bytes\n", vw*vh*pixparse.BytesPerPixel)
	}
	return nil
}

func readConfig(path string) (source.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return source.Config{}, fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()

	cfg, err := source.DecodeConfig(f)
	if err != nil {
		return source.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
