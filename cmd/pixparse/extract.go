package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/pixparse"
	"github.com/gogpu/pixparse/source"
)

func newExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <file>...",
		Short: "Write the upright RGBA8 pixels of each file to <name>.rgba",
		Long: `Decode each file, apply its EXIF orientation and write the pixels as
raw RGBA8 bytes, row-major from the top-left, with straight alpha.
The output for photo.jpg is photo.rgba in the output directory.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runExtract,
	}
	cmd.Flags().StringP("output", "o", "", "Output directory (default: next to each input)")
	cmd.Flags().String("backend", pixparse.RasterizerSoftware, "Rasterizer backend (see 'pixparse backends')")
	cmd.Flags().Int("max-bytes", pixparse.DefaultMaxBytes, "Largest output buffer in bytes")
	cmd.Flags().IntP("jobs", "j", runtime.GOMAXPROCS(0), "Files processed concurrently")
	return cmd
}

func runExtract(cmd *cobra.Command, args []string) error {
	outDir, _ := cmd.Flags().GetString("output")
	backend, _ := cmd.Flags().GetString("backend")
	maxBytes, _ := cmd.Flags().GetInt("max-bytes")
	jobs, _ := cmd.Flags().GetInt("jobs")

	ex, err := pixparse.New(
		pixparse.WithBackend(backend),
		pixparse.WithMaxBytes(maxBytes),
		pixparse.WithScratchBuffers(jobs),
	)
	if err != nil {
		return err
	}
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	results := make([]string, len(args))
	g, ctx := errgroup.WithContext(cmd.Context())
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, path := range args {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out := outputPath(path, outDir)
			img, pb, err := extractFile(ex, path, out)
			if err != nil {
				return err
			}
			results[i] = fmt.Sprintf("%s -> %s (%dx%d, %d bytes) from %s",
				path, out, pb.Width(), pb.Height(), pb.Len(), img.LayoutDetail())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	for _, r := range results {
		fmt.Fprintln(w, r)
	}
	return nil
}

func extractFile(ex *pixparse.Extractor, path, out string) (*source.Image, *pixparse.PixelBuffer, error) {
	img, err := source.Open(path)
	if err != nil {
		return nil, nil, err
	}
	pb, err := ex.Extract(img)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := os.WriteFile(out, pb.Data(), 0o644); err != nil {
		return nil, nil, fmt.Errorf("writing %s: %w", out, err)
	}
	pixparse.Logger().Debug("pixparse: wrote buffer",
		"input", path,
		"layout", img.Layout(),
		"output", out,
		"bytes", pb.Len())
	return img, pb, nil
}

// outputPath returns <dir>/<base>.rgba, using the input's directory when
// dir is empty.
func outputPath(path, dir string) string {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + ".rgba"
	if dir == "" {
		dir = filepath.Dir(path)
	}
	return filepath.Join(dir, name)
}
