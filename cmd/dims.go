package cmd

import (
	"fmt"

	"github.com/fantasybroadcast/colorbook/internal/geometry"
	"github.com/spf13/cobra"
)

func newDimsCmd() *cobra.Command {
	var trim string
	var pageCount int
	var paper string
	var dpi int

	cmd := &cobra.Command{
		Use:   "dims",
		Short: "Print cover dimensions for a trim, page count and paper",
		Example: `  colorbook dims --trim 8.5x11 --pages 30
  colorbook dims --trim 6x9 --pages 120 --paper cream`,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := geometry.ParseTrim(trim)
			if err != nil {
				return err
			}
			p, err := geometry.ParsePaper(paper)
			if err != nil {
				return err
			}
			g, err := geometry.Compute(t, pageCount, p, dpi)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Trim:   %s (%dx%d px)\n", t, g.TrimPx.W, g.TrimPx.H)
			fmt.Fprintf(out, "Spine:  %.4f in (%d px)\n", g.SpineInches, g.SpinePx)
			fmt.Fprintf(out, "Canvas: %dx%d px at %d DPI\n", g.Total.W, g.Total.H, g.DPI)
			fmt.Fprintf(out, "Back:   x %d-%d\n", g.Back.X0, g.Back.X1)
			fmt.Fprintf(out, "Spine:  x %d-%d\n", g.Spine.X0, g.Spine.X1)
			fmt.Fprintf(out, "Front:  x %d-%d\n", g.Front.X0, g.Front.X1)
			fmt.Fprintf(out, "Spine text allowed: %t\n", geometry.SpineTextAllowed(pageCount))
			return nil
		},
	}

	cmd.Flags().StringVar(&trim, "trim", "8.5x11", "Trim size in inches, e.g. 8.5x11")
	cmd.Flags().IntVar(&pageCount, "pages", 0, "Interior page count")
	cmd.Flags().StringVar(&paper, "paper", string(geometry.PaperWhite), "Paper stock")
	cmd.Flags().IntVar(&dpi, "dpi", geometry.DefaultDPI, "Output resolution")

	return cmd
}
