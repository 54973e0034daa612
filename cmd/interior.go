package cmd

import (
	"fmt"

	"github.com/fantasybroadcast/colorbook/internal/config"
	"github.com/fantasybroadcast/colorbook/internal/geometry"
	"github.com/fantasybroadcast/colorbook/internal/interior"
	"github.com/spf13/cobra"
)

func newInteriorCmd() *cobra.Command {
	var safeTitle string
	var trim string
	var dpi int
	var marginIn float64
	var bleed bool
	var noBleed bool
	var copyright string
	var root string
	var fontPath string
	var profile string

	cmd := &cobra.Command{
		Use:   "interior",
		Short: "Build the interior PDF",
		Long: `Builds the interior PDF for a title: a "This Book Belongs To" page, a
copyright page, then every coloring page of the title in order, each centered
inside the margins.`,
		Example: `  # Letter-size interior with half inch margins
  colorbook interior --safe-title Cute_Dinosaurs

  # 6x9 interior with bleed
  colorbook interior --safe-title Cute_Dinosaurs --trim 6x9 --bleed`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applyProfile(cmd, profile); err != nil {
				return err
			}

			t, err := geometry.ParseTrim(trim)
			if err != nil {
				return err
			}

			res, err := interior.Build(cmd.Context(), interior.Options{
				SafeTitle:     safeTitle,
				Trim:          t,
				DPI:           dpi,
				MarginIn:      marginIn,
				Bleed:         bleed && !noBleed,
				CopyrightText: copyright,
				Root:          rootDir(root),
				FontDir:       config.FontDir(),
				Font:          fontPath,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Interior built: %s\n", res.PDFPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&safeTitle, "safe-title", "", "Title directory name under the books root (required)")
	cmd.Flags().StringVar(&trim, "trim", "8.5x11", "Trim size in inches, e.g. 8.5x11")
	cmd.Flags().IntVar(&dpi, "dpi", geometry.DefaultDPI, "Output resolution")
	cmd.Flags().Float64Var(&marginIn, "margin-in", interior.DefaultMarginIn, "Margin around the artwork in inches")
	cmd.Flags().BoolVar(&bleed, "bleed", false, "Lay pages out with bleed")
	cmd.Flags().BoolVar(&noBleed, "no-bleed", false, "Force a no-bleed layout (overrides --bleed)")
	cmd.Flags().StringVar(&copyright, "copyright", "", "Copyright page text, lines separated by \\n")
	cmd.Flags().StringVar(&root, "root", "", "Books root directory (defaults to $COLORBOOK_ROOT)")
	cmd.Flags().StringVar(&fontPath, "font", "", "Font file for the front matter")
	cmd.Flags().StringVar(&profile, "profile", "", "YAML profile with flag defaults")

	_ = cmd.MarkFlagRequired("safe-title")
	return cmd
}
