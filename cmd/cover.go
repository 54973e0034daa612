package cmd

import (
	"fmt"

	"github.com/fantasybroadcast/colorbook/internal/config"
	"github.com/fantasybroadcast/colorbook/internal/cover"
	"github.com/fantasybroadcast/colorbook/internal/geometry"
	"github.com/spf13/cobra"
)

func newCoverCmd() *cobra.Command {
	var safeTitle string
	var title string
	var description string
	var pageCount int
	var paper string
	var trim string
	var maxImages int
	var spineTitle string
	var background string
	var seed uint64
	var dpi int
	var root string
	var titleFont string
	var bodyFont string
	var profile string

	cmd := &cobra.Command{
		Use:   "cover",
		Short: "Build a wraparound cover (PNG + PDF)",
		Long: `Builds the full wraparound cover for a title: back panel, spine and front
panel with bleed, sized from the trim, paper stock and page count.

A few interior pages are scattered over both panels as tilted sheets. The
front carries the title, the back the description and a blank barcode area.
Spine text is only drawn for books of 79 pages or more.`,
		Example: `  # Build a letter-size cover for a 30 page book
  colorbook cover --safe-title Cute_Dinosaurs --title "Cute Dinosaurs" \
    --description "30 fun dinosaurs to color" --pages 30

  # Reproduce a layout on cream paper with a solid background
  colorbook cover --safe-title Cute_Dinosaurs --title "Cute Dinosaurs" \
    --description "..." --pages 120 --paper cream --bg "#FFF4E6" --seed 7`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applyProfile(cmd, profile); err != nil {
				return err
			}

			t, err := geometry.ParseTrim(trim)
			if err != nil {
				return err
			}
			p, err := geometry.ParsePaper(paper)
			if err != nil {
				return err
			}

			opts := cover.Options{
				SafeTitle:    safeTitle,
				Title:        title,
				Description:  description,
				Pages:        pageCount,
				Paper:        p,
				Trim:         t,
				MaxImages:    maxImages,
				SpineTitle:   spineTitle,
				Background:   background,
				DPI:          dpi,
				Root:         rootDir(root),
				FontDir:      config.FontDir(),
				TitleFont:    titleFont,
				BodyFont:     bodyFont,
				MagickBinary: config.MagickBinary(),
			}
			if cmd.Flags().Changed("seed") {
				opts.Seed = &seed
			}

			res, err := cover.Build(cmd.Context(), opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Cover built: %s\n", res.PDFPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&safeTitle, "safe-title", "", "Title directory name under the books root (required)")
	cmd.Flags().StringVar(&title, "title", "", "Front cover title (required)")
	cmd.Flags().StringVar(&description, "description", "", "Back cover description (required)")
	cmd.Flags().IntVar(&pageCount, "pages", 0, "Interior page count (required)")
	cmd.Flags().StringVar(&paper, "paper", string(geometry.PaperWhite), "Paper stock (white, cream, color-premium, color-standard)")
	cmd.Flags().StringVar(&trim, "trim", "8.5x11", "Trim size in inches, e.g. 8.5x11")
	cmd.Flags().IntVar(&maxImages, "max-images", cover.DefaultMaxImages, "Preview sheets on the cover (2-5)")
	cmd.Flags().StringVar(&spineTitle, "spine-title", "", "Spine text (79+ pages only)")
	cmd.Flags().StringVar(&background, "bg", cover.DefaultBackground, `Background: "#RRGGBB" or "gradient:pastel:N"`)
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed for a reproducible layout")
	cmd.Flags().IntVar(&dpi, "dpi", geometry.DefaultDPI, "Output resolution")
	cmd.Flags().StringVar(&root, "root", "", "Books root directory (defaults to $COLORBOOK_ROOT)")
	cmd.Flags().StringVar(&titleFont, "title-font", "", "Font file for the title and spine")
	cmd.Flags().StringVar(&bodyFont, "body-font", "", "Font file for the description")
	cmd.Flags().StringVar(&profile, "profile", "", "YAML profile with flag defaults")

	_ = cmd.MarkFlagRequired("safe-title")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("pages")
	return cmd
}
