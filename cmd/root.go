package cmd

import (
	"log/slog"
	"os"

	"github.com/fantasybroadcast/colorbook/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "colorbook",
		Short: "Print-ready cover and interior builder for coloring books",
		Long: `Colorbook builds print-on-demand files for children's coloring books.

It reads the rendered pages of a title (fbnp_<N>.png) from its directory under
the books root, computes the cover geometry from trim size, paper and page
count, and writes a wraparound cover (PNG + PDF) and a paginated interior PDF.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: config.LogLevel(verbose),
			})
			slog.SetDefault(slog.New(handler))
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")

	// Add subcommands
	cmd.AddCommand(newCoverCmd())
	cmd.AddCommand(newInteriorCmd())
	cmd.AddCommand(newDimsCmd())

	return cmd
}

// applyProfile loads the --profile file, if any, into the command's flags
func applyProfile(cmd *cobra.Command, path string) error {
	if path == "" {
		return nil
	}
	p, err := config.LoadProfile(path)
	if err != nil {
		return err
	}
	slog.Debug("Loaded profile", "path", path)
	return p.Apply(cmd.Flags(), cmd.Name())
}

func rootDir(flag string) string {
	if flag != "" {
		return flag
	}
	return config.Root()
}
