package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/vastavik/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "vastavik: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		prefsPath  string
		apiBase    string
		dropDir    string
	)

	root := &cobra.Command{
		Use:   "vastavik [file...]",
		Short: "Medical image deepfake detection in the terminal",
		Long: `vastavik uploads a medical image to the deepfake analysis service and
shows the verdict, confidence score and flagged anomalies.

Files can be given as arguments, chosen with the picker, pasted or dropped
onto the terminal, or dropped into a watched folder (--drop-dir).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), app.Options{
				ConfigPath: configPath,
				PrefsPath:  prefsPath,
				Files:      args,
				DropDir:    dropDir,
				APIBase:    apiBase,
			})
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.config/vastavik/config.toml)")
	root.PersistentFlags().StringVar(&apiBase, "api", "", "analysis service base URL (overrides config)")
	root.Flags().StringVar(&prefsPath, "prefs", "", "preferences file path (default ~/.config/vastavik/prefs.toml)")
	root.Flags().StringVar(&dropDir, "drop-dir", "", "folder to watch for dropped images (overrides config)")

	root.AddCommand(newAnalyzeCmd(&configPath, &apiBase))
	return root
}

func newAnalyzeCmd(configPath, apiBase *string) *cobra.Command {
	var (
		withReport bool
		jsonOut    bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Analyze one image without the TUI",
		Long: `Analyze uploads one image, waits for the result and prints a summary.

Examples:
  vastavik analyze knee.png
  vastavik analyze scan.dcm --report
  vastavik analyze knee.png --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Analyze(cmd.Context(), app.AnalyzeOptions{
				ConfigPath: *configPath,
				APIBase:    *apiBase,
				Path:       args[0],
				Report:     withReport,
				JSON:       jsonOut,
			}, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&withReport, "report", false, "also download the PDF report")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the raw analysis result as JSON")
	return cmd
}
