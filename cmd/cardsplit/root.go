package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/Afrawles/cardsplit/internal/cardsplit"
	"github.com/Afrawles/cardsplit/internal/cards"
	"github.com/Afrawles/cardsplit/internal/config"
	"github.com/Afrawles/cardsplit/internal/logging"
	"github.com/spf13/cobra"
)

var (
	input      string
	output     string
	encoding   string
	column     string
	sheet      string
	outSheet   string
	missing    string
	empty      string
	summary    string
	logLevel   string
	logFormat  string
	noProgress bool
)

var rootCmd = &cobra.Command{
	Use:   "cardsplit",
	Short: "Expand offer rows to one row per eligible card",
	Long: `cardsplit reads an offers table whose card column lists several cards per
cell and writes a copy with one row per card. Cards may be separated by line
breaks, the word "and", or commas; commas inside parentheses are kept.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runExpand,
}

var splitCmd = &cobra.Command{
	Use:   "split <text>",
	Short: "Print the card names found in one cell",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		for _, token := range cards.Split(strings.Join(args, " ")) {
			fmt.Fprintln(cmd.OutOrStdout(), token)
		}
	},
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(splitCmd)

	rootCmd.Flags().StringVarP(&input, "input", "i", "", "Source file (.csv or .xlsx)")
	rootCmd.Flags().StringVarP(&output, "output", "o", "", "Destination file (.csv or .xlsx), default <input>_expanded.csv")
	rootCmd.Flags().StringVarP(&encoding, "encoding", "e", "", "Text encoding of the source file (default ISO-8859-1)")
	rootCmd.Flags().StringVarP(&column, "column", "c", "", "Column to split (default \"Eligible Credit Cards\")")
	rootCmd.Flags().StringVar(&sheet, "sheet", "", "Worksheet to read from an .xlsx source")
	rootCmd.Flags().StringVar(&outSheet, "output-sheet", "", "Worksheet name for an .xlsx destination (default Sheet1)")
	rootCmd.Flags().StringVar(&missing, "missing", "", "Missing card cells: literal (one \"nan\" row) or empty")
	rootCmd.Flags().StringVar(&empty, "empty", "", "Rows without cards: drop or keep-empty")
	rootCmd.Flags().StringVar(&summary, "summary", "", "Write a JSON run summary to this file")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.Flags().StringVar(&logFormat, "log-format", "", "Log format: text or json")
	rootCmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable progress bars")
}

func runExpand(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)

	logger, cleanup := logging.Setup(os.Stderr, cfg.Log.Level, cfg.Log.Format, cfg.Log.SeqURL)
	defer cleanup()

	app, err := cardsplit.New(cfg, logger)
	if err != nil {
		return err
	}
	if !noProgress {
		app.Hooks = progressHooks()
	}

	res, err := app.Run(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nExpanded table saved to %s\n", res.Output)
	fmt.Fprintf(out, "  Input rows:  %d\n", res.Stats.InputRows)
	fmt.Fprintf(out, "  Output rows: %d\n", res.Stats.OutputRows)
	if res.Stats.DroppedRows > 0 {
		fmt.Fprintf(out, "  Dropped:     %d (no card names)\n", res.Stats.DroppedRows)
	}
	return nil
}

// applyFlags overrides environment configuration with flags set on the
// command line.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	set := func(name string, dst *string, value string) {
		if cmd.Flags().Changed(name) {
			*dst = value
		}
	}
	set("input", &cfg.Input.Path, input)
	set("output", &cfg.Output.Path, output)
	set("encoding", &cfg.Input.Encoding, encoding)
	set("column", &cfg.TargetColumn, column)
	set("sheet", &cfg.Input.Sheet, sheet)
	set("output-sheet", &cfg.Output.Sheet, outSheet)
	set("missing", &cfg.Missing, missing)
	set("empty", &cfg.Empty, empty)
	set("summary", &cfg.Output.Summary, summary)
	set("log-level", &cfg.Log.Level, logLevel)
	set("log-format", &cfg.Log.Format, logFormat)
}
