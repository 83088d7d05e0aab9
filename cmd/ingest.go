package cmd

import (
	"fmt"
	"os"

	"github.com/raidtally/raidtally/internal/cli"
	"github.com/raidtally/raidtally/internal/pipeline"
	"github.com/raidtally/raidtally/internal/source"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Process combat logs into the database",
	Long:  "Scan a combat log file or a directory of logs, decode every event, detect encounters, and store the results.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	logPath := cfg.General.LogDir
	if len(args) > 0 {
		logPath = args[0]
	}
	if logPath == "" {
		return fmt.Errorf("no log path given and no log_dir configured")
	}

	files, err := source.ScanDir(logPath)
	if err != nil {
		return fmt.Errorf("scanning %s: %w", logPath, err)
	}
	if len(files) == 0 {
		fmt.Println("\n  No combat logs found.")
		return nil
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	runner := pipeline.NewRunner(st, cfg.General.LogYear, cfg.General.RealmID)
	if !flagQuiet {
		bar := progressbar.NewOptions64(-1,
			progressbar.OptionSetDescription("processing"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
		)
		runner.Progress = func(fileName string, delta int64) {
			_ = bar.Add64(delta)
		}
		defer func() {
			_ = bar.Finish()
			fmt.Fprintln(os.Stderr)
		}()
	}

	runs, err := runner.ProcessAll(cmd.Context(), files)
	if err != nil {
		return err
	}

	table := cli.Table{
		Title:   "Ingested logs",
		Headers: []string{"Log", "Lines", "Events", "Unknown", "Duplicates", "Encounters", "Time"},
	}
	for _, run := range runs {
		st := run.Stats
		table.Rows = append(table.Rows, []string{
			run.LogPath,
			cli.FormatNumber(st.FileLineCount),
			cli.FormatNumber(st.EventValidCount),
			cli.FormatNumber(st.EventUnknownCount),
			cli.FormatNumber(st.EventDuplicateCount),
			cli.FormatNumber(st.EncounterCount),
			cli.FormatDuration(st.DurationSecs()),
		})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(table))
	return nil
}
