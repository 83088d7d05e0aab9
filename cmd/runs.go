package cmd

import (
	"fmt"

	"github.com/raidtally/raidtally/internal/cli"

	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List ingestion runs and their counters",
	RunE:  runRuns,
}

var playersCmd = &cobra.Command{
	Use:   "players [run-id]",
	Short: "List the players seen during a run",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPlayers,
}

func init() {
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(playersCmd)
}

func runRuns(_ *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	runs, err := st.Runs()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("\n  No runs stored. Run 'raidtally ingest' first.")
		return nil
	}

	table := cli.Table{
		Title:   "Runs",
		Headers: []string{"Run", "Realm", "Log", "Lines", "Events", "Duplicates", "Encounters"},
	}
	for _, run := range runs {
		s := run.Stats
		table.Rows = append(table.Rows, []string{
			run.ID,
			fmt.Sprintf("%d", run.RealmID),
			run.LogPath,
			cli.FormatNumber(s.FileLineCount),
			cli.FormatNumber(s.EventValidCount),
			cli.FormatNumber(s.EventDuplicateCount),
			cli.FormatNumber(s.EncounterCount),
		})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(table))
	return nil
}

func runPlayers(_ *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	var runID string
	if len(args) > 0 {
		runID = args[0]
	} else {
		runs, err := st.Runs()
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("\n  No runs stored. Run 'raidtally ingest' first.")
			return nil
		}
		runID = runs[0].ID
	}

	players, err := st.Players(runID)
	if err != nil {
		return err
	}
	if len(players) == 0 {
		fmt.Printf("\n  No players stored for run %s.\n", runID)
		return nil
	}

	table := cli.Table{
		Title:   fmt.Sprintf("Players, run %s", runID),
		Headers: []string{"Name", "Class", "First seen", "Last seen", "Alive"},
	}
	for _, p := range players {
		alive := "yes"
		if !p.Alive {
			alive = "no"
		}
		table.Rows = append(table.Rows, []string{p.Name, p.Class, p.FirstSeen, p.LastSeen, alive})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(table))
	return nil
}
