package cmd

import (
	"fmt"

	"github.com/raidtally/raidtally/internal/cli"

	"github.com/spf13/cobra"
)

var encountersCmd = &cobra.Command{
	Use:   "encounters",
	Short: "List stored encounters",
	RunE:  runEncounters,
}

func init() {
	rootCmd.AddCommand(encountersCmd)
}

func runEncounters(_ *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	encounters, ids, err := st.Encounters(cfg.General.RealmID)
	if err != nil {
		return err
	}
	if len(encounters) == 0 {
		fmt.Println("\n  No encounters stored. Run 'raidtally ingest' first.")
		return nil
	}

	table := cli.Table{
		Title:   fmt.Sprintf("Encounters, realm %d", cfg.General.RealmID),
		Headers: []string{"Id", "Zone", "Boss", "Started", "Length"},
	}
	for i, enc := range encounters {
		table.Rows = append(table.Rows, []string{
			fmt.Sprintf("%d", ids[i]),
			enc.Zone,
			enc.BossName,
			enc.StartedAt,
			cli.FormatDuration(int64(enc.PlaySeconds)),
		})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(table))
	return nil
}
