package cmd

import (
	"fmt"
	"sort"

	"github.com/raidtally/raidtally/internal/cli"
	"github.com/raidtally/raidtally/internal/event"
	"github.com/raidtally/raidtally/internal/stats"
	"github.com/raidtally/raidtally/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagEncounterID int64
	flagHealing     bool
	flagSpells      string
	flagTop         int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Damage and healing totals",
	Long:  "Show per-player damage or healing totals, for the whole log or for one encounter.",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().Int64VarP(&flagEncounterID, "encounter", "e", store.WholeLogEncounterID, "Encounter id (see 'raidtally encounters')")
	reportCmd.Flags().BoolVar(&flagHealing, "healing", false, "Show healing instead of damage")
	reportCmd.Flags().StringVar(&flagSpells, "spells", "", "Per-spell breakdown for one player")
	reportCmd.Flags().IntVarP(&flagTop, "top", "t", 25, "Number of rows to show")
	rootCmd.AddCommand(reportCmd)
}

// entityTotal accumulates one player's output across summary lines.
type entityTotal struct {
	name   string
	total  int64
	misses int64
	crits  int64
	first  event.Timestamp
	last   event.Timestamp
	seen   bool
}

func (e *entityTotal) widen(s *stats.Summary) {
	if !e.seen {
		e.first, e.last, e.seen = s.First, s.Last, true
		return
	}
	if e.first.Compare(s.First) == event.OrderLess {
		e.first = s.First
	}
	if e.last.Compare(s.Last) == event.OrderGreater {
		e.last = s.Last
	}
}

func (e *entityTotal) seconds() int {
	if !e.seen {
		return 0
	}
	return e.last.ElapsedSeconds(e.first)
}

func runReport(_ *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	lines, err := st.LoadSummaries(cfg.General.RealmID, flagEncounterID)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		fmt.Println("\n  No summaries stored. Run 'raidtally ingest' first.")
		return nil
	}

	wantKind := stats.KindDamage
	if flagHealing {
		wantKind = stats.KindHealing
	}

	if flagSpells != "" {
		return reportSpells(lines, wantKind, flagSpells)
	}

	totals := make(map[string]*entityTotal)
	for _, line := range lines {
		s := line.Summary
		if s.Kind != wantKind {
			continue
		}
		et, ok := totals[line.EntityKey]
		if !ok {
			et = &entityTotal{name: s.Source}
			totals[line.EntityKey] = et
		}
		et.widen(s)
		switch wantKind {
		case stats.KindHealing:
			et.total += int64(s.Healing.HealAmount)
			et.crits += int64(s.Healing.CriticalCount)
		case stats.KindDamage:
			et.total += int64(s.Damage.DamageAmount)
			et.crits += int64(s.Damage.Critical.Count)
			et.misses += int64(s.Damage.MissedCount)
		}
	}

	ranked := make([]*entityTotal, 0, len(totals))
	for _, et := range totals {
		ranked = append(ranked, et)
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].total > ranked[j].total })
	if flagTop > 0 && len(ranked) > flagTop {
		ranked = ranked[:flagTop]
	}

	title := "Damage done"
	if flagHealing {
		title = "Healing done"
	}
	if flagEncounterID != store.WholeLogEncounterID {
		title = fmt.Sprintf("%s, encounter %d", title, flagEncounterID)
	}
	fmt.Println()
	fmt.Println(cli.RenderTitle(title))

	var maxTotal int64
	if len(ranked) > 0 {
		maxTotal = ranked[0].total
	}

	table := cli.Table{Headers: []string{"Player", "Total", "Per second", "Crits", "Misses", ""}}
	for _, et := range ranked {
		table.Rows = append(table.Rows, []string{
			et.name,
			cli.FormatNumber(et.total),
			cli.FormatPerSecond(et.total, et.seconds()),
			cli.FormatCount(int(et.crits)),
			cli.FormatCount(int(et.misses)),
			cli.RenderHorizontalBar(et.name, float64(et.total), float64(maxTotal), 16),
		})
	}
	fmt.Print(cli.RenderTable(table))
	return nil
}

// reportSpells shows the per-spell lines behind one player's total.
func reportSpells(lines []store.SummaryLine, wantKind stats.Kind, player string) error {
	table := cli.Table{
		Title:   fmt.Sprintf("Spells for %s", player),
		Headers: []string{"Spell", "Target", "Total", "Direct", "Periodic", "Crits"},
	}

	for _, line := range lines {
		s := line.Summary
		if s.Kind != wantKind || s.Source != player {
			continue
		}
		switch wantKind {
		case stats.KindHealing:
			h := s.Healing
			table.Rows = append(table.Rows, []string{
				h.SpellName, s.Target,
				cli.FormatNumber(int64(h.HealAmount)),
				cli.FormatCount(h.DirectCount),
				cli.FormatCount(h.PeriodicCount),
				cli.FormatCount(h.CriticalCount),
			})
		case stats.KindDamage:
			d := s.Damage
			table.Rows = append(table.Rows, []string{
				d.SpellName, s.Target,
				cli.FormatNumber(int64(d.DamageAmount)),
				cli.FormatCount(d.DirectCount),
				cli.FormatCount(d.PeriodicCount),
				cli.FormatCount(d.Critical.Count),
			})
		}
	}

	if len(table.Rows) == 0 {
		fmt.Printf("\n  No %s lines for %q.\n", map[stats.Kind]string{stats.KindHealing: "healing", stats.KindDamage: "damage"}[wantKind], player)
		return nil
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(table))
	return nil
}
