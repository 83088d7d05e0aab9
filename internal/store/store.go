// Package store provides the SQLite-backed archive for processed
// combat logs: runs, the deduplication ledger, players, encounters,
// and accumulated summary lines.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/raidtally/raidtally/internal/event"
	"github.com/raidtally/raidtally/internal/model"
	"github.com/raidtally/raidtally/internal/stats"
	"github.com/raidtally/raidtally/internal/track"

	_ "modernc.org/sqlite" // register sqlite driver
)

// WholeLogEncounterID marks summary rows accumulated over the whole
// log rather than within one encounter.
const WholeLogEncounterID = 0

// Store provides SQLite-backed persistence for run results.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}
	// One connection keeps concurrent ingest workers from tripping
	// over SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	if _, err := db.Exec(`INSERT INTO schema_version (version)
		SELECT ? WHERE NOT EXISTS (SELECT 1 FROM schema_version)`, schemaVersion); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("stamping schema version: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// FormatTimestamp renders a log timestamp for storage, keeping the
// millisecond component the display format drops.
func FormatTimestamp(ts event.Timestamp) string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d.%03d",
		ts.Year, ts.Month, ts.Day, ts.Hour, ts.Minute, ts.Second, ts.Millis)
}

// parseStoredTimestamp reads a timestamp written by FormatTimestamp.
func parseStoredTimestamp(s string) (event.Timestamp, error) {
	var ts event.Timestamp
	_, err := fmt.Sscanf(s, "%d-%d-%d %d:%d:%d.%d",
		&ts.Year, &ts.Month, &ts.Day, &ts.Hour, &ts.Minute, &ts.Second, &ts.Millis)
	if err != nil {
		return event.Timestamp{}, fmt.Errorf("parsing stored timestamp %q: %w", s, err)
	}
	return ts, nil
}

// SaveRun stores a run row with its final counters.
func (s *Store) SaveRun(run *model.Run) error {
	st := run.Stats
	started := ""
	if !st.StartedAt.IsZero() {
		started = st.StartedAt.UTC().Format(time.RFC3339)
	}
	finished := ""
	if !st.FinishedAt.IsZero() {
		finished = st.FinishedAt.UTC().Format(time.RFC3339)
	}

	_, err := s.db.Exec(`INSERT OR REPLACE INTO runs
		(run_id, realm_id, log_path, started_at, finished_at,
		 file_length, file_line_count, file_line_error_count,
		 event_valid, event_invalid, event_unknown, event_duplicate,
		 player_valid_events, player_invalid_events,
		 summary_valid_events, summary_invalid_events, summary_not_applicable,
		 summary_index_updates, summary_index_failures,
		 summary_record_count, player_summary_count, encounter_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.RealmID, run.LogPath, started, finished,
		st.FileLength, st.FileLineCount, st.FileLineErrorCount,
		st.EventValidCount, st.EventInvalidCount, st.EventUnknownCount, st.EventDuplicateCount,
		st.PlayerValidEventsCount, st.PlayerInvalidEventsCount,
		st.SummaryValidEventsCount, st.SummaryInvalidEventsCount, st.SummaryNotApplicableEventsCount,
		st.SummaryIndexUpdateCount, st.SummaryIndexFailureCount,
		st.SummaryRecordCount, st.PlayerSummaryCount, st.EncounterCount,
	)
	return err
}

// SeenEvent looks up the deduplication ledger. When the key is known it
// returns the run and realm that first recorded it.
func (s *Store) SeenEvent(dedupKey string) (runID string, realmID int, ok bool, err error) {
	err = s.db.QueryRow("SELECT run_id, realm_id FROM seen_events WHERE dedup_key = ?", dedupKey).
		Scan(&runID, &realmID)
	if err == sql.ErrNoRows {
		return "", 0, false, nil
	}
	if err != nil {
		return "", 0, false, err
	}
	return runID, realmID, true, nil
}

// RecordSeen writes a ledger entry for a dedup key. The first run to
// record a key keeps it.
func (s *Store) RecordSeen(dedupKey, runID string, realmID int) error {
	_, err := s.db.Exec(`INSERT OR IGNORE INTO seen_events (dedup_key, run_id, realm_id)
		VALUES (?, ?, ?)`, dedupKey, runID, realmID)
	return err
}

// SavePlayers stores the actors indexed during a run.
func (s *Store) SavePlayers(runID string, realmID int, actors []*track.Actor) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, a := range actors {
		alive := 0
		if a.Alive {
			alive = 1
		}
		_, err = tx.Exec(`INSERT OR REPLACE INTO players
			(run_id, realm_id, uid, name, class, first_seen, last_seen, alive)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, realmID, a.UID, a.Name, a.Class.String(),
			FormatTimestamp(a.First), FormatTimestamp(a.Last), alive,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SaveEncounter stores an encounter row and returns its id.
func (s *Store) SaveEncounter(enc *model.Encounter) (int64, error) {
	res, err := s.db.Exec(`INSERT INTO encounters
		(run_id, realm_id, zone, boss_name, started_at, ended_at, play_seconds)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		enc.RunID, enc.RealmID, enc.Zone, enc.BossName,
		enc.StartedAt, enc.EndedAt, enc.PlaySeconds,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const summaryColumns = `run_id, encounter_id, entity_uid, kind,
	 source, source_uid, target, target_uid, first_ts, last_ts, extra_elapsed,
	 spell_id, spell_name, spell_school, spell_rank, damage_type,
	 direct_count, periodic_count,
	 heal_amount, overheal_amount, crit_heal_amount, crit_overheal_amount, crit_count,
	 damage_amount, overkill_amount, resist_amount, block_amount, missed_count, missed_amount,
	 absorbed_count, absorbed_damage, absorbed_overkill, absorbed_resist, absorbed_block,
	 critical_count, critical_damage, critical_overkill, critical_resist, critical_block,
	 glancing_count, glancing_damage, glancing_overkill, glancing_resist, glancing_block,
	 crushing_count, crushing_damage, crushing_overkill, crushing_resist, crushing_block`

// summaryArgs flattens a summary into the column order of
// summaryColumns, starting at kind.
func summaryArgs(sum *stats.Summary) []any {
	h := sum.Healing
	if h == nil {
		h = &stats.HealingRecord{}
	}
	d := sum.Damage
	if d == nil {
		d = &stats.DamageRecord{}
	}

	spellID, spellName, spellSchool, spellRank := h.SpellID, h.SpellName, h.SpellSchool, h.SpellRank
	directCount, periodicCount := h.DirectCount, h.PeriodicCount
	if sum.Kind == stats.KindDamage {
		spellID, spellName, spellSchool, spellRank = d.SpellID, d.SpellName, d.SpellSchool, d.SpellRank
		directCount, periodicCount = d.DirectCount, d.PeriodicCount
	}

	return []any{
		int(sum.Kind),
		sum.Source, sum.SourceUID, sum.Target, sum.TargetUID,
		FormatTimestamp(sum.First), FormatTimestamp(sum.Last), sum.ExtraElapsedSeconds,
		spellID, spellName, spellSchool, spellRank, d.DamageType,
		directCount, periodicCount,
		h.HealAmount, h.OverhealAmount, h.CriticalHealAmount, h.CriticalOverhealAmount, h.CriticalCount,
		d.DamageAmount, d.OverkillAmount, d.ResistAmount, d.BlockAmount, d.MissedCount, d.MissedAmount,
		d.Absorbed.Count, d.Absorbed.Damage, d.Absorbed.Overkill, d.Absorbed.Resist, d.Absorbed.Block,
		d.Critical.Count, d.Critical.Damage, d.Critical.Overkill, d.Critical.Resist, d.Critical.Block,
		d.Glancing.Count, d.Glancing.Damage, d.Glancing.Overkill, d.Glancing.Resist, d.Glancing.Block,
		d.Crushing.Count, d.Crushing.Damage, d.Crushing.Overkill, d.Crushing.Resist, d.Crushing.Block,
	}
}

// scanSummary reads the columns written by summaryArgs back into a
// summary, starting at kind.
func scanSummary(row *sql.Row) (*stats.Summary, error) {
	sum := &stats.Summary{}
	var kind int
	var firstStr, lastStr string
	var spellID, spellRank, directCount, periodicCount int
	var spellName, spellSchool, damageType string
	h := &stats.HealingRecord{}
	d := &stats.DamageRecord{}

	err := row.Scan(
		&kind,
		&sum.Source, &sum.SourceUID, &sum.Target, &sum.TargetUID,
		&firstStr, &lastStr, &sum.ExtraElapsedSeconds,
		&spellID, &spellName, &spellSchool, &spellRank, &damageType,
		&directCount, &periodicCount,
		&h.HealAmount, &h.OverhealAmount, &h.CriticalHealAmount, &h.CriticalOverhealAmount, &h.CriticalCount,
		&d.DamageAmount, &d.OverkillAmount, &d.ResistAmount, &d.BlockAmount, &d.MissedCount, &d.MissedAmount,
		&d.Absorbed.Count, &d.Absorbed.Damage, &d.Absorbed.Overkill, &d.Absorbed.Resist, &d.Absorbed.Block,
		&d.Critical.Count, &d.Critical.Damage, &d.Critical.Overkill, &d.Critical.Resist, &d.Critical.Block,
		&d.Glancing.Count, &d.Glancing.Damage, &d.Glancing.Overkill, &d.Glancing.Resist, &d.Glancing.Block,
		&d.Crushing.Count, &d.Crushing.Damage, &d.Crushing.Overkill, &d.Crushing.Resist, &d.Crushing.Block,
	)
	if err != nil {
		return nil, err
	}

	sum.Kind = stats.Kind(kind)
	if sum.First, err = parseStoredTimestamp(firstStr); err != nil {
		return nil, err
	}
	if sum.Last, err = parseStoredTimestamp(lastStr); err != nil {
		return nil, err
	}

	switch sum.Kind {
	case stats.KindHealing:
		h.SpellID, h.SpellName, h.SpellSchool, h.SpellRank = spellID, spellName, spellSchool, spellRank
		h.DirectCount, h.PeriodicCount = directCount, periodicCount
		sum.Healing = h
	case stats.KindDamage:
		d.SpellID, d.SpellName, d.SpellSchool, d.SpellRank = spellID, spellName, spellSchool, spellRank
		d.DamageType = damageType
		d.DirectCount, d.PeriodicCount = directCount, periodicCount
		sum.Damage = d
	}

	return sum, nil
}

var summaryPlaceholders = func() string {
	s := "?"
	for i := 1; i < 49; i++ {
		s += ", ?"
	}
	return s
}()

// SaveSummaries stores every summary line of an index under one
// encounter id (WholeLogEncounterID for the whole-log index). Parent
// entries hydrated from storage are rewritten only when they absorbed
// new events; their original run id is kept.
func (s *Store) SaveSummaries(idx *stats.Index, runID string, realmID int, encounterID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	insertSQL := `INSERT OR REPLACE INTO summaries
		(realm_id, entity_key, summary_key, ` + summaryColumns + `)
		VALUES (?, ?, ?, ` + summaryPlaceholders + `)`

	for _, entityKey := range idx.Entities() {
		entityUID, _ := idx.EntityUID(entityKey)
		for _, key := range idx.Keys(entityKey) {
			entry, _ := idx.Entry(entityKey, key)
			if entry.IsParent && !entry.WasUpdated {
				continue
			}
			rowRunID := runID
			rowRealmID := realmID
			if entry.IsParent {
				rowRunID = entry.RunID
				rowRealmID = entry.RealmID
			}

			args := []any{rowRealmID, entityKey, key, rowRunID, encounterID, entityUID}
			args = append(args, summaryArgs(entry.Summary)...)
			if _, err := tx.Exec(insertSQL, args...); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// LoadParentRecord hydrates the stored whole-log summary matching sum.
// It satisfies stats.ParentLookup.
func (s *Store) LoadParentRecord(sum *stats.Summary, runID string, realmID int) (*stats.Summary, error) {
	row := s.db.QueryRow(`SELECT kind,
		 source, source_uid, target, target_uid, first_ts, last_ts, extra_elapsed,
		 spell_id, spell_name, spell_school, spell_rank, damage_type,
		 direct_count, periodic_count,
		 heal_amount, overheal_amount, crit_heal_amount, crit_overheal_amount, crit_count,
		 damage_amount, overkill_amount, resist_amount, block_amount, missed_count, missed_amount,
		 absorbed_count, absorbed_damage, absorbed_overkill, absorbed_resist, absorbed_block,
		 critical_count, critical_damage, critical_overkill, critical_resist, critical_block,
		 glancing_count, glancing_damage, glancing_overkill, glancing_resist, glancing_block,
		 crushing_count, crushing_damage, crushing_overkill, crushing_resist, crushing_block
		FROM summaries
		WHERE realm_id = ? AND entity_key = ? AND summary_key = ? AND encounter_id = ?`,
		realmID, sum.EntityKey(), sum.Key(), WholeLogEncounterID)

	parent, err := scanSummary(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no stored summary for run %s, entity %s, key %s", runID, sum.EntityKey(), sum.Key())
	}
	if err != nil {
		return nil, err
	}
	return parent, nil
}

// Encounters returns the stored encounters for a realm, newest first.
func (s *Store) Encounters(realmID int) ([]model.Encounter, []int64, error) {
	rows, err := s.db.Query(`SELECT encounter_id, run_id, zone, boss_name, started_at, ended_at, play_seconds
		FROM encounters WHERE realm_id = ? ORDER BY encounter_id DESC`, realmID)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = rows.Close() }()

	var encounters []model.Encounter
	var ids []int64
	for rows.Next() {
		var id int64
		enc := model.Encounter{RealmID: realmID}
		if err := rows.Scan(&id, &enc.RunID, &enc.Zone, &enc.BossName, &enc.StartedAt, &enc.EndedAt, &enc.PlaySeconds); err != nil {
			return nil, nil, err
		}
		encounters = append(encounters, enc)
		ids = append(ids, id)
	}
	return encounters, ids, rows.Err()
}

// SummaryLine is one stored summary row as read back for reporting.
type SummaryLine struct {
	EntityKey string
	EntityUID string
	Key       string
	Summary   *stats.Summary
}

// LoadSummaries reads the stored summary lines for one realm and
// encounter id, ordered by entity and key.
func (s *Store) LoadSummaries(realmID int, encounterID int64) ([]SummaryLine, error) {
	rows, err := s.db.Query(`SELECT entity_key, entity_uid, summary_key, kind,
		 source, source_uid, target, target_uid, first_ts, last_ts, extra_elapsed,
		 spell_id, spell_name, spell_school, spell_rank, damage_type,
		 direct_count, periodic_count,
		 heal_amount, overheal_amount, crit_heal_amount, crit_overheal_amount, crit_count,
		 damage_amount, overkill_amount, resist_amount, block_amount, missed_count, missed_amount,
		 absorbed_count, absorbed_damage, absorbed_overkill, absorbed_resist, absorbed_block,
		 critical_count, critical_damage, critical_overkill, critical_resist, critical_block,
		 glancing_count, glancing_damage, glancing_overkill, glancing_resist, glancing_block,
		 crushing_count, crushing_damage, crushing_overkill, crushing_resist, crushing_block
		FROM summaries WHERE realm_id = ? AND encounter_id = ?
		ORDER BY entity_key, summary_key`, realmID, encounterID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var lines []SummaryLine
	for rows.Next() {
		line := SummaryLine{}
		sum := &stats.Summary{}
		var kind int
		var firstStr, lastStr string
		var spellID, spellRank, directCount, periodicCount int
		var spellName, spellSchool, damageType string
		h := &stats.HealingRecord{}
		d := &stats.DamageRecord{}

		err := rows.Scan(
			&line.EntityKey, &line.EntityUID, &line.Key, &kind,
			&sum.Source, &sum.SourceUID, &sum.Target, &sum.TargetUID,
			&firstStr, &lastStr, &sum.ExtraElapsedSeconds,
			&spellID, &spellName, &spellSchool, &spellRank, &damageType,
			&directCount, &periodicCount,
			&h.HealAmount, &h.OverhealAmount, &h.CriticalHealAmount, &h.CriticalOverhealAmount, &h.CriticalCount,
			&d.DamageAmount, &d.OverkillAmount, &d.ResistAmount, &d.BlockAmount, &d.MissedCount, &d.MissedAmount,
			&d.Absorbed.Count, &d.Absorbed.Damage, &d.Absorbed.Overkill, &d.Absorbed.Resist, &d.Absorbed.Block,
			&d.Critical.Count, &d.Critical.Damage, &d.Critical.Overkill, &d.Critical.Resist, &d.Critical.Block,
			&d.Glancing.Count, &d.Glancing.Damage, &d.Glancing.Overkill, &d.Glancing.Resist, &d.Glancing.Block,
			&d.Crushing.Count, &d.Crushing.Damage, &d.Crushing.Overkill, &d.Crushing.Resist, &d.Crushing.Block,
		)
		if err != nil {
			return nil, err
		}

		sum.Kind = stats.Kind(kind)
		if sum.First, err = parseStoredTimestamp(firstStr); err != nil {
			return nil, err
		}
		if sum.Last, err = parseStoredTimestamp(lastStr); err != nil {
			return nil, err
		}
		switch sum.Kind {
		case stats.KindHealing:
			h.SpellID, h.SpellName, h.SpellSchool, h.SpellRank = spellID, spellName, spellSchool, spellRank
			h.DirectCount, h.PeriodicCount = directCount, periodicCount
			sum.Healing = h
		case stats.KindDamage:
			d.SpellID, d.SpellName, d.SpellSchool, d.SpellRank = spellID, spellName, spellSchool, spellRank
			d.DamageType = damageType
			d.DirectCount, d.PeriodicCount = directCount, periodicCount
			sum.Damage = d
		}

		line.Summary = sum
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// Players returns the stored players for one run.
func (s *Store) Players(runID string) ([]model.Player, error) {
	rows, err := s.db.Query(`SELECT realm_id, uid, name, class, first_seen, last_seen, alive
		FROM players WHERE run_id = ? ORDER BY name`, runID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var players []model.Player
	for rows.Next() {
		p := model.Player{RunID: runID}
		var alive int
		if err := rows.Scan(&p.RealmID, &p.UID, &p.Name, &p.Class, &p.FirstSeen, &p.LastSeen, &alive); err != nil {
			return nil, err
		}
		p.Alive = alive != 0
		players = append(players, p)
	}
	return players, rows.Err()
}

// Runs returns the stored runs, newest first.
func (s *Store) Runs() ([]model.Run, error) {
	rows, err := s.db.Query(`SELECT run_id, realm_id, log_path, started_at, finished_at,
		 file_length, file_line_count, file_line_error_count,
		 event_valid, event_invalid, event_unknown, event_duplicate,
		 player_valid_events, player_invalid_events,
		 summary_valid_events, summary_invalid_events, summary_not_applicable,
		 summary_index_updates, summary_index_failures,
		 summary_record_count, player_summary_count, encounter_count
		FROM runs ORDER BY started_at DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var runs []model.Run
	for rows.Next() {
		var run model.Run
		var started, finished sql.NullString
		st := &run.Stats
		err := rows.Scan(&run.ID, &run.RealmID, &run.LogPath, &started, &finished,
			&st.FileLength, &st.FileLineCount, &st.FileLineErrorCount,
			&st.EventValidCount, &st.EventInvalidCount, &st.EventUnknownCount, &st.EventDuplicateCount,
			&st.PlayerValidEventsCount, &st.PlayerInvalidEventsCount,
			&st.SummaryValidEventsCount, &st.SummaryInvalidEventsCount, &st.SummaryNotApplicableEventsCount,
			&st.SummaryIndexUpdateCount, &st.SummaryIndexFailureCount,
			&st.SummaryRecordCount, &st.PlayerSummaryCount, &st.EncounterCount,
		)
		if err != nil {
			return nil, err
		}
		if started.Valid && started.String != "" {
			st.StartedAt, _ = time.Parse(time.RFC3339, started.String)
		}
		if finished.Valid && finished.String != "" {
			st.FinishedAt, _ = time.Parse(time.RFC3339, finished.String)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RunCount returns the number of stored runs.
func (s *Store) RunCount() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&count)
	return count, err
}

// EncounterCount returns the number of stored encounters for a realm.
func (s *Store) EncounterCount(realmID int) (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM encounters WHERE realm_id = ?", realmID).Scan(&count)
	return count, err
}

// DeleteRun removes a run and everything saved under it. Ledger
// entries are kept so reprocessing the same log still deduplicates.
func (s *Store) DeleteRun(runID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM summaries WHERE run_id = ?", runID); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM runs WHERE run_id = ?", runID); err != nil {
		return err
	}
	return tx.Commit()
}
