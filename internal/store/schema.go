package store

const schemaVersion = 1

const schemaSQL = `
CREATE TABLE IF NOT EXISTS schema_version (
    version              INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
    run_id                    TEXT PRIMARY KEY,
    realm_id                  INTEGER NOT NULL,
    log_path                  TEXT NOT NULL,
    started_at                TEXT,
    finished_at               TEXT,
    file_length               INTEGER,
    file_line_count           INTEGER,
    file_line_error_count     INTEGER,
    event_valid               INTEGER,
    event_invalid             INTEGER,
    event_unknown             INTEGER,
    event_duplicate           INTEGER,
    player_valid_events       INTEGER,
    player_invalid_events     INTEGER,
    summary_valid_events      INTEGER,
    summary_invalid_events    INTEGER,
    summary_not_applicable    INTEGER,
    summary_index_updates     INTEGER,
    summary_index_failures    INTEGER,
    summary_record_count      INTEGER,
    player_summary_count      INTEGER,
    encounter_count           INTEGER
);

CREATE TABLE IF NOT EXISTS seen_events (
    dedup_key            TEXT PRIMARY KEY,
    run_id               TEXT NOT NULL,
    realm_id             INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS players (
    run_id               TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
    realm_id             INTEGER NOT NULL,
    uid                  TEXT NOT NULL,
    name                 TEXT NOT NULL,
    class                TEXT NOT NULL,
    first_seen           TEXT,
    last_seen            TEXT,
    alive                INTEGER NOT NULL DEFAULT 1,
    PRIMARY KEY (run_id, uid)
);

CREATE TABLE IF NOT EXISTS encounters (
    encounter_id         INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id               TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
    realm_id             INTEGER NOT NULL,
    zone                 TEXT NOT NULL,
    boss_name            TEXT NOT NULL,
    started_at           TEXT,
    ended_at             TEXT,
    play_seconds         INTEGER
);

CREATE TABLE IF NOT EXISTS summaries (
    realm_id             INTEGER NOT NULL,
    entity_key           TEXT NOT NULL,
    summary_key          TEXT NOT NULL,
    run_id               TEXT NOT NULL,
    encounter_id         INTEGER NOT NULL DEFAULT 0,
    entity_uid           TEXT NOT NULL,
    kind                 INTEGER NOT NULL,
    source               TEXT,
    source_uid           TEXT,
    target               TEXT,
    target_uid           TEXT,
    first_ts             TEXT,
    last_ts              TEXT,
    extra_elapsed        INTEGER,
    spell_id             INTEGER,
    spell_name           TEXT,
    spell_school         TEXT,
    spell_rank           INTEGER,
    damage_type          TEXT,
    direct_count         INTEGER,
    periodic_count       INTEGER,
    heal_amount          INTEGER,
    overheal_amount      INTEGER,
    crit_heal_amount     INTEGER,
    crit_overheal_amount INTEGER,
    crit_count           INTEGER,
    damage_amount        INTEGER,
    overkill_amount      INTEGER,
    resist_amount        INTEGER,
    block_amount         INTEGER,
    missed_count         INTEGER,
    missed_amount        INTEGER,
    absorbed_count       INTEGER,
    absorbed_damage      INTEGER,
    absorbed_overkill    INTEGER,
    absorbed_resist      INTEGER,
    absorbed_block       INTEGER,
    critical_count       INTEGER,
    critical_damage      INTEGER,
    critical_overkill    INTEGER,
    critical_resist      INTEGER,
    critical_block       INTEGER,
    glancing_count       INTEGER,
    glancing_damage      INTEGER,
    glancing_overkill    INTEGER,
    glancing_resist      INTEGER,
    glancing_block       INTEGER,
    crushing_count       INTEGER,
    crushing_damage      INTEGER,
    crushing_overkill    INTEGER,
    crushing_resist      INTEGER,
    crushing_block       INTEGER,
    PRIMARY KEY (realm_id, entity_key, summary_key, encounter_id)
);

CREATE INDEX IF NOT EXISTS idx_seen_events_run ON seen_events(run_id);
CREATE INDEX IF NOT EXISTS idx_players_realm ON players(realm_id, uid);
CREATE INDEX IF NOT EXISTS idx_encounters_run ON encounters(run_id);
CREATE INDEX IF NOT EXISTS idx_summaries_run ON summaries(run_id);
CREATE INDEX IF NOT EXISTS idx_summaries_encounter ON summaries(encounter_id);
`
