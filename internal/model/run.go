// Package model defines domain types shared by the raidtally pipeline and store.
package model

import "time"

// RunStats holds the counters accumulated while processing one combat log.
type RunStats struct {
	FileLength         int64
	FileLineCount      int64
	FileLineErrorCount int64

	EventValidCount     int64
	EventInvalidCount   int64
	EventUnknownCount   int64
	EventDuplicateCount int64

	PlayerValidEventsCount   int64
	PlayerInvalidEventsCount int64

	SummaryValidEventsCount         int64
	SummaryInvalidEventsCount       int64
	SummaryNotApplicableEventsCount int64

	SummaryIndexUpdateCount  int64
	SummaryIndexFailureCount int64

	SummaryRecordCount int64
	PlayerSummaryCount int64

	EncounterCount int64

	StartedAt  time.Time
	FinishedAt time.Time
}

// DurationSecs returns the wall-clock processing time in seconds.
func (s *RunStats) DurationSecs() int64 {
	if s.FinishedAt.Before(s.StartedAt) {
		return 0
	}
	return int64(s.FinishedAt.Sub(s.StartedAt).Seconds())
}

// Run identifies one ingestion of a combat log file.
type Run struct {
	ID      string
	RealmID int
	LogPath string
	Stats   RunStats
}

// Player is the persisted view of one actor seen during a run.
type Player struct {
	RunID     string
	RealmID   int
	UID       string
	Name      string
	Class     string
	FirstSeen string
	LastSeen  string
	Alive     bool
}

// Encounter is the persisted view of one closed boss attempt.
type Encounter struct {
	RunID       string
	RealmID     int
	Zone        string
	BossName    string
	StartedAt   string
	EndedAt     string
	PlaySeconds int
}
