// Package pipeline runs combat logs through decoding, encounter
// tracking, and summary indexing, then persists the results.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/raidtally/raidtally/internal/catalog"
	"github.com/raidtally/raidtally/internal/event"
	"github.com/raidtally/raidtally/internal/model"
	"github.com/raidtally/raidtally/internal/source"
	"github.com/raidtally/raidtally/internal/stats"
	"github.com/raidtally/raidtally/internal/store"
	"github.com/raidtally/raidtally/internal/track"
)

// minEncounterSeconds is the shortest encounter worth keeping. Shorter
// attempts are misfires or instant wipes and only add noise.
const minEncounterSeconds = 30

// progressInterval is how many lines pass between progress callbacks.
const progressInterval = 4096

// ProgressFunc is called during processing with the number of lines
// consumed since the previous call.
type ProgressFunc func(fileName string, delta int64)

// Runner processes combat logs against one realm and year.
type Runner struct {
	Spells   *catalog.SpellIndex
	Bosses   *catalog.EncounterIndex
	Store    *store.Store
	Year     int
	RealmID  int
	Progress ProgressFunc
}

// NewRunner builds a runner with fresh catalog indexes.
func NewRunner(st *store.Store, year, realmID int) *Runner {
	return &Runner{
		Spells:  catalog.NewSpellIndex(),
		Bosses:  catalog.NewEncounterIndex(),
		Store:   st,
		Year:    year,
		RealmID: realmID,
	}
}

// encounterSlot holds the per-encounter actor and summary indexes that
// accumulate while an encounter may be open.
type encounterSlot struct {
	actors *track.ActorIndex
	index  *stats.Index
}

type closedEncounter struct {
	outcome track.Outcome
	slot    *encounterSlot
}

func (r *Runner) newSlot(links *track.LinkIndex) *encounterSlot {
	return &encounterSlot{
		actors: track.NewActorIndex(r.Spells),
		index:  stats.NewIndex(links),
	}
}

// ProcessFile runs one combat log from first line to persistence and
// returns the stored run.
func (r *Runner) ProcessFile(df source.DiscoveredFile) (*model.Run, error) {
	run := &model.Run{
		ID:      uuid.NewString(),
		RealmID: r.RealmID,
		LogPath: df.Path,
	}
	st := &run.Stats
	st.FileLength = df.SizeBytes
	st.StartedAt = time.Now()

	links := track.NewLinkIndex()
	globalActors := track.NewActorIndex(r.Spells)
	globalIndex := stats.NewIndex(links)
	tracker := track.NewTracker(r.Bosses)

	slot := r.newSlot(links)
	hasTrigger := false
	var encounters []closedEncounter

	lineCount, err := source.ReadLines(df.Path, func(lineNo int64, line string) error {
		if r.Progress != nil && lineNo%progressInterval == 0 {
			r.Progress(df.Name, progressInterval)
		}

		tokens, tokErr := event.Tokenize(line)
		if tokErr != nil {
			st.FileLineErrorCount++
			return nil
		}

		e, decErr := event.Decode(tokens, r.Year)
		switch {
		case errors.Is(decErr, event.ErrUnknownEvent):
			st.EventUnknownCount++
			return nil
		case decErr != nil:
			st.EventInvalidCount++
			return nil
		}
		st.EventValidCount++

		links.NoteEvent(e)
		globalActors.NoteEvent(e)
		st.PlayerValidEventsCount++

		var outcome track.Outcome
		switch tracker.NoteEvent(e, slot.actors, &outcome) {
		case track.ResultNewEncounter:
			hasTrigger = true
		case track.ResultEndEncounter:
			encounters = append(encounters, closedEncounter{outcome: outcome, slot: slot})
			slot = r.newSlot(links)
			hasTrigger = false
		case track.ResultNewAndEndEncounter:
			encounters = append(encounters, closedEncounter{outcome: outcome, slot: slot})
			slot = r.newSlot(links)
			hasTrigger = true
		}

		sum, sumErr := stats.NewSummary(r.Spells, e)
		switch {
		case errors.Is(sumErr, stats.ErrNotApplicable):
			st.SummaryNotApplicableEventsCount++
			return nil
		case sumErr != nil:
			st.SummaryInvalidEventsCount++
			return nil
		}
		st.SummaryValidEventsCount++

		key := e.DedupKey()
		prevRun, prevRealm, seen, err := r.Store.SeenEvent(key)
		if err != nil {
			return err
		}
		if seen {
			st.EventDuplicateCount++
			if err := globalIndex.UpdateDuplicate(sum, prevRun, prevRealm, r.Store.LoadParentRecord); err != nil {
				st.SummaryIndexFailureCount++
			} else {
				st.SummaryIndexUpdateCount++
			}
			return nil
		}
		if err := r.Store.RecordSeen(key, run.ID, r.RealmID); err != nil {
			return err
		}

		if err := globalIndex.Update(sum); err != nil {
			st.SummaryIndexFailureCount++
		} else {
			st.SummaryIndexUpdateCount++
		}
		if hasTrigger {
			if err := slot.index.Update(sum); err != nil {
				st.SummaryIndexFailureCount++
			}
		}
		return nil
	})
	st.FileLineCount = lineCount
	if err != nil {
		return nil, fmt.Errorf("processing %s: %w", df.Path, err)
	}

	st.SummaryRecordCount = int64(globalIndex.Size())
	st.PlayerSummaryCount = int64(len(globalIndex.Entities()))

	if err := r.Store.SavePlayers(run.ID, r.RealmID, globalActors.Actors()); err != nil {
		return nil, fmt.Errorf("saving players: %w", err)
	}
	if err := r.Store.SaveSummaries(globalIndex, run.ID, r.RealmID, store.WholeLogEncounterID); err != nil {
		return nil, fmt.Errorf("saving summaries: %w", err)
	}

	for _, ce := range encounters {
		playSeconds := ce.outcome.End.ElapsedSeconds(ce.outcome.Start)
		if playSeconds < minEncounterSeconds || ce.slot.index.Empty() {
			continue
		}

		enc := &model.Encounter{
			RunID:       run.ID,
			RealmID:     r.RealmID,
			Zone:        ce.outcome.Zone,
			BossName:    ce.outcome.BossName,
			StartedAt:   store.FormatTimestamp(ce.outcome.Start),
			EndedAt:     store.FormatTimestamp(ce.outcome.End),
			PlaySeconds: playSeconds,
		}
		encID, err := r.Store.SaveEncounter(enc)
		if err != nil {
			return nil, fmt.Errorf("saving encounter %s: %w", enc.BossName, err)
		}
		if err := r.Store.SaveSummaries(ce.slot.index, run.ID, r.RealmID, encID); err != nil {
			return nil, fmt.Errorf("saving encounter summaries: %w", err)
		}
		st.EncounterCount++
	}

	st.FinishedAt = time.Now()
	if err := r.Store.SaveRun(run); err != nil {
		return nil, fmt.Errorf("saving run: %w", err)
	}
	return run, nil
}

// ProcessAll processes a batch of combat logs with a bounded worker
// pool. Runs are returned in input order.
func (r *Runner) ProcessAll(ctx context.Context, files []source.DiscoveredFile) ([]*model.Run, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	runs := make([]*model.Run, len(files))
	for i, df := range files {
		i, df := i, df
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			run, err := r.ProcessFile(df)
			if err != nil {
				return err
			}
			runs[i] = run
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return runs, nil
}
