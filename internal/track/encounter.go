package track

import (
	"github.com/raidtally/raidtally/internal/catalog"
	"github.com/raidtally/raidtally/internal/event"
)

// Result is the tracker's verdict on one event.
type Result int

const (
	// ResultOK means no encounter boundary was crossed.
	ResultOK Result = iota
	// ResultNewEncounter means the event opened an encounter.
	ResultNewEncounter
	// ResultEndEncounter means the event closed the open encounter.
	ResultEndEncounter
	// ResultNewAndEndEncounter means the event closed the open
	// encounter and opened another in one step.
	ResultNewAndEndEncounter
)

// Outcome describes a closed encounter. It is filled when the tracker
// returns an ending result.
type Outcome struct {
	Zone     string
	BossName string
	Start    event.Timestamp
	End      event.Timestamp
}

// debounceSeconds is how long after an encounter boundary the tracker
// ignores further boundary signals. Raid pulls are never this close
// together; anything inside the window is the same fight settling.
const debounceSeconds = 60

// Tracker detects raid encounter boundaries in the event stream. An
// encounter opens when a cataloged boss unit first acts, and closes
// when every end-condition unit has died, the raid wipes, out-of-combat
// behavior appears, or the fight exceeds its timeout.
type Tracker struct {
	encounters *catalog.EncounterIndex

	hasFirst      bool
	open          bool
	current       *catalog.Encounter
	bossUIDs      []string
	bossDeaths    int
	startTS       event.Timestamp
	lastTriggerTS event.Timestamp
	endTS         event.Timestamp
}

func NewTracker(encounters *catalog.EncounterIndex) *Tracker {
	return &Tracker{encounters: encounters}
}

// Open reports whether an encounter is currently open.
func (t *Tracker) Open() bool {
	return t.open
}

// NoteEvent folds one event into the tracker. Events that fall inside
// an open encounter are forwarded to actors, the per-encounter actor
// index, which also supplies the head counts for wipe detection. When
// an encounter closes, out is filled with its particulars.
func (t *Tracker) NoteEvent(e *event.Event, actors *ActorIndex, out *Outcome) Result {
	switch e.Type {
	case event.TypeEnchantRemoved, event.TypeSpellAuraBroken,
		event.TypeSpellAuraBrokenSpell, event.TypeSpellAuraRemoved,
		event.TypeSpellAuraRemovedDose:
		return ResultOK
	}

	if !t.hasFirst {
		t.startTS = e.Timestamp
		t.lastTriggerTS = e.Timestamp
		t.hasFirst = true
	}

	if e.Timestamp.ElapsedSeconds(t.lastTriggerTS) < debounceSeconds {
		return ResultOK
	}

	found, isSource, bossID, bossUID := t.findBoss(e)
	foundCurrent := false
	if found != nil {
		if e.Type == event.TypeSpellCastSuccess &&
			catalog.IsIgnoredCast(e.SpellID()) {
			return ResultOK
		}

		if t.open {
			if slot, ok := t.current.InStart(bossID); ok {
				switch t.bossUIDs[slot] {
				case "":
					t.bossUIDs[slot] = bossUID
					foundCurrent = true
				case bossUID:
					foundCurrent = true
				}
				// A differing UID at a known slot reads as a new
				// spawn of the same unit and falls through below.
			}
			if !foundCurrent && t.current.InStartTrash(bossID) {
				foundCurrent = true
			}
			if !foundCurrent && !t.current.InChild(bossID) {
				t.endTS = e.Timestamp
				t.closeEncounter(e.Timestamp, out)
				t.openEncounter(found, bossID, bossUID, e.Timestamp)
				return ResultNewAndEndEncounter
			}
		} else {
			t.openEncounter(found, bossID, bossUID, e.Timestamp)
			out.Zone = found.Zone
			out.BossName = found.Name
			return ResultNewEncounter
		}
	}

	if !t.open {
		return ResultOK
	}

	// Every unit on the end list has to die for the kill to count.
	if foundCurrent && e.Type == event.TypeUnitDied && !isSource {
		for _, id := range t.current.End {
			if id == bossID {
				t.bossDeaths++
			}
		}
		if t.bossDeaths >= len(t.current.End) {
			t.endTS = e.Timestamp
			t.closeEncounter(e.Timestamp, out)
			t.hasFirst = false
			return ResultEndEncounter
		}
	}

	isEnd := false
	if actors.PlayerCount() > 0 && actors.AliveCount() < 1 {
		isEnd = true
		t.endTS = e.Timestamp
	}

	if (e.Type == event.TypeSpellAuraApplied || e.Type == event.TypeSpellResurrect) &&
		catalog.IsOutOfCombatSpell(e.SpellID()) {
		isEnd = true
		t.endTS = e.Timestamp
	}

	if !isEnd {
		if e.Timestamp.ElapsedSeconds(t.startTS)/60 >= t.current.TimeoutMinutes {
			// The end timestamp stays at the last event seen before
			// the timeout tripped.
			isEnd = true
		} else {
			t.endTS = e.Timestamp
		}
	}

	if isEnd {
		t.closeEncounter(e.Timestamp, out)
		t.hasFirst = false
		return ResultEndEncounter
	}

	actors.NoteEvent(e)
	return ResultOK
}

// findBoss matches the source then the target unit against the
// encounter catalog.
func (t *Tracker) findBoss(e *event.Event) (enc *catalog.Encounter, isSource bool, bossID int, uid string) {
	id := event.UnitID(e.SourceUID)
	if enc, ok := t.encounters.Lookup(id); ok {
		return enc, true, id, e.SourceUID
	}
	id = event.UnitID(e.TargetUID)
	if enc, ok := t.encounters.Lookup(id); ok {
		return enc, false, id, e.TargetUID
	}
	return nil, false, 0, ""
}

// closeEncounter records the open encounter's particulars into out and
// clears boss state. The end timestamp must already be set.
func (t *Tracker) closeEncounter(ts event.Timestamp, out *Outcome) {
	t.lastTriggerTS = ts

	out.Zone = t.current.Zone
	out.BossName = t.current.Name
	out.Start = t.startTS
	out.End = t.endTS

	t.open = false
	t.bossDeaths = 0
	t.current = nil
	t.bossUIDs = nil
	t.startTS = event.Timestamp{}
	t.endTS = event.Timestamp{}
}

// openEncounter starts tracking enc, crediting the triggering unit's
// UID to its start slot.
func (t *Tracker) openEncounter(enc *catalog.Encounter, bossID int, uid string, ts event.Timestamp) {
	t.open = true
	t.bossDeaths = 0
	t.current = enc
	t.bossUIDs = make([]string, len(enc.Start))
	if slot, ok := enc.InStart(bossID); ok {
		t.bossUIDs[slot] = uid
	}
	t.startTS = ts
	t.endTS = event.Timestamp{}
}
