package track

import (
	"github.com/raidtally/raidtally/internal/catalog"
	"github.com/raidtally/raidtally/internal/event"
)

// Actor is one unit observed in the log, with the class the index has
// determined for it and its first and last activity timestamps.
type Actor struct {
	UID   string
	Name  string
	Class catalog.Class
	First event.Timestamp
	Last  event.Timestamp
	Alive bool

	hasSeen bool
	diedAt  event.Timestamp
}

// noteTimestamp widens the actor's activity window to include ts.
func (a *Actor) noteTimestamp(ts event.Timestamp) {
	if !a.hasSeen {
		a.First = ts
		a.Last = ts
		a.hasSeen = true
		return
	}
	if a.First.Compare(ts) == event.OrderLess {
		a.First = ts
	}
	if a.Last.Compare(ts) == event.OrderGreater {
		a.Last = ts
	}
}

// countsAsPlayer reports whether a class contributes to the raid head
// count. Vehicles count; a player piloting a siege vehicle is still in
// the fight.
func countsAsPlayer(c catalog.Class) bool {
	switch c {
	case catalog.ClassUnknown, catalog.ClassNPC, catalog.ClassPet,
		catalog.ClassEnvironment:
		return false
	}
	return true
}

// ActorIndex accumulates every actor named by the event stream and
// tracks how many raid members are present and alive. Death and revival
// are inferred from the log itself: a unit death or a stealth buff marks
// an actor dead, and sustained activity a resurrection-cooldown later
// marks them alive again.
type ActorIndex struct {
	spells      *catalog.SpellIndex
	byUID       map[string]*Actor
	playerCount int
	aliveCount  int
}

func NewActorIndex(spells *catalog.SpellIndex) *ActorIndex {
	return &ActorIndex{
		spells: spells,
		byUID:  make(map[string]*Actor),
	}
}

// PlayerCount returns how many raid members the index has identified.
func (idx *ActorIndex) PlayerCount() int {
	return idx.playerCount
}

// AliveCount returns how many identified raid members are alive.
func (idx *ActorIndex) AliveCount() int {
	return idx.aliveCount
}

// Actors returns every actor the index has seen.
func (idx *ActorIndex) Actors() []*Actor {
	actors := make([]*Actor, 0, len(idx.byUID))
	for _, a := range idx.byUID {
		actors = append(actors, a)
	}
	return actors
}

// Get returns the actor recorded under uid.
func (idx *ActorIndex) Get(uid string) (*Actor, bool) {
	a, ok := idx.byUID[uid]
	return a, ok
}

func (idx *ActorIndex) getOrCreate(uid, name string) *Actor {
	if a, ok := idx.byUID[uid]; ok {
		return a
	}
	a := &Actor{
		UID:   uid,
		Name:  name,
		Class: catalog.ClassUnknown,
		Alive: true,
	}
	idx.byUID[uid] = a
	return a
}

// NoteEvent folds one event into the index, updating both the source
// and target actors.
func (idx *ActorIndex) NoteEvent(e *event.Event) {
	src := idx.getOrCreate(e.SourceUID, e.SourceName)
	src.noteTimestamp(e.Timestamp)
	idx.determineClass(src, e)
	idx.noteRevival(src, e)

	tgt := idx.getOrCreate(e.TargetUID, e.TargetName)
	tgt.noteTimestamp(e.Timestamp)

	// The target did not perform the action, so its class cannot be
	// determined here.

	idx.noteDeath(tgt, e)
}

// determineClass resolves an actor's class from the event it sourced.
// Anonymous "nil" sources are the environment; player units are classed
// by the spell they cast; everything else is classed by the unit kind
// nibble of its UID.
func (idx *ActorIndex) determineClass(a *Actor, e *event.Event) {
	if a.Class != catalog.ClassUnknown {
		return
	}

	newlySet := false
	if a.Name == "nil" {
		a.Name = "Environment"
		a.Class = catalog.ClassEnvironment
		newlySet = true
	} else if catalog.IsPlayerUnit(e.SourceUnitType) {
		if id := e.SpellID(); id != 0 {
			if sp, ok := idx.spells.Lookup(id); ok {
				a.Class = sp.Class
				// Applied-dose events class the actor without
				// registering them in the head count.
				newlySet = e.Type != event.TypeSpellAuraAppliedDose
			}
		}
	} else {
		switch kind := catalog.ClassForUnitKind(e.SourceUnitType); kind {
		case catalog.ClassNPC, catalog.ClassPet, catalog.ClassVehicle:
			a.Class = kind
			newlySet = true
		}
	}

	if newlySet && countsAsPlayer(a.Class) {
		idx.playerCount++
		idx.aliveCount++
	}
}

// noteRevival marks a dead raid member alive again once enough time has
// passed since their death for a resurrection or release. Hunters get a
// shorter threshold since feign death reads as a death in the log.
func (idx *ActorIndex) noteRevival(a *Actor, e *event.Event) {
	switch e.Type {
	case event.TypeUnitDied, event.TypeEnchantRemoved,
		event.TypeSpellAuraBroken, event.TypeSpellAuraBrokenSpell,
		event.TypeSpellAuraRemovedDose,
		event.TypeSpellPeriodicDamage, event.TypeSpellPeriodicEnergize,
		event.TypeSpellPeriodicHeal, event.TypeSpellPeriodicMissed:
		return
	}

	stealthDropped := e.Type == event.TypeSpellAuraRemoved &&
		catalog.IsStealthBuff(e.SpellID())
	deadAndActing := e.Type != event.TypeSpellAuraRemoved &&
		!a.Alive && countsAsPlayer(a.Class)
	if !stealthDropped && !deadAndActing {
		return
	}

	elapsed := e.Timestamp.ElapsedSeconds(a.diedAt)
	if a.Class == catalog.ClassHunter && elapsed >= 45 {
		idx.aliveCount++
		a.Alive = true
	} else if elapsed >= 60 {
		idx.aliveCount++
		a.Alive = true
	}
}

// noteDeath marks a raid member dead when they die or vanish from
// combat behind a stealth buff.
func (idx *ActorIndex) noteDeath(a *Actor, e *event.Event) {
	stealthApplied := e.Type == event.TypeSpellAuraApplied &&
		catalog.IsStealthBuff(e.SpellID())
	if !stealthApplied && e.Type != event.TypeUnitDied {
		return
	}
	if !a.Alive || !countsAsPlayer(a.Class) {
		return
	}
	a.diedAt = e.Timestamp
	idx.aliveCount--
	a.Alive = false
}
