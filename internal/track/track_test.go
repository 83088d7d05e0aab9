package track

import (
	"fmt"
	"testing"

	"github.com/raidtally/raidtally/internal/catalog"
	"github.com/raidtally/raidtally/internal/event"
)

const (
	playerUID  = "0x0000000000899F58"
	playerUID2 = "0x000000000089A001"
	petUID     = "0xF140098706001A2B"
	npcUID     = "0xF1300001F400012C"
)

func at(minute, second int) event.Timestamp {
	return event.Timestamp{
		Year: 2009, Month: 5, Day: 10,
		Hour: 21, Minute: minute, Second: second,
	}
}

func npcUIDFor(unitID, spawn int) string {
	return fmt.Sprintf("0xF13%07X%06X", unitID, spawn)
}

func unitType(uid string) uint64 {
	var v uint64
	fmt.Sscanf(uid, "0x%X", &v)
	return v
}

func cast(ts event.Timestamp, srcUID, srcName, tgtUID, tgtName string, spellID int) *event.Event {
	return &event.Event{
		Type:           event.TypeSpellCastStart,
		Timestamp:      ts,
		SourceUID:      srcUID,
		SourceName:     srcName,
		SourceUnitType: unitType(srcUID),
		TargetUID:      tgtUID,
		TargetName:     tgtName,
		TargetUnitType: unitType(tgtUID),
		Payload:        &event.SpellInfo{SpellID: spellID, SpellName: "Test", School: event.SchoolHoly},
	}
}

func aura(ts event.Timestamp, t event.Type, srcUID, srcName, tgtUID, tgtName string, spellID int) *event.Event {
	e := cast(ts, srcUID, srcName, tgtUID, tgtName, spellID)
	e.Type = t
	e.Payload = &event.Aura{SpellID: spellID, SpellName: "Test", School: event.SchoolPhysical, AuraType: "BUFF"}
	return e
}

func died(ts event.Timestamp, tgtUID, tgtName string) *event.Event {
	return &event.Event{
		Type:       event.TypeUnitDied,
		Timestamp:  ts,
		SourceUID:  "0x0000000000000000",
		SourceName: "nil",
		TargetUID:  tgtUID,
		TargetName: tgtName,
		Payload:    &event.UnitDeath{},
	}
}

func TestLinkIndexFirstSummonWins(t *testing.T) {
	idx := NewLinkIndex()

	summon := cast(at(0, 0), playerUID, "Kaels", petUID, "Jhuutom", 688)
	summon.Type = event.TypeSpellSummon
	idx.NoteEvent(summon)

	later := cast(at(0, 30), playerUID2, "Other", petUID, "Jhuutom", 688)
	later.Type = event.TypeSpellSummon
	idx.NoteEvent(later)

	link, ok := idx.Get(petUID)
	if !ok {
		t.Fatal("Get() returned no link")
	}
	if link.OwnerUID != playerUID || link.OwnerName != "Kaels" {
		t.Errorf("link owner = %q %q, want %q Kaels", link.OwnerUID, link.OwnerName, playerUID)
	}
	if link.PetUID != petUID || link.PetName != "Jhuutom" {
		t.Errorf("link pet = %q %q", link.PetUID, link.PetName)
	}
	if got := len(idx.Links()); got != 1 {
		t.Errorf("Links() length = %d, want 1", got)
	}
}

func TestLinkIndexIgnoresNonSummons(t *testing.T) {
	idx := NewLinkIndex()
	idx.NoteEvent(cast(at(0, 0), playerUID, "Kaels", petUID, "Jhuutom", 688))
	if _, ok := idx.Get(petUID); ok {
		t.Error("cast event created a pet link")
	}
}

func TestActorIndexClassFromSpell(t *testing.T) {
	idx := NewActorIndex(catalog.NewSpellIndex())

	// 48782 is a cataloged Paladin casting.
	idx.NoteEvent(cast(at(0, 0), playerUID, "Remissia", npcUID, "Target Dummy", 48782))

	a, ok := idx.Get(playerUID)
	if !ok {
		t.Fatal("source actor not recorded")
	}
	if a.Class != catalog.ClassPaladin {
		t.Errorf("class = %v, want Paladin", a.Class)
	}
	if !a.Alive {
		t.Error("new actor not alive")
	}
	if idx.PlayerCount() != 1 || idx.AliveCount() != 1 {
		t.Errorf("counts = %d/%d, want 1/1", idx.PlayerCount(), idx.AliveCount())
	}
}

func TestActorIndexNonPlayersDoNotCount(t *testing.T) {
	idx := NewActorIndex(catalog.NewSpellIndex())

	idx.NoteEvent(cast(at(0, 0), npcUID, "Kel'Thuzad", playerUID, "Remissia", 29107))
	idx.NoteEvent(cast(at(0, 1), petUID, "Jhuutom", npcUID, "Kel'Thuzad", 52474))

	if idx.PlayerCount() != 0 {
		t.Errorf("PlayerCount() = %d, want 0", idx.PlayerCount())
	}
	npc, _ := idx.Get(npcUID)
	if npc.Class != catalog.ClassNPC {
		t.Errorf("npc class = %v", npc.Class)
	}
	pet, _ := idx.Get(petUID)
	if pet.Class != catalog.ClassPet {
		t.Errorf("pet class = %v", pet.Class)
	}
}

func TestActorIndexEnvironmentSource(t *testing.T) {
	idx := NewActorIndex(catalog.NewSpellIndex())

	e := died(at(0, 0), playerUID, "Remissia")
	idx.NoteEvent(e)

	env, ok := idx.Get("0x0000000000000000")
	if !ok {
		t.Fatal("environment actor not recorded")
	}
	if env.Name != "Environment" || env.Class != catalog.ClassEnvironment {
		t.Errorf("environment actor = %q %v", env.Name, env.Class)
	}
	if idx.PlayerCount() != 0 {
		t.Errorf("PlayerCount() = %d, want 0", idx.PlayerCount())
	}
}

func TestActorIndexDeathAndRevival(t *testing.T) {
	idx := NewActorIndex(catalog.NewSpellIndex())

	// Identify a player, then kill them.
	idx.NoteEvent(cast(at(0, 0), playerUID, "Remissia", npcUID, "Target Dummy", 48782))
	idx.NoteEvent(died(at(0, 30), playerUID, "Remissia"))

	a, _ := idx.Get(playerUID)
	if a.Alive {
		t.Fatal("actor still alive after death event")
	}
	if idx.AliveCount() != 0 {
		t.Fatalf("AliveCount() = %d, want 0", idx.AliveCount())
	}

	// Activity 30 seconds later is death throes, not a resurrection.
	idx.NoteEvent(cast(at(1, 0), playerUID, "Remissia", npcUID, "Target Dummy", 48782))
	if a.Alive {
		t.Error("actor revived after only 30 seconds")
	}

	// Activity 90 seconds after dying means they are back up.
	idx.NoteEvent(cast(at(2, 0), playerUID, "Remissia", npcUID, "Target Dummy", 48782))
	if !a.Alive {
		t.Error("actor not revived after 90 seconds of activity")
	}
	if idx.AliveCount() != 1 {
		t.Errorf("AliveCount() = %d, want 1", idx.AliveCount())
	}
}

func TestActorIndexHunterRevivesSooner(t *testing.T) {
	idx := NewActorIndex(catalog.NewSpellIndex())

	// 49001 is a cataloged Hunter casting.
	idx.NoteEvent(cast(at(0, 0), playerUID, "Legolaslol", npcUID, "Target Dummy", 49001))
	idx.NoteEvent(died(at(0, 10), playerUID, "Legolaslol"))

	// Feign death reads as a death; hunters come back on a shorter
	// threshold.
	idx.NoteEvent(cast(at(1, 0), playerUID, "Legolaslol", npcUID, "Target Dummy", 49001))

	a, _ := idx.Get(playerUID)
	if !a.Alive {
		t.Error("hunter not revived 50 seconds after feigning")
	}
}

func TestActorIndexStealthCountsAsDeath(t *testing.T) {
	idx := NewActorIndex(catalog.NewSpellIndex())

	// 26888 is Vanish.
	idx.NoteEvent(cast(at(0, 0), playerUID, "Stabbyface", npcUID, "Target Dummy", 26888))
	if idx.AliveCount() != 1 {
		t.Fatalf("AliveCount() = %d, want 1", idx.AliveCount())
	}

	idx.NoteEvent(aura(at(0, 30), event.TypeSpellAuraApplied, playerUID, "Stabbyface", playerUID, "Stabbyface", 26888))
	if idx.AliveCount() != 0 {
		t.Errorf("AliveCount() = %d after vanish, want 0", idx.AliveCount())
	}

	idx.NoteEvent(aura(at(2, 0), event.TypeSpellAuraRemoved, playerUID, "Stabbyface", playerUID, "Stabbyface", 26888))
	if idx.AliveCount() != 1 {
		t.Errorf("AliveCount() = %d after vanish dropped, want 1", idx.AliveCount())
	}
}

func TestActorIndexWidensActivityWindow(t *testing.T) {
	idx := NewActorIndex(catalog.NewSpellIndex())

	idx.NoteEvent(cast(at(5, 0), playerUID, "Remissia", npcUID, "Target Dummy", 48782))
	idx.NoteEvent(cast(at(2, 0), playerUID, "Remissia", npcUID, "Target Dummy", 48782))
	idx.NoteEvent(cast(at(9, 0), playerUID, "Remissia", npcUID, "Target Dummy", 48782))

	a, _ := idx.Get(playerUID)
	if a.First != at(2, 0) {
		t.Errorf("First = %v, want %v", a.First, at(2, 0))
	}
	if a.Last != at(9, 0) {
		t.Errorf("Last = %v, want %v", a.Last, at(9, 0))
	}
}

func newTracker(t *testing.T) (*Tracker, *ActorIndex) {
	t.Helper()
	return NewTracker(catalog.NewEncounterIndex()), NewActorIndex(catalog.NewSpellIndex())
}

// seed gives the tracker its reference timestamp so later events clear
// the boundary debounce.
func seed(t *testing.T, tr *Tracker, actors *ActorIndex, ts event.Timestamp) {
	t.Helper()
	var out Outcome
	e := cast(ts, playerUID, "Remissia", playerUID2, "Moojuice", 48782)
	if got := tr.NoteEvent(e, actors, &out); got != ResultOK {
		t.Fatalf("seed event result = %v, want ResultOK", got)
	}
}

func TestTrackerOpensEncounter(t *testing.T) {
	tr, actors := newTracker(t)
	seed(t, tr, actors, at(0, 0))

	var out Outcome
	boss := npcUIDFor(28860, 1)
	e := cast(at(1, 0), boss, "Sartharion", playerUID, "Remissia", 56908)
	if got := tr.NoteEvent(e, actors, &out); got != ResultNewEncounter {
		t.Fatalf("boss event result = %v, want ResultNewEncounter", got)
	}
	if out.Zone != "The Obsidian Sanctum" || out.BossName != "Sartharion" {
		t.Errorf("outcome = %q %q", out.Zone, out.BossName)
	}
	if !tr.Open() {
		t.Error("Open() = false after boss trigger")
	}
}

func TestTrackerDebouncesAfterFirstEvent(t *testing.T) {
	tr, actors := newTracker(t)
	seed(t, tr, actors, at(0, 0))

	var out Outcome
	boss := npcUIDFor(28860, 1)
	e := cast(at(0, 30), boss, "Sartharion", playerUID, "Remissia", 56908)
	if got := tr.NoteEvent(e, actors, &out); got != ResultOK {
		t.Errorf("boss event inside debounce window = %v, want ResultOK", got)
	}
	if tr.Open() {
		t.Error("encounter opened inside debounce window")
	}
}

func TestTrackerClosesOnBossDeath(t *testing.T) {
	tr, actors := newTracker(t)
	seed(t, tr, actors, at(0, 0))

	boss := npcUIDFor(28860, 1)
	var out Outcome
	tr.NoteEvent(cast(at(1, 0), boss, "Sartharion", playerUID, "Remissia", 56908), actors, &out)

	if got := tr.NoteEvent(died(at(5, 30), boss, "Sartharion"), actors, &out); got != ResultEndEncounter {
		t.Fatalf("death event result = %v, want ResultEndEncounter", got)
	}
	if out.BossName != "Sartharion" {
		t.Errorf("outcome boss = %q", out.BossName)
	}
	if out.Start != at(1, 0) {
		t.Errorf("outcome start = %v, want %v", out.Start, at(1, 0))
	}
	if out.End != at(5, 30) {
		t.Errorf("outcome end = %v, want %v", out.End, at(5, 30))
	}
	if tr.Open() {
		t.Error("Open() = true after kill")
	}
}

func TestTrackerRequiresEveryEndUnitDead(t *testing.T) {
	tr, actors := newTracker(t)
	seed(t, tr, actors, at(0, 0))

	// The Assembly of Iron only ends once all three members are down.
	var out Outcome
	steelbreaker := npcUIDFor(32867, 1)
	molgeim := npcUIDFor(32927, 1)
	brundir := npcUIDFor(32857, 1)
	tr.NoteEvent(cast(at(1, 0), steelbreaker, "Steelbreaker", playerUID, "Remissia", 62360), actors, &out)

	if got := tr.NoteEvent(died(at(3, 0), steelbreaker, "Steelbreaker"), actors, &out); got != ResultOK {
		t.Fatalf("first death = %v, want ResultOK", got)
	}
	if got := tr.NoteEvent(died(at(4, 10), molgeim, "Runemaster Molgeim"), actors, &out); got != ResultOK {
		t.Fatalf("second death = %v, want ResultOK", got)
	}
	if got := tr.NoteEvent(died(at(5, 20), brundir, "Stormcaller Brundir"), actors, &out); got != ResultEndEncounter {
		t.Fatalf("final death = %v, want ResultEndEncounter", got)
	}
	if out.BossName != "The Assembly of Iron" {
		t.Errorf("outcome boss = %q", out.BossName)
	}
}

func TestTrackerSwitchesEncounters(t *testing.T) {
	tr, actors := newTracker(t)
	seed(t, tr, actors, at(0, 0))

	var out Outcome
	patchwerk := npcUIDFor(16028, 1)
	grobbulus := npcUIDFor(15931, 1)
	tr.NoteEvent(cast(at(1, 0), patchwerk, "Patchwerk", playerUID, "Remissia", 28131), actors, &out)

	if got := tr.NoteEvent(cast(at(6, 0), grobbulus, "Grobbulus", playerUID, "Remissia", 28169), actors, &out); got != ResultNewAndEndEncounter {
		t.Fatalf("second boss result = %v, want ResultNewAndEndEncounter", got)
	}
	if out.BossName != "Patchwerk" {
		t.Errorf("closed outcome boss = %q, want Patchwerk", out.BossName)
	}
	if !tr.Open() {
		t.Error("Open() = false after switching encounters")
	}
}

func TestTrackerChildBossDoesNotSwitch(t *testing.T) {
	tr, actors := newTracker(t)
	seed(t, tr, actors, at(0, 0))

	var out Outcome
	sartharion := npcUIDFor(28860, 1)
	tenebron := npcUIDFor(30452, 1)
	tr.NoteEvent(cast(at(1, 0), sartharion, "Sartharion", playerUID, "Remissia", 56908), actors, &out)

	if got := tr.NoteEvent(cast(at(3, 0), tenebron, "Tenebron", playerUID, "Remissia", 57570), actors, &out); got != ResultOK {
		t.Errorf("child boss result = %v, want ResultOK", got)
	}
	if !tr.Open() {
		t.Error("child boss closed the encounter")
	}
}

func TestTrackerClosesOnDrink(t *testing.T) {
	tr, actors := newTracker(t)
	seed(t, tr, actors, at(0, 0))

	var out Outcome
	boss := npcUIDFor(28860, 1)
	tr.NoteEvent(cast(at(1, 0), boss, "Sartharion", playerUID, "Remissia", 56908), actors, &out)

	// 43183 is a mage food-table drink; nobody drinks mid-pull.
	drink := aura(at(4, 0), event.TypeSpellAuraApplied, playerUID, "Remissia", playerUID, "Remissia", 43183)
	if got := tr.NoteEvent(drink, actors, &out); got != ResultEndEncounter {
		t.Fatalf("drink aura result = %v, want ResultEndEncounter", got)
	}
	if out.End != at(4, 0) {
		t.Errorf("outcome end = %v, want %v", out.End, at(4, 0))
	}
}

func TestTrackerClosesOnTimeout(t *testing.T) {
	tr, actors := newTracker(t)
	seed(t, tr, actors, at(0, 0))

	// XT-002 has an 8 minute window.
	var out Outcome
	boss := npcUIDFor(33293, 1)
	tr.NoteEvent(cast(at(1, 0), boss, "XT-002 Deconstructor", playerUID, "Remissia", 63024), actors, &out)
	tr.NoteEvent(cast(at(6, 0), playerUID, "Remissia", boss, "XT-002 Deconstructor", 48782), actors, &out)

	late := cast(at(9, 30), playerUID, "Remissia", boss, "XT-002 Deconstructor", 48782)
	if got := tr.NoteEvent(late, actors, &out); got != ResultEndEncounter {
		t.Fatalf("post-timeout event result = %v, want ResultEndEncounter", got)
	}
	// The close is backdated to the last event inside the window.
	if out.End != at(6, 0) {
		t.Errorf("outcome end = %v, want %v", out.End, at(6, 0))
	}
}

func TestTrackerClosesOnWipe(t *testing.T) {
	tr, actors := newTracker(t)
	seed(t, tr, actors, at(0, 0))

	var out Outcome
	boss := npcUIDFor(28860, 1)
	tr.NoteEvent(cast(at(1, 0), boss, "Sartharion", playerUID, "Remissia", 56908), actors, &out)

	// One player joins the fight, then dies to it.
	tr.NoteEvent(cast(at(2, 10), playerUID, "Remissia", boss, "Sartharion", 48782), actors, &out)
	tr.NoteEvent(died(at(3, 20), playerUID, "Remissia"), actors, &out)

	if actors.PlayerCount() != 1 || actors.AliveCount() != 0 {
		t.Fatalf("actor counts = %d/%d, want 1/0", actors.PlayerCount(), actors.AliveCount())
	}

	next := cast(at(4, 30), npcUID, "Lava Blaze", playerUID, "Remissia", 57571)
	if got := tr.NoteEvent(next, actors, &out); got != ResultEndEncounter {
		t.Fatalf("post-wipe event result = %v, want ResultEndEncounter", got)
	}
	if out.End != at(4, 30) {
		t.Errorf("outcome end = %v, want %v", out.End, at(4, 30))
	}
}

func TestTrackerForwardsEventsWhileOpen(t *testing.T) {
	tr, actors := newTracker(t)
	seed(t, tr, actors, at(0, 0))

	var out Outcome
	boss := npcUIDFor(28860, 1)
	tr.NoteEvent(cast(at(1, 0), boss, "Sartharion", playerUID, "Remissia", 56908), actors, &out)
	tr.NoteEvent(cast(at(2, 0), playerUID2, "Moojuice", boss, "Sartharion", 48378), actors, &out)

	if _, ok := actors.Get(playerUID2); !ok {
		t.Error("in-encounter event not forwarded to the actor index")
	}
}

func TestTrackerIgnoresAuraTeardown(t *testing.T) {
	tr, actors := newTracker(t)
	seed(t, tr, actors, at(0, 0))

	var out Outcome
	boss := npcUIDFor(28860, 1)
	e := aura(at(1, 0), event.TypeSpellAuraRemoved, boss, "Sartharion", playerUID, "Remissia", 56908)
	if got := tr.NoteEvent(e, actors, &out); got != ResultOK {
		t.Errorf("aura removal result = %v, want ResultOK", got)
	}
	if tr.Open() {
		t.Error("aura removal opened an encounter")
	}
}
