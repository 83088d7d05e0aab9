package catalog

// Encounter describes one boss fight: the unit ids that can open it, the
// ids whose deaths close it, and how long it may run before it is
// considered abandoned.
type Encounter struct {
	Zone string
	// BossID is the primary unit template id of the boss.
	BossID int
	Name   string
	// StartTrash lists escort units whose activity opens the encounter
	// without being counted toward its kill condition.
	StartTrash []int
	// Start lists the units whose activity opens the encounter. Every
	// one of them must die for the encounter to close by kill.
	Start []int
	// ChildBosses lists units that belong to this encounter but run
	// their own sub-encounters; seeing one does not end the parent.
	ChildBosses []int
	// End lists the unit ids whose deaths count toward the kill
	// condition.
	End []int
	// TimeoutMinutes bounds the encounter; past it the fight is treated
	// as walked away from.
	TimeoutMinutes int
}

func boss(zone string, id int, name string, timeout int) Encounter {
	return Encounter{
		Zone:           zone,
		BossID:         id,
		Name:           name,
		Start:          []int{id},
		End:            []int{id},
		TimeoutMinutes: timeout,
	}
}

// encounterList is the tier 7/8 raid catalog.
var encounterList = []Encounter{
	{
		Zone: "The Obsidian Sanctum", BossID: 28860, Name: "Sartharion",
		Start:          []int{28860},
		ChildBosses:    []int{30449, 30452, 30451},
		End:            []int{28860},
		TimeoutMinutes: 45,
	},
	boss("The Obsidian Sanctum", 30449, "Vesperon", 10),
	boss("The Obsidian Sanctum", 30452, "Tenebron", 10),
	boss("The Obsidian Sanctum", 30451, "Shadron", 10),

	boss("Naxxramas", 15956, "Anub'Rekhan", 30),
	boss("Naxxramas", 15953, "Grand Widow Faerlina", 30),
	boss("Naxxramas", 15952, "Maexxna", 30),
	{
		Zone: "Naxxramas", BossID: 16061, Name: "Instructor Razuvious",
		StartTrash:     []int{16803},
		Start:          []int{16061},
		ChildBosses:    []int{16803},
		End:            []int{16061},
		TimeoutMinutes: 30,
	},
	{
		Zone: "Naxxramas", BossID: 16060, Name: "Gothik the Harvester",
		StartTrash:     []int{16124, 16125, 16126, 16127, 16148, 16149, 16150},
		Start:          []int{16060},
		End:            []int{16060},
		TimeoutMinutes: 30,
	},
	{
		Zone: "Naxxramas", BossID: 16063, Name: "The Four Horsemen",
		Start:          []int{16063, 16064, 16065, 30549},
		End:            []int{16063, 16064, 16065, 30549},
		TimeoutMinutes: 30,
	},
	boss("Naxxramas", 16028, "Patchwerk", 30),
	boss("Naxxramas", 15931, "Grobbulus", 30),
	boss("Naxxramas", 15933, "Gluth", 30),
	{
		Zone: "Naxxramas", BossID: 15928, Name: "Thaddius",
		Start:          []int{15928, 15929, 15930},
		End:            []int{15928},
		TimeoutMinutes: 30,
	},
	boss("Naxxramas", 15954, "Noth the Plaguebringer", 30),
	boss("Naxxramas", 15936, "Heigan the Unclean", 30),
	boss("Naxxramas", 16011, "Loatheb", 30),
	boss("Naxxramas", 15989, "Sapphiron", 45),
	{
		Zone: "Naxxramas", BossID: 15990, Name: "Kel'Thuzad",
		StartTrash:     []int{16427, 16428, 16429},
		Start:          []int{15990},
		End:            []int{15990},
		TimeoutMinutes: 30,
	},

	boss("The Eye of Eternity", 28859, "Malygos", 30),
	boss("Vault of Archavon", 31125, "Archavon the Stone Watcher", 30),

	boss("Ulduar", 33113, "Flame Leviathan", 15),
	boss("Ulduar", 33118, "Ignis the Furnace Master", 15),
	{
		Zone: "Ulduar", BossID: 33186, Name: "Razorscale",
		StartTrash:     []int{33388, 33846, 33453},
		Start:          []int{33186},
		End:            []int{33186},
		TimeoutMinutes: 15,
	},
	{
		Zone: "Ulduar", BossID: 33293, Name: "XT-002 Deconstructor",
		StartTrash:     []int{33343, 33344, 33346},
		Start:          []int{33293},
		End:            []int{33293},
		TimeoutMinutes: 8,
	},
	{
		Zone: "Ulduar", BossID: 32927, Name: "The Assembly of Iron",
		Start:          []int{32927, 32857, 32867},
		End:            []int{32927, 32857, 32867},
		TimeoutMinutes: 20,
	},
	{
		Zone: "Ulduar", BossID: 32930, Name: "Kologarn",
		StartTrash:     []int{32933, 32934},
		Start:          []int{32930},
		End:            []int{32930},
		TimeoutMinutes: 20,
	},
	{
		Zone: "Ulduar", BossID: 32845, Name: "Hodir",
		StartTrash:     []int{32938},
		Start:          []int{32845},
		End:            []int{32845},
		TimeoutMinutes: 20,
	},
	{
		Zone: "Ulduar", BossID: 32865, Name: "Thorim",
		StartTrash:     []int{32876, 32904, 32878, 32877},
		Start:          []int{32865},
		End:            []int{32865},
		TimeoutMinutes: 20,
	},
	{
		Zone: "Ulduar", BossID: 32906, Name: "Freya",
		StartTrash:     []int{33202, 33203, 32918, 33228, 33215, 32916, 32919},
		Start:          []int{32906},
		End:            []int{32906},
		TimeoutMinutes: 15,
	},
	{
		Zone: "Ulduar", BossID: 33271, Name: "General Vezax",
		StartTrash:     []int{33524},
		Start:          []int{33271},
		End:            []int{33271},
		TimeoutMinutes: 25,
	},
	{
		Zone: "Ulduar", BossID: 33515, Name: "Auriaya",
		Start:          []int{33515, 34014, 34035},
		End:            []int{33515},
		TimeoutMinutes: 15,
	},

	boss("Vault of Archavon", 33993, "Emalon the Storm Watcher", 30),
	boss("Vault of Archavon", 35013, "Koralon the Flame Watcher", 30),
}

// EncounterIndex resolves unit template ids to the encounter they can
// open.
type EncounterIndex struct {
	byUnit map[int]*Encounter
}

// NewEncounterIndex builds the index over the static catalog. Both the
// primary start units and the escort trash are indexed.
func NewEncounterIndex() *EncounterIndex {
	idx := &EncounterIndex{byUnit: make(map[int]*Encounter)}
	for i := range encounterList {
		enc := &encounterList[i]
		for _, id := range enc.Start {
			idx.byUnit[id] = enc
		}
		for _, id := range enc.StartTrash {
			idx.byUnit[id] = enc
		}
	}
	return idx
}

// Lookup returns the encounter a unit id belongs to.
func (idx *EncounterIndex) Lookup(unitID int) (*Encounter, bool) {
	enc, ok := idx.byUnit[unitID]
	return enc, ok
}

// Encounters returns the full catalog.
func Encounters() []Encounter {
	return encounterList
}

// InChild reports whether a boss id belongs to the encounter's child
// boss list.
func (e *Encounter) InChild(bossID int) bool {
	for _, id := range e.ChildBosses {
		if id == bossID {
			return true
		}
	}
	return false
}

// InStart reports whether a boss id is one of the encounter's primary
// start units, returning its slot.
func (e *Encounter) InStart(bossID int) (int, bool) {
	for i, id := range e.Start {
		if id == bossID {
			return i, true
		}
	}
	return 0, false
}

// InStartTrash reports whether a boss id is escort trash for the
// encounter.
func (e *Encounter) InStartTrash(bossID int) bool {
	for _, id := range e.StartTrash {
		if id == bossID {
			return true
		}
	}
	return false
}

// ignoredCastIDs lists spells whose successful cast never drives
// encounter state. These fire constantly on boss units without meaning
// combat started.
var ignoredCastIDs = map[int]bool{
	1130:  true,
	14323: true,
	14324: true,
	14325: true,
	53338: true,
}

// IsIgnoredCast reports whether a successful cast of the spell should be
// ignored by the encounter trigger.
func IsIgnoredCast(spellID int) bool {
	return ignoredCastIDs[spellID]
}

// drinkIDs lists the refreshment auras players only gain out of combat.
var drinkIDs = map[int]bool{
	52911: true,
	43183: true,
	43182: true,
	43706: true,
	27089: true,
}

// resurrectIDs lists the out-of-combat resurrection spells of every
// class that has one.
var resurrectIDs = map[int]bool{
	// Priest, Resurrection
	48171: true, 25435: true, 20770: true, 10881: true,
	10880: true, 2010: true, 2006: true,
	// Paladin, Redemption
	48950: true, 48949: true, 20773: true, 20772: true,
	10324: true, 10322: true, 7328: true,
	// Druid, Revive
	50763: true, 50764: true, 50765: true, 50766: true,
	50767: true, 50768: true, 50769: true,
	// Shaman, Ancestral Spirit
	49277: true, 25590: true, 20777: true, 20776: true,
	20610: true, 20609: true, 2008: true,
}

// IsOutOfCombatSpell reports whether the spell only appears outside
// combat: drinking or a non-combat resurrection. Seeing one on a raid
// member means the active encounter is over.
func IsOutOfCombatSpell(spellID int) bool {
	return drinkIDs[spellID] || resurrectIDs[spellID]
}

// stealthBuffIDs lists auras that drop a player from combat visibility
// without a death: Vanish and Shadowmeld.
var stealthBuffIDs = map[int]bool{
	26888: true,
	58984: true,
}

// IsStealthBuff reports whether the aura hides a living player from the
// log rather than marking a death.
func IsStealthBuff(spellID int) bool {
	return stealthBuffIDs[spellID]
}
