package catalog

// Spell is one catalog entry tying a spell id to the class that can cast
// it and the rank of that casting.
type Spell struct {
	ID    int
	Class Class
	Name  string
	Rank  int
}

// spellList is the class-identifying spell catalog for patch 3.3.5-era
// logs. It is keyed during indexing; order is irrelevant.
var spellList = []Spell{
	// Warrior
	{47486, ClassWarrior, "Mortal Strike", 8},
	{47465, ClassWarrior, "Rend", 10},
	{47475, ClassWarrior, "Slam", 8},
	{47520, ClassWarrior, "Cleave", 12},
	{57755, ClassWarrior, "Heroic Throw", 1},
	{23922, ClassWarrior, "Shield Slam", 1},
	{46968, ClassWarrior, "Shockwave", 1},

	// Druid
	{48461, ClassDruid, "Wrath", 12},
	{48465, ClassDruid, "Starfire", 10},
	{53195, ClassDruid, "Starfall", 4},
	{48378, ClassDruid, "Healing Touch", 14},
	{48441, ClassDruid, "Rejuvenation", 15},
	{48443, ClassDruid, "Regrowth", 12},
	{48451, ClassDruid, "Lifebloom", 3},
	{48468, ClassDruid, "Insect Swarm", 7},
	{48568, ClassDruid, "Lacerate", 3},

	// Warlock
	{47809, ClassWarlock, "Shadow Bolt", 13},
	{47864, ClassWarlock, "Corruption", 10},
	{47811, ClassWarlock, "Immolate", 11},
	{47843, ClassWarlock, "Unstable Affliction", 5},
	{47857, ClassWarlock, "Drain Life", 9},
	{59172, ClassWarlock, "Chaos Bolt", 4},
	{47838, ClassWarlock, "Incinerate", 4},

	// Shaman
	{49238, ClassShaman, "Lightning Bolt", 14},
	{49271, ClassShaman, "Chain Lightning", 8},
	{49273, ClassShaman, "Healing Wave", 14},
	{49276, ClassShaman, "Lesser Healing Wave", 9},
	{55459, ClassShaman, "Chain Heal", 7},
	{49231, ClassShaman, "Earth Shock", 10},
	{60043, ClassShaman, "Lava Burst", 2},
	{61301, ClassShaman, "Riptide", 1},

	// Paladin
	{48782, ClassPaladin, "Holy Light", 13},
	{48785, ClassPaladin, "Flash of Light", 9},
	{48819, ClassPaladin, "Consecration", 10},
	{48801, ClassPaladin, "Exorcism", 9},
	{35395, ClassPaladin, "Crusader Strike", 1},
	{48827, ClassPaladin, "Avenger's Shield", 5},
	{53408, ClassPaladin, "Judgement of Wisdom", 1},
	{53385, ClassPaladin, "Divine Storm", 1},

	// Priest
	{48063, ClassPriest, "Greater Heal", 9},
	{48071, ClassPriest, "Flash Heal", 9},
	{48068, ClassPriest, "Renew", 14},
	{48113, ClassPriest, "Prayer of Mending", 3},
	{48123, ClassPriest, "Smite", 12},
	{48127, ClassPriest, "Mind Blast", 13},
	{48160, ClassPriest, "Vampiric Touch", 5},
	{48300, ClassPriest, "Devouring Plague", 9},
	{48066, ClassPriest, "Power Word: Shield", 14},
	{48156, ClassPriest, "Mind Flay", 9},

	// Rogue
	{48668, ClassRogue, "Eviscerate", 12},
	{48638, ClassRogue, "Sinister Strike", 12},
	{57993, ClassRogue, "Envenom", 4},
	{48672, ClassRogue, "Rupture", 10},
	{51723, ClassRogue, "Fan of Knives", 1},
	{48666, ClassRogue, "Mutilate", 6},
	{26888, ClassRogue, "Vanish", 3},

	// Mage
	{42833, ClassMage, "Fireball", 16},
	{42842, ClassMage, "Frostbolt", 16},
	{42846, ClassMage, "Arcane Missiles", 13},
	{42897, ClassMage, "Arcane Blast", 4},
	{42891, ClassMage, "Pyroblast", 12},
	{42914, ClassMage, "Ice Lance", 3},
	{42873, ClassMage, "Fire Blast", 11},
	{42940, ClassMage, "Blizzard", 12},

	// Hunter
	{49050, ClassHunter, "Aimed Shot", 9},
	{49052, ClassHunter, "Steady Shot", 4},
	{49045, ClassHunter, "Arcane Shot", 11},
	{49001, ClassHunter, "Serpent Sting", 12},
	{60053, ClassHunter, "Explosive Shot", 4},
	{53209, ClassHunter, "Chimera Shot", 1},
	{58434, ClassHunter, "Volley", 6},
	{49048, ClassHunter, "Multi-Shot", 8},

	// Death Knight
	{49895, ClassDeathKnight, "Death Coil", 5},
	{49909, ClassDeathKnight, "Icy Touch", 5},
	{49921, ClassDeathKnight, "Plague Strike", 6},
	{49924, ClassDeathKnight, "Death Strike", 5},
	{49930, ClassDeathKnight, "Blood Strike", 6},
	{51425, ClassDeathKnight, "Obliterate", 4},
	{55268, ClassDeathKnight, "Frost Strike", 6},
	{55271, ClassDeathKnight, "Scourge Strike", 4},
}

// SpellIndex resolves spell ids to catalog entries.
type SpellIndex struct {
	byID map[int]Spell
}

// NewSpellIndex builds the index over the static catalog.
func NewSpellIndex() *SpellIndex {
	idx := &SpellIndex{byID: make(map[int]Spell, len(spellList))}
	for _, s := range spellList {
		idx.byID[s.ID] = s
	}
	return idx
}

// Lookup returns the catalog entry for a spell id.
func (idx *SpellIndex) Lookup(id int) (Spell, bool) {
	s, ok := idx.byID[id]
	return s, ok
}

// Rank returns the rank of a cataloged spell, or 0 when the spell is not
// in the catalog.
func (idx *SpellIndex) Rank(id int) int {
	return idx.byID[id].Rank
}
