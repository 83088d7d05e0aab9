// Package catalog holds the static game data the analysis engine is
// keyed against: the spell catalog, player classes and the raid
// encounter tables.
package catalog

// Class identifies the controlling class of a combat log actor.
type Class int

// Actor classes. The non-player kinds share the enum so every actor in
// the log resolves to exactly one class.
const (
	ClassUnknown Class = iota
	ClassWarrior
	ClassDruid
	ClassWarlock
	ClassShaman
	ClassPaladin
	ClassPriest
	ClassRogue
	ClassMage
	ClassHunter
	ClassDeathKnight
	ClassNPC
	ClassPet
	ClassEnvironment
	ClassVehicle
)

var classNames = map[Class]string{
	ClassUnknown:     "Unknown",
	ClassWarrior:     "Warrior",
	ClassDruid:       "Druid",
	ClassWarlock:     "Warlock",
	ClassShaman:      "Shaman",
	ClassPaladin:     "Paladin",
	ClassPriest:      "Priest",
	ClassRogue:       "Rogue",
	ClassMage:        "Mage",
	ClassHunter:      "Hunter",
	ClassDeathKnight: "Death Knight",
	ClassNPC:         "NPC",
	ClassPet:         "Pet",
	ClassEnvironment: "Environment",
	ClassVehicle:     "Vehicle",
}

var classByName = func() map[string]Class {
	m := make(map[string]Class, len(classNames))
	for c, name := range classNames {
		m[name] = c
	}
	return m
}()

// String returns the display name of the class.
func (c Class) String() string {
	if name, ok := classNames[c]; ok {
		return name
	}
	return "Unknown"
}

// ClassForName resolves a display name back to a class.
func ClassForName(name string) Class {
	if c, ok := classByName[name]; ok {
		return c
	}
	return ClassUnknown
}

// IsPlayer reports whether the class belongs to a player character
// rather than an NPC, pet, vehicle or the world itself.
func (c Class) IsPlayer() bool {
	switch c {
	case ClassUnknown, ClassNPC, ClassPet, ClassEnvironment, ClassVehicle:
		return false
	}
	return true
}

// The high nibbles of a unit UID carry the unit kind.
const (
	unitKindMask uint64 = 0x00F0000000000000

	unitKindPlayer  uint64 = 0x0000000000000000
	unitKindNPC     uint64 = 0x0030000000000000
	unitKindPet     uint64 = 0x0040000000000000
	unitKindVehicle uint64 = 0x0050000000000000
)

// IsPlayerUnit reports whether the UID value belongs to a player.
func IsPlayerUnit(unitType uint64) bool {
	return unitType&unitKindMask == unitKindPlayer
}

// ClassForUnitKind maps the UID kind nibbles of a non-player unit to its
// class. Player units resolve to ClassUnknown here; their class comes
// from the spells they cast.
func ClassForUnitKind(unitType uint64) Class {
	switch unitType & unitKindMask {
	case unitKindNPC:
		return ClassNPC
	case unitKindPet:
		return ClassPet
	case unitKindVehicle:
		return ClassVehicle
	}
	return ClassUnknown
}
