package event

// Type identifies a combat log event variant.
type Type int

// Combat log event variants. TypeUnknown marks a structurally sound line
// whose event name is not in the catalog.
const (
	TypeUnknown Type = iota
	TypeDamageShield
	TypeDamageShieldMissed
	TypeDamageSplit
	TypeEnchantApplied
	TypeEnchantRemoved
	TypePartyKill
	TypeUnitDied
	TypeUnitDestroyed
	TypeEnvironmentalDamage
	TypeRangeDamage
	TypeRangeMissed
	TypeSpellAuraApplied
	TypeSpellAuraAppliedDose
	TypeSpellAuraBroken
	TypeSpellAuraBrokenSpell
	TypeSpellAuraRefresh
	TypeSpellAuraRemoved
	TypeSpellAuraRemovedDose
	TypeSpellCastFailed
	TypeSpellCastStart
	TypeSpellCastSuccess
	TypeSpellCreate
	TypeSpellDamage
	TypeSpellDispel
	TypeSpellDispelFailed
	TypeSpellEnergize
	TypeSpellExtraAttacks
	TypeSpellHeal
	TypeSpellInstakill
	TypeSpellInterrupt
	TypeSpellLeech
	TypeSpellMissed
	TypeSpellResurrect
	TypeSpellStolen
	TypeSpellSummon
	TypeSpellPeriodicDamage
	TypeSpellPeriodicEnergize
	TypeSpellPeriodicHeal
	TypeSpellPeriodicMissed
	TypeSwingDamage
	TypeSwingMissed
)

// typeNames maps wire event names to variants.
var typeNames = map[string]Type{
	"DAMAGE_SHIELD":           TypeDamageShield,
	"DAMAGE_SHIELD_MISSED":    TypeDamageShieldMissed,
	"DAMAGE_SPLIT":            TypeDamageSplit,
	"ENCHANT_APPLIED":         TypeEnchantApplied,
	"ENCHANT_REMOVED":         TypeEnchantRemoved,
	"PARTY_KILL":              TypePartyKill,
	"UNIT_DIED":               TypeUnitDied,
	"UNIT_DESTROYED":          TypeUnitDestroyed,
	"ENVIRONMENTAL_DAMAGE":    TypeEnvironmentalDamage,
	"RANGE_DAMAGE":            TypeRangeDamage,
	"RANGE_MISSED":            TypeRangeMissed,
	"SPELL_AURA_APPLIED":      TypeSpellAuraApplied,
	"SPELL_AURA_APPLIED_DOSE": TypeSpellAuraAppliedDose,
	"SPELL_AURA_BROKEN":       TypeSpellAuraBroken,
	"SPELL_AURA_BROKEN_SPELL": TypeSpellAuraBrokenSpell,
	"SPELL_AURA_REFRESH":      TypeSpellAuraRefresh,
	"SPELL_AURA_REMOVED":      TypeSpellAuraRemoved,
	"SPELL_AURA_REMOVED_DOSE": TypeSpellAuraRemovedDose,
	"SPELL_CAST_FAILED":       TypeSpellCastFailed,
	"SPELL_CAST_START":        TypeSpellCastStart,
	"SPELL_CAST_SUCCESS":      TypeSpellCastSuccess,
	"SPELL_CREATE":            TypeSpellCreate,
	"SPELL_DAMAGE":            TypeSpellDamage,
	"SPELL_DISPEL":            TypeSpellDispel,
	"SPELL_DISPEL_FAILED":     TypeSpellDispelFailed,
	"SPELL_ENERGIZE":          TypeSpellEnergize,
	"SPELL_EXTRA_ATTACKS":     TypeSpellExtraAttacks,
	"SPELL_HEAL":              TypeSpellHeal,
	"SPELL_INSTAKILL":         TypeSpellInstakill,
	"SPELL_INTERRUPT":         TypeSpellInterrupt,
	"SPELL_LEECH":             TypeSpellLeech,
	"SPELL_MISSED":            TypeSpellMissed,
	"SPELL_RESURRECT":         TypeSpellResurrect,
	"SPELL_STOLEN":            TypeSpellStolen,
	"SPELL_SUMMON":            TypeSpellSummon,
	"SPELL_PERIODIC_DAMAGE":   TypeSpellPeriodicDamage,
	"SPELL_PERIODIC_ENERGIZE": TypeSpellPeriodicEnergize,
	"SPELL_PERIODIC_HEAL":     TypeSpellPeriodicHeal,
	"SPELL_PERIODIC_MISSED":   TypeSpellPeriodicMissed,
	"SWING_DAMAGE":            TypeSwingDamage,
	"SWING_MISSED":            TypeSwingMissed,
}

var typeStrings = func() map[Type]string {
	m := make(map[Type]string, len(typeNames))
	for name, t := range typeNames {
		m[t] = name
	}
	return m
}()

// String returns the wire name of the variant.
func (t Type) String() string {
	if s, ok := typeStrings[t]; ok {
		return s
	}
	return "UNKNOWN"
}

// TypeForName resolves a wire event name, returning TypeUnknown when the
// name is not cataloged.
func TypeForName(name string) Type {
	if t, ok := typeNames[name]; ok {
		return t
	}
	return TypeUnknown
}

// SpellSchool identifies a magic school.
type SpellSchool int

// Spell schools, in catalog order.
const (
	SchoolPhysical SpellSchool = iota + 1
	SchoolHoly
	SchoolFire
	SchoolNature
	SchoolFrost
	SchoolFrostfire
	SchoolFroststorm
	SchoolShadow
	SchoolShadowstorm
	SchoolArcane
)

// spellSchoolCodes maps the hex mask field carried on spell events to a
// school. Composite masks collapse onto their cataloged school.
var spellSchoolCodes = map[string]SpellSchool{
	"0x0":  SchoolPhysical,
	"0x1":  SchoolPhysical,
	"0x2":  SchoolHoly,
	"0x4":  SchoolFire,
	"0x5":  SchoolPhysical,
	"0x8":  SchoolNature,
	"0x9":  SchoolPhysical,
	"0x10": SchoolFrost,
	"0x14": SchoolFrostfire,
	"0x18": SchoolFroststorm,
	"0x20": SchoolShadow,
	"0x28": SchoolShadowstorm,
	"0x40": SchoolArcane,
	"0x42": SchoolHoly,
	"0x44": SchoolFire,
	"0x50": SchoolArcane,
}

var spellSchoolNames = map[SpellSchool]string{
	SchoolPhysical:    "Physical",
	SchoolHoly:        "Holy",
	SchoolFire:        "Fire",
	SchoolNature:      "Nature",
	SchoolFrost:       "Frost",
	SchoolFrostfire:   "Frostfire",
	SchoolFroststorm:  "Froststorm",
	SchoolShadow:      "Shadow",
	SchoolShadowstorm: "Shadowstorm",
	SchoolArcane:      "Arcane",
}

// String returns the display name of the school, or "Unknown" for values
// outside the catalog.
func (s SpellSchool) String() string {
	if name, ok := spellSchoolNames[s]; ok {
		return name
	}
	return "Unknown"
}

// SchoolForCode resolves the hex mask field of a spell event. The match is
// an exact string compare against the cataloged codes; anything else fails
// and invalidates the event.
func SchoolForCode(code string) (SpellSchool, bool) {
	s, ok := spellSchoolCodes[code]
	return s, ok
}

// powerTypeNames maps the numeric power type field of energize events to
// a display name.
var powerTypeNames = map[int]string{
	-2: "Health",
	0:  "Mana",
	1:  "Rage",
	2:  "Focus",
	3:  "Energy",
	4:  "Pet Happiness",
	5:  "Runes",
	6:  "Runic Power",
}

// PowerTypeName resolves a numeric power type, returning "Unknown" for
// values outside the catalog.
func PowerTypeName(code int) string {
	if name, ok := powerTypeNames[code]; ok {
		return name
	}
	return "Unknown"
}
