package event

import (
	"fmt"
	"hash/crc32"
)

// Payload carries the variant-specific fields of a decoded event. Each
// payload knows how to render the variant portion of the dedup key.
type Payload interface {
	fingerprint() string
}

// fingerprintOf collapses the joined field values of a payload to the
// decimal rendering of their CRC-32 checksum.
func fingerprintOf(joined string) string {
	return fmt.Sprintf("%d", crc32.ChecksumIEEE([]byte(joined)))
}

// SpellDamage is the payload of the direct, periodic, ranged, shield and
// split damage variants.
type SpellDamage struct {
	SpellID   int
	SpellName string
	School    SpellSchool
	Amount    int
	Overkill  int
	Resist    int
	Block     int
	Absorbed  bool
	Critical  bool
	Glancing  bool
	Crushing  bool
}

func (p *SpellDamage) fingerprint() string {
	return fingerprintOf(fmt.Sprintf("%d/%s/%d/%d/%d/%d/%d/%d/%d/%d/%d/%d",
		p.SpellID, p.SpellName, p.School, p.Amount, p.Overkill, p.School,
		p.Resist, p.Block, boolField(p.Absorbed), boolField(p.Critical),
		boolField(p.Glancing), boolField(p.Crushing)))
}

// SpellMissed is the payload of the spell, ranged, shield and periodic
// miss variants.
type SpellMissed struct {
	SpellID    int
	SpellName  string
	School     SpellSchool
	MissType   string
	MissAmount int
}

func (p *SpellMissed) fingerprint() string {
	return fingerprintOf(fmt.Sprintf("%d/%s/%d/%s/%d",
		p.SpellID, p.SpellName, p.School, p.MissType, p.MissAmount))
}

// Enchant is the payload of the enchant applied and removed variants.
type Enchant struct {
	SpellName string
	ItemID    int
	ItemName  string
}

func (p *Enchant) fingerprint() string {
	return fingerprintOf(fmt.Sprintf("%s/%d/%s",
		p.SpellName, p.ItemID, p.ItemName))
}

// UnitDeath is the placeholder payload of the kill and death variants,
// which carry no fields beyond the envelope.
type UnitDeath struct{}

func (p *UnitDeath) fingerprint() string { return "0" }

// EnvironmentalDamage is the payload of world-sourced damage.
type EnvironmentalDamage struct {
	DamageType string
	Amount     int
	Overkill   int
	School     SpellSchool
	Resist     int
	Block      int
	Absorbed   bool
	Critical   bool
	Glancing   bool
	Crushing   bool
}

func (p *EnvironmentalDamage) fingerprint() string {
	return fingerprintOf(fmt.Sprintf("%s/%d/%d/%d/%d/%d/%d/%d/%d/%d",
		p.DamageType, p.Amount, p.Overkill, p.School, p.Resist, p.Block,
		boolField(p.Absorbed), boolField(p.Critical),
		boolField(p.Glancing), boolField(p.Crushing)))
}

// Aura is the payload of the aura applied, refreshed, broken and removed
// variants.
type Aura struct {
	SpellID   int
	SpellName string
	School    SpellSchool
	AuraType  string
}

func (p *Aura) fingerprint() string {
	return fingerprintOf(fmt.Sprintf("%d/%s/%d/%s",
		p.SpellID, p.SpellName, p.School, p.AuraType))
}

// AuraDose is the payload of the stacking aura variants.
type AuraDose struct {
	SpellID   int
	SpellName string
	School    SpellSchool
	AuraType  string
	Amount    int
}

func (p *AuraDose) fingerprint() string {
	return fingerprintOf(fmt.Sprintf("%d/%s/%d/%s/%d",
		p.SpellID, p.SpellName, p.School, p.AuraType, p.Amount))
}

// AuraBrokenSpell is the payload of an aura broken by another spell.
type AuraBrokenSpell struct {
	SpellID          int
	SpellName        string
	School           SpellSchool
	BreakerSpellID   int
	BreakerSpellName string
	BreakerSchool    SpellSchool
	AuraType         string
}

func (p *AuraBrokenSpell) fingerprint() string {
	return fingerprintOf(fmt.Sprintf("%d/%s/%d/%d/%s/%d/%s",
		p.SpellID, p.SpellName, p.School, p.BreakerSpellID,
		p.BreakerSpellName, p.BreakerSchool, p.AuraType))
}

// CastFailed is the payload of a failed cast.
type CastFailed struct {
	SpellID   int
	SpellName string
	School    SpellSchool
	Reason    string
}

func (p *CastFailed) fingerprint() string {
	return fingerprintOf(fmt.Sprintf("%d/%s/%d/%s",
		p.SpellID, p.SpellName, p.School, p.Reason))
}

// SpellInfo is the payload of variants that carry only the spell triple:
// cast start and success, create, instakill, resurrect and summon.
type SpellInfo struct {
	SpellID   int
	SpellName string
	School    SpellSchool
}

func (p *SpellInfo) fingerprint() string {
	return fingerprintOf(fmt.Sprintf("%d/%s/%d",
		p.SpellID, p.SpellName, p.School))
}

// Dispel is the payload of the dispel and spell-steal variants.
type Dispel struct {
	SpellID         int
	SpellName       string
	School          SpellSchool
	TargetSpellID   int
	TargetSpellName string
	TargetSchool    SpellSchool
	AuraType        string
}

func (p *Dispel) fingerprint() string {
	return fingerprintOf(fmt.Sprintf("%d/%s/%d/%d/%s/%d/%s",
		p.SpellID, p.SpellName, p.School, p.TargetSpellID,
		p.TargetSpellName, p.TargetSchool, p.AuraType))
}

// DispelFailed is the payload of a resisted dispel.
type DispelFailed struct {
	SpellID         int
	SpellName       string
	School          SpellSchool
	TargetSpellID   int
	TargetSpellName string
	TargetSchool    SpellSchool
}

func (p *DispelFailed) fingerprint() string {
	return fingerprintOf(fmt.Sprintf("%d/%s/%d/%d/%s/%d",
		p.SpellID, p.SpellName, p.School, p.TargetSpellID,
		p.TargetSpellName, p.TargetSchool))
}

// Energize is the payload of the energize, periodic energize and leech
// variants.
type Energize struct {
	SpellID     int
	SpellName   string
	School      SpellSchool
	Amount      int
	PowerType   string
	ExtraAmount int
}

func (p *Energize) fingerprint() string {
	return fingerprintOf(fmt.Sprintf("%d/%s/%d/%d/%s/%d",
		p.SpellID, p.SpellName, p.School, p.Amount, p.PowerType,
		p.ExtraAmount))
}

// ExtraAttacks is the payload of granted extra melee attacks.
type ExtraAttacks struct {
	SpellID   int
	SpellName string
	School    SpellSchool
	Amount    int
}

func (p *ExtraAttacks) fingerprint() string {
	return fingerprintOf(fmt.Sprintf("%d/%s/%d/%d",
		p.SpellID, p.SpellName, p.School, p.Amount))
}

// Heal is the payload of the direct and periodic heal variants.
type Heal struct {
	SpellID   int
	SpellName string
	School    SpellSchool
	Amount    int
	Overheal  int
	Critical  bool
}

func (p *Heal) fingerprint() string {
	return fingerprintOf(fmt.Sprintf("%d/%s/%d/%d/%d/%d",
		p.SpellID, p.SpellName, p.School, p.Amount, p.Overheal,
		boolField(p.Critical)))
}

// Interrupt is the payload of an interrupted cast.
type Interrupt struct {
	SpellID         int
	SpellName       string
	School          SpellSchool
	TargetSpellID   int
	TargetSpellName string
	TargetSchool    SpellSchool
}

func (p *Interrupt) fingerprint() string {
	return fingerprintOf(fmt.Sprintf("%d/%s/%d/%d/%s/%d",
		p.SpellID, p.SpellName, p.School, p.TargetSpellID,
		p.TargetSpellName, p.TargetSchool))
}

// SwingDamage is the payload of melee damage.
type SwingDamage struct {
	Amount   int
	Overkill int
	School   SpellSchool
	Resist   int
	Block    int
	Absorbed bool
	Critical bool
	Glancing bool
	Crushing bool
}

func (p *SwingDamage) fingerprint() string {
	return fingerprintOf(fmt.Sprintf("%d/%d/%d/%d/%d/%d/%d/%d/%d",
		p.Amount, p.Overkill, p.School, p.Resist, p.Block,
		boolField(p.Absorbed), boolField(p.Critical),
		boolField(p.Glancing), boolField(p.Crushing)))
}

// SwingMissed is the payload of a missed melee swing.
type SwingMissed struct {
	MissType   string
	MissAmount int
}

func (p *SwingMissed) fingerprint() string {
	return fingerprintOf(fmt.Sprintf("%s/%d", p.MissType, p.MissAmount))
}

// decodePayload parses the variant-specific tokens of a line. A nil
// result marks the line invalid for that variant.
func decodePayload(t Type, tokens []string) Payload {
	switch t {
	case TypeDamageShield, TypeDamageSplit, TypeRangeDamage,
		TypeSpellDamage, TypeSpellPeriodicDamage:
		return decodeSpellDamage(tokens)

	case TypeDamageShieldMissed:
		return decodeSpellMissed(tokens, 13)
	case TypeRangeMissed, TypeSpellMissed:
		return decodeSpellMissed(tokens, 13)
	case TypeSpellPeriodicMissed:
		return decodeSpellMissed(tokens, 12)

	case TypeEnchantApplied, TypeEnchantRemoved:
		if len(tokens) < 12 {
			return nil
		}
		return &Enchant{
			SpellName: tokens[9],
			ItemID:    atoi(tokens[10]),
			ItemName:  tokens[11],
		}

	case TypePartyKill, TypeUnitDied, TypeUnitDestroyed:
		if len(tokens) < 9 {
			return nil
		}
		return &UnitDeath{}

	case TypeEnvironmentalDamage:
		if len(tokens) < 9 {
			return nil
		}
		return &EnvironmentalDamage{
			DamageType: tok(tokens, 9),
			Amount:     atoi(tok(tokens, 10)),
			Overkill:   atoi(tok(tokens, 11)),
			School:     SpellSchool(atoi(tok(tokens, 12))),
			Resist:     atoi(tok(tokens, 13)),
			Block:      atoi(tok(tokens, 14)),
			Absorbed:   flagNonZero(tok(tokens, 15)),
			Critical:   flagOne(tok(tokens, 16)),
			Glancing:   flagOne(tok(tokens, 17)),
			Crushing:   flagOne(tok(tokens, 18)),
		}

	case TypeSpellAuraApplied, TypeSpellAuraBroken,
		TypeSpellAuraRefresh, TypeSpellAuraRemoved:
		if len(tokens) < 13 {
			return nil
		}
		school, ok := SchoolForCode(tokens[11])
		if !ok {
			return nil
		}
		return &Aura{
			SpellID:   atoi(tokens[9]),
			SpellName: tokens[10],
			School:    school,
			AuraType:  tokens[12],
		}

	case TypeSpellAuraAppliedDose, TypeSpellAuraRemovedDose:
		if len(tokens) < 14 {
			return nil
		}
		school, ok := SchoolForCode(tokens[11])
		if !ok {
			return nil
		}
		return &AuraDose{
			SpellID:   atoi(tokens[9]),
			SpellName: tokens[10],
			School:    school,
			AuraType:  tokens[12],
			Amount:    atoi(tokens[13]),
		}

	case TypeSpellAuraBrokenSpell:
		if len(tokens) < 16 {
			return nil
		}
		school, ok := SchoolForCode(tokens[11])
		if !ok {
			return nil
		}
		return &AuraBrokenSpell{
			SpellID:          atoi(tokens[9]),
			SpellName:        tokens[10],
			School:           school,
			BreakerSpellID:   atoi(tokens[12]),
			BreakerSpellName: tokens[13],
			BreakerSchool:    SpellSchool(atoi(tokens[14])),
			AuraType:         tokens[15],
		}

	case TypeSpellCastFailed:
		if len(tokens) < 13 {
			return nil
		}
		school, ok := SchoolForCode(tokens[11])
		if !ok {
			return nil
		}
		return &CastFailed{
			SpellID:   atoi(tokens[9]),
			SpellName: tokens[10],
			School:    school,
			Reason:    tokens[12],
		}

	case TypeSpellCastStart, TypeSpellCastSuccess, TypeSpellCreate,
		TypeSpellInstakill, TypeSpellResurrect, TypeSpellSummon:
		if len(tokens) < 12 {
			return nil
		}
		school, ok := SchoolForCode(tokens[11])
		if !ok {
			return nil
		}
		return &SpellInfo{
			SpellID:   atoi(tokens[9]),
			SpellName: tokens[10],
			School:    school,
		}

	case TypeSpellDispel, TypeSpellStolen:
		if len(tokens) < 16 {
			return nil
		}
		school, ok := SchoolForCode(tokens[11])
		if !ok {
			return nil
		}
		return &Dispel{
			SpellID:         atoi(tokens[9]),
			SpellName:       tokens[10],
			School:          school,
			TargetSpellID:   atoi(tokens[12]),
			TargetSpellName: tokens[13],
			TargetSchool:    SpellSchool(atoi(tokens[14])),
			AuraType:        tokens[15],
		}

	case TypeSpellDispelFailed:
		if len(tokens) < 15 {
			return nil
		}
		school, ok := SchoolForCode(tokens[11])
		if !ok {
			return nil
		}
		return &DispelFailed{
			SpellID:         atoi(tokens[9]),
			SpellName:       tokens[10],
			School:          school,
			TargetSpellID:   atoi(tokens[12]),
			TargetSpellName: tokens[13],
			TargetSchool:    SpellSchool(atoi(tokens[14])),
		}

	case TypeSpellEnergize, TypeSpellPeriodicEnergize, TypeSpellLeech:
		if len(tokens) < 14 {
			return nil
		}
		school, ok := SchoolForCode(tokens[11])
		if !ok {
			return nil
		}
		extra := 0
		if len(tokens) > 14 {
			extra = atoi(tokens[14])
		}
		return &Energize{
			SpellID:     atoi(tokens[9]),
			SpellName:   tokens[10],
			School:      school,
			Amount:      atoi(tokens[12]),
			PowerType:   PowerTypeName(atoi(tokens[13])),
			ExtraAmount: extra,
		}

	case TypeSpellExtraAttacks:
		if len(tokens) < 13 {
			return nil
		}
		school, ok := SchoolForCode(tokens[11])
		if !ok {
			return nil
		}
		return &ExtraAttacks{
			SpellID:   atoi(tokens[9]),
			SpellName: tokens[10],
			School:    school,
			Amount:    atoi(tokens[12]),
		}

	case TypeSpellHeal, TypeSpellPeriodicHeal:
		if len(tokens) < 15 {
			return nil
		}
		school, ok := SchoolForCode(tokens[11])
		if !ok {
			return nil
		}
		return &Heal{
			SpellID:   atoi(tokens[9]),
			SpellName: tokens[10],
			School:    school,
			Amount:    atoi(tokens[12]),
			Overheal:  atoi(tokens[13]),
			Critical:  flagOne(tokens[14]),
		}

	case TypeSpellInterrupt:
		if len(tokens) < 15 {
			return nil
		}
		school, ok := SchoolForCode(tokens[11])
		if !ok {
			return nil
		}
		return &Interrupt{
			SpellID:         atoi(tokens[9]),
			SpellName:       tokens[10],
			School:          school,
			TargetSpellID:   atoi(tokens[12]),
			TargetSpellName: tokens[13],
			TargetSchool:    SpellSchool(atoi(tokens[14])),
		}

	case TypeSwingDamage:
		if len(tokens) < 18 {
			return nil
		}
		return &SwingDamage{
			Amount:   atoi(tokens[9]),
			Overkill: atoi(tokens[10]),
			School:   SpellSchool(atoi(tokens[11])),
			Resist:   atoi(tokens[12]),
			Block:    atoi(tokens[13]),
			Absorbed: flagNonZero(tokens[14]),
			Critical: flagOne(tokens[15]),
			Glancing: flagOne(tokens[16]),
			Crushing: flagOne(tokens[17]),
		}

	case TypeSwingMissed:
		if len(tokens) < 10 {
			return nil
		}
		amount := 0
		if len(tokens) > 10 {
			amount = atoi(tokens[10])
		}
		return &SwingMissed{
			MissType:   tokens[9],
			MissAmount: amount,
		}
	}

	return nil
}

// decodeSpellDamage parses the shared layout of the spell damage family.
func decodeSpellDamage(tokens []string) Payload {
	if len(tokens) < 21 {
		return nil
	}
	school, ok := SchoolForCode(tokens[11])
	if !ok {
		return nil
	}
	return &SpellDamage{
		SpellID:   atoi(tokens[9]),
		SpellName: tokens[10],
		School:    school,
		Amount:    atoi(tokens[12]),
		Overkill:  atoi(tokens[13]),
		Resist:    atoi(tokens[15]),
		Block:     atoi(tokens[16]),
		Absorbed:  flagNonZero(tokens[17]),
		Critical:  flagOne(tokens[18]),
		Glancing:  flagOne(tokens[19]),
		Crushing:  flagOne(tokens[20]),
	}
}

// decodeSpellMissed parses the shared layout of the miss family. The
// trailing amount is optional.
func decodeSpellMissed(tokens []string, minTokens int) Payload {
	if len(tokens) < minTokens {
		return nil
	}
	school, ok := SchoolForCode(tokens[11])
	if !ok {
		return nil
	}
	amount := 0
	if len(tokens) > 13 {
		amount = atoi(tokens[13])
	}
	return &SpellMissed{
		SpellID:    atoi(tokens[9]),
		SpellName:  tokens[10],
		School:     school,
		MissType:   tok(tokens, 12),
		MissAmount: amount,
	}
}

// tok returns tokens[i] or an empty string when the line is short.
func tok(tokens []string, i int) string {
	if i < len(tokens) {
		return tokens[i]
	}
	return ""
}

// atoi reads a leading signed integer, tolerating trailing text.
func atoi(s string) int {
	value := 0
	negative := false
	i := 0
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		negative = s[i] == '-'
		i++
	}
	for ; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			break
		}
		value = value*10 + int(s[i]-'0')
	}
	if negative {
		return -value
	}
	return value
}

// flagNonZero reads the absorbed flag, which is set unless the field
// starts with '0'.
func flagNonZero(s string) bool {
	return len(s) > 0 && s[0] != '0'
}

// flagOne reads a flag field that is set only when it starts with '1'.
func flagOne(s string) bool {
	return len(s) > 0 && s[0] == '1'
}

func boolField(b bool) int {
	if b {
		return 1
	}
	return 0
}
