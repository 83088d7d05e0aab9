// Package stats folds decoded combat log events into per-caster,
// per-spell output summaries and indexes them for reporting and
// persistence.
package stats

import (
	"errors"
	"fmt"

	"github.com/raidtally/raidtally/internal/catalog"
	"github.com/raidtally/raidtally/internal/event"
)

// Kind partitions summaries into their output table.
type Kind int

const (
	KindHealing Kind = 1
	KindDamage  Kind = 2
)

func (k Kind) String() string {
	switch k {
	case KindHealing:
		return "Healing"
	case KindDamage:
		return "Damage"
	}
	return "Unknown"
}

var (
	// ErrNotApplicable marks an event that carries no healing or
	// damage output worth summarizing.
	ErrNotApplicable = errors.New("event is not summarizable")
	// ErrBadEvent marks an event whose payload could not supply a
	// summary record.
	ErrBadEvent = errors.New("event payload does not fit its summary")
	// ErrRecordMismatch marks a merge between summaries of different
	// kinds or spells.
	ErrRecordMismatch = errors.New("summary records do not match")
)

// HealingRecord accumulates one caster's output for one healing spell
// on one target.
type HealingRecord struct {
	SpellID     int
	SpellName   string
	SpellSchool string
	SpellRank   int

	DirectCount    int
	PeriodicCount  int
	HealAmount     int
	OverhealAmount int

	CriticalHealAmount     int
	CriticalOverhealAmount int
	CriticalCount          int
}

// DamageBlock is one conditional slice of a damage record. The amounts
// snapshot the full event amounts whenever the condition held.
type DamageBlock struct {
	Count    int
	Damage   int
	Overkill int
	Resist   int
	Block    int
}

func (b *DamageBlock) set(on bool, damage, overkill, resist, block int) {
	if !on {
		*b = DamageBlock{}
		return
	}
	b.Count = 1
	b.Damage = damage
	b.Overkill = overkill
	b.Resist = resist
	b.Block = block
}

func (b *DamageBlock) add(other DamageBlock) {
	if other.Count <= 0 {
		return
	}
	b.Count += other.Count
	b.Damage += other.Damage
	b.Overkill += other.Overkill
	b.Resist += other.Resist
	b.Block += other.Block
}

// DamageRecord accumulates one caster's output for one damaging spell
// on one target.
type DamageRecord struct {
	SpellID     int
	SpellName   string
	SpellSchool string
	SpellRank   int
	DamageType  string

	DirectCount    int
	PeriodicCount  int
	DamageAmount   int
	OverkillAmount int
	ResistAmount   int
	BlockAmount    int
	MissedCount    int
	MissedAmount   int

	Absorbed DamageBlock
	Critical DamageBlock
	Glancing DamageBlock
	Crushing DamageBlock
}

// Summary is one accumulated healing or damage line: a caster, a
// target, a spell, and the record of everything that spell did between
// the first and last timestamps.
type Summary struct {
	Kind      Kind
	Source    string
	SourceUID string
	Target    string
	TargetUID string

	First event.Timestamp
	Last  event.Timestamp

	// ExtraElapsedSeconds carries activity time folded in from merged
	// summaries beyond the first/last window.
	ExtraElapsedSeconds int

	Healing *HealingRecord
	Damage  *DamageRecord
}

// NewSummary builds a summary from a single event. Events outside the
// healing and damage families return ErrNotApplicable.
func NewSummary(spells *catalog.SpellIndex, e *event.Event) (*Summary, error) {
	s := &Summary{
		Source:    e.SourceName,
		SourceUID: e.SourceUID,
		Target:    e.TargetName,
		TargetUID: e.TargetUID,
		First:     e.Timestamp,
		Last:      e.Timestamp,
	}

	switch e.Type {
	case event.TypeSpellHeal, event.TypeSpellPeriodicHeal, event.TypeSpellLeech:
		s.Kind = KindHealing
		s.Healing = newHealingRecord(spells, e)
		if s.Healing == nil {
			return nil, ErrBadEvent
		}

	case event.TypeDamageShield, event.TypeDamageShieldMissed,
		event.TypeDamageSplit, event.TypeEnvironmentalDamage,
		event.TypeRangeDamage, event.TypeRangeMissed,
		event.TypeSpellDamage, event.TypeSpellPeriodicDamage,
		event.TypeSpellExtraAttacks, event.TypeSpellMissed,
		event.TypeSpellPeriodicMissed, event.TypeSwingDamage,
		event.TypeSwingMissed:
		s.Kind = KindDamage
		s.Damage = newDamageRecord(spells, e)
		if s.Damage == nil {
			return nil, ErrBadEvent
		}

	default:
		return nil, ErrNotApplicable
	}

	return s, nil
}

func newHealingRecord(spells *catalog.SpellIndex, e *event.Event) *HealingRecord {
	switch p := e.Payload.(type) {
	case *event.Heal:
		r := &HealingRecord{
			SpellID:        p.SpellID,
			SpellName:      p.SpellName,
			SpellSchool:    p.School.String(),
			SpellRank:      spells.Rank(p.SpellID),
			HealAmount:     p.Amount,
			OverhealAmount: p.Overheal,
		}
		if e.Type == event.TypeSpellPeriodicHeal {
			r.PeriodicCount = 1
		} else {
			r.DirectCount = 1
		}
		if p.Critical {
			r.CriticalHealAmount = p.Amount
			r.CriticalOverhealAmount = p.Overheal
			r.CriticalCount = 1
		}
		return r

	case *event.Energize:
		// A leech carries its drain amount in the energize layout.
		return &HealingRecord{
			SpellID:     p.SpellID,
			SpellName:   p.SpellName,
			SpellSchool: p.School.String(),
			SpellRank:   spells.Rank(p.SpellID),
			DirectCount: 1,
			HealAmount:  p.Amount,
		}
	}
	return nil
}

func newDamageRecord(spells *catalog.SpellIndex, e *event.Event) *DamageRecord {
	switch p := e.Payload.(type) {
	case *event.SpellDamage:
		r := &DamageRecord{
			SpellID:        p.SpellID,
			SpellName:      p.SpellName,
			SpellSchool:    p.School.String(),
			SpellRank:      spells.Rank(p.SpellID),
			DamageAmount:   p.Amount,
			OverkillAmount: p.Overkill,
			ResistAmount:   p.Resist,
			BlockAmount:    p.Block,
		}
		switch e.Type {
		case event.TypeSpellPeriodicDamage:
			r.PeriodicCount = 1
			r.DamageType = "Spell"
		case event.TypeDamageShield:
			r.DirectCount = 1
			r.DamageType = "Shield"
		case event.TypeDamageSplit:
			r.DirectCount = 1
			r.DamageType = "Split"
		case event.TypeRangeDamage:
			r.DirectCount = 1
			r.DamageType = "Physical"
		default:
			r.DirectCount = 1
			r.DamageType = "Spell"
		}
		r.Absorbed.set(p.Absorbed, p.Amount, p.Overkill, p.Resist, p.Block)
		r.Critical.set(p.Critical, p.Amount, p.Overkill, p.Resist, p.Block)
		r.Glancing.set(p.Glancing, p.Amount, p.Overkill, p.Resist, p.Block)
		r.Crushing.set(p.Crushing, p.Amount, p.Overkill, p.Resist, p.Block)
		return r

	case *event.SpellMissed:
		r := &DamageRecord{
			SpellID:      p.SpellID,
			SpellName:    p.SpellName,
			SpellSchool:  p.School.String(),
			SpellRank:    spells.Rank(p.SpellID),
			MissedCount:  1,
			MissedAmount: p.MissAmount,
		}
		switch e.Type {
		case event.TypeDamageShieldMissed:
			r.DamageType = "Shield"
		case event.TypeRangeMissed:
			r.DamageType = "Physical"
		default:
			r.DamageType = "Spell"
		}
		return r

	case *event.EnvironmentalDamage:
		r := &DamageRecord{
			SpellName:      "Damage",
			SpellSchool:    "Environmental",
			DamageType:     p.DamageType,
			DirectCount:    1,
			DamageAmount:   p.Amount,
			OverkillAmount: p.Overkill,
			ResistAmount:   p.Resist,
			BlockAmount:    p.Block,
		}
		r.Absorbed.set(p.Absorbed, p.Amount, p.Overkill, p.Resist, p.Block)
		r.Critical.set(p.Critical, p.Amount, p.Overkill, p.Resist, p.Block)
		r.Glancing.set(p.Glancing, p.Amount, p.Overkill, p.Resist, p.Block)
		r.Crushing.set(p.Crushing, p.Amount, p.Overkill, p.Resist, p.Block)
		return r

	case *event.ExtraAttacks:
		return &DamageRecord{
			SpellID:      p.SpellID,
			SpellName:    p.SpellName,
			SpellSchool:  p.School.String(),
			SpellRank:    spells.Rank(p.SpellID),
			DamageType:   "Spell",
			DirectCount:  1,
			DamageAmount: p.Amount,
		}

	case *event.SwingDamage:
		r := &DamageRecord{
			SpellName:      "Melee",
			SpellSchool:    "Physical",
			DamageType:     "Physical",
			DirectCount:    1,
			DamageAmount:   p.Amount,
			OverkillAmount: p.Overkill,
			ResistAmount:   p.Resist,
			BlockAmount:    p.Block,
		}
		r.Absorbed.set(p.Absorbed, p.Amount, p.Overkill, p.Resist, p.Block)
		r.Critical.set(p.Critical, p.Amount, p.Overkill, p.Resist, p.Block)
		r.Glancing.set(p.Glancing, p.Amount, p.Overkill, p.Resist, p.Block)
		r.Crushing.set(p.Crushing, p.Amount, p.Overkill, p.Resist, p.Block)
		return r

	case *event.SwingMissed:
		return &DamageRecord{
			SpellName:    "Melee",
			SpellSchool:  "Physical",
			DamageType:   "Physical",
			MissedCount:  1,
			MissedAmount: p.MissAmount,
		}
	}
	return nil
}

// EntityKey identifies the caster the summary is indexed under.
func (s *Summary) EntityKey() string {
	return s.SourceUID
}

// Key uniquely identifies this summary line within its caster.
func (s *Summary) Key() string {
	return s.buildKey("/i", s.SourceUID)
}

// OverrideKey is the key used when the summary is re-credited to
// another caster, typically a pet's owner.
func (s *Summary) OverrideKey(sourceUID string) string {
	return s.buildKey("/p", sourceUID)
}

func (s *Summary) buildKey(prefix, sourceUID string) string {
	switch s.Kind {
	case KindHealing:
		return fmt.Sprintf("%s%d/%s/%s/%d",
			prefix, s.Kind, sourceUID, s.TargetUID, s.Healing.SpellID)
	case KindDamage:
		return fmt.Sprintf("%s%d/%s/%s/%d/%s/%s",
			prefix, s.Kind, sourceUID, s.TargetUID,
			s.Damage.SpellID, s.Damage.SpellName, s.Damage.DamageType)
	}
	return ""
}

// Clone deep-copies the summary. The extra elapsed time does not carry
// over; the clone starts a fresh accumulation window.
func (s *Summary) Clone() *Summary {
	clone := *s
	clone.ExtraElapsedSeconds = 0
	if s.Healing != nil {
		r := *s.Healing
		clone.Healing = &r
	}
	if s.Damage != nil {
		r := *s.Damage
		clone.Damage = &r
	}
	return &clone
}

// PrependName qualifies the spell name with the acting unit, yielding
// names like "Jhuutom: Shadow Bite" on pet-credited summaries.
func (s *Summary) PrependName(sourceName string) {
	switch s.Kind {
	case KindHealing:
		if s.Healing.SpellName == "" {
			s.Healing.SpellName = "Unknown"
		}
		s.Healing.SpellName = fmt.Sprintf("%s: %s", sourceName, s.Healing.SpellName)
	case KindDamage:
		if s.Damage.SpellName == "" {
			s.Damage.SpellName = "Unknown"
		}
		s.Damage.SpellName = fmt.Sprintf("%s: %s", sourceName, s.Damage.SpellName)
	}
}

// Merge folds other into s. Counts and amounts accumulate, and the
// first/last window widens to cover both summaries. Summaries of
// different kinds or spells do not merge.
func (s *Summary) Merge(other *Summary) error {
	if s.Kind != other.Kind {
		return ErrRecordMismatch
	}

	switch s.Kind {
	case KindHealing:
		if err := s.Healing.merge(other.Healing); err != nil {
			return err
		}
	case KindDamage:
		if err := s.Damage.merge(other.Damage); err != nil {
			return err
		}
	default:
		return ErrRecordMismatch
	}

	if other.ExtraElapsedSeconds > 0 {
		s.ExtraElapsedSeconds += other.ExtraElapsedSeconds
	}
	if s.First.Compare(other.First) == event.OrderLess {
		s.First = other.First
	}
	if s.Last.Compare(other.Last) == event.OrderGreater {
		s.Last = other.Last
	}

	return nil
}

func (r *HealingRecord) merge(other *HealingRecord) error {
	if r.SpellID != other.SpellID {
		return ErrRecordMismatch
	}
	if other.DirectCount > 0 {
		r.DirectCount += other.DirectCount
	}
	if other.PeriodicCount > 0 {
		r.PeriodicCount += other.PeriodicCount
	}
	if other.HealAmount > 0 {
		r.HealAmount += other.HealAmount
	}
	if other.OverhealAmount > 0 {
		r.OverhealAmount += other.OverhealAmount
	}
	if other.CriticalCount > 0 {
		r.CriticalHealAmount += other.CriticalHealAmount
		r.CriticalOverhealAmount += other.CriticalOverhealAmount
		r.CriticalCount += other.CriticalCount
	}
	return nil
}

func (r *DamageRecord) merge(other *DamageRecord) error {
	if r.SpellID != other.SpellID {
		return ErrRecordMismatch
	}
	if other.DirectCount > 0 {
		r.DirectCount += other.DirectCount
	}
	if other.PeriodicCount > 0 {
		r.PeriodicCount += other.PeriodicCount
	}
	if other.DamageAmount > 0 {
		r.DamageAmount += other.DamageAmount
	}
	if other.OverkillAmount > 0 {
		r.OverkillAmount += other.OverkillAmount
	}
	if other.ResistAmount > 0 {
		r.ResistAmount += other.ResistAmount
	}
	if other.BlockAmount > 0 {
		r.BlockAmount += other.BlockAmount
	}
	if other.MissedCount > 0 {
		r.MissedCount += other.MissedCount
	}
	if other.MissedAmount > 0 {
		r.MissedAmount += other.MissedAmount
	}
	r.Absorbed.add(other.Absorbed)
	r.Critical.add(other.Critical)
	r.Glancing.add(other.Glancing)
	r.Crushing.add(other.Crushing)
	return nil
}

// ElapsedSeconds is the activity span the summary covers, including
// time folded in from merged summaries.
func (s *Summary) ElapsedSeconds() int {
	return s.Last.ElapsedSeconds(s.First) + s.ExtraElapsedSeconds
}
