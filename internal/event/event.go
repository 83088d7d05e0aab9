package event

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Decode errors. A line that is structurally broken is invalid; a line
// that is well formed but names an uncataloged event is merely unknown,
// and the two are counted separately upstream.
var (
	ErrInvalidEvent = errors.New("invalid combat log event")
	ErrUnknownEvent = errors.New("unknown combat log event")
)

// envelopeTokens is the fixed prefix every event shares: date, time,
// event name, then uid, name and flags for both source and target.
const envelopeTokens = 9

// Event is one fully decoded combat log line.
type Event struct {
	Type      Type
	Timestamp Timestamp

	SourceUID      string
	SourceName     string
	SourceFlags    uint32
	SourceUnitType uint64

	TargetUID      string
	TargetName     string
	TargetFlags    uint32
	TargetUnitType uint64

	Payload Payload
}

// Decode assembles an Event from the tokenized fields of a log line,
// using year for the timestamp's missing year component.
func Decode(tokens []string, year int) (*Event, error) {
	if len(tokens) < envelopeTokens {
		return nil, ErrInvalidEvent
	}

	t := TypeForName(tokens[2])
	if t == TypeUnknown {
		return nil, ErrUnknownEvent
	}

	payload := decodePayload(t, tokens)
	if payload == nil {
		return nil, ErrInvalidEvent
	}

	e := &Event{
		Type:       t,
		SourceUID:  normalizeUID(tokens[3]),
		SourceName: tokens[4],
		TargetUID:  normalizeUID(tokens[6]),
		TargetName: tokens[7],
		Payload:    payload,
	}

	e.SourceFlags = parseFlags(tokens[5])
	e.TargetFlags = parseFlags(tokens[8])
	e.SourceUnitType = parseUnitType(e.SourceUID)
	e.TargetUnitType = parseUnitType(e.TargetUID)

	ts, err := ParseTimestamp(tokens[0], tokens[1], year)
	if err != nil {
		return nil, ErrInvalidEvent
	}
	e.Timestamp = ts

	return e, nil
}

// DedupKey renders the stable identity of the event: its timestamp and
// envelope joined with the fingerprint of the variant fields. Two lines
// produce the same key only when they describe the same occurrence.
func (e *Event) DedupKey() string {
	return fmt.Sprintf("/%04d/%02d/%02d/%02d/%02d/%02d/%04d/%02d/%s/%s/%s/%s/%s",
		e.Timestamp.Year, e.Timestamp.Month, e.Timestamp.Day,
		e.Timestamp.Hour, e.Timestamp.Minute, e.Timestamp.Second,
		e.Timestamp.Millis, e.Type, e.SourceUID, e.SourceName,
		e.TargetUID, e.TargetName, e.Payload.fingerprint())
}

// SpellID returns the casting spell carried by the payload, or 0 for
// variants without one.
func (e *Event) SpellID() int {
	switch p := e.Payload.(type) {
	case *SpellDamage:
		return p.SpellID
	case *SpellMissed:
		return p.SpellID
	case *Aura:
		return p.SpellID
	case *AuraDose:
		return p.SpellID
	case *AuraBrokenSpell:
		return p.SpellID
	case *CastFailed:
		return p.SpellID
	case *SpellInfo:
		return p.SpellID
	case *Dispel:
		return p.SpellID
	case *DispelFailed:
		return p.SpellID
	case *Energize:
		return p.SpellID
	case *ExtraAttacks:
		return p.SpellID
	case *Heal:
		return p.SpellID
	case *Interrupt:
		return p.SpellID
	}
	return 0
}

// normalizeUID canonicalizes a unit UID. Ulduar-era logs emit siege
// vehicle UIDs under an alternate 0x0180 prefix; those are folded back
// onto the standard 0x0000 prefix so the same unit always carries one
// UID.
func normalizeUID(uid string) string {
	if len(uid) >= 17 && strings.HasPrefix(uid, "0x0180") {
		return uid[:3] + "00" + uid[5:]
	}
	return uid
}

// UnitID extracts the numeric unit template id embedded in a UID. For
// NPCs this identifies the creature across spawns.
func UnitID(uid string) int {
	if len(uid) < 12 {
		return 0
	}
	v, err := strconv.ParseUint(uid[5:12], 16, 32)
	if err != nil {
		return 0
	}
	return int(v)
}

// parseFlags reads the hex flags field of the envelope.
func parseFlags(token string) uint32 {
	v, err := strconv.ParseUint(strings.TrimPrefix(token, "0x"), 16, 32)
	if err != nil {
		return 0
	}
	return uint32(v)
}

// parseUnitType reads the full UID value, whose high nibbles carry the
// unit kind.
func parseUnitType(uid string) uint64 {
	v, err := strconv.ParseUint(strings.TrimPrefix(uid, "0x"), 16, 64)
	if err != nil {
		return 0
	}
	return v
}
