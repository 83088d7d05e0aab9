package event

import (
	"errors"
	"strings"
	"testing"
)

// healLine is a well formed direct heal with 15 fields.
const healLine = `4/3 21:14:06.553  SPELL_HEAL,0x0100000000BD93A1,"Moonweaver",0x511,0x0100000000C0FFEE,"Thornpaw",0x511,48782,"Holy Light",0x2,5000,1200,1`

func decodeLine(t *testing.T, line string, year int) (*Event, error) {
	t.Helper()
	tokens, err := Tokenize(line)
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	return Decode(tokens, year)
}

func TestDecode_Heal(t *testing.T) {
	e, err := decodeLine(t, healLine, 2009)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if e.Type != TypeSpellHeal {
		t.Errorf("Type = %v, want TypeSpellHeal", e.Type)
	}
	if e.SourceName != "Moonweaver" || e.TargetName != "Thornpaw" {
		t.Errorf("names = %q -> %q", e.SourceName, e.TargetName)
	}
	if e.SourceFlags != 0x511 {
		t.Errorf("SourceFlags = %#x, want 0x511", e.SourceFlags)
	}
	if e.Timestamp.Year != 2009 || e.Timestamp.Month != 4 || e.Timestamp.Millis != 553 {
		t.Errorf("Timestamp = %+v", e.Timestamp)
	}

	heal, ok := e.Payload.(*Heal)
	if !ok {
		t.Fatalf("payload type = %T, want *Heal", e.Payload)
	}
	if heal.SpellID != 48782 || heal.SpellName != "Holy Light" {
		t.Errorf("spell = %d %q", heal.SpellID, heal.SpellName)
	}
	if heal.School != SchoolHoly {
		t.Errorf("School = %v, want SchoolHoly", heal.School)
	}
	if heal.Amount != 5000 || heal.Overheal != 1200 || !heal.Critical {
		t.Errorf("amounts = %d/%d crit=%v", heal.Amount, heal.Overheal, heal.Critical)
	}
}

func TestDecode_SpellDamage(t *testing.T) {
	line := `4/3 21:15:00.001  SPELL_DAMAGE,0x0100000000BD93A1,"Moonweaver",0x511,0xF1300070BC00001A,"Sartharion",0x10a48,53195,"Starfall",0x40,2150,300,0x40,55,0,1,1,nil,nil`
	e, err := decodeLine(t, line, 2009)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dmg, ok := e.Payload.(*SpellDamage)
	if !ok {
		t.Fatalf("payload type = %T, want *SpellDamage", e.Payload)
	}
	if dmg.SpellID != 53195 || dmg.School != SchoolArcane {
		t.Errorf("spell = %d school %v", dmg.SpellID, dmg.School)
	}
	if dmg.Amount != 2150 || dmg.Overkill != 300 {
		t.Errorf("amounts = %d/%d", dmg.Amount, dmg.Overkill)
	}
	if dmg.Resist != 55 || dmg.Block != 0 {
		t.Errorf("resist/block = %d/%d", dmg.Resist, dmg.Block)
	}
	if !dmg.Absorbed || !dmg.Critical {
		t.Errorf("absorbed=%v critical=%v, want both true", dmg.Absorbed, dmg.Critical)
	}
	if dmg.Glancing || dmg.Crushing {
		t.Errorf("glancing=%v crushing=%v, want both false", dmg.Glancing, dmg.Crushing)
	}
}

func TestDecode_TooFewEnvelopeTokens(t *testing.T) {
	_, err := decodeLine(t, "4/3 21:14:06.553 SPELL_HEAL,a,b,0x0", 2009)
	if !errors.Is(err, ErrInvalidEvent) {
		t.Fatalf("err = %v, want ErrInvalidEvent", err)
	}
}

func TestDecode_UnknownEventName(t *testing.T) {
	line := `4/3 21:14:06.553  SPELL_BUILDING_DAMAGE,a,"A",0x0,b,"B",0x0,1,2,3`
	_, err := decodeLine(t, line, 2009)
	if !errors.Is(err, ErrUnknownEvent) {
		t.Fatalf("err = %v, want ErrUnknownEvent", err)
	}
}

func TestDecode_ShortPayloadInvalid(t *testing.T) {
	// Heal line missing its critical flag.
	line := `4/3 21:14:06.553  SPELL_HEAL,a,"A",0x0,b,"B",0x0,48782,"Holy Light",0x2,5000,1200`
	_, err := decodeLine(t, line, 2009)
	if !errors.Is(err, ErrInvalidEvent) {
		t.Fatalf("err = %v, want ErrInvalidEvent", err)
	}
}

func TestDecode_BadSchoolCodeInvalid(t *testing.T) {
	line := `4/3 21:14:06.553  SPELL_HEAL,a,"A",0x0,b,"B",0x0,48782,"Holy Light",0x7f,5000,1200,1`
	_, err := decodeLine(t, line, 2009)
	if !errors.Is(err, ErrInvalidEvent) {
		t.Fatalf("err = %v, want ErrInvalidEvent", err)
	}
}

func TestDedupKey_Deterministic(t *testing.T) {
	a, err := decodeLine(t, healLine, 2009)
	if err != nil {
		t.Fatal(err)
	}
	b, err := decodeLine(t, healLine, 2009)
	if err != nil {
		t.Fatal(err)
	}

	if a.DedupKey() != b.DedupKey() {
		t.Errorf("keys differ for identical lines:\n%s\n%s", a.DedupKey(), b.DedupKey())
	}
}

func TestDedupKey_DistinguishesAmounts(t *testing.T) {
	a, err := decodeLine(t, healLine, 2009)
	if err != nil {
		t.Fatal(err)
	}
	b, err := decodeLine(t, strings.Replace(healLine, "5000", "5001", 1), 2009)
	if err != nil {
		t.Fatal(err)
	}

	if a.DedupKey() == b.DedupKey() {
		t.Error("keys collide for different heal amounts")
	}
}

func TestNormalizeUID_Ulduar(t *testing.T) {
	uid := "0x01800000003F210A"

	if got := normalizeUID(uid); got != "0x00000000003F210A" {
		t.Errorf("normalizeUID = %q", got)
	}
	if got := normalizeUID("0x0100000000BD93A1"); got != "0x0100000000BD93A1" {
		t.Errorf("standard UID rewritten to %q", got)
	}
}

func TestUnitID(t *testing.T) {
	// Template id 28860 (0x70BC) embedded in the UID.
	if got := UnitID("0xF1300070BC00001A"); got != 28860 {
		t.Errorf("UnitID = %d, want 28860", got)
	}
	if got := UnitID("short"); got != 0 {
		t.Errorf("UnitID on short UID = %d, want 0", got)
	}
}

func TestDecode_SwingAndEnvironmental(t *testing.T) {
	swing := `4/3 21:15:01.200  SWING_DAMAGE,0x0100000000BD93A1,"Moonweaver",0x511,0xF1300070BC00001A,"Sartharion",0x10a48,450,0,1,0,0,nil,nil,nil,nil`
	e, err := decodeLine(t, swing, 2009)
	if err != nil {
		t.Fatalf("swing: %v", err)
	}
	sd, ok := e.Payload.(*SwingDamage)
	if !ok {
		t.Fatalf("payload type = %T, want *SwingDamage", e.Payload)
	}
	if sd.Amount != 450 || sd.School != SchoolPhysical {
		t.Errorf("swing = %+v", sd)
	}

	env := `4/3 21:15:02.000  ENVIRONMENTAL_DAMAGE,0x0000000000000000,nil,0x80000000,0x0100000000BD93A1,"Moonweaver",0x511,FALLING,1200,0,1,0,0,nil,nil,nil,nil`
	e, err = decodeLine(t, env, 2009)
	if err != nil {
		t.Fatalf("environmental: %v", err)
	}
	ed, ok := e.Payload.(*EnvironmentalDamage)
	if !ok {
		t.Fatalf("payload type = %T, want *EnvironmentalDamage", e.Payload)
	}
	if ed.DamageType != "FALLING" || ed.Amount != 1200 {
		t.Errorf("environmental = %+v", ed)
	}
}
