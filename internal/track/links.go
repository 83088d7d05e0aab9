// Package track follows the live state of a combat log as events stream
// through it: which units are summoned pets of which players, which
// actors are raid members and whether they are alive, and where raid
// encounter boundaries fall.
package track

import (
	"github.com/raidtally/raidtally/internal/event"
)

// PetLink ties a summoned unit back to the player that summoned it, so
// the pet's output can be credited to its owner.
type PetLink struct {
	OwnerUID  string
	OwnerName string
	PetID     int
	PetUID    string
	PetName   string
}

// LinkIndex records pet links observed in the log, keyed by the pet's
// UID. The first observed summon wins; later summons of the same unit
// are ignored.
type LinkIndex struct {
	byPet map[string]*PetLink
}

func NewLinkIndex() *LinkIndex {
	return &LinkIndex{byPet: make(map[string]*PetLink)}
}

// NoteEvent records a pet link when the event is a summon. All other
// event types are ignored.
func (idx *LinkIndex) NoteEvent(e *event.Event) {
	if e.Type != event.TypeSpellSummon {
		return
	}
	if _, ok := idx.byPet[e.TargetUID]; ok {
		return
	}
	idx.byPet[e.TargetUID] = &PetLink{
		OwnerUID:  e.SourceUID,
		OwnerName: e.SourceName,
		PetID:     event.UnitID(e.TargetUID),
		PetUID:    e.TargetUID,
		PetName:   e.TargetName,
	}
}

// Get returns the link for a pet UID.
func (idx *LinkIndex) Get(petUID string) (*PetLink, bool) {
	link, ok := idx.byPet[petUID]
	return link, ok
}

// Links returns every recorded pet link.
func (idx *LinkIndex) Links() []*PetLink {
	links := make([]*PetLink, 0, len(idx.byPet))
	for _, link := range idx.byPet {
		links = append(links, link)
	}
	return links
}
