package stats

import (
	"errors"
	"sort"

	"github.com/raidtally/raidtally/internal/track"
)

// ErrDuplicateCollision marks a duplicate event landing on a summary
// that was built fresh in this run rather than loaded from storage.
var ErrDuplicateCollision = errors.New("duplicate event collides with a fresh summary")

// ParentLookup hydrates the previously persisted summary matching s for
// the given run and realm, typically from the store. It returns an
// error when no parent row exists.
type ParentLookup func(s *Summary, runID string, realmID int) (*Summary, error)

// Entry is one indexed summary along with its persistence state.
type Entry struct {
	// WasUpdated marks a parent entry that has absorbed new events
	// since it was loaded, meaning its stored row needs rewriting.
	WasUpdated bool
	// IsParent marks an entry hydrated from storage rather than built
	// from this run's events.
	IsParent bool
	RunID    string
	RealmID  int
	Summary  *Summary
}

// entityRecord holds every summary line indexed under one entity.
type entityRecord struct {
	entityUID string
	entries   map[string]*Entry
}

// Index is the two-level summary index: entities (casters) on the
// outside, summary keys within each entity. Pet output is additionally
// re-credited to the owning player through the link index.
type Index struct {
	links    *track.LinkIndex
	byEntity map[string]*entityRecord
}

func NewIndex(links *track.LinkIndex) *Index {
	return &Index{
		links:    links,
		byEntity: make(map[string]*entityRecord),
	}
}

func (idx *Index) record(key, entityUID string) *entityRecord {
	if rec, ok := idx.byEntity[key]; ok {
		return rec
	}
	rec := &entityRecord{
		entityUID: entityUID,
		entries:   make(map[string]*Entry),
	}
	idx.byEntity[key] = rec
	return rec
}

func (idx *Index) upsert(rec *entityRecord, key string, s *Summary) error {
	entry, ok := rec.entries[key]
	if !ok {
		rec.entries[key] = &Entry{Summary: s.Clone()}
		return nil
	}
	if err := entry.Summary.Merge(s); err != nil {
		return err
	}
	if entry.IsParent {
		entry.WasUpdated = true
	}
	return nil
}

// Update folds a summary into the index. When the caster is a linked
// pet, a second summary is indexed under the owning player with the
// spell name qualified by the pet's name.
func (idx *Index) Update(s *Summary) error {
	rec := idx.record(s.EntityKey(), s.SourceUID)
	if err := idx.upsert(rec, s.Key(), s); err != nil {
		return err
	}

	link, ok := idx.links.Get(s.SourceUID)
	if !ok {
		return nil
	}

	rec = idx.record(link.OwnerUID, s.SourceUID)

	owned := s.Clone()
	owned.Source = link.OwnerName
	owned.SourceUID = link.OwnerUID
	owned.PrependName(link.PetName)

	return idx.upsert(rec, s.OverrideKey(link.OwnerUID), owned)
}

// UpdateDuplicate handles an event already recorded by an earlier run.
// The stored parent summary is hydrated through lookup and indexed so
// later fresh events merge into it; when no parent exists the summary
// falls back to a plain update.
func (idx *Index) UpdateDuplicate(s *Summary, runID string, realmID int, lookup ParentLookup) error {
	rec := idx.record(s.EntityKey(), s.SourceUID)
	key := s.Key()

	entry, ok := rec.entries[key]
	if ok {
		if !entry.IsParent {
			return ErrDuplicateCollision
		}
		return nil
	}

	parent, err := lookup(s, runID, realmID)
	if err != nil {
		return idx.Update(s)
	}

	rec.entries[key] = &Entry{
		IsParent: true,
		RunID:    runID,
		RealmID:  realmID,
		Summary:  parent,
	}
	return nil
}

// EntityUID returns the unit id recorded when an entity was first
// indexed.
func (idx *Index) EntityUID(entityKey string) (string, bool) {
	rec, ok := idx.byEntity[entityKey]
	if !ok {
		return "", false
	}
	return rec.entityUID, true
}

// Size returns the total number of summary lines across all entities.
func (idx *Index) Size() int {
	n := 0
	for _, rec := range idx.byEntity {
		n += len(rec.entries)
	}
	return n
}

// Entities lists the outer index keys in sorted order.
func (idx *Index) Entities() []string {
	keys := make([]string, 0, len(idx.byEntity))
	for key := range idx.byEntity {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Keys lists the summary keys under one entity in sorted order.
func (idx *Index) Keys(entityKey string) []string {
	rec, ok := idx.byEntity[entityKey]
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(rec.entries))
	for key := range rec.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Entry returns the indexed entry under an entity and summary key.
func (idx *Index) Entry(entityKey, key string) (*Entry, bool) {
	rec, ok := idx.byEntity[entityKey]
	if !ok {
		return nil, false
	}
	entry, ok := rec.entries[key]
	return entry, ok
}

// Get returns the summary under an entity and summary key.
func (idx *Index) Get(entityKey, key string) (*Summary, bool) {
	entry, ok := idx.Entry(entityKey, key)
	if !ok {
		return nil, false
	}
	return entry.Summary, true
}

// Empty reports whether the index holds no summaries at all.
func (idx *Index) Empty() bool {
	return len(idx.byEntity) == 0
}
