package types

type memoryEntry struct {
	record Record
	modKey ModKey
}

// memoryLinkCache resolves records from mods that are already decoded.
type memoryLinkCache struct {
	winners map[FormKey]memoryEntry
}

// NewMemoryLinkCache indexes the enabled, present mods of lo. Later mods
// win. The index is built once; records added to the mods afterwards are
// not seen.
func NewMemoryLinkCache(lo LoadOrder) LinkCache {
	c := &memoryLinkCache{winners: make(map[FormKey]memoryEntry)}
	for _, m := range lo.EnabledMods() {
		for _, r := range m.Records() {
			c.winners[r.Key()] = memoryEntry{record: r, modKey: m.ModKey}
		}
	}
	return c
}

// Lookup implements LinkCache.
func (c *memoryLinkCache) Lookup(key FormKey) (Record, ModKey, error) {
	e, ok := c.winners[key]
	if !ok {
		return nil, "", ErrNotFound
	}
	return e.record, e.modKey, nil
}
