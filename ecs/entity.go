package ecs

const (
	indexBits      = 20
	generationBits = 12

	indexMask      = 1<<indexBits - 1
	generationMask = 1<<generationBits - 1

	// MaxEntitiesPerArchetype is the number of slots an archetype can address.
	MaxEntitiesPerArchetype = 1 << indexBits
)

// EntityId encodes the archetype ID (upper 32 bits), the slot generation
// (next 12 bits) and the slot index (lower 20 bits).
//
// The generation of a slot is bumped every time the entity living in it is
// deleted, so an EntityId held after deletion never resolves to whatever
// entity is spawned into the same slot later. After 4095 reuses a slot is
// retired instead of wrapping its generation.
type EntityId uint64

// NewEntityId creates an EntityId from an archetype ID, slot generation and slot index
func NewEntityId(archetypeId uint32, generation uint16, index uint32) EntityId {
	return EntityId(uint64(archetypeId)<<32 |
		uint64(generation&generationMask)<<indexBits |
		uint64(index&indexMask))
}

// ArchetypeId extracts the archetype ID from the entity ID
func (e EntityId) ArchetypeId() uint32 {
	return uint32(e >> 32)
}

// Generation extracts the slot generation from the entity ID
func (e EntityId) Generation() uint16 {
	return uint16(uint64(e)>>indexBits) & generationMask
}

// Index extracts the slot index from the entity ID
func (e EntityId) Index() uint32 {
	return uint32(e) & indexMask
}

// IsZero reports whether the id is the zero value, which never names an entity.
func (e EntityId) IsZero() bool {
	return e == 0
}
