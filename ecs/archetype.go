package ecs

import (
	"reflect"
	"slices"
)

type byTypeName []reflect.Type

func (a byTypeName) Len() int           { return len(a) }
func (a byTypeName) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byTypeName) Less(i, j int) bool { return a[i].String() < a[j].String() }

// Archetype represents a unique combination of component types
type Archetype struct {
	id       uint32
	types    []reflect.Type
	storages []iComponentStorage

	// generations[slot] is the generation of the entity currently (or last)
	// living in that slot. Zero means the slot was never used.
	generations []uint16
	count       int
}

// NewArchetype creates a new archetype with the given ID and sorted component types
func NewArchetype(id uint32, types []reflect.Type, registry *ComponentRegistry) *Archetype {
	a := &Archetype{
		id:       id,
		types:    types,
		storages: make([]iComponentStorage, len(types)),
	}

	// Initialize storage for each component type
	for idx, typ := range types {
		factory := registry.getFactory(typ)
		if factory == nil {
			panic("component type " + typ.String() + " not registered")
		}
		a.storages[idx] = factory()
	}

	return a
}

// Spawn creates a new entity in this archetype with the given components
// and returns its id.
func (a *Archetype) Spawn(components []any) EntityId {
	storagePos := -1
	for _, comp := range components {
		compType := reflect.TypeOf(comp)
		if compType.Kind() == reflect.Ptr {
			compType = compType.Elem()
		}

		for idx, typ := range a.types {
			if typ == compType {
				storagePos = a.storages[idx].Append(comp)
			}
		}
	}

	if storagePos < 0 {
		panic("archetype spawn without matching components")
	}
	if storagePos >= MaxEntitiesPerArchetype {
		panic("archetype slot limit exceeded")
	}

	for len(a.generations) <= storagePos {
		a.generations = append(a.generations, 0)
	}
	if a.generations[storagePos] == 0 {
		a.generations[storagePos] = 1
	}
	a.count++

	return NewEntityId(a.id, a.generations[storagePos], uint32(storagePos))
}

// Alive reports whether id names an entity that currently lives in this archetype.
func (a *Archetype) Alive(id EntityId) bool {
	if id.ArchetypeId() != a.id {
		return false
	}
	slot := int(id.Index())
	if slot >= len(a.generations) || a.generations[slot] != id.Generation() {
		return false
	}
	return len(a.storages) > 0 && a.storages[0].Has(slot)
}

// GetComponent returns the component of the given type for the entity,
// or nil if the entity is gone or has no such component.
func (a *Archetype) GetComponent(id EntityId, compType reflect.Type) any {
	if !a.Alive(id) {
		return nil
	}

	idx := a.storageIndex(compType)
	if idx == -1 {
		return nil
	}

	return a.storages[idx].Get(int(id.Index()))
}

func (a *Archetype) storageIndex(compType reflect.Type) int {
	for i, typ := range a.types {
		if typ == compType {
			return i
		}
	}
	return -1
}

// Delete removes the entity's components and retires its id.
// Returns false if the id was already stale.
func (a *Archetype) Delete(id EntityId) bool {
	if !a.Alive(id) {
		return false
	}

	slot := int(id.Index())

	// A slot whose generation would wrap is retired, so no id it handed out
	// can ever match a later occupant.
	next := (a.generations[slot] + 1) & generationMask
	retire := next == 0
	for _, storage := range a.storages {
		storage.Delete(slot, retire)
	}
	if !retire {
		a.generations[slot] = next
	}
	a.count--
	return true
}

// HasComponent checks if this archetype has the given component type
func (a *Archetype) HasComponent(compType reflect.Type) bool {
	return slices.Contains(a.types, compType)
}

// ID returns the archetype's unique identifier
func (a *Archetype) ID() uint32 {
	return a.id
}

// Types returns the sorted component types for this archetype
func (a *Archetype) Types() []reflect.Type {
	return a.types
}

// Len returns the number of live entities in this archetype
func (a *Archetype) Len() int {
	return a.count
}

// idAt builds the current id of the entity living in slot.
func (a *Archetype) idAt(slot int) EntityId {
	return NewEntityId(a.id, a.generations[slot], uint32(slot))
}

// Iter returns an iterator over all live EntityIds in this archetype
func (a *Archetype) Iter() func(yield func(EntityId) bool) {
	return func(yield func(EntityId) bool) {
		if len(a.storages) == 0 {
			return
		}

		for slot := range a.storages[0].Iter() {
			if !yield(a.idAt(slot)) {
				return
			}
		}
	}
}
