package ecs

import (
	"iter"
	"reflect"
)

// ComponentRegistry manages component type registration for an ECS instance.
// Each Storage instance has its own ComponentRegistry, allowing multiple
// independent ECS systems to coexist without interference.
type ComponentRegistry struct {
	factories map[reflect.Type]func() iComponentStorage
}

// NewComponentRegistry creates a new component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		factories: make(map[reflect.Type]func() iComponentStorage),
	}
}

// RegisterComponent registers a new component type with the given registry.
// This must be called for each component type before it can be spawned.
// Singletons do not need registration.
func RegisterComponent[T any](r *ComponentRegistry) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	r.factories[t] = func() iComponentStorage {
		return &genericComponentStorage[T]{}
	}
}

// getFactory returns the factory function for a given component type.
// Returns nil if the type is not registered.
func (r *ComponentRegistry) getFactory(t reflect.Type) func() iComponentStorage {
	return r.factories[t]
}

const genericBlockSize = 64

// genericBlock is one fixed allocation of slots. Blocks are referenced by
// pointer so growing the column never moves components that are already
// handed out.
type genericBlock[T any] struct {
	items  [genericBlockSize]T
	filled [genericBlockSize]bool
}

// genericComponentStorage is a generic implementation of iComponentStorage.
// It stores components of a specific type `T` in blocks.
type genericComponentStorage[T any] struct {
	blocks    []*genericBlock[T]
	freeSlots []int
	nextIndex int
	retired   int
}

func (cs *genericComponentStorage[T]) slot(index int) (*genericBlock[T], int) {
	if index < 0 {
		return nil, 0
	}
	blockIdx := index / genericBlockSize
	if blockIdx >= len(cs.blocks) {
		return nil, 0
	}
	return cs.blocks[blockIdx], index % genericBlockSize
}

// Append adds a component to storage and returns its index.
func (cs *genericComponentStorage[T]) Append(item any) int {
	var concreteItem T
	if ptr, ok := item.(*T); ok {
		concreteItem = *ptr
	} else if val, ok := item.(T); ok {
		concreteItem = val
	} else {
		return -1 // Invalid type
	}

	var index int
	if n := len(cs.freeSlots); n > 0 {
		index = cs.freeSlots[n-1]
		cs.freeSlots = cs.freeSlots[:n-1]
	} else {
		index = cs.nextIndex
		cs.nextIndex++
		if index/genericBlockSize >= len(cs.blocks) {
			cs.blocks = append(cs.blocks, &genericBlock[T]{})
		}
	}

	block, slotIdx := cs.slot(index)
	block.items[slotIdx] = concreteItem
	block.filled[slotIdx] = true
	return index
}

// Get returns a pointer to the component at the given index.
func (cs *genericComponentStorage[T]) Get(index int) any {
	block, slotIdx := cs.slot(index)
	if block == nil || !block.filled[slotIdx] {
		return nil
	}
	return &block.items[slotIdx]
}

// Delete marks a component slot as empty. A retired slot is never handed out again.
func (cs *genericComponentStorage[T]) Delete(index int, retire bool) {
	block, slotIdx := cs.slot(index)
	if block == nil || !block.filled[slotIdx] {
		return
	}

	block.filled[slotIdx] = false
	var zero T
	block.items[slotIdx] = zero
	if retire {
		cs.retired++
		return
	}
	cs.freeSlots = append(cs.freeSlots, index)
}

// Has checks if a component exists at the given index.
func (cs *genericComponentStorage[T]) Has(index int) bool {
	block, slotIdx := cs.slot(index)
	return block != nil && block.filled[slotIdx]
}

// Len returns the number of filled slots.
func (cs *genericComponentStorage[T]) Len() int {
	return cs.nextIndex - len(cs.freeSlots) - cs.retired
}

func (cs *genericComponentStorage[T]) Iter() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := 0; i < cs.nextIndex; i++ {
			block, slotIdx := cs.slot(i)
			if block == nil || !block.filled[slotIdx] {
				continue
			}
			if !yield(i) {
				return
			}
		}
	}
}
