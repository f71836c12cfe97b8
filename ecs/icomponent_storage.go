package ecs

import "iter"

// iComponentStorage is a type-erased column of components. Slot indices are
// stable for the lifetime of the component; freed slots are reused unless
// they were retired.
type iComponentStorage interface {
	Append(item any) int
	Delete(index int, retire bool)
	Get(index int) any
	Has(index int) bool
	Len() int
	Iter() iter.Seq[int]
}
