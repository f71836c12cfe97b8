// Package tetromino holds the seven piece kinds, their block layouts and the
// joints that hold each piece together while it falls.
package tetromino

import (
	"fmt"
	"image/color"
	"strings"
)

// Kind identifies one of the seven tetrominoes
type Kind uint8

const (
	I Kind = iota
	O
	T
	J
	L
	S
	Z
)

// Count is the number of kinds
const Count = 7

// Kinds lists every kind in catalog order
var Kinds = [Count]Kind{I, O, T, J, L, S, Z}

// Offset is a block position relative to the spawn cell, in whole blocks
type Offset struct {
	X, Y int
}

// Pair names two jointed blocks by their index in Layout.Blocks
type Pair struct {
	A, B int
}

// Layout is the block arrangement and joint topology of a kind
type Layout struct {
	Blocks [4]Offset
	Joints []Pair
}

var layouts = [Count]Layout{
	I: {
		Blocks: [4]Offset{{1, 1}, {1, 0}, {1, -1}, {1, -2}},
		Joints: []Pair{{0, 1}, {1, 2}, {2, 3}},
	},
	O: {
		Blocks: [4]Offset{{0, 0}, {1, 0}, {1, -1}, {0, -1}},
		// 1-0 repeats 0-1 on purpose.
		Joints: []Pair{{0, 1}, {1, 2}, {2, 3}, {1, 0}},
	},
	T: {
		Blocks: [4]Offset{{0, 0}, {1, 0}, {2, 0}, {1, -1}},
		Joints: []Pair{{0, 1}, {1, 2}, {1, 3}},
	},
	J: {
		Blocks: [4]Offset{{1, 0}, {1, -1}, {1, -2}, {0, -2}},
		Joints: []Pair{{0, 1}, {1, 2}, {2, 3}},
	},
	L: {
		Blocks: [4]Offset{{1, 0}, {1, -1}, {1, -2}, {2, -2}},
		Joints: []Pair{{0, 1}, {1, 2}, {2, 3}},
	},
	S: {
		Blocks: [4]Offset{{0, -1}, {1, -1}, {1, 0}, {2, 0}},
		Joints: []Pair{{0, 1}, {1, 2}, {2, 3}},
	},
	Z: {
		Blocks: [4]Offset{{0, 0}, {1, 0}, {1, -1}, {2, -1}},
		Joints: []Pair{{0, 1}, {1, 2}, {2, 3}},
	},
}

var palette = [Count]color.RGBA{
	I: {0, 244, 243, 255},
	O: {238, 243, 0, 255},
	T: {177, 0, 254, 255},
	J: {27, 0, 250, 255},
	L: {252, 157, 0, 255},
	S: {0, 247, 0, 255},
	Z: {255, 0, 0, 255},
}

var names = [Count]string{"I", "O", "T", "J", "L", "S", "Z"}

// Valid reports whether k is one of the seven kinds
func (k Kind) Valid() bool {
	return k < Count
}

// Layout returns a copy of the kind's layout. Callers may modify the result freely.
func (k Kind) Layout() Layout {
	if !k.Valid() {
		panic(fmt.Sprintf("tetromino: invalid kind %d", k))
	}
	l := layouts[k]
	l.Joints = append([]Pair(nil), l.Joints...)
	return l
}

// Color returns the fill colour used for blocks of this kind
func (k Kind) Color() color.RGBA {
	if !k.Valid() {
		return color.RGBA{128, 128, 128, 255}
	}
	return palette[k]
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", k)
	}
	return names[k]
}

// ParseKind converts a kind letter, in either case, back into a Kind
func ParseKind(s string) (Kind, error) {
	for i, name := range names {
		if strings.EqualFold(s, name) {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("tetromino: unknown kind %q", s)
}

// Source is the part of math/rand/v2.Rand used to pick kinds
type Source interface {
	IntN(n int) int
}

// Random picks a kind uniformly
func Random(src Source) Kind {
	return Kind(src.IntN(Count))
}
