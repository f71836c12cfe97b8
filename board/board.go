// Package board converts lane and row indices into world coordinates.
//
// World coordinates are in block units with the origin at the centre of the
// board and y pointing up. Front ends scale them by a pixel size per block.
package board

import (
	"errors"
	"fmt"
	"math"
)

// FloorHeight is the height of the static floor body, in blocks
const FloorHeight = 2

// Config is the size of the playing field
type Config struct {
	Lanes int `toml:"lanes" yaml:"lanes"`
	Rows  int `toml:"rows" yaml:"rows"`
}

// Default returns the classic 10x20 board
func Default() Config {
	return Config{Lanes: 10, Rows: 20}
}

var ErrInvalidSize = errors.New("board: lanes and rows must be positive")

// Validate rejects boards that cannot hold a piece
func (c Config) Validate() error {
	if c.Lanes <= 0 || c.Rows <= 0 {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidSize, c.Lanes, c.Rows)
	}
	return nil
}

// FloorY is the y coordinate of the top of the floor
func (c Config) FloorY() float64 {
	return -float64(c.Rows) * 0.5
}

// LeftWallX is the x coordinate of the left edge of lane 0
func (c Config) LeftWallX() float64 {
	return -float64(c.Lanes) * 0.5
}

// BlockCenter returns the world position of the centre of a cell
func (c Config) BlockCenter(lane, row int) (x, y float64) {
	return c.LeftWallX() + float64(lane) + 0.5, c.FloorY() + float64(row) + 0.5
}

// SpawnCell maps a layout offset to the cell it occupies when a piece spawns
// near the top centre of the board.
func (c Config) SpawnCell(x, y int) (lane, row int) {
	return c.Lanes/2 - 1 + x, c.Rows - 1 + y
}

// RowAt returns the row whose band contains y. The result may be outside
// [0, Rows); use HasRow to check.
func (c Config) RowAt(y float64) int {
	return int(math.Floor(y - c.FloorY()))
}

// HasRow reports whether row is on the board
func (c Config) HasRow(row int) bool {
	return row >= 0 && row < c.Rows
}

// FloorCenter is the position of the static floor body, whose top edge sits at FloorY
func (c Config) FloorCenter() (x, y float64) {
	return 0, c.FloorY() - FloorHeight/2.0
}

// FloorHalfExtents is half the size of the floor collider
func (c Config) FloorHalfExtents() (hx, hy float64) {
	return float64(c.Lanes) / 2, FloorHeight / 2.0
}
