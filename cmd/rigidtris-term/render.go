package main

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/plus3/rigidtris/game"
	"github.com/plus3/rigidtris/tetromino"
)

// One board unit is two columns wide and one row tall, with the origin
// at the centre of the screen.
func cellFor(x, y float64, width, height int) (col, row int) {
	return width/2 + 2*int(math.Floor(x)), height/2 - 1 - int(math.Floor(y))
}

func kindStyle(kind tetromino.Kind) tcell.Style {
	c := kind.Color()
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
}

func drawText(screen tcell.Screen, col, row int, style tcell.Style, text string) {
	for i, r := range []rune(text) {
		screen.SetContent(col+i, row, r, nil, style)
	}
}

func draw(screen tcell.Screen, g *game.Game) {
	screen.Clear()
	width, height := screen.Size()

	b := g.Board()
	floorStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	left, floorRow := cellFor(b.LeftWallX(), b.FloorY()-0.5, width, height)
	for col := left; col < left+2*b.Lanes; col++ {
		screen.SetContent(col, floorRow, '▀', nil, floorStyle)
	}

	for _, block := range g.Blocks() {
		col, row := cellFor(block.Transform.Position.X, block.Transform.Position.Y, width, height)
		if row < 0 || row >= height || col < 0 || col+1 >= width {
			continue
		}
		style := kindStyle(block.Kind)
		if block.Active {
			style = style.Bold(true)
		}
		screen.SetContent(col, row, '█', nil, style)
		screen.SetContent(col+1, row, '█', nil, style)
	}

	stats := g.Stats()
	drawText(screen, 0, 0, tcell.StyleDefault, fmt.Sprintf("health %3.0f%%  cleared %d  lost %d",
		math.Max(g.HealthBar(), 0)*100, stats.ClearedBlocks, stats.LostBlocks))
	if g.Over() {
		drawText(screen, 0, 1, tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true), "GAME OVER - r restarts, q quits")
	}

	screen.Show()
}
