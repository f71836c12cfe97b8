package ebiten_test

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/rigidtris/game"
	debugui_ebiten "github.com/plus3/rigidtris/game/debugui/ebiten"
	"github.com/plus3/rigidtris/physics/chipmunk"
)

// App implements ebiten.Game and draws the debug overlay over the game.
type App struct {
	game  *game.Game
	imgui *debugui_ebiten.ImguiBackend
}

func (a *App) Update() error {
	a.game.Tick(1.0/60.0, game.Controls{})

	// Begins and ends the ImGui frame around the overlay panels
	a.imgui.Update(1.0 / 60.0)
	return nil
}

func (a *App) Draw(screen *ebiten.Image) {
	// Draw game content to screen
	// ...

	// Draw ImGui overlay on top
	a.imgui.Draw(screen)
}

func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	a.imgui.Layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

func Example() {
	g := game.New(chipmunk.New(chipmunk.DefaultOptions()), game.DefaultOptions())
	g.Start()

	app := &App{
		game:  g,
		imgui: debugui_ebiten.New("rigidtris debug", 1280, 720, g),
	}

	if err := ebiten.RunGame(app); err != nil {
		panic(err)
	}
}
