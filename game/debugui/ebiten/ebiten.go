// Package ebiten hosts the debug overlay inside an Ebiten game.
package ebiten

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/rigidtris/game"
	"github.com/plus3/rigidtris/game/debugui"
)

// ImguiBackend wraps the Ebiten-specific Dear ImGui backend implementation
// together with the overlay it draws.
type ImguiBackend struct {
	*ebitenbackend.EbitenBackend
	overlay *debugui.Overlay
}

// New creates the backend window and the overlay for g
func New(title string, width, height int, g *game.Game) *ImguiBackend {
	backend := ebitenbackend.NewEbitenBackend()
	backend.CreateWindow(title, width, height)
	imgui.CurrentIO().SetIniFilename("") // Disable imgui.ini

	return &ImguiBackend{
		EbitenBackend: backend,
		overlay:       debugui.NewOverlay(g),
	}
}

// Update renders one overlay frame
func (b *ImguiBackend) Update(dt float64) {
	b.BeginFrame()
	b.overlay.Update(dt)
	b.EndFrame()
}

// Draw paints the overlay over screen
func (b *ImguiBackend) Draw(screen *ebiten.Image) {
	b.EbitenBackend.Draw(screen)
}

// WantsKeyboard reports whether game keys should be ignored this frame
func (b *ImguiBackend) WantsKeyboard() bool {
	return b.overlay.WantsKeyboard()
}
