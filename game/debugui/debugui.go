// Package debugui draws Dear ImGui panels for inspecting a running game.
// Panels are ECS entities in the overlay's own storage, rendered by ImguiSystem.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/rigidtris/ecs"
	"github.com/plus3/rigidtris/game"
)

// ImguiItem is a component that holds a Dear ImGui render function.
// Attach this to entities that should render ImGui widgets each frame.
type ImguiItem struct {
	Render func()
}

// ImguiInputState tracks Dear ImGui's input capture state as a singleton component.
// Use this to determine if ImGui is consuming mouse or keyboard input.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// ImguiSystem queries all ImguiItem components and defers their render functions.
// It also updates the ImguiInputState singleton with current input capture state.
type ImguiSystem struct {
	Items      ecs.Query[struct{ *ImguiItem }]
	InputState ecs.Singleton[ImguiInputState]
}

// Execute updates input state and queues all ImGui render functions for execution.
func (i *ImguiSystem) Execute(frame *ecs.UpdateFrame) {
	state := i.InputState.Get()
	state.WantCaptureMouse = imgui.CurrentIO().WantCaptureMouse()
	state.WantCaptureKeyboard = imgui.CurrentIO().WantCaptureKeyboard()

	for item := range i.Items.Values() {
		frame.Commands.Defer(item.Render)
	}
}

// Overlay owns the debug panels for one game
type Overlay struct {
	storage   *ecs.Storage
	scheduler *ecs.Scheduler
	input     *ecs.Singleton[ImguiInputState]

	stats   *StatsPanel
	browser *BlockBrowser
}

// NewOverlay builds the stats panel and block browser for g
func NewOverlay(g *game.Game) *Overlay {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[ImguiItem](registry)
	storage := ecs.NewStorage(registry)

	o := &Overlay{
		storage:   storage,
		scheduler: ecs.NewScheduler(storage),
		input:     ecs.NewSingleton[ImguiInputState](storage),
		stats:     NewStatsPanel(g, 120),
		browser:   NewBlockBrowser(g, 50),
	}

	storage.Spawn(ImguiItem{Render: o.stats.Render})
	storage.Spawn(ImguiItem{Render: o.browser.Render})
	o.scheduler.Register(&ImguiSystem{})
	return o
}

// Update records the frame time and renders every panel. Call it between the
// backend's BeginFrame and EndFrame.
func (o *Overlay) Update(dt float64) {
	o.stats.Record(dt)
	o.scheduler.Once(dt)
}

// WantsKeyboard reports whether ImGui consumed keyboard input last frame
func (o *Overlay) WantsKeyboard() bool {
	return o.input.Get().WantCaptureKeyboard
}
