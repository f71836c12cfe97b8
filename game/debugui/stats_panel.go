package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/rigidtris/game"
)

// StatsPanel shows the session counters, health and per-system timings
type StatsPanel struct {
	game          *game.Game
	historyFrames int
	frameHistory  []float32
	frameIndex    int
}

func NewStatsPanel(g *game.Game, historyFrames int) *StatsPanel {
	return &StatsPanel{
		game:          g,
		historyFrames: historyFrames,
		frameHistory:  make([]float32, historyFrames),
	}
}

// Record adds a frame time to the history ring
func (sp *StatsPanel) Record(dt float64) {
	sp.frameHistory[sp.frameIndex] = float32(dt * 1000.0)
	sp.frameIndex = (sp.frameIndex + 1) % sp.historyFrames
}

// AverageFrameMs is the mean of the recorded frame times
func (sp *StatsPanel) AverageFrameMs() float32 {
	var sum float32
	for _, ft := range sp.frameHistory {
		sum += ft
	}
	return sum / float32(sp.historyFrames)
}

func (sp *StatsPanel) Render() {
	if !imgui.BeginV("Game Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	stats := sp.game.Stats()
	imgui.Text(fmt.Sprintf("Generated: %d", stats.GeneratedBlocks))
	imgui.Text(fmt.Sprintf("Cleared: %d", stats.ClearedBlocks))
	imgui.Text(fmt.Sprintf("Lost: %d", stats.LostBlocks))
	imgui.Text(fmt.Sprintf("Lost tetromino: %t", stats.LostTetromino))
	imgui.Text(fmt.Sprintf("Health: %.3f", stats.Health()))
	imgui.ProgressBarV(float32(sp.game.HealthBar()), imgui.NewVec2(-1, 0), "health bar")

	if kind, ok := sp.game.ActiveKind(); ok {
		imgui.Text(fmt.Sprintf("Active: %s (%d joints)", kind, len(sp.game.ActiveJoints())))
	} else {
		imgui.Text("Active: none")
	}
	if sp.game.Over() {
		imgui.Text("GAME OVER")
	}

	imgui.Separator()
	avg := sp.AverageFrameMs()
	if avg > 0 {
		imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avg, 1000.0/avg))
	}
	imgui.PlotLinesFloatPtr("##frametime", &sp.frameHistory[0], int32(len(sp.frameHistory)))

	if imgui.TreeNodeStr("Systems") {
		imgui.Text(fmt.Sprintf("Ticks: %d", sp.game.Scheduler().GetStats().Ticks))
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("SystemTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("System")
			imgui.TableSetupColumn("Last")
			imgui.TableSetupColumn("Avg")
			imgui.TableSetupColumn("Max")
			imgui.TableHeadersRow()

			for _, system := range sp.game.Scheduler().GetStats().Systems {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(system.Name)
				imgui.TableNextColumn()
				imgui.Text(system.LastDuration.Round(time.Microsecond).String())
				imgui.TableNextColumn()
				imgui.Text(system.AvgDuration.Round(time.Microsecond).String())
				imgui.TableNextColumn()
				imgui.Text(system.MaxDuration.Round(time.Microsecond).String())
			}
			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Storage") {
		storageStats := sp.game.Storage().CollectStats()
		imgui.Text(fmt.Sprintf("Entities: %d in %d archetypes", storageStats.TotalEntityCount, storageStats.ArchetypeCount))
		for _, arch := range storageStats.ArchetypeBreakdown {
			imgui.BulletText(fmt.Sprintf("0x%X %v: %d", arch.ID, arch.ComponentTypes, arch.EntityCount))
		}
		for _, singletonType := range storageStats.SingletonTypes {
			imgui.BulletText(singletonType)
		}
		imgui.TreePop()
	}

	imgui.End()
}
