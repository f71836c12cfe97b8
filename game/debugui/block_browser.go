package debugui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/rigidtris/ecs"
	"github.com/plus3/rigidtris/game"
)

// BlockRow is one line of the block browser
type BlockRow struct {
	ID     ecs.EntityId
	Kind   string
	X, Y   float64
	Angle  float64
	Row    int
	Active bool
}

// BlockBrowser lists every block with its position and board row
type BlockBrowser struct {
	game          *game.Game
	rows          []BlockRow
	selected      ecs.EntityId
	filterText    string
	perPage       int
	currentPage   int
	sortColumn    int
	sortAscending bool
}

func NewBlockBrowser(g *game.Game, perPage int) *BlockBrowser {
	return &BlockBrowser{
		game:          g,
		perPage:       perPage,
		sortAscending: true,
	}
}

// Refresh rebuilds the rows from the game
func (bb *BlockBrowser) Refresh() {
	b := bb.game.Board()
	blocks := bb.game.Blocks()

	bb.rows = bb.rows[:0]
	for _, block := range blocks {
		bb.rows = append(bb.rows, BlockRow{
			ID:     block.ID,
			Kind:   block.Kind.String(),
			X:      block.Transform.Position.X,
			Y:      block.Transform.Position.Y,
			Angle:  block.Transform.Angle,
			Row:    b.RowAt(block.Transform.Position.Y),
			Active: block.Active,
		})
	}
	bb.sortRows()
}

func (bb *BlockBrowser) sortRows() {
	sort.SliceStable(bb.rows, func(i, j int) bool {
		a, b := bb.rows[i], bb.rows[j]
		var less bool

		switch bb.sortColumn {
		case 1:
			less = a.Kind < b.Kind
		case 2:
			less = a.X < b.X
		case 3:
			less = a.Y < b.Y
		case 4:
			less = a.Row < b.Row
		default:
			less = a.ID < b.ID
		}

		if !bb.sortAscending {
			return !less
		}
		return less
	})
}

// Filtered returns the rows matching the filter text by id, kind or row
func (bb *BlockBrowser) Filtered() []BlockRow {
	if bb.filterText == "" {
		return bb.rows
	}

	filter := strings.ToLower(bb.filterText)
	filtered := make([]BlockRow, 0, len(bb.rows))
	for _, row := range bb.rows {
		if strings.Contains(fmt.Sprintf("%d", row.ID), filter) ||
			strings.ToLower(row.Kind) == filter ||
			fmt.Sprintf("row %d", row.Row) == filter ||
			(filter == "active" && row.Active) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

func (bb *BlockBrowser) Render() {
	if !imgui.BeginV("Blocks", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	bb.Refresh()

	imgui.InputTextWithHint("##search", "kind, \"row N\", \"active\" or id", &bb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		bb.filterText = ""
	}

	filtered := bb.Filtered()
	totalPages := max(1, (len(filtered)+bb.perPage-1)/bb.perPage)
	bb.currentPage = min(bb.currentPage, totalPages-1)

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("BlockTable", 6, tableFlags, imgui.NewVec2(0, 300), 0) {
		imgui.TableSetupColumn("Entity")
		imgui.TableSetupColumn("Kind")
		imgui.TableSetupColumn("X")
		imgui.TableSetupColumn("Y")
		imgui.TableSetupColumn("Row")
		imgui.TableSetupColumn("Active")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			bb.sortColumn = int(spec.ColumnIndex())
			bb.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			bb.sortRows()
			filtered = bb.Filtered()
			sortSpecs.SetSpecsDirty(false)
		}

		start := bb.currentPage * bb.perPage
		end := min(start+bb.perPage, len(filtered))
		for _, row := range filtered[start:end] {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			if imgui.SelectableBoolV(fmt.Sprintf("%d", row.ID), bb.selected == row.ID, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				bb.selected = row.ID
			}
			imgui.TableNextColumn()
			imgui.Text(row.Kind)
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%.2f", row.X))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%.2f", row.Y))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", row.Row))
			imgui.TableNextColumn()
			if row.Active {
				imgui.Text("yes")
			}
		}

		imgui.EndTable()
	}

	imgui.Text(fmt.Sprintf("Page %d / %d (%d blocks)", bb.currentPage+1, totalPages, len(filtered)))
	imgui.SameLine()
	if imgui.Button("Prev") && bb.currentPage > 0 {
		bb.currentPage--
	}
	imgui.SameLine()
	if imgui.Button("Next") && bb.currentPage < totalPages-1 {
		bb.currentPage++
	}

	if bb.selected != 0 {
		imgui.Separator()
		imgui.Text(fmt.Sprintf("Selected %d: archetype 0x%X slot %d gen %d alive=%t",
			bb.selected, bb.selected.ArchetypeId(), bb.selected.Index(), bb.selected.Generation(),
			bb.game.Storage().Alive(bb.selected)))
	}

	imgui.End()
}
