package tui

import (
	"sort"
	"strings"

	"go-typefight/pkg/constants"
	"go-typefight/pkg/engine"
	"go-typefight/pkg/geo"

	"github.com/charmbracelet/lipgloss"
)

type placed struct {
	col   int
	width int
	text  string
}

// cell maps an arena position onto a width x height grid. The origin lands in
// the middle.
func cell(position geo.Position, width int, height int) (int, int) {
	col := int((position.X + constants.ArenaHalfWidth) / (2 * constants.ArenaHalfWidth) * float64(width-1))
	row := int((position.Y + constants.ArenaHalfHeight) / (2 * constants.ArenaHalfHeight) * float64(height-1))
	return min(max(col, 0), width-1), min(max(row, 0), height-1)
}

func (m Model) renderWord(enemy engine.EnemyView) string {
	runes := []rune(enemy.Word)
	typed := min(enemy.Typed, len(runes))
	rest := m.wordStyle
	if enemy.Targeted {
		rest = m.targetStyle
	}
	return m.typedStyle.Render(string(runes[:typed])) + rest.Render(string(runes[typed:]))
}

// renderArena draws the live enemies around the player. Words that would
// overlap one already drawn on the same row are left out of the frame.
func (m Model) renderArena(snapshot engine.Snapshot, width int, height int) string {
	rows := make([][]placed, height)

	playerCol, playerRow := cell(geo.NewPosition(0, 0), width, height)
	rows[playerRow] = append(rows[playerRow], placed{col: playerCol, width: 1, text: m.playerStyle.Render("@")})

	for _, enemy := range snapshot.Enemies {
		if !enemy.Alive {
			continue
		}
		col, row := cell(enemy.Position, width, height)
		wordWidth := lipgloss.Width(enemy.Word)
		col = max(min(col, width-wordWidth), 0)
		rows[row] = append(rows[row], placed{col: col, width: wordWidth, text: m.renderWord(enemy)})
	}

	lines := make([]string, height)
	for i, items := range rows {
		sort.SliceStable(items, func(a, b int) bool { return items[a].col < items[b].col })

		var line strings.Builder
		cursor := 0
		for _, item := range items {
			if item.col < cursor {
				continue
			}
			line.WriteString(strings.Repeat(" ", item.col-cursor))
			line.WriteString(item.text)
			cursor = item.col + item.width
		}
		lines[i] = line.String()
	}
	return strings.Join(lines, "\n")
}
