package cli

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/formationbot/pkg/formation"
)

// previewCommand creates the preview command.
func (c *CLI) previewCommand() *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "preview [notation]",
		Short: "Print a formation in the terminal",
		Long: `Print a formation in the terminal.

Each dancer is drawn as one character: its label if it has one, otherwise an
arrow for its facing (^ > v <) or its shape (# o +) when it has no facing.
Rows follow the notation rows; columns keep the grid spacing.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			notation, err := readNotation(cmd.InOrStdin(), args, input)
			if err != nil {
				return err
			}
			f := formation.Parse(notation)
			if f.IsEmpty() {
				printWarning("No dancers in %q", notation)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderPreview(layoutPreview(f)))
			loggerFromContext(cmd.Context()).Debug("previewed formation", "dancers", f.Len())
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "read notation from file instead of stdin")

	return cmd
}

// previewCell is one character of the preview grid. A zero glyph is blank.
type previewCell struct {
	glyph rune
	color formation.Color
}

// layoutPreview places each dancer on a character grid: one column per grid
// unit and one line per distinct row coordinate. Later dancers overwrite
// earlier ones at the same position.
func layoutPreview(f formation.Formation) [][]previewCell {
	dancers := f.Dancers()
	if len(dancers) == 0 {
		return nil
	}

	var ys []float64
	minX, maxX := math.Inf(1), math.Inf(-1)
	for _, d := range dancers {
		minX = min(minX, d.X)
		maxX = max(maxX, d.X)
		ys = append(ys, d.Y)
	}
	slices.Sort(ys)
	ys = slices.Compact(ys)

	width := int(math.Round(maxX-minX)) + 1
	grid := make([][]previewCell, len(ys))
	for i := range grid {
		grid[i] = make([]previewCell, width)
	}
	for _, d := range dancers {
		row, _ := slices.BinarySearch(ys, d.Y)
		col := int(math.Round(d.X - minX))
		grid[row][col] = previewCell{glyph: glyph(d), color: d.Color}
	}
	return grid
}

// glyph picks the character drawn for d.
func glyph(d formation.Dancer) rune {
	if d.HasLabel() {
		return []rune(d.Label)[0]
	}
	switch d.Facing.Kind {
	case formation.FacingNorth:
		return '^'
	case formation.FacingEast:
		return '>'
	case formation.FacingSouth:
		return 'v'
	case formation.FacingWest:
		return '<'
	case formation.FacingAngle:
		return '*'
	}
	switch d.Shape {
	case formation.ShapeCircle:
		return 'o'
	case formation.ShapePlus:
		return '+'
	default:
		return '#'
	}
}

// previewColors maps named dancer colors to ANSI colors. Black is drawn gray
// so it stays visible on dark terminals.
var previewColors = map[formation.ColorKind]lipgloss.Color{
	formation.ColorBlack:   lipgloss.Color("250"),
	formation.ColorRed:     lipgloss.Color("1"),
	formation.ColorGreen:   lipgloss.Color("2"),
	formation.ColorYellow:  lipgloss.Color("3"),
	formation.ColorBlue:    lipgloss.Color("4"),
	formation.ColorMagenta: lipgloss.Color("5"),
	formation.ColorCyan:    lipgloss.Color("6"),
}

func cellColor(c formation.Color) lipgloss.Color {
	if c.Kind == formation.ColorRGB {
		return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
	}
	return previewColors[c.Kind]
}

// renderPreview styles the grid, trimming trailing blanks on each line.
func renderPreview(grid [][]previewCell) string {
	lines := make([]string, len(grid))
	for i, row := range grid {
		var b strings.Builder
		for _, cell := range row {
			if cell.glyph == 0 {
				b.WriteByte(' ')
				continue
			}
			style := lipgloss.NewStyle().Bold(true).Foreground(cellColor(cell.color))
			b.WriteString(style.Render(string(cell.glyph)))
		}
		lines[i] = strings.TrimRight(b.String(), " ")
	}
	return strings.Join(lines, "\n")
}
